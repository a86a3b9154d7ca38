package ansi

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette is the set of colors styles are built from.
type Palette struct {
	Heading lipgloss.Color
	Accent  lipgloss.Color
	Code    lipgloss.Color
	Muted   lipgloss.Color
	Link    lipgloss.Color
}

// DefaultPalette returns a gruvbox-like palette readable on dark backgrounds.
func DefaultPalette() Palette {
	return Palette{
		Heading: lipgloss.Color("#fabd2f"),
		Accent:  lipgloss.Color("#83a598"),
		Code:    lipgloss.Color("#fe8019"),
		Muted:   lipgloss.Color("#928374"),
		Link:    lipgloss.Color("#8ec07c"),
	}
}

// Styles holds one lipgloss style per rendered construct.
type Styles struct {
	renderer *lipgloss.Renderer

	Heading  lipgloss.Style
	Title    lipgloss.Style
	Emphasis lipgloss.Style
	Strong   lipgloss.Style
	Strike   lipgloss.Style
	Code     lipgloss.Style
	Link     lipgloss.Style
	URL      lipgloss.Style
	Quote    lipgloss.Style
	Rule     lipgloss.Style
	Border   lipgloss.Style
	Bullet   lipgloss.Style
	Term     lipgloss.Style
	HTML     lipgloss.Style
	NoteRef  lipgloss.Style
}

// NewStyles builds styles for a color profile.
func NewStyles(profile termenv.Profile, palette Palette) *Styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)

	return &Styles{
		renderer: r,

		Heading: r.NewStyle().
			Bold(true).
			Foreground(palette.Heading),

		Title: r.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(palette.Heading),

		Emphasis: r.NewStyle().Italic(true),
		Strong:   r.NewStyle().Bold(true),
		Strike:   r.NewStyle().Strikethrough(true),

		Code: r.NewStyle().
			Foreground(palette.Code),

		Link: r.NewStyle().
			Underline(true).
			Foreground(palette.Link),

		URL: r.NewStyle().
			Foreground(palette.Muted),

		Quote:   r.NewStyle().Foreground(palette.Accent),
		Rule:    r.NewStyle().Foreground(palette.Muted),
		Border:  r.NewStyle().Foreground(palette.Muted),
		Bullet:  r.NewStyle().Foreground(palette.Accent),
		Term:    r.NewStyle().Bold(true),
		HTML:    r.NewStyle().Foreground(palette.Muted),
		NoteRef: r.NewStyle().Foreground(palette.Accent),
	}
}

// Profile reports the color profile the styles render for.
func (s *Styles) Profile() termenv.Profile {
	return s.renderer.ColorProfile()
}
