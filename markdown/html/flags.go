package html

import (
	"strings"

	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
	"git.home.luguber.info/inful/docmark/internal/foundation/normalization"
)

// Flags control optional HTML output behavior.
type Flags int

const (
	SkipHTML            Flags = 1 << iota // drop raw HTML blocks and tags
	SkipStyle                             // drop <style> blocks and tags
	SkipImages                            // drop images
	SkipLinks                             // render link text without the anchor
	Safelink                              // only link to http, https, ftp, mailto and relative targets
	NofollowLinks                         // rel="nofollow" on absolute links
	NoreferrerLinks                       // rel="noreferrer" on absolute links
	HrefTargetBlank                       // target="_blank" on absolute links
	UseXHTML                              // self-closing void tags
	CompletePage                          // wrap the output in a full document
	FootnoteReturnLinks                   // link each footnote back to its reference

	NoFlags Flags = 0

	CommonFlags = UseXHTML
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{SkipHTML, "skip_html"},
	{SkipStyle, "skip_style"},
	{SkipImages, "skip_images"},
	{SkipLinks, "skip_links"},
	{Safelink, "safelink"},
	{NofollowLinks, "nofollow_links"},
	{NoreferrerLinks, "noreferrer_links"},
	{HrefTargetBlank, "href_target_blank"},
	{UseXHTML, "use_xhtml"},
	{CompletePage, "complete_page"},
	{FootnoteReturnLinks, "footnote_return_links"},
}

var flagNormalizer = func() *normalization.EnumNormalizer[Flags] {
	values := map[string]Flags{
		"common": CommonFlags,
		"none":   NoFlags,
	}
	for _, f := range flagNames {
		values[f.name] = f.flag
	}
	return normalization.NewEnumNormalizer("html flag", values, NoFlags)
}()

func (f Flags) String() string {
	var names []string
	for _, n := range flagNames {
		if f&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseFlags combines flag names into a bitmask, with the same name rules
// as markdown.ParseExtensions.
func ParseFlags(names []string) (Flags, error) {
	values, err := flagNormalizer.NormalizeAll(names)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryValidation, "unknown html flag").
			WithContext("valid", strings.Join(flagNormalizer.ValidValues(), ", ")).
			Build()
	}
	var f Flags
	for _, v := range values {
		f |= v
	}
	return f, nil
}
