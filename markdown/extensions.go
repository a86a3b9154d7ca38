package markdown

import (
	"strings"

	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
	"git.home.luguber.info/inful/docmark/internal/foundation/normalization"
)

// Extensions is a bitmask of optional dialect features. The bit values are
// stable and may be persisted.
type Extensions uint32

const (
	NoIntraEmphasis        Extensions = 1 << iota // ignore emphasis markers inside words
	Tables                                        // pipe tables
	FencedCode                                    // ``` and ~~~ code blocks
	Autolink                                      // detect bare URLs
	Strikethrough                                 // ~~text~~
	LaxHTMLBlocks                                 // HTML blocks need no trailing blank line
	SpaceHeaders                                  // "# " requires the space
	HardLineBreak                                 // every newline is a line break
	TabSizeEight                                  // tabs expand to 8 columns
	Footnotes                                     // [^note] references
	NoEmptyLineBeforeBlock                        // lists, quotes and code may interrupt a paragraph
	HeaderIDs                                     // "# Title {#id}"
	Titleblock                                    // leading "% title" lines
	AutoHeaderIDs                                 // ids generated from header text
	BackslashLineBreak                            // "\" at end of line is a line break
	DefinitionLists                               // "Term\n: definition"
	JoinLines                                     // drop newlines inside paragraphs

	NoExtensions Extensions = 0

	CommonExtensions = NoIntraEmphasis | Tables | FencedCode | Autolink |
		Strikethrough | SpaceHeaders | HeaderIDs | BackslashLineBreak |
		DefinitionLists
)

var extensionNames = []struct {
	flag Extensions
	name string
}{
	{NoIntraEmphasis, "no_intra_emphasis"},
	{Tables, "tables"},
	{FencedCode, "fenced_code"},
	{Autolink, "autolink"},
	{Strikethrough, "strikethrough"},
	{LaxHTMLBlocks, "lax_html_blocks"},
	{SpaceHeaders, "space_headers"},
	{HardLineBreak, "hard_line_break"},
	{TabSizeEight, "tab_size_eight"},
	{Footnotes, "footnotes"},
	{NoEmptyLineBeforeBlock, "no_empty_line_before_block"},
	{HeaderIDs, "header_ids"},
	{Titleblock, "titleblock"},
	{AutoHeaderIDs, "auto_header_ids"},
	{BackslashLineBreak, "backslash_line_break"},
	{DefinitionLists, "definition_lists"},
	{JoinLines, "join_lines"},
}

var extensionNormalizer = func() *normalization.EnumNormalizer[Extensions] {
	values := map[string]Extensions{
		"common": CommonExtensions,
		"none":   NoExtensions,
	}
	for _, e := range extensionNames {
		values[e.name] = e.flag
	}
	return normalization.NewEnumNormalizer("markdown extension", values, NoExtensions)
}()

// Has reports whether every bit of flag is set.
func (e Extensions) Has(flag Extensions) bool {
	return e&flag == flag
}

// String lists the set flags joined by '|', or "none".
func (e Extensions) String() string {
	var names []string
	for _, n := range extensionNames {
		if e&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseExtensions combines extension names into a bitmask. Names are
// matched case-insensitively with '-' and '_' interchangeable; "common"
// selects CommonExtensions.
func ParseExtensions(names []string) (Extensions, error) {
	flags, err := extensionNormalizer.NormalizeAll(names)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryValidation, "unknown markdown extension").
			WithContext("valid", strings.Join(extensionNormalizer.ValidValues(), ", ")).
			Build()
	}
	var e Extensions
	for _, f := range flags {
		e |= f
	}
	return e, nil
}

// ExtensionNames returns the accepted extension names.
func ExtensionNames() []string {
	return extensionNormalizer.ValidValues()
}
