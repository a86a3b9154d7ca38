package html

import (
	"bytes"
)

var safePrefixes = [][]byte{
	[]byte("http://"),
	[]byte("https://"),
	[]byte("ftp://"),
	[]byte("mailto:"),
}

// isRelativeLink reports whether link points into the current site.
func isRelativeLink(link []byte) bool {
	if len(link) == 0 {
		return true
	}
	switch {
	case link[0] == '#':
		return true
	case link[0] == '/':
		return len(link) == 1 || link[1] != '/'
	case bytes.HasPrefix(link, []byte("./")), bytes.HasPrefix(link, []byte("../")):
		return true
	}
	// no scheme before the first path separator
	colon := bytes.IndexByte(link, ':')
	if colon < 0 {
		return true
	}
	slash := bytes.IndexAny(link, "/?#")
	return slash >= 0 && slash < colon
}

func isSafeLink(link []byte) bool {
	if isRelativeLink(link) {
		return true
	}
	lower := bytes.ToLower(link)
	for _, prefix := range safePrefixes {
		if bytes.HasPrefix(lower, prefix) && len(link) > len(prefix) {
			return true
		}
	}
	return false
}

// anchorName turns a footnote label into an id fragment.
func anchorName(name []byte) string {
	var b bytes.Buffer
	dash := false
	for _, c := range bytes.ToLower(name) {
		if isAlnum(c) || c >= 0x80 {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteByte(c)
			continue
		}
		dash = true
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
