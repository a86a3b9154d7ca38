package markdown

import (
	"strconv"
	"strings"
	"unicode"
)

// idRegistry hands out unique header ids for one render.
type idRegistry struct {
	seen map[string]int
}

// unique returns id, or id with a "-N" suffix when id was already used.
func (r *idRegistry) unique(id string) string {
	if r.seen == nil {
		r.seen = make(map[string]int)
	}
	n, taken := r.seen[id]
	if !taken {
		r.seen[id] = 0
		return id
	}
	for {
		n++
		candidate := id + "-" + strconv.Itoa(n)
		if _, taken := r.seen[candidate]; !taken {
			r.seen[id] = n
			r.seen[candidate] = 0
			return candidate
		}
	}
}

// slugify lowercases text and joins its runs of letters and digits with '-'.
func (p *parser) slugify(text []byte) string {
	var b strings.Builder
	dash := false
	for _, r := range p.lower.String(string(text)) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}
