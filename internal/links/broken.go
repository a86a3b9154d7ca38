package links

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// BrokenLink is a local link whose target does not exist on disk.
type BrokenLink struct {
	Source string
	Link   Link
	Target string
}

// IsLocal reports whether dest points at a file next to the document
// rather than at another site, a mail address or an anchor.
func IsLocal(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "//") {
		return false
	}
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// resolveTarget maps a local destination to a filesystem path. Site-rooted
// destinations resolve against root, others against the source directory.
func resolveTarget(sourceFile, root, dest string) string {
	target := dest
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}
	if strings.HasPrefix(target, "/") {
		return filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(target, "/")))
	}
	return filepath.Join(filepath.Dir(sourceFile), filepath.FromSlash(target))
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FindBroken checks the local links of sourceFile. A target also counts
// as present when adding ".md" or ".markdown" names an existing file.
func FindBroken(sourceFile, root string, links []Link) []BrokenLink {
	var broken []BrokenLink
	for _, l := range links {
		if !IsLocal(l.Destination) {
			continue
		}
		target := resolveTarget(sourceFile, root, l.Destination)
		if exists(target) || exists(target+".md") || exists(target+".markdown") {
			continue
		}
		broken = append(broken, BrokenLink{Source: sourceFile, Link: l, Target: target})
	}
	return broken
}
