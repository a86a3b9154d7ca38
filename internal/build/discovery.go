package build

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docmark/internal/config"
	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
)

// DocFile is a file found under a source directory.
type DocFile struct {
	// Path is the file path as found on disk.
	Path string
	// RelativePath is relative to the source directory.
	RelativePath string
	// Asset is true for non-markdown files copied as is.
	Asset bool
}

// Discover walks root for markdown documents and assets. Hidden files and
// directories are skipped. Results are sorted by relative path.
func Discover(root string) ([]DocFile, error) {
	var files []DocFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		md := IsMarkdownFile(path)
		if !md && !isAsset(path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, DocFile{Path: path, RelativePath: rel, Asset: !md})
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk source directory").
			WithContext("path", root).
			Build()
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelativePath < files[j].RelativePath })
	return files, nil
}

// IsMarkdownFile checks if a file is a markdown file.
func IsMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown" || ext == ".mdown" || ext == ".mkd"
}

var assetExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true, ".webp": true,
	".css": true, ".pdf": true,
}

func isAsset(filename string) bool {
	return assetExtensions[strings.ToLower(filepath.Ext(filename))]
}

// OutputPath maps a markdown path to its rendered name: ".html" for html
// output and ".txt" for terminal output.
func OutputPath(rel string, format config.OutputFormat) string {
	base := strings.TrimSuffix(rel, filepath.Ext(rel))
	if format == config.OutputFormatANSI {
		return base + ".txt"
	}
	return base + ".html"
}
