package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docmark/internal/build"
	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
	"git.home.luguber.info/inful/docmark/internal/frontmatter"
	"git.home.luguber.info/inful/docmark/internal/links"
)

// LinksCmd implements the 'links' command.
type LinksCmd struct {
	Paths []string `arg:"" help:"Markdown files or directories."`
	Check bool     `help:"Only report local links whose target does not exist; fail when any are found."`
	Root  string   `help:"Directory that site-rooted links (starting with /) resolve against. Defaults to the directory argument, or the file's directory."`
}

func (l *LinksCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	mopts, err := cfg.MarkdownOptions()
	if err != nil {
		return err
	}
	opts := links.Options{Extensions: mopts.Extensions}

	broken := 0
	for _, p := range l.Paths {
		files, siteRoot, err := l.expand(p)
		if err != nil {
			return err
		}
		for _, file := range files {
			found, err := extractFile(file, opts)
			if err != nil {
				return err
			}
			if !l.Check {
				printLinks(g.Stdout, file, found)
				continue
			}
			for _, b := range links.FindBroken(file, siteRoot, found) {
				broken++
				fmt.Fprintf(g.Stdout, "%s: broken %s link %q (%s)\n", b.Source, b.Link.Kind, b.Link.Destination, b.Target)
			}
		}
	}

	if broken > 0 {
		return errors.ValidationError(fmt.Sprintf("%d broken link(s) found", broken)).Build()
	}
	return nil
}

// expand lists the markdown files named by p and the root that site-rooted
// links resolve against.
func (l *LinksCmd) expand(p string) ([]string, string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, "", errors.NotFoundError("path not found").WithContext("path", p).Build()
	}

	siteRoot := l.Root
	if !info.IsDir() {
		if siteRoot == "" {
			siteRoot = filepath.Dir(p)
		}
		return []string{p}, siteRoot, nil
	}
	if siteRoot == "" {
		siteRoot = p
	}
	docs, err := build.Discover(p)
	if err != nil {
		return nil, "", err
	}
	var files []string
	for _, d := range docs {
		if !d.Asset {
			files = append(files, d.Path)
		}
	}
	return files, siteRoot, nil
}

func extractFile(path string, opts links.Options) ([]links.Link, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", path).
			Build()
	}
	doc, err := frontmatter.Parse(content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid frontmatter").
			WithContext("path", path).
			Build()
	}
	return links.ExtractLinks(doc.Body, opts)
}

func printLinks(w io.Writer, file string, found []links.Link) {
	for _, link := range found {
		if link.Title != "" {
			fmt.Fprintf(w, "%s\t%s\t%s\t%q\n", file, link.Kind, link.Destination, link.Title)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", file, link.Kind, link.Destination)
	}
}
