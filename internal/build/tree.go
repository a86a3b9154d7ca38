package build

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docmark/internal/config"
	"git.home.luguber.info/inful/docmark/internal/foundation/errors"
	"git.home.luguber.info/inful/docmark/internal/logfields"
)

// FileOptions control how files on disk are rendered.
type FileOptions struct {
	Format          config.OutputFormat
	IncludeDrafts   bool
	SkipIfUnchanged bool
}

// TreeResult summarizes a RenderTree run.
type TreeResult struct {
	Rendered int
	Skipped  int
	Drafts   int
	Failed   int
	Assets   int
}

// RenderFile renders srcPath and writes the output to outPath. Documents
// marked as drafts are not written unless IncludeDrafts is set, and
// unchanged documents are not rewritten. Fingerprints are recorded only
// once the output is on disk.
func (s *DefaultRenderService) RenderFile(ctx context.Context, srcPath, outPath string, opts FileOptions) (*RenderResult, error) {
	content, err := os.ReadFile(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError("document not found").WithContext("path", srcPath).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", srcPath).
			Build()
	}

	res, err := s.Render(ctx, RenderRequest{
		Name:            srcPath,
		Content:         content,
		Format:          opts.Format,
		SkipIfUnchanged: opts.SkipIfUnchanged,
	})
	if err != nil {
		return res, err
	}
	if res.Status == RenderStatusSkipped || (res.Draft && !opts.IncludeDrafts) {
		return res, nil
	}
	if err := writeFile(outPath, res.Output); err != nil {
		return res, err
	}
	if opts.SkipIfUnchanged && s.skip != nil {
		s.skip.Record(srcPath, res.Fingerprint)
	}
	return res, nil
}

// RenderTree renders every markdown document under srcDir into outDir,
// mirroring the directory layout, and copies assets alongside. A failing
// document does not stop the walk; the first failure is returned after
// the rest are processed.
func (s *DefaultRenderService) RenderTree(ctx context.Context, srcDir, outDir string, opts FileOptions) (*TreeResult, error) {
	if opts.Format == "" {
		opts.Format = s.cfg.Output.Format
	}
	files, err := Discover(srcDir)
	if err != nil {
		return nil, err
	}

	result := &TreeResult{}
	var firstErr error
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if f.Asset {
			if err := copyFile(f.Path, filepath.Join(outDir, f.RelativePath)); err != nil {
				result.Failed++
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			result.Assets++
			continue
		}

		res, err := s.RenderFile(ctx, f.Path, filepath.Join(outDir, OutputPath(f.RelativePath, opts.Format)), opts)
		switch {
		case err != nil:
			result.Failed++
			slog.Warn("Document failed to render", logfields.Path(f.RelativePath), logfields.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		case res.Status == RenderStatusSkipped:
			result.Skipped++
		case res.Draft && !opts.IncludeDrafts:
			result.Drafts++
		default:
			result.Rendered++
		}
	}

	slog.Info("Rendered tree",
		logfields.Path(srcDir),
		slog.Int("rendered", result.Rendered),
		slog.Int("skipped", result.Skipped),
		slog.Int("drafts", result.Drafts),
		slog.Int("failed", result.Failed),
		slog.Int("assets", result.Assets))
	return result, firstErr
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", path).
			Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
			WithContext("path", path).
			Build()
	}
	return nil
}

func copyFile(src, dst string) (err error) {
	wrap := func(err error, msg string) error {
		return errors.WrapError(err, errors.CategoryFileSystem, msg).
			WithContext("source", src).
			WithContext("destination", dst).
			Build()
	}
	in, err := os.Open(src)
	if err != nil {
		return wrap(err, "failed to open asset")
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return wrap(err, "failed to create output directory")
	}
	out, err := os.Create(dst)
	if err != nil {
		return wrap(err, "failed to create asset")
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = wrap(cerr, "failed to close asset")
		}
	}()
	if _, err := io.Copy(out, in); err != nil {
		return wrap(err, "failed to copy asset")
	}
	return nil
}
