package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// ErrUnsafeDir is returned when Export is asked to clean a directory it
// must not remove.
var ErrUnsafeDir = errors.New("refusing to export into unsafe directory")

// Export writes the complete static site to dir, replacing whatever was
// there. It returns the number of files written. Export refuses to clean
// the filesystem root, the working directory, the home directory, the
// content directory or any of their ancestors.
func (s *Site) Export(ctx context.Context, dir string) (int, error) {
	if err := s.checkOutputDir(dir); err != nil {
		return 0, err
	}
	clean := filepath.Clean(dir)
	if err := os.RemoveAll(clean); err != nil {
		return 0, fmt.Errorf("cleaning %s: %w", clean, err)
	}
	if err := os.MkdirAll(clean, 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", clean, err)
	}

	files, err := s.files()
	if err != nil {
		return 0, err
	}

	n := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		target := filepath.Join(clean, filepath.FromSlash(f.path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return n, fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
		}
		if err := atomic.WriteFile(target, bytes.NewReader(f.data)); err != nil {
			return n, fmt.Errorf("writing %s: %w", f.path, err)
		}
		n++
	}
	s.logger.Info("exported site", "dir", clean, "files", n)
	return n, nil
}

func (s *Site) checkOutputDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("%w: empty path", ErrUnsafeDir)
	}
	out, err := resolve(dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dir, err)
	}
	if filepath.Dir(out) == out {
		return fmt.Errorf("%w: %q is a filesystem root", ErrUnsafeDir, dir)
	}

	protected := map[string]string{}
	if wd, err := os.Getwd(); err == nil {
		protected["working directory"] = wd
	}
	if home, err := os.UserHomeDir(); err == nil {
		protected["home directory"] = home
	}
	for name, p := range protected {
		rp, err := resolve(p)
		if err != nil {
			continue
		}
		if within(out, rp) {
			return fmt.Errorf("%w: %q contains the %s", ErrUnsafeDir, dir, name)
		}
	}

	if s.opts.ContentDir != "" {
		cdir, err := resolve(s.opts.ContentDir)
		if err == nil && (within(out, cdir) || within(cdir, out)) {
			return fmt.Errorf("%w: %q overlaps the content directory", ErrUnsafeDir, dir)
		}
	}
	return nil
}

// resolve returns the absolute form of p with symlinks evaluated as far
// as the path exists.
func resolve(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		return r, nil
	}
	parent, base := filepath.Split(abs)
	if r, err := filepath.EvalSymlinks(parent); err == nil {
		return filepath.Join(r, base), nil
	}
	return abs, nil
}

// within reports whether child is parent or lies below it.
func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

type file struct {
	path string
	data []byte
}

// files renders every page of the current catalog into memory.
func (s *Site) files() ([]file, error) {
	var out []file
	add := func(p string, render func(*bytes.Buffer) error) error {
		var buf bytes.Buffer
		if err := render(&buf); err != nil {
			return err
		}
		out = append(out, file{path: p, data: buf.Bytes()})
		return nil
	}

	if err := add("index.html", func(b *bytes.Buffer) error { return s.Home(b) }); err != nil {
		return nil, err
	}
	if err := add("thoughts/index.html", func(b *bytes.Buffer) error { return s.ThoughtIndex(b) }); err != nil {
		return nil, err
	}
	for _, t := range s.src.Catalog().Thoughts {
		slug := t.Slug
		p := path.Join("thoughts", slug, "index.html")
		if err := add(p, func(b *bytes.Buffer) error { return s.Thought(b, slug) }); err != nil {
			return nil, err
		}
	}
	if err := add("404.html", func(b *bytes.Buffer) error { return s.NotFound(b) }); err != nil {
		return nil, err
	}

	out = append(out,
		file{path: "assets/site.css", data: s.Stylesheet()},
		file{path: "assets/site.js", data: s.Script()},
		file{path: ".nojekyll", data: nil},
	)
	return out, nil
}
