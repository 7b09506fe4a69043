// Package ebook assembles the book's Markdown chapters and stages the
// assets an ebook build needs into a build directory.
package ebook

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"bookkit/internal/config"
	"bookkit/internal/logging"
	"bookkit/internal/types"
)

// imagesSubdir doubles as the marker that a build dir has been populated.
const imagesSubdir = "images"

// epubScratch is left behind by epub conversion and cleared before a build.
const epubScratch = "epub_files"

// Populate copies fonts, cover, CSS, metadata, the LaTeX resources and
// finally images into dir. Images go last because their presence marks dir
// as populated.
func Populate(cfg config.EbookConfig, dir string) error {
	log := logging.Get(logging.CategoryEbook)

	if err := requireDir(cfg.FontsDir); err != nil {
		return err
	}
	fonts, err := os.ReadDir(cfg.FontsDir)
	if err != nil {
		return fmt.Errorf("failed to list fonts: %w", err)
	}
	for _, font := range fonts {
		if font.IsDir() {
			continue
		}
		if err := copyInto(filepath.Join(cfg.FontsDir, font.Name()), dir); err != nil {
			return err
		}
	}

	for _, asset := range []string{cfg.Cover, cfg.CSS, cfg.Metadata} {
		if err := copyInto(asset, dir); err != nil {
			return err
		}
	}
	for _, name := range cfg.Resources {
		if err := copyInto(filepath.Join(cfg.ResourcesDir, name), dir); err != nil {
			return err
		}
	}

	if err := requireDir(cfg.ImagesDir); err != nil {
		return err
	}
	if err := os.CopyFS(filepath.Join(dir, imagesSubdir), os.DirFS(cfg.ImagesDir)); err != nil {
		_ = RemoveDir(filepath.Join(dir, imagesSubdir))
		return fmt.Errorf("failed to copy images: %w", err)
	}

	log.Infow("build dir populated", "dir", dir, "fonts", len(fonts), "resources", len(cfg.Resources))
	return nil
}

// RemoveDir deletes dir and everything below it. A missing dir is fine.
func RemoveDir(dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	logging.Get(logging.CategoryEbook).Infow("removing", "dir", dir)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("could not remove %s: %w", dir, err)
	}
	return nil
}

// Recreate replaces dir with a freshly populated build directory.
func Recreate(cfg config.EbookConfig, dir string) error {
	if err := RemoveDir(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return Populate(cfg, dir)
}

// Ensure prepares dir for a build: it is populated once, the CSS is always
// refreshed and leftover epub scratch files are removed.
func Ensure(cfg config.EbookConfig, dir string) error {
	log := logging.Get(logging.CategoryEbook)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if !IsPopulated(dir) {
		if err := Populate(cfg, dir); err != nil {
			return err
		}
	}
	if err := copyInto(cfg.CSS, dir); err != nil {
		return err
	}
	log.Infow("css refreshed", "css", cfg.CSS)

	if err := RemoveDir(filepath.Join(dir, epubScratch)); err != nil {
		return err
	}
	return nil
}

// IsPopulated reports whether Populate has run for dir.
func IsPopulated(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, imagesSubdir))
	return err == nil && info.IsDir()
}

func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return types.MissingPrerequisite("%s does not exist", dir)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return types.MissingPrerequisite("%s is not a directory", dir)
	}
	return nil
}

// copyInto copies the file src into dir, keeping its base name.
func copyInto(src, dir string) error {
	in, err := os.Open(src)
	if errors.Is(err, fs.ErrNotExist) {
		return types.MissingPrerequisite("%s does not exist", src)
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	dst := filepath.Join(dir, filepath.Base(src))
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
