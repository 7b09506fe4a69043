package ebook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"bookkit/internal/logging"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Chapters returns the chapter files of sourceDir whose names match
// pattern, in name order.
func Chapters(sourceDir, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid chapter pattern %q", pattern)
	}
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sourceDir, err)
	}
	var chapters []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := doublestar.Match(pattern, e.Name()); ok {
			chapters = append(chapters, e.Name())
		}
	}
	sort.Strings(chapters)
	return chapters, nil
}

// Combine concatenates the chapters of sourceDir into target, each followed
// by a newline, and returns the chapter names used.
func Combine(sourceDir, pattern, target string) ([]string, error) {
	chapters, err := Chapters(sourceDir, pattern)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, name := range chapters {
		data, err := os.ReadFile(filepath.Join(sourceDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read chapter %s: %w", name, err)
		}
		b.Write(data)
		b.WriteString("\n")
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(target), err)
	}
	if err := os.WriteFile(target, []byte(b.String()), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", target, err)
	}

	logging.Get(logging.CategoryEbook).Infow("book assembled", "target", target, "chapters", len(chapters), "bytes", b.Len())
	return chapters, nil
}

// settle is how long Watch waits after the last chapter event before
// reassembling, so that an editor's save burst triggers one rebuild.
const settle = 200 * time.Millisecond

// Watch reassembles target whenever a chapter in sourceDir is written,
// created, renamed or removed, until ctx is done. onCombine, if set, is
// called after each rebuild.
func Watch(ctx context.Context, sourceDir, pattern, target string, onCombine func([]string, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(sourceDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", sourceDir, err)
	}
	log := logging.Get(logging.CategoryEbook)
	log.Infow("watching chapters", "dir", sourceDir, "pattern", pattern)

	timer := time.NewTimer(settle)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if match, _ := doublestar.Match(pattern, filepath.Base(event.Name)); !match {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Debugw("chapter changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(settle)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnw("watch error", "error", err)
		case <-timer.C:
			chapters, err := Combine(sourceDir, pattern, target)
			if onCombine != nil {
				onCombine(chapters, err)
			}
		}
	}
}
