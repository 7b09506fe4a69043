// Package github maintains the local checkout of the public example-code
// repository: it clears out the previous examples, copies the freshly
// extracted tree in and stamps every source file with the copyright header.
package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"bookkit/internal/config"
	"bookkit/internal/examples"
	"bookkit/internal/logging"
	"bookkit/internal/types"
)

// copyrightMarker identifies a file that already carries the header.
const copyrightMarker = "Copyright.txt"

// InsertCopyright returns lines with the copyright header inserted after the
// first line. The header is commented with "#" when the first line is a hash
// comment and with "//" otherwise. Lines that already carry the header on
// their second line are returned unchanged.
func InsertCopyright(lines, copyright []string) []string {
	if len(lines) == 0 {
		return lines
	}
	if len(lines) > 1 && strings.Contains(lines[1], copyrightMarker) {
		return lines
	}
	marker := "//"
	if strings.HasPrefix(lines[0], "#") {
		marker = "#"
	}

	out := make([]string, 0, len(lines)+len(copyright))
	out = append(out, lines[0])
	for _, c := range copyright {
		out = append(out, marker+" "+c)
	}
	return append(out, lines[1:]...)
}

// AddCopyright stamps the header onto every example source under CodeDir
// whose first line is a comment. It returns the number of files changed.
func AddCopyright(cfg config.GitHubConfig, w io.Writer) (int, error) {
	log := logging.Get(logging.CategoryGitHub)
	fmt.Fprintln(w, "Ensuring copyright")

	rels, err := examples.SourceFiles(cfg.CodeDir, cfg.Extensions...)
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, rel := range rels {
		path := filepath.Join(cfg.CodeDir, filepath.FromSlash(rel))
		info, err := os.Stat(path)
		if err != nil {
			return changed, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return changed, fmt.Errorf("failed to read %s: %w", path, err)
		}

		lines := strings.Split(string(data), "\n")
		if !strings.HasPrefix(lines[0], "// ") && !strings.HasPrefix(lines[0], "# ") {
			continue
		}
		stamped := InsertCopyright(lines, cfg.CopyrightLines)
		if len(stamped) == len(lines) {
			continue
		}
		if err := os.WriteFile(path, []byte(strings.Join(stamped, "\n")), info.Mode().Perm()); err != nil {
			return changed, fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Debugw("copyright added", "file", rel)
		changed++
	}
	log.Infow("copyright ensured", "dir", cfg.CodeDir, "scanned", len(rels), "changed", changed)
	return changed, nil
}

// CleanDir removes every top-level entry of CodeDir except hidden entries
// (the repository's .git among them) and the configured exclusions.
func CleanDir(cfg config.GitHubConfig, w io.Writer) ([]string, error) {
	fmt.Fprintln(w, "Removing old github files >>>>>>>>>>>>")
	entries, err := readTopLevel(cfg.CodeDir)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(cfg.Exclude))
	for _, name := range cfg.Exclude {
		keep[name] = true
	}

	var removed []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || keep[name] {
			continue
		}
		fmt.Fprintln(w, "removing: ", name)
		if err := os.RemoveAll(filepath.Join(cfg.CodeDir, name)); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	logging.Get(logging.CategoryGitHub).Infow("github dir cleaned", "dir", cfg.CodeDir, "removed", len(removed))
	return removed, nil
}

// CopyExamples copies each top-level entry of ExampleDir into CodeDir.
// Directories must not already exist in CodeDir; run CleanDir first.
func CopyExamples(cfg config.GitHubConfig, w io.Writer) ([]string, error) {
	fmt.Fprintln(w, "Copying new github files >>>>>>>>>>>>")
	entries, err := readTopLevel(cfg.ExampleDir)
	if err != nil {
		return nil, err
	}

	var copied []string
	for _, e := range entries {
		name := e.Name()
		fmt.Fprintln(w, name)
		src := filepath.Join(cfg.ExampleDir, name)
		dst := filepath.Join(cfg.CodeDir, name)
		if e.IsDir() {
			err = os.CopyFS(dst, os.DirFS(src))
		} else {
			err = copyFile(src, dst)
		}
		if err != nil {
			return copied, fmt.Errorf("failed to copy %s: %w", name, err)
		}
		copied = append(copied, name)
	}
	logging.Get(logging.CategoryGitHub).Infow("examples copied", "from", cfg.ExampleDir, "to", cfg.CodeDir, "entries", len(copied))
	return copied, nil
}

// Recreate regenerates the example tree (when an extract command is
// configured), then cleans CodeDir, copies the examples in and adds the
// copyright header.
func Recreate(ctx context.Context, cfg config.GitHubConfig, w io.Writer) error {
	if len(cfg.ExtractCommand) > 0 {
		if err := runExtract(ctx, cfg.ExtractCommand, w); err != nil {
			return err
		}
	}
	if _, err := CleanDir(cfg, w); err != nil {
		return err
	}
	if _, err := CopyExamples(cfg, w); err != nil {
		return err
	}
	_, err := AddCopyright(cfg, w)
	return err
}

func runExtract(ctx context.Context, argv []string, w io.Writer) error {
	log := logging.Get(logging.CategoryGitHub)
	log.Infow("extracting examples", "command", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = w
	cmd.Stderr = w
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("extract command %q failed: %w", argv[0], err)
	}
	return nil
}

func readTopLevel(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, types.MissingPrerequisite("%s does not exist", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	return entries, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
