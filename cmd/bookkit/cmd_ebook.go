package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bookkit/internal/ebook"
	"bookkit/internal/logging"
	"bookkit/internal/report"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// ebookCmd groups chapter assembly and build-directory staging.
var ebookCmd = &cobra.Command{
	Use:   "ebook",
	Short: "Assemble the book and stage the ebook build directory",
}

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Copy images, fonts, cover, CSS and resources into the build dir",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(cfg.Ebook.BuildDir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", cfg.Ebook.BuildDir, err)
		}
		return ebook.Populate(cfg.Ebook, cfg.Ebook.BuildDir)
	},
}

var ebookRecreateCmd = &cobra.Command{
	Use:   "recreate",
	Short: "Create and populate a fresh build dir",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ebook.Recreate(cfg.Ebook, cfg.Ebook.BuildDir)
	},
}

var ensureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Populate the build dir if needed and refresh its CSS",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return ebook.Ensure(cfg.Ebook, cfg.Ebook.BuildDir)
	},
}

var watchChapters bool

var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Concatenate the chapters into one Markdown file",
	Long: `Concatenates every chapter matching ebook.chapter_pattern, in name order,
into ebook.target inside the build dir. With --watch the file is rebuilt
whenever a chapter changes, until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		target := cfg.Ebook.TargetPath()

		chapters, err := ebook.Combine(cfg.Ebook.SourceDir, cfg.Ebook.ChapterPattern, target)
		if err != nil {
			return err
		}
		printCombined(cmd, target, chapters)
		if !watchChapters {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(out, "watching %s, interrupt to stop\n", cfg.Ebook.SourceDir)
		return ebook.Watch(ctx, cfg.Ebook.SourceDir, cfg.Ebook.ChapterPattern, target, func(chapters []string, err error) {
			if err != nil {
				logging.Get(logging.CategoryEbook).Warnw("combine failed", "error", err)
				fmt.Fprintln(out, report.Warning(err.Error()))
				return
			}
			printCombined(cmd, target, chapters)
		})
	},
}

func printCombined(cmd *cobra.Command, target string, chapters []string) {
	size := "?"
	if info, err := os.Stat(target); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d chapters -> %s (%s)\n", len(chapters), target, size)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	combineCmd.Flags().BoolVarP(&watchChapters, "watch", "w", false, "Rebuild whenever a chapter changes")

	ebookCmd.AddCommand(populateCmd)
	ebookCmd.AddCommand(ebookRecreateCmd)
	ebookCmd.AddCommand(ensureCmd)
	ebookCmd.AddCommand(combineCmd)
}
