package main

import (
	"errors"
	"fmt"
	"os"

	"bookkit/internal/config"
	"bookkit/internal/logging"
	"bookkit/internal/report"
	"bookkit/internal/types"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Global flags
	configPath string
	verbose    bool
	colorMode  string

	// Loaded in PersistentPreRunE, read by every command
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bookkit",
	Short: "Authoring tools for the ebook and its example-code repository",
	Long: `bookkit bundles the maintenance chores of the book:

  ebook     assemble chapters and stage the build directory
  github    refresh the public example-code checkout
  validate  run the examples and compare their output with the book

Every command reads bookkit.yaml (or --config) from the working directory.
A missing file means defaults plus BOOKKIT_* environment overrides.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Logging.Level = "debug"
		}
		if err := loaded.Validate(); err != nil {
			return types.Usage("invalid config %s: %v", configPath, err)
		}
		if err := logging.Initialize(loaded.Logging); err != nil {
			return err
		}
		report.SetColorMode(colorMode, term.IsTerminal(int(os.Stdout.Fd())))
		cfg = loaded

		logging.Get(logging.CategoryBoot).Debugw("config loaded", "path", configPath, "command", cmd.CommandPath())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Colour output: auto, on, off")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(githubCmd)
	rootCmd.AddCommand(ebookCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, types.ErrMissingPrerequisite) {
			fmt.Fprintln(os.Stderr, "Run the prerequisite step first, then retry.")
		}
	}
	os.Exit(types.ExitCode(err))
}
