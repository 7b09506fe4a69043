package main

import (
	"fmt"

	"bookkit/internal/github"

	"github.com/spf13/cobra"
)

// githubCmd groups maintenance of the public example-code checkout.
var githubCmd = &cobra.Command{
	Use:     "github",
	Aliases: []string{"gh"},
	Short:   "Refresh the public example-code repository checkout",
}

var copyrightCmd = &cobra.Command{
	Use:     "copyright",
	Aliases: []string{"A"},
	Short:   "Ensure the copyright header is in every example file",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := github.AddCopyright(cfg.GitHub, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d files stamped\n", n)
		return nil
	},
}

var githubCleanCmd = &cobra.Command{
	Use:     "clean",
	Aliases: []string{"c"},
	Short:   "Remove the old examples from the checkout",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := github.CleanDir(cfg.GitHub, cmd.OutOrStdout())
		return err
	},
}

var githubCopyCmd = &cobra.Command{
	Use:     "copy",
	Aliases: []string{"e"},
	Short:   "Copy the extracted example tree into the checkout",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := github.CopyExamples(cfg.GitHub, cmd.OutOrStdout())
		return err
	},
}

var githubRecreateCmd = &cobra.Command{
	Use:     "recreate",
	Aliases: []string{"r"},
	Short:   "Extract, clean, copy and stamp in one go",
	Long: `Runs github.extract_command (when configured) to regenerate the example
tree, then clean, copy and copyright in that order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return github.Recreate(cmdContext(cmd), cfg.GitHub, cmd.OutOrStdout())
	},
}

func init() {
	githubCmd.AddCommand(copyrightCmd)
	githubCmd.AddCommand(githubCleanCmd)
	githubCmd.AddCommand(githubCopyCmd)
	githubCmd.AddCommand(githubRecreateCmd)
}
