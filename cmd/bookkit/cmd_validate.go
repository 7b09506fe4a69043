package main

import (
	"fmt"

	"bookkit/internal/examples"
	"bookkit/internal/report"
	"bookkit/internal/validate"

	"github.com/spf13/cobra"
)

// validateCmd groups the example-validation commands. Each keeps the
// single-letter name it had as an alias.
var validateCmd = &cobra.Command{
	Use:     "validate",
	Aliases: []string{"v"},
	Short:   "Run examples and check their output against the book",
	Long: `Validation happens in two passes:

  bookkit validate script     # write the run script
  sh runall.sh                # run it outside bookkit
  bookkit validate compare    # compare captured output with the sources

Commands that read captured output fail until the run script has been run.`,
}

var scriptCmd = &cobra.Command{
	Use:     "script",
	Aliases: []string{"p"},
	Short:   "Scan the examples and write the run script",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return validate.RunScript(cfg.Validation, cmd.OutOrStdout())
	},
}

var discoverCmd = &cobra.Command{
	Use:     "discover",
	Aliases: []string{"d"},
	Short:   "Group examples by the tags on their output blocks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := validate.DiscoverTags(cfg.Validation, cmd.OutOrStdout())
		return err
	},
}

var fillCmd = &cobra.Command{
	Use:     "fill",
	Aliases: []string{"f"},
	Short:   "Show examples with output but no output block",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := validate.FillInUnexcluded(cfg.Validation, cmd.OutOrStdout())
		return err
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare captured output with each example's output block",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return validate.Compare(cfg.Validation, cmd.OutOrStdout())
	},
}

var exceptionsCmd = &cobra.Command{
	Use:     "exceptions",
	Aliases: []string{"e"},
	Short:   "Collect error output into the errors report and show the problems",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return validate.FindExceptions(cfg.Validation, cmd.OutOrStdout())
	},
}

var problemsCmd = &cobra.Command{
	Use:     "problems",
	Aliases: []string{"b"},
	Short:   "Show unexpected entries of the errors report",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := validate.ShowProblemErrors(cfg.Validation, cmd.OutOrStdout())
		return err
	},
}

var attachCmd = &cobra.Command{
	Use:     "attach [file...]",
	Aliases: []string{"s"},
	Short:   "Append captured output to examples that have no output block",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validate.Attach(cfg.Validation, cmd.OutOrStdout(), args...)
	},
}

var mainsCmd = &cobra.Command{
	Use:     "mains",
	Aliases: []string{"m"},
	Short:   "List every main() declaration",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := validate.FindMains(cfg.Validation, cmd.OutOrStdout())
		return err
	},
}

var compiledCmd = &cobra.Command{
	Use:     "compiled",
	Aliases: []string{"j"},
	Short:   "List sources without a compiled class file",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := validate.VerifyCompiled(cfg.Validation, cmd.OutOrStdout())
		return err
	},
}

var editWidth bool

var widthCmd = &cobra.Command{
	Use:     "width",
	Aliases: []string{"w"},
	Short:   "Find code lines wider than the book allows",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		problems, err := validate.CheckWidth(cfg.Validation, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if len(problems) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), report.Success("all lines fit"))
			return nil
		}
		if editWidth {
			return validate.EditWidthProblems(cfg.Validation, problems)
		}
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:     "clean",
	Aliases: []string{"c"},
	Short:   "Strip trailing whitespace and surrounding blank lines",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := validate.CleanFiles(cfg.Validation, cmd.OutOrStdout())
		return err
	},
}

var editAllCmd = &cobra.Command{
	Use:     "edit",
	Aliases: []string{"a"},
	Short:   "Open every example in the configured editor",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return validate.EditAll(cfg.Validation)
	},
}

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "List every run flag in use and the run data of each example",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := examples.Scan(cfg.Validation)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, report.Heading("flags", '-', 0))
		for _, key := range c.FlagKeys() {
			fmt.Fprintln(out, key)
		}
		fmt.Fprint(out, report.Heading("run data", '-', 0))
		fmt.Fprintln(out, c.RunData(cfg.Validation.Launcher))
		return nil
	},
}

func init() {
	widthCmd.Flags().BoolVar(&editWidth, "edit", false, "Open each file at its first over-wide line")

	validateCmd.AddCommand(scriptCmd)
	validateCmd.AddCommand(discoverCmd)
	validateCmd.AddCommand(fillCmd)
	validateCmd.AddCommand(compareCmd)
	validateCmd.AddCommand(exceptionsCmd)
	validateCmd.AddCommand(problemsCmd)
	validateCmd.AddCommand(attachCmd)
	validateCmd.AddCommand(mainsCmd)
	validateCmd.AddCommand(compiledCmd)
	validateCmd.AddCommand(widthCmd)
	validateCmd.AddCommand(cleanCmd)
	validateCmd.AddCommand(editAllCmd)
	validateCmd.AddCommand(flagsCmd)
}
