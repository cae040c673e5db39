package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"ledger/internal/clock"
	"ledger/internal/generator"
	"ledger/internal/ledger"
	"ledger/internal/loader"
	"ledger/internal/ops"
	"ledger/internal/termui"

	"github.com/spf13/cobra"
)

var errLintFailed = errors.New("lint found errors")

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "ledger-ops",
		Short:        "Operator tools for the directives document",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.AddCommand(newLintCmd(), newListCmd(), newGenerateCmd())
	return root
}

func newLintCmd() *cobra.Command {
	var source string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check the document for duplicate ids, bad statuses and missing fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := loader.New(source).Fetch(cmd.Context())
			if err != nil {
				return err
			}
			rep, err := ops.Lint(raw)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(rep); err != nil {
					return err
				}
			} else if err := ops.WriteText(cmd.OutOrStdout(), rep); err != nil {
				return err
			}
			if rep.Errors() > 0 {
				return errLintFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", loader.DefaultSource, "directives document path or URL")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func newListCmd() *cobra.Command {
	var source string
	var width int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print pending directives and the archives as cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			clk := clock.RealClock{}
			l := ledger.Load(cmd.Context(), loader.New(source), clk.Now)
			fmt.Fprintln(cmd.OutOrStdout(), termui.Ledger(l, clk.Now(), width))
			return l.Err()
		},
	}
	cmd.Flags().StringVar(&source, "source", loader.DefaultSource, "directives document path or URL")
	cmd.Flags().IntVar(&width, "width", 72, "card width in columns")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var f generator.Form
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a directive JSON document for manual inclusion in the data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := generator.Generate(f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&f.ID, "id", "", "numeric id")
	cmd.Flags().StringVar(&f.Title, "title", "", "title")
	cmd.Flags().StringVar(&f.Type, "type", "", "type, e.g. Action or Service")
	cmd.Flags().StringVar(&f.AssignedDate, "assigned", time.Now().Format("2006-01-02"), "assigned date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.DueDate, "due", "", "due date (YYYY-MM-DD) or a label such as Daily")
	cmd.Flags().StringVar(&f.Status, "status", "Pending", "Pending, Completed or Failed")
	cmd.Flags().StringVar(&f.UserReport, "report", "", "user report")
	cmd.Flags().StringVar(&f.MistressAppraisal, "appraisal", "", "appraisal")
	return cmd
}

// run executes the CLI with args; used by tests.
func run(ctx context.Context, out io.Writer, args ...string) error {
	root := newRootCmd(out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
