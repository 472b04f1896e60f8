package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/eventwire/internal/golden"
	"github.com/sells-group/eventwire/internal/model"
)

var (
	evalSchemaVersion string
	evalVerbose       bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <cases-file>",
	Short: "Score the parser against labelled cases",
	Long:  "Runs every case deterministically and reports per-field mismatches and overall accuracy. Accepts JSONL, a JSON array, or concatenated JSON objects.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version := model.SchemaVersion(evalSchemaVersion)
		if !version.IsValid() {
			return eris.Errorf("invalid schema version %q", evalSchemaVersion)
		}

		cases, err := golden.Load(args[0])
		if err != nil {
			return err
		}

		p, err := newParser()
		if err != nil {
			return eris.Wrap(err, "build parser")
		}

		report, err := golden.Evaluate(cmd.Context(), p, version, cases)
		if err != nil {
			return err
		}

		if evalVerbose {
			for _, m := range report.Mismatches {
				fmt.Printf("%s: %s: want %v, got %v\n", m.CaseID, m.Field, m.Want, m.Got)
			}
		}
		fmt.Printf("%d/%d passed (accuracy %.1f%%)\n", report.Passed, report.Total, report.Accuracy()*100)

		zap.L().Info("eval complete",
			zap.Int("total", report.Total),
			zap.Int("passed", report.Passed),
			zap.Float64("accuracy", report.Accuracy()),
		)

		if report.Passed < report.Total {
			return eris.Errorf("%d cases failed", report.Total-report.Passed)
		}
		return nil
	},
}

func init() {
	evalCmd.Flags().StringVar(&evalSchemaVersion, "schema-version", "v1", "response taxonomy (v1 or v2)")
	evalCmd.Flags().BoolVarP(&evalVerbose, "verbose", "v", false, "print each mismatch")
	rootCmd.AddCommand(evalCmd)
}
