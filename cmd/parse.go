package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/eventwire/internal/fetch"
	"github.com/sells-group/eventwire/internal/model"
)

var (
	parseURL           string
	parseSchemaVersion string
	parseDeterministic bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "Parse one article and print the event record",
	Long:  "Reads the article from the argument, --url, or stdin, and prints the resulting event record as JSON.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version := model.SchemaVersion(parseSchemaVersion)
		if !version.IsValid() {
			return eris.Errorf("invalid schema version %q", parseSchemaVersion)
		}

		var text string
		switch {
		case parseURL != "":
			if len(args) > 0 {
				return eris.New("text argument and --url are mutually exclusive")
			}
			res, err := fetch.New(cfg.Fetch).Fetch(cmd.Context(), parseURL)
			if err != nil {
				return eris.Wrap(err, "fetch url")
			}
			text = res.Text
		case len(args) > 0:
			text = args[0]
		default:
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return eris.Wrap(err, "read stdin")
			}
			text = string(raw)
		}

		if strings.TrimSpace(text) == "" {
			return eris.New("no input text")
		}

		p, err := newParser()
		if err != nil {
			return eris.Wrap(err, "build parser")
		}

		result := p.Parse(cmd.Context(), text, version, parseDeterministic)

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return eris.Wrap(err, "encode result")
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseURL, "url", "", "fetch the article from a URL")
	parseCmd.Flags().StringVar(&parseSchemaVersion, "schema-version", "v1", "response taxonomy (v1 or v2)")
	parseCmd.Flags().BoolVar(&parseDeterministic, "deterministic", true, "skip non-deterministic refinement")
	rootCmd.AddCommand(parseCmd)
}
