package golden

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/eventwire/internal/model"
	"github.com/sells-group/eventwire/internal/parser"
)

// Mismatch is one field that disagreed on one case.
type Mismatch struct {
	CaseID string `json:"case_id"`
	Field  string `json:"field"`
	Want   any    `json:"want"`
	Got    any    `json:"got"`
}

// Report is the outcome of an evaluation run.
type Report struct {
	Total      int        `json:"total"`
	Passed     int        `json:"passed"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// Accuracy is the fraction of cases with no mismatched field.
func (r *Report) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Passed) / float64(r.Total)
}

// Evaluate parses every case deterministically and compares the expected
// fields against the result. Only fields present in Expected are scored.
func Evaluate(ctx context.Context, p *parser.Parser, version model.SchemaVersion, cases []Case) (*Report, error) {
	report := &Report{Total: len(cases)}

	for i, c := range cases {
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("case-%d", i)
		}

		result := p.Parse(ctx, c.Text, version, true)
		got, err := resultFields(result)
		if err != nil {
			return nil, eris.Wrapf(err, "golden: flatten result for %s", id)
		}

		ok := true
		fields := make([]string, 0, len(c.Expected))
		for f := range c.Expected {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		for _, f := range fields {
			want := c.Expected[f]
			if !fieldEqual(want, got[f]) {
				ok = false
				report.Mismatches = append(report.Mismatches, Mismatch{
					CaseID: id, Field: f, Want: want, Got: got[f],
				})
			}
		}
		if ok {
			report.Passed++
		}
	}
	return report, nil
}

// resultFields flattens a result to the JSON field names cases use.
func resultFields(res *model.ParseResult) (map[string]any, error) {
	raw, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// fieldEqual compares through a JSON round trip so int/float64 and
// []string/[]any representations of the same value match.
func fieldEqual(want, got any) bool {
	wb, err := json.Marshal(want)
	if err != nil {
		return false
	}
	gb, err := json.Marshal(got)
	if err != nil {
		return false
	}
	return string(wb) == string(gb)
}
