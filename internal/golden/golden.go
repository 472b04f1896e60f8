// Package golden loads labelled evaluation cases and scores parser output
// against them. Case files come from exports and hand-written fixtures, so
// the loader accepts JSONL, a JSON array, or concatenated JSON objects.
package golden

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
)

// Case is one labelled input. Expected holds the fields to check, in
// parse-result shape; absent fields are not scored.
type Case struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Expected map[string]any `json:"expected"`
}

// Load reads cases from a file in any of the accepted formats.
func Load(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "golden: read %s", path)
	}
	cases, err := Parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "golden: parse %s", path)
	}
	return cases, nil
}

// Parse decodes case data. A leading '[' selects array form; anything
// else is decoded as a stream of objects, which covers both JSONL and
// concatenated objects.
func Parse(data []byte) ([]Case, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, eris.New("no cases found")
	}

	var cases []Case
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &cases); err != nil {
			return nil, eris.Wrap(err, "decode case array")
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		for {
			var c Case
			if err := dec.Decode(&c); err == io.EOF {
				break
			} else if err != nil {
				return nil, eris.Wrap(err, "decode case stream")
			}
			cases = append(cases, c)
		}
	}

	for i, c := range cases {
		if c.Text == "" {
			return nil, eris.Errorf("case %d: text is required", i)
		}
		if len(c.Expected) == 0 {
			return nil, eris.Errorf("case %d: expected is required", i)
		}
	}
	return cases, nil
}
