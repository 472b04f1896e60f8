// Package refine provides LLM-backed refinement providers for the parser.
package refine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/eventwire/internal/model"
	"github.com/sells-group/eventwire/internal/parser"
	"github.com/sells-group/eventwire/internal/resilience"
	"github.com/sells-group/eventwire/pkg/anthropic"
)

const defaultModel = "claude-haiku-4-5-20251001"

const systemPrompt = `You are a crypto market news classifier. You receive
an article and a heuristic classification. Respond with a single JSON
object and nothing else:

{"event_type": "<type or null to keep>", "assets": ["<ticker>", ...], "entities": ["<name>", ...]}

Only propose an event_type from the allowed list you are given. Keep
assets as uppercase tickers. Propose only corrections you are confident
in; return {"event_type": null, "assets": [], "entities": []} to keep
the heuristic result.`

// AnthropicRefiner refines low-confidence classifications through the
// Messages API. It does not support determinism: sampling at temperature
// zero is still not a replayable guarantee, so deterministic requests
// skip it.
type AnthropicRefiner struct {
	client anthropic.Client
	model  string
}

// NewAnthropicRefiner builds a refiner on an existing client. model may
// be empty.
func NewAnthropicRefiner(client anthropic.Client, model string) *AnthropicRefiner {
	if model == "" {
		model = defaultModel
	}
	return &AnthropicRefiner{client: client, model: model}
}

func (r *AnthropicRefiner) Name() string { return "anthropic" }

func (r *AnthropicRefiner) SupportsDeterminism() bool { return false }

// Refine asks the model for corrections. Invalid or unparseable output is
// an error; the parser treats refinement errors as "keep heuristic".
func (r *AnthropicRefiner) Refine(ctx context.Context, req parser.RefineRequest) (*parser.Refinement, error) {
	temperature := 0.0
	msgReq := anthropic.MessageRequest{
		Model:       r.model,
		MaxTokens:   512,
		Temperature: &temperature,
		System:      anthropic.BuildCachedSystemBlocks(systemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: r.userPrompt(req)},
		},
	}
	resp, err := resilience.DoVal(ctx, resilience.Policy{Attempts: 2}, "refine",
		func(ctx context.Context) (*anthropic.MessageResponse, error) {
			return r.client.CreateMessage(ctx, msgReq)
		})
	if err != nil {
		return nil, eris.Wrap(err, "refine: create message")
	}
	resp.Usage.LogCost(r.model, "refine")

	var proposed struct {
		EventType *string  `json:"event_type"`
		Assets    []string `json:"assets"`
		Entities  []string `json:"entities"`
	}
	raw := extractJSON(resp.Text())
	if err := json.Unmarshal([]byte(raw), &proposed); err != nil {
		return nil, eris.Wrapf(err, "refine: malformed provider output %q", raw)
	}

	out := &parser.Refinement{
		Assets:   normalizeAssets(proposed.Assets),
		Entities: proposed.Entities,
	}
	if proposed.EventType != nil {
		name := strings.TrimSpace(*proposed.EventType)
		if name != "" && name != req.EventType {
			if !model.IsValidEventType(req.SchemaVersion, name) {
				zap.L().Warn("refine: provider proposed unknown event type",
					zap.String("event_type", name),
					zap.String("schema_version", string(req.SchemaVersion)),
				)
			} else {
				out.EventType = &name
			}
		}
	}
	return out, nil
}

func (r *AnthropicRefiner) userPrompt(req parser.RefineRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Schema version: %s\n", req.SchemaVersion)
	fmt.Fprintf(&b, "Allowed event types: %s\n", strings.Join(model.EventTypeNames(req.SchemaVersion), ", "))
	fmt.Fprintf(&b, "Heuristic event_type: %s (confidence %.2f)\n", req.EventType, req.Confidence)
	fmt.Fprintf(&b, "Heuristic assets: %s\n", strings.Join(req.Assets, ", "))
	fmt.Fprintf(&b, "Heuristic entities: %s\n", strings.Join(req.Entities, ", "))
	fmt.Fprintf(&b, "\nArticle:\n%s\n", req.Text)
	return b.String()
}

// extractJSON tolerates markdown fences and prose around the object.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

func normalizeAssets(assets []string) []string {
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		a = strings.ToUpper(strings.TrimSpace(a))
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}
