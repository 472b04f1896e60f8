package parser

import (
	"context"
	"hash/crc32"

	"github.com/sells-group/eventwire/internal/model"
)

// PromptVersion tags the refinement prompt; it feeds the stable seed so a
// prompt change invalidates cached determinism expectations.
const PromptVersion = "refine-v1"

// refineConfidenceFloor gates refinement: results at or above it are kept
// as-is without consulting a provider.
const refineConfidenceFloor = 0.65

// RefineRequest carries the heuristic result a provider may improve on.
type RefineRequest struct {
	Text          string
	SchemaVersion model.SchemaVersion
	EventType     string
	Confidence    float64
	Assets        []string
	Entities      []string
	Deterministic bool
	Seed          uint32
}

// Refinement is a provider's proposed correction. Nil or empty fields leave
// the heuristic values untouched.
type Refinement struct {
	EventType *string
	Assets    []string
	Entities  []string
}

// Refiner is the pluggable LLM/NLP refinement seam. It runs optionally
// after the deterministic pipeline and never replaces it: when the caller
// requested deterministic output and the provider cannot guarantee it, the
// provider is skipped entirely.
type Refiner interface {
	Name() string
	SupportsDeterminism() bool
	Refine(ctx context.Context, req RefineRequest) (*Refinement, error)
}

// StableSeed derives a deterministic seed from the prompt version and input
// text.
func StableSeed(text string) uint32 {
	return crc32.ChecksumIEEE([]byte(PromptVersion + "\n" + text))
}

// NoopRefiner never proposes changes. It is the default provider and is
// trivially deterministic.
type NoopRefiner struct{}

func (NoopRefiner) Name() string              { return "none" }
func (NoopRefiner) SupportsDeterminism() bool { return true }

func (NoopRefiner) Refine(context.Context, RefineRequest) (*Refinement, error) {
	return &Refinement{}, nil
}

// mergeDistinct appends extras not already present, preserving order.
func mergeDistinct(base, extra []string) []string {
	if len(extra) == 0 {
		return base
	}
	seen := make(map[string]struct{}, len(base))
	for _, b := range base {
		seen[b] = struct{}{}
	}
	merged := base
	for _, e := range extra {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		merged = append(merged, e)
	}
	return merged
}
