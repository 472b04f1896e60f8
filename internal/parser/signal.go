package parser

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// SignalKind names the detector family a Signal came from.
type SignalKind string

const (
	SignalAsset        SignalKind = "asset"
	SignalEntity       SignalKind = "entity"
	SignalJurisdiction SignalKind = "jurisdiction"
	SignalSentiment    SignalKind = "sentiment"
)

// Signal is a typed finding over the normalized text. Signals are produced
// by extractors and read-only to every later stage.
type Signal struct {
	Kind     SignalKind
	Value    string
	Span     Span
	Strength float64

	// Detail carries extractor-specific classification, e.g. the cue class
	// ("region", "regulator", "venue") for jurisdiction signals.
	Detail string
}

// SignalSet is the pooled output of all extractors.
type SignalSet []Signal

// OfKind returns the signals of one kind, preserving pool order.
func (s SignalSet) OfKind(kind SignalKind) []Signal {
	var out []Signal
	for _, sig := range s {
		if sig.Kind == kind {
			out = append(out, sig)
		}
	}
	return out
}

// Values returns the distinct values of one kind, preserving first-mention
// order.
func (s SignalSet) Values(kind SignalKind) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, sig := range s {
		if sig.Kind != kind {
			continue
		}
		if _, ok := seen[sig.Value]; ok {
			continue
		}
		seen[sig.Value] = struct{}{}
		out = append(out, sig.Value)
	}
	return out
}

// Sentiment returns the pooled sentiment value, defaulting to neutral.
func (s SignalSet) Sentiment() string {
	for _, sig := range s {
		if sig.Kind == SignalSentiment {
			return sig.Value
		}
	}
	return "neutral"
}

// ExtractSignals runs all extractors over the normalized text and pools
// their findings. The extractors are independent pure functions, so they run
// concurrently; the pool is assembled in a fixed kind order to keep the
// result deterministic regardless of completion order.
func ExtractSignals(ctx context.Context, nt NormalizedText) SignalSet {
	var (
		assets, entities, regions, sentiment []Signal
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { assets = ExtractAssets(nt); return nil })
	g.Go(func() error { entities = ExtractEntities(nt); return nil })
	g.Go(func() error { regions = ExtractJurisdictionSignals(nt); return nil })
	g.Go(func() error { sentiment = ExtractSentiment(nt); return nil })
	_ = g.Wait() // extractors cannot fail

	pool := make(SignalSet, 0, len(assets)+len(entities)+len(regions)+len(sentiment))
	pool = append(pool, assets...)
	pool = append(pool, entities...)
	pool = append(pool, regions...)
	pool = append(pool, sentiment...)
	return pool
}
