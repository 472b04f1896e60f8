package parser

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/eventwire/internal/model"
)

// DefaultModelVersion identifies the heuristic model when none is
// configured.
const DefaultModelVersion = "eventwire-0.1"

// Parser is the classification pipeline. It is immutable after New and safe
// for arbitrary concurrent use: every Parse call is independent and the rule
// tables are read-only.
type Parser struct {
	tables       map[model.SchemaVersion]*RuleTable
	modelVersion string
	refiner      Refiner
}

// Option configures a Parser.
type Option func(*Parser)

// WithModelVersion overrides the model version stamped on results.
func WithModelVersion(v string) Option {
	return func(p *Parser) { p.modelVersion = v }
}

// WithRefiner installs a refinement provider. Pass nil to disable.
func WithRefiner(r Refiner) Option {
	return func(p *Parser) { p.refiner = r }
}

// WithTables replaces the built-in rule tables.
func WithTables(tables map[model.SchemaVersion]*RuleTable) Option {
	return func(p *Parser) { p.tables = tables }
}

// New builds a Parser and validates its rule tables. A malformed table is a
// programming error: callers treat the returned error as fatal at process
// start.
func New(opts ...Option) (*Parser, error) {
	p := &Parser{
		tables:       DefaultTables(),
		modelVersion: DefaultModelVersion,
	}
	for _, opt := range opts {
		opt(p)
	}
	for version, table := range p.tables {
		if table.Version != version {
			return nil, eris.Errorf("parser: table registered under %s declares version %s", version, table.Version)
		}
		if err := table.Validate(); err != nil {
			return nil, err
		}
	}
	if _, ok := p.tables[model.SchemaV1]; !ok {
		return nil, eris.New("parser: missing v1 rule table")
	}
	if _, ok := p.tables[model.SchemaV2]; !ok {
		return nil, eris.New("parser: missing v2 rule table")
	}
	return p, nil
}

// Parse classifies one block of text into exactly one schema-valid event
// record. It is total for valid UTF-8 input: unmatched text is a value
// (UNKNOWN / MISC_OTHER), never an error, and identical input with the same
// schema and model version always yields an identical result.
func (p *Parser) Parse(ctx context.Context, text string, version model.SchemaVersion, deterministic bool) *model.ParseResult {
	if !version.IsValid() {
		version = model.SchemaV1
	}
	table := p.tables[version]

	nt := Normalize(text)
	signals := ExtractSignals(ctx, nt)
	relevant := CryptoRelevant(nt, signals)

	candidates := GenerateCandidates(nt, signals, table, relevant)
	scored := ScoreAll(candidates)
	winner := SelectPrimary(scored, table, relevant)

	juris := ResolveJurisdiction(signals, winner)

	result := p.assemble(nt, signals, winner, juris, version)
	p.maybeRefine(ctx, nt, version, deterministic, result)
	return result
}

// assemble merges the stage outputs into the response shape for the
// requested schema version. Mapping never alters the selection.
func (p *Parser) assemble(nt NormalizedText, signals SignalSet, winner ScoredCandidate, juris JurisdictionResult, version model.SchemaVersion) *model.ParseResult {
	result := &model.ParseResult{
		Assets:   orEmpty(signals.Values(SignalAsset)),
		Entities: orEmpty(signals.Values(SignalEntity)),

		Jurisdiction:           juris.Jurisdiction,
		JurisdictionBasis:      juris.Basis,
		JurisdictionConfidence: juris.Confidence,

		Sentiment:   model.Sentiment(signals.Sentiment()),
		ImpactScore: winner.ImpactScore,
		Confidence:  winner.Confidence,

		SchemaVersion: version,
		ModelVersion:  p.modelVersion,
	}

	switch version {
	case model.SchemaV2:
		eventType := model.EventTypeV2(winner.EventType)
		result.EventType = string(eventType)
		result.Topics = topicsV2(eventType)
		if subtype := InferSubtype(nt, eventType); subtype != "" {
			result.EventSubtype = &subtype
			result.V1EventType = MapV2ToV1(eventType, subtype)
		} else {
			result.V1EventType = MapV2ToV1(eventType, "")
		}
	default:
		eventType := model.EventTypeV1(winner.EventType)
		result.EventType = string(eventType)
		result.Topics = topicsV1(eventType)
	}
	return result
}

// maybeRefine invokes the configured refinement provider on low-confidence
// results. Provider failures are logged and discarded: refinement can only
// improve a response, never break one.
func (p *Parser) maybeRefine(ctx context.Context, nt NormalizedText, version model.SchemaVersion, deterministic bool, result *model.ParseResult) {
	if p.refiner == nil {
		return
	}
	if deterministic && !p.refiner.SupportsDeterminism() {
		return
	}
	unknown := result.EventType == string(model.V1Unknown) || result.EventType == string(model.V2Unknown)
	if !unknown && result.Confidence >= refineConfidenceFloor {
		return
	}

	req := RefineRequest{
		Text:          nt.Original,
		SchemaVersion: version,
		EventType:     result.EventType,
		Confidence:    result.Confidence,
		Assets:        result.Assets,
		Entities:      result.Entities,
		Deterministic: deterministic,
	}
	if deterministic {
		req.Seed = StableSeed(nt.Original)
	}

	refinement, err := p.refiner.Refine(ctx, req)
	if err != nil {
		zap.L().Warn("parser: refinement failed",
			zap.String("provider", p.refiner.Name()),
			zap.Error(err),
		)
		return
	}
	if refinement == nil {
		return
	}

	if refinement.EventType != nil && model.IsValidEventType(version, *refinement.EventType) &&
		*refinement.EventType != result.EventType {
		result.EventType = *refinement.EventType
		// Re-derive the relabeling fields for the corrected primary type.
		switch version {
		case model.SchemaV2:
			eventType := model.EventTypeV2(result.EventType)
			result.Topics = topicsV2(eventType)
			result.EventSubtype = nil
			if subtype := InferSubtype(nt, eventType); subtype != "" {
				result.EventSubtype = &subtype
				result.V1EventType = MapV2ToV1(eventType, subtype)
			} else {
				result.V1EventType = MapV2ToV1(eventType, "")
			}
		default:
			result.Topics = topicsV1(model.EventTypeV1(result.EventType))
		}
	}
	result.Assets = mergeDistinct(result.Assets, refinement.Assets)
	result.Entities = mergeDistinct(result.Entities, refinement.Entities)
}

// orEmpty keeps list fields as [] rather than null on the wire.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
