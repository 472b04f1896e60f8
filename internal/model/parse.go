// Package model defines the wire types and closed enums shared by the
// parsing pipeline, the HTTP surface, and the store.
package model

// MaxTextLength is the largest accepted input, in bytes. Enforced at the
// boundary; the pipeline itself accepts any valid UTF-8.
const MaxTextLength = 20_000

// Sentiment is the coarse polarity of the input text.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// MarketDirection is an optional refiner-populated market read.
type MarketDirection string

const (
	DirectionBullish MarketDirection = "bullish"
	DirectionBearish MarketDirection = "bearish"
	DirectionNeutral MarketDirection = "neutral"
)

// TimeHorizon is an optional refiner-populated impact horizon.
type TimeHorizon string

const (
	HorizonShortTerm  TimeHorizon = "short_term"
	HorizonMediumTerm TimeHorizon = "medium_term"
	HorizonLongTerm   TimeHorizon = "long_term"
)

// Jurisdiction is the closed set of regions an event can be attributed to.
type Jurisdiction string

const (
	JurisdictionUS            Jurisdiction = "US"
	JurisdictionAmericasNonUS Jurisdiction = "AMERICAS_NON_US"
	JurisdictionEurope        Jurisdiction = "EUROPE"
	JurisdictionAsia          Jurisdiction = "ASIA"
	JurisdictionAfrica        Jurisdiction = "AFRICA"
	JurisdictionOceania       Jurisdiction = "OCEANIA"
	JurisdictionGlobal        Jurisdiction = "GLOBAL"
)

// JurisdictionBasis records how the jurisdiction was derived.
type JurisdictionBasis string

const (
	BasisExplicit JurisdictionBasis = "explicit"
	BasisImplied  JurisdictionBasis = "implied"
	BasisNone     JurisdictionBasis = "none"
)

// ParseRequest is the /parse request body. Exactly one of Text or URL must
// be set; URL inputs are fetched and reduced to plain text before parsing.
type ParseRequest struct {
	Text          string        `json:"text,omitempty"`
	URL           string        `json:"url,omitempty"`
	SchemaVersion SchemaVersion `json:"schema_version,omitempty"`
	Deterministic bool          `json:"deterministic,omitempty"`
	InputID       string        `json:"input_id,omitempty"`
}

// ParseResult is the single record a parse call produces. It is built once
// by the pipeline, immutable afterwards, and serialized directly.
//
// EventType is scoped to SchemaVersion. EventSubtype and V1EventType are
// populated for v2 responses only; V1EventType is nil when no sane legacy
// mapping exists.
type ParseResult struct {
	EventType    string       `json:"event_type"`
	EventSubtype *string      `json:"event_subtype,omitempty"`
	V1EventType  *EventTypeV1 `json:"v1_event_type,omitempty"`

	Topics   []string `json:"topics"`
	Assets   []string `json:"assets"`
	Entities []string `json:"entities"`

	Jurisdiction           Jurisdiction      `json:"jurisdiction"`
	JurisdictionBasis      JurisdictionBasis `json:"jurisdiction_basis"`
	JurisdictionConfidence float64           `json:"jurisdiction_confidence"`

	Sentiment   Sentiment `json:"sentiment"`
	ImpactScore float64   `json:"impact_score"`
	Confidence  float64   `json:"confidence"`

	MarketDirection *MarketDirection `json:"market_direction,omitempty"`
	SystemicRisk    *bool            `json:"systemic_risk,omitempty"`
	RetailRelevant  *bool            `json:"retail_relevant,omitempty"`
	TimeHorizon     *TimeHorizon     `json:"time_horizon,omitempty"`

	SchemaVersion SchemaVersion `json:"schema_version"`
	ModelVersion  string        `json:"model_version"`
}

// FeedbackRequest is the /feedback request body. Expected carries the
// corrected fields in ParseResult shape (partial objects are fine).
type FeedbackRequest struct {
	ParseID  string         `json:"parse_id,omitempty"`
	InputID  string         `json:"input_id,omitempty"`
	Expected map[string]any `json:"expected"`
	Notes    string         `json:"notes,omitempty"`
}

// ErrorEnvelope is the stable error body returned by the HTTP boundary.
type ErrorEnvelope struct {
	Error ErrorObject `json:"error"`
}

// ErrorObject is a typed, machine-readable error.
type ErrorObject struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
