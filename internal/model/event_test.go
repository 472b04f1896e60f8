package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaVersionIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, SchemaV1.IsValid())
	assert.True(t, SchemaV2.IsValid())
	assert.False(t, SchemaVersion("").IsValid())
	assert.False(t, SchemaVersion("v3").IsValid())
}

func TestIsValidEventType(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidEventType(SchemaV1, "ETF_INFLOW"))
	assert.True(t, IsValidEventType(SchemaV2, "MISC_OTHER"))

	// Enums are version scoped.
	assert.False(t, IsValidEventType(SchemaV1, "MISC_OTHER"))
	assert.False(t, IsValidEventType(SchemaV2, "ETF_INFLOW"))

	assert.False(t, IsValidEventType(SchemaV1, "etf_inflow"))
	assert.False(t, IsValidEventType(SchemaVersion("v3"), "UNKNOWN"))
}

func TestEventTypeNames(t *testing.T) {
	t.Parallel()

	v1 := EventTypeNames(SchemaV1)
	assert.Len(t, v1, 14)
	assert.IsNonDecreasing(t, v1)
	assert.Contains(t, v1, "UNKNOWN")

	v2 := EventTypeNames(SchemaV2)
	assert.Len(t, v2, 21)
	assert.IsNonDecreasing(t, v2)
	assert.Contains(t, v2, "MISC_OTHER")

	assert.Empty(t, EventTypeNames(SchemaVersion("v3")))
}

func TestParseResultJSONShape(t *testing.T) {
	t.Parallel()

	result := ParseResult{
		EventType:              "UNKNOWN",
		Topics:                 []string{},
		Assets:                 []string{},
		Entities:               []string{},
		Jurisdiction:           JurisdictionGlobal,
		JurisdictionBasis:      BasisNone,
		JurisdictionConfidence: 0.3,
		Sentiment:              SentimentNeutral,
		ImpactScore:            0.2,
		Confidence:             0.4,
		SchemaVersion:          SchemaV1,
		ModelVersion:           "eventwire-0.1",
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	// Optional refiner fields stay off the wire when unset; list fields
	// serialize as [] rather than null.
	assert.NotContains(t, raw, "event_subtype")
	assert.NotContains(t, raw, "v1_event_type")
	assert.NotContains(t, raw, "market_direction")
	assert.Equal(t, []any{}, raw["topics"])
	assert.Equal(t, []any{}, raw["assets"])
	assert.Equal(t, "none", raw["jurisdiction_basis"])
}
