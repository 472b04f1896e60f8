package parser

import (
	"strings"

	"github.com/sells-group/eventwire/internal/model"
)

// subtypeProbe refines a primary v2 event type into a dotted subtype when a
// cue phrase is present. Probes are checked in order; first hit wins. A
// probe with no phrases is an unconditional default.
type subtypeProbe struct {
	phrases []string
	subtype string
}

// v2Subtypes holds the per-event-type refinement tables. Refinement is a
// pure relabeling: the subtype can never contradict the already-selected
// primary type because it is derived from it.
var v2Subtypes = map[model.EventTypeV2][]subtypeProbe{
	model.V2RegulationRestriction: {
		{phrases: []string{"lawsuit", "sues", "sued"}, subtype: "regulation.enforcement.lawsuit"},
		{phrases: []string{"fine", "fined", "penalty", "civil penalty"}, subtype: "regulation.enforcement.fine"},
		{phrases: []string{"settlement", "settled"}, subtype: "regulation.enforcement.settlement"},
		{phrases: []string{"ban", "banned", "prohibit", "prohibited", "restriction"}, subtype: "regulation.restriction"},
	},
	model.V2RegulatoryGuidance: {
		{phrases: []string{"bill", "draft bill", "policy", "framework", "consultation"}, subtype: "regulation.policy"},
		{phrases: []string{"guidance", "clarified", "clarifies", "rules"}, subtype: "regulation.guidance"},
	},
	model.V2PolicyMeeting: {
		{subtype: "regulation.policy.meeting"},
	},
	model.V2StablecoinLaunch: {
		{phrases: []string{"registered", "registration"}, subtype: "stablecoin.launch.registered"},
		{subtype: "stablecoin.launch"},
	},
	model.V2StablecoinReserveUpdate: {
		{subtype: "stablecoin.reserves.update"},
	},
	model.V2StablecoinImpactWarning: {
		{subtype: "stablecoin.risk.warning"},
	},
	model.V2FundRaise: {
		{subtype: "institutions.funding"},
	},
	model.V2StrategicInvestment: {
		{subtype: "institutions.investment"},
	},
	model.V2CorporateBitcoinPurchase: {
		{subtype: "institutions.treasury.btc_purchase"},
	},
	model.V2MarketVolatility: {
		{subtype: "markets.volatility"},
	},
	model.V2MacroMarketShock: {
		{subtype: "macro.shock"},
	},
	model.V2ValidatorDecline: {
		{subtype: "network.validators.decline"},
	},
	model.V2ExchangeProductExpansion: {
		{subtype: "market_structure.exchange.product_expansion"},
	},
	model.V2PaymentsCompanyUpdate: {
		{subtype: "payments.company.update"},
	},
	model.V2TokenizedVolumeSurge: {
		{subtype: "tokenization.asset.volume_surge"},
	},
	model.V2TokenizedEquitiesStrategy: {
		{subtype: "tokenization.equities.strategy"},
	},
	model.V2IPOFiling: {
		{subtype: "capital_markets.ipo.filing"},
	},
	model.V2IPOPlanning: {
		{subtype: "capital_markets.ipo.planning"},
	},
	model.V2IPOMarketDebut: {
		{subtype: "capital_markets.ipo.market_debut"},
	},
	model.V2MiscOther: {
		{phrases: []string{"breach"}, subtype: "security.exchange_hack.breach"},
		{phrases: []string{"exploit", "exploited"}, subtype: "security.exchange_hack.exploit"},
		{phrases: []string{"hack", "hacked"}, subtype: "security.exchange_hack.hack"},
		{phrases: []string{"hard fork"}, subtype: "protocol.upgrade.hard_fork"},
		{phrases: []string{"mainnet upgrade"}, subtype: "protocol.upgrade.mainnet"},
		{phrases: []string{"upgrade"}, subtype: "protocol.upgrade.upgrade"},
		{phrases: []string{"miner halt", "mining halt", "halt"}, subtype: "protocol.mining.halt"},
		{phrases: []string{"shutdown", "shut down"}, subtype: "protocol.mining.shutdown"},
		{subtype: "misc"},
	},
}

// InferSubtype returns the subtype for a selected v2 event type, or "" when
// no refinement applies. Favors precision: unmatched probes yield nothing
// unless the event type carries a default.
func InferSubtype(nt NormalizedText, eventType model.EventTypeV2) string {
	probes, ok := v2Subtypes[eventType]
	if !ok {
		return ""
	}
	for _, p := range probes {
		if len(p.phrases) == 0 {
			return p.subtype
		}
		for _, phrase := range p.phrases {
			if len(findPhrase(nt.Folded, phrase)) > 0 {
				if eventType == model.V2MiscOther {
					return guardMiscSubtype(nt, p.subtype)
				}
				return p.subtype
			}
		}
	}
	return ""
}

// guardMiscSubtype downgrades protocol.mining subtypes to "misc" when no
// mining term is present; "halt"/"shutdown" alone are too generic.
func guardMiscSubtype(nt NormalizedText, subtype string) string {
	if strings.HasPrefix(subtype, "protocol.mining.") {
		for _, term := range []string{"miner", "miners", "mining"} {
			if len(findPhrase(nt.Folded, term)) > 0 {
				return subtype
			}
		}
		return "misc"
	}
	return subtype
}

// v2ToV1 is the best-effort static correspondence to the legacy enum.
// Event types with no sane legacy counterpart are absent.
var v2ToV1 = map[model.EventTypeV2]model.EventTypeV1{
	model.V2RegulationRestriction: model.V1EnforcementAction,
	model.V2StablecoinLaunch:      model.V1StablecoinIssuance,
	model.V2Unknown:               model.V1Unknown,
}

// miscSubtypeToV1 recovers legacy event types that survive only as
// MISC_OTHER subtypes in v2.
var miscSubtypeToV1 = []struct {
	prefix string
	v1     model.EventTypeV1
}{
	{"security.exchange_hack", model.V1ExchangeHack},
	{"protocol.upgrade", model.V1ProtocolUpgrade},
	{"protocol.mining", model.V1MinerShutdown},
}

// MapV2ToV1 returns the legacy event type for a v2 classification, or nil
// when no mapping exists.
func MapV2ToV1(eventType model.EventTypeV2, subtype string) *model.EventTypeV1 {
	if eventType == model.V2MiscOther {
		for _, m := range miscSubtypeToV1 {
			if strings.HasPrefix(subtype, m.prefix) {
				v1 := m.v1
				return &v1
			}
		}
		return nil
	}
	if v1, ok := v2ToV1[eventType]; ok {
		out := v1
		return &out
	}
	return nil
}

// v1ToV2 is the forward correspondence, total over the legacy enum. Used by
// eval tooling to compare legacy feedback against v2 output.
var v1ToV2 = map[model.EventTypeV1]model.EventTypeV2{
	model.V1Unknown:            model.V2Unknown,
	model.V1ETFApproval:        model.V2RegulatoryGuidance,
	model.V1ETFRejection:       model.V2RegulationRestriction,
	model.V1ETFFiling:          model.V2MiscOther,
	model.V1ETFInflow:          model.V2MiscOther,
	model.V1ETFOutflow:         model.V2MiscOther,
	model.V1EnforcementAction:  model.V2RegulationRestriction,
	model.V1ExchangeHack:       model.V2MiscOther,
	model.V1StablecoinIssuance: model.V2StablecoinLaunch,
	model.V1StablecoinDepeg:    model.V2StablecoinImpactWarning,
	model.V1CEXInflow:          model.V2MiscOther,
	model.V1CEXOutflow:         model.V2MiscOther,
	model.V1ProtocolUpgrade:    model.V2MiscOther,
	model.V1MinerShutdown:      model.V2MiscOther,
}

// MapV1ToV2 returns the v2 event type corresponding to a legacy one.
func MapV1ToV2(eventType model.EventTypeV1) model.EventTypeV2 {
	if v2, ok := v1ToV2[eventType]; ok {
		return v2
	}
	return model.V2Unknown
}

// topicsV1 mirrors the loose legacy topic derivation.
func topicsV1(eventType model.EventTypeV1) []string {
	switch {
	case strings.HasPrefix(string(eventType), "ETF_"):
		return []string{"ETF", "REGULATION"}
	case eventType == model.V1ExchangeHack || eventType == model.V1EnforcementAction:
		return []string{"RISK"}
	}
	return []string{}
}

// topicsV2 derives the topic from the event family.
func topicsV2(eventType model.EventTypeV2) []string {
	switch eventType {
	case model.V2RegulationRestriction, model.V2RegulatoryGuidance, model.V2PolicyMeeting:
		return []string{"REGULATION"}
	case model.V2StablecoinLaunch, model.V2StablecoinReserveUpdate, model.V2StablecoinImpactWarning:
		return []string{"STABLECOIN"}
	case model.V2FundRaise, model.V2StrategicInvestment, model.V2CorporateBitcoinPurchase:
		return []string{"INSTITUTIONS"}
	case model.V2MarketVolatility, model.V2MacroMarketShock:
		return []string{"MARKETS"}
	case model.V2ValidatorDecline:
		return []string{"NETWORK"}
	case model.V2ExchangeProductExpansion:
		return []string{"MARKET_STRUCTURE"}
	case model.V2PaymentsCompanyUpdate:
		return []string{"PAYMENTS"}
	case model.V2TokenizedVolumeSurge, model.V2TokenizedEquitiesStrategy:
		return []string{"TOKENIZATION"}
	case model.V2IPOFiling, model.V2IPOPlanning, model.V2IPOMarketDebut:
		return []string{"CAPITAL_MARKETS"}
	}
	return []string{}
}
