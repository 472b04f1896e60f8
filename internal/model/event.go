package model

import "sort"

// SchemaVersion selects the response taxonomy.
type SchemaVersion string

const (
	SchemaV1 SchemaVersion = "v1"
	SchemaV2 SchemaVersion = "v2"
)

// IsValid reports whether v names a supported schema version.
func (v SchemaVersion) IsValid() bool {
	return v == SchemaV1 || v == SchemaV2
}

// EventTypeV1 is the legacy closed event taxonomy.
type EventTypeV1 string

const (
	V1Unknown EventTypeV1 = "UNKNOWN"

	V1ETFApproval  EventTypeV1 = "ETF_APPROVAL"
	V1ETFRejection EventTypeV1 = "ETF_REJECTION"
	V1ETFFiling    EventTypeV1 = "ETF_FILING"
	V1ETFInflow    EventTypeV1 = "ETF_INFLOW"
	V1ETFOutflow   EventTypeV1 = "ETF_OUTFLOW"

	V1EnforcementAction EventTypeV1 = "ENFORCEMENT_ACTION"
	V1ExchangeHack      EventTypeV1 = "EXCHANGE_HACK"

	V1StablecoinIssuance EventTypeV1 = "STABLECOIN_ISSUANCE"
	V1StablecoinDepeg    EventTypeV1 = "STABLECOIN_DEPEG"

	V1CEXInflow  EventTypeV1 = "CEX_INFLOW"
	V1CEXOutflow EventTypeV1 = "CEX_OUTFLOW"

	V1ProtocolUpgrade EventTypeV1 = "PROTOCOL_UPGRADE"
	V1MinerShutdown   EventTypeV1 = "MINER_SHUTDOWN"
)

// EventTypeV2 is the MECE event taxonomy. MISC_OTHER is the reserved
// catch-all for crypto-relevant text that matched no rule; UNKNOWN marks
// text with no crypto-relevant signal at all.
type EventTypeV2 string

const (
	V2Unknown   EventTypeV2 = "UNKNOWN"
	V2MiscOther EventTypeV2 = "MISC_OTHER"

	V2RegulationRestriction EventTypeV2 = "CRYPTO_REGULATION_RESTRICTION"
	V2RegulatoryGuidance    EventTypeV2 = "REGULATORY_GUIDANCE"
	V2PolicyMeeting         EventTypeV2 = "CRYPTO_POLICY_MEETING"

	V2StablecoinLaunch        EventTypeV2 = "STABLECOIN_LAUNCH"
	V2StablecoinReserveUpdate EventTypeV2 = "STABLECOIN_RESERVE_UPDATE"
	V2StablecoinImpactWarning EventTypeV2 = "STABLECOIN_IMPACT_WARNING"

	V2FundRaise                EventTypeV2 = "FUND_RAISE"
	V2StrategicInvestment      EventTypeV2 = "STRATEGIC_INVESTMENT"
	V2CorporateBitcoinPurchase EventTypeV2 = "CORPORATE_BITCOIN_PURCHASE"

	V2MarketVolatility EventTypeV2 = "CRYPTO_MARKET_VOLATILITY"
	V2MacroMarketShock EventTypeV2 = "MACRO_MARKET_SHOCK"

	V2ValidatorDecline EventTypeV2 = "NETWORK_VALIDATOR_DECLINE"

	V2ExchangeProductExpansion EventTypeV2 = "CRYPTO_EXCHANGE_PRODUCT_EXPANSION"
	V2PaymentsCompanyUpdate    EventTypeV2 = "CRYPTO_PAYMENTS_COMPANY_UPDATE"

	V2TokenizedVolumeSurge      EventTypeV2 = "TOKENIZED_ASSET_VOLUME_SURGE"
	V2TokenizedEquitiesStrategy EventTypeV2 = "TOKENIZED_EQUITIES_STRATEGY"

	V2IPOFiling      EventTypeV2 = "IPO_FILING"
	V2IPOPlanning    EventTypeV2 = "IPO_PLANNING"
	V2IPOMarketDebut EventTypeV2 = "IPO_MARKET_DEBUT"
)

var v1EventTypes = map[EventTypeV1]struct{}{
	V1Unknown: {}, V1ETFApproval: {}, V1ETFRejection: {}, V1ETFFiling: {},
	V1ETFInflow: {}, V1ETFOutflow: {}, V1EnforcementAction: {},
	V1ExchangeHack: {}, V1StablecoinIssuance: {}, V1StablecoinDepeg: {},
	V1CEXInflow: {}, V1CEXOutflow: {}, V1ProtocolUpgrade: {}, V1MinerShutdown: {},
}

var v2EventTypes = map[EventTypeV2]struct{}{
	V2Unknown: {}, V2MiscOther: {}, V2RegulationRestriction: {},
	V2RegulatoryGuidance: {}, V2PolicyMeeting: {}, V2StablecoinLaunch: {},
	V2StablecoinReserveUpdate: {}, V2StablecoinImpactWarning: {},
	V2FundRaise: {}, V2StrategicInvestment: {}, V2CorporateBitcoinPurchase: {},
	V2MarketVolatility: {}, V2MacroMarketShock: {}, V2ValidatorDecline: {},
	V2ExchangeProductExpansion: {}, V2PaymentsCompanyUpdate: {},
	V2TokenizedVolumeSurge: {}, V2TokenizedEquitiesStrategy: {},
	V2IPOFiling: {}, V2IPOPlanning: {}, V2IPOMarketDebut: {},
}

// IsValidEventType reports whether name belongs to the closed enum of the
// given schema version.
func IsValidEventType(version SchemaVersion, name string) bool {
	switch version {
	case SchemaV1:
		_, ok := v1EventTypes[EventTypeV1(name)]
		return ok
	case SchemaV2:
		_, ok := v2EventTypes[EventTypeV2(name)]
		return ok
	}
	return false
}

// EventTypeNames returns the sorted enum of a schema version.
func EventTypeNames(version SchemaVersion) []string {
	var names []string
	switch version {
	case SchemaV1:
		for t := range v1EventTypes {
			names = append(names, string(t))
		}
	case SchemaV2:
		for t := range v2EventTypes {
			names = append(names, string(t))
		}
	}
	sort.Strings(names)
	return names
}
