package parser

import "github.com/sells-group/eventwire/internal/model"

// Shared phrase sets.
var (
	regulatorTerms = []string{
		"sec", "cftc", "doj", "finra", "fca", "esma", "ofac",
		"regulator", "regulators",
	}
	restrictionTerms = []string{
		"lawsuit", "sues", "sued", "charges", "charged", "indict",
		"indicted", "ban", "banned", "prohibit", "prohibited",
		"restriction", "restricted", "crackdown",
	}
	guidanceTerms = []string{
		"guidance", "clarified", "clarifies", "rules", "framework",
		"consultation", "bill", "draft bill", "policy",
	}
	hackTerms = []string{
		"hack", "hacked", "exploit", "exploited", "breach", "stolen",
		"drained",
	}
	volatilityTerms = []string{
		"volatility", "sell-off", "selloff", "plunge", "dump", "rally",
		"surge", "crash",
	}
)

// v1Rules is the legacy taxonomy's rule table.
func v1Rules() *RuleTable {
	return &RuleTable{
		Version: model.SchemaV1,
		Unknown: string(model.V1Unknown),
		Rules: []Rule{
			{
				EventType:  string(model.V1EnforcementAction),
				Triggers:   restrictionTerms,
				Requires:   [][]string{regulatorTerms},
				Weight:     0.85,
				Confidence: 0.72,
				Precedence: 1,
				Severity:   SeverityCritical,
			},
			{
				EventType:     string(model.V1ExchangeHack),
				Triggers:      hackTerms,
				RequireCrypto: true,
				Weight:        0.9,
				Confidence:    0.75,
				Precedence:    1,
				Severity:      SeverityCritical,
			},
			{
				EventType:  string(model.V1StablecoinDepeg),
				Triggers:   []string{"depeg", "depegged", "de-peg", "lost its peg", "below its peg"},
				Weight:     0.8,
				Confidence: 0.72,
				Precedence: 2,
				Severity:   SeverityCritical,
			},
			{
				// Verb forms only: "after SEC approval" as background
				// context must not trump the actual event.
				EventType:  string(model.V1ETFApproval),
				Triggers:   []string{"approves", "approved", "wins approval", "approval granted", "greenlights", "greenlit"},
				Requires:   [][]string{{"etf", "exchange-traded fund", "exchange traded fund"}},
				Weight:     0.8,
				Confidence: 0.75,
				Precedence: 3,
				Severity:   SeverityElevated,
			},
			{
				EventType:  string(model.V1ETFRejection),
				Triggers:   []string{"rejects", "rejected", "rejection", "denies", "denied"},
				Requires:   [][]string{{"etf", "exchange-traded fund", "exchange traded fund"}},
				Weight:     0.75,
				Confidence: 0.72,
				Precedence: 3,
				Severity:   SeverityElevated,
			},
			{
				EventType:  string(model.V1ETFInflow),
				Triggers:   []string{"inflow", "inflows"},
				Requires:   [][]string{{"etf", "exchange-traded fund", "exchange traded fund"}},
				Weight:     0.65,
				Confidence: 0.72,
				Precedence: 4,
			},
			{
				EventType:  string(model.V1ETFOutflow),
				Triggers:   []string{"outflow", "outflows"},
				Requires:   [][]string{{"etf", "exchange-traded fund", "exchange traded fund"}},
				Weight:     0.65,
				Confidence: 0.72,
				Precedence: 4,
			},
			{
				EventType:  string(model.V1ETFFiling),
				Triggers:   []string{"files for", "filed", "filing", "s-1", "19b-4", "application"},
				Requires:   [][]string{{"etf", "exchange-traded fund", "exchange traded fund"}},
				Weight:     0.6,
				Confidence: 0.7,
				Precedence: 5,
			},
			{
				EventType:  string(model.V1StablecoinIssuance),
				Triggers:   []string{"launch", "launched", "launches", "issued", "issuance", "minted", "introduced"},
				Requires:   [][]string{{"stablecoin"}},
				Weight:     0.7,
				Confidence: 0.7,
				Precedence: 6,
			},
			{
				EventType:  string(model.V1CEXInflow),
				Triggers:   []string{"inflow", "inflows", "deposited", "deposits"},
				Requires:   [][]string{{"exchange", "exchanges"}},
				Weight:     0.55,
				Confidence: 0.6,
				Precedence: 7,
			},
			{
				EventType:  string(model.V1CEXOutflow),
				Triggers:   []string{"outflow", "outflows", "withdrawals", "withdrawn"},
				Requires:   [][]string{{"exchange", "exchanges"}},
				Weight:     0.55,
				Confidence: 0.6,
				Precedence: 7,
			},
			{
				EventType:     string(model.V1ProtocolUpgrade),
				Triggers:      []string{"hard fork", "upgrade", "upgraded", "mainnet"},
				RequireCrypto: true,
				Weight:        0.6,
				Confidence:    0.65,
				Precedence:    8,
			},
			{
				EventType:  string(model.V1MinerShutdown),
				Triggers:   []string{"shutdown", "shut down", "halt", "halted"},
				Requires:   [][]string{{"miner", "miners", "mining"}},
				Weight:     0.6,
				Confidence: 0.65,
				Precedence: 8,
			},
		},
	}
}

// v2Rules is the MECE taxonomy's rule table. Weights and confidences carry
// over the tuned values of the legacy heuristics.
func v2Rules() *RuleTable {
	return &RuleTable{
		Version:       model.SchemaV2,
		Unknown:       string(model.V2Unknown),
		CryptoDefault: string(model.V2MiscOther),
		Rules: []Rule{
			{
				EventType:  string(model.V2RegulationRestriction),
				Triggers:   restrictionTerms,
				Requires:   [][]string{regulatorTerms},
				Weight:     0.85,
				Confidence: 0.72,
				Precedence: 1,
				Severity:   SeverityCritical,
			},
			{
				EventType:     string(model.V2RegulatoryGuidance),
				Triggers:      guidanceTerms,
				RequireCrypto: true,
				Weight:        0.65,
				Confidence:    0.66,
				Precedence:    2,
				Severity:      SeverityElevated,
			},
			{
				// Same event, regulator-anchored: guidance wording without a
				// crypto cue still counts when a regulator is named.
				EventType:  string(model.V2RegulatoryGuidance),
				Triggers:   guidanceTerms,
				Requires:   [][]string{regulatorTerms},
				Weight:     0.65,
				Confidence: 0.66,
				Precedence: 2,
				Severity:   SeverityElevated,
			},
			{
				EventType:  string(model.V2PolicyMeeting),
				Triggers:   []string{"meeting", "summit", "hearing", "roundtable"},
				Requires:   [][]string{regulatorTerms},
				Weight:     0.55,
				Confidence: 0.62,
				Precedence: 11,
			},
			{
				EventType:  string(model.V2StablecoinLaunch),
				Triggers:   []string{"launch", "launched", "launches", "introduced"},
				Requires:   [][]string{{"stablecoin"}},
				Weight:     0.7,
				Confidence: 0.7,
				Precedence: 3,
			},
			{
				EventType:  string(model.V2StablecoinReserveUpdate),
				Triggers:   []string{"reserve", "reserves", "attestation", "audit"},
				Requires:   [][]string{{"stablecoin"}},
				Weight:     0.65,
				Confidence: 0.68,
				Precedence: 3,
			},
			{
				EventType:  string(model.V2StablecoinImpactWarning),
				Triggers:   []string{"warning", "warned", "risk", "threat", "impact"},
				Requires:   [][]string{{"stablecoin"}},
				Weight:     0.55,
				Confidence: 0.6,
				Precedence: 4,
				Severity:   SeverityElevated,
			},
			{
				EventType:  string(model.V2FundRaise),
				Triggers:   []string{"series a", "series b", "series c", "funding round", "raised", "raise", "seed round", "venture"},
				Weight:     0.6,
				Confidence: 0.65,
				Precedence: 5,
			},
			{
				EventType:  string(model.V2StrategicInvestment),
				Triggers:   []string{"strategic investment", "invested", "investment", "took a stake", "stake"},
				Weight:     0.55,
				Confidence: 0.6,
				Precedence: 5,
			},
			{
				EventType: string(model.V2CorporateBitcoinPurchase),
				Triggers:  []string{"purchased", "purchase", "buys", "bought", "acquired", "added"},
				Requires: [][]string{
					{"bitcoin", "btc"},
					{"company", "firm", "treasury", "strategy"},
				},
				Weight:     0.6,
				Confidence: 0.66,
				Precedence: 5,
			},
			{
				EventType:     string(model.V2MarketVolatility),
				Triggers:      volatilityTerms,
				RequireCrypto: true,
				Weight:        0.55,
				Confidence:    0.58,
				Precedence:    10,
			},
			{
				EventType:  string(model.V2MacroMarketShock),
				Triggers:   []string{"fed", "interest rate", "inflation", "recession", "jobs report"},
				Weight:     0.5,
				Confidence: 0.55,
				Precedence: 10,
			},
			{
				EventType:  string(model.V2ValidatorDecline),
				Triggers:   []string{"validator", "validators"},
				Requires:   [][]string{{"decline", "declined", "dropped", "fallen", "drop", "down"}},
				Weight:     0.55,
				Confidence: 0.65,
				Precedence: 9,
			},
			{
				EventType:  string(model.V2ExchangeProductExpansion),
				Triggers:   []string{"launched", "launches", "roll out", "rolled out", "product", "derivatives", "options"},
				Requires:   [][]string{{"exchange", "exchanges"}},
				Weight:     0.5,
				Confidence: 0.6,
				Precedence: 8,
			},
			{
				EventType:     string(model.V2PaymentsCompanyUpdate),
				Triggers:      []string{"payments", "payment", "settlement"},
				RequireCrypto: true,
				Weight:        0.45,
				Confidence:    0.58,
				Precedence:    8,
			},
			{
				EventType:  string(model.V2TokenizedVolumeSurge),
				Triggers:   []string{"volume", "volumes", "trading volume", "surged", "surge"},
				Requires:   [][]string{{"tokenized"}},
				Weight:     0.55,
				Confidence: 0.65,
				Precedence: 7,
			},
			{
				EventType:  string(model.V2TokenizedEquitiesStrategy),
				Triggers:   []string{"stock", "stocks", "equity", "equities"},
				Requires:   [][]string{{"tokenized"}},
				Weight:     0.55,
				Confidence: 0.65,
				Precedence: 7,
			},
			{
				EventType:  string(model.V2IPOFiling),
				Triggers:   []string{"filed", "filing", "f-1", "s-1"},
				Requires:   [][]string{{"ipo"}},
				Weight:     0.6,
				Confidence: 0.7,
				Precedence: 6,
			},
			{
				EventType:  string(model.V2IPOPlanning),
				Triggers:   []string{"plans", "planning", "considering", "exploring"},
				Requires:   [][]string{{"ipo"}},
				Weight:     0.5,
				Confidence: 0.62,
				Precedence: 6,
			},
			{
				EventType:  string(model.V2IPOMarketDebut),
				Triggers:   []string{"debut", "began trading", "priced", "listed"},
				Requires:   [][]string{{"ipo"}},
				Weight:     0.55,
				Confidence: 0.68,
				Precedence: 6,
			},
		},
	}
}

// DefaultTables returns the built-in rule tables, one per taxonomy version.
func DefaultTables() map[model.SchemaVersion]*RuleTable {
	return map[model.SchemaVersion]*RuleTable{
		model.SchemaV1: v1Rules(),
		model.SchemaV2: v2Rules(),
	}
}
