package analyst

// Role names of the default catalogue, in default dispatch order.
const (
	RoleCompany   = "company"
	RoleIndustry  = "industry"
	RoleMacro     = "macro"
	RoleTechnical = "technical"
	RoleRisk      = "risk"
	RoleSentiment = "sentiment"
)

// DefaultOrder is the configured role order when none is given.
var DefaultOrder = []string{RoleCompany, RoleIndustry, RoleMacro, RoleTechnical, RoleRisk, RoleSentiment}

const snapshotBlock = `Ticker: {{.Ticker}} ({{.Market}}){{with .Data}}{{if .Name}} - {{.Name}}{{end}}
Current price: {{price .CurrentPrice}} {{.Currency}}
52-week range: {{price .Week52Low}} - {{price .Week52High}}
Market cap: {{dec .MarketCap}} | PER: {{dec .PER}} | PBR: {{dec .PBR}} | ROE: {{dec .ROE}}
Volume: {{.Volume}} | Data source: {{.SourceTier}}{{end}}
As of: {{.Today}}
`

const indicatorBlock = `Indicators:
- Trend: {{.Indicators.Trend}}
- Change 1D/5D/20D: {{pct .Indicators.Change1D}} / {{pct .Indicators.Change5D}} / {{pct .Indicators.Change20D}}
- SMA20/50/200: {{num .Indicators.SMA20}} / {{num .Indicators.SMA50}} / {{num .Indicators.SMA200}}
- RSI(14): {{num .Indicators.RSI14}} | ATR(14): {{num .Indicators.ATR14}}
- Annualized volatility: {{pct .Indicators.Volatility}} | Max drawdown: {{pct .Indicators.MaxDrawdown}}
- Support/Resistance (20d): {{num .Indicators.Support}} / {{num .Indicators.Resistance}}
- Position in 52-week range: {{pct .Indicators.Position52W}}
- 20-day average volume: {{num .Indicators.AvgVolume20}}
`

const recentBars = `Recent sessions (date, open, high, low, close, volume):
{{with .Data}}{{range last 10 .History}}{{day .Date}} {{price .Open}} {{price .High}} {{price .Low}} {{price .Close}} {{.Volume}}
{{end}}{{end}}`

// DefaultSpecs returns the built-in catalogue keyed by role name.
func DefaultSpecs() map[string]Spec {
	return map[string]Spec{
		RoleCompany: {
			Name:        RoleCompany,
			DisplayName: "Company Analyst",
			Weight:      1.0,
			SystemPrompt: "You are a senior equity analyst holding CPA and CFA charters with 25 years of experience. " +
				"Assess profitability, growth, balance sheet strength and valuation. " +
				"When a figure is n/a, say the data is insufficient instead of inventing numbers. " +
				"Keep price targets within 30% of the current price; treat PER above 50 as overvalued.",
			UserTemplate: "Perform a quantitative company analysis.\n\n" + snapshotBlock,
		},
		RoleIndustry: {
			Name:        RoleIndustry,
			DisplayName: "Industry Expert",
			Weight:      1.0,
			SystemPrompt: "You are an industry expert. Evaluate the industry trend, competitive position, " +
				"technology shifts and regulatory environment of the company's sector.",
			UserTemplate: "Evaluate the industry outlook for this company.\n\n" + snapshotBlock,
		},
		RoleMacro: {
			Name:        RoleMacro,
			DisplayName: "Macroeconomist",
			Weight:      1.0,
			SystemPrompt: "You are a macroeconomist. Judge how interest rates, inflation, growth, currency " +
				"and employment conditions in the company's home market affect the stock.",
			UserTemplate: "Assess the macroeconomic backdrop for this stock.\n\n" + snapshotBlock,
		},
		RoleTechnical: {
			Name:        RoleTechnical,
			DisplayName: "Technical Analyst",
			Weight:      1.0,
			SystemPrompt: "You are a technical analyst. Base your view only on price action, moving averages, " +
				"momentum, volatility and support/resistance levels.",
			UserTemplate: "Perform a technical analysis.\n\n" + snapshotBlock + "\n" + indicatorBlock + "\n" + recentBars,
		},
		RoleRisk: {
			Name:        RoleRisk,
			DisplayName: "Risk Manager",
			Weight:      1.0,
			SystemPrompt: "You are a chief risk officer holding FRM and CFA charters. Quantify downside risk, " +
				"volatility, drawdown and position sizing, and propose a stop loss.",
			UserTemplate: "Perform a quantitative risk analysis.\n\n" + snapshotBlock + "\n" + indicatorBlock,
		},
		RoleSentiment: {
			Name:        RoleSentiment,
			DisplayName: "Market Sentiment Analyst",
			Weight:      1.0,
			SystemPrompt: "You analyze market sentiment and investor behaviour. Infer positioning and crowd " +
				"psychology from price and volume momentum.",
			UserTemplate: "Read the market sentiment from recent trading.\n\n" + snapshotBlock + "\n" +
				"Momentum: 1D {{pct .Indicators.Change1D}}, 5D {{pct .Indicators.Change5D}}, 20D {{pct .Indicators.Change20D}}; " +
				"RSI(14) {{num .Indicators.RSI14}}; 20-day average volume {{num .Indicators.AvgVolume20}}.\n\n" + recentBars,
		},
	}
}
