package model

import "time"

// Parameter names produced by the fetchers and understood by the scorers.
const (
	ParamPERatio           = "P/E Ratio"
	ParamRevenueGrowth     = "Revenue Growth"
	ParamReturnOnEquity    = "Return on Equity"
	ParamDebtEquity        = "Debt/Equity"
	ParamFreeCashFlowYield = "Free Cash Flow Yield"
	ParamDividendYield     = "Dividend Yield"
	ParamEPSGrowth         = "EPS Growth"
	ParamPBRatio           = "P/B Ratio"
	ParamCurrentRatio      = "Current Ratio"
	ParamOperatingMargin   = "Operating Margin"

	ParamPEG             = "PEG"
	ParamEBITGrowth      = "EBIT Growth"
	ParamTurnoverGrowth  = "Turnover Growth"
	ParamMarketCap       = "Market Cap"
	ParamYield           = "Yield"
	ParamROCE            = "ROCE"
	ParamInterestPayable = "Interest Payable"
	ParamVolatility      = "Volatility"
	ParamAnalystRating   = "Analyst Rating"
)

// ParameterValue is one scored metric inside an evaluation.
type ParameterValue struct {
	Name       string     `json:"name"`
	Raw        Value      `json:"raw"`
	BaseWeight int        `json:"base_weight"`
	Weight     int        `json:"weight"`
	Score      float64    `json:"score"`
	Confidence Confidence `json:"confidence"`
}

// Weighted returns score × weight.
func (p ParameterValue) Weighted() float64 {
	return p.Score * float64(p.Weight)
}

// Recommendation is the label plus a short explanation.
type Recommendation struct {
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

func (r Recommendation) String() string {
	if r.Detail == "" {
		return r.Label
	}
	return r.Label + " - " + r.Detail
}

// EvaluationResult is the outcome of scoring one ticker.
type EvaluationResult struct {
	RequestID      string           `json:"request_id,omitempty"`
	Ticker         string           `json:"ticker"`
	Name           string           `json:"name"`
	Sector         string           `json:"sector"`
	Strategy       string           `json:"strategy"`
	Parameters     []ParameterValue `json:"parameters"`
	WeightedSum    float64          `json:"weighted_sum"`
	MaxPossible    float64          `json:"max_possible"`
	Percentage     float64          `json:"percentage"`
	RedFlags       []string         `json:"red_flags"`
	QuartileFlags  []string         `json:"quartile_flags,omitempty"`
	Recommendation Recommendation   `json:"recommendation"`
	EvaluatedAt    time.Time        `json:"evaluated_at"`
}

// Parameter returns the scored parameter with the given name.
func (r *EvaluationResult) Parameter(name string) (ParameterValue, bool) {
	for _, p := range r.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterValue{}, false
}
