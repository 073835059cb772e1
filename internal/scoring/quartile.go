package scoring

import "ShareEvaluator/internal/model"

// higherIsWorse lists parameters whose bottom quartile is above the threshold.
var higherIsWorse = map[string]bool{
	model.ParamPEG:             true,
	model.ParamDebtEquity:      true,
	model.ParamInterestPayable: true,
	model.ParamVolatility:      true,
}

// QuartileTable holds per-sector bottom-quartile thresholds.
type QuartileTable struct {
	defaults map[string]float64
	sectors  map[string]map[string]float64
}

// NewQuartileTable builds a table. Sectors it does not know use defaults.
func NewQuartileTable(defaults map[string]float64, sectors map[string]map[string]float64) *QuartileTable {
	return &QuartileTable{defaults: defaults, sectors: sectors}
}

// Thresholds returns the thresholds for sector.
func (q *QuartileTable) Thresholds(sector string) map[string]float64 {
	if th, ok := q.sectors[sector]; ok {
		return th
	}
	return q.defaults
}

// InBottomQuartile reports whether v falls in the bottom quartile for
// param. Parameters without a threshold are never flagged.
func (q *QuartileTable) InBottomQuartile(sector, param string, v float64) bool {
	threshold, ok := q.Thresholds(sector)[param]
	if !ok {
		return false
	}
	if higherIsWorse[param] {
		return v > threshold
	}
	return v < threshold
}

func quartileRow(peg, ebit, turnover, de, mcap, yield, roce, interest, vol, analyst float64) map[string]float64 {
	return map[string]float64{
		model.ParamPEG:             peg,
		model.ParamEBITGrowth:      ebit,
		model.ParamTurnoverGrowth:  turnover,
		model.ParamDebtEquity:      de,
		model.ParamMarketCap:       mcap,
		model.ParamYield:           yield,
		model.ParamROCE:            roce,
		model.ParamInterestPayable: interest,
		model.ParamVolatility:      vol,
		model.ParamAnalystRating:   analyst,
	}
}

// DefaultQuartiles returns the built-in bottom-quartile thresholds.
func DefaultQuartiles() *QuartileTable {
	return NewQuartileTable(
		quartileRow(3.0, 5.0, 2.0, 2.5, 100, 1.0, 5.0, 50, 2.0, 3.0),
		map[string]map[string]float64{
			"Technology":             quartileRow(4.0, 10.0, 8.0, 1.5, 500, 0.5, 8.0, 40, 2.5, 4.0),
			"Healthcare":             quartileRow(3.5, 8.0, 5.0, 1.8, 300, 1.0, 7.0, 45, 1.8, 3.5),
			"Financials":             quartileRow(2.8, 6.0, 3.0, 3.5, 1000, 2.0, 6.0, 60, 2.2, 3.0),
			"Consumer Discretionary": quartileRow(3.2, 5.0, 4.0, 2.0, 200, 1.5, 7.0, 50, 2.0, 3.0),
			"Consumer Staples":       quartileRow(2.5, 3.0, 2.0, 1.8, 500, 2.5, 5.0, 40, 1.5, 3.0),
			"Industrials":            quartileRow(3.0, 4.0, 3.0, 2.2, 300, 1.8, 6.0, 55, 1.8, 3.0),
			"Energy":                 quartileRow(2.8, 3.0, 2.0, 2.5, 800, 3.0, 4.0, 60, 2.5, 3.0),
			"Materials":              quartileRow(2.7, 3.5, 2.5, 2.3, 400, 2.0, 5.0, 58, 2.2, 3.0),
			"Utilities":              quartileRow(2.5, 2.0, 1.5, 3.0, 500, 3.5, 4.0, 65, 1.5, 3.0),
			"Real Estate":            quartileRow(2.6, 3.0, 2.0, 3.2, 300, 3.0, 4.5, 62, 1.8, 3.0),
			"Communication Services": quartileRow(3.2, 5.0, 3.5, 2.0, 400, 1.5, 6.0, 50, 2.0, 3.5),
		},
	)
}
