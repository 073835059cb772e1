package scoring

import (
	"sort"

	"ShareEvaluator/internal/model"
)

const (
	// DefaultWeight is used for parameters missing from a weight table.
	DefaultWeight = 5
	minWeight     = 1
	maxWeight     = 10
)

// Weight pairs a parameter with its importance (1-10).
type Weight struct {
	Param  string
	Weight int
}

// SectorWeightTable resolves the importance of each parameter per sector.
// Every parameter of the base table is defined for every sector; sectors
// the table does not know use the base weights.
type SectorWeightTable struct {
	base    []Weight
	sectors map[string]map[string]int
}

// NewAdjustedWeightTable applies signed per-sector adjustments to base
// and clamps the results to [1,10].
func NewAdjustedWeightTable(base []Weight, adjustments map[string]map[string]int) *SectorWeightTable {
	t := &SectorWeightTable{base: clampWeights(base), sectors: make(map[string]map[string]int)}
	for sector, adj := range adjustments {
		weights := make(map[string]int, len(t.base))
		for _, w := range t.base {
			weights[w.Param] = clampWeight(w.Weight + adj[w.Param])
		}
		t.sectors[sector] = weights
	}
	return t
}

// NewFixedWeightTable uses explicit per-sector weights. Parameters a sector
// omits fall back to base.
func NewFixedWeightTable(base []Weight, sectors map[string]map[string]int) *SectorWeightTable {
	t := &SectorWeightTable{base: clampWeights(base), sectors: make(map[string]map[string]int)}
	for sector, fixed := range sectors {
		weights := make(map[string]int, len(t.base))
		for _, w := range t.base {
			if v, ok := fixed[w.Param]; ok {
				weights[w.Param] = clampWeight(v)
			} else {
				weights[w.Param] = w.Weight
			}
		}
		t.sectors[sector] = weights
	}
	return t
}

// Parameters returns the base parameters in table order.
func (t *SectorWeightTable) Parameters() []string {
	out := make([]string, len(t.base))
	for i, w := range t.base {
		out[i] = w.Param
	}
	return out
}

// Sectors returns the sectors with their own weights, sorted.
func (t *SectorWeightTable) Sectors() []string {
	out := make([]string, 0, len(t.sectors))
	for s := range t.sectors {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// BaseWeight returns the sector-independent weight of param.
func (t *SectorWeightTable) BaseWeight(param string) int {
	for _, w := range t.base {
		if w.Param == param {
			return w.Weight
		}
	}
	return DefaultWeight
}

// Weight returns the importance of param for sector.
func (t *SectorWeightTable) Weight(sector, param string) int {
	if weights, ok := t.sectors[sector]; ok {
		if v, ok := weights[param]; ok {
			return v
		}
	}
	return t.BaseWeight(param)
}

// Weights returns the full weight map for sector.
func (t *SectorWeightTable) Weights(sector string) map[string]int {
	out := make(map[string]int, len(t.base))
	for _, w := range t.base {
		out[w.Param] = t.Weight(sector, w.Param)
	}
	return out
}

func clampWeights(in []Weight) []Weight {
	out := make([]Weight, len(in))
	for i, w := range in {
		out[i] = Weight{Param: w.Param, Weight: clampWeight(w.Weight)}
	}
	return out
}

func clampWeight(w int) int {
	if w < minWeight {
		return minWeight
	}
	if w > maxWeight {
		return maxWeight
	}
	return w
}

// CoreWeights are the base importance weights of the ten core parameters.
var CoreWeights = []Weight{
	{model.ParamPERatio, 10},
	{model.ParamRevenueGrowth, 9},
	{model.ParamReturnOnEquity, 9},
	{model.ParamDebtEquity, 8},
	{model.ParamFreeCashFlowYield, 8},
	{model.ParamDividendYield, 7},
	{model.ParamEPSGrowth, 8},
	{model.ParamPBRatio, 6},
	{model.ParamCurrentRatio, 6},
	{model.ParamOperatingMargin, 7},
}

// CoreSectorAdjustments shift CoreWeights for sectors with different priorities.
var CoreSectorAdjustments = map[string]map[string]int{
	"Technology": {
		model.ParamRevenueGrowth:  1,
		model.ParamPERatio:        1,
		model.ParamDividendYield:  -2,
		model.ParamReturnOnEquity: 1,
	},
	"Utilities": {
		model.ParamDividendYield: 2,
		model.ParamDebtEquity:    1,
		model.ParamCurrentRatio:  1,
		model.ParamRevenueGrowth: -1,
	},
	"Financial Services": {
		model.ParamReturnOnEquity: 2,
		model.ParamPBRatio:        2,
		model.ParamDebtEquity:     -1,
		model.ParamCurrentRatio:   -2,
	},
	"Healthcare": {
		model.ParamRevenueGrowth:     1,
		model.ParamOperatingMargin:   1,
		model.ParamFreeCashFlowYield: 1,
	},
	"Consumer Discretionary": {
		model.ParamRevenueGrowth:   1,
		model.ParamOperatingMargin: 1,
		model.ParamCurrentRatio:    1,
	},
	"Energy": {
		model.ParamFreeCashFlowYield: 2,
		model.ParamDebtEquity:        1,
		model.ParamOperatingMargin:   1,
		model.ParamPERatio:           -1,
	},
	"Real Estate": {
		model.ParamDividendYield:     3,
		model.ParamDebtEquity:        1,
		model.ParamPBRatio:           1,
		model.ParamFreeCashFlowYield: 1,
	},
}

// Parameter names that only the points strategy weighs.
const (
	ParamROIC                 = "ROIC"
	ParamMA50                 = "50-day MA"
	ParamMA200                = "200-day MA"
	ParamRSI                  = "RSI"
	ParamVolumeTrend          = "Volume Trend"
	ParamAnalystRatings       = "Analyst Ratings"
	ParamPriceTargetVsCurrent = "Price Target vs Current"
)

// PointsWeights are the default weights of the thirteen-parameter framework.
var PointsWeights = []Weight{
	{model.ParamRevenueGrowth, 8},
	{model.ParamFreeCashFlowYield, 7},
	{ParamROIC, 8},
	{model.ParamDebtEquity, 7},
	{model.ParamDividendYield, 6},
	{model.ParamEPSGrowth, 8},
	{model.ParamPERatio, 7},
	{ParamMA50, 7},
	{ParamMA200, 7},
	{ParamRSI, 6},
	{ParamVolumeTrend, 6},
	{ParamAnalystRatings, 7},
	{ParamPriceTargetVsCurrent, 6},
}

// pointsRow lists the thirteen weights in PointsWeights order.
func pointsRow(w ...int) map[string]int {
	out := make(map[string]int, len(PointsWeights))
	for i, base := range PointsWeights {
		out[base.Param] = w[i]
	}
	return out
}

// PointsSectorWeights are the explicit per-sector weights of the
// thirteen-parameter framework.
var PointsSectorWeights = map[string]map[string]int{
	"Technology":             pointsRow(10, 8, 10, 6, 3, 10, 8, 8, 7, 8, 7, 9, 8),
	"Healthcare":             pointsRow(9, 7, 8, 7, 6, 9, 8, 7, 7, 6, 6, 9, 8),
	"Financials":             pointsRow(8, 8, 9, 9, 9, 8, 8, 7, 8, 7, 6, 8, 7),
	"Consumer Discretionary": pointsRow(9, 8, 8, 7, 6, 9, 8, 8, 7, 7, 8, 8, 7),
	"Energy":                 pointsRow(7, 9, 9, 8, 9, 6, 6, 7, 8, 8, 7, 7, 6),
	"Real Estate":            pointsRow(6, 10, 7, 10, 10, 5, 6, 7, 8, 6, 5, 7, 6),
	"Utilities":              pointsRow(5, 9, 7, 8, 10, 5, 7, 6, 7, 5, 5, 6, 5),
	"Materials":              pointsRow(8, 8, 9, 8, 6, 7, 7, 7, 8, 7, 7, 7, 6),
	"Communication Services": pointsRow(8, 8, 8, 7, 6, 8, 7, 7, 7, 6, 6, 8, 7),
	"Industrials":            pointsRow(8, 8, 9, 8, 6, 8, 7, 7, 7, 6, 6, 7, 6),
}

// DefaultCoreWeights returns the sector-adjusted table of the core parameters.
func DefaultCoreWeights() *SectorWeightTable {
	return NewAdjustedWeightTable(CoreWeights, CoreSectorAdjustments)
}

// DefaultPointsWeights returns the thirteen-parameter sector table.
func DefaultPointsWeights() *SectorWeightTable {
	return NewFixedWeightTable(PointsWeights, PointsSectorWeights)
}
