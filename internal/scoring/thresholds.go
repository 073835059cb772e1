package scoring

import "ShareEvaluator/internal/model"

// Thresholds are the band boundaries for a step-scored parameter.
// For lower-is-better parameters a value at or below Good scores 10; for
// higher-is-better parameters a value at or above Good does.
type Thresholds struct {
	Good       float64
	Acceptable float64
	Concern    float64
}

// DefaultThresholds holds the band boundaries of the core parameters.
var DefaultThresholds = map[string]Thresholds{
	model.ParamPERatio:           {Good: 15, Acceptable: 25, Concern: 35},
	model.ParamRevenueGrowth:     {Good: 10, Acceptable: 5, Concern: 0},
	model.ParamReturnOnEquity:    {Good: 15, Acceptable: 10, Concern: 5},
	model.ParamDebtEquity:        {Good: 0.3, Acceptable: 0.6, Concern: 1.0},
	model.ParamFreeCashFlowYield: {Good: 8, Acceptable: 5, Concern: 2},
	model.ParamDividendYield:     {Good: 3, Acceptable: 1, Concern: 0},
	model.ParamEPSGrowth:         {Good: 15, Acceptable: 8, Concern: 0},
	model.ParamPBRatio:           {Good: 1.5, Acceptable: 2.5, Concern: 4.0},
	model.ParamOperatingMargin:   {Good: 15, Acceptable: 8, Concern: 3},
}

// lowerIsBetter scores 10/7/4/2 as the value climbs through the bands.
func lowerIsBetter(th Thresholds) ScoreFunc {
	return func(v float64) float64 {
		switch {
		case v <= th.Good:
			return 10
		case v <= th.Acceptable:
			return 7
		case v <= th.Concern:
			return 4
		default:
			return 2
		}
	}
}

// higherIsBetter scores 10/7/4/2 as the value falls through the bands.
func higherIsBetter(th Thresholds) ScoreFunc {
	return func(v float64) float64 {
		switch {
		case v >= th.Good:
			return 10
		case v >= th.Acceptable:
			return 7
		case v >= th.Concern:
			return 4
		default:
			return 2
		}
	}
}

// scoreCurrentRatio rewards a liquidity sweet spot around 1.5 to 3.
func scoreCurrentRatio(v float64) float64 {
	switch {
	case v >= 1.5 && v <= 3.0:
		return 10
	case v >= 1.2 && v <= 4.0:
		return 7
	case v >= 1.0 && v <= 5.0:
		return 5
	default:
		return 3
	}
}

// coreScorers builds the step scorers for the ten core parameters.
func coreScorers(thresholds map[string]Thresholds) map[string]ScoreFunc {
	out := make(map[string]ScoreFunc, len(thresholds)+1)
	for name, th := range thresholds {
		switch name {
		case model.ParamPERatio, model.ParamDebtEquity, model.ParamPBRatio:
			out[name] = lowerIsBetter(th)
		default:
			out[name] = higherIsBetter(th)
		}
	}
	out[model.ParamCurrentRatio] = scoreCurrentRatio
	return out
}
