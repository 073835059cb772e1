package scoring

import (
	"math"

	"ShareEvaluator/internal/model"
)

// extendedScorers covers the wider parameter set used by the points
// strategy. Several of these interpolate linearly inside a band instead
// of stepping, so nearby values give nearby scores.
var extendedScorers = map[string]ScoreFunc{
	model.ParamPEG:             scorePEG,
	model.ParamEBITGrowth:      scoreGrowth,
	model.ParamTurnoverGrowth:  scoreGrowth,
	model.ParamDebtEquity:      scoreLeverage,
	model.ParamMarketCap:       scoreMarketCap,
	model.ParamYield:           scoreYield,
	model.ParamROCE:            scoreROCE,
	model.ParamInterestPayable: scoreInterestPayable,
	model.ParamVolatility:      scoreVolatility,
	model.ParamAnalystRating:   scoreAnalystRating,
}

func scorePEG(v float64) float64 {
	switch {
	case v <= 0:
		return 1
	case v < 1:
		return 10
	case v < 1.5:
		return 8
	case v < 2:
		return 6
	case v < 2.5:
		return 4
	case v < 3:
		return 2
	default:
		return 1
	}
}

// scoreGrowth handles EBIT and turnover growth in percent.
func scoreGrowth(v float64) float64 {
	switch {
	case v < 0:
		return math.Max(1, 5+v/20)
	case v < 5:
		return 5 + v/2
	case v < 15:
		return 7.5 + (v-5)/4
	default:
		return 10
	}
}

func scoreLeverage(v float64) float64 {
	switch {
	case v < 0.5:
		return 10
	case v < 1.0:
		return 8
	case v < 1.5:
		return 6
	case v < 2.0:
		return 4
	case v < 2.5:
		return 2
	default:
		return 1
	}
}

// scoreMarketCap takes a capitalisation in millions.
func scoreMarketCap(v float64) float64 {
	switch {
	case v < 100:
		return 1 + v/50
	case v < 1000:
		return 3 + (v-100)/225
	case v < 10000:
		return 7 + (v-1000)/3000
	default:
		return math.Min(10, 9+(v-10000)/100000)
	}
}

func scoreYield(v float64) float64 {
	switch {
	case v < 0.5:
		return 1
	case v < 2:
		return 1 + 3*(v/2)
	case v < 4:
		return 4 + 3*((v-2)/2)
	case v < 6:
		return 7 + 2*((v-4)/2)
	default:
		return math.Min(10, 9+(v-6)/6)
	}
}

func scoreROCE(v float64) float64 {
	switch {
	case v < 0:
		return 1
	case v < 5:
		return 1 + (v/5)*2
	case v < 10:
		return 3 + ((v-5)/5)*2
	case v < 15:
		return 5 + ((v-10)/5)*2
	case v < 20:
		return 7 + ((v-15)/5)*2
	default:
		return math.Min(10, 9+(v-20)/10)
	}
}

// scoreInterestPayable takes interest as a percentage of operating profit.
func scoreInterestPayable(v float64) float64 {
	switch {
	case v > 80:
		return 1
	case v > 60:
		return 1 + (80-v)/10
	case v > 40:
		return 3 + (60-v)/10
	case v > 20:
		return 5 + (40-v)/10
	case v > 10:
		return 7 + (20-v)/5
	default:
		return math.Min(10, 9+(10-v)/10)
	}
}

// scoreVolatility takes a beta.
func scoreVolatility(v float64) float64 {
	switch {
	case v < 0.6:
		return 10
	case v < 0.8:
		return 9
	case v < 1.0:
		return 8
	case v < 1.2:
		return 6
	case v < 1.5:
		return 4
	case v < 2.0:
		return 2
	default:
		return 1
	}
}

func scoreAnalystRating(v float64) float64 {
	return v
}
