package scoring

import (
	"fmt"

	"ShareEvaluator/internal/model"
)

const (
	LabelInsufficientData = "Insufficient data"
	LabelAvoid            = "AVOID"
	LabelStrongBuy        = "STRONG BUY"
	LabelBuy              = "BUY"
	LabelHold             = "HOLD"
	LabelWeakHold         = "WEAK HOLD"
	LabelSell             = "SELL"
	LabelCautiousBuy      = "CAUTIOUS BUY"
	LabelNotRecommended   = "NOT RECOMMENDED"
)

// redFlagLimit is the number of red flags that forces AVOID.
const redFlagLimit = 3

// averageBands maps a weight-normalized average score to a recommendation.
var averageBands = []struct {
	MinAverage float64
	Rec        model.Recommendation
}{
	{8.0, model.Recommendation{Label: LabelStrongBuy, Detail: "Excellent fundamentals"}},
	{7.0, model.Recommendation{Label: LabelBuy, Detail: "Good investment opportunity"}},
	{6.0, model.Recommendation{Label: LabelHold, Detail: "Reasonable but not compelling"}},
	{5.0, model.Recommendation{Label: LabelWeakHold, Detail: "Below average performance"}},
}

var sellRecommendation = model.Recommendation{Label: LabelSell, Detail: "Poor fundamentals"}

// RecommendByAverage classifies scored parameters by their weighted
// average score. Three or more red flags override the average.
func RecommendByAverage(params []model.ParameterValue) model.Recommendation {
	if len(params) == 0 {
		return model.Recommendation{Label: LabelInsufficientData, Detail: "No parameters to evaluate"}
	}
	if flags := RedFlags(params); len(flags) >= redFlagLimit {
		return model.Recommendation{Label: LabelAvoid, Detail: "Multiple red flags detected"}
	}

	var sum float64
	var totalWeight int
	for _, p := range params {
		sum += p.Weighted()
		totalWeight += p.Weight
	}
	if totalWeight == 0 {
		return model.Recommendation{Label: LabelInsufficientData, Detail: "No weighted parameters"}
	}
	avg := sum / float64(totalWeight)
	for _, b := range averageBands {
		if avg >= b.MinAverage {
			return b.Rec
		}
	}
	return sellRecommendation
}

// pointsBands are fractions of the points basis.
var pointsBands = []struct {
	MinShare float64
	Label    string
}{
	{0.75, LabelStrongBuy},
	{0.50, LabelBuy},
	{0.30, LabelCautiousBuy},
}

// PointsBasis returns the maximum-points basis for n scored parameters:
// 1300 for the thirteen-parameter set, 1000 for the ten-parameter set.
func PointsBasis(n int) float64 {
	if n > 10 {
		return 1300
	}
	return 1000
}

// RecommendByPoints classifies an absolute points total against the basis
// for paramCount parameters.
func RecommendByPoints(points float64, paramCount int) model.Recommendation {
	if paramCount == 0 {
		return model.Recommendation{Label: LabelInsufficientData, Detail: "No parameters to evaluate"}
	}
	basis := PointsBasis(paramCount)
	for _, b := range pointsBands {
		if points >= basis*b.MinShare {
			return model.Recommendation{
				Label:  b.Label,
				Detail: fmt.Sprintf("%.0f of %.0f points", points, basis),
			}
		}
	}
	return model.Recommendation{
		Label:  LabelNotRecommended,
		Detail: fmt.Sprintf("%.0f of %.0f points", points, basis),
	}
}

// RedFlags returns the names of parameters scoring below RedFlagScore.
func RedFlags(params []model.ParameterValue) []string {
	var flags []string
	for _, p := range params {
		if p.Score < RedFlagScore {
			flags = append(flags, p.Name)
		}
	}
	return flags
}
