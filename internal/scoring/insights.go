package scoring

import "ShareEvaluator/internal/model"

// Rating bands of the percentage score.
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingFair      = "Fair"
	RatingPoor      = "Poor"
)

// Rating returns the band of a percentage score.
func Rating(pct float64) string {
	switch {
	case pct >= 75:
		return RatingExcellent
	case pct >= 60:
		return RatingGood
	case pct >= 40:
		return RatingFair
	default:
		return RatingPoor
	}
}

// Insights summarises which parameters matter most for the sector and
// where the company does best and worst.
type Insights struct {
	MostCritical  model.ParameterValue
	LeastCritical model.ParameterValue
	Strongest     model.ParameterValue
	Weakest       model.ParameterValue
}

// Summarize derives insights from a result. ok is false when it has no
// parameters. Ties keep the earlier parameter.
func Summarize(r model.EvaluationResult) (in Insights, ok bool) {
	if len(r.Parameters) == 0 {
		return Insights{}, false
	}
	first := r.Parameters[0]
	in = Insights{MostCritical: first, LeastCritical: first, Strongest: first, Weakest: first}
	for _, p := range r.Parameters[1:] {
		if p.Weight > in.MostCritical.Weight {
			in.MostCritical = p
		}
		if p.Weight < in.LeastCritical.Weight {
			in.LeastCritical = p
		}
		if p.Score > in.Strongest.Score {
			in.Strongest = p
		}
		if p.Score < in.Weakest.Score {
			in.Weakest = p
		}
	}
	return in, true
}
