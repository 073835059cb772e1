package scoring

import "ShareEvaluator/internal/model"

const (
	// NeutralScore is given to absent values and unknown parameters.
	NeutralScore = 5.0
	// MinScore and MaxScore bound every parameter score.
	MinScore = 1.0
	MaxScore = 10.0
	// RedFlagScore is the score below which a parameter counts against
	// the recommendation.
	RedFlagScore = 4.0
)

// ScoreFunc maps a raw metric to a score.
type ScoreFunc func(v float64) float64

// Scorer normalizes raw metrics to 1-10. Lookups try primary first, then
// fallback; a name in neither scores neutral.
type Scorer struct {
	primary  map[string]ScoreFunc
	fallback map[string]ScoreFunc
}

// NewScorer builds a scorer from two lookup tables.
func NewScorer(primary, fallback map[string]ScoreFunc) *Scorer {
	return &Scorer{primary: primary, fallback: fallback}
}

var (
	coreFirst     = NewScorer(coreScorers(DefaultThresholds), extendedScorers)
	extendedFirst = NewScorer(extendedScorers, coreScorers(DefaultThresholds))
)

// CoreScorer prefers the core step bands, used by the percentage strategy.
func CoreScorer() *Scorer { return coreFirst }

// ExtendedScorer prefers the wider piecewise set, used by the points strategy.
func ExtendedScorer() *Scorer { return extendedFirst }

// Score returns the 1-10 score for one parameter.
func (s *Scorer) Score(name string, v model.Value) float64 {
	raw, ok := v.Get()
	if !ok {
		return NeutralScore
	}
	fn, found := s.primary[name]
	if !found {
		fn, found = s.fallback[name]
	}
	if !found {
		return NeutralScore
	}
	return clampScore(fn(raw))
}

// Knows reports whether the scorer has a rule for name.
func (s *Scorer) Knows(name string) bool {
	if _, ok := s.primary[name]; ok {
		return true
	}
	_, ok := s.fallback[name]
	return ok
}

// ScoreParameter scores one parameter with the core scorer.
func ScoreParameter(name string, v model.Value) float64 {
	return coreFirst.Score(name, v)
}

func clampScore(s float64) float64 {
	if s < MinScore {
		return MinScore
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}
