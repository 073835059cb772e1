package scoring

import (
	"fmt"
	"sort"

	"ShareEvaluator/internal/model"
)

// Strategy names.
const (
	StrategyPercentage = "percentage"
	StrategyPoints     = "points"
)

// Input is what a strategy scores.
type Input struct {
	Ticker     string
	Name       string
	Sector     string
	Parameters map[string]model.Value
	Confidence map[string]model.Confidence
}

// InputFromStock adapts fetched stock data.
func InputFromStock(s *model.StockData) Input {
	return Input{
		Ticker:     s.Ticker,
		Name:       s.Name,
		Sector:     s.Sector,
		Parameters: s.Parameters,
		Confidence: s.Confidence,
	}
}

// Strategy turns a parameter set into an evaluation. Implementations are
// pure: the same input always yields the same result.
type Strategy interface {
	Name() string
	Evaluate(in Input) model.EvaluationResult
}

// PercentageStrategy weighs the core parameters by sector and classifies
// the weighted average score.
type PercentageStrategy struct {
	Weights *SectorWeightTable
	Scorer  *Scorer
}

// NewPercentageStrategy uses the default core weights and scorer.
func NewPercentageStrategy() *PercentageStrategy {
	return &PercentageStrategy{Weights: DefaultCoreWeights(), Scorer: CoreScorer()}
}

func (s *PercentageStrategy) Name() string { return StrategyPercentage }

func (s *PercentageStrategy) Evaluate(in Input) model.EvaluationResult {
	params := scoreParameters(in, s.Weights, s.Scorer)
	sum, maxPossible := aggregate(params)
	var pct float64
	if maxPossible > 0 {
		pct = sum / maxPossible * 100
	}
	return model.EvaluationResult{
		Ticker:         in.Ticker,
		Name:           in.Name,
		Sector:         in.Sector,
		Strategy:       s.Name(),
		Parameters:     params,
		WeightedSum:    sum,
		MaxPossible:    maxPossible,
		Percentage:     pct,
		RedFlags:       RedFlags(params),
		Recommendation: RecommendByAverage(params),
	}
}

// PointsStrategy sums absolute points over the thirteen-parameter
// weighting and compares them with a fixed basis.
type PointsStrategy struct {
	Weights   *SectorWeightTable
	Scorer    *Scorer
	Quartiles *QuartileTable
}

// NewPointsStrategy uses the default thirteen-parameter weights.
func NewPointsStrategy() *PointsStrategy {
	return &PointsStrategy{
		Weights:   DefaultPointsWeights(),
		Scorer:    ExtendedScorer(),
		Quartiles: DefaultQuartiles(),
	}
}

func (s *PointsStrategy) Name() string { return StrategyPoints }

func (s *PointsStrategy) Evaluate(in Input) model.EvaluationResult {
	params := scoreParameters(in, s.Weights, s.Scorer)
	points, _ := aggregate(params)
	basis := PointsBasis(len(params))
	var pct float64
	if len(params) > 0 {
		pct = points / basis * 100
	}

	var quartile []string
	for _, p := range params {
		if v, ok := p.Raw.Get(); ok && s.Quartiles.InBottomQuartile(in.Sector, p.Name, v) {
			quartile = append(quartile, p.Name)
		}
	}

	return model.EvaluationResult{
		Ticker:         in.Ticker,
		Name:           in.Name,
		Sector:         in.Sector,
		Strategy:       s.Name(),
		Parameters:     params,
		WeightedSum:    points,
		MaxPossible:    basis,
		Percentage:     pct,
		RedFlags:       RedFlags(params),
		QuartileFlags:  quartile,
		Recommendation: RecommendByPoints(points, len(params)),
	}
}

// ByName returns the named strategy.
func ByName(name string) (Strategy, error) {
	switch name {
	case StrategyPercentage, "":
		return NewPercentageStrategy(), nil
	case StrategyPoints:
		return NewPointsStrategy(), nil
	default:
		return nil, fmt.Errorf("unknown scoring strategy %q", name)
	}
}

var defaultStrategy = NewPercentageStrategy()

// Score evaluates params for sector with the percentage strategy.
func Score(params map[string]model.Value, sector string) model.EvaluationResult {
	return defaultStrategy.Evaluate(Input{Sector: sector, Parameters: params})
}

// scoreParameters scores every input parameter. Order follows the weight
// table, then the remaining names alphabetically.
func scoreParameters(in Input, weights *SectorWeightTable, scorer *Scorer) []model.ParameterValue {
	if len(in.Parameters) == 0 {
		return nil
	}
	names := orderedNames(in.Parameters, weights.Parameters())
	out := make([]model.ParameterValue, 0, len(names))
	for _, name := range names {
		raw := in.Parameters[name]
		conf := in.Confidence[name]
		if !raw.Valid {
			conf = model.ConfidenceNotAvailable
		} else if conf == "" {
			conf = model.ConfidenceHigh
		}
		out = append(out, model.ParameterValue{
			Name:       name,
			Raw:        raw,
			BaseWeight: weights.BaseWeight(name),
			Weight:     weights.Weight(in.Sector, name),
			Score:      scorer.Score(name, raw),
			Confidence: conf,
		})
	}
	return out
}

func orderedNames(params map[string]model.Value, tableOrder []string) []string {
	names := make([]string, 0, len(params))
	seen := make(map[string]bool, len(params))
	for _, name := range tableOrder {
		if _, ok := params[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range params {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func aggregate(params []model.ParameterValue) (sum, maxPossible float64) {
	for _, p := range params {
		sum += p.Weighted()
		maxPossible += MaxScore * float64(p.Weight)
	}
	return sum, maxPossible
}
