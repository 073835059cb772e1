package scoring

import (
	"math"
	"testing"

	"ShareEvaluator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreParameter_CoreBands(t *testing.T) {
	tests := []struct {
		param string
		value float64
		want  float64
	}{
		{model.ParamPERatio, 10, 10},
		{model.ParamPERatio, 15, 10},
		{model.ParamPERatio, 20, 7},
		{model.ParamPERatio, 30, 4},
		{model.ParamPERatio, 40, 2},
		{model.ParamDebtEquity, 0.2, 10},
		{model.ParamDebtEquity, 0.8, 4},
		{model.ParamPBRatio, 5, 2},
		{model.ParamRevenueGrowth, 12, 10},
		{model.ParamRevenueGrowth, 5, 7},
		{model.ParamRevenueGrowth, 0, 4},
		{model.ParamRevenueGrowth, -3, 2},
		{model.ParamDividendYield, 0, 4},
		{model.ParamOperatingMargin, 2, 2},
		{model.ParamCurrentRatio, 2.0, 10},
		{model.ParamCurrentRatio, 1.5, 10},
		{model.ParamCurrentRatio, 3.0, 10},
		{model.ParamCurrentRatio, 1.2, 7},
		{model.ParamCurrentRatio, 4.0, 7},
		{model.ParamCurrentRatio, 1.0, 5},
		{model.ParamCurrentRatio, 5.0, 5},
		{model.ParamCurrentRatio, 5.1, 3},
		{model.ParamCurrentRatio, 0.5, 3},
	}
	for _, tt := range tests {
		got := ScoreParameter(tt.param, model.Some(tt.value))
		assert.Equal(t, tt.want, got, "%s=%v", tt.param, tt.value)
	}
}

func TestScoreParameter_Extended(t *testing.T) {
	tests := []struct {
		param string
		value float64
		want  float64
	}{
		{model.ParamPEG, 0.8, 10},
		{model.ParamPEG, -1, 1},
		{model.ParamPEG, 2.2, 4},
		{model.ParamEBITGrowth, -100, 1},
		{model.ParamEBITGrowth, 2, 6},
		{model.ParamTurnoverGrowth, 10, 8.75},
		{model.ParamTurnoverGrowth, 20, 10},
		{model.ParamMarketCap, 50, 2},
		{model.ParamMarketCap, 550, 5},
		{model.ParamMarketCap, 4000, 8},
		{model.ParamMarketCap, 1e6, 10},
		{model.ParamMarketCap, -100, 1},
		{model.ParamYield, 0.2, 1},
		{model.ParamYield, 3, 5.5},
		{model.ParamYield, 5, 8},
		{model.ParamROCE, 12, 5.8},
		{model.ParamROCE, -4, 1},
		{model.ParamInterestPayable, 90, 1},
		{model.ParamInterestPayable, 50, 4},
		{model.ParamInterestPayable, 15, 8},
		{model.ParamVolatility, 1.1, 6},
		{model.ParamVolatility, 2.5, 1},
		{model.ParamAnalystRating, 12, 10},
		{model.ParamAnalystRating, -3, 1},
		{model.ParamAnalystRating, 6.5, 6.5},
	}
	for _, tt := range tests {
		got := ScoreParameter(tt.param, model.Some(tt.value))
		assert.InDelta(t, tt.want, got, 1e-9, "%s=%v", tt.param, tt.value)
	}
}

func TestScoreParameter_InterpolationIsContinuous(t *testing.T) {
	for _, boundary := range []float64{20, 40, 60, 80} {
		below := ScoreParameter(model.ParamInterestPayable, model.Some(boundary-1e-9))
		at := ScoreParameter(model.ParamInterestPayable, model.Some(boundary))
		assert.InDelta(t, at, below, 1e-6, "interest payable at %v", boundary)
	}
	for _, boundary := range []float64{5, 10, 15, 20} {
		below := ScoreParameter(model.ParamROCE, model.Some(boundary-1e-9))
		at := ScoreParameter(model.ParamROCE, model.Some(boundary))
		assert.InDelta(t, at, below, 1e-6, "roce at %v", boundary)
	}
}

func TestScoreParameter_NeutralForMissingOrUnknown(t *testing.T) {
	assert.Equal(t, 5.0, ScoreParameter(model.ParamPERatio, model.None()))
	assert.Equal(t, 5.0, ScoreParameter(model.ParamPERatio, model.Some(math.NaN())))
	assert.Equal(t, 5.0, ScoreParameter("Made Up Ratio", model.Some(42)))
}

func TestScoreParameter_AlwaysInRange(t *testing.T) {
	names := []string{"Unknown"}
	for name := range DefaultThresholds {
		names = append(names, name)
	}
	for name := range extendedScorers {
		names = append(names, name)
	}
	names = append(names, model.ParamCurrentRatio)

	values := []float64{-1e9, -500, -80, -1, 0, 0.3, 1, 1.5, 2.49, 7, 19.9, 35, 80.5, 1000, 1e12}
	for _, scorer := range []*Scorer{CoreScorer(), ExtendedScorer()} {
		for _, name := range names {
			for _, v := range values {
				got := scorer.Score(name, model.Some(v))
				assert.GreaterOrEqual(t, got, MinScore, "%s=%v", name, v)
				assert.LessOrEqual(t, got, MaxScore, "%s=%v", name, v)
			}
			assert.Equal(t, NeutralScore, scorer.Score(name, model.None()))
		}
	}
}

func TestScorer_PreferenceOrder(t *testing.T) {
	v := model.Some(0.8)
	assert.Equal(t, 4.0, CoreScorer().Score(model.ParamDebtEquity, v))
	assert.Equal(t, 8.0, ExtendedScorer().Score(model.ParamDebtEquity, v))
	assert.True(t, CoreScorer().Knows(model.ParamPEG))
	assert.False(t, CoreScorer().Knows("ROIC"))
}

func TestScore_Aggregate(t *testing.T) {
	res := Score(map[string]model.Value{
		model.ParamPERatio:    model.Some(10),
		model.ParamDebtEquity: model.Some(0.2),
	}, "")

	require.Len(t, res.Parameters, 2)
	assert.Equal(t, model.ParamPERatio, res.Parameters[0].Name)
	assert.Equal(t, 10, res.Parameters[0].Weight)
	assert.Equal(t, 8, res.Parameters[1].Weight)
	assert.InDelta(t, 180, res.WeightedSum, 1e-9)
	assert.InDelta(t, 180, res.MaxPossible, 1e-9)
	assert.InDelta(t, 100, res.Percentage, 1e-9)
	assert.Equal(t, LabelStrongBuy, res.Recommendation.Label)
	assert.Empty(t, res.RedFlags)
	assert.Equal(t, StrategyPercentage, res.Strategy)
}

func TestScore_EmptyInput(t *testing.T) {
	res := Score(nil, "Technology")
	assert.Equal(t, LabelInsufficientData, res.Recommendation.Label)
	assert.Equal(t, 0.0, res.Percentage)
	assert.Equal(t, 0.0, res.MaxPossible)
}

func TestScore_MissingValueIsNeutral(t *testing.T) {
	res := Score(map[string]model.Value{
		model.ParamPERatio: model.None(),
	}, "")
	require.Len(t, res.Parameters, 1)
	p := res.Parameters[0]
	assert.Equal(t, 5.0, p.Score)
	assert.Equal(t, model.ConfidenceNotAvailable, p.Confidence)
	assert.InDelta(t, 50, res.Percentage, 1e-9)
	assert.Equal(t, LabelWeakHold, res.Recommendation.Label)
}

func TestScore_UnknownParameterUsesDefaultWeight(t *testing.T) {
	res := Score(map[string]model.Value{
		"Mystery": model.Some(1),
	}, "Technology")
	require.Len(t, res.Parameters, 1)
	assert.Equal(t, DefaultWeight, res.Parameters[0].Weight)
	assert.InDelta(t, 25, res.WeightedSum, 1e-9)
	assert.InDelta(t, 50, res.MaxPossible, 1e-9)
}

func TestScore_Idempotent(t *testing.T) {
	params := map[string]model.Value{
		model.ParamPERatio:       model.Some(22),
		model.ParamRevenueGrowth: model.Some(4),
		model.ParamCurrentRatio:  model.None(),
		"Zeta":                   model.Some(1),
		"Alpha":                  model.Some(2),
	}
	first := Score(params, "Energy")
	second := Score(params, "Energy")
	assert.Equal(t, first, second)
	names := make([]string, 0, len(first.Parameters))
	for _, p := range first.Parameters {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{model.ParamPERatio, model.ParamRevenueGrowth, model.ParamCurrentRatio, "Alpha", "Zeta"}, names)
}

func TestRecommendByAverage_Bands(t *testing.T) {
	tests := []struct {
		pe    float64
		label string
	}{
		{10, LabelStrongBuy},
		{20, LabelBuy},
		{30, LabelSell},
		{40, LabelSell},
	}
	for _, tt := range tests {
		res := Score(map[string]model.Value{model.ParamPERatio: model.Some(tt.pe)}, "")
		assert.Equal(t, tt.label, res.Recommendation.Label, "pe=%v", tt.pe)
	}

	params := []model.ParameterValue{
		{Name: "a", Score: 6, Weight: 1},
		{Name: "b", Score: 6, Weight: 1},
	}
	assert.Equal(t, LabelHold, RecommendByAverage(params).Label)
	params[0].Score, params[1].Score = 5, 5
	assert.Equal(t, LabelWeakHold, RecommendByAverage(params).Label)
}

func TestRecommendByAverage_RedFlagsOverrideAverage(t *testing.T) {
	params := []model.ParameterValue{
		{Name: "a", Score: 2, Weight: 1},
		{Name: "b", Score: 3, Weight: 1},
		{Name: "c", Score: 3.9, Weight: 1},
		{Name: "d", Score: 10, Weight: 100},
	}
	rec := RecommendByAverage(params)
	assert.Equal(t, LabelAvoid, rec.Label)
	assert.Equal(t, "AVOID - Multiple red flags detected", rec.String())
	assert.Equal(t, []string{"a", "b", "c"}, RedFlags(params))
}

func TestRecommendByAverage_ZeroWeight(t *testing.T) {
	rec := RecommendByAverage([]model.ParameterValue{{Name: "a", Score: 9, Weight: 0}})
	assert.Equal(t, LabelInsufficientData, rec.Label)
}

func TestRecommendByPoints(t *testing.T) {
	tests := []struct {
		points float64
		count  int
		label  string
	}{
		{975, 13, LabelStrongBuy},
		{974.9, 13, LabelBuy},
		{650, 13, LabelBuy},
		{390, 13, LabelCautiousBuy},
		{389, 13, LabelNotRecommended},
		{750, 10, LabelStrongBuy},
		{500, 10, LabelBuy},
		{299, 10, LabelNotRecommended},
		{0, 0, LabelInsufficientData},
	}
	for _, tt := range tests {
		got := RecommendByPoints(tt.points, tt.count)
		assert.Equal(t, tt.label, got.Label, "points=%v count=%d", tt.points, tt.count)
	}
	assert.Equal(t, 1300.0, PointsBasis(13))
	assert.Equal(t, 1000.0, PointsBasis(10))
}

func TestPointsStrategy_AllNeutral(t *testing.T) {
	params := make(map[string]model.Value)
	for _, w := range PointsWeights {
		params[w.Param] = model.None()
	}
	res := NewPointsStrategy().Evaluate(Input{Ticker: "X", Parameters: params})

	require.Len(t, res.Parameters, 13)
	assert.InDelta(t, 450, res.WeightedSum, 1e-9)
	assert.Equal(t, 1300.0, res.MaxPossible)
	assert.InDelta(t, 450.0/1300*100, res.Percentage, 1e-9)
	assert.Equal(t, LabelCautiousBuy, res.Recommendation.Label)
	assert.Equal(t, StrategyPoints, res.Strategy)
}

func TestPointsStrategy_QuartileFlags(t *testing.T) {
	res := NewPointsStrategy().Evaluate(Input{
		Sector: "Technology",
		Parameters: map[string]model.Value{
			model.ParamDebtEquity: model.Some(2.0),
			model.ParamMarketCap:  model.Some(400),
			model.ParamROCE:       model.Some(12),
			"Unlisted":            model.Some(-5),
		},
	})
	assert.ElementsMatch(t, []string{model.ParamDebtEquity, model.ParamMarketCap}, res.QuartileFlags)
}

func TestQuartileTable_Directions(t *testing.T) {
	q := DefaultQuartiles()
	assert.True(t, q.InBottomQuartile("", model.ParamYield, 0.8))
	assert.False(t, q.InBottomQuartile("", model.ParamYield, 1.2))
	assert.True(t, q.InBottomQuartile("", model.ParamPEG, 3.5))
	assert.False(t, q.InBottomQuartile("", model.ParamPEG, 2.0))
	assert.False(t, q.InBottomQuartile("", "Unlisted", -100))
	assert.True(t, q.InBottomQuartile("Utilities", model.ParamYield, 3.0))
}

func TestByName(t *testing.T) {
	s, err := ByName("points")
	require.NoError(t, err)
	assert.Equal(t, StrategyPoints, s.Name())

	s, err = ByName("")
	require.NoError(t, err)
	assert.Equal(t, StrategyPercentage, s.Name())

	_, err = ByName("astrology")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	res := Score(map[string]model.Value{
		model.ParamPERatio:       model.Some(40),
		model.ParamDividendYield: model.Some(5),
		model.ParamCurrentRatio:  model.Some(1.1),
	}, "Technology")
	in, ok := Summarize(res)
	require.True(t, ok)
	assert.Equal(t, model.ParamPERatio, in.MostCritical.Name)
	assert.Equal(t, model.ParamDividendYield, in.LeastCritical.Name)
	assert.Equal(t, model.ParamDividendYield, in.Strongest.Name)
	assert.Equal(t, model.ParamPERatio, in.Weakest.Name)

	_, ok = Summarize(model.EvaluationResult{})
	assert.False(t, ok)
}

func TestRating(t *testing.T) {
	assert.Equal(t, RatingExcellent, Rating(75))
	assert.Equal(t, RatingGood, Rating(60))
	assert.Equal(t, RatingFair, Rating(40))
	assert.Equal(t, RatingPoor, Rating(39.9))
}
