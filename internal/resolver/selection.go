package resolver

import (
	"strings"

	"ShareEvaluator/internal/model"
)

const (
	usMinScore     = 0.5
	fallbackMin    = 0.3
	fallbackTopN   = 5
	autoResolveMin = 0.8
)

// SelectCandidates narrows raw search results. US listings with a score of
// at least 0.5 are kept; if there are none, the top five raw results with
// a score of at least 0.3 are. auto is true when exactly one candidate is
// left and it is a US listing scoring 0.8 or more.
func SelectCandidates(raw []model.CandidateMatch) (viable []model.CandidateMatch, auto bool) {
	for _, c := range raw {
		if isUS(c) && c.MatchScore >= usMinScore {
			viable = append(viable, c)
		}
	}
	if len(viable) == 0 {
		top := raw
		if len(top) > fallbackTopN {
			top = top[:fallbackTopN]
		}
		for _, c := range top {
			if c.MatchScore >= fallbackMin {
				viable = append(viable, c)
			}
		}
	}
	auto = len(viable) == 1 && isUS(viable[0]) && viable[0].MatchScore >= autoResolveMin
	return viable, auto
}

func isUS(c model.CandidateMatch) bool {
	return strings.EqualFold(c.Region, RegionUS)
}
