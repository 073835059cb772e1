package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"ShareEvaluator/internal/model"

	"github.com/phuslu/log"
)

// Kind is the shape of a resolution.
type Kind int

const (
	NoMatch Kind = iota
	SingleMatch
	MultipleMatches
)

func (k Kind) String() string {
	switch k {
	case SingleMatch:
		return "single"
	case MultipleMatches:
		return "multiple"
	default:
		return "none"
	}
}

// Resolution sources.
const (
	SourceCurated = "curated"
	SourceGeneral = "general"
	SourceFuzzy   = "fuzzy"
	SourceTicker  = "ticker"
)

// Resolution is the outcome of resolving one query. Ticker is set for
// SingleMatch; Candidates for MultipleMatches (and for SingleMatch when
// the match came from a candidate list).
type Resolution struct {
	Kind       Kind
	Ticker     string
	Candidates []model.CandidateMatch
	Source     string
}

// Searcher looks up candidates when the alias tables have nothing.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string) ([]model.CandidateMatch, error)
}

// minWordMatchRatio is the share of query words that must partially match
// an alias for it to count as a fuzzy hit.
const minWordMatchRatio = 0.3

// Resolver maps free text to tickers.
type Resolver struct {
	curated     AliasTable
	general     AliasTable
	searcher    Searcher
	passthrough bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSearcher sets the fallback searcher.
func WithSearcher(s Searcher) Option {
	return func(r *Resolver) { r.searcher = s }
}

// WithCuratedAliases replaces the curated alias table.
func WithCuratedAliases(t AliasTable) Option {
	return func(r *Resolver) { r.curated = t }
}

// WithExtraAliases puts t ahead of the curated table.
func WithExtraAliases(t AliasTable) Option {
	return func(r *Resolver) { r.curated = append(append(AliasTable{}, t...), r.curated...) }
}

// WithGeneralAliases replaces the general alias table.
func WithGeneralAliases(t AliasTable) Option {
	return func(r *Resolver) { r.general = t }
}

// WithTickerPassthrough makes ticker-looking input that is not an exact
// alias resolve to itself, skipping the fuzzy pass and the searcher.
func WithTickerPassthrough(on bool) Option {
	return func(r *Resolver) { r.passthrough = on }
}

// New creates a Resolver with the built-in alias tables.
func New(opts ...Option) *Resolver {
	r := &Resolver{curated: CuratedAliases, general: GeneralAliases}
	for _, opt := range opts {
		opt(r)
	}
	r.curated = r.curated.normalized()
	r.general = r.general.normalized()
	return r
}

// Normalize lowercases, trims and drops commas and periods.
func Normalize(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	q = strings.NewReplacer(",", "", ".", "").Replace(q)
	return strings.TrimSpace(q)
}

// Resolve maps query to one ticker, a list of candidates, or nothing.
// Unknown input is not an error; the error is only set when the searcher
// fails, and the resolution is then NoMatch.
func (r *Resolver) Resolve(ctx context.Context, query string) (Resolution, error) {
	q := Normalize(query)
	if q == "" {
		return Resolution{Kind: NoMatch}, nil
	}

	if a, ok := r.curated.lookup(q); ok {
		return single(a.Symbol, SourceCurated), nil
	}
	if a, ok := r.general.lookup(q); ok {
		return single(a.Symbol, SourceGeneral), nil
	}

	if r.passthrough && LooksLikeTicker(query) {
		return single(strings.ToUpper(strings.TrimSpace(query)), SourceTicker), nil
	}

	if candidates := r.fuzzy(q); len(candidates) > 0 {
		log.Debug().Str("query", q).Int("candidates", len(candidates)).Msg("fuzzy alias match")
		if len(candidates) == 1 {
			res := single(candidates[0].Symbol, SourceFuzzy)
			res.Candidates = candidates
			return res, nil
		}
		return Resolution{Kind: MultipleMatches, Candidates: candidates, Source: SourceFuzzy}, nil
	}

	if r.searcher == nil {
		return Resolution{Kind: NoMatch}, nil
	}

	raw, err := r.searcher.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		log.Warn().Err(err).Str("query", query).Str("searcher", r.searcher.Name()).Msg("symbol search failed")
		return Resolution{Kind: NoMatch}, fmt.Errorf("search %q: %w", query, err)
	}
	viable, auto := SelectCandidates(raw)
	switch {
	case auto:
		res := single(viable[0].Symbol, r.searcher.Name())
		res.Candidates = viable
		return res, nil
	case len(viable) == 0:
		return Resolution{Kind: NoMatch}, nil
	default:
		return Resolution{Kind: MultipleMatches, Candidates: viable, Source: r.searcher.Name()}, nil
	}
}

func single(symbol, source string) Resolution {
	return Resolution{Kind: SingleMatch, Ticker: symbol, Source: source}
}

// fuzzy scans both tables and returns one candidate per symbol, best
// score first. Equal scores keep table order, curated before general.
func (r *Resolver) fuzzy(q string) []model.CandidateMatch {
	queryWords := strings.Fields(q)
	bySymbol := make(map[string]int)
	var out []model.CandidateMatch
	for _, table := range []AliasTable{r.curated, r.general} {
		for _, a := range table {
			score, ok := fuzzyScore(q, queryWords, a.Name)
			if !ok {
				continue
			}
			if i, seen := bySymbol[a.Symbol]; seen {
				if score > out[i].MatchScore {
					out[i].MatchScore = score
					out[i].Name = displayName(a.Name)
				}
				continue
			}
			bySymbol[a.Symbol] = len(out)
			out = append(out, model.CandidateMatch{
				Symbol:     a.Symbol,
				Name:       displayName(a.Name),
				Region:     RegionOf(a.Symbol),
				MatchScore: score,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchScore > out[j].MatchScore })
	return out
}

// fuzzyScore reports whether alias matches q and how well, in [0,1].
// Containment scores by length ratio, the word rule by its match ratio,
// and an abbreviation hit scores 1.
func fuzzyScore(q string, queryWords []string, alias string) (float64, bool) {
	var score float64
	matched := false

	if strings.Contains(q, alias) || strings.Contains(alias, q) {
		matched = true
		score = float64(min(len(q), len(alias))) / float64(max(len(q), len(alias)))
	}

	aliasWords := strings.Fields(alias)
	var hits int
	for _, qw := range queryWords {
		for _, aw := range aliasWords {
			if strings.Contains(qw, aw) || strings.Contains(aw, qw) {
				hits++
				break
			}
		}
	}
	if ratio := float64(hits) / float64(max(1, len(queryWords))); ratio >= minWordMatchRatio {
		matched = true
		score = max(score, ratio)
	}

	if len(queryWords) == 1 && len(aliasWords) > 1 && q == initials(aliasWords) {
		matched = true
		score = 1
	}
	return min(score, 1), matched
}

// initials joins the first letter of each word that starts with a letter.
func initials(words []string) string {
	var b strings.Builder
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func displayName(alias string) string {
	words := strings.Fields(alias)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// LooksLikeTicker reports whether s is shaped like an exchange symbol:
// upper case letters, digits, '.' or '-', with at least one letter, and
// either short or carrying an exchange suffix.
func LooksLikeTicker(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	letters := 0
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			letters++
		case r >= '0' && r <= '9', r == '.', r == '-':
		default:
			return false
		}
	}
	return letters > 0 && (len(s) <= 6 || strings.Contains(s, "."))
}

// MultiSearcher tries searchers in order and returns the first non-empty
// result. Errors are remembered and only returned when every searcher
// failed.
type MultiSearcher []Searcher

func (m MultiSearcher) Name() string {
	names := make([]string, len(m))
	for i, s := range m {
		names[i] = s.Name()
	}
	return strings.Join(names, "+")
}

func (m MultiSearcher) Search(ctx context.Context, query string) ([]model.CandidateMatch, error) {
	var errs []error
	for _, s := range m {
		res, err := s.Search(ctx, query)
		if err != nil {
			log.Warn().Err(err).Str("searcher", s.Name()).Msg("searcher failed, trying next")
			errs = append(errs, err)
			continue
		}
		if len(res) > 0 {
			return res, nil
		}
	}
	if len(errs) == len(m) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}
