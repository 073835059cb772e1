package symbols

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"ShareEvaluator/internal/model"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/phuslu/log"
)

// MaxResults caps the hits returned by one search.
const MaxResults = 10

// Index is a full-text index over listings. It implements
// resolver.Searcher.
type Index struct {
	index bleve.Index
}

// NewMemIndex builds an in-memory index.
func NewMemIndex(listings []Listing) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	if err := load(idx, listings); err != nil {
		_ = idx.Close()
		return nil, err
	}
	return &Index{index: idx}, nil
}

// OpenIndex opens the index at path, building it from listings when it
// does not exist yet.
func OpenIndex(path string, listings []Listing) (*Index, error) {
	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		if err := load(idx, listings); err != nil {
			_ = idx.Close()
			return nil, err
		}
		log.Info().Str("path", path).Int("listings", len(listings)).Msg("symbol index built")
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	} else {
		log.Info().Str("path", path).Msg("opened existing symbol index")
	}
	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	doc := bleve.NewDocumentMapping()

	// symbols are matched whole, lowercased
	doc.AddFieldMappingsAt("key", bleve.NewKeywordFieldMapping())

	name := bleve.NewTextFieldMapping()
	name.Store = true
	doc.AddFieldMappingsAt("name", name)

	for _, field := range []string{"symbol", "exchange", "region"} {
		stored := bleve.NewTextFieldMapping()
		stored.Index = false
		stored.Store = true
		doc.AddFieldMappingsAt(field, stored)
	}

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	return im
}

func load(idx bleve.Index, listings []Listing) error {
	batch := idx.NewBatch()
	for _, l := range listings {
		// The same symbol can be listed on several exchanges.
		id := l.Symbol + "-" + l.Exchange
		doc := map[string]interface{}{
			"key":      strings.ToLower(l.Symbol),
			"symbol":   l.Symbol,
			"name":     l.Name,
			"exchange": l.Exchange,
			"region":   l.Region,
		}
		if err := batch.Index(id, doc); err != nil {
			return fmt.Errorf("index %s: %w", l.Symbol, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return fmt.Errorf("index listings: %w", err)
	}
	return nil
}

func (i *Index) Name() string { return "local" }

// Search returns listings matching query, best first. Bleve picks the
// hits; each is then scored by matchQuality so that scores are comparable
// across queries.
func (i *Index) Search(ctx context.Context, query string) ([]model.CandidateMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	lower := strings.ToLower(query)

	exact := bleve.NewTermQuery(lower)
	exact.SetField("key")
	exact.SetBoost(10.0)

	prefix := bleve.NewPrefixQuery(lower)
	prefix.SetField("key")
	prefix.SetBoost(5.0)

	nameMatch := bleve.NewMatchQuery(query)
	nameMatch.SetField("name")
	nameMatch.SetBoost(3.0)

	words := strings.Fields(lower)
	namePrefix := bleve.NewPrefixQuery(words[len(words)-1])
	namePrefix.SetField("name")

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(exact, prefix, nameMatch, namePrefix))
	req.Fields = []string{"symbol", "name", "region"}
	req.Size = MaxResults

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	out := make([]model.CandidateMatch, 0, len(res.Hits))
	for _, hit := range res.Hits {
		c := model.CandidateMatch{
			Symbol: field(hit.Fields, "symbol"),
			Name:   field(hit.Fields, "name"),
			Region: field(hit.Fields, "region"),
		}
		c.MatchScore = matchQuality(lower, c.Symbol, c.Name)
		if c.MatchScore > 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].MatchScore > out[b].MatchScore })
	return out, nil
}

// nameNoise are words that do not identify a company.
var nameNoise = map[string]bool{
	"inc": true, "plc": true, "corp": true, "corporation": true, "co": true,
	"com": true, "ltd": true, "limited": true, "group": true, "the": true,
	"sa": true, "ag": true, "nv": true, "se": true, "holdings": true,
}

func tokens(s string, dropNoise bool) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := words[:0]
	for _, w := range words {
		if dropNoise && nameNoise[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// matchQuality scores a listing against a lowercased query in [0,1].
// An exact symbol is 1. A symbol prefix scales with how much of the
// symbol it covers. A name match is the share of query words found in the
// name, times how much of the name those words account for; a prefix of
// the last query word counts as a partial word.
func matchQuality(query, symbol, name string) float64 {
	sym := strings.ToLower(symbol)
	if query == sym {
		return 1
	}
	best := 0.0
	if sym != "" && strings.HasPrefix(sym, query) {
		best = 0.5 + 0.4*float64(len(query))/float64(len(sym))
	}

	qWords := tokens(query, false)
	nWords := tokens(name, true)
	if len(qWords) == 0 || len(nWords) == 0 {
		return best
	}
	used := make([]bool, len(nWords))
	matched := 0.0
	for qi, q := range qWords {
		for ni, n := range nWords {
			if used[ni] {
				continue
			}
			if q == n {
				used[ni] = true
				matched++
				break
			}
			if qi == len(qWords)-1 && strings.HasPrefix(n, q) {
				used[ni] = true
				matched += 0.75
				break
			}
		}
	}
	covered := 0
	for _, u := range used {
		if u {
			covered++
		}
	}
	nameScore := matched / float64(len(qWords)) * (0.6 + 0.4*float64(covered)/float64(len(nWords)))
	return math.Max(best, nameScore)
}

func field(fields map[string]interface{}, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}

// Count returns the number of indexed listings.
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}

func (i *Index) Close() error {
	return i.index.Close()
}
