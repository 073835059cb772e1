package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Confidence describes how trustworthy a sourced value is.
type Confidence string

const (
	ConfidenceHigh         Confidence = "High"
	ConfidenceMedium       Confidence = "Medium"
	ConfidenceLow          Confidence = "Low"
	ConfidenceNotAvailable Confidence = "Not available"
)

// StockData is what a fetcher returns for one ticker.
type StockData struct {
	Ticker           string                `json:"ticker"`
	Name             string                `json:"name"`
	Sector           string                `json:"sector"`
	Currency         string                `json:"currency"`
	CurrentPrice     Value                 `json:"current_price"`
	FiftyTwoWeekHigh Value                 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  Value                 `json:"fifty_two_week_low"`
	Parameters       map[string]Value      `json:"parameters"`
	Confidence       map[string]Confidence `json:"data_confidence"`
	DailyBars        []OHLCV               `json:"daily_bars,omitempty"`
	Technicals       *Technicals           `json:"technicals,omitempty"`
	Source           string                `json:"source"`
	FetchedAt        time.Time             `json:"fetched_at"`
}

// SetParameter records a value and its confidence. Absent values are
// always tagged as not available.
func (s *StockData) SetParameter(name string, v Value, c Confidence) {
	if s.Parameters == nil {
		s.Parameters = make(map[string]Value)
	}
	if s.Confidence == nil {
		s.Confidence = make(map[string]Confidence)
	}
	if !v.Valid {
		c = ConfidenceNotAvailable
	}
	s.Parameters[name] = v
	s.Confidence[name] = c
}

// Technicals holds indicators computed from daily bars.
type Technicals struct {
	MA50        Value `json:"ma50"`
	MA200       Value `json:"ma200"`
	RSI14       Value `json:"rsi14"`
	High52w     Value `json:"high_52w"`
	Low52w      Value `json:"low_52w"`
	Position52w Value `json:"position_52w"` // 0.0 ~ 1.0
}

// CandidateMatch is one possible ticker for a free-text query.
type CandidateMatch struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Region     string  `json:"region"`
	MatchScore float64 `json:"match_score"` // 0.0 ~ 1.0
}

// Article is a news item shown next to an evaluation.
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"published_at"`
}

// Clone returns a copy that shares no maps or slices with s.
func (s *StockData) Clone() *StockData {
	cp := *s
	cp.Parameters = make(map[string]Value, len(s.Parameters))
	for k, v := range s.Parameters {
		cp.Parameters[k] = v
	}
	cp.Confidence = make(map[string]Confidence, len(s.Confidence))
	for k, v := range s.Confidence {
		cp.Confidence[k] = v
	}
	cp.DailyBars = append([]OHLCV(nil), s.DailyBars...)
	if s.Technicals != nil {
		t := *s.Technicals
		cp.Technicals = &t
	}
	return &cp
}
