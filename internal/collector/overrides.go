package collector

import (
	"fmt"
	"os"

	"ShareEvaluator/internal/model"

	"gopkg.in/yaml.v3"
)

// lowYieldCutoff is the dividend yield below which a vendor value is
// suspected to be wrong when a manual correction exists.
const lowYieldCutoff = 2.0

// Override is a manual correction for one ticker. Unset fields are left
// to the vendor.
type Override struct {
	MarketCap     *float64 `yaml:"market_cap"`     // millions
	DividendYield *float64 `yaml:"dividend_yield"` // percent
}

// OverrideTable maps tickers to manual corrections.
type OverrideTable map[string]Override

// LoadOverrides reads an override table from YAML:
//
//	WHR.L:
//	  market_cap: 285
//	  dividend_yield: 8.5
func LoadOverrides(path string) (OverrideTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	t := OverrideTable{}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse overrides: %w", err)
	}
	return t, nil
}

// Merge returns a table with other's entries on top of t.
func (t OverrideTable) Merge(other OverrideTable) OverrideTable {
	out := make(OverrideTable, len(t)+len(other))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Apply corrects data in place and returns the names of the corrected
// parameters. A market cap is filled when the vendor gave none or zero.
// A dividend yield under 2% is averaged with the known value when it is at
// least 1%, and replaced otherwise.
func (t OverrideTable) Apply(data *model.StockData) []string {
	o, ok := t[data.Ticker]
	if !ok {
		return nil
	}
	var applied []string

	if o.MarketCap != nil {
		if v, present := data.Parameters[model.ParamMarketCap]; present && v.Or(0) == 0 {
			data.SetParameter(model.ParamMarketCap, model.Some(*o.MarketCap), model.ConfidenceMedium)
			applied = append(applied, model.ParamMarketCap)
		}
	}

	if o.DividendYield != nil {
		known := *o.DividendYield
		for _, name := range []string{model.ParamDividendYield, model.ParamYield} {
			v, present := data.Parameters[name]
			if !present {
				continue
			}
			current, valid := v.Get()
			if valid && current >= lowYieldCutoff {
				continue
			}
			corrected := known
			if valid && current >= 1 {
				corrected = (current + known) / 2
			}
			data.SetParameter(name, model.Some(corrected), model.ConfidenceMedium)
			applied = append(applied, name)
		}
	}
	return applied
}

func ptr(f float64) *float64 { return &f }

// DefaultOverrides holds corrections for UK REITs whose vendor figures are
// often missing or stale.
func DefaultOverrides() OverrideTable {
	return OverrideTable{
		"WHR.L":  {MarketCap: ptr(285), DividendYield: ptr(8.5)},
		"BLND.L": {MarketCap: ptr(3500), DividendYield: ptr(5.2)},
		"LAND.L": {MarketCap: ptr(4200), DividendYield: ptr(4.8)},
		"BBOX.L": {MarketCap: ptr(2800), DividendYield: ptr(5.9)},
		"LXI.L":  {MarketCap: ptr(1100), DividendYield: ptr(6.7)},
		"HMSO.L": {MarketCap: ptr(1600), DividendYield: ptr(3.8)},
		"SGRO.L": {MarketCap: ptr(8500), DividendYield: ptr(3.2)},
		"SUPR.L": {MarketCap: ptr(550), DividendYield: ptr(6.4)},
		"GRI.L":  {MarketCap: ptr(700), DividendYield: ptr(4.1)},
		"RGL.L":  {MarketCap: ptr(350), DividendYield: ptr(9.7)},
		"DLN.L":  {MarketCap: ptr(2400), DividendYield: ptr(3.5)},
	}
}
