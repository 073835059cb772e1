package resolver

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Alias maps a company name (or nickname) to a ticker.
type Alias struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}

// AliasTable is an ordered list of aliases. Order decides which candidate
// comes first among equally good fuzzy matches.
type AliasTable []Alias

// normalized returns a copy with every name normalized. Later duplicates
// of a name are dropped so exact lookups stay deterministic.
func (t AliasTable) normalized() AliasTable {
	out := make(AliasTable, 0, len(t))
	seen := make(map[string]bool, len(t))
	for _, a := range t {
		name := Normalize(a.Name)
		if name == "" || a.Symbol == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, Alias{Name: name, Symbol: a.Symbol})
	}
	return out
}

func (t AliasTable) lookup(name string) (Alias, bool) {
	for _, a := range t {
		if a.Name == name {
			return a, true
		}
	}
	return Alias{}, false
}

// LoadAliases reads a YAML list of {name, symbol} entries.
func LoadAliases(path string) (AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aliases: %w", err)
	}
	var t AliasTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse aliases: %w", err)
	}
	return t, nil
}

// CuratedAliases covers names that generic search gets wrong, mostly UK
// property companies and listings with confusing tickers.
var CuratedAliases = AliasTable{
	// UK REITs and property
	{"warehouse reit", "WHR.L"},
	{"warehouse", "WHR.L"},
	{"british land", "BLND.L"},
	{"land securities", "LAND.L"},
	{"landsec", "LAND.L"},
	{"segro", "SGRO.L"},
	{"derwent london", "DLN.L"},
	{"great portland", "GPOR.L"},
	{"tritax big box", "BBOX.L"},
	{"tritax", "BBOX.L"},
	{"primary health properties", "PHP.L"},
	{"lxb retail", "LXI.L"},
	{"lxi reit", "LXI.L"},
	{"shaftesbury capital", "SHB.L"},
	{"assura", "AGR.L"},
	{"grainger", "GRI.L"},
	{"newriver", "NRR.L"},
	{"supermarket income reit", "SUPR.L"},
	{"hammerson", "HMSO.L"},
	{"regional reit", "RGL.L"},
	{"aew uk reit", "AEWU.L"},
	{"empiric student", "ESP.L"},
	{"secure income", "SIR.L"},
	{"target healthcare", "THRL.L"},
	{"civitas social", "CSH.L"},
	{"residential secure income", "RESI.L"},

	// UK
	{"astrazeneca", "AZN.L"},
	{"unilever", "ULVR.L"},
	{"diageo", "DGE.L"},
	{"gsk", "GSK.L"},
	{"glaxosmithkline", "GSK.L"},
	{"rio tinto", "RIO.L"},
	{"rightmove", "RMV.L"},
	{"centrica", "CNA.L"},
	{"imperial brands", "IMB.L"},
	{"smith & nephew", "SN.L"},
	{"compass group", "CPG.L"},
	{"legal & general", "LGEN.L"},
	{"legal and general", "LGEN.L"},
	{"admiral group", "ADM.L"},
	{"halma", "HLMA.L"},
	{"burberry", "BRBY.L"},
	{"associated british foods", "ABF.L"},
	{"primark", "ABF.L"},
	{"tesco", "TSCO.L"},
	{"j sainsbury", "SBRY.L"},
	{"sainsbury", "SBRY.L"},

	// North America
	{"berkshire hathaway", "BRK-B"},
	{"berkshire", "BRK-B"},
	{"buffett", "BRK-B"},
	{"johnson & johnson", "JNJ"},
	{"johnson and johnson", "JNJ"},
	{"procter & gamble", "PG"},
	{"procter and gamble", "PG"},
	{"jp morgan", "JPM"},
	{"jpmorgan", "JPM"},
	{"bank of america", "BAC"},

	// Europe
	{"nestle", "NESN.SW"},
	{"roche", "ROG.SW"},
	{"novartis", "NOVN.SW"},
	{"asml", "ASML.AS"},
	{"lvmh", "MC.PA"},
	{"louis vuitton", "MC.PA"},
	{"total energies", "TTE.PA"},
	{"sanofi", "SAN.PA"},
	{"siemens", "SIE.DE"},
	{"allianz", "ALV.DE"},
	{"sap", "SAP.DE"},
	{"bayer", "BAYN.DE"},
	{"airbus", "AIR.PA"},
}

// GeneralAliases covers major global listings, common misspellings and
// product or founder associations.
var GeneralAliases = AliasTable{
	// US
	{"apple", "AAPL"},
	{"appl", "AAPL"},
	{"microsoft", "MSFT"},
	{"msft", "MSFT"},
	{"windows", "MSFT"},
	{"amazon", "AMZN"},
	{"amzn", "AMZN"},
	{"google", "GOOGL"},
	{"alphabet", "GOOGL"},
	{"facebook", "META"},
	{"meta", "META"},
	{"instagram", "META"},
	{"whatsapp", "META"},
	{"tesla", "TSLA"},
	{"tsla", "TSLA"},
	{"elonmusk", "TSLA"},
	{"elon", "TSLA"},
	{"netflix", "NFLX"},
	{"nflx", "NFLX"},
	{"walmart", "WMT"},
	{"walt disney", "DIS"},
	{"disney", "DIS"},
	{"nike", "NKE"},
	{"coca cola", "KO"},
	{"coca-cola", "KO"},
	{"coke", "KO"},
	{"pepsi", "PEP"},
	{"pepsico", "PEP"},
	{"mcdonalds", "MCD"},
	{"mcd", "MCD"},
	{"mcdonald's", "MCD"},
	{"starbucks", "SBUX"},
	{"sbux", "SBUX"},
	{"intel", "INTC"},
	{"intc", "INTC"},
	{"amd", "AMD"},
	{"nvidia", "NVDA"},
	{"nvda", "NVDA"},
	{"ibm", "IBM"},
	{"international business machines", "IBM"},

	// UK
	{"tesco", "TSCO.L"},
	{"sainsburys", "SBRY.L"},
	{"sainsbury's", "SBRY.L"},
	{"sainsbury", "SBRY.L"},
	{"marks & spencer", "MKS.L"},
	{"marks and spencer", "MKS.L"},
	{"m&s", "MKS.L"},
	{"barclays", "BARC.L"},
	{"hsbc", "HSBA.L"},
	{"lloyds", "LLOY.L"},
	{"lloyd's", "LLOY.L"},
	{"bp", "BP.L"},
	{"british petroleum", "BP.L"},
	{"shell", "SHEL.L"},
	{"royal dutch shell", "SHEL.L"},
	{"vodafone", "VOD.L"},
	{"gsk", "GSK.L"},
	{"glaxosmithkline", "GSK.L"},
	{"glaxo smith kline", "GSK.L"},
	{"glaxo", "GSK.L"},
	{"astrazeneca", "AZN.L"},
	{"unilever", "ULVR.L"},

	// Asia
	{"toyota", "7203.T"},
	{"toyota motors", "7203.T"},
	{"sony", "6758.T"},
	{"nintendo", "7974.T"},
	{"softbank", "9984.T"},
	{"tencent", "0700.HK"},
	{"alibaba", "BABA"},
	{"baba", "BABA"},
	{"baidu", "BIDU"},
	{"jd.com", "JD"},
	{"jd", "JD"},
	{"taiwan semiconductor", "TSM"},
	{"tsmc", "TSM"},
	{"samsung", "005930.KS"},

	// Australia
	{"bhp", "BHP.AX"},
	{"commonwealth bank", "CBA.AX"},
	{"cba", "CBA.AX"},
	{"westpac", "WBC.AX"},
	{"telstra", "TLS.AX"},

	// Europe
	{"volkswagen", "VOW3.DE"},
	{"vw", "VOW3.DE"},
	{"bmw", "BMW.DE"},
	{"mercedes", "MBG.DE"},
	{"daimler", "MBG.DE"},
	{"mercedes-benz", "MBG.DE"},
	{"siemens", "SIE.DE"},
	{"deutsche bank", "DBK.DE"},
	{"db", "DBK.DE"},
	{"nestle", "NESN.SW"},
	{"louis vuitton", "MC.PA"},
	{"lvmh", "MC.PA"},
	{"l'oreal", "OR.PA"},
	{"loreal", "OR.PA"},
}

// regionSuffixes maps exchange suffixes to a region label.
var regionSuffixes = map[string]string{
	".L":  "United Kingdom",
	".SW": "Switzerland",
	".AS": "Netherlands",
	".PA": "France",
	".DE": "Germany",
	".T":  "Japan",
	".HK": "Hong Kong",
	".KS": "South Korea",
	".AX": "Australia",
}

// RegionUS is the region label the search tie-break prefers.
const RegionUS = "United States"

// RegionOf guesses the listing region from a ticker suffix.
func RegionOf(symbol string) string {
	for suffix, region := range regionSuffixes {
		if strings.HasSuffix(symbol, suffix) {
			return region
		}
	}
	return RegionUS
}
