package match

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/techeer-11-team-k/aptmatch/internal/normalize"
)

// Features is the structured view of one raw apartment name. Immutable once
// computed; cached per batch keyed by the raw string.
type Features struct {
	Raw        string
	Cleaned    string
	Normalized string
	Strict     string

	Brands    []string // canonical forms, subsumption-filtered
	ComplexNo int      // 0 = none
	PhaseNo   int      // 0 = none
	Village   string
	CoreName  string

	ParenBrand string // brand parsed from pre-clean parenthetical content
	ParenNo    int
	Rental     bool
}

var (
	reComplexNo  = regexp.MustCompile(`제?([0-9]+)단지`)
	rePhaseNo    = regexp.MustCompile(`제?([0-9]+)차`)
	reDongNo     = regexp.MustCompile(`([0-9]{3,})동`)
	reBareTail   = regexp.MustCompile(`(?:^|[^0-9])([0-9]{1,2})$`)
	reVillage    = regexp.MustCompile(`([가-힣]+?)[0-9]*(?:마을|단지)`)
	reFirstNum   = regexp.MustCompile(`[0-9]+`)
	brandsByLen  = sortedBrands()
	coreSuffixes = coreSuffixList()
)

func sortedBrands() []string {
	out := make([]string, len(normalize.BrandDictionary))
	copy(out, normalize.BrandDictionary)
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

func coreSuffixList() []string {
	out := []string{"마을", "단지"}
	return append(out, normalize.DwellingSuffixes...)
}

// ExtractFeatures computes the full feature set for one raw name. Prefer
// FeatureCache.Get inside a batch so repeated names are computed once.
func ExtractFeatures(raw string, params *Params) *Features {
	cleaned := normalize.Clean(raw)
	normalized := normalize.Normalize(cleaned)

	f := &Features{
		Raw:        raw,
		Cleaned:    cleaned,
		Normalized: normalized,
		Strict:     normalize.NormalizeStrict(cleaned),
		Rental:     normalize.IsRentalName(normalized),
	}

	f.Brands = extractBrands(normalized, cleaned)
	f.ComplexNo = extractComplexNo(normalized)
	f.PhaseNo = extractPhaseNo(normalized, params.MaxBarePhase)
	f.Village = extractVillage(cleaned)
	f.CoreName = extractCoreName(normalized, f.Strict)
	f.ParenBrand, f.ParenNo = extractParen(raw)

	return f
}

// extractBrands finds every dictionary brand contained in the normalized name,
// dropping entries subsumed by a longer found brand. When nothing matches
// exactly, a single near-miss token (edit distance 1) is accepted to absorb
// feed misspellings the typo table does not cover.
func extractBrands(normalized, cleaned string) []string {
	var found []string
	for _, brand := range brandsByLen {
		if strings.Contains(normalized, brand) {
			found = append(found, brand)
		}
	}

	if found == nil {
		if near := nearBrand(cleaned); near != "" {
			return []string{near}
		}
		return nil
	}

	var kept []string
	for _, b := range found {
		subsumed := false
		for _, other := range found {
			if other != b && strings.Contains(other, b) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			kept = append(kept, b)
		}
	}
	return kept
}

func nearBrand(cleaned string) string {
	for _, token := range normalize.HangulTokens(strings.ToLower(cleaned), 3) {
		for _, brand := range brandsByLen {
			if len([]rune(brand)) < 3 {
				continue
			}
			if levenshtein.ComputeDistance(token, brand) == 1 {
				return brand
			}
		}
	}
	return ""
}

func extractComplexNo(normalized string) int {
	if m := reComplexNo.FindStringSubmatch(normalized); m != nil {
		return atoiSafe(m[1])
	}
	if m := rePhaseNo.FindStringSubmatch(normalized); m != nil {
		return atoiSafe(m[1])
	}
	if m := reDongNo.FindStringSubmatch(normalized); m != nil {
		if n := atoiSafe(m[1]); n >= 100 {
			return n
		}
	}
	return 0
}

func extractPhaseNo(normalized string, maxBare int) int {
	if m := rePhaseNo.FindStringSubmatch(normalized); m != nil {
		return atoiSafe(m[1])
	}
	if m := reBareTail.FindStringSubmatch(normalized); m != nil {
		if n := atoiSafe(m[1]); n >= 1 && n <= maxBare {
			return n
		}
	}
	return 0
}

func extractVillage(cleaned string) string {
	if m := reVillage.FindStringSubmatch(cleaned); m != nil {
		return m[1]
	}
	return ""
}

// extractCoreName returns the substring after the last village/dwelling-type
// suffix, falling back to the strict form when no suffix is present.
func extractCoreName(normalized, strict string) string {
	cut := -1
	for _, suffix := range coreSuffixes {
		if idx := strings.LastIndex(normalized, suffix); idx >= 0 {
			if end := idx + len(suffix); end > cut {
				cut = end
			}
		}
	}
	if cut >= 0 && cut < len(normalized) {
		return normalized[cut:]
	}
	return strict
}

func extractParen(raw string) (brand string, number int) {
	for _, content := range normalize.ParenContents(raw) {
		n := normalize.Normalize(content)
		if brand == "" {
			for _, b := range brandsByLen {
				if strings.Contains(n, b) {
					brand = b
					break
				}
			}
		}
		if number == 0 {
			if m := reFirstNum.FindString(n); m != "" {
				number = atoiSafe(m)
			}
		}
	}
	return brand, number
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// FeatureCache memoizes feature extraction for the lifetime of one batch
// task. Not safe for concurrent use: each task owns its own instance.
type FeatureCache struct {
	params  *Params
	entries map[string]*Features
}

// NewFeatureCache creates an empty cache bound to one parameter set.
func NewFeatureCache(params *Params) *FeatureCache {
	return &FeatureCache{
		params:  params,
		entries: make(map[string]*Features),
	}
}

// Get returns the features for a raw name, computing them on first use.
func (c *FeatureCache) Get(raw string) *Features {
	if f, ok := c.entries[raw]; ok {
		return f
	}
	f := ExtractFeatures(raw, c.params)
	c.entries[raw] = f
	return f
}

// Len reports how many distinct raw names the cache holds.
func (c *FeatureCache) Len() int {
	return len(c.entries)
}
