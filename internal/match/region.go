package match

import (
	"regexp"
	"strings"
)

// How a candidate pool was narrowed.
const (
	NarrowedByFullCode = "full_region_code"
	NarrowedBySggCode  = "sgg_code"
	NarrowedByTownName = "town_name"
	NarrowedByNothing  = "none"
)

// NarrowResult is the outcome of administrative narrowing. When CodeFiltered
// is set and Candidates is empty, a structural code filter was attempted and
// produced nothing: the caller must treat the record as terminal rather than
// fall back to the unfiltered pool.
type NarrowResult struct {
	Candidates   []Candidate
	MatchedBy    string
	CodeFiltered bool
}

var reDigits = regexp.MustCompile(`[0-9]+`)

// Narrow reduces the candidate pool using administrative codes first and the
// free-text town name last. Code filters are hard: an empty result after a
// code filter is returned as-is, never silently widened.
func Narrow(pool []Candidate, sggCode, townCode, townName string) NarrowResult {
	sggCode = strings.TrimSpace(sggCode)
	townCode = strings.TrimSpace(townCode)

	if sggCode != "" && townCode != "" {
		full := sggCode + townCode
		narrowed := filterByRegionCode(pool, full)
		return NarrowResult{Candidates: narrowed, MatchedBy: NarrowedByFullCode, CodeFiltered: true}
	}

	if sggCode != "" {
		narrowed := filterByRegionCode(pool, sggCode+"00000")
		if len(narrowed) == 0 {
			narrowed = filterByRegionPrefix(pool, sggCode)
		}
		if len(narrowed) == 0 {
			return NarrowResult{MatchedBy: NarrowedBySggCode, CodeFiltered: true}
		}
		if townName != "" {
			if byTown := filterByTownName(narrowed, townName); len(byTown) > 0 {
				return NarrowResult{Candidates: byTown, MatchedBy: NarrowedByTownName, CodeFiltered: true}
			}
		}
		return NarrowResult{Candidates: narrowed, MatchedBy: NarrowedBySggCode, CodeFiltered: true}
	}

	if townName != "" {
		if byTown := filterByTownName(pool, townName); len(byTown) > 0 {
			return NarrowResult{Candidates: byTown, MatchedBy: NarrowedByTownName}
		}
	}

	// No administrative code at all: the unfiltered pool is the legal fallback.
	return NarrowResult{Candidates: pool, MatchedBy: NarrowedByNothing}
}

func filterByRegionCode(pool []Candidate, code string) []Candidate {
	var out []Candidate
	for _, c := range pool {
		if c.Region.RegionCode == code {
			out = append(out, c)
		}
	}
	return out
}

func filterByRegionPrefix(pool []Candidate, prefix string) []Candidate {
	var out []Candidate
	for _, c := range pool {
		if strings.HasPrefix(c.Region.RegionCode, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// TownNameVariants generates the comparison keys for a free-text town name:
// the full string, the last whitespace token (the substantive name is usually
// last) and the first token, each raw and with the administrative suffix and
// embedded digits stripped.
func TownNameVariants(townName string) []string {
	townName = strings.TrimSpace(townName)
	if townName == "" {
		return nil
	}

	fields := strings.Fields(townName)
	bases := []string{townName}
	if len(fields) > 1 {
		bases = append(bases, fields[len(fields)-1], fields[0])
	}

	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, b := range bases {
		add(b)
		add(StripTownSuffix(b))
	}
	return out
}

// StripTownSuffix removes embedded digits and one trailing administrative
// level marker (읍/면/리/동/가) from a town name.
func StripTownSuffix(name string) string {
	s := reDigits.ReplaceAllString(strings.TrimSpace(name), "")
	runes := []rune(s)
	if len(runes) < 2 {
		return s
	}
	switch runes[len(runes)-1] {
	case '읍', '면', '리', '동', '가':
		return string(runes[:len(runes)-1])
	}
	return s
}

// TownNameMatches reports whether a free-text town name refers to the given
// reference region: exact variant match first, then containment in either
// direction.
func TownNameMatches(townName string, region Region) bool {
	variants := TownNameVariants(townName)
	if len(variants) == 0 {
		return false
	}

	refs := regionNameKeys(region)
	for _, v := range variants {
		for _, r := range refs {
			if v == r {
				return true
			}
		}
	}
	for _, v := range variants {
		for _, r := range refs {
			if strings.Contains(r, v) || strings.Contains(v, r) {
				return true
			}
		}
	}
	return false
}

func regionNameKeys(region Region) []string {
	var out []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s, StripTownSuffix(s))
		}
	}
	add(region.RegionName)
	if fields := strings.Fields(region.RegionName); len(fields) > 1 {
		add(fields[len(fields)-1])
	}
	return out
}

func filterByTownName(pool []Candidate, townName string) []Candidate {
	var out []Candidate
	for _, c := range pool {
		if TownNameMatches(townName, c.Region) {
			out = append(out, c)
		}
	}
	return out
}
