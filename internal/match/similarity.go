package match

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/techeer-11-team-k/aptmatch/internal/normalize"
)

// Similarity returns the Ratcliff-Obershelp ratio between two strings,
// computed rune-wise so Hangul syllables count as single elements.
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return m.Ratio()
}

// ContainmentScore scores substring containment of the shorter normalized
// name inside the longer one: 0.70 plus up to 0.20 for length agreement.
// Returns 0 when neither contains the other.
func ContainmentScore(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	shorter, longer := a, b
	if len([]rune(shorter)) > len([]rune(longer)) {
		shorter, longer = longer, shorter
	}
	if !strings.Contains(longer, shorter) {
		return 0.0
	}
	ratio := float64(len([]rune(shorter))) / float64(len([]rune(longer)))
	return 0.70 + ratio*0.20
}

// TokenOverlapScore maps the overlap ratio of 2+ character Hangul tokens into
// the 0.55-0.90 band. Partial (substring) token matches count at 0.7 weight.
// Returns 0 when either side has no qualifying tokens.
func TokenOverlapScore(a, b string) float64 {
	ta := normalize.HangulTokens(a, 2)
	tb := normalize.HangulTokens(b, 2)
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}

	var hits float64
	for _, x := range ta {
		best := 0.0
		for _, y := range tb {
			switch {
			case x == y:
				best = 1.0
			case best < 0.7 && (strings.Contains(y, x) || strings.Contains(x, y)):
				best = 0.7
			}
			if best == 1.0 {
				break
			}
		}
		hits += best
	}

	ratio := hits / float64(len(ta))
	if ratio == 0 {
		return 0.0
	}
	return 0.55 + ratio*0.35
}

// bandedSequenceScore scales the raw sequence ratio down in lower similarity
// bands so that mid-range ratios do not outrank structural signals.
func bandedSequenceScore(ratio float64) float64 {
	switch {
	case ratio >= 0.70:
		return ratio * 0.95
	case ratio >= 0.60:
		return ratio * 0.90
	default:
		return ratio * 0.85
	}
}
