package normalize

import (
	"regexp"
	"strings"
)

// Bracket pairs used by the government feed. Contents are dropped by Clean but
// kept available through ParenContents for the parenthetical-brand veto.
var bracketPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\([^)]*\)`),
	regexp.MustCompile(`\[[^\]]*\]`),
	regexp.MustCompile(`\{[^}]*\}`),
	regexp.MustCompile(`〈[^〉]*〉`),
	regexp.MustCompile(`《[^》]*》`),
}

var bracketContentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(([^)]*)\)`),
	regexp.MustCompile(`\[([^\]]*)\]`),
	regexp.MustCompile(`\{([^}]*)\}`),
	regexp.MustCompile(`〈([^〉]*)〉`),
	regexp.MustCompile(`《([^》]*)》`),
}

var (
	rePunct       = regexp.MustCompile(`[&/·ㆍ・~～]`)
	reAsciiRoman  = regexp.MustCompile(`\b(viii|vii|vi|iv|ix|iii|ii|x|v|i)\b`)
	reHyphens     = regexp.MustCompile(`[-–—]`)
	reApostrophes = regexp.MustCompile(`['’‘]`)
	reStray       = regexp.MustCompile(`[()\[\]{}〈〉《》]`)

	rePhaseMarker   = regexp.MustCompile(`제?\d+차`)
	reComplexMarker = regexp.MustCompile(`제?\d+단지`)
	reBuildingNo    = regexp.MustCompile(`\d{3,}동`)
	reTrailingNum   = regexp.MustCompile(`(^|[^0-9])[0-9]{1,2}$`)
)

var asciiRomanValues = map[string]string{
	"i": "1", "ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9", "x": "10",
}

var aliasOrder = sortedAliases()

// Clean strips parenthetical content and feed boilerplate from a raw apartment
// name, normalizes separator punctuation to spaces and collapses whitespace.
// Pure and total: empty input yields empty output.
func Clean(raw string) string {
	s := raw
	for _, re := range bracketPatterns {
		s = re.ReplaceAllString(s, " ")
	}
	s = reStray.ReplaceAllString(s, " ")
	for _, phrase := range boilerplatePhrases {
		s = strings.ReplaceAll(s, phrase, " ")
	}
	s = rePunct.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// ParenContents returns the contents of every bracketed segment of the raw
// name, in order of appearance. Callers use this before Clean discards them.
func ParenContents(raw string) []string {
	var out []string
	for _, re := range bracketContentPatterns {
		for _, m := range re.FindAllStringSubmatch(raw, -1) {
			if c := strings.TrimSpace(m[1]); c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

// Normalize reduces a cleaned name to its canonical comparison form:
// lowercase, Roman numerals as digits, no hyphens, Latin brand spellings
// unified to Korean, common typos corrected, only alphanumeric and Hangul
// characters retained.
func Normalize(cleaned string) string {
	s := strings.ToLower(cleaned)

	var b strings.Builder
	for _, r := range s {
		if digit, ok := romanNumerals[r]; ok {
			b.WriteString(digit)
		} else {
			b.WriteRune(r)
		}
	}
	s = b.String()
	s = reAsciiRoman.ReplaceAllStringFunc(s, func(m string) string {
		return asciiRomanValues[m]
	})

	s = reHyphens.ReplaceAllString(s, "")
	s = reApostrophes.ReplaceAllString(s, "")

	for _, alias := range aliasOrder {
		s = strings.ReplaceAll(s, alias, brandAliases[alias])
	}
	for typo, fix := range typoTable {
		s = strings.ReplaceAll(s, typo, fix)
	}

	b.Reset()
	for _, r := range s {
		if isKeptRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeStrict further strips phase markers, complex markers, building
// numbers, generic dwelling-type suffixes and a single short trailing number,
// leaving only the identity-bearing core of the name.
func NormalizeStrict(cleaned string) string {
	s := Normalize(cleaned)
	s = rePhaseMarker.ReplaceAllString(s, "")
	s = reComplexMarker.ReplaceAllString(s, "")
	s = reBuildingNo.ReplaceAllString(s, "")
	for _, suffix := range DwellingSuffixes {
		s = strings.ReplaceAll(s, suffix, "")
	}
	s = reTrailingNum.ReplaceAllString(s, "$1")
	return s
}

func isKeptRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= '가' && r <= '힣':
		return true
	}
	return false
}

// HangulTokens splits a string into maximal runs of Hangul syllables of the
// given minimum length. Used by the token-overlap similarity signal.
func HangulTokens(s string, minLen int) []string {
	var tokens []string
	var cur []rune
	flush := func() {
		if len(cur) >= minLen {
			tokens = append(tokens, string(cur))
		}
		cur = cur[:0]
	}
	for _, r := range s {
		if r >= '가' && r <= '힣' {
			cur = append(cur, r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}
