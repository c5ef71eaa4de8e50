package match

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// LotNumber is a parsed jibun lot number. A zero Sub means the sub-number is
// absent. A third hyphenated segment is parsed past but never compared.
type LotNumber struct {
	Main     int
	Sub      int
	Mountain bool
}

// MainDigits returns the digit count of the main lot number.
func (l LotNumber) MainDigits() int {
	return len(strconv.Itoa(l.Main))
}

var (
	rePlainLot    = regexp.MustCompile(`^([0-9]+)(?:-([0-9]+))?(?:-[0-9]+)?$`)
	reMountainLot = regexp.MustCompile(`^산\s*([0-9]+)(?:-([0-9]+))?(?:-[0-9]+)?$`)
	reBlockLot    = regexp.MustCompile(`(?:지구|[Bb]/?[Ll]|블록|블럭)[^0-9]*([0-9]+)(?:-([0-9]+))?\s*$`)

	reJibunTown     = regexp.MustCompile(`([가-힣]+[동리가읍면])\s+(산)?\s*([0-9]+)(?:-([0-9]+))?(?:-[0-9]+)?`)
	reJibunLeading  = regexp.MustCompile(`^([0-9]+)(?:-([0-9]+))?(?:-[0-9]+)?`)
	reJibunMountain = regexp.MustCompile(`산\s*([0-9]+)(?:-([0-9]+))?`)
)

// ParseLotText parses the feed's lot-number text. Handles plain "N-M",
// mountain "산N-M" and district/block forms ("...BL N-M").
func ParseLotText(text string) (LotNumber, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return LotNumber{}, false
	}

	if m := rePlainLot.FindStringSubmatch(text); m != nil {
		return lotFromMatch(m[1], m[2], false), true
	}
	if m := reMountainLot.FindStringSubmatch(text); m != nil {
		return lotFromMatch(m[1], m[2], true), true
	}
	if m := reBlockLot.FindStringSubmatch(text); m != nil {
		return lotFromMatch(m[1], m[2], false), true
	}
	return LotNumber{}, false
}

// ParseJibunAddress extracts the lot number from a stored jibun address,
// trying the town-plus-number pattern first so the town name is captured for
// the optional cross-check, then the bare leading number, mountain and block
// forms.
func ParseJibunAddress(addr string) (lot LotNumber, town string, ok bool) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return LotNumber{}, "", false
	}

	if m := reJibunTown.FindStringSubmatch(addr); m != nil {
		return lotFromMatch(m[3], m[4], m[2] == "산"), m[1], true
	}
	if m := reJibunLeading.FindStringSubmatch(addr); m != nil {
		return lotFromMatch(m[1], m[2], false), "", true
	}
	if m := reJibunMountain.FindStringSubmatch(addr); m != nil {
		return lotFromMatch(m[1], m[2], true), "", true
	}
	if m := reBlockLot.FindStringSubmatch(addr); m != nil {
		return lotFromMatch(m[1], m[2], false), "", true
	}
	return LotNumber{}, "", false
}

func lotFromMatch(main, sub string, mountain bool) LotNumber {
	lot := LotNumber{Mountain: mountain}
	lot.Main, _ = strconv.Atoi(main)
	if sub != "" {
		lot.Sub, _ = strconv.Atoi(sub)
	}
	return lot
}

// RecordLot resolves the lot number of a transaction record, preferring the
// explicit main/sub fields over the free-text form.
func RecordLot(rec Record) (LotNumber, bool) {
	if main := strings.TrimSpace(rec.LotMain); main != "" {
		if n, err := strconv.Atoi(main); err == nil && n > 0 {
			lot := LotNumber{Main: n}
			if sub := strings.TrimSpace(rec.LotSub); sub != "" {
				lot.Sub, _ = strconv.Atoi(sub)
			}
			return lot, true
		}
	}
	return ParseLotText(rec.LotNumberText)
}

// lotEquals applies the equality rule: main must match exactly; sub is
// compared only when both sides carry one. When only the record side has a
// sub-number, acceptance requires a high-cardinality main (>= lenientDigits
// digits), since short mains collide too easily.
func lotEquals(rec, cand LotNumber, lenientDigits int) bool {
	if rec.Main != cand.Main {
		return false
	}
	if rec.Sub > 0 && cand.Sub > 0 {
		return rec.Sub == cand.Sub
	}
	if rec.Sub > 0 && cand.Sub == 0 {
		return rec.MainDigits() >= lenientDigits
	}
	return true
}

// MatchExactLot is the fast path: administrative code plus lot-number
// equality is conclusive identity proof independent of the name text, so a
// hit here bypasses all veto and scoring logic. Candidates are visited in
// apt_id order for deterministic results.
func MatchExactLot(rec Record, pool []Candidate, params *Params) *Candidate {
	if rec.SggCode == "" || rec.TownCode == "" {
		return nil
	}
	recLot, ok := RecordLot(rec)
	if !ok {
		return nil
	}
	fullCode := rec.SggCode + rec.TownCode

	sorted := make([]Candidate, len(pool))
	copy(sorted, pool)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Apartment.AptID < sorted[j].Apartment.AptID
	})

	for i := range sorted {
		c := &sorted[i]
		if c.Region.RegionCode != fullCode {
			continue
		}
		if c.Detail == nil || c.Detail.JibunAddress == "" {
			continue
		}
		candLot, candTown, ok := ParseJibunAddress(c.Detail.JibunAddress)
		if !ok {
			continue
		}
		if !lotEquals(recLot, candLot, params.LotMainLenientDigits) {
			continue
		}
		if !townCrossCheck(rec.TownName, candTown) {
			continue
		}
		return c
	}
	return nil
}

// townCrossCheck rejects a lot match when both sides name a town and the
// names disagree outright. Either side missing passes.
func townCrossCheck(recTown, candTown string) bool {
	a := StripTownSuffix(recTown)
	b := StripTownSuffix(candTown)
	if a == "" || b == "" {
		return true
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

// FullLotMatch reports whether the record's lot (main and sub when present on
// both sides) matches a candidate's stored lot. Used by the scorer to waive
// the name-similarity floor.
func FullLotMatch(rec Record, cand Candidate, params *Params) bool {
	recLot, ok := RecordLot(rec)
	if !ok || cand.Detail == nil {
		return false
	}
	candLot, _, ok := ParseJibunAddress(cand.Detail.JibunAddress)
	if !ok {
		return false
	}
	return lotEquals(recLot, candLot, params.LotMainLenientDigits)
}

// PartialLotMatch reports whether only the main lot numbers agree.
func PartialLotMatch(rec Record, cand Candidate) bool {
	recLot, ok := RecordLot(rec)
	if !ok || cand.Detail == nil {
		return false
	}
	candLot, _, ok := ParseJibunAddress(cand.Detail.JibunAddress)
	if !ok {
		return false
	}
	return recLot.Main == candLot.Main
}
