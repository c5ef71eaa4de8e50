package match

import (
	"sort"
	"strconv"
	"strings"

	"github.com/techeer-11-team-k/aptmatch/internal/normalize"
)

// Veto reasons recorded in diagnostics.
const (
	VetoNameFloor        = "name_similarity_floor"
	VetoConstructionYear = "construction_year"
	VetoRentalMismatch   = "rental_mismatch"
	VetoParenBrand       = "paren_brand_mismatch"
	VetoNumberMismatch   = "complex_number_mismatch"
	VetoNumberOneSided   = "complex_number_one_sided"
	VetoBrandMismatch    = "brand_group_mismatch"
)

// Scorer runs the veto, score and threshold stages over a candidate pool.
type Scorer struct {
	params *Params
}

// NewScorer creates a scorer with the given parameters.
func NewScorer(params *Params) *Scorer {
	if params == nil {
		params = DefaultParams()
	}
	return &Scorer{params: params}
}

// Evaluation is the outcome of one scoring pass over a pool.
type Evaluation struct {
	Matched    bool
	Candidate  *Candidate
	Score      float64
	Outcome    string // set when Matched is false
	FailedVeto string // veto reason of the most similar vetoed candidate
	BestScore  float64
	BestName   string
}

// Evaluate scores a record against a candidate pool. Candidates are visited
// in apt_id order; a true tie at the best score is reported as ambiguous
// rather than silently resolved. When retry is set the pool is the broadened
// full-region set: thresholds rise and the winner's region must re-validate
// against the record's town name.
func (s *Scorer) Evaluate(rec Record, pool []Candidate, cache *FeatureCache, retry bool) Evaluation {
	if len(pool) == 0 {
		return Evaluation{Outcome: OutcomeNoCandidates}
	}

	recFeat := cache.Get(rec.AptNameRaw)

	sorted := make([]Candidate, len(pool))
	copy(sorted, pool)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Apartment.AptID < sorted[j].Apartment.AptID
	})

	var (
		best       *Candidate
		bestScore  = -1.0
		bestTied   bool
		vetoSim    = -1.0
		vetoReason string
		vetoName   string
	)

	for i := range sorted {
		cand := &sorted[i]
		candFeat := cache.Get(cand.Apartment.AptName)

		// Exact normalized-name equality is conclusive; skips every veto.
		if recFeat.Normalized != "" && recFeat.Normalized == candFeat.Normalized {
			return Evaluation{Matched: true, Candidate: cand, Score: 1.0}
		}

		nameSim := Similarity(recFeat.Normalized, candFeat.Normalized)
		fullLot := FullLotMatch(rec, *cand, s.params)

		if reason := s.veto(rec, recFeat, *cand, candFeat, nameSim, fullLot); reason != "" {
			if nameSim > vetoSim {
				vetoSim = nameSim
				vetoReason = reason
				vetoName = cand.Apartment.AptName
			}
			continue
		}

		score := s.score(rec, recFeat, *cand, candFeat, nameSim, len(sorted))

		// Final re-check: no score survives a sub-floor name similarity
		// unless the full lot number matched.
		if nameSim < s.params.NameSimilarityFloor && !fullLot {
			continue
		}

		switch {
		case score > bestScore:
			bestScore = score
			best = cand
			bestTied = false
		case score == bestScore && best != nil:
			bestTied = true
		}
	}

	if best == nil {
		if vetoReason != "" {
			return Evaluation{Outcome: OutcomeVetoed, FailedVeto: vetoReason, BestScore: vetoSim, BestName: vetoName}
		}
		return Evaluation{Outcome: OutcomeBelowThreshold}
	}

	threshold := s.threshold(retry, cache.Get(best.Apartment.AptName), recFeat, len(sorted))
	if retry && !TownNameMatches(rec.TownName, best.Region) {
		return Evaluation{Outcome: OutcomeBelowThreshold, BestScore: bestScore, BestName: best.Apartment.AptName}
	}
	if bestScore < threshold {
		return Evaluation{Outcome: OutcomeBelowThreshold, BestScore: bestScore, BestName: best.Apartment.AptName}
	}
	if bestTied {
		return Evaluation{Outcome: OutcomeAmbiguous, BestScore: bestScore, BestName: best.Apartment.AptName}
	}
	return Evaluation{Matched: true, Candidate: best, Score: bestScore}
}

// veto applies the hard exclusion rules. Returns the first failing reason or
// an empty string when the candidate survives.
func (s *Scorer) veto(rec Record, recFeat *Features, cand Candidate, candFeat *Features, nameSim float64, fullLot bool) string {
	if nameSim < s.params.NameSimilarityFloor && !fullLot {
		return VetoNameFloor
	}

	if recYear, candYear := recordYear(rec), candidateYear(cand); recYear > 0 && candYear > 0 {
		gap := recYear - candYear
		if gap < 0 {
			gap = -gap
		}
		if gap > s.params.YearTolerance {
			return VetoConstructionYear
		}
	}

	if recFeat.Rental != candFeat.Rental {
		return VetoRentalMismatch
	}

	if recFeat.ParenBrand != "" {
		if candFeat.ParenBrand != "" {
			if recFeat.ParenBrand != candFeat.ParenBrand {
				return VetoParenBrand
			}
		} else if !strings.Contains(candFeat.Normalized, recFeat.ParenBrand) && !containsBrand(candFeat.Brands, recFeat.ParenBrand) {
			return VetoParenBrand
		}
	}

	recNo, candNo := stateNumber(recFeat), stateNumber(candFeat)
	switch {
	case recNo > 0 && candNo > 0:
		if recNo != candNo {
			return VetoNumberMismatch
		}
	case recNo > 0 || candNo > 0:
		if nameSim >= s.params.HighSimNumberVeto {
			return VetoNumberOneSided
		}
		bearer, other := recFeat, candFeat
		if candNo > 0 {
			bearer, other = candFeat, recFeat
		}
		if bearer.ParenBrand != "" && !strings.Contains(other.Normalized, bearer.ParenBrand) {
			return VetoNumberOneSided
		}
	}

	if len(recFeat.Brands) > 0 && len(candFeat.Brands) > 0 && !brandsIntersect(recFeat.Brands, candFeat.Brands) {
		return VetoBrandMismatch
	}
	if missingMajorBrand(recFeat.Brands, candFeat.Normalized) {
		return VetoBrandMismatch
	}
	if missingMajorBrand(candFeat.Brands, recFeat.Normalized) {
		return VetoBrandMismatch
	}

	return ""
}

// score proposes a value per applicable signal and keeps the maximum, never a
// sum.
func (s *Scorer) score(rec Record, recFeat *Features, cand Candidate, candFeat *Features, nameSim float64, poolSize int) float64 {
	brandMatch := brandsIntersect(recFeat.Brands, candFeat.Brands)
	recNo, candNo := stateNumber(recFeat), stateNumber(candFeat)
	numberMatch := recNo > 0 && recNo == candNo
	villageMatch := recFeat.Village != "" && recFeat.Village == candFeat.Village

	best := 0.0
	consider := func(v float64) {
		if v > best {
			best = v
		}
	}

	switch {
	case brandMatch && numberMatch:
		consider(0.95)
	case brandMatch && villageMatch:
		consider(0.90)
	case numberMatch && villageMatch:
		consider(0.88)
	case brandMatch:
		if poolSize <= 3 {
			consider(0.75)
		} else {
			consider(0.60)
		}
	case numberMatch && poolSize <= 3:
		consider(0.70)
	}

	// Last resort: names whose structural features are all absent can still
	// agree on the residue after the village or dwelling-type prefix.
	if !brandMatch && !numberMatch &&
		recFeat.CoreName != "" && recFeat.CoreName == candFeat.CoreName &&
		!(recFeat.Village != "" && candFeat.Village != "" && recFeat.Village != candFeat.Village) {
		consider(0.72)
	}

	if PartialLotMatch(rec, cand) {
		townOK := rec.TownName != "" && TownNameMatches(rec.TownName, cand.Region)
		addrOK := nameEmbeddedInAddress(recFeat, cand)
		switch {
		case townOK && addrOK && nameSim >= 0.10:
			consider(0.98)
		case (townOK || addrOK) && nameSim >= 0.15:
			consider(0.94)
		case nameSim >= 0.25:
			consider(0.90)
		}
		if recYear, candYear := recordYear(rec), candidateYear(cand); recYear > 0 && recYear == candYear && nameSim >= 0.15 {
			consider(0.97)
		}
	}

	consider(ContainmentScore(recFeat.Normalized, candFeat.Normalized))
	consider(bandedSequenceScore(nameSim))
	consider(bandedSequenceScore(Similarity(recFeat.Strict, candFeat.Strict)))
	consider(TokenOverlapScore(recFeat.Normalized, candFeat.Normalized))

	// Small pools tolerate weaker similarity, as a capped score that can
	// never override the global similarity floor veto.
	switch {
	case poolSize == 1 && nameSim >= 0.25:
		consider(0.50)
	case poolSize <= 3 && nameSim >= 0.35:
		consider(0.48)
	case poolSize <= 5 && nameSim >= 0.45:
		consider(0.45)
	case poolSize <= 10 && nameSim >= 0.55:
		consider(0.42)
	}

	return best
}

// threshold selects the acceptance floor for the search context. Broadened
// retries demand high confidence, relaxed only when a structural signal backs
// the score; narrowed searches scale with pool size, larger pools demanding
// more.
func (s *Scorer) threshold(retry bool, candFeat, recFeat *Features, poolSize int) float64 {
	if retry {
		structural := brandsIntersect(recFeat.Brands, candFeat.Brands) ||
			(stateNumber(recFeat) > 0 && stateNumber(recFeat) == stateNumber(candFeat))
		if structural {
			return s.params.RetryThresholdLow
		}
		return s.params.RetryThresholdHigh
	}
	switch {
	case poolSize <= 5:
		return s.params.NarrowThresholdLow
	case poolSize <= 20:
		return (s.params.NarrowThresholdLow + s.params.NarrowThresholdHigh) / 2
	default:
		return s.params.NarrowThresholdHigh
	}
}

// stateNumber is the explicit complex/phase number a name states, with the
// parenthetical number as the fallback.
func stateNumber(f *Features) int {
	if f.ComplexNo > 0 {
		return f.ComplexNo
	}
	if f.PhaseNo > 0 {
		return f.PhaseNo
	}
	return f.ParenNo
}

func brandsIntersect(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func containsBrand(brands []string, brand string) bool {
	for _, b := range brands {
		if b == brand || strings.Contains(b, brand) {
			return true
		}
	}
	return false
}

// missingMajorBrand reports whether side A names a major brand that the other
// side's normalized name does not carry at all.
func missingMajorBrand(brands []string, otherNormalized string) bool {
	for _, b := range brands {
		if normalize.MajorBrands[b] && !strings.Contains(otherNormalized, b) {
			return true
		}
	}
	return false
}

// nameEmbeddedInAddress reports whether the record's strict name appears in
// the candidate's jibun address (feeds often embed the complex name there).
func nameEmbeddedInAddress(recFeat *Features, cand Candidate) bool {
	if cand.Detail == nil || recFeat.Strict == "" {
		return false
	}
	addr := normalize.Normalize(normalize.Clean(cand.Detail.JibunAddress))
	return strings.Contains(addr, recFeat.Strict)
}

func recordYear(rec Record) int {
	y := strings.TrimSpace(rec.ConstructionYear)
	if len(y) < 4 {
		return 0
	}
	n, err := strconv.Atoi(y[:4])
	if err != nil {
		return 0
	}
	return n
}

func candidateYear(cand Candidate) int {
	if cand.Detail == nil {
		return 0
	}
	d := strings.TrimSpace(cand.Detail.UseApprovalDate)
	if len(d) < 4 {
		return 0
	}
	n, err := strconv.Atoi(d[:4])
	if err != nil {
		return 0
	}
	return n
}
