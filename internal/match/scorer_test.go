package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvalFixtures() (*Scorer, *FeatureCache) {
	params := DefaultParams()
	return NewScorer(params), NewFeatureCache(params)
}

func candidateNamed(id int64, name string) Candidate {
	return Candidate{
		Apartment: Apartment{AptID: id, AptName: name},
		Region:    Region{RegionCode: "1168010100", RegionName: "서울특별시 강남구 삼성동"},
	}
}

func TestExactNameShortCircuitSkipsVetoes(t *testing.T) {
	scorer, cache := newEvalFixtures()

	// A ten-year approval gap would normally veto; exact normalized equality
	// must win regardless.
	cand := candidateNamed(1, "래미안강남")
	cand.Detail = &ApartmentDetail{AptID: 1, UseApprovalDate: "2005-01-01"}
	rec := Record{AptNameRaw: "래미안 강남", ConstructionYear: "1995"}

	eval := scorer.Evaluate(rec, []Candidate{cand}, cache, false)
	require.True(t, eval.Matched)
	assert.Equal(t, 1.0, eval.Score)
}

func TestBrandLeniencyOnSingleCandidate(t *testing.T) {
	scorer, cache := newEvalFixtures()

	cand := candidateNamed(1, "래미안강남파크1단지")
	rec := Record{AptNameRaw: "래미안강남파크"}

	eval := scorer.Evaluate(rec, []Candidate{cand}, cache, false)
	require.True(t, eval.Matched)
	assert.Equal(t, int64(1), eval.Candidate.Apartment.AptID)
	assert.GreaterOrEqual(t, eval.Score, 0.40)
}

func TestBrandGroupVeto(t *testing.T) {
	scorer, cache := newEvalFixtures()

	cand := candidateNamed(1, "래미안2단지")
	rec := Record{AptNameRaw: "자이2단지"}

	eval := scorer.Evaluate(rec, []Candidate{cand}, cache, false)
	require.False(t, eval.Matched)
	assert.Equal(t, OutcomeVetoed, eval.Outcome)
	assert.Equal(t, VetoBrandMismatch, eval.FailedVeto)
}

func TestComplexNumberConflictVeto(t *testing.T) {
	scorer, cache := newEvalFixtures()

	cand := candidateNamed(1, "자이1단지")
	rec := Record{AptNameRaw: "자이2단지"}

	eval := scorer.Evaluate(rec, []Candidate{cand}, cache, false)
	require.False(t, eval.Matched)
	assert.Equal(t, OutcomeVetoed, eval.Outcome)
	assert.Equal(t, VetoNumberMismatch, eval.FailedVeto)
}

func TestOneSidedNumberVetoAtHighSimilarity(t *testing.T) {
	scorer, cache := newEvalFixtures()

	// Near-identical name missing its complex number is very likely a
	// different sub-complex.
	cand := candidateNamed(1, "래미안강남파크타워3단지")
	rec := Record{AptNameRaw: "래미안강남파크타워"}

	eval := scorer.Evaluate(rec, []Candidate{cand}, cache, false)
	require.False(t, eval.Matched)
	assert.Equal(t, OutcomeVetoed, eval.Outcome)
	assert.Equal(t, VetoNumberOneSided, eval.FailedVeto)
}

func TestRentalMismatchVeto(t *testing.T) {
	scorer, cache := newEvalFixtures()

	cand := candidateNamed(1, "주공3단지")
	rec := Record{AptNameRaw: "강남3단지"}

	eval := scorer.Evaluate(rec, []Candidate{cand}, cache, false)
	require.False(t, eval.Matched)
	assert.Equal(t, OutcomeVetoed, eval.Outcome)
	assert.Equal(t, VetoRentalMismatch, eval.FailedVeto)
}

func TestConstructionYearVeto(t *testing.T) {
	scorer, cache := newEvalFixtures()

	cand := candidateNamed(1, "래미안강남파크아파트")
	cand.Detail = &ApartmentDetail{AptID: 1, UseApprovalDate: "2005-01-01"}
	rec := Record{AptNameRaw: "래미안강남파크", ConstructionYear: "1995"}

	eval := scorer.Evaluate(rec, []Candidate{cand}, cache, false)
	require.False(t, eval.Matched)
	assert.Equal(t, OutcomeVetoed, eval.Outcome)
	assert.Equal(t, VetoConstructionYear, eval.FailedVeto)
}

func TestYearAgreementScoresHigh(t *testing.T) {
	scorer, cache := newEvalFixtures()

	cand := candidateNamed(1, "강남한신휴플러스제3차")
	cand.Detail = &ApartmentDetail{AptID: 1, UseApprovalDate: "2010-05-01"}
	rec := Record{AptNameRaw: "강남한신휴플러스3차", ConstructionYear: "2010"}

	eval := scorer.Evaluate(rec, []Candidate{cand}, cache, false)
	require.True(t, eval.Matched)
	assert.GreaterOrEqual(t, eval.Score, 0.90)
}

func TestParenBrandMismatchVeto(t *testing.T) {
	scorer, cache := newEvalFixtures()

	cand := candidateNamed(1, "후곡마을(건영15)")
	rec := Record{AptNameRaw: "후곡마을10단지"}

	eval := scorer.Evaluate(rec, []Candidate{cand}, cache, false)
	require.False(t, eval.Matched)
	assert.Equal(t, OutcomeVetoed, eval.Outcome)
	assert.Equal(t, VetoNumberMismatch, eval.FailedVeto)
}

func TestTrueTieIsAmbiguous(t *testing.T) {
	scorer, cache := newEvalFixtures()

	pool := []Candidate{
		candidateNamed(1, "푸르지오월드"),
		candidateNamed(2, "푸르지오월드"),
	}
	rec := Record{AptNameRaw: "푸르지오월드마크"}

	eval := scorer.Evaluate(rec, pool, cache, false)
	require.False(t, eval.Matched)
	assert.Equal(t, OutcomeAmbiguous, eval.Outcome)
}

func TestRetryRequiresTownRevalidation(t *testing.T) {
	scorer, cache := newEvalFixtures()

	cand := candidateNamed(1, "래미안강남7단지")
	rec := Record{AptNameRaw: "래미안강남7단지아파트", TownName: "대치동"}

	eval := scorer.Evaluate(rec, []Candidate{cand}, cache, true)
	require.False(t, eval.Matched, "candidate region must re-validate against the town name")

	rec.TownName = "삼성동"
	cache2 := NewFeatureCache(DefaultParams())
	eval = scorer.Evaluate(rec, []Candidate{cand}, cache2, true)
	require.True(t, eval.Matched)
}

func TestCoreNameLastResort(t *testing.T) {
	scorer, cache := newEvalFixtures()

	// No brand, no number: the residue after the village prefix carries the
	// match.
	cand := candidateNamed(1, "샛별마을동성")
	rec := Record{AptNameRaw: "동성아파트"}

	eval := scorer.Evaluate(rec, []Candidate{cand}, cache, false)
	require.True(t, eval.Matched)
	assert.InDelta(t, 0.72, eval.Score, 1e-9)
}

func TestCoreNameWithheldOnVillageConflict(t *testing.T) {
	scorer, cache := newEvalFixtures()

	// Same residue, different villages: different complexes.
	cand := candidateNamed(1, "샛별마을동성")
	rec := Record{AptNameRaw: "무지개마을동성"}

	eval := scorer.Evaluate(rec, []Candidate{cand}, cache, false)
	require.True(t, eval.Matched)
	assert.Less(t, eval.Score, 0.72)
}

func TestPartialLotScoring(t *testing.T) {
	lotCandidate := func(name, jibun, approval string) Candidate {
		c := candidateNamed(1, name)
		c.Detail = &ApartmentDetail{AptID: 1, JibunAddress: jibun, UseApprovalDate: approval}
		return c
	}

	tests := []struct {
		name      string
		rec       Record
		cand      Candidate
		matched   bool
		wantScore float64
	}{
		{
			name:      "town corroborated",
			rec:       Record{AptNameRaw: "장미연립가동", LotNumberText: "1101-1", TownName: "삼성동"},
			cand:      lotCandidate("장미아트빌라", "서울특별시 강남구 삼성동 1101-2", ""),
			matched:   true,
			wantScore: 0.94,
		},
		{
			name:      "town and address corroborated",
			rec:       Record{AptNameRaw: "장미연립가동", LotNumberText: "1101-1", TownName: "삼성동"},
			cand:      lotCandidate("장미아트빌라", "서울특별시 강남구 삼성동 1101-2 장미가동", ""),
			matched:   true,
			wantScore: 0.98,
		},
		{
			name:      "lot main alone",
			rec:       Record{AptNameRaw: "장미연립가동", LotNumberText: "1101-1"},
			cand:      lotCandidate("장미아트빌라", "서울특별시 강남구 삼성동 1101-2", ""),
			matched:   true,
			wantScore: 0.90,
		},
		{
			name:      "lot main with approval year",
			rec:       Record{AptNameRaw: "장미연립가동", LotNumberText: "1101-1", ConstructionYear: "1992"},
			cand:      lotCandidate("장미아트빌라", "서울특별시 강남구 삼성동 1101-2", "1992-05-30"),
			matched:   true,
			wantScore: 0.97,
		},
		{
			// Below the similarity gate the lot tier must not fire.
			name:    "uncorroborated lot under similarity gate",
			rec:     Record{AptNameRaw: "장미연립", LotNumberText: "1101-1"},
			cand:    lotCandidate("장미블라썸시티타워팰리스뷰", "서울특별시 강남구 삼성동 1101-2", ""),
			matched: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer, cache := newEvalFixtures()
			eval := scorer.Evaluate(tt.rec, []Candidate{tt.cand}, cache, false)
			require.Equal(t, tt.matched, eval.Matched)
			if tt.matched {
				assert.InDelta(t, tt.wantScore, eval.Score, 1e-9)
			} else {
				assert.Equal(t, OutcomeBelowThreshold, eval.Outcome)
			}
		})
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	scorer, _ := newEvalFixtures()

	pool := []Candidate{
		candidateNamed(1, "래미안강남파크1단지"),
		candidateNamed(2, "자이강남2단지"),
	}
	rec := Record{AptNameRaw: "래미안강남파크"}

	first := scorer.Evaluate(rec, pool, NewFeatureCache(DefaultParams()), false)
	second := scorer.Evaluate(rec, pool, NewFeatureCache(DefaultParams()), false)
	assert.Equal(t, first.Matched, second.Matched)
	assert.Equal(t, first.Score, second.Score)
	if first.Matched && second.Matched {
		assert.Equal(t, first.Candidate.Apartment.AptID, second.Candidate.Apartment.AptID)
	}
}
