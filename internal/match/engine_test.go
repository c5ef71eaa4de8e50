package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enginePool() []Candidate {
	return []Candidate{
		{
			Apartment: Apartment{AptID: 1, AptName: "자이1단지"},
			Region:    Region{RegionID: 1, RegionCode: "1168010100", RegionName: "서울특별시 강남구 삼성동"},
			Detail:    &ApartmentDetail{AptID: 1, JibunAddress: "서울특별시 강남구 삼성동 1101-1"},
		},
		{
			Apartment: Apartment{AptID: 2, AptName: "래미안강남7단지"},
			Region:    Region{RegionID: 2, RegionCode: "1168010300", RegionName: "서울특별시 강남구 대치동"},
			Detail:    &ApartmentDetail{AptID: 2, JibunAddress: "서울특별시 강남구 대치동 890-12"},
		},
	}
}

func TestMatchRecordExactLotIgnoresName(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	cache := NewFeatureCache(engine.Params())

	rec := Record{
		AptNameRaw:    "완전히다른이름",
		SggCode:       "11680",
		TownCode:      "10100",
		LotNumberText: "1101-1",
	}

	res := engine.MatchRecord(false, rec, enginePool(), cache)
	require.True(t, res.Matched)
	assert.Equal(t, int64(1), res.AptID)
	assert.Equal(t, MethodAddressLot, res.Method)
	assert.Equal(t, 1.0, res.Score)
}

func TestMatchRecordNoCandidatesAfterCodeFilter(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	cache := NewFeatureCache(engine.Params())

	rec := Record{
		AptNameRaw: "자이1단지",
		SggCode:    "99999",
		TownCode:   "10100",
	}

	res := engine.MatchRecord(false, rec, enginePool(), cache)
	require.False(t, res.Matched)
	assert.Equal(t, OutcomeNoCandidates, res.Outcome)
	assert.Contains(t, res.Diagnostics.Steps, "narrow: no candidates after code filter")
}

func TestMatchRecordEmptyPoolDiagnostics(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	cache := NewFeatureCache(engine.Params())

	// An empty prefetch with no administrative codes never ran a code filter
	// and must not claim one in the audit trail.
	res := engine.MatchRecord(false, Record{AptNameRaw: "자이1단지"}, nil, cache)
	require.False(t, res.Matched)
	assert.Equal(t, OutcomeNoCandidates, res.Outcome)
	assert.Contains(t, res.Diagnostics.Steps, "narrow: empty pool")
	assert.NotContains(t, res.Diagnostics.Steps, "narrow: no candidates after code filter")
}

func TestMatchRecordFullRegionCodeMethod(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	cache := NewFeatureCache(engine.Params())

	rec := Record{
		AptNameRaw: "자이1단지아파트",
		SggCode:    "11680",
		TownCode:   "10100",
	}

	res := engine.MatchRecord(false, rec, enginePool(), cache)
	require.True(t, res.Matched)
	assert.Equal(t, int64(1), res.AptID)
	assert.Equal(t, MethodFullRegionCode, res.Method)
}

func TestMatchRecordTownNameOnlyMethod(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	cache := NewFeatureCache(engine.Params())

	rec := Record{
		AptNameRaw: "자이1단지",
		TownName:   "삼성동",
	}

	res := engine.MatchRecord(false, rec, enginePool(), cache)
	require.True(t, res.Matched)
	assert.Equal(t, int64(1), res.AptID)
	assert.Equal(t, MethodNameMatching, res.Method)
}

func TestMatchRecordBroadenedRetry(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	cache := NewFeatureCache(engine.Params())

	// The feed's town code points at the wrong town; the town name is right.
	// Narrowed matching must fail and the full-pool retry must recover it.
	rec := Record{
		AptNameRaw: "래미안강남7단지아파트",
		SggCode:    "11680",
		TownCode:   "10100",
		TownName:   "대치동",
	}

	res := engine.MatchRecord(false, rec, enginePool(), cache)
	require.True(t, res.Matched)
	assert.Equal(t, int64(2), res.AptID)
	assert.Equal(t, MethodNameMatchingRetry, res.Method)
	assert.GreaterOrEqual(t, res.Score, 0.95)
}

func TestMatchRecordUnmatchedDiagnostics(t *testing.T) {
	engine := NewEngine(EngineConfig{})
	cache := NewFeatureCache(engine.Params())

	rec := Record{
		AptNameRaw: "푸르지오위례",
		SggCode:    "11680",
		TownCode:   "10100",
	}

	res := engine.MatchRecord(false, rec, enginePool(), cache)
	require.False(t, res.Matched)
	assert.NotEmpty(t, res.Outcome)
	assert.Equal(t, "푸르지오위례", res.Diagnostics.RawName)
	assert.NotEmpty(t, res.Diagnostics.Steps)
	assert.GreaterOrEqual(t, len(res.Diagnostics.PoolSizes), 2)
}
