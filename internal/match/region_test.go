package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func regionPool() []Candidate {
	return []Candidate{
		{
			Apartment: Apartment{AptID: 1, AptName: "삼성아이파크", RegionID: 10},
			Region:    Region{RegionID: 10, RegionCode: "1168010100", RegionName: "서울특별시 강남구 삼성동", CityName: "서울특별시"},
		},
		{
			Apartment: Apartment{AptID: 2, AptName: "대치래미안", RegionID: 11},
			Region:    Region{RegionID: 11, RegionCode: "1168010300", RegionName: "서울특별시 강남구 대치동", CityName: "서울특별시"},
		},
		{
			Apartment: Apartment{AptID: 3, AptName: "수원자이", RegionID: 20},
			Region:    Region{RegionID: 20, RegionCode: "4111510100", RegionName: "경기도 수원시 장안구 파장동", CityName: "수원시"},
		},
	}
}

func TestNarrowByFullCode(t *testing.T) {
	res := Narrow(regionPool(), "11680", "10100", "")
	assert.Equal(t, NarrowedByFullCode, res.MatchedBy)
	assert.True(t, res.CodeFiltered)
	if assert.Len(t, res.Candidates, 1) {
		assert.Equal(t, int64(1), res.Candidates[0].Apartment.AptID)
	}
}

func TestNarrowCodeFilterNeverWidens(t *testing.T) {
	// An attempted code filter with zero hits must stay empty, not fall back
	// to the raw pool.
	res := Narrow(regionPool(), "11680", "99999", "")
	assert.True(t, res.CodeFiltered)
	assert.Empty(t, res.Candidates)

	res = Narrow(regionPool(), "99999", "", "삼성동")
	assert.True(t, res.CodeFiltered)
	assert.Empty(t, res.Candidates)
}

func TestNarrowBySggPrefix(t *testing.T) {
	res := Narrow(regionPool(), "11680", "", "")
	assert.Equal(t, NarrowedBySggCode, res.MatchedBy)
	assert.Len(t, res.Candidates, 2)
}

func TestNarrowBySggThenTownName(t *testing.T) {
	res := Narrow(regionPool(), "11680", "", "대치동")
	assert.Equal(t, NarrowedByTownName, res.MatchedBy)
	if assert.Len(t, res.Candidates, 1) {
		assert.Equal(t, int64(2), res.Candidates[0].Apartment.AptID)
	}
}

func TestNarrowWithoutCodesFallsBackToPool(t *testing.T) {
	res := Narrow(regionPool(), "", "", "")
	assert.Equal(t, NarrowedByNothing, res.MatchedBy)
	assert.False(t, res.CodeFiltered)
	assert.Len(t, res.Candidates, 3)
}

func TestNarrowByTownNameOnly(t *testing.T) {
	res := Narrow(regionPool(), "", "", "파장동")
	assert.Equal(t, NarrowedByTownName, res.MatchedBy)
	if assert.Len(t, res.Candidates, 1) {
		assert.Equal(t, int64(3), res.Candidates[0].Apartment.AptID)
	}
}

func TestStripTownSuffix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"봉담읍", "봉담"},
		{"삼성동", "삼성"},
		{"신도시1리", "신도시"},
		{"종로2가", "종로"},
		{"동", "동"}, // too short to strip
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripTownSuffix(tt.input), "input %q", tt.input)
	}
}

func TestTownNameMatches(t *testing.T) {
	region := Region{RegionName: "서울특별시 강남구 삼성동"}
	assert.True(t, TownNameMatches("삼성동", region))
	assert.True(t, TownNameMatches("강남구 삼성동", region))
	assert.True(t, TownNameMatches("삼성", region))
	assert.False(t, TownNameMatches("대치동", region))
	assert.False(t, TownNameMatches("", region))
}
