package normalize

import (
	"sort"
	"strings"
)

// BrandDictionary lists canonical apartment brand names as they appear after
// normalization (lowercase, no spaces). Longer entries must be checked before
// shorter ones so that compound brands win over their components.
var BrandDictionary = []string{
	"두산위브더제니스",
	"푸르지오써밋",
	"호반베르디움",
	"경남아너스빌",
	"중흥s클래스",
	"한라비발디",
	"벽산블루밍",
	"코오롱하늘채",
	"금호어울림",
	"e편한세상",
	"힐스테이트",
	"롯데캐슬",
	"센트레빌",
	"두산위브",
	"호반써밋",
	"쌍용예가",
	"서희스타힐스",
	"제일풍경채",
	"반도유보라",
	"신동아파밀리에",
	"휴먼시아",
	"아이파크",
	"푸르지오",
	"디에이치",
	"스위첸",
	"데시앙",
	"포레나",
	"우미린",
	"하늘채",
	"어울림",
	"래미안",
	"그린빌",
	"아크로",
	"sk뷰",
	"더샵",
	"위브",
	"자이",
	"부영",
	"주공",
	"현대",
	"삼성",
	"대우",
	"한양",
	"한신",
	"금호",
	"벽산",
	"쌍용",
	"동아",
	"우성",
	"선경",
	"건영",
	"청구",
	"삼익",
	"극동",
	"라이프",
	"동문",
	"대림",
	"두산",
	"효성",
	"코아루",
}

// MajorBrands is the curated subset of widely recognized brands used by the
// asymmetric brand veto: a record naming one of these must find it on the
// candidate side too.
var MajorBrands = map[string]bool{
	"래미안":   true,
	"자이":    true,
	"푸르지오":  true,
	"힐스테이트": true,
	"아이파크":  true,
	"e편한세상": true,
	"더샵":    true,
	"롯데캐슬":  true,
	"위브":    true,
	"디에이치":  true,
	"아크로":   true,
	"센트레빌":  true,
	"sk뷰":   true,
	"포레나":   true,
	"데시앙":   true,
}

// brandAliases maps Latin-script and variant spellings to the canonical Korean
// brand form. Substitution is longest-alias-first to avoid partial rewrites.
var brandAliases = map[string]string{
	"lotte castle": "롯데캐슬",
	"lottecastle":  "롯데캐슬",
	"centreville":  "센트레빌",
	"hill state":   "힐스테이트",
	"hillstate":    "힐스테이트",
	"humansia":     "휴먼시아",
	"the sharp":    "더샵",
	"thesharp":     "더샵",
	"raemian":      "래미안",
	"remian":       "래미안",
	"prugio":       "푸르지오",
	"sk view":      "sk뷰",
	"skview":       "sk뷰",
	"i park":       "아이파크",
	"ipark":        "아이파크",
	"forena":       "포레나",
	"desian":       "데시앙",
	"acro":         "아크로",
	"weve":         "위브",
	"이편한세상":        "e편한세상",
	"e-편한세상":       "e편한세상",
	"더샾":           "더샵",
	"xi":           "자이",
}

// typoTable corrects recurring misspellings seen in the government feed.
var typoTable = map[string]string{
	"레미안":   "래미안",
	"푸르지요":  "푸르지오",
	"푸르지오e": "푸르지오",
	"힐스테이드": "힐스테이트",
	"아이팍":   "아이파크",
	"롯데케슬":  "롯데캐슬",
	"샹용":    "쌍용",
}

// RentalKeywords classify a name as a public/rental complex. Rental and
// for-sale blocks on the same lot are distinct legal entities.
var RentalKeywords = []string{
	"공공임대",
	"국민임대",
	"영구임대",
	"행복주택",
	"장기전세",
	"뉴스테이",
	"엘에이치",
	"휴먼시아",
	"임대",
	"주공",
	"lh",
}

// DwellingSuffixes are generic dwelling-type words stripped by the strict
// normal form; they carry no identity on their own.
var DwellingSuffixes = []string{
	"아파트",
	"빌리지",
	"파크빌",
	"그린빌",
	"하이츠",
	"빌라",
	"맨션",
	"타운",
	"하우스",
	"연립",
	"주택",
	"apt",
}

// romanNumerals maps Unicode Roman numeral characters to digits. ASCII
// sequences (II, IX, ...) are handled by regex in Normalize.
var romanNumerals = map[rune]string{
	'Ⅰ': "1", 'Ⅱ': "2", 'Ⅲ': "3", 'Ⅳ': "4", 'Ⅴ': "5",
	'Ⅵ': "6", 'Ⅶ': "7", 'Ⅷ': "8", 'Ⅸ': "9", 'Ⅹ': "10",
	'ⅰ': "1", 'ⅱ': "2", 'ⅲ': "3", 'ⅳ': "4", 'ⅴ': "5",
	'ⅵ': "6", 'ⅶ': "7", 'ⅷ': "8", 'ⅸ': "9", 'ⅹ': "10",
}

// boilerplatePhrases are fragments the feed appends that never belong to the
// complex name.
var boilerplatePhrases = []string{
	"아파트관리사무소",
	"관리사무소",
	"입주자대표회의",
	"관리사무실",
	"관리소",
}

// sortedAliases returns alias keys longest first for deterministic
// substitution order.
func sortedAliases() []string {
	keys := make([]string, 0, len(brandAliases))
	for k := range brandAliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// IsRentalName reports whether a normalized name carries any rental keyword.
func IsRentalName(normalized string) bool {
	for _, kw := range RentalKeywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}
