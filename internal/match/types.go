package match

// Apartment is a reference-catalog complex. Read-only to the matcher.
type Apartment struct {
	AptID    int64
	AptName  string
	RegionID int64
	AptSeq   string // external sequence identifier, may be empty
	KaptCode string
}

// ApartmentDetail carries the address-level attributes of an apartment.
type ApartmentDetail struct {
	AptID           int64
	JibunAddress    string
	RoadAddress     string
	UseApprovalDate string // YYYY-MM-DD, may be empty
}

// Region is one node of the administrative hierarchy. RegionCode is the
// 10-digit code: 2-digit province, 3-digit city/county, 5-digit town/village,
// with trailing zeros marking coarser levels.
type Region struct {
	RegionID   int64
	RegionCode string
	RegionName string
	CityName   string
}

// Candidate joins an apartment with its region and optional detail row for
// one matching pass. Candidate sets are rebuilt per record and never persisted.
type Candidate struct {
	Apartment Apartment
	Region    Region
	Detail    *ApartmentDetail
}

// Record is one transaction row from the government feed, already parsed by
// the caller. Optional fields are empty strings when absent.
type Record struct {
	AptNameRaw       string `json:"apt_name_raw"`
	TownName         string `json:"town_name,omitempty"`
	TownCode         string `json:"town_code,omitempty"` // 5-digit umdCd
	SggCode          string `json:"sgg_code"`            // 5-digit city/county code
	LotNumberText    string `json:"lot_number_text,omitempty"` // e.g. "1101-1", "산37-6"
	LotMain          string `json:"lot_main,omitempty"`
	LotSub           string `json:"lot_sub,omitempty"`
	ConstructionYear string `json:"construction_year,omitempty"`
}

// Matching methods reported for audit logging.
const (
	MethodAddressLot        = "address_lot"
	MethodFullRegionCode    = "full_region_code"
	MethodNameMatching      = "name_matching"
	MethodNameMatchingRetry = "name_matching_full_retry"
)

// Terminal outcomes for an unmatched record. A failing record is data, not an
// error: none of these abort a batch.
const (
	OutcomeNoCandidates   = "no_candidates"
	OutcomeVetoed         = "vetoed"
	OutcomeBelowThreshold = "below_threshold"
	OutcomeAmbiguous      = "ambiguous"
)

// Diagnostics is the audit trail for one matching call, written to the
// failure log when the record stays unmatched.
type Diagnostics struct {
	RawName        string   `json:"raw_name"`
	NormalizedName string   `json:"normalized_name"`
	SggCode        string   `json:"sgg_code,omitempty"`
	TownCode       string   `json:"town_code,omitempty"`
	TownName       string   `json:"town_name,omitempty"`
	PoolSizes      []int    `json:"pool_sizes"` // candidate counts per narrowing stage
	Steps          []string `json:"steps"`
	FailedVeto     string   `json:"failed_veto,omitempty"` // veto hit by the best candidate
	BestScore      float64  `json:"best_score"`
	BestCandidate  string   `json:"best_candidate,omitempty"`
}

// Result is the outcome of matching one record: either a single apartment
// identifier with method and score, or a terminal outcome with diagnostics.
type Result struct {
	Matched     bool
	AptID       int64
	Method      string
	Score       float64
	Outcome     string // set when Matched is false
	Diagnostics Diagnostics
}

// Params holds the tunable constants of the matcher. Values mirror the
// behavior observed on production feed data; change with care.
type Params struct {
	NameSimilarityFloor  float64 // hard floor on normalized-name similarity
	HighSimNumberVeto    float64 // one-sided complex-number veto kicks in above this
	YearTolerance        int     // construction-year gap allowed, in years
	LotMainLenientDigits int     // min digits of lot main for sub-less acceptance
	MaxBarePhase         int     // bare trailing numbers above this are not phases

	RetryThresholdLow   float64 // broadened-retry acceptance floor
	RetryThresholdHigh  float64
	NarrowThresholdLow  float64 // narrowed-search acceptance floor
	NarrowThresholdHigh float64
}

// DefaultParams returns the production parameter set.
func DefaultParams() *Params {
	return &Params{
		NameSimilarityFloor:  0.20,
		HighSimNumberVeto:    0.85,
		YearTolerance:        3,
		LotMainLenientDigits: 4,
		MaxBarePhase:         20,

		RetryThresholdLow:   0.75,
		RetryThresholdHigh:  0.85,
		NarrowThresholdLow:  0.40,
		NarrowThresholdHigh: 0.50,
	}
}
