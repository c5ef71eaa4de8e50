package match

import (
	"fmt"

	"github.com/techeer-11-team-k/aptmatch/internal/debug"
)

// Engine resolves transaction records against a prefetched candidate pool:
// exact address+lot first, then administrative narrowing, then veto-and-score
// name matching with one broadened retry.
type Engine struct {
	params *Params
	scorer *Scorer
}

// EngineConfig holds configuration for the matching engine.
type EngineConfig struct {
	Params *Params
}

// NewEngine creates a matching engine.
func NewEngine(config EngineConfig) *Engine {
	params := config.Params
	if params == nil {
		params = DefaultParams()
	}
	return &Engine{
		params: params,
		scorer: NewScorer(params),
	}
}

// Params exposes the engine's parameter set, read-only by convention.
func (e *Engine) Params() *Params {
	return e.params
}

// MatchRecord resolves one record against the region's full candidate pool.
// The cache must be owned by the calling batch task; the pool is read-only.
// A failing record is returned as an unmatched Result, never as an error.
func (e *Engine) MatchRecord(localDebug bool, rec Record, pool []Candidate, cache *FeatureCache) Result {
	debug.Header(localDebug)
	defer debug.Footer(localDebug)

	recFeat := cache.Get(rec.AptNameRaw)
	diag := Diagnostics{
		RawName:        rec.AptNameRaw,
		NormalizedName: recFeat.Normalized,
		SggCode:        rec.SggCode,
		TownCode:       rec.TownCode,
		TownName:       rec.TownName,
	}
	diag.PoolSizes = append(diag.PoolSizes, len(pool))

	debug.Output(localDebug, "matching %q (normalized %q) against %d candidates",
		rec.AptNameRaw, recFeat.Normalized, len(pool))

	// Step 1: administrative code + lot number. Conclusive when it hits.
	if hit := MatchExactLot(rec, pool, e.params); hit != nil {
		debug.Output(localDebug, "exact lot match: apt %d %q", hit.Apartment.AptID, hit.Apartment.AptName)
		diag.Steps = append(diag.Steps, "address_lot: hit")
		return Result{Matched: true, AptID: hit.Apartment.AptID, Method: MethodAddressLot, Score: 1.0, Diagnostics: diag}
	}
	diag.Steps = append(diag.Steps, "address_lot: miss")

	// Step 2: administrative narrowing.
	narrowed := Narrow(pool, rec.SggCode, rec.TownCode, rec.TownName)
	diag.PoolSizes = append(diag.PoolSizes, len(narrowed.Candidates))
	diag.Steps = append(diag.Steps, fmt.Sprintf("narrow: %s -> %d candidates", narrowed.MatchedBy, len(narrowed.Candidates)))
	debug.Output(localDebug, "narrowed by %s to %d candidates", narrowed.MatchedBy, len(narrowed.Candidates))

	if len(narrowed.Candidates) == 0 {
		if narrowed.CodeFiltered {
			// A code filter was attempted and produced nothing; widening back
			// to the raw pool here would invite wrong-region name matches.
			diag.Steps = append(diag.Steps, "narrow: no candidates after code filter")
		} else {
			diag.Steps = append(diag.Steps, "narrow: empty pool")
		}
		return Result{Outcome: OutcomeNoCandidates, Diagnostics: diag}
	}

	// Step 3: veto-and-score over the narrowed pool.
	eval := e.scorer.Evaluate(rec, narrowed.Candidates, cache, false)
	if eval.Matched {
		method := MethodNameMatching
		if narrowed.MatchedBy == NarrowedByFullCode {
			method = MethodFullRegionCode
		}
		debug.Output(localDebug, "matched apt %d via %s (score %.3f)", eval.Candidate.Apartment.AptID, method, eval.Score)
		return Result{Matched: true, AptID: eval.Candidate.Apartment.AptID, Method: method, Score: eval.Score, Diagnostics: diag}
	}
	recordEval(&diag, "narrowed", eval)

	// Step 4: one broadened retry against the full pool, with mandatory
	// region re-validation inside the scorer. Only worthwhile when narrowing
	// actually shrank the pool.
	if len(narrowed.Candidates) < len(pool) {
		retry := e.scorer.Evaluate(rec, pool, cache, true)
		diag.PoolSizes = append(diag.PoolSizes, len(pool))
		if retry.Matched {
			debug.Output(localDebug, "matched apt %d on full-pool retry (score %.3f)", retry.Candidate.Apartment.AptID, retry.Score)
			diag.Steps = append(diag.Steps, "retry: hit")
			return Result{Matched: true, AptID: retry.Candidate.Apartment.AptID, Method: MethodNameMatchingRetry, Score: retry.Score, Diagnostics: diag}
		}
		recordEval(&diag, "retry", retry)
	}

	outcome := eval.Outcome
	if outcome == "" {
		outcome = OutcomeBelowThreshold
	}
	debug.Output(localDebug, "unmatched: %s (best %.3f %q)", outcome, diag.BestScore, diag.BestCandidate)
	return Result{Outcome: outcome, Diagnostics: diag}
}

func recordEval(diag *Diagnostics, stage string, eval Evaluation) {
	diag.Steps = append(diag.Steps, fmt.Sprintf("%s: %s", stage, eval.Outcome))
	if eval.FailedVeto != "" && diag.FailedVeto == "" {
		diag.FailedVeto = eval.FailedVeto
	}
	if eval.BestScore > diag.BestScore {
		diag.BestScore = eval.BestScore
		diag.BestCandidate = eval.BestName
	}
}
