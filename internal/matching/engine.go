// internal/matching/engine.go
package matching

import (
	"runtime"
	"sort"
	"time"

	"carematch/internal/common/logger"
	"carematch/internal/common/validation"
	"carematch/internal/models"

	"golang.org/x/sync/errgroup"
)

// DefaultTopN is the shortlist length used when none is configured.
const DefaultTopN = 3

// Stage names one step of a ranking run.
type Stage string

const (
	StageCollecting Stage = "collecting"
	StageFiltering  Stage = "filtering"
	StageScoring    Stage = "scoring"
	StageSorting    Stage = "sorting"
	StageTruncated  Stage = "truncated"
)

// StageObserver is notified once per stage with the time it took.
type StageObserver interface {
	ObserveStage(stage Stage, elapsed time.Duration)
}

type Options struct {
	Weights     Weights
	TopN        int
	Parallelism int
	Observer    StageObserver
}

// Engine ranks a provider pool for one applicant. It holds no per-request
// state and is safe for concurrent use.
type Engine struct {
	aggregator  *Aggregator
	topN        int
	parallelism int
	observer    StageObserver
	logger      logger.Logger
}

func NewEngine(opts Options, log logger.Logger) (*Engine, error) {
	weights := opts.Weights
	if weights == nil {
		weights = DefaultWeights()
	}
	agg, err := NewAggregator(weights)
	if err != nil {
		return nil, err
	}

	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Engine{
		aggregator:  agg,
		topN:        topN,
		parallelism: parallelism,
		observer:    opts.Observer,
		logger:      log.WithFields(map[string]interface{}{"component": "matching-engine"}),
	}, nil
}

// TopN is the default shortlist length.
func (e *Engine) TopN() int {
	return e.topN
}

// Match validates the inputs, drops ineligible providers, scores the rest and
// returns at most topN results best-first. A non-positive topN uses the
// engine default. An empty eligible pool yields an empty slice.
func (e *Engine) Match(applicant models.ApplicantProfile, providers []models.ProviderProfile, topN int) ([]models.MatchResult, error) {
	if topN <= 0 {
		topN = e.topN
	}

	start := time.Now()
	if err := validation.ValidateApplicant(applicant); err != nil {
		return nil, err
	}
	for _, p := range providers {
		if err := validation.ValidateProvider(p); err != nil {
			return nil, err
		}
	}
	start = e.mark(StageCollecting, start, map[string]interface{}{"poolSize": len(providers)})

	eligible := FilterEligible(applicant, providers)
	start = e.mark(StageFiltering, start, map[string]interface{}{"eligible": len(eligible)})

	results := e.scoreAll(NormalizeNeed(applicant), eligible)
	start = e.mark(StageScoring, start, nil)

	Rank(results)
	start = e.mark(StageSorting, start, nil)

	if len(results) > topN {
		results = results[:topN]
	}
	e.mark(StageTruncated, start, map[string]interface{}{"returned": len(results), "topN": topN})

	return results, nil
}

// Evaluate scores a single provider against an applicant without filtering.
func (e *Engine) Evaluate(applicant models.ApplicantProfile, provider models.ProviderProfile) models.MatchResult {
	return e.evaluate(NormalizeNeed(applicant), provider)
}

func (e *Engine) evaluate(need models.LevelVector, p models.ProviderProfile) models.MatchResult {
	details := CompareAll(need, NormalizeCapability(p))
	return models.MatchResult{
		Home:             p,
		TotalMatchScore:  e.aggregator.Score(details),
		DimensionDetails: details,
		Summary:          Summarize(details),
	}
}

// scoreAll fans scoring out over a bounded group. Each goroutine owns one slot
// so the output does not depend on scheduling.
func (e *Engine) scoreAll(need models.LevelVector, eligible []models.ProviderProfile) []models.MatchResult {
	results := make([]models.MatchResult, len(eligible))
	if len(eligible) == 0 {
		return results
	}

	var g errgroup.Group
	g.SetLimit(e.parallelism)
	for i := range eligible {
		i := i
		g.Go(func() error {
			results[i] = e.evaluate(need, eligible[i])
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Rank orders results by score descending, then price ascending, then name.
func Rank(results []models.MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.TotalMatchScore != b.TotalMatchScore {
			return a.TotalMatchScore > b.TotalMatchScore
		}
		if a.Home.Price != b.Home.Price {
			return a.Home.Price < b.Home.Price
		}
		return a.Home.Name < b.Home.Name
	})
}

func (e *Engine) mark(stage Stage, start time.Time, fields map[string]interface{}) time.Time {
	now := time.Now()
	elapsed := now.Sub(start)
	if e.observer != nil {
		e.observer.ObserveStage(stage, elapsed)
	}

	logFields := map[string]interface{}{
		"stage":      string(stage),
		"durationUs": elapsed.Microseconds(),
	}
	for k, v := range fields {
		logFields[k] = v
	}
	e.logger.Debug("stage completed", logFields)
	return now
}
