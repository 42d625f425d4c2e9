package benchmark

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"

	"github.com/czcorpus/gsbench/cache"
	"github.com/czcorpus/gsbench/cnf"
	"github.com/czcorpus/gsbench/methods"
	"github.com/czcorpus/gsbench/relevance"
	"github.com/czcorpus/gsbench/stats"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// pairOutcome is an in-memory result of one (method, dataset) pair,
// collected from worker goroutines and written to the results database
// sequentially afterwards.
type pairOutcome struct {
	result    *stats.BenchmarkResult
	exclusion *stats.ExclusionRecord
	ranking   relevance.GeneSetRanking
}

// Executor runs the configured enrichment methods over the configured
// datasets and scores every pair along the three benchmark axes
// (runtime, significance, phenotype relevance).
type Executor struct {
	conf       *cnf.Conf
	statsDB    *stats.Database
	cacheDB    *cache.DB
	catalog    *relevance.Catalog
	diseaseMap relevance.DiseaseMap
}

// RunFull benchmarks all active methods on all configured datasets.
// Dataset jobs of a method run concurrently (bounded by
// maxNumConcurrentJobs); a failing pair is recorded as an exclusion and
// never blocks the remaining pairs. The returned aggregated table is
// also persisted pair by pair into the results database.
func (e *Executor) RunFull(ctx context.Context, ignoreCache bool) (relevance.AggregatedResult, error) {
	allRankings := make(relevance.MethodRankings)
	bar := progressbar.Default(
		int64(len(e.conf.ActiveMethods())*len(e.conf.Datasets)), "benchmarking")

	for _, mconf := range e.conf.ActiveMethods() {
		method, err := methods.GetMethod(mconf)
		if err != nil {
			return relevance.AggregatedResult{}, fmt.Errorf(
				"failed to run benchmark (method %s): %w", mconf.Name, err)
		}
		outcomes := make([]pairOutcome, len(e.conf.Datasets))
		eg, groupCtx := errgroup.WithContext(ctx)
		eg.SetLimit(e.conf.MaxNumConcurrentJobs)
		for i, ds := range e.conf.Datasets {
			eg.Go(func() error {
				outcomes[i] = e.runPair(groupCtx, method, ds, ignoreCache)
				bar.Add(1)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return relevance.AggregatedResult{}, fmt.Errorf("failed to run benchmark: %w", err)
		}

		byDataset := make(map[string]relevance.GeneSetRanking)
		for i, outcome := range outcomes {
			ds := e.conf.Datasets[i]
			if outcome.exclusion != nil {
				if err := e.statsDB.AddExclusion(*outcome.exclusion); err != nil {
					log.Error().Err(err).Send()
				}
				continue
			}
			if outcome.result != nil {
				if err := e.statsDB.AddResult(*outcome.result); err != nil {
					log.Error().Err(err).Send()
				}
				byDataset[ds.ID] = outcome.ranking
			}
		}
		allRankings[method.Name()] = byDataset
	}

	if err := e.cacheDB.StoreTimestamp("lastRun", time.Now()); err != nil {
		log.Error().Err(err).Msg("failed to store last run timestamp")
	}
	return relevance.EvalAll(allRankings, e.catalog, e.diseaseMap), nil
}

func (e *Executor) runPair(
	ctx context.Context,
	method methods.Method,
	ds cnf.DatasetConf,
	ignoreCache bool,
) pairOutcome {
	rel, err := e.catalog.ByDataset(ds.ID, e.diseaseMap)
	if err != nil {
		log.Warn().
			Err(err).
			Str("method", method.Name()).
			Str("dataset", ds.ID).
			Msg("skipping pair - cannot resolve relevance ranking")
		return e.excludedPair(method.Name(), ds.ID, err)
	}

	var ranking relevance.GeneSetRanking
	var runtime float64
	var found bool
	if !ignoreCache {
		ranking, found, err = e.cacheDB.LoadRanking(method.Name(), ds.ID)
		if err != nil {
			log.Error().Err(err).Msg("cache read failed, invoking the method directly")
		}
	}
	if !found {
		t0 := time.Now()
		ranking, err = method.Run(ctx, ds)
		if err != nil {
			log.Error().
				Err(err).
				Str("method", method.Name()).
				Str("dataset", ds.ID).
				Msg("failed to produce ranking, skipping to the next pair")
			return e.excludedPair(method.Name(), ds.ID, err)
		}
		runtime = time.Since(t0).Seconds()
		if err := e.cacheDB.StoreRanking(method.Name(), ds.ID, ranking); err != nil {
			log.Error().Err(err).Msg("failed to cache ranking")
		}
	}

	observed, err := relevance.EvalRelevance(ranking, rel)
	if err != nil {
		return e.excludedPair(method.Name(), ds.ID, err)
	}
	candidates := ranking.IDs()
	optimal, err := relevance.CompOpt(rel, candidates)
	if err != nil {
		return e.excludedPair(method.Name(), ds.ID, err)
	}
	var normalized float64
	if optimal > 0 {
		normalized = observed / optimal
	}

	// each pair gets its own deterministic random source so results
	// do not depend on scheduling of the worker goroutines
	null, err := relevance.CompRand(
		rel, candidates, e.conf.Permutations, e.pairRNG(method.Name(), ds.ID))
	if err != nil {
		return e.excludedPair(method.Name(), ds.ID, err)
	}

	return pairOutcome{
		ranking: ranking,
		result: &stats.BenchmarkResult{
			Method:       method.Name(),
			Dataset:      ds.ID,
			DiseaseCode:  rel.DiseaseCode,
			Datetime:     stats.NowUnix(),
			Runtime:      runtime,
			SigFraction:  sigFraction(ranking, e.conf.SignificanceThreshold),
			Relevance:    observed,
			OptRelevance: optimal,
			Normalized:   normalized,
			PValue:       null.PValue(observed),
			Permutations: e.conf.Permutations,
		},
	}
}

func (e *Executor) excludedPair(method, dataset string, err error) pairOutcome {
	return pairOutcome{
		exclusion: &stats.ExclusionRecord{
			Method:   method,
			Dataset:  dataset,
			Reason:   err.Error(),
			Datetime: stats.NowUnix(),
		},
	}
}

// NewSeededRNG creates a random source from an explicit seed; zero
// means a time-derived (non-reproducible) seed.
func NewSeededRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed+1))
}

func (e *Executor) pairRNG(method, dataset string) *rand.Rand {
	seed := e.conf.RandomSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	h := fnv.New64a()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(dataset))
	return rand.New(rand.NewPCG(seed, h.Sum64()))
}

// sigFraction computes the share of gene sets reported as significant.
// The notion only applies to p-value rankings; for score-based methods
// the value stays 0 and the comparison relies on the other two axes.
func sigFraction(ranking relevance.GeneSetRanking, threshold float64) float64 {
	if ranking.Kind != relevance.StatPValue || ranking.Size() == 0 {
		return 0
	}
	var count int
	for _, entry := range ranking.Entries {
		if entry.Stat < threshold {
			count++
		}
	}
	return float64(count) / float64(ranking.Size())
}

func NewExecutor(
	conf *cnf.Conf,
	statsDB *stats.Database,
	cacheDB *cache.DB,
	catalog *relevance.Catalog,
	diseaseMap relevance.DiseaseMap,
) *Executor {
	return &Executor{
		conf:       conf,
		statsDB:    statsDB,
		cacheDB:    cacheDB,
		catalog:    catalog,
		diseaseMap: diseaseMap,
	}
}
