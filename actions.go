package main

import (
	"context"
	"fmt"
	"os"

	"github.com/czcorpus/gsbench/benchmark"
	"github.com/czcorpus/gsbench/cache"
	"github.com/czcorpus/gsbench/cnf"
	"github.com/czcorpus/gsbench/dataimport"
	"github.com/czcorpus/gsbench/relevance"
	"github.com/czcorpus/gsbench/report"
	"github.com/czcorpus/gsbench/stats"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
)

const (
	errColor = color.FgHiRed
)

func loadEvidence(conf *cnf.Conf) (*relevance.Catalog, relevance.DiseaseMap, error) {
	catalog, err := dataimport.ReadRelevanceCatalog(conf.RelevanceDataDir)
	if err != nil {
		return nil, nil, err
	}
	dm, err := dataimport.ReadDiseaseMap(conf.DiseaseMapPath)
	if err != nil {
		return nil, nil, err
	}
	return catalog, dm, nil
}

func runBenchmark(ctx context.Context, conf *cnf.Conf, ignoreCache bool, outPath string) {
	statsDB, err := stats.NewDatabase(conf.WorkingDBPath)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	err = statsDB.Init()
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cacheDB, err := cache.OpenDB(conf.CacheDataPath)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer cacheDB.Close()

	catalog, dm, err := loadEvidence(conf)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	exe := benchmark.NewExecutor(
		conf,
		statsDB,
		cacheDB,
		catalog,
		dm,
	)
	res, err := exe.RunFull(ctx, ignoreCache)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	report.PrintSummary(res, os.Stdout)
	if outPath != "" {
		if err := report.WriteCSVFile(res, outPath); err != nil {
			color.New(errColor).Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		log.Info().Str("path", outPath).Msg("stored aggregated relevance table")
	}
}

func runImportRelevance(conf *cnf.Conf, diseaseCode, srcPath string) {
	if diseaseCode == "" {
		color.New(errColor).Fprintln(os.Stderr, "no disease code provided")
		os.Exit(1)
	}
	rr, err := dataimport.InstallRelevanceRanking(srcPath, conf.RelevanceDataDir, diseaseCode)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("imported relevance table for %s (%d gene sets)\n", diseaseCode, rr.Size())
}

func runImportDsMap(conf *cnf.Conf, srcPath string) {
	dm, err := dataimport.InstallDiseaseMap(srcPath, conf.DiseaseMapPath)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("imported disease map (%d datasets)\n", len(dm))
}

func runScore(conf *cnf.Conf, diseaseCode, statKind, rankingPath string) {
	if diseaseCode == "" {
		color.New(errColor).Fprintln(os.Stderr, "no disease code provided")
		os.Exit(1)
	}
	kind := relevance.StatPValue
	if statKind == "score" {
		kind = relevance.StatScore
	}
	catalog, err := dataimport.ReadRelevanceCatalog(conf.RelevanceDataDir)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rel, err := catalog.ByDisease(diseaseCode)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ranking, err := dataimport.ReadRankingFile(rankingPath, kind)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	observed, err := relevance.EvalRelevance(ranking, rel)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	candidates := ranking.IDs()
	optimal, err := relevance.CompOpt(rel, candidates)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	null, err := relevance.CompRand(
		rel, candidates, conf.Permutations, benchmark.NewSeededRNG(conf.RandomSeed))
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("----------------------------------------------------")
	fmt.Println("disease code: ", diseaseCode)
	fmt.Println("ranking size: ", ranking.Size())
	fmt.Printf("observed relevance: %01.2f\n", observed)
	fmt.Printf("optimal relevance: %01.2f\n", optimal)
	if optimal > 0 {
		fmt.Printf("normalized: %01.2f%%\n", 100*observed/optimal)
	}
	fmt.Printf("random mean: %01.2f\n", null.Mean())
	fmt.Printf("empirical p-value (%d permutations): %01.4f\n",
		conf.Permutations, null.PValue(observed))
	fmt.Println("----------------------------------------------------")
}
