// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
// Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/czcorpus/gsbench/cnf"
)

const (
	actionServer          = "server"
	actionBenchmark       = "benchmark"
	actionScore           = "score"
	actionImportRelevance = "import-relevance"
	actionImportDsMap     = "import-dsmap"
	actionVersion         = "version"
	actionHelp            = "help"
)

var (
	version   string
	buildDate string
	gitCommit string
)

// VersionInfo provides a detailed information about the actual build
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
}

func topLevelUsage() {
	fmt.Fprintf(os.Stderr, "GSBENCH - a gene set enrichment method benchmarking tool\n")
	fmt.Fprintf(os.Stderr, "-----------------------------\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "\t%s\t\tshow version info\n", actionVersion)
	fmt.Fprintf(os.Stderr, "\t%s\trun configured methods over configured datasets\n", actionBenchmark)
	fmt.Fprintf(os.Stderr, "\t%s\t\tscore a single saved ranking against curated evidence\n", actionScore)
	fmt.Fprintf(os.Stderr, "\t%s\tvalidate and install a curated relevance table\n", actionImportRelevance)
	fmt.Fprintf(os.Stderr, "\t%s\tvalidate and install a dataset-to-disease mapping\n", actionImportDsMap)
	fmt.Fprintf(os.Stderr, "\t%s\t\trun the results HTTP API\n", actionServer)
	fmt.Fprintf(os.Stderr, "\nUse `gsbench help ACTION` for information about a specific action\n\n")
}

func setup(confPath string) *cnf.Conf {
	conf := cnf.LoadConfig(confPath)
	if conf.Logging.Level == "" {
		conf.Logging.Level = "info"
	}
	logging.SetupLogging(conf.Logging)
	cnf.ValidateAndDefaults(conf)
	return conf
}

func cleanVersionInfo(v string) string {
	return strings.TrimLeft(strings.Trim(v, "'"), "v")
}

func runActionVersion(ver VersionInfo) {
	fmt.Fprintln(os.Stderr, "gsbench version: ", ver)
}

func main() {
	version := VersionInfo{
		Version:   cleanVersionInfo(version),
		BuildDate: cleanVersionInfo(buildDate),
		GitCommit: cleanVersionInfo(gitCommit),
	}

	cmdVersion := flag.NewFlagSet(actionVersion, flag.ExitOnError)
	cmdVersion.Usage = func() {
		cmdVersion.PrintDefaults()
	}

	cmdHelp := flag.NewFlagSet(actionHelp, flag.ExitOnError)
	cmdHelp.Usage = func() {
		cmdHelp.PrintDefaults()
	}

	cmdServer := flag.NewFlagSet(actionServer, flag.ExitOnError)
	cmdServer.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\t%s %s [options] config.json\n",
			filepath.Base(os.Args[0]), actionServer)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		cmdServer.PrintDefaults()
	}

	cmdBenchmark := flag.NewFlagSet(actionBenchmark, flag.ExitOnError)
	benchIgnoreCache := cmdBenchmark.Bool(
		"ignore-cache", false,
		"if set, cached method outputs are ignored and all methods run again")
	benchOutPath := cmdBenchmark.String(
		"out", "",
		"if set, the aggregated relevance table is written to this CSV file")
	cmdBenchmark.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\t%s %s [options] config.json\n",
			filepath.Base(os.Args[0]), actionBenchmark)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		cmdBenchmark.PrintDefaults()
	}

	cmdScore := flag.NewFlagSet(actionScore, flag.ExitOnError)
	scoreDisease := cmdScore.String(
		"disease", "", "disease code selecting the relevance ranking")
	scoreStatKind := cmdScore.String(
		"stat-kind", "pvalue", "statistic semantics of the ranking file (pvalue or score)")
	cmdScore.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\t%s %s [options] config.json ranking.tsv\n",
			filepath.Base(os.Args[0]), actionScore)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		cmdScore.PrintDefaults()
	}

	cmdImportRelevance := flag.NewFlagSet(actionImportRelevance, flag.ExitOnError)
	importDisease := cmdImportRelevance.String(
		"disease", "", "disease code the imported table belongs to")
	cmdImportRelevance.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\t%s %s -disease CODE config.json table.tsv\n",
			filepath.Base(os.Args[0]), actionImportRelevance)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		cmdImportRelevance.PrintDefaults()
	}

	cmdImportDsMap := flag.NewFlagSet(actionImportDsMap, flag.ExitOnError)
	cmdImportDsMap.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\t%s %s config.json dsmap.tsv\n",
			filepath.Base(os.Args[0]), actionImportDsMap)
	}

	action := actionHelp
	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	switch action {
	case actionHelp:
		var subj string
		if len(os.Args) > 2 {
			cmdHelp.Parse(os.Args[2:])
			subj = cmdHelp.Arg(0)
		}
		if subj == "" {
			topLevelUsage()
			return
		}
		switch subj {
		case actionBenchmark:
			cmdBenchmark.PrintDefaults()
		case actionScore:
			cmdScore.PrintDefaults()
		case actionImportRelevance:
			cmdImportRelevance.PrintDefaults()
		case actionImportDsMap:
			cmdImportDsMap.PrintDefaults()
		case actionServer:
			cmdServer.PrintDefaults()
		}
	case actionVersion:
		cmdVersion.Parse(os.Args[2:])
		runActionVersion(version)
	case actionBenchmark:
		cmdBenchmark.Parse(os.Args[2:])
		conf := setup(cmdBenchmark.Arg(0))
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		runBenchmark(ctx, conf, *benchIgnoreCache, *benchOutPath)
	case actionScore:
		cmdScore.Parse(os.Args[2:])
		conf := setup(cmdScore.Arg(0))
		runScore(conf, *scoreDisease, *scoreStatKind, cmdScore.Arg(1))
	case actionImportRelevance:
		cmdImportRelevance.Parse(os.Args[2:])
		conf := setup(cmdImportRelevance.Arg(0))
		runImportRelevance(conf, *importDisease, cmdImportRelevance.Arg(1))
	case actionImportDsMap:
		cmdImportDsMap.Parse(os.Args[2:])
		conf := setup(cmdImportDsMap.Arg(0))
		runImportDsMap(conf, cmdImportDsMap.Arg(1))
	case actionServer:
		cmdServer.Parse(os.Args[2:])
		conf := setup(cmdServer.Arg(0))
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		runApiServer(ctx, conf)
	default:
		fmt.Fprintf(os.Stderr, "Unknown action, please use 'help' to get more information")
	}

}
