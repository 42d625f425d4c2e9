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

package cnf

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/rs/zerolog/log"
)

const (
	dfltServerWriteTimeoutSecs = 30
	dfltMaxNumConcurrentJobs   = 4
	dfltPermutations           = 1000
	dfltSignificanceThreshold  = 0.05
	dfltTimeZone               = "Europe/Prague"
)

// MethodConf describes one enrichment method entry of the benchmark.
// Type selects the adapter ("restapi", "extcmd", "precomputed"); the
// remaining fields apply depending on the type.
type MethodConf struct {
	Name string `json:"name"`

	Type string `json:"type"`

	// URL is the base address of an enrichment REST service
	// (type "restapi")
	URL string `json:"url"`

	// Command is an external program producing a ranking table
	// on its stdout (type "extcmd")
	Command string `json:"command"`

	// Args are fixed arguments passed to Command before the dataset path
	Args []string `json:"args"`

	// Dir is a directory with saved ranking tables (type "precomputed")
	Dir string `json:"dir"`

	// StatKind declares the semantics of the method's statistic:
	// "pvalue" (default) or "score"
	StatKind string `json:"statKind"`

	Disabled bool `json:"disabled"`
}

type DatasetConf struct {
	ID string `json:"id"`

	// Path is a local path to the (preprocessed) expression data
	// passed to the enrichment methods.
	Path string `json:"path"`
}

type Conf struct {
	srcPath                string
	Logging                logging.LoggingConf `json:"logging"`
	ListenAddress          string              `json:"listenAddress"`
	PublicURL              string              `json:"publicUrl"`
	ListenPort             int                 `json:"listenPort"`
	ServerReadTimeoutSecs  int                 `json:"serverReadTimeoutSecs"`
	ServerWriteTimeoutSecs int                 `json:"serverWriteTimeoutSecs"`
	CorsAllowedOrigins     []string            `json:"corsAllowedOrigins"`
	TimeZone               string              `json:"timeZone"`

	WorkingDBPath    string `json:"workingDbPath"`
	CacheDataPath    string `json:"cacheDataPath"`
	RelevanceDataDir string `json:"relevanceDataDir"`
	DiseaseMapPath   string `json:"diseaseMapPath"`

	Methods  []MethodConf  `json:"methods"`
	Datasets []DatasetConf `json:"datasets"`

	// SignificanceThreshold is the p-value below which a gene set
	// counts as significant for the significance axis of the benchmark.
	SignificanceThreshold float64 `json:"significanceThreshold"`

	// Permutations is the null distribution size for the relevance
	// p-value estimation.
	Permutations int `json:"permutations"`

	// RandomSeed makes permutation runs reproducible. Zero means
	// a time-derived seed.
	RandomSeed uint64 `json:"randomSeed"`

	MaxNumConcurrentJobs int `json:"maxNumConcurrentJobs"`
}

// ActiveMethods returns configured methods with the disabled
// ones filtered out.
func (conf *Conf) ActiveMethods() []MethodConf {
	ans := make([]MethodConf, 0, len(conf.Methods))
	for _, m := range conf.Methods {
		if !m.Disabled {
			ans = append(ans, m)
		}
	}
	return ans
}

func (conf *Conf) GetSourcePath() string {
	return conf.srcPath
}

func LoadConfig(path string) *Conf {
	if path == "" {
		log.Fatal().Msg("Cannot load config - path not specified")
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	var conf Conf
	conf.srcPath = path
	err = json.Unmarshal(rawData, &conf)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	return &conf
}

func ValidateAndDefaults(conf *Conf) {
	if conf.ServerWriteTimeoutSecs == 0 {
		conf.ServerWriteTimeoutSecs = dfltServerWriteTimeoutSecs
		log.Warn().Msgf(
			"serverWriteTimeoutSecs not specified, using default: %d",
			dfltServerWriteTimeoutSecs,
		)
	}
	if conf.PublicURL == "" {
		conf.PublicURL = fmt.Sprintf("http://%s", conf.ListenAddress)
		log.Warn().Str("address", conf.PublicURL).Msg("publicUrl not set, using listenAddress")
	}

	if conf.TimeZone == "" {
		conf.TimeZone = dfltTimeZone
		log.Warn().
			Str("timeZone", dfltTimeZone).
			Msg("time zone not specified, using default")
	}
	if _, err := time.LoadLocation(conf.TimeZone); err != nil {
		log.Fatal().Err(err).Msg("invalid time zone")
	}

	if conf.MaxNumConcurrentJobs == 0 {
		conf.MaxNumConcurrentJobs = dfltMaxNumConcurrentJobs
		log.Warn().Msgf(
			"maxNumConcurrentJobs not specified, using default: %d",
			dfltMaxNumConcurrentJobs,
		)
	}
	if conf.Permutations == 0 {
		conf.Permutations = dfltPermutations
		log.Warn().Msgf(
			"permutations not specified, using default: %d", dfltPermutations)
	}
	if conf.SignificanceThreshold == 0 {
		conf.SignificanceThreshold = dfltSignificanceThreshold
		log.Warn().Msgf(
			"significanceThreshold not specified, using default: %01.2f",
			dfltSignificanceThreshold,
		)
	}
	for _, m := range conf.Methods {
		if m.StatKind != "" && m.StatKind != "pvalue" && m.StatKind != "score" {
			log.Fatal().
				Str("method", m.Name).
				Str("statKind", m.StatKind).
				Msg("invalid statKind (expecting pvalue or score)")
		}
	}
}
