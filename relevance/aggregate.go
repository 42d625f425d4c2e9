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

package relevance

import (
	"math"
	"slices"

	"github.com/rs/zerolog/log"
)

// MethodRankings maps method name -> dataset identifier -> the ranking
// the method produced for that dataset.
type MethodRankings map[string]map[string]GeneSetRanking

// Exclusion records a (method, dataset) pair which could not be scored,
// along with the reason. Exclusions are part of the aggregated result so
// that missing data never vanishes silently.
type Exclusion struct {
	Method  string `json:"method"`
	Dataset string `json:"dataset"`
	Reason  string `json:"reason"`
}

// AggregatedResult is the cross-dataset comparison table: one column per
// method, one row per dataset, values being observed/optimal relevance
// ratios. Cells which could not be computed hold NaN and have a matching
// Exclusion entry.
type AggregatedResult struct {
	Datasets   []string             `json:"datasets"`
	Methods    map[string][]float64 `json:"methods"`
	Exclusions []Exclusion          `json:"exclusions"`
}

// Value returns the normalized relevance of a (method, dataset) pair.
func (ar AggregatedResult) Value(method, dataset string) (float64, bool) {
	col, ok := ar.Methods[method]
	if !ok {
		return 0, false
	}
	idx := slices.Index(ar.Datasets, dataset)
	if idx == -1 || math.IsNaN(col[idx]) {
		return 0, false
	}
	return col[idx], true
}

func (ar AggregatedResult) MethodNames() []string {
	ans := make([]string, 0, len(ar.Methods))
	for m := range ar.Methods {
		ans = append(ans, m)
	}
	slices.Sort(ans)
	return ans
}

// EvalAll applies relevance scoring to every (method, dataset) pair and
// normalizes each score by the dataset's theoretical optimum computed
// under the same candidate universe (the gene sets the method actually
// tested). A dataset whose disease code resolves to no relevance ranking
// is excluded for all methods; a failure on a single pair is recorded
// and does not block the remaining pairs.
func EvalAll(rankings MethodRankings, cat *Catalog, dm DiseaseMap) AggregatedResult {
	ans := AggregatedResult{
		Methods:    make(map[string][]float64),
		Exclusions: []Exclusion{},
	}

	// the dataset universe is the union of what the methods produced and
	// what the disease map declares, so a dataset nobody ranked still
	// shows up as a traced NaN column entry
	datasets := make(map[string]bool)
	for _, byDataset := range rankings {
		for ds := range byDataset {
			datasets[ds] = true
		}
	}
	for ds := range dm {
		datasets[ds] = true
	}
	allDatasets := make([]string, 0, len(datasets))
	for ds := range datasets {
		allDatasets = append(allDatasets, ds)
	}
	slices.Sort(allDatasets)

	for _, ds := range allDatasets {
		if _, err := cat.ByDataset(ds, dm); err != nil {
			log.Warn().
				Err(err).
				Str("dataset", ds).
				Msg("dataset excluded from relevance aggregation")
			for method := range rankings {
				ans.Exclusions = append(
					ans.Exclusions,
					Exclusion{Method: method, Dataset: ds, Reason: err.Error()},
				)
			}
			continue
		}
		ans.Datasets = append(ans.Datasets, ds)
	}

	for method, byDataset := range rankings {
		col := make([]float64, len(ans.Datasets))
		for i, ds := range ans.Datasets {
			col[i] = math.NaN()
			ranking, ok := byDataset[ds]
			if !ok {
				ans.Exclusions = append(
					ans.Exclusions,
					Exclusion{Method: method, Dataset: ds, Reason: "no ranking produced"},
				)
				continue
			}
			rel, err := cat.ByDataset(ds, dm)
			if err != nil {
				ans.Exclusions = append(
					ans.Exclusions,
					Exclusion{Method: method, Dataset: ds, Reason: err.Error()},
				)
				continue
			}
			ratio, err := normalizedRelevance(ranking, rel)
			if err != nil {
				log.Error().
					Err(err).
					Str("method", method).
					Str("dataset", ds).
					Msg("failed to score ranking")
				ans.Exclusions = append(
					ans.Exclusions,
					Exclusion{Method: method, Dataset: ds, Reason: err.Error()},
				)
				continue
			}
			col[i] = ratio
		}
		ans.Methods[method] = col
	}
	return ans
}

// normalizedRelevance computes observed/optimal for a single pair using
// the ranking's own identifiers as the candidate universe.
func normalizedRelevance(ranking GeneSetRanking, rel Ranking) (float64, error) {
	observed, err := EvalRelevance(ranking, rel)
	if err != nil {
		return 0, err
	}
	optimal, err := CompOpt(rel, ranking.IDs())
	if err != nil {
		return 0, err
	}
	if optimal == 0 {
		// no overlap between tested gene sets and curated evidence
		log.Warn().
			Str("disease", rel.DiseaseCode).
			Int("rankingSize", ranking.Size()).
			Msg("zero optimal relevance - tested gene sets miss the curated evidence entirely")
		return 0, nil
	}
	return observed / optimal, nil
}

// CheckCandidateUniverse warns when the candidate set supplied for
// normalization does not match the identifiers of the scored ranking.
// The two may legitimately differ (a method can drop unscorable gene
// sets), so this is a diagnostic, not a failure.
func CheckCandidateUniverse(ranking GeneSetRanking, candidateIDs []string) bool {
	inRanking := make(map[string]bool, ranking.Size())
	for _, e := range ranking.Entries {
		inRanking[e.ID] = true
	}
	if len(inRanking) != len(candidateIDs) {
		logCandidateMismatch(ranking.Size(), len(candidateIDs))
		return false
	}
	for _, id := range candidateIDs {
		if !inRanking[id] {
			logCandidateMismatch(ranking.Size(), len(candidateIDs))
			return false
		}
	}
	return true
}

func logCandidateMismatch(rankingSize, candidateSize int) {
	log.Warn().
		Int("rankingSize", rankingSize).
		Int("candidateSize", candidateSize).
		Msg("candidate universe does not match scored ranking - normalized values may be biased")
}
