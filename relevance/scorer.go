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

// EvalRelevance scores how well a gene set ranking concentrates
// disease-relevant gene sets near the top. Each gene set covered by the
// relevance ranking contributes weight(rank) * relevanceScore; gene sets
// the relevance ranking does not cover contribute zero (they are skipped,
// not penalized - the score is bounded by the overlap of the two
// structures, not by the ranking size). The result is therefore always
// >= 0 and for a fixed candidate universe never exceeds CompOpt.
func EvalRelevance(ranking GeneSetRanking, rel Ranking) (float64, error) {
	n := ranking.Size()
	if n == 0 {
		return 0, ErrEmptyRanking
	}
	var total float64
	for i, entry := range ranking.Entries {
		score, ok := rel.Score(entry.ID)
		if !ok {
			continue
		}
		total += Weight(i+1, n) * score
	}
	return total, nil
}

// CompOpt computes the theoretical optimum of EvalRelevance for a given
// relevance ranking and candidate universe: the score of a ranking which
// places all covered candidates first, ordered by descending relevance,
// followed by the uncovered candidates. The uncovered ones still occupy
// rank positions (so they influence the weights) but add nothing to the
// score. The returned value serves as the normalization denominator when
// comparing methods across datasets.
func CompOpt(rel Ranking, candidateIDs []string) (float64, error) {
	if len(candidateIDs) == 0 {
		return 0, ErrEmptyRanking
	}
	candidates := make(map[string]bool, len(candidateIDs))
	for _, id := range candidateIDs {
		candidates[id] = true
	}
	best := make([]string, 0, len(candidateIDs))
	for _, id := range rel.OrderedIDs() {
		if candidates[id] {
			best = append(best, id)
		}
	}
	covered := make(map[string]bool, len(best))
	for _, id := range best {
		covered[id] = true
	}
	// uncovered candidates keep their input order (stable tie-break)
	for _, id := range candidateIDs {
		if !covered[id] {
			best = append(best, id)
		}
	}
	return EvalRelevance(RankingFromIDs(best), rel)
}
