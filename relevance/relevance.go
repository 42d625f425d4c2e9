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
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Ranking holds curated per-phenotype evidence - a mapping from gene set
// identifier to a non-negative relevance score. One instance exists per
// disease code and different diseases generally cover differently sized
// identifier sets.
type Ranking struct {
	DiseaseCode string
	scores      map[string]float64
}

// NewRanking creates a relevance ranking for a disease code.
// Negative scores are rejected as they would break the guarantee
// that any aggregated relevance score is non-negative.
func NewRanking(diseaseCode string, scores map[string]float64) (Ranking, error) {
	for id, v := range scores {
		if v < 0 {
			return Ranking{}, fmt.Errorf(
				"failed to create relevance ranking for %s (gene set %s): %w",
				diseaseCode, id, ErrNegativeRelevance,
			)
		}
	}
	cp := make(map[string]float64, len(scores))
	for id, v := range scores {
		cp[id] = v
	}
	return Ranking{DiseaseCode: diseaseCode, scores: cp}, nil
}

func (rr Ranking) Size() int {
	return len(rr.scores)
}

// Score returns the relevance score of a gene set along with
// information whether the gene set is covered at all.
func (rr Ranking) Score(geneSetID string) (float64, bool) {
	v, ok := rr.scores[geneSetID]
	return v, ok
}

// Scores returns a copy of the underlying mapping.
func (rr Ranking) Scores() map[string]float64 {
	ans := make(map[string]float64, len(rr.scores))
	for id, v := range rr.scores {
		ans[id] = v
	}
	return ans
}

// OrderedIDs returns covered gene set identifiers ordered by descending
// relevance score. Identifier string order breaks ties, which keeps the
// ordering deterministic across runs.
func (rr Ranking) OrderedIDs() []string {
	ans := make([]string, 0, len(rr.scores))
	for id := range rr.scores {
		ans = append(ans, id)
	}
	slices.SortFunc(ans, func(id1, id2 string) int {
		s1, s2 := rr.scores[id1], rr.scores[id2]
		if s1 > s2 {
			return -1

		} else if s1 < s2 {
			return 1
		}
		return strings.Compare(id1, id2)
	})
	return ans
}

// ----------------------------

// DiseaseMap maps dataset identifiers to disease codes. It is loaded
// from a simple two-column text file by the dataimport package.
type DiseaseMap map[string]string

// ----------------------------

// Catalog gives access to relevance rankings by disease code or,
// through a DiseaseMap, by dataset identifier.
type Catalog struct {
	rankings map[string]Ranking
}

func NewCatalog() *Catalog {
	return &Catalog{rankings: make(map[string]Ranking)}
}

func (c *Catalog) Add(rr Ranking) {
	c.rankings[rr.DiseaseCode] = rr
}

func (c *Catalog) Size() int {
	return len(c.rankings)
}

func (c *Catalog) DiseaseCodes() []string {
	ans := make([]string, 0, len(c.rankings))
	for code := range c.rankings {
		ans = append(ans, code)
	}
	slices.Sort(ans)
	return ans
}

// ByDisease returns the relevance ranking for a disease code. For an
// unknown code the error message carries the closest known code (by
// edit distance) to make typos in configs easy to spot.
func (c *Catalog) ByDisease(diseaseCode string) (Ranking, error) {
	rr, ok := c.rankings[diseaseCode]
	if !ok {
		if sugg := c.closestCode(diseaseCode); sugg != "" {
			return Ranking{}, fmt.Errorf(
				"%w: %s (did you mean %s?)", ErrUnknownDiseaseCode, diseaseCode, sugg)
		}
		return Ranking{}, fmt.Errorf("%w: %s", ErrUnknownDiseaseCode, diseaseCode)
	}
	return rr, nil
}

// ByDataset resolves a dataset identifier through the disease map
// to its relevance ranking.
func (c *Catalog) ByDataset(datasetID string, dm DiseaseMap) (Ranking, error) {
	code, ok := dm[datasetID]
	if !ok {
		return Ranking{}, fmt.Errorf("%w: %s", ErrUnknownDataset, datasetID)
	}
	return c.ByDisease(code)
}

func (c *Catalog) closestCode(code string) string {
	best := ""
	bestDist := -1
	for _, known := range c.DiseaseCodes() {
		d := levenshtein.ComputeDistance(code, known)
		if bestDist == -1 || d < bestDist {
			best = known
			bestDist = d
		}
	}
	return best
}
