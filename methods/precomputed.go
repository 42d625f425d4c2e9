package methods

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/czcorpus/gsbench/cnf"
	"github.com/czcorpus/gsbench/dataimport"
	"github.com/czcorpus/gsbench/relevance"
)

// PrecomputedMethod reads rankings saved by an earlier analysis run,
// one table per dataset ("<dir>/<datasetID>.tsv"). Useful for scoring
// outputs of tools which cannot be invoked from here at all.
type PrecomputedMethod struct {
	name string
	dir  string
	kind relevance.StatKind
}

func (m *PrecomputedMethod) Name() string {
	return m.name
}

func (m *PrecomputedMethod) Run(ctx context.Context, dataset cnf.DatasetConf) (relevance.GeneSetRanking, error) {
	path := filepath.Join(m.dir, dataset.ID+".tsv")
	ranking, err := dataimport.ReadRankingFile(path, m.kind)
	if err != nil {
		return relevance.GeneSetRanking{}, fmt.Errorf("failed to run method %s: %w", m.name, err)
	}
	return ranking.Sorted(), nil
}

func NewPrecomputedMethod(name, dir string, kind relevance.StatKind) *PrecomputedMethod {
	return &PrecomputedMethod{name: name, dir: dir, kind: kind}
}
