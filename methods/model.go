// Package methods adapts external enrichment analysis routines to
// a single interface. The statistics themselves (ORA, permutation
// tests, network-based scoring...) always run outside this program -
// behind a REST service, an external command or a precomputed table -
// and only their ranked outputs enter the benchmark.
package methods

import (
	"context"
	"errors"

	"github.com/czcorpus/gsbench/cnf"
	"github.com/czcorpus/gsbench/relevance"
)

var ErrNoSuchMethod = errors.New("no such method")

// Method is a single benchmarkable enrichment method. Run must be safe
// for concurrent use with distinct datasets.
type Method interface {
	Name() string

	// Run produces a gene set ranking for a dataset. The ranking is
	// expected to be ordered best-first; adapters re-sort where the
	// external source does not guarantee the order.
	Run(ctx context.Context, dataset cnf.DatasetConf) (relevance.GeneSetRanking, error)
}

// GetMethod instantiates a method adapter based on its configuration.
func GetMethod(conf cnf.MethodConf) (Method, error) {
	kind := statKindOf(conf)
	switch conf.Type {
	case "restapi":
		return NewRESTMethod(conf.Name, conf.URL, kind), nil
	case "extcmd":
		return NewExtCmdMethod(conf.Name, conf.Command, conf.Args, kind), nil
	case "precomputed":
		return NewPrecomputedMethod(conf.Name, conf.Dir, kind), nil
	}
	return nil, ErrNoSuchMethod
}

func statKindOf(conf cnf.MethodConf) relevance.StatKind {
	if conf.StatKind == "score" {
		return relevance.StatScore
	}
	return relevance.StatPValue
}
