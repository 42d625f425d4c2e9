package dataimport

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/czcorpus/gsbench/relevance"
)

// ReadRanking parses a gene set ranking table (gene set identifier,
// statistic) in rank order. The caller declares the statistic semantics;
// the entries are kept in file order, i.e. the file is expected to be
// already sorted by its producer.
func ReadRanking(src io.Reader, kind relevance.StatKind) (relevance.GeneSetRanking, error) {
	entries := make([]relevance.RankedSet, 0, 100)
	scnr := bufio.NewScanner(src)
	var lineNum int
	for scnr.Scan() {
		lineNum++
		if skipLine(scnr.Text()) {
			continue
		}
		tmp := splitColumns(scnr.Text())
		if len(tmp) < 2 {
			return relevance.GeneSetRanking{}, fmt.Errorf(
				"failed to read ranking: invalid line %d", lineNum)
		}
		stat, err := strconv.ParseFloat(strings.TrimSpace(tmp[1]), 64)
		if err != nil {
			return relevance.GeneSetRanking{}, fmt.Errorf(
				"failed to read ranking (line %d): %w", lineNum, err)
		}
		entries = append(entries, relevance.RankedSet{
			ID:   strings.TrimSpace(tmp[0]),
			Stat: stat,
		})
	}
	if err := scnr.Err(); err != nil {
		return relevance.GeneSetRanking{}, fmt.Errorf("failed to read ranking: %w", err)
	}
	if len(entries) == 0 {
		return relevance.GeneSetRanking{}, relevance.ErrEmptyRanking
	}
	return relevance.GeneSetRanking{Entries: entries, Kind: kind}, nil
}

// ReadRankingFile is a convenience wrapper around ReadRanking.
func ReadRankingFile(path string, kind relevance.StatKind) (relevance.GeneSetRanking, error) {
	fr, err := os.Open(path)
	if err != nil {
		return relevance.GeneSetRanking{}, fmt.Errorf("failed to read ranking: %w", err)
	}
	defer fr.Close()
	return ReadRanking(fr, kind)
}
