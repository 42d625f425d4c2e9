package dataimport

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/czcorpus/gsbench/relevance"
	"github.com/rs/zerolog/log"
)

// ReadDiseaseMap loads a two-column file mapping dataset identifiers
// to disease codes.
func ReadDiseaseMap(path string) (relevance.DiseaseMap, error) {
	fr, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read disease map: %w", err)
	}
	defer fr.Close()
	ans := make(relevance.DiseaseMap)
	scnr := bufio.NewScanner(fr)
	var lineNum int
	for scnr.Scan() {
		lineNum++
		if skipLine(scnr.Text()) {
			continue
		}
		tmp := splitColumns(scnr.Text())
		if len(tmp) < 2 {
			return nil, fmt.Errorf(
				"failed to read disease map: invalid line %d in %s", lineNum, path)
		}
		datasetID := strings.TrimSpace(tmp[0])
		code := strings.TrimSpace(tmp[1])
		if prev, ok := ans[datasetID]; ok && prev != code {
			log.Warn().
				Str("dataset", datasetID).
				Str("previous", prev).
				Str("new", code).
				Msg("duplicate dataset entry in disease map, keeping the latter")
		}
		ans[datasetID] = code
	}
	if err := scnr.Err(); err != nil {
		return nil, fmt.Errorf("failed to read disease map: %w", err)
	}
	return ans, nil
}
