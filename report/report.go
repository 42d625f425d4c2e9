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

package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/czcorpus/gsbench/relevance"
	"github.com/fatih/color"
)

const naCell = "NA"

// WriteCSV writes the aggregated relevance table with one row per
// dataset and one column per method. Unscored cells hold NA so the
// table stays rectangular for downstream plotting tools.
func WriteCSV(res relevance.AggregatedResult, w io.Writer) error {
	methodNames := res.MethodNames()
	header := append([]string{"dataset"}, methodNames...)
	if _, err := fmt.Fprintln(w, strings.Join(header, ";")); err != nil {
		return fmt.Errorf("failed to write CSV report: %w", err)
	}
	for i, ds := range res.Datasets {
		row := make([]string, 0, len(methodNames)+1)
		row = append(row, ds)
		for _, method := range methodNames {
			v := res.Methods[method][i]
			if math.IsNaN(v) {
				row = append(row, naCell)

			} else {
				row = append(row, fmt.Sprintf("%01.4f", v))
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, ";")); err != nil {
			return fmt.Errorf("failed to write CSV report: %w", err)
		}
	}
	return nil
}

// WriteCSVFile is a convenience wrapper around WriteCSV.
func WriteCSVFile(res relevance.AggregatedResult, path string) error {
	fw, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write CSV report: %w", err)
	}
	defer fw.Close()
	return WriteCSV(res, fw)
}

// MethodSummary is a per-method aggregate over all scored datasets.
type MethodSummary struct {
	Method        string
	AvgNormalized float64
	NumScored     int
}

// Summarize averages each method's normalized relevance across the
// datasets it was scored on.
func Summarize(res relevance.AggregatedResult) []MethodSummary {
	ans := make([]MethodSummary, 0, len(res.Methods))
	for _, method := range res.MethodNames() {
		var total float64
		var num int
		for _, v := range res.Methods[method] {
			if math.IsNaN(v) {
				continue
			}
			total += v
			num++
		}
		summary := MethodSummary{Method: method, NumScored: num}
		if num > 0 {
			summary.AvgNormalized = total / float64(num)
		}
		ans = append(ans, summary)
	}
	return ans
}

// PrintSummary renders a terminal overview of the benchmark run.
func PrintSummary(res relevance.AggregatedResult, w io.Writer) {
	headline := color.New(color.FgHiCyan)
	warn := color.New(color.FgHiYellow)

	headline.Fprintln(w, "phenotype relevance (avg of observed/optimal per method)")
	fmt.Fprintln(w, "----------------------------------------------------")
	for _, summary := range Summarize(res) {
		fmt.Fprintf(
			w, "%s: %01.3f (%d/%d datasets)\n",
			summary.Method, summary.AvgNormalized, summary.NumScored, len(res.Datasets))
	}
	if len(res.Exclusions) > 0 {
		warn.Fprintf(w, "\nexcluded pairs: %d\n", len(res.Exclusions))
		for _, excl := range res.Exclusions {
			fmt.Fprintf(w, "\t%s/%s: %s\n", excl.Method, excl.Dataset, excl.Reason)
		}
	}
	fmt.Fprintln(w, "----------------------------------------------------")
}
