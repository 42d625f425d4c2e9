package stats

// BenchmarkResult is a single persisted (method, dataset) benchmark
// outcome covering all three comparison axes - runtime, statistical
// significance and phenotype relevance.
type BenchmarkResult struct {

	// Method is the name of the enrichment method which produced
	// the ranking.
	Method string `json:"method"`

	// Dataset is the expression dataset identifier.
	Dataset string `json:"dataset"`

	// DiseaseCode is the disease the dataset was resolved to.
	DiseaseCode string `json:"diseaseCode"`

	// Datetime specifies date and time when the result was stored
	Datetime int64 `json:"datetime"`

	// Runtime is the wall-clock time (seconds) of the method invocation.
	// Zero for results computed from cached rankings, where no invocation
	// took place.
	Runtime float64 `json:"runtime"`

	// SigFraction is the fraction of gene sets the method reported
	// as significant under the configured threshold.
	SigFraction float64 `json:"sigFraction"`

	// Relevance is the observed phenotype relevance score.
	Relevance float64 `json:"relevance"`

	// OptRelevance is the theoretical optimum for the same dataset
	// and candidate gene sets; Relevance/OptRelevance gives the
	// comparable normalized value.
	OptRelevance float64 `json:"optRelevance"`

	// Normalized is Relevance/OptRelevance (0 if the optimum is 0).
	Normalized float64 `json:"normalized"`

	// PValue is the empirical permutation p-value of the observed
	// relevance score.
	PValue float64 `json:"pValue"`

	// Permutations is the null distribution size used for PValue.
	Permutations int `json:"permutations"`
}

// ExclusionRecord mirrors a relevance.Exclusion in the database - a pair
// which could not be scored, kept so that missing data stays visible in
// reports and via the API.
type ExclusionRecord struct {
	Method   string `json:"method"`
	Dataset  string `json:"dataset"`
	Reason   string `json:"reason"`
	Datetime int64  `json:"datetime"`
}

// ----------------------------

type ListFilter struct {
	Method  *string
	Dataset *string
}

func (filter ListFilter) SetMethod(v string) ListFilter {
	filter.Method = &v
	return filter
}

func (filter ListFilter) SetDataset(v string) ListFilter {
	filter.Dataset = &v
	return filter
}
