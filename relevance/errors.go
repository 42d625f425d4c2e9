package relevance

import "errors"

var (
	ErrEmptyRanking            = errors.New("empty gene set ranking")
	ErrUnknownDiseaseCode      = errors.New("unknown disease code")
	ErrUnknownDataset          = errors.New("dataset has no mapped disease code")
	ErrInvalidPermutationCount = errors.New("permutation count must be at least 1")
	ErrNegativeRelevance       = errors.New("relevance score must not be negative")
)
