package methods

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/czcorpus/cnc-gokit/httpclient"
	"github.com/czcorpus/gsbench/cnf"
	"github.com/czcorpus/gsbench/relevance"
)

const (
	idleConnTimeoutSecs = 60
	requestTimeoutSecs  = 600
)

type rankedSetResp struct {
	GeneSet string  `json:"geneSet"`
	Stat    float64 `json:"stat"`
}

// RESTMethod invokes an enrichment analysis service over HTTP. The
// service is expected to expose GET {base}/rank/{datasetID} returning
// a JSON array of {geneSet, stat} objects in rank order.
type RESTMethod struct {
	name    string
	baseURL string
	kind    relevance.StatKind
	client  *http.Client
}

func (m *RESTMethod) Name() string {
	return m.name
}

func (m *RESTMethod) Run(ctx context.Context, dataset cnf.DatasetConf) (relevance.GeneSetRanking, error) {
	fullURL, err := url.JoinPath(m.baseURL, fmt.Sprintf("/rank/%s", dataset.ID))
	if err != nil {
		return relevance.GeneSetRanking{}, fmt.Errorf("failed to run method %s: %w", m.name, err)
	}
	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return relevance.GeneSetRanking{}, fmt.Errorf("failed to run method %s: %w", m.name, err)
	}
	if dataset.Path != "" {
		q := req.URL.Query()
		q.Add("path", dataset.Path)
		req.URL.RawQuery = q.Encode()
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return relevance.GeneSetRanking{}, fmt.Errorf("failed to run method %s: %w", m.name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return relevance.GeneSetRanking{}, fmt.Errorf(
			"failed to run method %s: service returned %s", m.name, resp.Status)
	}
	rawData, err := io.ReadAll(resp.Body)
	if err != nil {
		return relevance.GeneSetRanking{}, fmt.Errorf("failed to run method %s: %w", m.name, err)
	}
	var rows []rankedSetResp
	if err := json.Unmarshal(rawData, &rows); err != nil {
		return relevance.GeneSetRanking{}, fmt.Errorf("failed to run method %s: %w", m.name, err)
	}
	entries := make([]relevance.RankedSet, len(rows))
	for i, row := range rows {
		entries[i] = relevance.RankedSet{ID: row.GeneSet, Stat: row.Stat}
	}
	ranking := relevance.GeneSetRanking{Entries: entries, Kind: m.kind}
	if ranking.Size() == 0 {
		return relevance.GeneSetRanking{}, relevance.ErrEmptyRanking
	}
	return ranking.Sorted(), nil
}

func NewRESTMethod(name, baseURL string, kind relevance.StatKind) *RESTMethod {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = httpclient.TransportMaxIdleConns
	transport.MaxConnsPerHost = httpclient.TransportMaxConnsPerHost
	transport.MaxIdleConnsPerHost = httpclient.TransportMaxIdleConnsPerHost
	transport.IdleConnTimeout = time.Duration(idleConnTimeoutSecs) * time.Second
	return &RESTMethod{
		name:    name,
		baseURL: baseURL,
		kind:    kind,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
			Timeout:   time.Duration(requestTimeoutSecs) * time.Second,
			Transport: transport,
		},
	}
}
