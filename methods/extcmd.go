package methods

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/czcorpus/gsbench/cnf"
	"github.com/czcorpus/gsbench/dataimport"
	"github.com/czcorpus/gsbench/relevance"
	"github.com/rs/zerolog/log"
)

// ExtCmdMethod runs an external program (typically a thin R or Python
// wrapper around an actual enrichment package) with the dataset path as
// its last argument and parses the ranking table the program writes to
// its stdout.
type ExtCmdMethod struct {
	name    string
	command string
	args    []string
	kind    relevance.StatKind
}

func (m *ExtCmdMethod) Name() string {
	return m.name
}

func (m *ExtCmdMethod) Run(ctx context.Context, dataset cnf.DatasetConf) (relevance.GeneSetRanking, error) {
	args := make([]string, 0, len(m.args)+1)
	args = append(args, m.args...)
	args = append(args, dataset.Path)
	cmd := exec.CommandContext(ctx, m.command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			log.Error().
				Str("method", m.name).
				Str("stderr", strings.TrimSpace(stderr.String())).
				Msg("external method reported errors")
		}
		return relevance.GeneSetRanking{}, fmt.Errorf("failed to run method %s: %w", m.name, err)
	}
	ranking, err := dataimport.ReadRanking(&stdout, m.kind)
	if err != nil {
		return relevance.GeneSetRanking{}, fmt.Errorf("failed to run method %s: %w", m.name, err)
	}
	return ranking.Sorted(), nil
}

func NewExtCmdMethod(name, command string, args []string, kind relevance.StatKind) *ExtCmdMethod {
	return &ExtCmdMethod{
		name:    name,
		command: command,
		args:    args,
		kind:    kind,
	}
}
