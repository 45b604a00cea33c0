package pipeline

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/matzehuels/flowplan/pkg/cache"
	flowio "github.com/matzehuels/flowplan/pkg/io"
	"github.com/matzehuels/flowplan/pkg/scan"
	"github.com/matzehuels/flowplan/pkg/valve"
)

// Load reads the network named by opts and resolves the start valve:
// opts.Start, else the document's start, else DefaultStart.
func Load(ctx context.Context, opts Options) (*valve.Graph, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	var (
		g     *valve.Graph
		start string
		err   error
	)
	switch {
	case opts.Input != "":
		g, start, err = flowio.Import(opts.Input)
	case opts.Text != "":
		g, start, err = readInline(opts.Text)
	case opts.Graph != nil:
		g, err = opts.Graph.Graph()
		start = opts.Graph.Start
	}
	if err != nil {
		return nil, "", err
	}

	if opts.Start != "" {
		start = opts.Start
	}
	if start == "" {
		start = DefaultStart
	}
	return g, start, nil
}

// readInline accepts either the text format or a JSON document, sniffed by
// the first non-space byte.
func readInline(s string) (*valve.Graph, string, error) {
	if strings.HasPrefix(strings.TrimSpace(s), "{") {
		return flowio.Read(strings.NewReader(s), flowio.FormatJSON)
	}
	g, err := scan.ParseString(s)
	return g, "", err
}

// GraphHash is the content hash of a network and start valve. Equal graphs
// built from any input format hash identically.
func GraphHash(g *valve.Graph, start string) string {
	data, _ := json.Marshal(flowio.NewDocument(g, start))
	return cache.Hash(data)
}
