package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/flowplan/pkg/network"
	"github.com/matzehuels/flowplan/pkg/render"
)

// Render generates output artifacts in the requested formats.
// The json format is the indented plan document; the others draw the
// network, with routes overlaid when opts.Routes is set.
func Render(ctx context.Context, net *network.Network, plans Plans, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	renderOpts := render.Options{Compressed: opts.Compressed}
	if opts.Routes {
		renderOpts.Routes = plans.Routes()
	}
	var dot string

	for _, format := range opts.Formats {
		if format == FormatJSON {
			data, err := json.MarshalIndent(plans, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("render json: %w", err)
			}
			artifacts[format] = data
			continue
		}

		if dot == "" {
			dot = render.ToDOT(net, renderOpts)
		}
		data, err := render.Render(ctx, dot, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
