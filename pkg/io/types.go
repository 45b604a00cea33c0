package io

import "github.com/matzehuels/flowplan/pkg/valve"

// Document is the decoded form of a network file.
type Document struct {
	Start  string       `json:"start,omitempty" toml:"start" yaml:"start,omitempty"`
	Valves []valveEntry `json:"valves" toml:"valve" yaml:"valves"`
}

type valveEntry struct {
	ID      string   `json:"id" toml:"id" yaml:"id"`
	Rate    uint64   `json:"rate" toml:"rate" yaml:"rate"`
	Tunnels []string `json:"tunnels" toml:"tunnels" yaml:"tunnels,flow"`
}

// Graph builds a valve graph from the document.
func (d Document) Graph() (*valve.Graph, error) {
	g := valve.New()
	for _, v := range d.Valves {
		if err := g.AddValve(valve.Valve{ID: v.ID, Rate: v.Rate, Tunnels: v.Tunnels}); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// NewDocument captures g (and an optional start hint) as a document.
func NewDocument(g *valve.Graph, start string) Document {
	doc := Document{Start: start, Valves: make([]valveEntry, 0, g.Len())}
	for _, v := range g.Valves() {
		tunnels := v.Tunnels
		if tunnels == nil {
			tunnels = []string{}
		}
		doc.Valves = append(doc.Valves, valveEntry{ID: v.ID, Rate: v.Rate, Tunnels: tunnels})
	}
	return doc
}
