package render

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/matzehuels/flowplan/pkg/network"
	"github.com/matzehuels/flowplan/pkg/release"
)

// agentColors fills the valves opened by each agent, in agent order.
var agentColors = []string{"#8ecae6", "#ffb703", "#b5e48c", "#f4a6c1"}

// Options configures DOT output.
type Options struct {
	// Compressed draws the distance-table graph instead of the raw tunnels.
	Compressed bool

	// Routes overlays one opening sequence per agent.
	Routes [][]release.Step
}

// ToDOT converts a network into an undirected Graphviz graph.
// Output is deterministic: valves appear in graph insertion order.
func ToDOT(net *network.Network, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph Valves {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontname=\"SF Mono, Menlo, monospace\", fontsize=12];\n")
	buf.WriteString("  edge [color=\"#888888\"];\n\n")

	opened := openedBy(opts.Routes)
	g := net.Graph()

	ids := g.IDs()
	if opts.Compressed {
		ids = g.Interesting(net.Start())
	}
	for _, id := range ids {
		fmt.Fprintf(&buf, "  %q [%s];\n", id, nodeAttrs(net, id, opened[id]))
	}
	buf.WriteString("\n")

	if opts.Compressed {
		writeDistanceEdges(&buf, net, ids)
	} else {
		writeTunnelEdges(&buf, net)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// opening records which agent opened a valve and when.
type opening struct {
	agent int
	order int
	step  release.Step
}

func openedBy(routes [][]release.Step) map[string]*opening {
	out := make(map[string]*opening)
	for a, route := range routes {
		for i, st := range route {
			out[st.Valve] = &opening{agent: a, order: i + 1, step: st}
		}
	}
	return out
}

func nodeAttrs(net *network.Network, id string, op *opening) string {
	rate := net.Graph().Rate(id)
	label := id
	if rate > 0 {
		label = fmt.Sprintf("%s\\n%d", id, rate)
	}
	attrs := ""
	switch {
	case op != nil:
		label += fmt.Sprintf("\\n#%d @%d", op.order, op.step.Minute)
		attrs = fmt.Sprintf(", fillcolor=%q", agentColors[op.agent%len(agentColors)])
	case rate > 0:
		attrs = ", fillcolor=\"#eeeeee\""
	}
	if id == net.Start() {
		attrs += ", shape=doublecircle"
	}
	return fmt.Sprintf("label=\"%s\"%s", label, attrs)
}

func writeTunnelEdges(buf *bytes.Buffer, net *network.Network) {
	g := net.Graph()
	seen := make(map[[2]string]bool)
	for _, id := range g.IDs() {
		for _, to := range g.Tunnels(id) {
			key := [2]string{id, to}
			if to < id {
				key = [2]string{to, id}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			fmt.Fprintf(buf, "  %q -- %q;\n", id, to)
		}
	}
}

func writeDistanceEdges(buf *bytes.Buffer, net *network.Network, ids []string) {
	table := net.Table()
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			d, ok := table.Distance(a, b)
			if !ok {
				d, ok = table.Distance(b, a)
			}
			if !ok {
				continue
			}
			fmt.Fprintf(buf, "  %q -- %q [label=\"%d\"];\n", a, b, d)
		}
	}
}

// Legend returns one line per agent describing its route, for captions.
func Legend(routes [][]release.Step) []string {
	lines := make([]string, 0, len(routes))
	for a, route := range routes {
		names := make([]string, len(route))
		for i, st := range route {
			names[i] = st.Valve
		}
		lines = append(lines, fmt.Sprintf("agent %d: %v (%d)", a+1, slices.Clip(names), release.Total(route)))
	}
	return lines
}
