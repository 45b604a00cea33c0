// Package render draws valve networks.
//
// [ToDOT] produces a Graphviz DOT description of a compiled network: the
// start valve as a double circle, valves with a nonzero rate filled and
// labeled with their rate, and tunnels as undirected edges. Two optional
// overlays are available:
//
//   - Compressed: draw only the start and nonzero valves, with edges labeled
//     by hop count from the distance table. This is the graph the planner
//     actually searches.
//   - Routes: color the valves each agent opens and annotate them with their
//     opening order and minute.
//
// [RenderSVG] lays the DOT out with goccy/go-graphviz (no external binary).
// [ToPDF] and [ToPNG] convert SVG with the rsvg-convert tool from librsvg.
package render
