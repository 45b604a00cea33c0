// Package pkg provides the libraries behind flowplan, the valve release
// planner.
//
// # Overview
//
// A network of valves joined by tunnels is read from text, JSON or TOML,
// compiled into a shortest-distance table over the valves worth opening, and
// searched for the opening order that releases the most pressure within a
// time budget, by one agent or split between two.
//
// # Architecture
//
// The data flow through flowplan:
//
//	Valve description (text / JSON / TOML)
//	         ↓
//	    [scan], [io] packages (parse into a valve.Graph)
//	         ↓
//	    [network] package (index openable valves, distance table)
//	         ↓
//	    [release] package (single and dual planners)
//	         ↓
//	    [render] package (DOT, SVG, PNG, PDF)
//
// [pipeline] runs these stages with caching ([cache]) and reports them to the
// hooks in [observability].
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/flowplan/pkg/network"
//	    "github.com/matzehuels/flowplan/pkg/release"
//	    "github.com/matzehuels/flowplan/pkg/scan"
//	)
//
//	g, _ := scan.ParseFile("input.txt")
//	net, _ := network.Compile(g, "AA")
//
//	single, _ := release.Single(context.Background(), net, 30)
//
//	planner := release.DualPlanner{Workers: 8}
//	dual, _ := planner.Plan(context.Background(), net, 26)
//
// # Main Packages
//
//   - [valve]: the valve graph and its validation
//   - [scan]: the "Valve AA has flow rate=0; ..." text format
//   - [io]: JSON and TOML documents, format detection
//   - [network]: bit indexing of openable valves and the distance table
//   - [release]: memoized search, single and dual planners, routes
//   - [render]: Graphviz drawings of networks and routes
//   - [pipeline]: load → plan → render orchestration with caching
//   - [cache]: file, Redis and null cache backends
//   - [errors]: structured error codes and input validation
//   - [observability]: pipeline, cache and HTTP hooks
//   - [httputil]: JSON request and error helpers for the HTTP API
//   - [buildinfo]: version information set at link time
package pkg
