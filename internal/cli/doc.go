// Package cli implements the flowplan command-line interface.
//
// This package provides commands for planning valve openings on a network,
// rendering the network and its plan, serving the planner over HTTP, and
// managing the result cache. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - solve: Plan for one and/or two agents and print the result
//   - render: Draw the network (and plan routes) as DOT, SVG, PNG or PDF
//   - serve: Run the HTTP API
//   - cache: Manage the plan cache
//
// # Configuration
//
// Flags override values from a TOML config file (--config, or
// $XDG_CONFIG_HOME/flowplan/config.toml when present).
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli
