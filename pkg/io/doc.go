// Package io imports and exports valve networks.
//
// # Formats
//
// Four formats are understood. JSON:
//
//	{
//	  "start": "AA",
//	  "valves": [
//	    {"id": "AA", "rate": 0, "tunnels": ["DD", "II", "BB"]},
//	    {"id": "BB", "rate": 13, "tunnels": ["CC", "AA"]}
//	  ]
//	}
//
// TOML, one table per valve:
//
//	start = "AA"
//
//	[[valve]]
//	id = "AA"
//	rate = 0
//	tunnels = ["DD", "II", "BB"]
//
// YAML, with the same keys as JSON:
//
//	start: AA
//	valves:
//	  - {id: AA, rate: 0, tunnels: [DD, II, BB]}
//
// and the line-oriented text format handled by package scan. The optional
// "start" key is a hint for callers; the graph itself carries no start.
//
// # Import
//
// [Import] picks the decoder from the file extension: ".json", ".toml",
// ".yaml" or ".yml", and anything else is treated as text. Decoded graphs are not validated - call
// valve.Graph.Validate or network.Compile before planning.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write the JSON format in valve insertion order,
// so import followed by export is stable.
package io
