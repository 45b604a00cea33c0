// Package network compiles a valve graph into the form the release planners
// search over.
//
// Compilation has three steps:
//
//  1. [BuildTable] runs a breadth-first search from the start valve and from
//     every valve with a nonzero rate, recording hop counts to the other
//     nonzero valves. Zero-rate valves are only ever walked through.
//  2. [AssignIndex] gives each nonzero valve (except the start) one bit of a
//     uint64, in graph insertion order.
//  3. [Compile] combines both into a [Network] with dense per-node target
//     lists, so the search never touches a map on its hot path.
//
// A Network is immutable and safe to share across goroutines.
package network
