// Package httputil provides JSON helpers for the flowplan HTTP API.
//
// # Responses
//
// [WriteJSON] encodes a value with a status code. [WriteError] turns any
// error into the API error body
//
//	{"code": "INVALID_BUDGET", "message": "budget 2000 exceeds maximum 1000"}
//
// with the HTTP status chosen by [StatusFor] from the structured error code.
// Errors without a code are reported as internal errors and their text is
// not exposed.
//
// # Requests
//
// [DecodeJSON] reads a request body into a value, bounded by a byte limit
// and rejecting unknown fields.
package httputil
