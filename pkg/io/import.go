package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/flowplan/pkg/scan"
	"github.com/matzehuels/flowplan/pkg/valve"
)

// Format names accepted by [Read].
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

var (
	// ErrDecode is returned when a JSON, TOML or YAML document cannot be
	// decoded.
	ErrDecode = errors.New("malformed network document")

	// ErrUnknownFormat is returned by Read for an unrecognized format name.
	ErrUnknownFormat = errors.New("unknown network format")
)

// FormatOf returns the format implied by a file name's extension.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatText
}

// ReadJSON decodes a JSON network document from r.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return doc, nil
}

// ReadTOML decodes a TOML network document from r.
// ReadTOML does not close r.
func ReadTOML(r io.Reader) (Document, error) {
	var doc Document
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return doc, nil
}

// ReadYAML decodes a YAML network document from r. Unknown keys are rejected.
// ReadYAML does not close r.
func ReadYAML(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return doc, nil
}

// Read decodes a network in the given format from r and returns the graph
// together with the document's start hint (empty for text input).
func Read(r io.Reader, format string) (*valve.Graph, string, error) {
	var (
		doc Document
		err error
	)
	switch format {
	case FormatJSON:
		doc, err = ReadJSON(r)
	case FormatTOML:
		doc, err = ReadTOML(r)
	case FormatYAML:
		doc, err = ReadYAML(r)
	case FormatText, "":
		g, err := scan.Parse(r)
		return g, "", err
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, "", err
	}
	g, err := doc.Graph()
	if err != nil {
		return nil, "", err
	}
	return g, doc.Start, nil
}

// Import reads the network file at path, choosing the decoder by extension.
func Import(path string) (*valve.Graph, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	g, start, err := Read(f, FormatOf(path))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return g, start, nil
}
