package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/flowplan/pkg/valve"
)

// WriteJSON encodes g as an indented JSON document and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(g *valve.Graph, start string, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(g, start)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path. An error from closing the
// file is returned too.
func ExportJSON(g *valve.Graph, start, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return WriteJSON(g, start, f)
}
