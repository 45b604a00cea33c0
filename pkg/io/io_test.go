package io

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/flowplan/internal/testutil"
	"github.com/matzehuels/flowplan/pkg/valve"
)

const sampleTOML = `
start = "AA"

[[valve]]
id = "AA"
rate = 0
tunnels = ["BB"]

[[valve]]
id = "BB"
rate = 13
tunnels = ["AA"]
`

func TestJSONRoundTrip(t *testing.T) {
	g := testutil.SampleGraph()

	var buf bytes.Buffer
	if err := WriteJSON(g, "AA", &buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	got, start, err := Read(&buf, FormatJSON)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if start != "AA" {
		t.Errorf("start = %q, want AA", start)
	}
	if !reflect.DeepEqual(got.Valves(), g.Valves()) {
		t.Errorf("round trip changed valves")
	}
}

func TestReadTOML(t *testing.T) {
	g, start, err := Read(strings.NewReader(sampleTOML), FormatTOML)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if start != "AA" {
		t.Errorf("start = %q, want AA", start)
	}
	if g.Len() != 2 || g.Rate("BB") != 13 {
		t.Errorf("unexpected graph: %+v", g.Valves())
	}
}

const sampleYAML = `
start: AA
valves:
  - {id: AA, rate: 0, tunnels: [BB]}
  - id: BB
    rate: 13
    tunnels: [AA]
`

func TestReadYAML(t *testing.T) {
	g, start, err := Read(strings.NewReader(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if start != "AA" {
		t.Errorf("start = %q, want AA", start)
	}
	if g.Len() != 2 || g.Rate("BB") != 13 {
		t.Errorf("unexpected graph: %+v", g.Valves())
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		format  string
		wantErr error
	}{
		{"BadJSON", "{", FormatJSON, ErrDecode},
		{"BadTOML", "[[valve]\nid=", FormatTOML, ErrDecode},
		{"UnknownYAMLKey", "valves:\n  - {id: AA, flow: 3}\n", FormatYAML, ErrDecode},
		{"DuplicateJSON", `{"valves":[{"id":"AA"},{"id":"AA"}]}`, FormatJSON, valve.ErrDuplicateValve},
		{"EmptyID", `{"valves":[{"id":""}]}`, FormatJSON, valve.ErrInvalidValveID},
		{"UnknownFormat", "<valves/>", "xml", ErrUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Read(strings.NewReader(tt.input), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestImportByExtension(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"net.txt":  testutil.SampleText,
		"net.toml": sampleTOML,
		"net.yml":  sampleYAML,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	jsonPath := filepath.Join(dir, "net.json")
	if err := ExportJSON(testutil.SampleGraph(), "AA", jsonPath); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"net.txt", "net.toml", "net.yml", "net.json"} {
		g, _, err := Import(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("Import(%s) error = %v", name, err)
			continue
		}
		if !g.Has("AA") {
			t.Errorf("Import(%s) lost valve AA", name)
		}
	}

	missing := filepath.Join(dir, "missing.json")
	_, _, err := Import(missing)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Import(missing) error = %v, want fs.ErrNotExist", err)
	}
	if n := strings.Count(err.Error(), missing); n != 1 {
		t.Errorf("error %q names the path %d times, want once", err, n)
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.json")
	if err := ExportJSON(testutil.SampleGraph(), "AA", path); err != nil {
		t.Fatal(err)
	}
	g, start, err := Import(path)
	if err != nil {
		t.Fatal(err)
	}
	if start != "AA" || g.Len() != testutil.SampleGraph().Len() {
		t.Errorf("re-import: start %q, %d valves", start, g.Len())
	}

	if err := ExportJSON(testutil.SampleGraph(), "AA", filepath.Join(t.TempDir(), "no", "such", "dir.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("export into missing dir error = %v, want fs.ErrNotExist", err)
	}
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]string{
		"a.json":    FormatJSON,
		"b.TOML":    FormatTOML,
		"c.yaml":    FormatYAML,
		"d.yml":     FormatYAML,
		"input.txt": FormatText,
		"input":     FormatText,
	} {
		if got := FormatOf(path); got != want {
			t.Errorf("FormatOf(%q) = %q, want %q", path, got, want)
		}
	}
}
