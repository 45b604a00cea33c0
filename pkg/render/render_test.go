package render

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/flowplan/internal/testutil"
	"github.com/matzehuels/flowplan/pkg/network"
	"github.com/matzehuels/flowplan/pkg/release"
)

func sampleNetwork(t *testing.T) *network.Network {
	t.Helper()
	net, err := network.Compile(testutil.SampleGraph(), "AA")
	if err != nil {
		t.Fatal(err)
	}
	return net
}

func TestToDOT_Tunnels(t *testing.T) {
	dot := ToDOT(sampleNetwork(t), Options{})

	if !strings.HasPrefix(dot, "graph Valves {") {
		t.Error("ToDOT() output missing graph declaration")
	}
	if got := strings.Count(dot, " -- "); got != 10 {
		t.Errorf("edge count = %d, want 10 (tunnels deduplicated)", got)
	}
	if !strings.Contains(dot, `"AA" -- "DD"`) {
		t.Error("ToDOT() missing tunnel AA -- DD")
	}
	if strings.Contains(dot, `"DD" -- "AA"`) {
		t.Error("ToDOT() emitted reverse tunnel DD -- AA")
	}
	if !strings.Contains(dot, `label="HH\n22"`) {
		t.Error("ToDOT() missing rate label for HH")
	}
	if !strings.Contains(dot, `label="FF"`) {
		t.Error("ToDOT() zero-rate valve should carry a bare label")
	}
	if !strings.Contains(dot, "doublecircle") {
		t.Error("ToDOT() start valve not marked")
	}
}

func TestToDOT_Compressed(t *testing.T) {
	dot := ToDOT(sampleNetwork(t), Options{Compressed: true})

	if strings.Contains(dot, `"FF"`) {
		t.Error("compressed view should omit zero-rate valves")
	}
	// start plus six openable valves, fully connected
	if got := strings.Count(dot, " -- "); got != 21 {
		t.Errorf("edge count = %d, want 21", got)
	}
	if !strings.Contains(dot, `"HH" -- "JJ" [label="7"]`) {
		t.Error("compressed view missing HH -- JJ distance 7")
	}
}

func TestToDOT_Routes(t *testing.T) {
	net := sampleNetwork(t)
	res, err := release.Single(context.Background(), net, 30)
	if err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(net, Options{Routes: [][]release.Step{res.Route}})
	first := res.Route[0]
	if !strings.Contains(dot, "#1 @"+strconv.Itoa(first.Minute)) {
		t.Errorf("route overlay missing first opening %+v", first)
	}
	if !strings.Contains(dot, agentColors[0]) {
		t.Error("route overlay missing agent color")
	}

	lines := Legend([][]release.Step{res.Route})
	if len(lines) != 1 || !strings.HasSuffix(lines[0], "(1651)") {
		t.Errorf("Legend() = %v", lines)
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	net := sampleNetwork(t)
	if ToDOT(net, Options{}) != ToDOT(net, Options{}) {
		t.Error("ToDOT() output is not deterministic")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	bare := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(bare)) != string(bare) {
		t.Error("normalizeViewBox() changed svg without viewBox")
	}
}

func TestRenderDOTPassthrough(t *testing.T) {
	got, err := Render(context.Background(), "graph G {}", FormatDOT)
	if err != nil || string(got) != "graph G {}" {
		t.Errorf("Render(dot) = %q, %v", got, err)
	}
	if _, err := Render(context.Background(), "graph G {}", "gif"); err == nil {
		t.Error("Render(gif) should fail")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz layout in short mode")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(sampleNetwork(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
}
