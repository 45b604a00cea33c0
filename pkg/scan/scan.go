// Package scan parses the textual valve description format:
//
//	Valve AA has flow rate=0; tunnels lead to valves DD, II, BB
//	Valve HH has flow rate=22; tunnel leads to valve GG
//
// One valve per line. Blank lines are ignored. Both the singular and plural
// wordings are accepted.
package scan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/flowplan/pkg/valve"
)

// ErrSyntax is returned when a line does not match the valve format.
var ErrSyntax = errors.New("malformed valve line")

var lineRx = regexp.MustCompile(`^Valve (\w+) has flow rate=(\d+); tunnels? leads? to valves?\s*(.*)$`)

// LineError reports a failure on a specific input line.
type LineError struct {
	Line int    // 1-based line number
	Text string // Offending line, trimmed
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error { return e.Err }

// Parse reads valve lines from r into a graph. The graph is not validated;
// dangling tunnels are reported later by valve.Graph.Validate.
func Parse(r io.Reader) (*valve.Graph, error) {
	g := valve.New()
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		v, err := parseLine(text)
		if err == nil {
			err = g.AddValve(v)
		}
		if err != nil {
			return nil, &LineError{Line: line, Text: text, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return g, nil
}

// ParseString parses valve lines from s.
func ParseString(s string) (*valve.Graph, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile parses valve lines from the file at path.
func ParseFile(path string) (*valve.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

func parseLine(text string) (valve.Valve, error) {
	m := lineRx.FindStringSubmatch(text)
	if m == nil {
		return valve.Valve{}, ErrSyntax
	}
	rate, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return valve.Valve{}, fmt.Errorf("%w: rate %s: %v", ErrSyntax, m[2], err)
	}
	var tunnels []string
	for _, t := range strings.Split(m[3], ",") {
		if t = strings.TrimSpace(t); t != "" {
			tunnels = append(tunnels, t)
		}
	}
	return valve.Valve{ID: m[1], Rate: rate, Tunnels: tunnels}, nil
}
