package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowplan/internal/testutil"
	"github.com/matzehuels/flowplan/pkg/cache"
	apperr "github.com/matzehuels/flowplan/pkg/errors"
	"github.com/matzehuels/flowplan/pkg/httputil"
	flowio "github.com/matzehuels/flowplan/pkg/io"
	"github.com/matzehuels/flowplan/pkg/observability"
	"github.com/matzehuels/flowplan/pkg/pipeline"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	ts := httptest.NewServer(New(runner, logger, cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) httputil.ErrorBody {
	t.Helper()
	var body httputil.ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthAndVersion(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/version")
	require.NoError(t, err)
	defer resp.Body.Close()
	var v VersionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	assert.NotEmpty(t, v.Version)
}

func TestPlanSample(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := post(t, ts.URL+"/v1/plan", pipeline.Options{Text: testutil.SampleText})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RunIDHeader))

	var res pipeline.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.NotNil(t, res.Single)
	require.NotNil(t, res.Dual)
	assert.Equal(t, uint64(testutil.SampleSingle), res.Single.Pressure)
	assert.Equal(t, uint64(testutil.SampleDual), res.Dual.Pressure)
	assert.Equal(t, "AA", res.Start)
	assert.Equal(t, 6, res.Openable)
}

func TestPlanGraphDocument(t *testing.T) {
	ts := newTestServer(t, Config{})

	doc := flowio.NewDocument(testutil.SampleGraph(), "AA")
	resp := post(t, ts.URL+"/v1/plan", pipeline.Options{Graph: &doc, Mode: pipeline.ModeSingle})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res pipeline.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	require.NotNil(t, res.Single)
	assert.Nil(t, res.Dual)
	assert.Equal(t, uint64(testutil.SampleSingle), res.Single.Pressure)
}

func TestPlanErrors(t *testing.T) {
	ts := newTestServer(t, Config{MaxBody: 64 << 10})

	tests := []struct {
		name   string
		body   any
		status int
		code   apperr.Code
	}{
		{"InputPath", pipeline.Options{Input: "/etc/passwd"}, http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"NoNetwork", pipeline.Options{}, http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"Budget", pipeline.Options{Text: testutil.SampleText, SingleBudget: 5000}, http.StatusBadRequest, apperr.ErrCodeInvalidBudget},
		{"Strategy", pipeline.Options{Text: testutil.SampleText, Strategy: "random"}, http.StatusBadRequest, apperr.ErrCodeInvalidStrategy},
		{"Syntax", pipeline.Options{Text: "Pipe AA is broken"}, http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"Dangling", pipeline.Options{Text: "Valve AA has flow rate=0; tunnel leads to valve ZZ"}, http.StatusBadRequest, apperr.ErrCodeInvalidGraph},
		{"TooManyValves", pipeline.Options{Text: chainText(65)}, http.StatusRequestEntityTooLarge, apperr.ErrCodeTooLarge},
		{"UnknownField", `{"budget": 30}`, http.StatusBadRequest, apperr.ErrCodeInvalidInput},
		{"BodyTooLarge", `{"text":"` + strings.Repeat("x", 70<<10) + `"}`, http.StatusRequestEntityTooLarge, apperr.ErrCodeTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/plan", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp).Code)
		})
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := post(t, ts.URL+"/v1/render?format=dot", pipeline.Options{Text: testutil.SampleText, Routes: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/vnd.graphviz")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "graph Valves {"), "body = %.40s", body)

	resp = post(t, ts.URL+"/v1/render?format=gif", pipeline.Options{Text: testutil.SampleText})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apperr.ErrCodeInvalidFormat, decodeError(t, resp).Code)
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/v2/plan")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apperr.ErrCodeNotFound, decodeError(t, resp).Code)
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	statuses chan int
}

func (h recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.statuses <- status
}

func TestHTTPHooks(t *testing.T) {
	hooks := recordingHooks{statuses: make(chan int, 1)}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()

	select {
	case status := <-hooks.statuses:
		assert.Equal(t, http.StatusOK, status)
	case <-time.After(time.Second):
		t.Fatal("OnResponse not called")
	}
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, Config{RateLimit: 0.001, Burst: 1})

	body := pipeline.Options{Text: testutil.SampleText, Mode: pipeline.ModeSingle}
	first := post(t, ts.URL+"/v1/plan", body)
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := post(t, ts.URL+"/v1/plan", body)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assert.Equal(t, "1", second.Header.Get("Retry-After"))
	assert.Equal(t, apperr.ErrCodeRateLimited, decodeError(t, second).Code)

	// Health checks are not throttled.
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDecodeOptionsLimits(t *testing.T) {
	s := New(pipeline.NewRunner(nil, nil, nil), log.New(io.Discard), Config{MaxWorkers: 2, RequestTimeout: 5 * time.Second})

	req := httptest.NewRequest(http.MethodPost, "/v1/plan", strings.NewReader(`{"text":"x","workers":64,"timeout":3600}`))
	opts, err := s.decodeOptions(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, opts.Workers)
	assert.Equal(t, 5, opts.Timeout)
}

// chainText describes n openable valves in a line after the start AA.
func chainText(n int) string {
	var b strings.Builder
	prev := "AA"
	fmt.Fprintf(&b, "Valve AA has flow rate=0; tunnel leads to valve V00\n")
	for i := range n {
		id := fmt.Sprintf("V%02d", i)
		next := fmt.Sprintf("V%02d", i+1)
		if i == n-1 {
			fmt.Fprintf(&b, "Valve %s has flow rate=1; tunnel leads to valve %s\n", id, prev)
		} else {
			fmt.Fprintf(&b, "Valve %s has flow rate=1; tunnels lead to valves %s, %s\n", id, prev, next)
		}
		prev = id
	}
	return b.String()
}
