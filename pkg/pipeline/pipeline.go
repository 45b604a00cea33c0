// Package pipeline provides the core planning pipeline for flowplan.
//
// This package implements the complete load → plan → render pipeline that
// is shared by the CLI and the HTTP API. By centralizing this logic, both
// entry points apply the same defaults, cache keys and error codes.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a valve network from a file, inline text or a JSON document,
//     then compile it (distance table and bit index).
//  2. Plan: Run the single-agent and/or dual-agent planners.
//  3. Render: Produce DOT, SVG, PNG, PDF or JSON artifacts.
//
// Plan results and artifacts are cached by content hash, so re-running the
// same network with the same settings is instant.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "input.txt",
//	    Mode:    pipeline.ModeBoth,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Single.Pressure, result.Dual.Pressure)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowplan/pkg/cache"
	apperr "github.com/matzehuels/flowplan/pkg/errors"
	flowio "github.com/matzehuels/flowplan/pkg/io"
	"github.com/matzehuels/flowplan/pkg/release"
	"github.com/matzehuels/flowplan/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultStart is the start valve when neither the options nor the
	// input document name one.
	DefaultStart = "AA"

	// DefaultSingleBudget is the single-agent time budget in minutes.
	DefaultSingleBudget = 30

	// DefaultDualBudget is the dual-agent time budget in minutes. Each agent
	// gets the full budget.
	DefaultDualBudget = 26

	// DefaultMode plans for both scenarios.
	DefaultMode = ModeBoth

	// DefaultCacheBackend is used when no backend is configured.
	DefaultCacheBackend = CacheFile
)

// Planner modes.
const (
	ModeSingle = "single"
	ModeDual   = "dual"
	ModeBoth   = "both"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = render.FormatDOT
	FormatSVG  = render.FormatSVG
	FormatPNG  = render.FormatPNG
	FormatPDF  = render.FormatPDF
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidModes is the set of supported planner modes.
var ValidModes = map[string]bool{
	ModeSingle: true,
	ModeDual:   true,
	ModeBoth:   true,
}

// ValidCacheBackends is the set of supported cache backends.
var ValidCacheBackends = map[string]bool{
	CacheFile:  true,
	CacheRedis: true,
	CacheNone:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the planning pipeline.
// It decodes from JSON (API requests) and TOML (config files).
type Options struct {
	// Input options. Exactly one of Input, Text and Graph is used, in that
	// order of precedence.
	Input string           `json:"input,omitempty" toml:"input"`
	Text  string           `json:"text,omitempty" toml:"-"`
	Graph *flowio.Document `json:"graph,omitempty" toml:"-"`
	Start string           `json:"start,omitempty" toml:"start"`

	// Plan options
	Mode         string `json:"mode,omitempty" toml:"mode"`
	SingleBudget int    `json:"single_budget,omitempty" toml:"single_budget"`
	DualBudget   int    `json:"dual_budget,omitempty" toml:"dual_budget"`
	Strategy     string `json:"strategy,omitempty" toml:"strategy"`
	Workers      int    `json:"workers,omitempty" toml:"workers"`
	Timeout      int    `json:"timeout,omitempty" toml:"timeout"` // Seconds; 0 means none

	// Render options
	Formats    []string `json:"formats,omitempty" toml:"formats"`
	Compressed bool     `json:"compressed,omitempty" toml:"compressed"`
	Routes     bool     `json:"routes,omitempty" toml:"routes"`

	// Cache options
	Refresh      bool   `json:"refresh,omitempty" toml:"refresh"`
	CacheBackend string `json:"-" toml:"cache"`
	RedisAddr    string `json:"-" toml:"redis_addr"`

	// Runtime options (not serialized)
	Logger   *log.Logger          `json:"-" toml:"-"`
	Progress release.ProgressFunc `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this run in logs and API responses.
	RunID string `json:"run_id"`

	// GraphHash is the content hash of the network and start valve.
	GraphHash string `json:"graph_hash"`

	Start    string `json:"start"`
	Valves   int    `json:"valves"`
	Openable int    `json:"openable"`

	Plans

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte `json:"-"`

	// Stats contains timing information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo `json:"cache"`
}

// Plans holds the planner outputs. A field is nil when its mode was not run.
type Plans struct {
	Single *SinglePlan `json:"single,omitempty"`
	Dual   *DualPlan   `json:"dual,omitempty"`
}

// SinglePlan is a single-agent plan with the budget it was computed for.
type SinglePlan struct {
	Budget int `json:"budget"`
	release.Result
}

// DualPlan is a dual-agent plan with the budget and strategy it was
// computed for. Split lists the valves assigned to each agent.
type DualPlan struct {
	Budget   int         `json:"budget"`
	Strategy string      `json:"strategy"`
	Split    [2][]string `json:"split"`
	release.DualResult
}

// Routes returns the opening sequences to overlay on a rendering: both
// agents' routes when a dual plan exists, else the single route.
func (p Plans) Routes() [][]release.Step {
	switch {
	case p.Dual != nil:
		return [][]release.Step{p.Dual.Agents[0].Route, p.Dual.Agents[1].Route}
	case p.Single != nil:
		return [][]release.Step{p.Single.Route}
	}
	return nil
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LoadTime   time.Duration `json:"load_ns"`
	PlanTime   time.Duration `json:"plan_ns"`
	RenderTime time.Duration `json:"render_ns"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlanHit   bool `json:"plan_hit"`   // Whether plans came from cache
	RenderHit bool `json:"render_hit"` // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperr.New(apperr.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a planner mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return apperr.New(apperr.ErrCodeInvalidInput, "invalid mode: %q (must be one of: single, dual, both)", mode)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.validateInput(); err != nil {
		return err
	}
	if err := o.setPlanDefaults(); err != nil {
		return err
	}
	if err := o.setRenderDefaults(); err != nil {
		return err
	}
	if o.CacheBackend == "" {
		o.CacheBackend = DefaultCacheBackend
	}
	if !ValidCacheBackends[o.CacheBackend] {
		return apperr.New(apperr.ErrCodeInvalidInput, "invalid cache backend: %q (must be one of: file, redis, none)", o.CacheBackend)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func (o *Options) validateInput() error {
	switch {
	case o.Input != "":
		if err := apperr.ValidatePath(o.Input); err != nil {
			return err
		}
	case o.Text != "", o.Graph != nil:
	default:
		return apperr.New(apperr.ErrCodeInvalidInput, "input, text or graph is required")
	}
	if o.Start != "" {
		return apperr.ValidateValveID(o.Start)
	}
	return nil
}

func (o *Options) setPlanDefaults() error {
	o.Mode = strings.ToLower(o.Mode)
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if o.SingleBudget == 0 {
		o.SingleBudget = DefaultSingleBudget
	}
	if o.DualBudget == 0 {
		o.DualBudget = DefaultDualBudget
	}
	if err := apperr.ValidateBudget(o.SingleBudget); err != nil {
		return err
	}
	if err := apperr.ValidateBudget(o.DualBudget); err != nil {
		return err
	}
	s, err := release.ParseStrategy(o.Strategy)
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidStrategy, err, "invalid strategy")
	}
	o.Strategy = string(s)
	if o.Workers < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "workers cannot be negative: %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = 1
	}
	if o.Timeout < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "timeout cannot be negative: %d", o.Timeout)
	}
	return nil
}

func (o *Options) setRenderDefaults() error {
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	return ValidateFormats(o.Formats)
}

// WantsSingle reports whether the single-agent planner runs.
func (o *Options) WantsSingle() bool { return o.Mode == ModeSingle || o.Mode == ModeBoth }

// WantsDual reports whether the dual-agent planner runs.
func (o *Options) WantsDual() bool { return o.Mode == ModeDual || o.Mode == ModeBoth }

// PlanKeyOpts returns cache key options for plan results.
func (o *Options) PlanKeyOpts(start string) cache.PlanKeyOpts {
	k := cache.PlanKeyOpts{Start: start, Mode: o.Mode}
	if o.WantsSingle() {
		k.SingleBudget = o.SingleBudget
	}
	if o.WantsDual() {
		k.DualBudget = o.DualBudget
		k.Strategy = o.Strategy
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Compressed: o.Compressed,
		Routes:     o.Routes,
	}
}

// String implements fmt.Stringer for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("mode=%s single=%d dual=%d strategy=%s workers=%d", o.Mode, o.SingleBudget, o.DualBudget, o.Strategy, o.Workers)
}
