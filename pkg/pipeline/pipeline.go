// Package pipeline runs the network-graph pipeline end to end.
//
// The pipeline has three stages:
//
//  1. Load: read the wide trial table and merge it into arms
//  2. Summarize: aggregate per study and treatment, then build edge and node
//     summaries and the treatment graph
//  3. Render: emit DOT and the requested diagram formats
//
// Each stage can be run on its own or through [Runner.Execute]:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "data/ards_exchangeable-dose_model.csv",
//	    Formats: []string{"svg", "pdf"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nmanet/pkg/config"
	"github.com/matzehuels/nmanet/pkg/errors"
	"github.com/matzehuels/nmanet/pkg/network"
	"github.com/matzehuels/nmanet/pkg/render/nodelink"
	"github.com/matzehuels/nmanet/pkg/trial"
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatPNG = "png"
	FormatDOT = "dot"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatPDF, FormatPNG, FormatDOT}

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatSVG

// ValidateFormat checks that a format is supported. Formats are case-sensitive.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures a pipeline run.
type Options struct {
	Input string
	// Variant names the configured schema variant. Empty detects it from the
	// input file name.
	Variant string
	// Config defaults to [config.Default].
	Config *config.Config

	Formats      []string
	HideIsolated bool
	// NoLegend and NoEdgeLabels switch off decorations the config enables.
	NoLegend     bool
	NoEdgeLabels bool
	// PNGScale defaults to the configured render scale.
	PNGScale float64
	// Refresh skips cache reads but still writes fresh artifacts.
	Refresh bool

	Logger *log.Logger
}

// SetDefaults fills unset fields. It is idempotent.
func (o *Options) SetDefaults() {
	if o.Config == nil {
		o.Config = config.Default()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.Formats = dedupe(o.Formats)
	if o.PNGScale == 0 {
		o.PNGScale = o.Config.Render.PNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks required fields and formats.
func (o *Options) Validate() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.PNGScale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %v", o.PNGScale)
	}
	return nil
}

// ResolveVariant returns the variant named in the options, or the one
// detected from the input file name.
func (o *Options) ResolveVariant() (*config.Variant, error) {
	cfg := o.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if o.Variant != "" {
		return cfg.Variant(o.Variant)
	}
	return cfg.Detect(o.Input)
}

// RenderOptions derives diagram options for variant v.
func (o *Options) RenderOptions(v *config.Variant) nodelink.Options {
	cfg := o.Config
	if cfg == nil {
		cfg = config.Default()
	}
	opts := cfg.Render.NodeOptions(v.Colors())
	opts.HideIsolated = o.HideIsolated
	if o.NoLegend {
		opts.Legend = false
	}
	if o.NoEdgeLabels {
		opts.EdgeLabels = false
	}
	return opts
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.TrimSpace(f)
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// Network is the output of the summarize stage.
type Network struct {
	Aggregates []trial.StudyTreatment
	Summary    *network.Summary
	Graph      *network.Graph
	Stats      network.Stats
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Variant string
	Arms    []trial.Arm
	Network
	DOT       string
	Artifacts map[string][]byte // keyed by format
	Timings   Timings
	CacheInfo CacheInfo
}

// Timings records how long each stage took.
type Timings struct {
	Load      time.Duration
	Summarize time.Duration
	Render    time.Duration
}

// CacheInfo tracks cache hits of the render stage.
type CacheInfo struct {
	RenderHit bool // every artifact came from cache
}
