package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nmanet/pkg/buildinfo"
	"github.com/matzehuels/nmanet/pkg/cache"
	"github.com/matzehuels/nmanet/pkg/config"
	"github.com/matzehuels/nmanet/pkg/errors"
	"github.com/matzehuels/nmanet/pkg/network"
	"github.com/matzehuels/nmanet/pkg/observability"
	"github.com/matzehuels/nmanet/pkg/render/nodelink"
	"github.com/matzehuels/nmanet/pkg/trial"
)

// TTLArtifact is how long rendered artifacts stay cached.
const TTLArtifact = 7 * 24 * time.Hour

// Runner executes pipeline stages with artifact caching.
// It holds no per-run state; one Runner may serve concurrent runs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil logger
// uses [log.Default].
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  cache.NewKeyer(buildinfo.CacheNamespace()),
		Logger: logger,
	}
}

// Execute runs load, summarize and render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	v, err := opts.ResolveVariant()
	if err != nil {
		return nil, err
	}
	result := &Result{Variant: v.Name}

	start := time.Now()
	arms, err := r.Load(ctx, opts.Input, v)
	if err != nil {
		return nil, err
	}
	result.Arms = arms
	result.Timings.Load = time.Since(start)

	start = time.Now()
	net, err := r.Summarize(ctx, arms, v)
	if err != nil {
		return nil, err
	}
	result.Network = *net
	result.Timings.Summarize = time.Since(start)

	r.Logger.Info("built network",
		"variant", v.Name,
		"studies", net.Stats.Studies,
		"treatments", net.Stats.Treatments,
		"comparisons", net.Stats.Comparisons)

	start = time.Now()
	result.DOT = nodelink.ToDOT(net.Graph, opts.RenderOptions(v))
	artifacts, hit, err := r.Render(ctx, result.DOT, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Timings.Render = time.Since(start)

	return result, nil
}

// Load reads the wide table at path and merges it into arms using the
// schema and class rules of v.
func (r *Runner) Load(ctx context.Context, path string, v *config.Variant) (arms []trial.Arm, err error) {
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, path, v.Name)
	defer func() {
		observability.Pipeline().OnLoadComplete(ctx, path, len(arms), time.Since(start), err)
	}()

	classifier, err := v.Classifier()
	if err != nil {
		return nil, err
	}
	t, err := trial.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	arms, err = trial.Merge(t, v.TrialSchema(), classifier)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return nil, errors.Wrap(code, err, "%s", path)
	}
	r.Logger.Debug("merged arms", "rows", len(t.Rows), "arms", len(arms))
	return arms, nil
}

// Summarize aggregates arms and builds the summaries and graph.
func (r *Runner) Summarize(ctx context.Context, arms []trial.Arm, v *config.Variant) (net *Network, err error) {
	start := time.Now()
	defer func() {
		var nodes, edges int
		if net != nil {
			nodes, edges = net.Graph.NodeCount(), net.Graph.EdgeCount()
		}
		observability.Pipeline().OnSummarizeComplete(ctx, nodes, edges, time.Since(start), err)
	}()

	ordering, err := v.Ordering()
	if err != nil {
		return nil, err
	}
	aggs := trial.Aggregate(arms)
	s, err := network.Summarize(aggs, ordering)
	if err != nil {
		return nil, err
	}
	g, err := network.Build(s)
	if err != nil {
		return nil, err
	}
	if iso := s.Isolated(); len(iso) > 0 {
		r.Logger.Debug("isolated treatments", "treatments", iso)
	}
	return &Network{
		Aggregates: aggs,
		Summary:    s,
		Graph:      g,
		Stats:      network.Describe(aggs, g),
	}, nil
}

// Render produces every requested format from dot. The boolean reports
// whether all artifacts came from the cache.
func (r *Runner) Render(ctx context.Context, dot string, opts Options) (map[string][]byte, bool, error) {
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	var err error
	for _, format := range opts.Formats {
		var data []byte
		var hit bool
		data, hit, err = r.renderFormat(ctx, dot, format, opts)
		if err != nil {
			break
		}
		artifacts[format] = data
		allHit = allHit && hit
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	return artifacts, allHit, nil
}

func (r *Runner) renderFormat(ctx context.Context, dot, format string, opts Options) ([]byte, bool, error) {
	if format == FormatDOT {
		return []byte(dot), false, nil
	}

	keyOpts := cache.ArtifactOpts{Format: format}
	if format == FormatPNG {
		keyOpts.Scale = opts.PNGScale
	}
	key := r.Keyer.ArtifactKey(dot, keyOpts)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case FormatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	case FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, opts.PNGScale)
	}
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "format", format, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
