package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nmanet/pkg/errors"
	"github.com/matzehuels/nmanet/pkg/pipeline"
)

type networkOpts struct {
	variant      string
	formats      string
	output       string
	noLegend     bool
	noEdgeLabels bool
	hideIsolated bool
	pngScale     float64
	noCache      bool
	refresh      bool
	quiet        bool
}

// networkCommand creates the network command running the full pipeline.
func (c *CLI) networkCommand() *cobra.Command {
	var opts networkOpts

	cmd := &cobra.Command{
		Use:   "network [trials.csv]",
		Short: "Build and render the treatment network of a trial table",
		Long: `Build and render the treatment network of a trial table.

The input is a wide CSV with one row per study and per-arm columns t..k.
(treatment), n..k. (randomized) and r..k. (responders). The schema variant is
detected from the file name unless --variant is given.

Every pair of treatments sharing a study becomes an edge; its width grows with
the number of studies k. Node size grows with the total number randomized.
Rendered SVG, PDF and PNG files are cached between runs.`,
		Example: `  nmanet network data/ards_equal-dose_model.csv
  nmanet network data/ards_exchangeable-dose_model.csv -f svg,pdf -o figures/network
  nmanet network trials.csv --variant exchangeable-dose --hide-isolated`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNetwork(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.variant, "variant", "", "schema variant (default: detect from file name)")
	_ = cmd.RegisterFlagCompletionFunc("variant", c.completeVariants)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), pdf, png, dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: <input>_network)")
	cmd.Flags().BoolVar(&opts.noLegend, "no-legend", false, "omit the drug-class legend")
	cmd.Flags().BoolVar(&opts.noEdgeLabels, "no-edge-labels", false, "omit k and n labels on edges")
	cmd.Flags().BoolVar(&opts.hideIsolated, "hide-isolated", false, "omit treatments without any comparison")
	cmd.Flags().Float64Var(&opts.pngScale, "png-scale", 0, "PNG resolution multiplier (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the summary tables")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(pipeline.Formats, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runNetwork(ctx context.Context, input string, opts networkOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := pipeline.Options{
		Input:        input,
		Variant:      opts.variant,
		Config:       cfg,
		Formats:      parseFormats(opts.formats),
		HideIsolated: opts.hideIsolated,
		NoLegend:     opts.noLegend,
		NoEdgeLabels: opts.noEdgeLabels,
		PNGScale:     opts.pngScale,
		Refresh:      opts.refresh,
		Logger:       c.Logger,
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Building network...")
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Network failed")
		return describeDataError(err)
	}
	spinner.Stop()
	prog.done("Built network")

	if !opts.quiet {
		printNetwork(result.Variant, result.Network)
	}

	paths, err := writeArtifacts(basePath(opts.output, input), popts.Formats, result.Artifacts)
	if err != nil {
		return err
	}
	fmt.Println()
	printSuccess("Rendered %s", strings.Join(popts.Formats, ", "))
	fmt.Println(statsLine([]string{
		fmt.Sprintf("%d treatments", result.Stats.Treatments),
		fmt.Sprintf("%d comparisons", result.Stats.Comparisons),
	}, result.CacheInfo.RenderHit))
	for _, path := range paths {
		printFile(path)
	}
	return nil
}

// writeArtifacts writes one file per format next to base and returns the
// paths in format order.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := outputPath(base, format)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// describeDataError rewords data errors so invalid input reads differently
// from a tool failure.
func describeDataError(err error) error {
	if errors.IsDataError(err) {
		return fmt.Errorf("invalid trial table: %s", errors.UserMessage(err))
	}
	return err
}
