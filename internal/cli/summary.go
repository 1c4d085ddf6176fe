package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	nmaio "github.com/matzehuels/nmanet/pkg/io"
	"github.com/matzehuels/nmanet/pkg/pipeline"
)

type summaryOpts struct {
	variant string
	json    bool
	csvDir  string
}

// summaryCommand creates the summary command. It runs load and summarize
// only, so it needs neither Graphviz nor rsvg-convert.
func (c *CLI) summaryCommand() *cobra.Command {
	var opts summaryOpts

	cmd := &cobra.Command{
		Use:   "summary [trials.csv]",
		Short: "Print edge and node summaries of a trial table",
		Long: `Print edge and node summaries of a trial table.

With --json the summaries are written to stdout as JSON instead of tables.
With --csv the edge and node tables are also written as edges.csv and
nodes.csv into the given directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSummary(cmd.Context(), args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.variant, "variant", "", "schema variant (default: detect from file name)")
	_ = cmd.RegisterFlagCompletionFunc("variant", c.completeVariants)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print summaries as JSON")
	cmd.Flags().StringVar(&opts.csvDir, "csv", "", "write edges.csv and nodes.csv into this directory")
	return cmd
}

func (c *CLI) runSummary(ctx context.Context, input string, so summaryOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := pipeline.Options{Input: input, Variant: so.variant, Config: cfg, Logger: c.Logger}
	v, err := opts.ResolveVariant()
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(nil, c.Logger)
	arms, err := runner.Load(ctx, input, v)
	if err != nil {
		return describeDataError(err)
	}
	net, err := runner.Summarize(ctx, arms, v)
	if err != nil {
		return describeDataError(err)
	}

	if so.csvDir != "" {
		paths, err := nmaio.ExportCSV(net.Summary, so.csvDir)
		if err != nil {
			return err
		}
		if !so.json {
			for _, p := range paths {
				printFile(p)
			}
		}
	}
	if so.json {
		return nmaio.WriteJSON(net.Summary, os.Stdout)
	}
	printNetwork(v.Name, *net)
	return nil
}

// printNetwork prints the statistics and both summary tables.
func printNetwork(variant string, net pipeline.Network) {
	st := net.Stats
	printTitle("Network")
	printKeyValue("Variant", variant)
	printKeyValue("Studies", fmt.Sprintf("%d (%d single-arm)", st.Studies, st.SingleArm))
	printKeyValue("Participants", strconv.Itoa(st.Participants))
	printKeyValue("Treatments", strconv.Itoa(st.Treatments))
	printKeyValue("Comparisons", strconv.Itoa(st.Comparisons))
	if st.Comparisons > 0 {
		printKeyValue("Studies/edge", fmt.Sprintf("%.2f mean, %d max", st.MeanK, st.MaxK))
	}

	if net.Graph.Connected() {
		printKeyValue("Connected", StyleSuccess.Render("yes"))
	} else {
		printKeyValue("Connected", StyleWarning.Render(fmt.Sprintf("no, %d components", st.Components)))
	}
	if iso := net.Summary.Isolated(); len(iso) > 0 {
		printWarning("Treatments without comparisons: %s", strings.Join(iso, ", "))
	}
	for _, n := range net.Summary.Nodes {
		if !n.Listed {
			printDetail("%s is not in the configured display order; placed last", n.Treatment)
		}
	}

	printTitle("Treatments")
	fmt.Println(nodeTable(net.Summary.Nodes, net.Graph))
	printTitle("Comparisons")
	if len(net.Summary.Edges) == 0 {
		printInfo("No study compares two treatments")
		return
	}
	fmt.Println(edgeTable(net.Summary.Edges))
}
