package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/nmanet/pkg/config"
	"github.com/matzehuels/nmanet/pkg/errors"
	"github.com/matzehuels/nmanet/pkg/models"
	"github.com/matzehuels/nmanet/pkg/network"
	"github.com/matzehuels/nmanet/pkg/regimen"
	"github.com/matzehuels/nmanet/pkg/trial"
)

func testNetwork(t *testing.T) (*network.Summary, *network.Graph) {
	t.Helper()
	aggs := []trial.StudyTreatment{
		{Study: "S1", Treatment: "Placebo", Class: regimen.Placebo, N: 50},
		{Study: "S1", Treatment: "DEX", Class: regimen.DEX, N: 52},
		{Study: "S2", Treatment: "Custom", Class: regimen.Other, N: 10},
	}
	o, err := regimen.NewOrdering([]string{"Placebo", "DEX"}, regimen.UnlistedLast)
	if err != nil {
		t.Fatal(err)
	}
	s, err := network.Summarize(aggs, o)
	if err != nil {
		t.Fatal(err)
	}
	g, err := network.Build(s)
	if err != nil {
		t.Fatal(err)
	}
	return s, g
}

func TestNodeTable(t *testing.T) {
	s, g := testNetwork(t)
	out := nodeTable(s.Nodes, g)
	for _, want := range []string{"Treatment", "Placebo", "DEX", "Custom", "Other", "52"} {
		if !strings.Contains(out, want) {
			t.Errorf("nodeTable() missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Placebo") > strings.Index(out, "DEX") {
		t.Error("nodeTable() should keep display order")
	}
	if !strings.Contains(out, "–") {
		t.Error("nodeTable() should mark unlisted treatments")
	}
}

func TestEdgeTable(t *testing.T) {
	s, _ := testNetwork(t)
	out := edgeTable(s.Edges)
	for _, want := range []string{"DEX", "Placebo", "102"} {
		if !strings.Contains(out, want) {
			t.Errorf("edgeTable() missing %q:\n%s", want, out)
		}
	}
}

func TestModelTables(t *testing.T) {
	out := modelTable(models.Registry())
	for _, name := range models.Names() {
		if !strings.Contains(out, name) {
			t.Errorf("modelTable() missing %q", name)
		}
	}

	cs := models.Compare([]models.Fit{{Model: "emax", DIC: 10}, {Model: "linear", DIC: 20}})
	out = comparisonTable(cs)
	for _, want := range []string{"emax", "linear", "10.00", "0.993"} {
		if !strings.Contains(out, want) {
			t.Errorf("comparisonTable() missing %q:\n%s", want, out)
		}
	}
}

func TestVariantTable(t *testing.T) {
	out := variantTable(config.Default().Variants)
	for _, want := range []string{"equal-dose", "exchangeable-dose", "mPSL_medium"} {
		if !strings.Contains(out, want) {
			t.Errorf("variantTable() missing %q:\n%s", want, out)
		}
	}
}

func TestRunNetwork(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	input := filepath.Join(dir, "ards_equal-dose_model.csv")
	csv := "study,t..1.,t..2.,n..1.,n..2.,r..1.,r..2.\nS1,Placebo,DEX,50,52,10,8\nS2,Placebo,HC,30,31,5,6\n"
	if err := os.WriteFile(input, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(&strings.Builder{}, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"network", input, "-f", "dot", "-q", "-o", filepath.Join(dir, "out", "net.dot")})
	if err := root.Execute(); err != nil {
		t.Fatalf("network command error: %v", err)
	}

	dot, err := os.ReadFile(filepath.Join(dir, "out", "net.dot"))
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(string(dot), `"DEX" -- "Placebo"`) {
		t.Errorf("unexpected DOT:\n%s", dot)
	}
}

func TestRunNetwork_DataError(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ards_equal-dose_model.csv")
	if err := os.WriteFile(input, []byte("study,t..x.,n..1.,r..1.\nS1,A,1,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(&strings.Builder{}, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"network", input, "-f", "dot", "--no-cache"})
	err := root.Execute()
	if err == nil || !strings.HasPrefix(err.Error(), "invalid trial table:") {
		t.Errorf("network command error = %v", err)
	}
}

func TestRunSummary_CSV(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ards_equal-dose_model.csv")
	csv := "study,t..1.,t..2.,n..1.,n..2.,r..1.,r..2.\nS1,Placebo,DEX,50,52,10,8\nS2,Placebo,DEX,30,31,5,6\n"
	if err := os.WriteFile(input, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "tables")
	c := New(&strings.Builder{}, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"summary", input, "--csv", out})
	if err := root.Execute(); err != nil {
		t.Fatalf("summary command error: %v", err)
	}

	edges, err := os.ReadFile(filepath.Join(out, "edges.csv"))
	if err != nil {
		t.Fatalf("edges.csv not written: %v", err)
	}
	if want := "t1,t2,k,n_sum\nDEX,Placebo,2,163\n"; string(edges) != want {
		t.Errorf("edges.csv = %q, want %q", edges, want)
	}
	if _, err := os.Stat(filepath.Join(out, "nodes.csv")); err != nil {
		t.Errorf("nodes.csv not written: %v", err)
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "dot": []byte("graph NMA {}")}

	paths, err := writeArtifacts(filepath.Join(dir, "out", "net"), []string{"svg", "dot"}, artifacts)
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	want := []string{filepath.Join(dir, "out", "net.svg"), filepath.Join(dir, "out", "net.dot")}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	if data, _ := os.ReadFile(want[0]); string(data) != "<svg/>" {
		t.Errorf("svg content = %q", data)
	}
}

func TestWriteArtifacts_Failure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "out")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	paths, err := writeArtifacts(filepath.Join(blocker, "net"), []string{"svg"}, map[string][]byte{"svg": nil})
	if err == nil {
		t.Fatal("writeArtifacts() into a file path should fail")
	}
	if len(paths) != 0 {
		t.Errorf("paths = %v, want none", paths)
	}
}

func TestDescribeDataError(t *testing.T) {
	data := errors.New(errors.ErrCodeInvalidSchema, "column t..x. has no arm index")
	got := describeDataError(data)
	if got.Error() != "invalid trial table: column t..x. has no arm index" {
		t.Errorf("describeDataError(data) = %q", got)
	}

	tool := errors.New(errors.ErrCodeUnsupported, "rsvg-convert not found")
	if got := describeDataError(tool); got != error(tool) {
		t.Errorf("describeDataError(tool) = %v, want unchanged", got)
	}
}
