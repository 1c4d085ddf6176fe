package io

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/nmanet/pkg/network"
	"github.com/matzehuels/nmanet/pkg/regimen"
	"github.com/matzehuels/nmanet/pkg/trial"
)

func testSummary(t *testing.T) *network.Summary {
	t.Helper()
	aggs := []trial.StudyTreatment{
		{Study: "Study1", Treatment: "Placebo", Class: regimen.Placebo, N: 50},
		{Study: "Study1", Treatment: "DrugA", Class: regimen.Other, N: 52},
		{Study: "Study2", Treatment: "Placebo", Class: regimen.Placebo, N: 30},
		{Study: "Study2", Treatment: "DrugA", Class: regimen.Other, N: 31},
		{Study: "Study2", Treatment: "DrugB", Class: regimen.Other, N: 29},
	}
	o, err := regimen.NewOrdering([]string{"Placebo", "DrugA", "DrugB"}, regimen.UnlistedLast)
	if err != nil {
		t.Fatal(err)
	}
	s, err := network.Summarize(aggs, o)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(testSummary(t), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var doc document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	wantEdges := []edge{
		{T1: "DrugA", T2: "DrugB", K: 1, NSum: 60},
		{T1: "DrugA", T2: "Placebo", K: 2, NSum: 163},
		{T1: "DrugB", T2: "Placebo", K: 1, NSum: 59},
	}
	if diff := cmp.Diff(wantEdges, doc.Edges); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
	if doc.Nodes[0] != (node{Treatment: "Placebo", Class: "Placebo", NTotal: 80, Studies: 2, Rank: 0, Listed: true}) {
		t.Errorf("first node = %+v", doc.Nodes[0])
	}
}

func TestWriteCSV(t *testing.T) {
	s := testSummary(t)

	var edges bytes.Buffer
	if err := WriteEdgesCSV(s.Edges, &edges); err != nil {
		t.Fatal(err)
	}
	want := "t1,t2,k,n_sum\nDrugA,DrugB,1,60\nDrugA,Placebo,2,163\nDrugB,Placebo,1,59\n"
	if edges.String() != want {
		t.Errorf("WriteEdgesCSV() =\n%s\nwant\n%s", edges.String(), want)
	}

	var nodes bytes.Buffer
	if err := WriteNodesCSV(s.Nodes, &nodes); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(nodes.String()), "\n")
	if len(lines) != 4 || lines[3] != "DrugB,Other,29,1,2,true" {
		t.Errorf("WriteNodesCSV() =\n%s", nodes.String())
	}
}

func TestExportCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tables")
	paths, err := ExportCSV(testSummary(t), dir)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
}
