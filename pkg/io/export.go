package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/nmanet/pkg/network"
)

type document struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	Treatment string `json:"treatment"`
	Class     string `json:"class"`
	NTotal    int    `json:"n_total"`
	Studies   int    `json:"studies"`
	Rank      int    `json:"rank"`
	Listed    bool   `json:"listed"`
}

type edge struct {
	T1   string `json:"t1"`
	T2   string `json:"t2"`
	K    int    `json:"k"`
	NSum int    `json:"n_sum"`
}

// MarshalJSON encodes a summary as indented JSON.
func MarshalJSON(s *network.Summary) ([]byte, error) {
	out := document{
		Nodes: make([]node, len(s.Nodes)),
		Edges: make([]edge, len(s.Edges)),
	}
	for i, n := range s.Nodes {
		out.Nodes[i] = node{
			Treatment: n.Treatment,
			Class:     n.Class.String(),
			NTotal:    n.NTotal,
			Studies:   n.Studies,
			Rank:      n.Rank,
			Listed:    n.Listed,
		}
	}
	for i, e := range s.Edges {
		out.Edges[i] = edge{T1: e.T1, T2: e.T2, K: e.K, NSum: e.NSum}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteJSON encodes a summary as JSON and writes it to w.
func WriteJSON(s *network.Summary, w io.Writer) error {
	data, err := MarshalJSON(s)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteEdgesCSV writes the edge summary table to w.
func WriteEdgesCSV(edges []network.EdgeSummary, w io.Writer) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"t1", "t2", "k", "n_sum"})
	for _, e := range edges {
		_ = cw.Write([]string{e.T1, e.T2, strconv.Itoa(e.K), strconv.Itoa(e.NSum)})
	}
	cw.Flush()
	return cw.Error()
}

// WriteNodesCSV writes the node summary table to w.
func WriteNodesCSV(nodes []network.NodeSummary, w io.Writer) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"treatment", "class", "n_total", "studies", "rank", "listed"})
	for _, n := range nodes {
		_ = cw.Write([]string{
			n.Treatment,
			n.Class.String(),
			strconv.Itoa(n.NTotal),
			strconv.Itoa(n.Studies),
			strconv.Itoa(n.Rank),
			strconv.FormatBool(n.Listed),
		})
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes edges.csv and nodes.csv into dir, creating it if needed,
// and returns the written paths.
func ExportCSV(s *network.Summary, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"edges.csv", func(w io.Writer) error { return WriteEdgesCSV(s.Edges, w) }},
		{"nodes.csv", func(w io.Writer) error { return WriteNodesCSV(s.Nodes, w) }},
	}
	var paths []string
	for _, f := range files {
		path := dir + string(os.PathSeparator) + f.name
		if err := writeFile(path, f.write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
