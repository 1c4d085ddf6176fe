package trial

import (
	"encoding/csv"
	stderrors "errors"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/nmanet/pkg/errors"
)

// Schema names the columns of a wide trial table.
type Schema struct {
	StudyColumn     string
	TreatmentPrefix string
	SizePrefix      string
	ResponderPrefix string
	// DropPrefixes removes stray columns (e.g. row indexes) before reshaping.
	DropPrefixes []string
}

// DefaultSchema matches tables exported with R-style mangled column names.
var DefaultSchema = Schema{
	StudyColumn:     "study",
	TreatmentPrefix: "t..",
	SizePrefix:      "n..",
	ResponderPrefix: "r..",
	DropPrefixes:    []string{"na.."},
}

// Table is a wide trial-record table held as raw string cells.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// ReadCSV reads a wide table from r. Header names are trimmed; every row must
// have as many cells as the header.
func ReadCSV(r io.Reader, name string) (*Table, error) {
	rd := csv.NewReader(r)
	rd.TrimLeadingSpace = true

	header, err := rd.Read()
	if stderrors.Is(err, io.EOF) {
		return nil, errors.New(errors.ErrCodeDegenerateInput, "%s: empty file", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSchema, err, "%s: read header", name)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	rows, err := rd.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSchema, err, "%s: read rows", name)
	}
	return &Table{Name: name, Header: header, Rows: rows}, nil
}

// LoadCSV opens path and reads it with [ReadCSV].
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadCSV(f, path)
}

// Column returns the index of the named column, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Drop returns a copy of t without columns starting with any of prefixes.
func (t *Table) Drop(prefixes ...string) *Table {
	var keep []int
	for i, h := range t.Header {
		if !hasAnyPrefix(h, prefixes) {
			keep = append(keep, i)
		}
	}
	out := &Table{Name: t.Name, Header: make([]string, len(keep)), Rows: make([][]string, len(t.Rows))}
	for j, i := range keep {
		out.Header[j] = t.Header[i]
	}
	for r, row := range t.Rows {
		cells := make([]string, len(keep))
		for j, i := range keep {
			cells[j] = row[i]
		}
		out.Rows[r] = cells
	}
	return out
}

// Studies returns the study labels in row order.
func (t *Table) Studies(schema Schema) ([]string, error) {
	col := t.Column(schema.StudyColumn)
	if col < 0 {
		return nil, errors.New(errors.ErrCodeInvalidSchema, "%s: missing study column %q", t.Name, schema.StudyColumn)
	}
	studies := make([]string, 0, len(t.Rows))
	for i, row := range t.Rows {
		s := strings.TrimSpace(row[col])
		if isMissing(s) {
			return nil, errors.New(errors.ErrCodeInvalidSchema, "%s: row %d has no study label", t.Name, i+1)
		}
		studies = append(studies, s)
	}
	return studies, nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// isMissing reports whether a cell holds no value. R writes NA for missing.
func isMissing(s string) bool {
	return s == "" || s == "NA"
}
