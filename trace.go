package multibox

// trace.go writes the result of a run.  The format follows the extension of the
// output file name: .yaml/.yml and .json give a structured trace document, .tsv and
// .txt tab separated text, anything else comma separated text with the columns
// time, node_entered, node_left, particles_in_1, ..., particles_in_N

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// TraceRow is one row of the occupancy table in a trace document
type TraceRow struct {
	Time        float64 `json:"time" yaml:"time"`
	NodeEntered int     `json:"nodeentered" yaml:"nodeentered"`
	NodeLeft    int     `json:"nodeleft" yaml:"nodeleft"`
	Occupancy   []int   `json:"occupancy" yaml:"occupancy,flow"`
}

// TraceManager gathers what is known about a run and the table it produced,
// and serializes it
type TraceManager struct {
	// name of the scheme that was run
	ExpName string `json:"expname" yaml:"expname"`

	Horizon float64 `json:"horizon" yaml:"horizon"`
	Mode    string  `json:"mode" yaml:"mode"`

	// column names of the delimited form
	Columns []string `json:"columns" yaml:"columns"`

	Rows []TraceRow `json:"rows" yaml:"rows"`

	// per node summary of the table
	Summary []NodeSummary `json:"summary" yaml:"summary"`
}

// TableColumns returns the column names of a table over numNodes nodes
func TableColumns(numNodes int) []string {
	cols := []string{"time", "node_entered", "node_left"}
	for k := 1; k <= numNodes; k++ {
		cols = append(cols, fmt.Sprintf("particles_in_%d", k))
	}
	return cols
}

// CreateTraceManager is a constructor.  It copies the table rows out of ot
func CreateTraceManager(expName string, mode Mode, ot *OccupancyTable) *TraceManager {
	tm := new(TraceManager)
	tm.ExpName = expName
	tm.Horizon = ot.Horizon
	tm.Mode = mode.String()
	tm.Columns = TableColumns(ot.NumNodes)
	tm.Rows = make([]TraceRow, ot.Len())
	for r, rec := range ot.Records {
		tm.Rows[r] = TraceRow{Time: rec.Time, NodeEntered: rec.NodeEntered, NodeLeft: rec.NodeLeft, Occupancy: ot.Row(r)}
	}
	tm.Summary = Summarize(ot)
	return tm
}

// formatTime renders a time with the fewest digits that read back exactly
func formatTime(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}

// WriteDelimited writes the table as delimited text, header first
func (tm *TraceManager) WriteDelimited(w io.Writer, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep
	if err := cw.Write(tm.Columns); err != nil {
		return err
	}
	fields := make([]string, len(tm.Columns))
	for _, row := range tm.Rows {
		fields = fields[:0]
		fields = append(fields, formatTime(row.Time), strconv.Itoa(row.NodeEntered), strconv.Itoa(row.NodeLeft))
		for _, level := range row.Occupancy {
			fields = append(fields, strconv.Itoa(level))
		}
		if err := cw.Write(fields); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Encode serializes the trace in the format selected by the extension of filename
func (tm *TraceManager) Encode(w io.Writer, filename string) error {
	pathExt := strings.ToLower(path.Ext(filename))
	switch pathExt {
	case ".yaml", ".yml":
		bytes, merr := yaml.Marshal(*tm)
		if merr != nil {
			return merr
		}
		_, werr := w.Write(bytes)
		return werr
	case ".json":
		bytes, merr := json.MarshalIndent(*tm, "", "\t")
		if merr != nil {
			return merr
		}
		_, werr := w.Write(bytes)
		return werr
	case ".tsv", ".txt":
		return tm.WriteDelimited(w, '\t')
	}
	return tm.WriteDelimited(w, ',')
}

// WriteToFile stores the trace to the file whose name is given.  The content is written
// to a temporary file in the same directory which is renamed into place only once
// complete, so a failed write leaves no partial output behind
func (tm *TraceManager) WriteToFile(filename string) error {
	dir := filepath.Dir(filename)
	f, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".*")
	if err != nil {
		return err
	}
	tmpName := f.Name()

	werr := f.Chmod(0o644)
	if werr == nil {
		werr = tm.Encode(f, filename)
	}
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Rename(tmpName, filename)
	}
	if werr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", filename, werr)
	}
	return nil
}
