package multibox

// desc-scheme.go holds the description of a simulation scheme: the table of nodes
// and the routing matrix, along with the readers that build one from the
// whitespace separated 'nodes' and 'transitions' files, and serialization
// of the whole description to json or yaml

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"gopkg.in/yaml.v3"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// names of the files a scheme directory holds
const (
	NodesFileName       = "nodes"
	TransitionsFileName = "transitions"
)

// maxRowBytes bounds the length of one line of a node or transitions file.
// A transitions row grows with the number of nodes
const maxRowBytes = 64 << 20

// schemeDocNames are the single-document scheme files LoadScheme looks for
// when a scheme directory has no 'nodes' file
var schemeDocNames []string = []string{"scheme.yaml", "scheme.yml", "scheme.json"}

// A NodeDesc describes one node of the scheme.  BirthRate is the rate of the
// Poisson arrival process into the node (zero means no spontaneous arrivals),
// HoldingRate the rate of the exponential holding time of an occupant
type NodeDesc struct {
	ID          int     `json:"id" yaml:"id"`
	BirthRate   float64 `json:"birthrate" yaml:"birthrate"`
	HoldingRate float64 `json:"holdingrate" yaml:"holdingrate"`
}

// SchemeDesc is the serializable description of a network of nodes.
// Transitions[i-1] is the distribution of destinations {0,1,...,N} of a particle
// leaving node i, where destination 0 is the permanent exit
type SchemeDesc struct {
	Name        string      `json:"name" yaml:"name"`
	Nodes       []NodeDesc  `json:"nodes" yaml:"nodes"`
	Transitions [][]float64 `json:"transitions" yaml:"transitions"`
}

// CreateSchemeDesc is a constructor
func CreateSchemeDesc(name string) *SchemeDesc {
	sd := new(SchemeDesc)
	sd.Name = name
	sd.Nodes = make([]NodeDesc, 0)
	sd.Transitions = make([][]float64, 0)
	return sd
}

// AddNode appends a node with the next id, together with its routing row,
// and returns the id given to the node
func (sd *SchemeDesc) AddNode(birthRate, holdingRate float64, row []float64) int {
	id := len(sd.Nodes) + 1
	sd.Nodes = append(sd.Nodes, NodeDesc{ID: id, BirthRate: birthRate, HoldingRate: holdingRate})
	sd.Transitions = append(sd.Transitions, append([]float64(nil), row...))
	return id
}

// NumNodes gives the number of nodes, not counting the exit
func (sd *SchemeDesc) NumNodes() int {
	return len(sd.Nodes)
}

// Node returns the description of the node with the given id
func (sd *SchemeDesc) Node(id int) NodeDesc {
	return sd.Nodes[id-1]
}

// Row returns the routing distribution of the node with the given id
func (sd *SchemeDesc) Row(id int) []float64 {
	return sd.Transitions[id-1]
}

// WriteToFile stores the SchemeDesc struct to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
func (sd *SchemeDesc) WriteToFile(filename string) error {
	pathExt := path.Ext(filename)
	var bytes []byte
	var merr error = nil

	if pathExt == ".yaml" || pathExt == ".YAML" || pathExt == ".yml" {
		bytes, merr = yaml.Marshal(*sd)
	} else if pathExt == ".json" || pathExt == ".JSON" {
		bytes, merr = json.MarshalIndent(*sd, "", "\t")
	} else {
		return fmt.Errorf("scheme file %s must have a yaml or json extension", filename)
	}

	if merr != nil {
		return merr
	}
	return os.WriteFile(filename, bytes, 0o644)
}

// ReadSchemeDesc deserializes a byte slice holding a representation of a SchemeDesc struct.
// If the input argument of dict (those bytes) is empty, the file whose name is given is read
// to acquire them.  A deserialized representation is returned, or an error if one is generated
// from a file read or the deserialization.
func ReadSchemeDesc(filename string, useYAML bool, dict []byte) (*SchemeDesc, error) {
	var err error

	// if the dict slice of bytes is empty we get them from the file whose name is an argument
	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return nil, &InputFormatError{File: filename, Msg: "cannot be read", Err: err}
		}
	}

	example := SchemeDesc{}

	if useYAML {
		err = yaml.Unmarshal(dict, &example)
	} else {
		err = json.Unmarshal(dict, &example)
	}

	if err != nil {
		return nil, &InputFormatError{File: filename, Msg: "cannot be decoded", Err: err}
	}

	// ids are positional; a description that leaves them out gets them filled in
	for idx := range example.Nodes {
		if example.Nodes[idx].ID == 0 {
			example.Nodes[idx].ID = idx + 1
		}
	}
	return &example, nil
}

// readTable parses whitespace separated rows of numbers.  Blank lines are skipped.
// When width is positive every row must have exactly that many columns, otherwise
// every row must have as many columns as the first one.
func readTable(name string, rdr io.Reader, width int) ([][]float64, error) {
	rows := make([][]float64, 0)
	scanner := bufio.NewScanner(rdr)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRowBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo += 1
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if width <= 0 {
			width = len(fields)
		}
		rowNo := len(rows) + 1
		if len(fields) != width {
			return nil, &InputFormatError{File: name, Row: rowNo,
				Msg: fmt.Sprintf("has %d columns, want %d", len(fields), width)}
		}
		row := make([]float64, width)
		for col, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, &InputFormatError{File: name, Row: rowNo, Column: col + 1,
					Msg: fmt.Sprintf("value %q is not numeric", field), Err: err}
			}
			row[col] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, &InputFormatError{File: name, Msg: "cannot be read", Err: err}
	}
	if len(rows) == 0 {
		return nil, &InputFormatError{File: name, Msg: "holds no rows"}
	}
	return rows, nil
}

// ReadNodes parses a node table: one row per node in id order starting at 1,
// with the two columns 'birth_rate lifetime_rate'
func ReadNodes(name string, rdr io.Reader) ([]NodeDesc, error) {
	rows, err := readTable(name, rdr, 2)
	if err != nil {
		return nil, err
	}
	nodes := make([]NodeDesc, len(rows))
	for idx, row := range rows {
		nodes[idx] = NodeDesc{ID: idx + 1, BirthRate: row[0], HoldingRate: row[1]}
	}
	return nodes, nil
}

// ReadTransitions parses a routing matrix.  The row width is taken from the first
// row and must be the same for all; agreement with the node table is checked by Validate
func ReadTransitions(name string, rdr io.Reader) ([][]float64, error) {
	return readTable(name, rdr, 0)
}

// readSchemeFile opens the named file under dir and hands it to parse
func readSchemeFile[T any](dir, name string, parse func(string, io.Reader) (T, error)) (T, error) {
	var zero T
	fullName := filepath.Join(dir, name)
	f, err := os.Open(fullName)
	if err != nil {
		return zero, &InputFormatError{File: fullName, Msg: "cannot be opened", Err: err}
	}
	defer f.Close()
	return parse(fullName, f)
}

// LoadScheme builds and validates the SchemeDesc held in directory dir.  The directory
// holds either the two files 'nodes' and 'transitions', or a single scheme.yaml, scheme.yml
// or scheme.json document.  Any error is one of InputFormatError, StochasticValidationError
// or DomainError
func LoadScheme(dir string) (*SchemeDesc, error) {
	fileInfo, err := os.Stat(dir)
	if err != nil || !fileInfo.IsDir() {
		return nil, &InputFormatError{File: dir, Msg: "scheme directory does not exist or cannot be read", Err: err}
	}

	var sd *SchemeDesc
	_, err = os.Stat(filepath.Join(dir, NodesFileName))
	if errors.Is(err, fs.ErrNotExist) {
		for _, docName := range schemeDocNames {
			docPath := filepath.Join(dir, docName)
			if _, serr := os.Stat(docPath); serr != nil {
				continue
			}
			sd, err = ReadSchemeDesc(docPath, path.Ext(docName) != ".json", nil)
			if err != nil {
				return nil, err
			}
			break
		}
	}

	if sd == nil {
		sd = CreateSchemeDesc(filepath.Base(dir))
		sd.Nodes, err = readSchemeFile(dir, NodesFileName, ReadNodes)
		if err != nil {
			return nil, err
		}
		sd.Transitions, err = readSchemeFile(dir, TransitionsFileName, ReadTransitions)
		if err != nil {
			return nil, err
		}
	}
	if sd.Name == "" {
		sd.Name = filepath.Base(dir)
	}

	if err := sd.Validate(); err != nil {
		return nil, err
	}
	return sd, nil
}
