// Package graphfile loads graphs from HCL and Graphviz DOT definitions.
//
// HCL files declare nodes with nested edge blocks:
//
//	node "A" {
//	  edge "B" {
//	    weight        = var.base * 2
//	    bidirectional = true
//	  }
//	}
//	node "B" {}
//
// Weights may reference numeric variables through var.<name>. A missing
// weight defaults to 1.
package graphfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdrpinto/pathfinding"
)

// ErrUnknownFormat is returned for files that are neither HCL nor DOT.
var ErrUnknownFormat = errors.New("unknown graph format")

// ErrInvalidVariable is returned for NaN and infinite graph file variables.
var ErrInvalidVariable = errors.New("variable must be a finite number")

// Format is a graph definition syntax.
type Format string

const (
	FormatHCL Format = "hcl"
	FormatDOT Format = "dot"
)

// ParseFormat accepts a format name or a file extension with or without the dot.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "hcl":
		return FormatHCL, nil
	case "dot", "gv":
		return FormatDOT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Load reads and parses the graph file at path. vars are visible to HCL
// files as var.<name> and ignored for DOT.
func Load(path string, vars map[string]float64) (*pathfinding.Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file %s: %w", path, err)
	}
	return Parse(format, src, path, vars)
}

// Parse builds a graph from src. filename only labels diagnostics.
func Parse(format Format, src []byte, filename string, vars map[string]float64) (*pathfinding.Graph, error) {
	switch format {
	case FormatHCL:
		return ParseHCL(src, filename, vars)
	case FormatDOT:
		return ParseDOT(src)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
