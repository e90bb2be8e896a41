package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pdrpinto/pathfinding/config"
	"github.com/pdrpinto/pathfinding/graphfile"
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// varFlag collects repeated -var name=value flags.
type varFlag map[string]float64

func (v varFlag) String() string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+strconv.FormatFloat(v[name], 'g', -1, 64))
	}
	return strings.Join(parts, ",")
}

func (v varFlag) Set(value string) error {
	name, raw, found := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return errors.New("must have the form name=value")
	}
	number, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("value of %s is not a number: %w", name, err)
	}
	if math.IsNaN(number) || math.IsInf(number, 0) {
		return fmt.Errorf("value of %s: %w", name, graphfile.ErrInvalidVariable)
	}
	v[name] = number
	return nil
}

type options struct {
	configPath string
	graphPath  string
	vars       varFlag
	server     bool
	compare    bool
	tui        bool
	version    bool

	// overrides of the loaded configuration, applied only when set
	set       map[string]bool
	algorithm string
	start     string
	end       string
	step      bool
	workers   int
	addr      string
	logLevel  string
	logFormat string
	history   string
}

// parseArgs processes command-line arguments. It reports whether the
// program should exit cleanly, as it does after -h.
func parseArgs(args []string, output io.Writer) (*options, bool, error) {
	opts := &options{vars: varFlag{}, set: map[string]bool{}}

	flagSet := flag.NewFlagSet("pathviz", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
pathviz - step through DFS, BFS, Dijkstra and A* searches.

Usage:
  pathviz [options]

Without -graph pathviz searches a generated grid. On a terminal it opens the
interactive visualizer; otherwise it runs the search and prints the result.

Options:
`)
		flagSet.PrintDefaults()
	}

	flagSet.StringVar(&opts.configPath, "config", "", "Path to a YAML config file.")
	flagSet.StringVar(&opts.graphPath, "graph", "", "Path to an HCL (.hcl) or DOT (.dot, .gv) graph file.")
	flagSet.Var(opts.vars, "var", "Graph file variable as name=value. Repeatable.")
	flagSet.BoolVar(&opts.server, "server", false, "Serve the HTTP API.")
	flagSet.BoolVar(&opts.compare, "compare", false, "Run every algorithm and print a markdown comparison.")
	flagSet.BoolVar(&opts.tui, "tui", false, "Open the terminal visualizer.")
	flagSet.BoolVar(&opts.version, "version", false, "Print the version and exit.")

	flagSet.StringVar(&opts.algorithm, "algorithm", "", "Search algorithm: dfs, bfs, dijkstra or astar.")
	flagSet.StringVar(&opts.start, "start", "", `Start node. On grids a cell as "x, y".`)
	flagSet.StringVar(&opts.end, "end", "", `End node. On grids a cell as "x, y".`)
	flagSet.BoolVar(&opts.step, "step", false, "Print every search event of a headless run.")
	flagSet.IntVar(&opts.workers, "workers", 0, "Parallel runs of -compare. 0 is one per CPU.")
	flagSet.StringVar(&opts.addr, "addr", "", "Listen address of -server.")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "Logging level: debug, info, warn or error.")
	flagSet.StringVar(&opts.logFormat, "log-format", "", "Log output format: text or json.")
	flagSet.StringVar(&opts.history, "history", "", "Path of the sqlite result history.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(0))}
	}
	flagSet.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	modes := 0
	for _, mode := range []bool{opts.server, opts.compare, opts.tui} {
		if mode {
			modes++
		}
	}
	if modes > 1 {
		return nil, false, &ExitError{Code: 2, Message: "-server, -compare and -tui are mutually exclusive"}
	}
	if opts.tui && opts.graphPath != "" {
		return nil, false, &ExitError{Code: 2, Message: "-tui only visualizes generated grids"}
	}
	return opts, false, nil
}

// apply copies the flags that were set onto cfg.
func (opts *options) apply(cfg *config.Config) {
	overrides := map[string]func(){
		"algorithm":  func() { cfg.Search.Algorithm = opts.algorithm },
		"start":      func() { cfg.Search.Start = opts.start },
		"end":        func() { cfg.Search.End = opts.end },
		"step":       func() { cfg.Search.Step = opts.step },
		"workers":    func() { cfg.Search.Workers = opts.workers },
		"addr":       func() { cfg.Server.Addr = opts.addr },
		"log-level":  func() { cfg.Log.Level = opts.logLevel },
		"log-format": func() { cfg.Log.Format = opts.logFormat },
		"history":    func() { cfg.History.Path = opts.history },
	}
	for name, override := range overrides {
		if opts.set[name] {
			override()
		}
	}
}
