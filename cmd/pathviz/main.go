// Command pathviz runs incremental graph searches on generated grids and on
// HCL or DOT graph files, in a terminal visualizer, over HTTP or headless.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/pdrpinto/pathfinding"
	"github.com/pdrpinto/pathfinding/config"
	"github.com/pdrpinto/pathfinding/graphfile"
	"github.com/pdrpinto/pathfinding/grid"
	"github.com/pdrpinto/pathfinding/logging"
	"github.com/pdrpinto/pathfinding/report"
	"github.com/pdrpinto/pathfinding/store"
	"github.com/pdrpinto/pathfinding/tui"
	"github.com/pdrpinto/pathfinding/web"
)

var version = "dev"

func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run holds the application logic so tests can drive it with their own writers.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, shouldExit, err := parseArgs(args, stdout)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}
	if opts.version {
		fmt.Fprintln(stdout, "pathviz", version)
		return nil
	}

	cfg, err := config.Load(opts.configPath, ".env")
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	interactive := opts.tui || (!opts.server && !opts.compare && opts.graphPath == "" && isTerminal(stdout))
	logOutput := stderr
	if interactive {
		// the terminal belongs to the visualizer
		logOutput = io.Discard
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, logOutput)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	ctx = logging.WithLogger(ctx, logger)

	var history *store.History
	if cfg.History.Path != "" {
		history, err = store.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer history.Close()
	}

	switch {
	case opts.server:
		return serve(ctx, cfg, history)
	case interactive:
		return visualize(ctx, cfg)
	}

	target, err := loadTarget(cfg, opts)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if opts.compare {
		return compare(ctx, cfg, target, history, stdout)
	}
	return search(ctx, cfg, target, history, stdout)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func gridConfig(cfg config.Config, protect ...grid.Point) grid.Config {
	return grid.Config{
		Width:      cfg.Grid.Width,
		Height:     cfg.Grid.Height,
		Seed:       cfg.Grid.Seed,
		NoiseScale: cfg.Grid.NoiseScale,
		Obstacles: grid.Obstacles{
			Clusters: cfg.Grid.Obstacles.Clusters,
			Steps:    cfg.Grid.Obstacles.Steps,
			Density:  cfg.Grid.Obstacles.Density,
		},
		Protect: protect,
	}
}

// target is the graph and endpoints a search runs on.
type target struct {
	graphID   string
	graph     *pathfinding.Graph
	start     *pathfinding.Node
	end       *pathfinding.Node
	heuristic pathfinding.Heuristic
}

func zeroHeuristic(*pathfinding.Graph, *pathfinding.Node, *pathfinding.Node) float64 { return 0 }

// gridEndpoints parses the configured endpoints, defaulting to opposite corners.
func gridEndpoints(cfg config.Config) (grid.Point, grid.Point, error) {
	start := grid.Point{}
	end := grid.Point{X: cfg.Grid.Width - 1, Y: cfg.Grid.Height - 1}
	var err error
	if cfg.Search.Start != "" {
		if start, err = grid.Coordinates(cfg.Search.Start); err != nil {
			return start, end, fmt.Errorf("invalid start: %w", err)
		}
	}
	if cfg.Search.End != "" {
		if end, err = grid.Coordinates(cfg.Search.End); err != nil {
			return start, end, fmt.Errorf("invalid end: %w", err)
		}
	}
	return start, end, nil
}

func loadTarget(cfg config.Config, opts *options) (*target, error) {
	if opts.graphPath != "" {
		graph, err := graphfile.Load(opts.graphPath, opts.vars)
		if err != nil {
			return nil, err
		}
		if cfg.Search.Start == "" || cfg.Search.End == "" {
			return nil, errors.New("-start and -end are required with -graph")
		}
		start, err := graph.Node(cfg.Search.Start)
		if err != nil {
			return nil, err
		}
		end, err := graph.Node(cfg.Search.End)
		if err != nil {
			return nil, err
		}
		return &target{
			graphID:   filepath.Base(opts.graphPath),
			graph:     graph,
			start:     start,
			end:       end,
			heuristic: zeroHeuristic,
		}, nil
	}

	startPoint, endPoint, err := gridEndpoints(cfg)
	if err != nil {
		return nil, err
	}
	g, err := grid.New(gridConfig(cfg, startPoint, endPoint))
	if err != nil {
		return nil, err
	}
	start, end := g.Node(startPoint), g.Node(endPoint)
	if start == nil || end == nil {
		return nil, fmt.Errorf("endpoints %s and %s must lie inside the %dx%d grid",
			startPoint, endPoint, g.Width, g.Height)
	}
	return &target{
		graphID:   fmt.Sprintf("grid-%dx%d-%d", g.Width, g.Height, cfg.Grid.Seed),
		graph:     g.Graph(),
		start:     start,
		end:       end,
		heuristic: grid.Manhattan,
	}, nil
}

// search runs one algorithm to its end and prints the result line and path.
func search(ctx context.Context, cfg config.Config, t *target, history *store.History, stdout io.Writer) error {
	logger := logging.FromContext(ctx)
	algorithm, err := pathfinding.ParseAlgorithm(cfg.Search.Algorithm)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	run, err := pathfinding.Start(t.graph, algorithm, t.start, t.end, cfg.Search.Step,
		pathfinding.WithHeuristic(t.heuristic),
		pathfinding.WithLogger(logger))
	if err != nil {
		return err
	}
	for !run.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := run.Resume(); err != nil {
			return err
		}
		if cfg.Search.Step {
			for _, entry := range run.DrainLog() {
				fmt.Fprintln(stdout, entry)
			}
		}
	}
	result, err := run.Result()
	if err != nil {
		return err
	}

	if result.Found {
		fmt.Fprintln(stdout, report.ResultLine(result))
		fmt.Fprintln(stdout, "Path:", strings.Join(result.PathNames(), " -> "))
	} else {
		fmt.Fprintf(stdout, "No path found, Nodes explored: %d\n", result.NodesExplored)
	}

	if history != nil {
		record, err := history.Save(ctx, store.NewRecord(t.graphID, algorithm, t.start.Name(), t.end.Name(), result))
		if err != nil {
			return err
		}
		logger.Debug("result recorded", "result_id", record.ID.String())
	}
	return nil
}

// compare runs every algorithm and prints a markdown comparison table.
func compare(ctx context.Context, cfg config.Config, t *target, history *store.History, stdout io.Writer) error {
	options := []pathfinding.Option{
		pathfinding.WithHeuristic(t.heuristic),
		pathfinding.WithLogger(logging.FromContext(ctx)),
	}
	if cfg.Search.Workers > 0 {
		options = append(options, pathfinding.WithWorkers(cfg.Search.Workers))
	}
	comparisons, err := pathfinding.Compare(ctx, t.graph, t.start, t.end, pathfinding.Algorithms(), options...)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s to %s", t.start.Name(), t.end.Name())
	fmt.Fprint(stdout, report.Markdown(title, report.FromComparisons(comparisons)))

	if history == nil {
		return nil
	}
	for _, comparison := range comparisons {
		record := store.NewRecord(t.graphID, comparison.Algorithm, t.start.Name(), t.end.Name(), comparison.Result)
		if _, err := history.Save(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func serve(ctx context.Context, cfg config.Config, history *store.History) error {
	server := web.NewServer(web.Config{
		Addr:    cfg.Server.Addr,
		Grid:    gridConfig(cfg),
		Workers: cfg.Search.Workers,
		History: history,
		Logger:  logging.FromContext(ctx),
	})
	return server.ListenAndServe(ctx)
}

func visualize(ctx context.Context, cfg config.Config) error {
	startPoint, endPoint, err := gridEndpoints(cfg)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	g, err := grid.New(gridConfig(cfg, startPoint, endPoint))
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	model, err := tui.New(tui.Options{
		Grid:     g,
		Start:    startPoint,
		End:      endPoint,
		Autoplay: cfg.Autoplay,
		Logger:   logging.FromContext(ctx),
	})
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
