// Package grid generates rectangular grid graphs over a noise height map.
//
// Every cell is a node named "x, y" connected to its four neighbours in both
// directions. Walking uphill costs more than walking downhill, so weighted
// algorithms route around hills while breadth-first search does not.
package grid

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/aquilax/go-perlin"

	"github.com/pdrpinto/pathfinding"
)

const (
	// HeightSteps is the number of distinct terrain heights.
	HeightSteps = 8
	// DefaultNoiseScale stretches the noise so neighbouring cells stay similar.
	DefaultNoiseScale = 0.4

	perlinAlpha   = 2
	perlinBeta    = 2
	perlinOctaves = 3
)

// Point is a cell coordinate.
type Point struct{ X, Y int }

func (p Point) String() string { return NodeName(p.X, p.Y) }

// Obstacles configures wall clusters grown by random walks. Zero clusters
// means no walls.
type Obstacles struct {
	Clusters int
	Steps    int
	Density  float64
}

// Config describes a grid to generate. The same config always yields the same grid.
type Config struct {
	Width      int
	Height     int
	Seed       int64
	NoiseScale float64
	Obstacles  Obstacles
	// Protect lists cells that never become walls, such as the search endpoints.
	Protect []Point
}

// Grid is a generated grid graph.
type Grid struct {
	Width   int
	Height  int
	heights []int
	walls   map[Point]bool
	graph   *pathfinding.Graph
}

// NodeName returns the node name of the cell at x, y.
func NodeName(x, y int) string { return fmt.Sprintf("%d, %d", x, y) }

// Coordinates parses a node name produced by NodeName.
func Coordinates(name string) (Point, error) {
	xPart, yPart, found := strings.Cut(name, ",")
	if !found {
		return Point{}, fmt.Errorf("node name %q is not a grid coordinate", name)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xPart))
	if err != nil {
		return Point{}, fmt.Errorf("node name %q: x: %w", name, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(yPart))
	if err != nil {
		return Point{}, fmt.Errorf("node name %q: y: %w", name, err)
	}
	return Point{X: x, Y: y}, nil
}

// EdgeWeight is the cost of stepping from a cell of height from onto a cell
// of height to. Descending costs half the drop less than level ground.
func EdgeWeight(from, to int) float64 {
	gradient := to - from
	if gradient < 0 {
		gradient /= 2
	}
	return float64(gradient + HeightSteps)
}

// New generates a grid.
func New(cfg Config) (*Grid, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("width and height of grid have to be greater than 0")
	}
	if cfg.NoiseScale <= 0 {
		cfg.NoiseScale = DefaultNoiseScale
	}

	g := &Grid{
		Width:   cfg.Width,
		Height:  cfg.Height,
		heights: make([]int, cfg.Width*cfg.Height),
		graph:   pathfinding.NewGraph(),
	}

	noise := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, cfg.Seed)
	g.walls = genWalls(cfg)

	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			g.heights[g.index(x, y)] = heightFromNoise(noise.Noise2D(float64(x)*cfg.NoiseScale, float64(y)*cfg.NoiseScale))

			node := pathfinding.NewNode(NodeName(x, y))
			g.graph.AddNode(node)
			if g.walls[Point{x, y}] {
				continue
			}
			if x > 0 {
				g.connect(node, Point{x, y}, Point{x - 1, y})
			}
			if y > 0 {
				g.connect(node, Point{x, y}, Point{x, y - 1})
			}
		}
	}
	return g, nil
}

// connect links node at p with its already created neighbour at q in both directions.
func (g *Grid) connect(node *pathfinding.Node, p, q Point) {
	if g.walls[q] {
		return
	}
	neighbour, _ := g.graph.Lookup(q.String())
	_ = node.AddEdge(neighbour, EdgeWeight(g.HeightAt(p), g.HeightAt(q)))
	_ = neighbour.AddEdge(node, EdgeWeight(g.HeightAt(q), g.HeightAt(p)))
}

// heightFromNoise maps noise in about [-1, 1] onto 0..HeightSteps-1.
func heightFromNoise(value float64) int {
	height := int((value + 1) / 2 * HeightSteps)
	if height < 0 {
		return 0
	}
	if height >= HeightSteps {
		return HeightSteps - 1
	}
	return height
}

// genWalls grows clustered walls via random walks.
func genWalls(cfg Config) map[Point]bool {
	walls := map[Point]bool{}
	if cfg.Obstacles.Clusters <= 0 {
		return walls
	}
	protected := make(map[Point]bool, len(cfg.Protect))
	for _, p := range cfg.Protect {
		protected[p] = true
	}

	r := rand.New(rand.NewSource(cfg.Seed))
	directions := []Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for c := 0; c < cfg.Obstacles.Clusters; c++ {
		p := Point{r.Intn(cfg.Width), r.Intn(cfg.Height)}
		for s := 0; s < cfg.Obstacles.Steps; s++ {
			if r.Float64() < cfg.Obstacles.Density && !protected[p] {
				walls[p] = true
			}
			d := directions[r.Intn(len(directions))]
			np := Point{p.X + d.X, p.Y + d.Y}
			if np.X >= 0 && np.X < cfg.Width && np.Y >= 0 && np.Y < cfg.Height {
				p = np
			}
		}
	}
	return walls
}

func (g *Grid) index(x, y int) int { return y*g.Width + x }

// Graph returns the grid graph. It is shared, not copied.
func (g *Grid) Graph() *pathfinding.Graph { return g.graph }

// In reports whether p lies inside the grid.
func (g *Grid) In(p Point) bool { return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height }

// Node returns the node of cell p, or nil outside the grid.
func (g *Grid) Node(p Point) *pathfinding.Node {
	if !g.In(p) {
		return nil
	}
	node, _ := g.graph.Lookup(p.String())
	return node
}

// HeightAt returns the terrain height of cell p.
func (g *Grid) HeightAt(p Point) int { return g.heights[g.index(p.X, p.Y)] }

// Wall reports whether cell p is blocked.
func (g *Grid) Wall(p Point) bool { return g.walls[p] }

// Walls returns the number of blocked cells.
func (g *Grid) Walls() int { return len(g.walls) }

// Manhattan estimates the remaining cost as the number of grid steps between
// the cells of current and target. No step costs less than 1, so the
// estimate never exceeds the true cost.
// Nodes whose names are not coordinates estimate 0.
func Manhattan(_ *pathfinding.Graph, current, target *pathfinding.Node) float64 {
	from, err := Coordinates(current.Name())
	if err != nil {
		return 0
	}
	to, err := Coordinates(target.Name())
	if err != nil {
		return 0
	}
	return float64(abs(to.X-from.X) + abs(to.Y-from.Y))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
