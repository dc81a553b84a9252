package search

import (
	"slices"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-pathgrid/internal/grid"
)

// terrain lays rows into chunk (0,0); everything else is wall.
func terrain(rows ...string) *grid.ChunkedGrid {
	g := grid.NewChunkedGrid(32)
	g.PutChunk(grid.C(0, 0), rows)
	return g
}

func openRows(w, h int) []string {
	rows := make([]string, h)
	for i := range rows {
		rows[i] = strings.Repeat(".", w)
	}
	return rows
}

type pathFunc func(t grid.Terrain, start, target grid.Cell, lim Limits) Result

func bestFirst() map[string]pathFunc {
	return map[string]pathFunc{
		"dijkstra": NewSearcher().Dijkstra,
		"astar":    NewSearcher().AStar,
	}
}

func checkPathShape(t *testing.T, res Result) {
	t.Helper()
	if len(res.Path) == 0 {
		return
	}
	if res.Path[0] != res.Start {
		t.Errorf("Path[0] = %v, expected start %v", res.Path[0], res.Start)
	}
	cost, ok := PathCost(res.Path)
	if !ok {
		t.Fatalf("path %v has non-adjacent steps", res.Path)
	}
	if cost != res.Cost {
		t.Errorf("PathCost = %d, Result.Cost = %d", cost, res.Cost)
	}
}

func TestOpenGridDiagonal(t *testing.T) {
	g := terrain(openRows(5, 5)...)

	for name, find := range bestFirst() {
		t.Run(name, func(t *testing.T) {
			res := find(g, grid.C(0, 0), grid.C(4, 4), Limits{})
			if !res.Reached {
				t.Fatal("target not reached")
			}
			if res.Cost != 56 {
				t.Errorf("Cost = %d, expected 56", res.Cost)
			}
			if len(res.Path) != 5 {
				t.Errorf("len(Path) = %d, expected 5: %v", len(res.Path), res.Path)
			}
			checkPathShape(t, res)
		})
	}
}

func TestPathThroughWallGap(t *testing.T) {
	g := terrain(
		"..#..",
		"..#..",
		".....",
		"..#..",
		"..#..",
	)

	for name, find := range bestFirst() {
		t.Run(name, func(t *testing.T) {
			res := find(g, grid.C(0, 0), grid.C(4, 0), Limits{})
			if !res.Reached {
				t.Fatal("target not reached")
			}
			if !slices.Contains(res.Path, grid.C(2, 2)) {
				t.Errorf("path %v does not pass through the gap (2,2)", res.Path)
			}
			if res.Cost != 56 {
				t.Errorf("Cost = %d, expected 56", res.Cost)
			}
			for _, c := range res.Path[1:] {
				if !g.Walkable(c) {
					t.Errorf("path crosses wall at %v", c)
				}
			}
			checkPathShape(t, res)
		})
	}
}

func TestAStarCostMatchesDijkstra(t *testing.T) {
	maps := [][]string{
		openRows(10, 10),
		{
			"..........",
			".########.",
			".#......#.",
			".#.####.#.",
			".#.#..#.#.",
			".#.#.##.#.",
			".#.#....#.",
			".#.######.",
			".#........",
			".#########",
		},
		{
			"....#.....",
			".##.#.###.",
			".#..#...#.",
			".#.###..#.",
			"...#....#.",
			"##.#.####.",
			"...#......",
			".###.####.",
			".....#....",
			"####...##.",
		},
	}
	pairs := [][2]grid.Cell{
		{grid.C(0, 0), grid.C(9, 9)},
		{grid.C(0, 0), grid.C(4, 4)},
		{grid.C(9, 0), grid.C(0, 9)},
		{grid.C(5, 6), grid.C(2, 2)},
	}

	d := NewSearcher()
	a := NewSearcher()
	for i, rows := range maps {
		g := terrain(rows...)
		for _, p := range pairs {
			if !g.Walkable(p[0]) || !g.Walkable(p[1]) {
				continue
			}
			dr := d.Dijkstra(g, p[0], p[1], Limits{})
			ar := a.AStar(g, p[0], p[1], Limits{})
			if dr.Reached != ar.Reached {
				t.Errorf("map %d %v->%v: Reached dijkstra=%v astar=%v", i, p[0], p[1], dr.Reached, ar.Reached)
				continue
			}
			if dr.Reached && dr.Cost != ar.Cost {
				t.Errorf("map %d %v->%v: cost dijkstra=%d astar=%d", i, p[0], p[1], dr.Cost, ar.Cost)
			}
			checkPathShape(t, dr)
			checkPathShape(t, ar)
		}
	}
}

func TestAStarExpandsNoMoreThanDijkstra(t *testing.T) {
	g := terrain(openRows(20, 20)...)
	start, target := grid.C(0, 0), grid.C(19, 10)

	dr := NewSearcher().Dijkstra(g, start, target, Limits{})
	ar := NewSearcher().AStar(g, start, target, Limits{})

	if ar.Expanded() > dr.Expanded() {
		t.Errorf("A* expanded %d nodes, Dijkstra %d", ar.Expanded(), dr.Expanded())
	}
}

func TestEntryOrder(t *testing.T) {
	tests := []struct {
		name string
		a, b entry
		less bool
	}{
		{"lower f", entry{f: 40, h: 30, cell: grid.C(5, 5)}, entry{f: 44, h: 0, cell: grid.C(0, 0)}, true},
		{"equal f, lower h", entry{f: 44, h: 30, cell: grid.C(1, 1)}, entry{f: 44, h: 34, cell: grid.C(1, 0)}, true},
		{"equal f, higher h", entry{f: 44, h: 34, cell: grid.C(1, 0)}, entry{f: 44, h: 30, cell: grid.C(1, 1)}, false},
		{"equal f and h, lower x", entry{f: 44, h: 20, cell: grid.C(1, 9)}, entry{f: 44, h: 20, cell: grid.C(2, 0)}, true},
		{"equal f, h and x, lower y", entry{f: 44, h: 20, cell: grid.C(2, 0)}, entry{f: 44, h: 20, cell: grid.C(2, 1)}, true},
		{"same entry", entry{f: 44, h: 20, cell: grid.C(2, 1)}, entry{f: 44, h: 20, cell: grid.C(2, 1)}, false},
	}
	for _, tt := range tests {
		if got := tt.a.less(tt.b); got != tt.less {
			t.Errorf("%s: less() = %v, expected %v", tt.name, got, tt.less)
		}
	}
}

func TestAStarPrefersLowerHeuristicOnTies(t *testing.T) {
	g := terrain(openRows(6, 3)...)

	// From (0,0), (1,0) and (1,1) both have f = 44; (1,1) is closer to
	// the target and is expanded first.
	res := NewSearcher().AStar(g, grid.C(0, 0), grid.C(4, 1), Limits{})
	if !res.Reached {
		t.Fatal("target not reached")
	}
	expected := []grid.Cell{grid.C(0, 0), grid.C(1, 1), grid.C(2, 1), grid.C(3, 1)}
	if !slices.Equal(res.VisitOrder, expected) {
		t.Errorf("VisitOrder = %v, expected %v", res.VisitOrder, expected)
	}
	if res.Cost != 44 {
		t.Errorf("Cost = %d, expected 44", res.Cost)
	}
}

func TestUnreachableReturnsBestPartial(t *testing.T) {
	g := terrain(
		"...#.",
		"...#.",
		"...#.",
	)

	for name, find := range bestFirst() {
		t.Run(name, func(t *testing.T) {
			res := find(g, grid.C(0, 0), grid.C(4, 0), Limits{})
			if res.Reached {
				t.Fatal("walled-off target reported reached")
			}
			end, ok := res.End()
			if !ok {
				t.Fatal("expected a partial path")
			}
			if end != grid.C(2, 0) {
				t.Errorf("partial path ends at %v, expected (2,0)", end)
			}
			checkPathShape(t, res)
		})
	}
}

func TestIsolatedStartHasEmptyPath(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{"walkable start", []string{".#", "##"}},
		{"walled start", []string{"##", "##"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := terrain(tc.rows...)
			for name, find := range bestFirst() {
				res := find(g, grid.C(0, 0), grid.C(5, 5), Limits{})
				if len(res.Path) != 0 {
					t.Errorf("%s: Path = %v, expected empty", name, res.Path)
				}
				if res.Reached {
					t.Errorf("%s: Reached = true", name)
				}
			}
		})
	}
}

func TestStartEqualsTarget(t *testing.T) {
	g := terrain(openRows(3, 3)...)
	for name, find := range bestFirst() {
		res := find(g, grid.C(1, 1), grid.C(1, 1), Limits{})
		if !res.Reached || res.Cost != 0 {
			t.Errorf("%s: Reached=%v Cost=%d, expected true 0", name, res.Reached, res.Cost)
		}
		if !slices.Equal(res.Path, []grid.Cell{grid.C(1, 1)}) {
			t.Errorf("%s: Path = %v, expected [(1,1)]", name, res.Path)
		}
	}
}

func TestMaxIter(t *testing.T) {
	g := terrain(openRows(32, 32)...)

	for name, find := range bestFirst() {
		t.Run(name, func(t *testing.T) {
			res := find(g, grid.C(0, 0), grid.C(30, 30), Limits{MaxIter: 3})
			if res.Expanded() != 3 {
				t.Errorf("Expanded() = %d, expected 3", res.Expanded())
			}
			if !res.Truncated || res.Reached {
				t.Errorf("Truncated=%v Reached=%v, expected true false", res.Truncated, res.Reached)
			}
			if len(res.Path) < 2 {
				t.Errorf("expected a partial path toward the target, got %v", res.Path)
			}
			checkPathShape(t, res)
		})
	}
}

func TestBoundsLimit(t *testing.T) {
	g := terrain(openRows(10, 10)...)
	bounds := grid.R(0, 0, 3, 3)

	for name, find := range bestFirst() {
		res := find(g, grid.C(0, 0), grid.C(6, 6), Limits{Bounds: bounds})
		if res.Reached {
			t.Errorf("%s: reached a target outside bounds", name)
		}
		for _, c := range res.VisitOrder {
			if !bounds.Contains(c) {
				t.Errorf("%s: expanded %v outside %v", name, c, bounds)
			}
		}
		if end, _ := res.End(); end != grid.C(2, 2) {
			t.Errorf("%s: partial path ends at %v, expected (2,2)", name, end)
		}
	}
}

func TestTraceShape(t *testing.T) {
	g := terrain(
		"......",
		".##...",
		"...#..",
		"......",
	)

	for name, find := range bestFirst() {
		res := find(g, grid.C(0, 0), grid.C(5, 3), Limits{})
		if len(res.Batches) != len(res.VisitOrder) {
			t.Errorf("%s: %d batches for %d expansions", name, len(res.Batches), len(res.VisitOrder))
		}
		seen := make(map[grid.Cell]bool)
		for _, c := range res.VisitOrder {
			if seen[c] {
				t.Errorf("%s: %v expanded twice", name, c)
			}
			seen[c] = true
		}
		if slices.Contains(res.VisitOrder, res.Target) {
			t.Errorf("%s: target appears in VisitOrder", name)
		}
	}
}

func TestSearcherReuse(t *testing.T) {
	g := terrain(
		".....",
		".###.",
		".....",
	)
	s := NewSearcher()

	first := s.AStar(g, grid.C(0, 0), grid.C(4, 2), Limits{})
	s.Dijkstra(g, grid.C(4, 0), grid.C(0, 2), Limits{})
	again := s.AStar(g, grid.C(0, 0), grid.C(4, 2), Limits{})

	if !slices.Equal(first.Path, again.Path) || first.Cost != again.Cost {
		t.Errorf("reused searcher gave %v (%d), expected %v (%d)", again.Path, again.Cost, first.Path, first.Cost)
	}
	if !slices.Equal(first.VisitOrder, again.VisitOrder) {
		t.Error("reused searcher changed the visit order")
	}
}

func TestReconstructBrokenChain(t *testing.T) {
	start := grid.C(0, 0)
	prev := map[grid.Cell]grid.Cell{
		grid.C(3, 3): grid.C(2, 2),
		grid.C(2, 2): grid.C(1, 1),
	}

	got := reconstruct(prev, start, grid.C(3, 3))
	want := []grid.Cell{grid.C(1, 1), grid.C(2, 2), grid.C(3, 3)}
	if !slices.Equal(got, want) {
		t.Errorf("reconstruct() = %v, expected %v", got, want)
	}

	prev[grid.C(1, 1)] = start
	got = reconstruct(prev, start, grid.C(3, 3))
	want = append([]grid.Cell{start}, want...)
	if !slices.Equal(got, want) {
		t.Errorf("reconstruct() = %v, expected %v", got, want)
	}
}

func TestFillComponent(t *testing.T) {
	g := terrain(
		"..#..",
		"..#..",
		"###..",
	)

	got := ReachableSet(g, grid.C(0, 0), grid.Rect{})

	if len(got) == 0 || got[0] != grid.C(0, 0) {
		t.Fatalf("ReachableSet() = %v, expected start first", got)
	}
	want := []grid.Cell{grid.C(0, 0), grid.C(1, 0), grid.C(0, 1), grid.C(1, 1)}
	if len(got) != len(want) {
		t.Fatalf("ReachableSet() = %v, expected %d cells", got, len(want))
	}
	for _, c := range want {
		if !slices.Contains(got, c) {
			t.Errorf("ReachableSet() missing %v", c)
		}
	}
}

func TestFillTraceShape(t *testing.T) {
	g := terrain(openRows(6, 4)...)
	res := Fill(g, grid.C(2, 2), grid.Rect{})

	if len(res.VisitOrder) != 24 {
		t.Errorf("visited %d cells, expected 24", len(res.VisitOrder))
	}
	if len(res.Batches) != len(res.VisitOrder) {
		t.Errorf("%d batches for %d visited cells", len(res.Batches), len(res.VisitOrder))
	}
	discovered := 0
	for _, b := range res.Batches {
		discovered += len(b)
	}
	if discovered != len(res.VisitOrder)-1 {
		t.Errorf("batches discovered %d cells, expected %d", discovered, len(res.VisitOrder)-1)
	}
	if len(res.Path) != 0 {
		t.Errorf("flood fill produced a path: %v", res.Path)
	}
}

func TestFillDefaultBounds(t *testing.T) {
	g := grid.NewChunkedGrid(32)
	g.PutChunk(grid.C(-1, 0), openRows(32, 32))
	g.PutChunk(grid.C(0, 0), openRows(32, 32))

	for _, c := range ReachableSet(g, grid.C(0, 0), grid.Rect{}) {
		if !DefaultFloodBounds.Contains(c) {
			t.Fatalf("flood fill escaped default bounds at %v", c)
		}
	}
}

func TestFillWalledStart(t *testing.T) {
	g := terrain("#.", "..")
	got := ReachableSet(g, grid.C(5, 5), grid.Rect{})
	if !slices.Equal(got, []grid.Cell{grid.C(5, 5)}) {
		t.Errorf("ReachableSet() = %v, expected only the start", got)
	}
}

func TestOctile(t *testing.T) {
	tests := []struct {
		a, b grid.Cell
		want int
	}{
		{grid.C(0, 0), grid.C(0, 0), 0},
		{grid.C(0, 0), grid.C(3, 0), 30},
		{grid.C(0, 0), grid.C(4, 4), 56},
		{grid.C(2, -1), grid.C(-1, 1), 38},
	}
	for _, tc := range tests {
		if got := Octile(tc.a, tc.b); got != tc.want {
			t.Errorf("Octile(%v, %v) = %d, expected %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	for in, want := range map[string]Algorithm{"bfs": FloodFill, "dijkstra": Dijkstra, "a*": AStar, "astar": AStar} {
		got, err := ParseAlgorithm(in)
		if err != nil || got != want {
			t.Errorf("ParseAlgorithm(%q) = %v, %v, expected %v", in, got, err, want)
		}
	}
	if _, err := ParseAlgorithm("greedy"); err == nil {
		t.Error("ParseAlgorithm(\"greedy\") should fail")
	}
	if got := AStar.Next(); got != FloodFill {
		t.Errorf("AStar.Next() = %v, expected %v", got, FloodFill)
	}
}
