package world

import (
	"math/rand"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/worldgrid/aabb"
)

// Rule places a block of the given kind on a column with the given
// probability.
type Rule struct {
	Kind        BlockKind
	Probability float64
}

// DefaultRules are the decorations rolled on every generated column, in
// order. A placement that overlaps an earlier one is skipped.
var DefaultRules = []Rule{
	{Kind: MixGrass, Probability: 0.08},
	{Kind: Dandelion, Probability: 0.02},
	{Kind: FallenLeaves, Probability: 0.01},
	{Kind: FallenBranch, Probability: 0.01},
	{Kind: MixPebbles, Probability: 0.04},
	{Kind: OakTree, Probability: 0.02},
	{Kind: BirchTree, Probability: 0.02},
	{Kind: DyingTree, Probability: 0.001},
	{Kind: FallenTree, Probability: 0.001},
	{Kind: MixRock, Probability: 0.01},
}

// Generator populates a world column by column. A column is generated once;
// generating it again leaves the world unchanged.
type Generator struct {
	// The tile kind covering generated columns.
	Surface BlockKind

	// The decorations rolled on generated columns.
	Rules []Rule

	world     *World
	mutex     sync.Mutex
	random    *rand.Rand
	generated map[aabb.IVec2]struct{}
}

// NewGenerator returns a generator that populates the given world. Two
// generators with the same seed generate the same world when given the same
// areas in the same order.
func NewGenerator(w *World, seed int64) *Generator {
	return &Generator{
		Surface:   SurfaceGrass,
		Rules:     DefaultRules,
		world:     w,
		random:    rand.New(rand.NewSource(seed)),
		generated: make(map[aabb.IVec2]struct{}),
	}
}

// GenerateResult sums up a generation pass.
type GenerateResult struct {
	Columns  int `json:"columns"`
	Tiles    int `json:"tiles"`
	Blocks   int `json:"blocks"`
	Rejected int `json:"rejected"`
}

// Generate generates the columns of the given area that were not generated
// yet.
func (g *Generator) Generate(area aabb.IBox2) GenerateResult {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	start := time.Now()

	var res GenerateResult
	for p := range aabb.Points2(area) {
		if _, ok := g.generated[p]; ok {
			continue
		}
		g.generated[p] = struct{}{}
		res.Columns++

		if _, ok := g.world.InsertTile(Tile{Kind: g.Surface, Position: p}); ok {
			res.Tiles++
		} else {
			res.Rejected++
		}

		for _, r := range g.Rules {
			if g.random.Float64() >= r.Probability {
				continue
			}

			b := Block{
				Kind:     r.Kind,
				Position: aabb.IVec3{X: p.X, Y: p.Y, Z: 0},
			}
			if _, ok := g.world.InsertBlock(b); !ok {
				res.Rejected++
				continue
			}

			res.Blocks++
			instrumentCountGeneratedBlock(r.Kind)
		}
	}

	if res.Columns != 0 {
		instrumentCountGeneratedColumns(res.Columns)

		logs.WithTag("world_id", g.world.ID).
			WithTag("area", area).
			WithTag("columns", res.Columns).
			WithTag("tiles", res.Tiles).
			WithTag("blocks", res.Blocks).
			WithTag("rejected", res.Rejected).
			WithTag("duration", time.Since(start)).
			Debug("world generated")
	}

	return res
}

// Generated reports whether the given column was generated.
func (g *Generator) Generated(p aabb.IVec2) bool {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	_, ok := g.generated[p]
	return ok
}
