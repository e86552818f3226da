package advisory

import (
	"runtime"
	"sync"

	"github.com/aukilabs/go-tooling/pkg/logs"
)

// run drives one generation from root evaluation to MaxDepth. Partial work
// already published stays visible when the generation is superseded; the
// build just stops mutating anything.
func (g *generation) run() {
	root := newRoot(g.conf)
	root.genValue(g.classify)
	if g.stale() {
		g.abandon()
		return
	}
	g.root.Store(root)

	sem := make(chan struct{}, runtime.NumCPU())
	g.buildBase(root, g.conf.MinDepth, sem)
	if g.stale() {
		g.abandon()
		return
	}
	root.simplify()
	g.level.Store(int32(g.conf.MinDepth))

	// Adaptive phase, breadth-first: a level's structural changes are fully
	// published before the next level gathers its leaves, and the render
	// sink gets a complete coarse picture after every iteration.
	for level := g.conf.MinDepth; level < g.conf.MaxDepth; level++ {
		g.refineLevel(root.levelNodes(level))
		if g.stale() {
			g.abandon()
			return
		}
		g.level.Store(int32(level + 1))
	}

	logs.WithTag("generation", g.id.String()).
		WithTag("extra_cells", g.extraDone.Load()).
		Debug("generation complete")
}

func (g *generation) abandon() {
	generationsSuperseded.Inc()
	logs.WithTag("generation", g.id.String()).Debug("generation superseded")
}

// buildBase subdivides every node down to the unconditional depth,
// evaluating each new cell as it is created and collapsing uniform subtrees
// bottom-up on the way out. Sibling subtrees are independent, so each child
// recurses on its own goroutine when the semaphore has capacity.
func (g *generation) buildBase(n *Node, depth int, sem chan struct{}) {
	if depth == 0 {
		g.baseDone.Add(1)
		return
	}
	if g.stale() {
		return
	}
	n.genChildren(g.classify)

	var wg sync.WaitGroup
	for _, c := range n.children.Load() {
		select {
		case sem <- struct{}{}:
			wg.Add(1)
			go func(c *Node) {
				defer wg.Done()
				defer func() { <-sem }()
				g.buildBase(c, depth-1, sem)
				c.simplify()
			}(c)
		default:
			g.buildBase(c, depth-1, sem)
			c.simplify()
		}
	}
	wg.Wait()
}

// refineLevel fans the current leaves of one level out to a worker pool.
// Ordering between sibling cells carries no meaning; each worker probes the
// cell corners and subdivides only where they disagree with the center.
func (g *generation) refineLevel(nodes []*Node) {
	if len(nodes) == 0 {
		return
	}
	work := make(chan *Node)
	var wg sync.WaitGroup
	for i := 0; i < min(runtime.NumCPU(), len(nodes)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range work {
				if g.stale() {
					continue // keep draining, abandon the work
				}
				if n.children.Load() != nil {
					continue
				}
				if n.cornersAreIdentical(g.classify) {
					continue
				}
				n.genChildren(g.classify)
				g.extraDone.Add(4)
			}
		}()
	}
	for _, n := range nodes {
		work <- n
	}
	close(work)
	wg.Wait()
}
