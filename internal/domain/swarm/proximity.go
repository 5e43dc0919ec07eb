package swarm

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Nearest returns the index of the agent closest to agents[i], or -1 for a
// single-agent batch. Brute force; batches are tens of agents.
func Nearest(agents []Agent, i int) int {
	best := -1
	bestDist := math.Inf(1)
	pos := agents[i].State.Pos
	for j := range agents {
		if j == i {
			continue
		}
		d := r3.Norm2(r3.Sub(agents[j].State.Pos, pos))
		if d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}
