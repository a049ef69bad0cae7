package arbor

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing metrics.
// Only populated when Stage.debug is true.
type debugStats struct {
	sceneTime     time.Duration
	compositeTime time.Duration
	layerCount    int
	nodeCount     int
}

// debugLog prints timing stats to stderr.
func (s *Stage) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[arbor] scene: %v | composite: %v | total: %v\n",
		stats.sceneTime, stats.compositeTime, stats.sceneTime+stats.compositeTime)
	_, _ = fmt.Fprintf(os.Stderr,
		"[arbor] layers: %d | nodes: %d\n",
		stats.layerCount, stats.nodeCount)
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
// MaxTreeDepth is the hard limit; this one only flags suspicious trees.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	if depth := n.depth(); depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[arbor] warning: tree depth %d exceeds %d (node %s)\n",
			depth, debugMaxTreeDepth, describe(n))
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[arbor] warning: node %s has %d children (threshold %d)\n",
			describe(n), len(n.children), debugMaxChildCount)
	}
}

// countNodes counts n and every descendant.
func countNodes(n *Node) int {
	count := 1
	for _, child := range n.children {
		count += countNodes(child)
	}
	return count
}
