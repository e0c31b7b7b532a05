package kdtree

// Stats describes the shape of a built tree.
type Stats struct {
	Points   int // Total indexed points
	Nodes    int // Total nodes, internal and leaf
	Leaves   int // Leaf buckets
	MaxDepth int // Longest root-to-leaf path (1 for a single leaf)
}

// GetStats returns statistics about the tree. The zero value is returned
// before Build.
func (t *Tree) GetStats() Stats {
	if !t.built {
		return Stats{}
	}

	stats := Stats{
		Points: len(t.pts),
		Nodes:  len(t.nodes),
	}

	type frame struct {
		idx   int32
		depth int
	}
	stack := []frame{{idx: t.root, depth: 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth > stats.MaxDepth {
			stats.MaxDepth = f.depth
		}

		n := &t.nodes[f.idx]
		if n.axis == leafAxis {
			stats.Leaves++
			continue
		}
		stack = append(stack, frame{idx: n.left, depth: f.depth + 1}, frame{idx: n.right, depth: f.depth + 1})
	}

	return stats
}
