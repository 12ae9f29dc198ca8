package app

import "github.com/ijuttt/cctview/internal/aggregate"

// LeafCenters assigns every visible node of wt a horizontal position in a
// tidy layout: leaves take consecutive slots in preorder and an inner node
// sits midway between its first and last child. A node with a single child
// therefore shares its child's position, which is what chain detection in
// selection queries relies on.
func LeafCenters(wt *aggregate.WorkingTree) map[aggregate.NodeID]float64 {
	pos := make(map[aggregate.NodeID]float64)
	if wt == nil || wt.Root() == aggregate.NoNode {
		return pos
	}

	var next float64
	var place func(id aggregate.NodeID) float64
	place = func(id aggregate.NodeID) float64 {
		n := wt.Node(id)
		if len(n.Children) == 0 {
			pos[id] = next
			next++
			return pos[id]
		}
		first := place(n.Children[0])
		last := first
		for _, c := range n.Children[1:] {
			last = place(c)
		}
		pos[id] = (first + last) / 2
		return pos[id]
	}
	place(wt.Root())
	return pos
}
