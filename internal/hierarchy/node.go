package hierarchy

import (
	dpdomain "asset-hierarchy/internal/datapoint/domain"
	objdomain "asset-hierarchy/internal/object/domain"
)

// TreeNode is a node of the plain object tree (no datapoints).
type TreeNode struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Type     objdomain.Type `json:"type"`
	Children []*TreeNode    `json:"children"`
}

// Node is a node of a subtree with its own datapoints and its children.
type Node struct {
	ID              int64                `json:"id"`
	Name            string               `json:"name"`
	Type            objdomain.Type       `json:"type"`
	LocationDetails map[string]any       `json:"location_details"`
	Datapoints      []dpdomain.Datapoint `json:"datapoints"`
	Children        []*Node              `json:"children"`
}

func newNode(r ObjectRow) *Node {
	return &Node{
		ID:              r.ID,
		Name:            r.Name,
		Type:            r.Type,
		LocationDetails: r.LocationDetails,
		Datapoints:      []dpdomain.Datapoint{},
		Children:        []*Node{},
	}
}

// ChildrenOfType returns the direct children whose type matches t (e.g. the floors of a building).
func (n *Node) ChildrenOfType(t objdomain.Type) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if sameType(string(t), string(c.Type)) {
			out = append(out, c)
		}
	}
	return out
}

// DatapointsOfType returns the node's datapoints whose type matches t, in order.
func (n *Node) DatapointsOfType(t string) []dpdomain.Datapoint {
	var out []dpdomain.Datapoint
	for _, dp := range n.Datapoints {
		if sameType(t, dp.TypeName()) {
			out = append(out, dp)
		}
	}
	return out
}

// Walk visits n and its descendants depth-first, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Size returns the number of nodes in the subtree rooted at n.
func (n *Node) Size() int {
	count := 0
	n.Walk(func(*Node) { count++ })
	return count
}
