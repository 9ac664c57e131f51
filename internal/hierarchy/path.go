package hierarchy

import (
	"fmt"

	dpdomain "asset-hierarchy/internal/datapoint/domain"
	"asset-hierarchy/internal/platform/apperr"
)

// Resolution is the result of an absolute path lookup. Exactly one of Node or Datapoint is set:
// Node when the path ends on an object, Datapoint (with its Owner) when a segment named a datapoint type.
type Resolution struct {
	Node      *Node
	Owner     *Node
	Datapoint *dpdomain.Datapoint
}

// IsDatapoint reports whether the path ended on a datapoint rather than on an object.
func (r Resolution) IsDatapoint() bool {
	return r.Datapoint != nil
}

// ResolvePath walks forest one path segment at a time, matching segments against types case-insensitively.
//
// The first segment selects among the forest roots. At every later step the current node's datapoints
// are checked first: the first one with the segment's type is returned at once, whatever remains of the
// path. Otherwise the first child of that type becomes the current node. Among siblings of the same type
// only the first (in order) is ever considered.
//
// It returns apperr.ErrInvalidPath for an empty path and apperr.ErrNotFound when a segment matches nothing.
func ResolvePath(forest []*Node, path string) (Resolution, error) {
	segs, err := splitPath(path)
	if err != nil {
		return Resolution{}, err
	}
	var current *Node
	for i, seg := range segs {
		if current == nil {
			current = firstOfType(forest, seg)
		} else {
			if dp := firstDatapointOfType(current, seg); dp != nil {
				return Resolution{Owner: current, Datapoint: dp}, nil
			}
			current = firstOfType(current.Children, seg)
		}
		if current == nil {
			return Resolution{}, fmt.Errorf("resolve %q: no match for segment %d (%q): %w", path, i, seg, apperr.ErrNotFound)
		}
	}
	return Resolution{Node: current}, nil
}

func firstOfType(nodes []*Node, seg string) *Node {
	for _, n := range nodes {
		if sameType(seg, string(n.Type)) {
			return n
		}
	}
	return nil
}

func firstDatapointOfType(n *Node, seg string) *dpdomain.Datapoint {
	for i := range n.Datapoints {
		if sameType(seg, n.Datapoints[i].TypeName()) {
			dp := n.Datapoints[i]
			return &dp
		}
	}
	return nil
}
