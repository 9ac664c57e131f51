package hierarchy

import (
	dpdomain "asset-hierarchy/internal/datapoint/domain"
	"asset-hierarchy/internal/platform/apperr"
)

// BuildSubtree folds the joined rows of a subtree into a single tree rooted at rootID.
//
// The join fan-out is folded completely: every distinct object id reachable from rootID yields
// exactly one node, and every distinct datapoint id of that object yields exactly one entry in its
// Datapoints. Children are ordered by their first appearance in rows, datapoints by row order.
// It returns apperr.ErrNotFound when no row describes rootID.
func BuildSubtree(rows []JoinedRow, rootID int64) (*Node, error) {
	ix := indexJoined(rows)
	if _, ok := ix.objects[rootID]; !ok {
		return nil, apperr.NotFound("object", rootID)
	}
	return ix.materialize(rootID, make(map[int64]bool, len(ix.objects))), nil
}

// BuildForest folds joined rows into one tree per root object (nil parent id),
// in order of first appearance. It is the datapoint-annotated hierarchy used by ResolvePath.
func BuildForest(rows []JoinedRow) []*Node {
	ix := indexJoined(rows)
	seen := make(map[int64]bool, len(ix.objects))
	forest := make([]*Node, 0)
	for _, id := range ix.order {
		if ix.objects[id].ParentID != nil {
			continue
		}
		forest = append(forest, ix.materialize(id, seen))
	}
	return forest
}

// joinedIndex is a single pass over joined rows: distinct objects, their children and
// their distinct datapoints, all in first-appearance order.
type joinedIndex struct {
	objects  map[int64]ObjectRow
	order    []int64
	children map[int64][]int64
	dps      map[int64][]dpdomain.Datapoint
	dpSeen   map[[2]int64]bool // (object id, datapoint id)
}

func indexJoined(rows []JoinedRow) *joinedIndex {
	ix := &joinedIndex{
		objects:  make(map[int64]ObjectRow, len(rows)),
		children: make(map[int64][]int64),
		dps:      make(map[int64][]dpdomain.Datapoint),
		dpSeen:   make(map[[2]int64]bool),
	}
	for _, r := range rows {
		if _, ok := ix.objects[r.ID]; !ok {
			ix.objects[r.ID] = r.ObjectRow
			ix.order = append(ix.order, r.ID)
			if r.ParentID != nil && *r.ParentID != r.ID {
				ix.children[*r.ParentID] = append(ix.children[*r.ParentID], r.ID)
			}
		}
		if r.Datapoint == nil {
			continue
		}
		key := [2]int64{r.ID, r.Datapoint.ID}
		if ix.dpSeen[key] {
			continue
		}
		ix.dpSeen[key] = true
		ix.dps[r.ID] = append(ix.dps[r.ID], *r.Datapoint)
	}
	return ix
}

func (ix *joinedIndex) materialize(id int64, seen map[int64]bool) *Node {
	seen[id] = true
	n := newNode(ix.objects[id])
	if dps := ix.dps[id]; len(dps) > 0 {
		n.Datapoints = append(n.Datapoints, dps...)
	}
	for _, childID := range ix.children[id] {
		if seen[childID] {
			continue
		}
		n.Children = append(n.Children, ix.materialize(childID, seen))
	}
	return n
}
