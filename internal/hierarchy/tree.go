package hierarchy

// BuildTree nests rows under their parents, starting at the children of parentID
// (nil selects the roots). Each level keeps input row order. No datapoints are attached.
//
// Rows are grouped by parent id once and every row is materialized at most once,
// so a malformed cyclic input terminates instead of recursing forever.
func BuildTree(rows []ObjectRow, parentID *int64) []*TreeNode {
	b := treeBuilder{
		rows:     rows,
		byParent: make(map[int64][]int, len(rows)),
		seen:     make(map[int64]bool, len(rows)),
	}
	var roots []int
	for i := range rows {
		if rows[i].ParentID == nil {
			roots = append(roots, i)
			continue
		}
		p := *rows[i].ParentID
		b.byParent[p] = append(b.byParent[p], i)
	}
	if parentID == nil {
		return b.level(roots)
	}
	return b.level(b.byParent[*parentID])
}

type treeBuilder struct {
	rows     []ObjectRow
	byParent map[int64][]int
	seen     map[int64]bool
}

func (b *treeBuilder) level(idx []int) []*TreeNode {
	out := make([]*TreeNode, 0, len(idx))
	for _, i := range idx {
		r := b.rows[i]
		if b.seen[r.ID] {
			continue
		}
		b.seen[r.ID] = true
		out = append(out, &TreeNode{
			ID:       r.ID,
			Name:     r.Name,
			Type:     r.Type,
			Children: b.level(b.byParent[r.ID]),
		})
	}
	return out
}
