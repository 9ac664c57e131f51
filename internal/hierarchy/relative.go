package hierarchy

import (
	dpdomain "asset-hierarchy/internal/datapoint/domain"
	objdomain "asset-hierarchy/internal/object/domain"
	"asset-hierarchy/internal/platform/apperr"
)

// Match is one datapoint found by ResolveRelative, paired with the object that owns it.
type Match struct {
	ObjectID        int64              `json:"id"`
	Name            string             `json:"name"`
	Type            objdomain.Type     `json:"type"`
	LocationDetails map[string]any     `json:"location_details"`
	Datapoint       dpdomain.Datapoint `json:"datapoint"`
}

// ResolveRelative resolves path inside the subtree rooted at root and returns every datapoint match.
//
// A leading segment naming root's own type is dropped. For each segment, if any children have that
// type the remaining path is resolved under every one of them; otherwise the segment is read as a
// datapoint type on the current node. Unlike ResolvePath this is exhaustive across siblings, and an
// empty result is a valid answer rather than an error.
func ResolveRelative(root *Node, path string) ([]Match, error) {
	if root == nil {
		return nil, apperr.ErrNotFound
	}
	segs, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	if sameType(segs[0], string(root.Type)) {
		segs = segs[1:]
	}
	out := make([]Match, 0)
	collectMatches(root, segs, &out)
	return out, nil
}

func collectMatches(n *Node, segs []string, out *[]Match) {
	if len(segs) == 0 {
		return
	}
	seg, rest := segs[0], segs[1:]
	descended := false
	for _, c := range n.Children {
		if sameType(seg, string(c.Type)) {
			descended = true
			collectMatches(c, rest, out)
		}
	}
	if descended {
		return
	}
	for _, dp := range n.DatapointsOfType(seg) {
		*out = append(*out, Match{
			ObjectID:        n.ID,
			Name:            n.Name,
			Type:            n.Type,
			LocationDetails: n.LocationDetails,
			Datapoint:       dp,
		})
	}
}
