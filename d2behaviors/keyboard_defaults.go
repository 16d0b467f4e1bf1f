package d2behaviors

import (
	"context"

	"oss.terrastruct.com/d2canvas/d2diagram"
)

// DeleteSelection deletes the selected entities the deletion constraints allow.
func DeleteSelection(ctx context.Context, d *d2diagram.Diagram) error {
	return d.DeleteSelection(ctx)
}

// Grouping ungroups the selected groups and the groups of selected nodes. When nothing
// selected belongs to a group, the selected nodes are grouped. It does nothing unless
// groups are enabled.
func Grouping(ctx context.Context, d *d2diagram.Diagram) error {
	if !d.Options.Groups.Enabled {
		return nil
	}

	var nodes []*d2diagram.Node
	var groups []*d2diagram.Node
	seen := make(map[*d2diagram.Node]bool)
	for _, s := range d.SelectedModels() {
		n, ok := s.(*d2diagram.Node)
		if !ok {
			continue
		}
		if d.Groups.Contains(n) && !seen[n] {
			seen[n] = true
			groups = append(groups, n)
			continue
		}
		nodes = append(nodes, n)
		if g := n.ParentGroup(); g != nil && !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}

	if len(groups) > 0 {
		d.Groups.Remove(groups...)
		return nil
	}
	if len(nodes) < 2 {
		return nil
	}
	d.Groups.Group(nodes...)
	return nil
}
