package d2diagram

import (
	"context"

	"cdr.dev/slog"
	"go.uber.org/multierr"

	"oss.terrastruct.com/xdefer"

	"oss.terrastruct.com/d2canvas/lib/log"
)

// DeleteSelection deletes the selected, unlocked entities that the deletion constraints
// allow. Groups are deleted with their members. A constraint that errors vetoes its entity
// and the errors are returned combined. Changed is emitted once even when nothing is
// deleted.
func (d *Diagram) DeleteSelection(ctx context.Context) (err error) {
	defer xdefer.Errorf(&err, "failed to delete selection")

	c := d.Options.Constraints
	d.Batch(func() {
		for _, s := range d.SelectedModels() {
			if s.Locked() {
				continue
			}
			switch s := s.(type) {
			case *Node:
				if s.IsGroup() {
					if !d.Groups.Contains(s) || !d.allowed(ctx, &err, s, c.ShouldDeleteGroup) {
						continue
					}
					d.Groups.Delete(s)
					continue
				}
				if !d.Nodes.Contains(s) || !d.allowed(ctx, &err, s, c.ShouldDeleteNode) {
					continue
				}
				d.Nodes.Remove(s)
			case *Link:
				if !d.Links.Contains(s) || !d.allowedLink(ctx, &err, s) {
					continue
				}
				d.Links.Remove(s)
			}
		}
	})
	return err
}

func (d *Diagram) allowed(ctx context.Context, errs *error, n *Node, fn func(context.Context, *Node) (bool, error)) bool {
	if fn == nil {
		return true
	}
	ok, err := fn(ctx, n)
	if err != nil {
		log.Warn(d.ctx, "deletion constraint failed", slog.F("id", n.ID()), slog.Error(err))
		*errs = multierr.Append(*errs, err)
		return false
	}
	return ok
}

func (d *Diagram) allowedLink(ctx context.Context, errs *error, l *Link) bool {
	fn := d.Options.Constraints.ShouldDeleteLink
	if fn == nil {
		return true
	}
	ok, err := fn(ctx, l)
	if err != nil {
		log.Warn(d.ctx, "deletion constraint failed", slog.F("id", l.ID()), slog.Error(err))
		*errs = multierr.Append(*errs, err)
		return false
	}
	return ok
}
