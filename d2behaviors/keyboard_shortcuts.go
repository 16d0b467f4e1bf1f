package d2behaviors

import (
	"context"
	"strings"

	"cdr.dev/slog"

	"oss.terrastruct.com/d2canvas/d2diagram"
	"oss.terrastruct.com/d2canvas/lib/event"
	"oss.terrastruct.com/d2canvas/lib/log"
)

// Action is run by a keyboard shortcut.
type Action func(ctx context.Context, d *d2diagram.Diagram) error

// Shortcut is a key combination. Key is matched case insensitively.
type Shortcut struct {
	Key   string
	Ctrl  bool
	Shift bool
	Alt   bool
}

func (s Shortcut) normalize() Shortcut {
	s.Key = strings.ToLower(s.Key)
	return s
}

func (s Shortcut) String() string {
	var sb strings.Builder
	if s.Ctrl {
		sb.WriteString("Ctrl+")
	}
	if s.Shift {
		sb.WriteString("Shift+")
	}
	if s.Alt {
		sb.WriteString("Alt+")
	}
	sb.WriteString(s.Key)
	return sb.String()
}

// KeyboardShortcutsBehavior runs actions bound to key combinations. It starts with
// Delete bound to DeleteSelection and Ctrl+Alt+g bound to Grouping.
type KeyboardShortcutsBehavior struct {
	d         *d2diagram.Diagram
	scope     event.Scope
	shortcuts map[Shortcut]Action
}

func NewKeyboardShortcutsBehavior(d *d2diagram.Diagram) *KeyboardShortcutsBehavior {
	b := &KeyboardShortcutsBehavior{
		d:         d,
		shortcuts: make(map[Shortcut]Action),
	}
	b.SetShortcut("Delete", false, false, false, DeleteSelection)
	b.SetShortcut("g", true, false, true, Grouping)
	b.scope.Add(d.KeyDown.Subscribe(b.onKeyDown))
	return b
}

// SetShortcut binds action to the combination, replacing any previous binding.
func (b *KeyboardShortcutsBehavior) SetShortcut(key string, ctrl, shift, alt bool, action Action) {
	b.shortcuts[Shortcut{Key: key, Ctrl: ctrl, Shift: shift, Alt: alt}.normalize()] = action
}

func (b *KeyboardShortcutsBehavior) RemoveShortcut(key string, ctrl, shift, alt bool) bool {
	s := Shortcut{Key: key, Ctrl: ctrl, Shift: shift, Alt: alt}.normalize()
	if _, ok := b.shortcuts[s]; !ok {
		return false
	}
	delete(b.shortcuts, s)
	return true
}

func (b *KeyboardShortcutsBehavior) onKeyDown(e d2diagram.KeyboardEvent) {
	s := Shortcut{Key: e.Key, Ctrl: e.CtrlKey, Shift: e.ShiftKey, Alt: e.AltKey}.normalize()
	action, ok := b.shortcuts[s]
	if !ok {
		return
	}
	ctx := b.d.Context()
	log.Debug(ctx, "running shortcut", slog.F("shortcut", s.String()))
	err := action(ctx, b.d)
	if err != nil {
		log.Error(ctx, "shortcut failed", slog.F("shortcut", s.String()), slog.Error(err))
	}
}

func (b *KeyboardShortcutsBehavior) Dispose() {
	b.scope.Close()
}
