package d2cli

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"oss.terrastruct.com/diff"
)

// watcher replays the session whenever the session or options file changes and logs
// how the result differs from the previous replay.
type watcher struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	replayer

	replayCh chan struct{}
	fw       *fsnotify.Watcher

	errMu sync.Mutex
	err   error

	last []byte
}

func newWatcher(ctx context.Context, r replayer) (*watcher, error) {
	ctx, cancel := context.WithCancel(ctx)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		cancel()
		return nil, err
	}
	return &watcher{
		ctx:      ctx,
		cancel:   cancel,
		replayer: r,
		replayCh: make(chan struct{}, 1),
		fw:       fw,
	}, nil
}

func (w *watcher) run() error {
	defer w.close()

	w.goFunc(w.watchLoop)
	w.goFunc(w.replayLoop)

	w.wg.Wait()
	return w.err
}

func (w *watcher) close() {
	w.cancel()
	err := w.fw.Close()
	w.setErr(err)
}

func (w *watcher) setErr(err error) {
	w.errMu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.errMu.Unlock()
}

func (w *watcher) goFunc(fn func(context.Context) error) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.cancel()

		err := fn(w.ctx)
		w.setErr(err)
	}()
}

func (w *watcher) paths() []string {
	paths := []string{w.inputPath}
	if w.optionsPath != "" {
		paths = append(paths, w.optionsPath)
	}
	return paths
}

// watchLoop re-adds watches as editors replace files and batches bursts of events into
// a single replay.
func (w *watcher) watchLoop(ctx context.Context) error {
	lastModified := make(map[string]time.Time)
	for _, p := range w.paths() {
		mt, err := w.ensureAddWatch(ctx, p)
		if err != nil {
			return err
		}
		lastModified[p] = mt
	}
	w.ms.Log.Info.Printf("replaying %v...", w.ms.HumanPath(w.inputPath))
	w.requestReplay()

	eatBurstTimer := time.NewTimer(0)
	<-eatBurstTimer.C
	pollTicker := time.NewTicker(time.Second * 10)
	defer pollTicker.Stop()

	changed := make(map[string]struct{})

	for {
		select {
		case <-pollTicker.C:
			// Events can be missed when a watched path is replaced.
			missedChanges := false
			for _, p := range w.paths() {
				mt, err := w.ensureAddWatch(ctx, p)
				if err != nil {
					return err
				}
				if mt2, ok := lastModified[p]; !ok || !mt.Equal(mt2) {
					missedChanges = true
					lastModified[p] = mt
				}
			}
			if missedChanges {
				w.requestReplay()
			}
		case ev, ok := <-w.fw.Events:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			w.ms.Log.Debug.Printf("received file system event %v", ev)
			mt, err := w.ensureAddWatch(ctx, ev.Name)
			if err != nil {
				return err
			}
			if ev.Op == fsnotify.Chmod {
				if mt.Equal(lastModified[ev.Name]) {
					continue
				}
			}
			lastModified[ev.Name] = mt
			changed[ev.Name] = struct{}{}
			// Wait for the writer to finish before replaying.
			eatBurstTimer.Reset(time.Millisecond * 16)
		case <-eatBurstTimer.C:
			var changedList []string
			for k := range changed {
				changedList = append(changedList, w.ms.HumanPath(k))
				delete(changed, k)
			}
			sort.Strings(changedList)
			w.ms.Log.Info.Printf("detected change in %s: replaying...", strings.Join(changedList, ", "))
			w.requestReplay()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			w.ms.Log.Error.Printf("fsnotify error: %v", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *watcher) requestReplay() {
	select {
	case w.replayCh <- struct{}{}:
	default:
	}
}

func (w *watcher) ensureAddWatch(ctx context.Context, path string) (time.Time, error) {
	interval := time.Millisecond * 16
	tc := time.NewTimer(0)
	<-tc.C
	for {
		mt, err := w.addWatch(path)
		if err == nil {
			return mt, nil
		}
		if interval >= time.Second {
			w.ms.Log.Error.Printf("failed to watch %q: %v (retrying in %v)", w.ms.HumanPath(path), err, interval)
		}

		tc.Reset(interval)
		select {
		case <-tc.C:
			if interval < time.Second {
				interval = time.Second
			}
			if interval < time.Second*16 {
				interval *= 2
			}
		case <-ctx.Done():
			return time.Time{}, ctx.Err()
		}
	}
}

func (w *watcher) addWatch(path string) (time.Time, error) {
	err := w.fw.Add(path)
	if err != nil {
		return time.Time{}, err
	}
	d, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return d.ModTime(), nil
}

func (w *watcher) replayLoop(ctx context.Context) error {
	for {
		select {
		case <-w.replayCh:
		case <-ctx.Done():
			return ctx.Err()
		}

		out, err := w.replay(ctx)
		if err != nil {
			w.ms.Log.Error.Printf("failed to replay: %v", err)
			continue
		}
		w.report(out)
	}
}

// report logs the difference between out and the previous result.
func (w *watcher) report(out []byte) {
	defer func() {
		w.last = out
	}()
	if w.last == nil {
		w.ms.Log.Success.Printf("replayed %v to %v", w.ms.HumanPath(w.inputPath), w.ms.HumanPath(w.outputPath))
		return
	}
	ds, err := diff.Strings(string(w.last), string(out))
	if err != nil {
		w.ms.Log.Warn.Printf("failed to diff results: %v", err)
		return
	}
	if ds == "" {
		w.ms.Log.Info.Printf("replayed %v: result unchanged", w.ms.HumanPath(w.inputPath))
		return
	}
	w.ms.Log.Success.Printf("replayed %v to %v:\n%s", w.ms.HumanPath(w.inputPath), w.ms.HumanPath(w.outputPath), ds)
}
