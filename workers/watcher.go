package workers

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"gallery-backend/gallery"
)

const watchDebounce = 2 * time.Second

// Watcher triggers a sweep when the photo library changes on disk, so
// new uploads get thumbnails before the next interval tick. Events are
// debounced; the periodic sweep remains the safety net for anything the
// watcher misses.
type Watcher struct {
	sweeper *Sweeper
	fsw     *fsnotify.Watcher
	stop    chan struct{}
}

func NewWatcher(sweeper *Sweeper) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{sweeper: sweeper, fsw: fsw, stop: make(chan struct{})}
	w.addTree(sweeper.Cfg.PortfolioDir)
	w.addTree(sweeper.Cfg.AlbumsDir)

	go w.loop()
	return w, nil
}

// addTree registers a directory and all its non-hidden descendants.
func (w *Watcher) addTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && gallery.IsHiddenDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			log.Printf("[watch] cannot watch %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// new directories need their own watch before the sweep runs
			if ev.Op.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && !gallery.IsHiddenDir(filepath.Base(ev.Name)) {
					w.addTree(ev.Name)
				}
			}
			if timer == nil {
				timer = time.AfterFunc(watchDebounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(watchDebounce)
			}

		case <-fire:
			timer = nil
			go w.sweeper.Sweep("watch")

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("[watch] error: %v", err)

		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) Close() {
	close(w.stop)
	_ = w.fsw.Close()
}
