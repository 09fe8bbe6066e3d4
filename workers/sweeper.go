package workers

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/karrick/godirwalk"

	"gallery-backend/config"
	"gallery-backend/gallery"
	"gallery-backend/media"
	"gallery-backend/metadata"
	"gallery-backend/metrics"
)

const (
	TaskThumbnail = "thumbnail"
	TaskMetadata  = "metadata"
)

type sweepJob struct {
	AbsPath string
	RelPath string
	Task    string
	done    *sync.WaitGroup
}

type sweepEntry struct {
	AbsPath string
	RelPath string
}

// Sweeper pre-generates thumbnails and pre-warms the metadata cache
// over the whole library with a fixed pool of workers pulling from a
// shared queue. Failures are logged and skipped, never retried; a crash
// mid-sweep loses progress and is recovered by the next full sweep.
type Sweeper struct {
	Cfg    config.Config
	Meta   *metadata.Service
	Thumbs *media.ThumbnailStore

	jobQueue  chan sweepJob
	wg        sync.WaitGroup
	stopChan  chan struct{}
	pending   map[string]bool
	mu        sync.Mutex
	running   atomic.Bool
	batchDone atomic.Int64
	batchSize atomic.Int64
}

func NewSweeper(cfg config.Config, meta *metadata.Service, thumbs *media.ThumbnailStore) *Sweeper {
	numWorkers := cfg.NumSweepWorkers
	if numWorkers <= 0 {
		numWorkers = 1
	}
	queueSize := cfg.SweepQueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	sw := &Sweeper{
		Cfg:      cfg,
		Meta:     meta,
		Thumbs:   thumbs,
		jobQueue: make(chan sweepJob, queueSize),
		stopChan: make(chan struct{}),
		pending:  make(map[string]bool),
	}

	sw.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go sw.worker(i)
	}
	log.Printf("started %d sweep worker(s) with queue size %d", numWorkers, queueSize)

	return sw
}

// Run performs an initial sweep and then re-sweeps on every interval
// tick until Stop is called.
func (sw *Sweeper) Run() {
	go func() {
		sw.Sweep("startup")
		ticker := time.NewTicker(sw.Cfg.RescanInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sw.Sweep("interval")
			case <-sw.stopChan:
				return
			}
		}
	}()
}

func (sw *Sweeper) worker(id int) {
	defer sw.wg.Done()
	for {
		select {
		case job, ok := <-sw.jobQueue:
			if !ok {
				return
			}
			sw.processJob(job)

			sw.mu.Lock()
			delete(sw.pending, job.RelPath+":"+job.Task)
			sw.mu.Unlock()

			if job.done != nil {
				job.done.Done()
				if n, total := sw.batchDone.Add(1), sw.batchSize.Load(); n%50 == 0 || n == total {
					log.Printf("[sweep] Progress: %d/%d", n, total)
				}
			}

		case <-sw.stopChan:
			return
		}
	}
}

func (sw *Sweeper) processJob(job sweepJob) {
	if _, err := os.Stat(job.AbsPath); os.IsNotExist(err) {
		// deleted between collection and processing
		return
	}

	ctx := context.Background()
	switch job.Task {
	case TaskThumbnail:
		var err error
		if media.IsVideoFile(job.AbsPath) {
			_, err = sw.Thumbs.EnsureVideo(ctx, job.AbsPath, job.RelPath, sw.Cfg.VideoThumbOffset)
			if err == nil {
				metrics.ThumbnailsGenerated.WithLabelValues("video").Inc()
			}
		} else {
			_, err = sw.Thumbs.Ensure(job.AbsPath, job.RelPath)
			if err == nil {
				metrics.ThumbnailsGenerated.WithLabelValues("image").Inc()
			}
		}
		if err != nil {
			metrics.ThumbnailErrors.Inc()
			log.Printf("[sweep] thumbnail failed for %s: %v", job.RelPath, err)
		}
	case TaskMetadata:
		if _, err := sw.Meta.Get(ctx, job.AbsPath); err != nil {
			log.Printf("[sweep] metadata failed for %s: %v", job.RelPath, err)
		}
	default:
		log.Printf("[sweep] unknown task type '%s' for %s", job.Task, job.RelPath)
	}
}

// queueJob blocks until the job is accepted (a sweep must cover every
// file) unless it is already pending or the sweeper is stopping.
func (sw *Sweeper) queueJob(job sweepJob) bool {
	key := job.RelPath + ":" + job.Task

	sw.mu.Lock()
	if sw.pending[key] {
		sw.mu.Unlock()
		return false
	}
	sw.pending[key] = true
	sw.mu.Unlock()

	select {
	case sw.jobQueue <- job:
		return true
	case <-sw.stopChan:
		sw.mu.Lock()
		delete(sw.pending, key)
		sw.mu.Unlock()
		return false
	}
}

// collectEntries walks the portfolio root (flat) and the albums root
// (recursively, hidden directories skipped) and returns every media file
// with its photos-root-relative path.
func (sw *Sweeper) collectEntries() []sweepEntry {
	var entries []sweepEntry

	for _, f := range gallery.ListMediaFiles(sw.Cfg.PortfolioDir) {
		entries = append(entries, sweepEntry{
			AbsPath: filepath.Join(sw.Cfg.PortfolioDir, f),
			RelPath: "portfolio/" + f,
		})
	}

	if _, err := os.Stat(sw.Cfg.AlbumsDir); err != nil {
		return entries
	}

	err := godirwalk.Walk(sw.Cfg.AlbumsDir, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			name := de.Name()
			if de.IsDir() {
				if path != sw.Cfg.AlbumsDir && gallery.IsHiddenDir(name) {
					return filepath.SkipDir
				}
				return nil
			}
			if gallery.IsHiddenDir(name) || !media.IsMediaFile(name) {
				return nil
			}
			rel, err := filepath.Rel(sw.Cfg.AlbumsDir, path)
			if err != nil {
				return nil
			}
			entries = append(entries, sweepEntry{
				AbsPath: path,
				RelPath: "albums/" + filepath.ToSlash(rel),
			})
			return nil
		},
	})
	if err != nil {
		log.Printf("[sweep] album walk error: %v", err)
	}

	return entries
}

func (sw *Sweeper) needsMetadata(e sweepEntry) bool {
	fi, err := os.Stat(e.AbsPath)
	if err != nil {
		return true
	}
	_, ok := sw.Meta.Cache.Lookup(e.AbsPath, fi.ModTime().UnixNano())
	return !ok
}

// Sweep runs one full pre-generation pass: stale thumbnails and stale
// metadata entries fan out to the worker pool, and once the batch
// finishes the metadata snapshot is rewritten from only the discovered
// file set (pruning entries for deleted files). Overlapping runs are
// skipped rather than stacked.
func (sw *Sweeper) Sweep(trigger string) {
	if !sw.running.CompareAndSwap(false, true) {
		log.Printf("[sweep] previous sweep still running, skipping (%s)", trigger)
		return
	}
	defer sw.running.Store(false)

	start := time.Now()
	entries := sw.collectEntries()
	if len(entries) == 0 {
		log.Printf("[sweep] no media found")
		return
	}

	var batch sync.WaitGroup
	queued := int64(0)
	keep := make(map[string]bool, len(entries))

	// first pass counts so progress logging has a denominator
	var jobs []sweepJob
	for _, e := range entries {
		keep[e.AbsPath] = true
		if !sw.Thumbs.IsFresh(e.AbsPath, e.RelPath) {
			jobs = append(jobs, sweepJob{AbsPath: e.AbsPath, RelPath: e.RelPath, Task: TaskThumbnail})
		}
		if sw.needsMetadata(e) {
			jobs = append(jobs, sweepJob{AbsPath: e.AbsPath, RelPath: e.RelPath, Task: TaskMetadata})
		}
	}

	if len(jobs) == 0 {
		log.Printf("[sweep] all %d media files up to date (%s)", len(entries), trigger)
		if err := sw.Meta.Cache.SaveSnapshot(keep); err != nil {
			log.Printf("[sweep] snapshot save failed: %v", err)
		}
		return
	}

	sw.batchDone.Store(0)
	sw.batchSize.Store(int64(len(jobs)))
	log.Printf("[sweep] processing %d jobs across %d media files (%s)...", len(jobs), len(entries), trigger)

	for _, job := range jobs {
		job.done = &batch
		batch.Add(1)
		if !sw.queueJob(job) {
			batch.Done()
			continue
		}
		queued++
	}
	batch.Wait()

	if err := sw.Meta.Cache.SaveSnapshot(keep); err != nil {
		log.Printf("[sweep] snapshot save failed: %v", err)
	}

	elapsed := time.Since(start)
	metrics.SweepDuration.Observe(elapsed.Seconds())
	metrics.SweepsTotal.WithLabelValues(trigger).Inc()
	log.Printf("[sweep] done: %d jobs in %s (%s)", queued, elapsed.Round(time.Millisecond), trigger)
}

func (sw *Sweeper) Stop() {
	log.Println("stopping sweep workers...")
	close(sw.stopChan)
	sw.wg.Wait()
	log.Println("all sweep workers stopped")
}
