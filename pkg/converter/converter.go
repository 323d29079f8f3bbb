package converter

import (
	"context"
	"fmt"
	"image"
	"iter"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"

	"github.com/alde/comically/internal/worker"
	"github.com/alde/comically/pkg/progress"
)

// ArchiveEntry is one file read out of a comic archive.
type ArchiveEntry struct {
	Path string
	Data []byte
}

// EncodedPage is a finished page ready to be embedded in a container.
type EncodedPage struct {
	FileName string
	Data     []byte
	Width    int
	Height   int
	Format   ImageFormat
	Checksum uint64 // xxhash64 of Data
}

// Failure records why an entry produced no pages.
type Failure struct {
	Entry string
	Err   error
}

// Batch is the outcome of converting a set of archive entries.
type Batch struct {
	Pages     []EncodedPage
	Processed int
	Skipped   int
	Failures  []Failure
	Duration  time.Duration
}

// Options contains conversion settings
type Options struct {
	Config      Config
	WorkerCount int               // defaults to GOMAXPROCS
	Tracker     *progress.Tracker // optional, receives one item per entry
}

// Converter runs the page pipeline over batches of archive entries.
type Converter struct {
	options Options
}

// New creates a new converter instance
func New(opts Options) *Converter {
	return &Converter{options: opts}
}

// ProcessArchiveImages converts entries with cfg using one worker per CPU.
func ProcessArchiveImages(ctx context.Context, entries []ArchiveEntry, cfg Config) (*Batch, error) {
	return New(Options{Config: cfg}).Process(ctx, entries)
}

// ProcessArchive drains an entry sequence whose items may have failed to
// load, then converts the readable ones. Unreadable entries count as skipped.
func (c *Converter) ProcessArchive(ctx context.Context, seq iter.Seq2[ArchiveEntry, error]) (*Batch, error) {
	log := logger.FromContext(ctx)

	var (
		entries  []ArchiveEntry
		failures []Failure
	)
	for entry, err := range seq {
		if err != nil {
			log.Err(err).Warn("failed to load archive entry", logger.Data{"entry": entry.Path})
			failures = append(failures, Failure{Entry: entry.Path, Err: err})
			continue
		}
		entries = append(entries, entry)
	}

	batch, err := c.Process(ctx, entries)
	if err != nil {
		return nil, err
	}
	batch.Skipped += len(failures)
	batch.Failures = append(failures, batch.Failures...)
	return batch, nil
}

// chunkJob runs the whole pipeline over a contiguous run of entries. Each job
// owns its output slot, so workers never share mutable state.
type chunkJob struct {
	index   int
	entries []ArchiveEntry
	cfg     Config
	format  ImageFormat
	tracker *progress.Tracker
	out     *chunkOutput
}

type chunkOutput struct {
	pages     []EncodedPage
	processed int
	failures  []Failure
}

func (j *chunkJob) ID() string {
	if len(j.entries) == 0 {
		return fmt.Sprintf("chunk-%d", j.index)
	}
	return fmt.Sprintf("chunk-%d (%s)", j.index, j.entries[0].Path)
}

func (j *chunkJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	workerID := worker.WorkerID(ctx)

	for _, entry := range j.entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		pages, err := processEntry(entry, j.cfg, j.format)
		if err != nil {
			log.Err(err).Warn("skipping entry", logger.Data{"entry": entry.Path})
			j.out.failures = append(j.out.failures, Failure{Entry: entry.Path, Err: err})
		} else {
			for _, p := range pages {
				log.Debug("encoded page", logger.Data{
					"file":   p.FileName,
					"width":  p.Width,
					"height": p.Height,
					"bytes":  len(p.Data),
				})
			}
			j.out.pages = append(j.out.pages, pages...)
			j.out.processed++
		}
		if j.tracker != nil {
			j.tracker.ItemDone(workerID, entry.Path, err == nil)
		}
	}
	return nil
}

// Process converts every entry and returns the pages sorted by file name.
// An invalid configuration is rejected before any entry is touched; per-entry
// failures only reduce the page count.
func (c *Converter) Process(ctx context.Context, entries []ArchiveEntry) (*Batch, error) {
	if err := c.options.Config.Validate(); err != nil {
		return nil, err
	}
	cfg := c.options.Config.Clamped()
	format := cfg.ImageFormat()

	log := logger.FromContext(ctx)
	start := time.Now()

	threads := c.options.WorkerCount
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	chunkSize := max(len(entries)/threads, 1)

	log.Info("processing archive images", logger.Data{
		"entries":    len(entries),
		"threads":    threads,
		"chunk_size": chunkSize,
		"format":     format.String(),
	})

	var (
		jobs    []worker.Job
		outputs []*chunkOutput
	)
	for i, chunk := range slices.Collect(slices.Chunk(entries, chunkSize)) {
		out := &chunkOutput{}
		outputs = append(outputs, out)
		jobs = append(jobs, &chunkJob{
			index:   i,
			entries: chunk,
			cfg:     cfg,
			format:  format,
			tracker: c.options.Tracker,
			out:     out,
		})
	}

	if len(jobs) > 0 {
		pool := worker.NewPoolWithProgress(min(threads, len(jobs)), c.options.Tracker)
		for _, r := range pool.Run(ctx, jobs) {
			if r.Error != nil {
				log.Err(r.Error).Warn("chunk did not complete", logger.Data{"job": r.JobID})
			}
		}
	}

	batch := &Batch{}
	for _, out := range outputs {
		batch.Pages = append(batch.Pages, out.pages...)
		batch.Processed += out.processed
		batch.Failures = append(batch.Failures, out.failures...)
	}
	batch.Skipped = len(entries) - batch.Processed
	batch.Pages = sortAndDedup(batch.Pages)
	batch.Duration = time.Since(start)

	log.Info("finished archive images", logger.Data{
		"processed": batch.Processed,
		"skipped":   batch.Skipped,
		"pages":     len(batch.Pages),
		"duration":  batch.Duration.String(),
	})

	return batch, nil
}

// ProcessPage runs the pixel stages of the pipeline on a decoded page:
// tone, optional crop, then split/rotate and resize.
func ProcessPage(img *image.Gray, cfg Config) Split[*image.Gray] {
	img = Transform(img, cfg.Brightness, cfg.Gamma)
	if cfg.AutoCrop {
		img = Crop(img)
	}
	return ProcessImageView(img, cfg)
}

// processEntry is the per-entry boundary: any error or panic drops the whole
// entry.
func processEntry(entry ArchiveEntry, cfg Config, format ImageFormat) (pages []EncodedPage, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = errors.Errorf("panic while processing %s: %v", entry.Path, r)
		}
	}()

	img, err := Decode(entry.Path, entry.Data)
	if err != nil {
		return nil, err
	}

	variants := ProcessPage(img, cfg)
	pages = make([]EncodedPage, 0, variants.Len())
	for i, v := range variants.All() {
		data, err := Encode(v, format)
		if err != nil {
			var pe *ProcessingError
			if errors.As(err, &pe) && pe.Entry == "" {
				pe.Entry = entry.Path
			}
			return nil, err
		}
		b := v.Bounds()
		pages = append(pages, EncodedPage{
			FileName: PageFileName(entry.Path, i, format),
			Data:     data,
			Width:    b.Dx(),
			Height:   b.Dy(),
			Format:   format,
			Checksum: xxhash.Sum64(data),
		})
	}
	return pages, nil
}

// sortAndDedup orders pages by file name and keeps the first of any
// colliding names.
func sortAndDedup(pages []EncodedPage) []EncodedPage {
	slices.SortStableFunc(pages, func(a, b EncodedPage) int {
		return strings.Compare(a.FileName, b.FileName)
	})
	return slices.CompactFunc(pages, func(a, b EncodedPage) bool {
		return a.FileName == b.FileName
	})
}
