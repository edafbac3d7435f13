package source

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/store"
)

// LoadResult holds the merged output of parsing a set of files.
type LoadResult struct {
	Logs        []model.LogEntry
	Purchases   []model.PurchaseEvent
	Maintenance []model.MaintenanceItem
	TotalFiles  int
	ParsedFiles int
	ParseErrors int
	Skipped     int
	FileErrors  int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses every importable file under path.
// It uses a bounded worker pool for parallel parsing.
func Load(path, vehicle string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := ScanDir(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	result := &LoadResult{TotalFiles: len(files)}
	for _, pr := range parseAll(files, vehicle, 0, len(files), progressFn) {
		result.merge(pr)
	}
	return result, nil
}

func (r *LoadResult) merge(pr ParseResult) {
	if pr.Err != nil {
		r.FileErrors++
		return
	}
	r.ParsedFiles++
	r.ParseErrors += pr.ParseErrors
	r.Skipped += pr.Skipped
	r.Logs = append(r.Logs, pr.Logs...)
	r.Purchases = append(r.Purchases, pr.Purchases...)
	r.Maintenance = append(r.Maintenance, pr.Maintenance...)
}

// parseAll parses files in parallel, preserving input order. offset and
// total shape the values reported to progressFn.
func parseAll(files []DiscoveredFile, vehicle string, offset, total int, progressFn ProgressFunc) []ParseResult {
	if len(files) == 0 {
		return nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = ParseFile(files[idx], vehicle)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n)+offset, total)
				}
			}
		}()
	}

	wg.Wait()
	return results
}

// Sink persists imported records and remembers which files were imported.
// *store.Store satisfies it.
type Sink interface {
	GetTrackedFiles(ctx context.Context) (map[string]store.FileInfo, error)
	TrackFile(ctx context.Context, path string, mtimeNs, sizeBytes int64) error
	SaveLogs(ctx context.Context, logs []model.LogEntry) error
	SavePurchases(ctx context.Context, purchases []model.PurchaseEvent) error
	SaveMaintenance(ctx context.Context, m model.MaintenanceItem) error
}

// ImportResult extends LoadResult with file tracking metadata.
type ImportResult struct {
	LoadResult
	Unchanged int
	Imported  int
}

// Import discovers files under path, skips the ones whose mtime and size
// match the last import, parses the rest and saves their records. With
// force every file is re-imported.
func Import(ctx context.Context, sink Sink, path, vehicle string, force bool, progressFn ProgressFunc) (*ImportResult, error) {
	files, err := ScanDir(path)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	result := &ImportResult{LoadResult: LoadResult{TotalFiles: len(files)}}
	if len(files) == 0 {
		return result, nil
	}

	tracked, err := sink.GetTrackedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading tracked files: %w", err)
	}

	var changed []DiscoveredFile
	infos := make(map[string]os.FileInfo, len(files))
	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			result.FileErrors++
			continue
		}
		infos[f.Path] = info

		prev, ok := tracked[f.Path]
		if !force && ok && prev.MtimeNs == info.ModTime().UnixNano() && prev.SizeBytes == info.Size() {
			result.Unchanged++
			continue
		}
		changed = append(changed, f)
	}

	for i, pr := range parseAll(changed, vehicle, result.Unchanged, result.TotalFiles, progressFn) {
		result.merge(pr)
		if pr.Err != nil {
			continue
		}
		if err := save(ctx, sink, pr); err != nil {
			return nil, fmt.Errorf("saving %s: %w", changed[i].Path, err)
		}
		info := infos[changed[i].Path]
		if err := sink.TrackFile(ctx, changed[i].Path, info.ModTime().UnixNano(), info.Size()); err != nil {
			return nil, fmt.Errorf("tracking %s: %w", changed[i].Path, err)
		}
		result.Imported++
	}
	return result, nil
}

func save(ctx context.Context, sink Sink, pr ParseResult) error {
	if len(pr.Logs) > 0 {
		if err := sink.SaveLogs(ctx, pr.Logs); err != nil {
			return err
		}
	}
	if len(pr.Purchases) > 0 {
		if err := sink.SavePurchases(ctx, pr.Purchases); err != nil {
			return err
		}
	}
	for _, m := range pr.Maintenance {
		if err := sink.SaveMaintenance(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
