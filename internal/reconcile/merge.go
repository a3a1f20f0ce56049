package reconcile

import "github.com/dkuiper/taskboard/internal/domain"

// MergeOptions selects which cached fields override the fetched baseline
// during the initial load. The cache stays authoritative for task status,
// photos, and notes until the backend migration fully lands; each override
// is switchable rather than implicit.
type MergeOptions struct {
	LocalStatus bool
	LocalPhotos bool
	LocalNotes  bool
}

// DefaultMergeOptions enables every override, preserving the historical
// offline-first behavior.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{LocalStatus: true, LocalPhotos: true, LocalNotes: true}
}

// MergeLocal folds a cached copy of the tree into a freshly fetched
// baseline. Only jobs and tasks present in both are touched; cache-only
// entities are not resurrected, and baseline entities are never removed.
// The baseline is modified in place and returned.
func MergeLocal(baseline, cached []*domain.Job, opts MergeOptions) []*domain.Job {
	cachedJobs := make(map[int64]*domain.Job, len(cached))
	for _, job := range cached {
		cachedJobs[job.ID] = job
	}

	for _, job := range baseline {
		cachedJob, ok := cachedJobs[job.ID]
		if !ok {
			continue
		}
		cachedTasks := make(map[int64]*domain.Task, len(cachedJob.Tasks))
		for _, task := range cachedJob.Tasks {
			cachedTasks[task.ID] = task
		}
		for _, task := range job.Tasks {
			cachedTask, ok := cachedTasks[task.ID]
			if !ok {
				continue
			}
			mergeTask(task, cachedTask, opts)
		}
	}
	return baseline
}

func mergeTask(task, cached *domain.Task, opts MergeOptions) {
	if opts.LocalStatus && domain.ValidStatus(cached.Status) {
		task.Status = cached.Status
	}
	if opts.LocalPhotos {
		task.Photos = appendMissingPhotos(task.Photos, cached.Photos)
	}
	if opts.LocalNotes {
		task.Notes = appendMissingNotes(task.Notes, cached.Notes)
	}
}

func appendMissingPhotos(base, cached []*domain.Photo) []*domain.Photo {
	seen := make(map[int64]bool, len(base))
	for _, p := range base {
		seen[p.ID] = true
	}
	for _, p := range cached {
		if !seen[p.ID] {
			base = append(base, p)
		}
	}
	return base
}

func appendMissingNotes(base, cached []*domain.Note) []*domain.Note {
	seen := make(map[int64]bool, len(base))
	for _, n := range base {
		seen[n.ID] = true
	}
	for _, n := range cached {
		if !seen[n.ID] {
			base = append(base, n)
		}
	}
	return base
}
