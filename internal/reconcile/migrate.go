package reconcile

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dkuiper/taskboard/internal/client"
	"github.com/dkuiper/taskboard/internal/domain"
	"github.com/dkuiper/taskboard/internal/localcache"
)

// legacyCount tolerates the old cache's stringly-typed team counts: the
// value may be a JSON number, a quoted number, or empty.
type legacyCount int

func (c *legacyCount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*c = 0
		return nil
	}
	*c = legacyCount(n)
	return nil
}

// Legacy cache payload, shaped as the old client serialized it: one blob
// holding the whole tree, photo binaries embedded as base64 data URLs.
type legacyData struct {
	Jobs []legacyJob `json:"jobs"`
}

type legacyJob struct {
	OrderNumber string      `json:"orderNumber"`
	Hal         string      `json:"hal"`
	Plaats      string      `json:"plaats"`
	Fase        string      `json:"fase"`
	TekMerk     string      `json:"tekMerk"`
	Priority    string      `json:"priority"`
	PolDag      legacyCount `json:"polDag"`
	PrtDag      legacyCount `json:"prtDag"`
	Prt         legacyCount `json:"prt"`
	Pl          legacyCount `json:"pl"`
	Metr        legacyCount `json:"metr"`
	Remarks     string      `json:"remarks"`
	Tasks       []legacyTask `json:"tasks"`
}

type legacyTask struct {
	Description string        `json:"description"`
	AssignedTo  string        `json:"assignedTo"`
	Status      string        `json:"status"`
	Photos      []legacyPhoto `json:"photos"`
	Notes       []legacyNote  `json:"notes"`
}

type legacyPhoto struct {
	Data    string `json:"data"`
	Caption string `json:"caption"`
}

type legacyNote struct {
	Content string `json:"content"`
}

// MigrationReport summarizes one migration run.
type MigrationReport struct {
	JobsCreated    int
	JobsSkipped    int
	TasksCreated   int
	NotesCreated   int
	PhotosUploaded int
}

// Migrator replays a legacy local cache through the live API, once. After
// the walk the cache key is renamed to the backup key, never deleted: the
// backup is the recovery record for anything that was skipped.
type Migrator struct {
	api    *client.Client
	cache  *localcache.Cache
	logger *slog.Logger
}

func NewMigrator(api *client.Client, cache *localcache.Cache, logger *slog.Logger) *Migrator {
	return &Migrator{api: api, cache: cache, logger: logger}
}

// Run performs the migration. A missing or empty cache is a no-op. A job
// that fails to create is logged and skipped, never retried or rolled
// back; the run continues with the next job.
func (m *Migrator) Run(ctx context.Context) (*MigrationReport, error) {
	raw, err := m.cache.Get(localcache.DataKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy cache: %w", err)
	}
	if raw == nil {
		m.logger.Info("no legacy cache present, nothing to migrate")
		return &MigrationReport{}, nil
	}

	var legacy legacyData
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("failed to parse legacy cache: %w", err)
	}

	report := &MigrationReport{}
	for _, oldJob := range legacy.Jobs {
		if err := m.migrateJob(ctx, oldJob, report); err != nil {
			m.logger.Warn("skipping job during migration",
				"order_number", oldJob.OrderNumber, "error", err)
			report.JobsSkipped++
		}
	}

	if err := m.cache.Rename(localcache.DataKey, localcache.BackupKey); err != nil {
		return report, fmt.Errorf("failed to archive legacy cache: %w", err)
	}
	m.logger.Info("legacy cache migrated",
		"jobs", report.JobsCreated,
		"tasks", report.TasksCreated,
		"notes", report.NotesCreated,
		"photos", report.PhotosUploaded,
		"skipped", report.JobsSkipped,
	)
	return report, nil
}

func (m *Migrator) migrateJob(ctx context.Context, oldJob legacyJob, report *MigrationReport) error {
	job, err := m.api.CreateJob(ctx, &domain.JobInput{
		OrderNumber: oldJob.OrderNumber,
		Hal:         oldJob.Hal,
		Plaats:      oldJob.Plaats,
		Fase:        oldJob.Fase,
		TekMerk:     oldJob.TekMerk,
		Priority:    legacyPriority(oldJob.Priority),
		PolDag:      int(oldJob.PolDag),
		PrtDag:      int(oldJob.PrtDag),
		Prt:         int(oldJob.Prt),
		Pl:          int(oldJob.Pl),
		Metr:        int(oldJob.Metr),
		Remarks:     oldJob.Remarks,
	})
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	report.JobsCreated++

	for _, oldTask := range oldJob.Tasks {
		task, err := m.api.CreateTask(ctx, &domain.TaskInput{
			JobID:       job.ID,
			Description: oldTask.Description,
			AssignedTo:  oldTask.AssignedTo,
			Status:      legacyStatus(oldTask.Status),
		})
		if err != nil {
			return fmt.Errorf("failed to create task %q: %w", oldTask.Description, err)
		}
		report.TasksCreated++

		for _, oldNote := range oldTask.Notes {
			if _, err := m.api.AddNote(ctx, task.ID, oldNote.Content); err != nil {
				return fmt.Errorf("failed to add note: %w", err)
			}
			report.NotesCreated++
		}

		// Embedded photos are best-effort: a corrupt data URL loses one
		// photo, not the whole job.
		for i, oldPhoto := range oldTask.Photos {
			filename, data, err := decodeDataURL(oldPhoto.Data, i)
			if err != nil {
				m.logger.Warn("skipping cached photo during migration",
					"task_id", task.ID, "error", err)
				continue
			}
			if _, err := m.api.UploadPhoto(ctx, task.ID, filename, oldPhoto.Caption, bytes.NewReader(data)); err != nil {
				m.logger.Warn("failed to upload cached photo",
					"task_id", task.ID, "error", err)
				continue
			}
			report.PhotosUploaded++
		}
	}
	return nil
}

func legacyPriority(p string) domain.Priority {
	if domain.ValidPriority(domain.Priority(p)) {
		return domain.Priority(p)
	}
	return domain.PriorityNormal
}

func legacyStatus(s string) domain.Status {
	if domain.ValidStatus(domain.Status(s)) {
		return domain.Status(s)
	}
	return domain.StatusPending
}

// decodeDataURL unpacks a "data:image/png;base64,..." payload into bytes
// and a synthetic filename carrying the right extension.
func decodeDataURL(dataURL string, index int) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, fmt.Errorf("unsupported data URL encoding")
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode photo data: %w", err)
	}

	ext := ".jpg"
	switch strings.TrimSuffix(meta, ";base64") {
	case "image/png":
		ext = ".png"
	case "image/gif":
		ext = ".gif"
	}
	return fmt.Sprintf("migrated-%d%s", index+1, ext), data, nil
}
