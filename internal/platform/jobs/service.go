package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"nomina/internal/platform/config"
	"nomina/internal/platform/sheets"
)

const (
	JobSheetSync = "sheet_sync"

	maxSyncAttempts = 10
)

// Service runs background work: a small in-process queue plus the periodic
// retry of spreadsheet rows that failed to sync. Each run is recorded in
// job_runs for operability.
type Service struct {
	DB     *pgxpool.Pool
	Cfg    config.Config
	Sheets *sheets.Client
	queue  chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, sheetsClient *sheets.Client) *Service {
	return &Service{
		DB:     db,
		Cfg:    cfg,
		Sheets: sheetsClient,
		queue:  make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Sheets.Enabled() && s.Cfg.SheetSyncInterval > 0 {
		go s.scheduleSheetSync(ctx, s.Cfg.SheetSyncInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

// QueueSheetRow stores a row that could not be synced so the retry loop can
// pick it up later.
func (s *Service) QueueSheetRow(ctx context.Context, sheet string, record map[string]any, cause error) {
	payload, err := json.Marshal(record)
	if err != nil {
		slog.Warn("sheet row marshal failed", "sheet", sheet, "err", err)
		return
	}
	lastError := ""
	if cause != nil {
		lastError = cause.Error()
	}
	if _, err := s.DB.Exec(ctx, `
    INSERT INTO sheet_sync_queue (sheet, payload, last_error)
    VALUES ($1, $2, $3)
  `, sheet, payload, lastError); err != nil {
		slog.Warn("sheet row queue insert failed", "sheet", sheet, "err", err)
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1, $2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) scheduleSheetSync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobSheetSync, s.retryPendingRows)
		}
	}
}

type pendingRow struct {
	ID       string
	Sheet    string
	Payload  []byte
	Attempts int
}

func (s *Service) retryPendingRows(ctx context.Context) (any, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, sheet, payload, attempts
    FROM sheet_sync_queue
    WHERE attempts < $1
    ORDER BY created_at
    LIMIT 50
  `, maxSyncAttempts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []pendingRow
	for rows.Next() {
		var p pendingRow
		if err := rows.Scan(&p.ID, &p.Sheet, &p.Payload, &p.Attempts); err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	synced, failed := 0, 0
	for _, p := range pending {
		var record map[string]any
		if err := json.Unmarshal(p.Payload, &record); err != nil {
			slog.Warn("queued sheet row unreadable, dropping", "id", p.ID, "err", err)
			s.deleteRow(ctx, p.ID)
			continue
		}
		if err := s.Sheets.AddRow(ctx, p.Sheet, record); err != nil {
			failed++
			if _, updErr := s.DB.Exec(ctx, `
        UPDATE sheet_sync_queue
        SET attempts = attempts + 1, last_error = $1
        WHERE id = $2
      `, err.Error(), p.ID); updErr != nil {
				slog.Warn("sheet queue update failed", "id", p.ID, "err", updErr)
			}
			continue
		}
		synced++
		s.deleteRow(ctx, p.ID)
	}
	return map[string]any{"synced": synced, "failed": failed}, nil
}

func (s *Service) deleteRow(ctx context.Context, id string) {
	if _, err := s.DB.Exec(ctx, "DELETE FROM sheet_sync_queue WHERE id = $1", id); err != nil {
		slog.Warn("sheet queue delete failed", "id", id, "err", err)
	}
}
