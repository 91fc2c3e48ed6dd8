package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/jobsched/internal/models"
	srvErrors "github.com/kubev2v/jobsched/pkg/errors"
)

// JobStore keeps the history of delivered jobs.
type JobStore struct {
	db QueryInterceptor
}

func NewJobStore(db QueryInterceptor) *JobStore {
	return &JobStore{db: db}
}

// Insert records a delivered job.
func (s *JobStore) Insert(ctx context.Context, r models.JobRecord) error {
	_, err := s.db.ExecContext(ctx, queryInsertJobRecord,
		r.SchedulerID,
		r.Handle,
		r.BatchID,
		r.Type,
		r.Priority,
		r.Outcome.Value(),
		r.SubmittedAt.UTC(),
		r.CompletedAt.UTC(),
		r.RunTime.Milliseconds(),
	)
	return err
}

func (s *JobStore) Get(ctx context.Context, schedulerID string, handle uint64) (*models.JobRecord, error) {
	query, args, err := selectJobRecords().
		Where(sq.Eq{"scheduler_id": schedulerID, "handle": handle}).
		ToSql()
	if err != nil {
		return nil, err
	}

	r, err := scanJobRecord(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewJobRecordNotFoundError(handle)
	}
	return r, err
}

// List returns records ordered from the most recent completion.
func (s *JobStore) List(ctx context.Context, opts ...ListOption) ([]models.JobRecord, error) {
	builder := selectJobRecords().OrderBy("completed_at DESC", "handle DESC")
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.JobRecord{}
	for rows.Next() {
		r, err := scanJobRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

func (s *JobStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From(tableJobHistory)
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// CountByOutcome returns the number of records per outcome.
func (s *JobStore) CountByOutcome(ctx context.Context, opts ...ListOption) (map[models.JobOutcome]int, error) {
	builder := sq.Select("outcome", "COUNT(*)").From(tableJobHistory).GroupBy("outcome")
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[models.JobOutcome]int{}
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		counts[models.JobOutcome(outcome)] = n
	}
	return counts, rows.Err()
}

// Prune deletes records completed before t and returns how many were removed.
func (s *JobStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, queryDeleteJobHistory, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func selectJobRecords() sq.SelectBuilder {
	return sq.Select(
		"scheduler_id",
		"handle",
		"batch_id",
		"job_type",
		"priority",
		"outcome",
		"submitted_at",
		"completed_at",
		"run_ms",
	).From(tableJobHistory)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJobRecord(row rowScanner) (*models.JobRecord, error) {
	var (
		r       models.JobRecord
		outcome string
		runMs   int64
	)
	err := row.Scan(
		&r.SchedulerID,
		&r.Handle,
		&r.BatchID,
		&r.Type,
		&r.Priority,
		&outcome,
		&r.SubmittedAt,
		&r.CompletedAt,
		&runMs,
	)
	if err != nil {
		return nil, err
	}
	r.Outcome = models.JobOutcome(outcome)
	r.RunTime = time.Duration(runMs) * time.Millisecond
	return &r, nil
}

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func BySchedulerID(id string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if id == "" {
			return b
		}
		return b.Where(sq.Eq{"scheduler_id": id})
	}
}

func ByOutcome(outcomes ...models.JobOutcome) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(outcomes) == 0 {
			return b
		}
		values := make([]string, 0, len(outcomes))
		for _, o := range outcomes {
			values = append(values, o.Value())
		}
		return b.Where(sq.Eq{"outcome": values})
	}
}

func ByPriority(priorities ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(priorities) == 0 {
			return b
		}
		return b.Where(sq.Eq{"priority": priorities})
	}
}

func ByBatch(batchID string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if batchID == "" {
			return b
		}
		return b.Where(sq.Eq{"batch_id": batchID})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if limit == 0 {
			return b
		}
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if offset == 0 {
			return b
		}
		return b.Offset(offset)
	}
}
