package store

// Job history queries
const (
	tableJobHistory = "job_history"

	queryInsertJobRecord = `
		INSERT INTO job_history (scheduler_id, handle, batch_id, job_type, priority, outcome, submitted_at, completed_at, run_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryDeleteJobHistory = `DELETE FROM job_history WHERE completed_at < ?`
)
