package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobRunRecord is one execution of a scheduled job
type JobRunRecord struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	JobName     string     `gorm:"column:job_name;size:100;not null;index"`
	Status      string     `gorm:"column:status;size:20;not null"`
	Error       string     `gorm:"column:error;type:text"`
	StartedAt   time.Time  `gorm:"column:started_at;not null"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	DurationMs  int64      `gorm:"column:duration_ms"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (JobRunRecord) TableName() string {
	return "scheduler_job_runs"
}

// JobRunRepository persists job run records; it implements RunRecorder
type JobRunRepository struct {
	db *gorm.DB
}

// NewJobRunRepository creates a new JobRunRepository
func NewJobRunRepository(db *gorm.DB) *JobRunRepository {
	return &JobRunRepository{db: db}
}

// RecordStart inserts a RUNNING record and returns its id
func (r *JobRunRepository) RecordStart(ctx context.Context, jobName string) (string, error) {
	now := time.Now()
	record := &JobRunRecord{
		ID:        uuid.New(),
		JobName:   jobName,
		Status:    string(JobStatusRunning),
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return "", err
	}
	return record.ID.String(), nil
}

// RecordComplete stores the outcome of a run
func (r *JobRunRepository) RecordComplete(ctx context.Context, runID string, runErr error) error {
	id, err := uuid.Parse(runID)
	if err != nil {
		return err
	}
	var record JobRunRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return err
	}

	now := time.Now()
	status, errMsg := string(JobStatusSuccess), ""
	if runErr != nil {
		status, errMsg = string(JobStatusFailed), runErr.Error()
	}
	return r.db.WithContext(ctx).
		Model(&JobRunRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       status,
			"error":        errMsg,
			"completed_at": now,
			"duration_ms":  now.Sub(record.StartedAt).Milliseconds(),
			"updated_at":   now,
		}).Error
}

// FindRecent returns the latest runs of a job, newest first
func (r *JobRunRepository) FindRecent(ctx context.Context, jobName string, limit int) ([]JobRunRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var records []JobRunRecord
	err := r.db.WithContext(ctx).
		Where("job_name = ?", jobName).
		Order("started_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}
