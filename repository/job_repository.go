package repository

import (
	"context"

	"github.com/marafiq-hq/staffing-crm/models"
	"gorm.io/gorm"
)

// JobRepositoryImpl implements the JobRepository interface
type JobRepositoryImpl struct {
	*BaseRepository[models.Job, models.JobFilter]
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Job, models.JobFilter](db),
	}
}

func (r *JobRepositoryImpl) ByFilter(ctx context.Context, filter models.JobFilter, orderBy string, limit, offset int) ([]*models.Job, error) {
	return r.byFilter(ctx, filter, r.applyFilter, orderBy, limit, offset)
}

func (r *JobRepositoryImpl) Count(ctx context.Context, filter models.JobFilter) (int64, error) {
	return r.count(ctx, filter, r.applyFilter)
}

// ByCode retrieves a job by its unique code
func (r *JobRepositoryImpl) ByCode(ctx context.Context, code string) (*models.Job, error) {
	filter := models.JobFilter{Code: &code}
	jobs, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	return jobs[0], nil
}

// ListActive retrieves all active jobs ordered by name
func (r *JobRepositoryImpl) ListActive(ctx context.Context) ([]*models.Job, error) {
	isActive := true
	return r.ByFilter(ctx, models.JobFilter{IsActive: &isActive}, "name ASC", 0, 0)
}

func (r *JobRepositoryImpl) applyFilter(db *gorm.DB, filter models.JobFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.Code != nil {
		db = db.Where("code = ?", *filter.Code)
	}
	if filter.Category != nil {
		db = db.Where("category = ?", *filter.Category)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// JobProfileRepositoryImpl implements the JobProfileRepository interface
type JobProfileRepositoryImpl struct {
	*BaseRepository[models.JobProfile, models.JobProfileFilter]
}

// NewJobProfileRepository creates a new job profile repository
func NewJobProfileRepository(db *gorm.DB) JobProfileRepository {
	return &JobProfileRepositoryImpl{
		BaseRepository: NewBaseRepository[models.JobProfile, models.JobProfileFilter](db),
	}
}

func (r *JobProfileRepositoryImpl) ByFilter(ctx context.Context, filter models.JobProfileFilter, orderBy string, limit, offset int) ([]*models.JobProfile, error) {
	return r.byFilter(ctx, filter, r.applyFilter, orderBy, limit, offset)
}

func (r *JobProfileRepositoryImpl) Count(ctx context.Context, filter models.JobProfileFilter) (int64, error) {
	return r.count(ctx, filter, r.applyFilter)
}

// ListByJob retrieves profiles defined under a job
func (r *JobProfileRepositoryImpl) ListByJob(ctx context.Context, jobID uint) ([]*models.JobProfile, error) {
	filter := models.JobProfileFilter{JobID: &jobID}
	return r.ByFilter(ctx, filter, "name ASC", 0, 0)
}

func (r *JobProfileRepositoryImpl) applyFilter(db *gorm.DB, filter models.JobProfileFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.JobID != nil {
		db = db.Where("job_id = ?", *filter.JobID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.SkillLevelID != nil {
		db = db.Where("skill_level_id = ?", *filter.SkillLevelID)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}
