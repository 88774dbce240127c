package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/marafiq-hq/staffing-crm/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// JobFlow handles the job catalog and its profiles
type JobFlow interface {
	CreateJob(ctx context.Context, request *dto.CreateJobRequest, metadata *ClientMetadata) (*dto.JobResponse, error)
	UpdateJob(ctx context.Context, jobID uint, request *dto.UpdateJobRequest, metadata *ClientMetadata) (*dto.JobResponse, error)
	ListJobs(ctx context.Context, activeOnly bool) (*dto.ListJobsResponse, error)
	CreateProfile(ctx context.Context, request *dto.CreateJobProfileRequest, metadata *ClientMetadata) (*dto.JobProfileResponse, error)
	UpdateProfile(ctx context.Context, profileID uint, request *dto.UpdateJobProfileRequest, metadata *ClientMetadata) (*dto.JobProfileResponse, error)
	ListProfiles(ctx context.Context, jobID uint) (*dto.ListJobProfilesResponse, error)
}

// JobFlowImpl implements the job catalog business flow
type JobFlowImpl struct {
	jobRepo     repository.JobRepository
	profileRepo repository.JobProfileRepository
	lookupRepo  repository.LookupRepository
	auditRepo   repository.AuditLogRepository
	db          *gorm.DB
}

// NewJobFlow creates a new job flow instance
func NewJobFlow(
	jobRepo repository.JobRepository,
	profileRepo repository.JobProfileRepository,
	lookupRepo repository.LookupRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) JobFlow {
	return &JobFlowImpl{
		jobRepo:     jobRepo,
		profileRepo: profileRepo,
		lookupRepo:  lookupRepo,
		auditRepo:   auditRepo,
		db:          db,
	}
}

// CreateJob registers a new job category with a unique code
func (f *JobFlowImpl) CreateJob(ctx context.Context, request *dto.CreateJobRequest, metadata *ClientMetadata) (*dto.JobResponse, error) {
	userID, _ := UserIDFromContext(ctx)
	code := strings.ToLower(strings.TrimSpace(request.Code))

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.JobResponse, error) {
		existing, err := f.jobRepo.ByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrJobCodeTaken
		}

		job := &models.Job{
			Name:     strings.TrimSpace(request.Name),
			Code:     code,
			Category: request.Category,
			IsActive: utils.ToPtr(true),
		}

		if err := f.jobRepo.Save(ctx, job); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityCreated, "job", job.ID,
			fmt.Sprintf("Job created: %s", job.Code), metadata)

		return &dto.JobResponse{
			Message: "Job created successfully",
			Job:     toJobItem(job),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("CREATE_JOB_FAILED", "Failed to create job", err)
	}
	return resp, nil
}

// UpdateJob applies partial updates to a job category
func (f *JobFlowImpl) UpdateJob(ctx context.Context, jobID uint, request *dto.UpdateJobRequest, metadata *ClientMetadata) (*dto.JobResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.JobResponse, error) {
		job, err := f.jobRepo.ByID(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job == nil {
			return nil, ErrJobNotFound
		}

		if request.Name != nil {
			job.Name = strings.TrimSpace(*request.Name)
		}
		if request.Category != nil {
			job.Category = request.Category
		}
		if request.IsActive != nil {
			job.IsActive = request.IsActive
		}
		job.UpdatedAt = utils.UTCNow()

		if err := f.jobRepo.Update(ctx, job); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityUpdated, "job", job.ID,
			fmt.Sprintf("Job updated: %s", job.Code), metadata)

		return &dto.JobResponse{
			Message: "Job updated successfully",
			Job:     toJobItem(job),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_JOB_FAILED", "Failed to update job", err)
	}
	return resp, nil
}

// ListJobs returns job categories, optionally active ones only
func (f *JobFlowImpl) ListJobs(ctx context.Context, activeOnly bool) (*dto.ListJobsResponse, error) {
	var jobs []*models.Job
	var err error
	if activeOnly {
		jobs, err = f.jobRepo.ListActive(ctx)
	} else {
		jobs, err = f.jobRepo.ByFilter(ctx, models.JobFilter{}, "name ASC", 0, 0)
	}
	if err != nil {
		return nil, NewBusinessError("LIST_JOBS_FAILED", "Failed to list jobs", err)
	}

	items := make([]dto.JobItem, 0, len(jobs))
	for i := range jobs {
		items = append(items, toJobItem(jobs[i]))
	}

	return &dto.ListJobsResponse{
		Message: "Jobs retrieved successfully",
		Items:   items,
	}, nil
}

// CreateProfile attaches a costed profile to a job
func (f *JobFlowImpl) CreateProfile(ctx context.Context, request *dto.CreateJobProfileRequest, metadata *ClientMetadata) (*dto.JobProfileResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	baseCost, err := decimal.NewFromString(request.BaseMonthlyCost)
	if err != nil || baseCost.IsNegative() {
		return nil, NewBusinessError("INVALID_BASE_COST", "Base monthly cost must be a non-negative decimal", err)
	}

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.JobProfileResponse, error) {
		job, err := f.jobRepo.ByID(ctx, request.JobID)
		if err != nil {
			return nil, err
		}
		if job == nil {
			return nil, ErrJobNotFound
		}

		if request.SkillLevelID != nil {
			level, err := f.lookupRepo.SkillLevelByID(ctx, *request.SkillLevelID)
			if err != nil {
				return nil, err
			}
			if level == nil {
				return nil, ErrSkillLevelNotFound
			}
		}

		profile := &models.JobProfile{
			JobID:                 job.ID,
			Name:                  strings.TrimSpace(request.Name),
			BaseMonthlyCost:       baseCost,
			DefaultComponentCodes: request.DefaultComponentCodes,
			SkillLevelID:          request.SkillLevelID,
			IsActive:              utils.ToPtr(true),
		}
		if profile.DefaultComponentCodes == nil {
			profile.DefaultComponentCodes = []string{}
		}

		if err := f.profileRepo.Save(ctx, profile); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityCreated, "job_profile", profile.ID,
			fmt.Sprintf("Job profile created: %s (job %s)", profile.Name, job.Code), metadata)

		return &dto.JobProfileResponse{
			Message: "Job profile created successfully",
			Profile: toJobProfileItem(profile),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("CREATE_JOB_PROFILE_FAILED", "Failed to create job profile", err)
	}
	return resp, nil
}

// UpdateProfile applies partial updates to a job profile
func (f *JobFlowImpl) UpdateProfile(ctx context.Context, profileID uint, request *dto.UpdateJobProfileRequest, metadata *ClientMetadata) (*dto.JobProfileResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.JobProfileResponse, error) {
		profile, err := f.profileRepo.ByID(ctx, profileID)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, ErrJobProfileNotFound
		}

		if request.Name != nil {
			profile.Name = strings.TrimSpace(*request.Name)
		}
		if request.BaseMonthlyCost != nil {
			baseCost, err := decimal.NewFromString(*request.BaseMonthlyCost)
			if err != nil || baseCost.IsNegative() {
				return nil, NewBusinessError("INVALID_BASE_COST", "Base monthly cost must be a non-negative decimal", err)
			}
			profile.BaseMonthlyCost = baseCost
		}
		if request.DefaultComponentCodes != nil {
			profile.DefaultComponentCodes = request.DefaultComponentCodes
		}
		if request.SkillLevelID != nil {
			level, err := f.lookupRepo.SkillLevelByID(ctx, *request.SkillLevelID)
			if err != nil {
				return nil, err
			}
			if level == nil {
				return nil, ErrSkillLevelNotFound
			}
			profile.SkillLevelID = request.SkillLevelID
		}
		if request.IsActive != nil {
			profile.IsActive = request.IsActive
		}
		profile.UpdatedAt = utils.UTCNow()

		if err := f.profileRepo.Update(ctx, profile); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityUpdated, "job_profile", profile.ID,
			fmt.Sprintf("Job profile updated: %s", profile.Name), metadata)

		return &dto.JobProfileResponse{
			Message: "Job profile updated successfully",
			Profile: toJobProfileItem(profile),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_JOB_PROFILE_FAILED", "Failed to update job profile", err)
	}
	return resp, nil
}

// ListProfiles returns the profiles of one job
func (f *JobFlowImpl) ListProfiles(ctx context.Context, jobID uint) (*dto.ListJobProfilesResponse, error) {
	job, err := f.jobRepo.ByID(ctx, jobID)
	if err != nil {
		return nil, NewBusinessError("LIST_JOB_PROFILES_FAILED", "Failed to list job profiles", err)
	}
	if job == nil {
		return nil, NewBusinessError("JOB_NOT_FOUND", "Job not found", ErrJobNotFound)
	}

	profiles, err := f.profileRepo.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, NewBusinessError("LIST_JOB_PROFILES_FAILED", "Failed to list job profiles", err)
	}

	items := make([]dto.JobProfileItem, 0, len(profiles))
	for i := range profiles {
		items = append(items, toJobProfileItem(profiles[i]))
	}

	return &dto.ListJobProfilesResponse{
		Message: "Job profiles retrieved successfully",
		Items:   items,
	}, nil
}

func toJobItem(job *models.Job) dto.JobItem {
	return dto.JobItem{
		ID:       job.ID,
		UUID:     job.UUID.String(),
		Name:     job.Name,
		Code:     job.Code,
		Category: job.Category,
		IsActive: job.IsActive,
	}
}

func toJobProfileItem(profile *models.JobProfile) dto.JobProfileItem {
	return dto.JobProfileItem{
		ID:                    profile.ID,
		UUID:                  profile.UUID.String(),
		JobID:                 profile.JobID,
		Name:                  profile.Name,
		BaseMonthlyCost:       profile.BaseMonthlyCost.StringFixed(2),
		DefaultComponentCodes: profile.DefaultComponentCodes,
		SkillLevelID:          profile.SkillLevelID,
		IsActive:              profile.IsActive,
	}
}
