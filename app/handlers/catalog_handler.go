package handlers

import (
	"log"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	businessflow "github.com/marafiq-hq/staffing-crm/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// CatalogHandler handles job catalog, nationality, and lookup HTTP requests
type CatalogHandler struct {
	jobFlow         businessflow.JobFlow
	nationalityFlow businessflow.NationalityFlow
	lookupFlow      businessflow.LookupFlow
	validator       *validator.Validate
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(jobFlow businessflow.JobFlow, nationalityFlow businessflow.NationalityFlow, lookupFlow businessflow.LookupFlow) *CatalogHandler {
	return &CatalogHandler{
		jobFlow:         jobFlow,
		nationalityFlow: nationalityFlow,
		lookupFlow:      lookupFlow,
		validator:       validator.New(),
	}
}

// CreateJob adds a job title to the catalog
// @Summary Create Job
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateJobRequest true "Job data"
// @Success 201 {object} dto.APIResponse{data=dto.JobResponse} "Job created"
// @Failure 409 {object} dto.APIResponse "Job code already exists"
// @Router /api/v1/jobs [post]
func (h *CatalogHandler) CreateJob(c fiber.Ctx) error {
	var req dto.CreateJobRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.jobFlow.CreateJob(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsJobCodeTaken(err) {
			return errorResponse(c, fiber.StatusConflict, "Job code already exists", "JOB_CODE_TAKEN", nil)
		}
		log.Println("Create job failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create job", "CREATE_JOB_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// UpdateJob updates a job title
// @Summary Update Job
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Job ID"
// @Param request body dto.UpdateJobRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.JobResponse} "Job updated"
// @Failure 404 {object} dto.APIResponse "Job not found"
// @Router /api/v1/jobs/{id} [put]
func (h *CatalogHandler) UpdateJob(c fiber.Ctx) error {
	jobID, err := pathID(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid job ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateJobRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.jobFlow.UpdateJob(ctx, jobID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsJobNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Job not found", "JOB_NOT_FOUND", nil)
		}
		log.Println("Update job failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update job", "UPDATE_JOB_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListJobs returns the job catalog
// @Summary List Jobs
// @Tags Catalog
// @Produce json
// @Param active_only query bool false "Only active jobs"
// @Success 200 {object} dto.APIResponse{data=dto.ListJobsResponse} "Jobs retrieved"
// @Router /api/v1/jobs [get]
func (h *CatalogHandler) ListJobs(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.jobFlow.ListJobs(ctx, c.Query("active_only") == "true")
	if err != nil {
		log.Println("List jobs failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list jobs", "LIST_JOBS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// CreateJobProfile adds a priced profile under a job
// @Summary Create Job Profile
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateJobProfileRequest true "Profile data"
// @Success 201 {object} dto.APIResponse{data=dto.JobProfileResponse} "Profile created"
// @Failure 404 {object} dto.APIResponse "Job or skill level not found"
// @Router /api/v1/job-profiles [post]
func (h *CatalogHandler) CreateJobProfile(c fiber.Ctx) error {
	var req dto.CreateJobProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.jobFlow.CreateProfile(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsJobNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Job not found", "JOB_NOT_FOUND", nil)
		}
		if businessflow.IsSkillLevelNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Skill level not found", "SKILL_LEVEL_NOT_FOUND", nil)
		}
		log.Println("Create job profile failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create job profile", "CREATE_JOB_PROFILE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// UpdateJobProfile updates a priced profile
// @Summary Update Job Profile
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Profile ID"
// @Param request body dto.UpdateJobProfileRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.JobProfileResponse} "Profile updated"
// @Failure 404 {object} dto.APIResponse "Profile not found"
// @Router /api/v1/job-profiles/{id} [put]
func (h *CatalogHandler) UpdateJobProfile(c fiber.Ctx) error {
	profileID, err := pathID(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid profile ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateJobProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.jobFlow.UpdateProfile(ctx, profileID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsJobProfileNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Job profile not found", "JOB_PROFILE_NOT_FOUND", nil)
		}
		if businessflow.IsSkillLevelNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Skill level not found", "SKILL_LEVEL_NOT_FOUND", nil)
		}
		log.Println("Update job profile failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update job profile", "UPDATE_JOB_PROFILE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListJobProfiles returns the profiles of a job
// @Summary List Job Profiles
// @Tags Catalog
// @Produce json
// @Param id path int true "Job ID"
// @Success 200 {object} dto.APIResponse{data=dto.ListJobProfilesResponse} "Profiles retrieved"
// @Router /api/v1/jobs/{id}/profiles [get]
func (h *CatalogHandler) ListJobProfiles(c fiber.Ctx) error {
	jobID, err := pathID(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid job ID", "INVALID_REQUEST", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.jobFlow.ListProfiles(ctx, jobID)
	if err != nil {
		if businessflow.IsJobNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Job not found", "JOB_NOT_FOUND", nil)
		}
		log.Println("List job profiles failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list job profiles", "LIST_JOB_PROFILES_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// CreateNationality registers a workforce nationality
// @Summary Create Nationality
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body dto.CreateNationalityRequest true "Nationality data"
// @Success 201 {object} dto.APIResponse{data=dto.NationalityResponse} "Nationality created"
// @Failure 409 {object} dto.APIResponse "Nationality already exists"
// @Router /api/v1/nationalities [post]
func (h *CatalogHandler) CreateNationality(c fiber.Ctx) error {
	var req dto.CreateNationalityRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.nationalityFlow.CreateNationality(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsNationalityTaken(err) {
			return errorResponse(c, fiber.StatusConflict, "Nationality already exists", "NATIONALITY_TAKEN", nil)
		}
		log.Println("Create nationality failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create nationality", "CREATE_NATIONALITY_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// UpdateNationality updates a nationality
// @Summary Update Nationality
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Nationality ID"
// @Param request body dto.UpdateNationalityRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.NationalityResponse} "Nationality updated"
// @Failure 404 {object} dto.APIResponse "Nationality not found"
// @Router /api/v1/nationalities/{id} [put]
func (h *CatalogHandler) UpdateNationality(c fiber.Ctx) error {
	nationalityID, err := pathID(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid nationality ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateNationalityRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.nationalityFlow.UpdateNationality(ctx, nationalityID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsNationalityNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Nationality not found", "NATIONALITY_NOT_FOUND", nil)
		}
		log.Println("Update nationality failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update nationality", "UPDATE_NATIONALITY_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListNationalities returns the nationality catalog
// @Summary List Nationalities
// @Tags Catalog
// @Produce json
// @Param active_only query bool false "Only active nationalities"
// @Success 200 {object} dto.APIResponse{data=dto.ListNationalitiesResponse} "Nationalities retrieved"
// @Router /api/v1/nationalities [get]
func (h *CatalogHandler) ListNationalities(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.nationalityFlow.ListNationalities(ctx, c.Query("active_only") == "true")
	if err != nil {
		log.Println("List nationalities failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list nationalities", "LIST_NATIONALITIES_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListLookups returns the reference tables used by forms
// @Summary List Lookups
// @Tags Catalog
// @Produce json
// @Param active_only query bool false "Only active entries"
// @Success 200 {object} dto.APIResponse{data=dto.ListLookupsResponse} "Lookups retrieved"
// @Router /api/v1/lookups [get]
func (h *CatalogHandler) ListLookups(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.lookupFlow.ListLookups(ctx, c.Query("active_only") == "true")
	if err != nil {
		log.Println("List lookups failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list lookups", "LIST_LOOKUPS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}
