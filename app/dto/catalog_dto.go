package dto

// CreateJobRequest represents the request to create a job category
type CreateJobRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=255" example:"Heavy Vehicle Driver"`
	Code     string  `json:"code" validate:"required,min=2,max=50" example:"job-driver-heavy"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=100" example:"logistics"`
}

// UpdateJobRequest represents the request to update a job category
type UpdateJobRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=100"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// JobItem represents a job in responses
type JobItem struct {
	ID       uint    `json:"id" example:"4"`
	UUID     string  `json:"uuid"`
	Name     string  `json:"name" example:"Heavy Vehicle Driver"`
	Code     string  `json:"code" example:"job-driver-heavy"`
	Category *string `json:"category,omitempty" example:"logistics"`
	IsActive *bool   `json:"is_active" example:"true"`
}

// JobResponse wraps a single job
type JobResponse struct {
	Message string  `json:"message" example:"Job saved successfully"`
	Job     JobItem `json:"job"`
}

// ListJobsResponse represents the job list response
type ListJobsResponse struct {
	Message string    `json:"message" example:"Jobs retrieved successfully"`
	Items   []JobItem `json:"items"`
}

// CreateJobProfileRequest represents the request to create a job profile
type CreateJobProfileRequest struct {
	JobID                 uint     `json:"job_id" validate:"required" example:"4"`
	Name                  string   `json:"name" validate:"required,min=2,max=255" example:"Heavy Vehicle Driver, GCC license"`
	BaseMonthlyCost       string   `json:"base_monthly_cost" validate:"required" example:"2400.00"`
	DefaultComponentCodes []string `json:"default_component_codes,omitempty" example:"comp-housing,comp-transport"`
	SkillLevelID          *uint    `json:"skill_level_id,omitempty" example:"2"`
}

// UpdateJobProfileRequest represents the request to update a job profile
type UpdateJobProfileRequest struct {
	Name                  *string  `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	BaseMonthlyCost       *string  `json:"base_monthly_cost,omitempty"`
	DefaultComponentCodes []string `json:"default_component_codes,omitempty"`
	SkillLevelID          *uint    `json:"skill_level_id,omitempty"`
	IsActive              *bool    `json:"is_active,omitempty"`
}

// JobProfileItem represents a job profile in responses
type JobProfileItem struct {
	ID                    uint     `json:"id" example:"11"`
	UUID                  string   `json:"uuid"`
	JobID                 uint     `json:"job_id" example:"4"`
	Name                  string   `json:"name" example:"Heavy Vehicle Driver, GCC license"`
	BaseMonthlyCost       string   `json:"base_monthly_cost" example:"2400.00"`
	DefaultComponentCodes []string `json:"default_component_codes"`
	SkillLevelID          *uint    `json:"skill_level_id,omitempty" example:"2"`
	IsActive              *bool    `json:"is_active" example:"true"`
}

// JobProfileResponse wraps a single job profile
type JobProfileResponse struct {
	Message string         `json:"message" example:"Job profile saved successfully"`
	Profile JobProfileItem `json:"profile"`
}

// ListJobProfilesResponse represents profiles of a job
type ListJobProfilesResponse struct {
	Message string           `json:"message" example:"Job profiles retrieved successfully"`
	Items   []JobProfileItem `json:"items"`
}

// CreateNationalityRequest represents the request to register a nationality
type CreateNationalityRequest struct {
	Name                  string   `json:"name" validate:"required,min=2,max=100" example:"Philippines"`
	ISOCode               string   `json:"iso_code" validate:"required,len=2" example:"PH"`
	DefaultComponentCodes []string `json:"default_component_codes,omitempty" example:"comp-visa-ph"`
}

// UpdateNationalityRequest represents the request to update a nationality
type UpdateNationalityRequest struct {
	Name                  *string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	DefaultComponentCodes []string `json:"default_component_codes,omitempty"`
	IsActive              *bool    `json:"is_active,omitempty"`
}

// NationalityItem represents a nationality in responses
type NationalityItem struct {
	ID                    uint     `json:"id" example:"6"`
	UUID                  string   `json:"uuid"`
	Name                  string   `json:"name" example:"Philippines"`
	ISOCode               string   `json:"iso_code" example:"PH"`
	DefaultComponentCodes []string `json:"default_component_codes"`
	IsActive              *bool    `json:"is_active" example:"true"`
}

// NationalityResponse wraps a single nationality
type NationalityResponse struct {
	Message     string          `json:"message" example:"Nationality saved successfully"`
	Nationality NationalityItem `json:"nationality"`
}

// ListNationalitiesResponse represents the nationality list response
type ListNationalitiesResponse struct {
	Message string            `json:"message" example:"Nationalities retrieved successfully"`
	Items   []NationalityItem `json:"items"`
}

// LookupItem represents a shared lookup row (branch, city, department, skill level)
type LookupItem struct {
	ID       uint    `json:"id" example:"3"`
	Name     string  `json:"name" example:"Riyadh"`
	Code     *string `json:"code,omitempty" example:"RUH"`
	IsActive *bool   `json:"is_active" example:"true"`
}

// ListLookupsResponse represents the setup lookup tables in one payload
type ListLookupsResponse struct {
	Message     string       `json:"message" example:"Lookups retrieved successfully"`
	Branches    []LookupItem `json:"branches"`
	Cities      []LookupItem `json:"cities"`
	Departments []LookupItem `json:"departments"`
	SkillLevels []LookupItem `json:"skill_levels"`
}
