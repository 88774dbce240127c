package businessflow

import (
	"context"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/marafiq-hq/staffing-crm/utils"
)

// LookupFlow serves the setup lookup tables in one payload
type LookupFlow interface {
	ListLookups(ctx context.Context, activeOnly bool) (*dto.ListLookupsResponse, error)
}

// LookupFlowImpl implements the lookup business flow
type LookupFlowImpl struct {
	lookupRepo repository.LookupRepository
}

// NewLookupFlow creates a new lookup flow instance
func NewLookupFlow(lookupRepo repository.LookupRepository) LookupFlow {
	return &LookupFlowImpl{lookupRepo: lookupRepo}
}

// ListLookups loads branches, cities, departments, and skill levels together
// so setup screens need a single round trip
func (f *LookupFlowImpl) ListLookups(ctx context.Context, activeOnly bool) (*dto.ListLookupsResponse, error) {
	branches, err := f.lookupRepo.ListBranches(ctx, activeOnly)
	if err != nil {
		return nil, NewBusinessError("LIST_LOOKUPS_FAILED", "Failed to list lookups", err)
	}
	cities, err := f.lookupRepo.ListCities(ctx, activeOnly)
	if err != nil {
		return nil, NewBusinessError("LIST_LOOKUPS_FAILED", "Failed to list lookups", err)
	}
	departments, err := f.lookupRepo.ListDepartments(ctx, activeOnly)
	if err != nil {
		return nil, NewBusinessError("LIST_LOOKUPS_FAILED", "Failed to list lookups", err)
	}
	skillLevels, err := f.lookupRepo.ListSkillLevels(ctx, activeOnly)
	if err != nil {
		return nil, NewBusinessError("LIST_LOOKUPS_FAILED", "Failed to list lookups", err)
	}

	resp := &dto.ListLookupsResponse{
		Message:     "Lookups retrieved successfully",
		Branches:    make([]dto.LookupItem, 0, len(branches)),
		Cities:      make([]dto.LookupItem, 0, len(cities)),
		Departments: make([]dto.LookupItem, 0, len(departments)),
		SkillLevels: make([]dto.LookupItem, 0, len(skillLevels)),
	}
	for _, b := range branches {
		resp.Branches = append(resp.Branches, dto.LookupItem{ID: b.ID, Name: b.Name, Code: utils.ToPtr(b.Code), IsActive: b.IsActive})
	}
	for _, c := range cities {
		resp.Cities = append(resp.Cities, dto.LookupItem{ID: c.ID, Name: c.Name, IsActive: c.IsActive})
	}
	for _, d := range departments {
		resp.Departments = append(resp.Departments, dto.LookupItem{ID: d.ID, Name: d.Name, Code: utils.ToPtr(d.Code), IsActive: d.IsActive})
	}
	for _, s := range skillLevels {
		resp.SkillLevels = append(resp.SkillLevels, dto.LookupItem{ID: s.ID, Name: s.Name, Code: utils.ToPtr(s.Code), IsActive: s.IsActive})
	}

	return resp, nil
}
