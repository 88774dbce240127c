package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	"github.com/marafiq-hq/staffing-crm/models"
	"github.com/marafiq-hq/staffing-crm/repository"
	"github.com/marafiq-hq/staffing-crm/utils"
	"gorm.io/gorm"
)

// RoleFlow handles role and capability administration
type RoleFlow interface {
	CreateRole(ctx context.Context, request *dto.CreateRoleRequest, metadata *ClientMetadata) (*dto.RoleResponse, error)
	UpdateRole(ctx context.Context, roleID uint, request *dto.UpdateRoleRequest, metadata *ClientMetadata) (*dto.RoleResponse, error)
	ListRoles(ctx context.Context, activeOnly bool) (*dto.ListRolesResponse, error)
}

// RoleFlowImpl implements the role business flow
type RoleFlowImpl struct {
	roleRepo  repository.RoleRepository
	auditRepo repository.AuditLogRepository
	db        *gorm.DB
}

// NewRoleFlow creates a new role flow instance
func NewRoleFlow(roleRepo repository.RoleRepository, auditRepo repository.AuditLogRepository, db *gorm.DB) RoleFlow {
	return &RoleFlowImpl{roleRepo: roleRepo, auditRepo: auditRepo, db: db}
}

// CreateRole registers a role. Every capability is validated against the
// closed module/action enums before anything is persisted.
func (f *RoleFlowImpl) CreateRole(ctx context.Context, request *dto.CreateRoleRequest, metadata *ClientMetadata) (*dto.RoleResponse, error) {
	userID, _ := UserIDFromContext(ctx)
	name := strings.TrimSpace(request.Name)

	capabilities, err := capabilitiesFromDTO(request.Capabilities)
	if err != nil {
		return nil, err
	}

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.RoleResponse, error) {
		existing, err := f.roleRepo.ByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrRoleNameTaken
		}

		role := &models.Role{
			Name:         name,
			Description:  request.Description,
			Capabilities: capabilities,
			IsActive:     utils.ToPtr(true),
		}
		if err := f.roleRepo.Save(ctx, role); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityCreated, "role", role.ID,
			fmt.Sprintf("Role created: %s (%d capabilities)", role.Name, len(capabilities)), metadata)

		return &dto.RoleResponse{
			Message: "Role created successfully",
			Role:    toRoleItem(role),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("CREATE_ROLE_FAILED", "Failed to create role", err)
	}
	return resp, nil
}

// UpdateRole applies a partial update. The name is immutable because approval
// routing and audit trails reference roles by name.
func (f *RoleFlowImpl) UpdateRole(ctx context.Context, roleID uint, request *dto.UpdateRoleRequest, metadata *ClientMetadata) (*dto.RoleResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	resp, err := withFlowTransaction(ctx, f.db, func(ctx context.Context) (*dto.RoleResponse, error) {
		role, err := f.roleRepo.ByID(ctx, roleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, ErrRoleNotFound
		}

		if request.Description != nil {
			role.Description = request.Description
		}
		if request.Capabilities != nil {
			capabilities, err := capabilitiesFromDTO(request.Capabilities)
			if err != nil {
				return nil, err
			}
			role.Capabilities = capabilities
		}
		if request.IsActive != nil {
			role.IsActive = request.IsActive
		}
		role.UpdatedAt = utils.UTCNow()

		if err := f.roleRepo.Update(ctx, role); err != nil {
			return nil, err
		}

		_ = auditEntity(ctx, f.auditRepo, &userID, models.AuditActionEntityUpdated, "role", role.ID,
			fmt.Sprintf("Role updated: %s", role.Name), metadata)

		return &dto.RoleResponse{
			Message: "Role updated successfully",
			Role:    toRoleItem(role),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("UPDATE_ROLE_FAILED", "Failed to update role", err)
	}
	return resp, nil
}

// ListRoles returns all roles, optionally only active ones
func (f *RoleFlowImpl) ListRoles(ctx context.Context, activeOnly bool) (*dto.ListRolesResponse, error) {
	var roles []*models.Role
	var err error
	if activeOnly {
		roles, err = f.roleRepo.ListActive(ctx)
	} else {
		roles, err = f.roleRepo.ByFilter(ctx, models.RoleFilter{}, "name ASC", 0, 0)
	}
	if err != nil {
		return nil, NewBusinessError("LIST_ROLES_FAILED", "Failed to list roles", err)
	}

	items := make([]dto.RoleItem, 0, len(roles))
	for _, role := range roles {
		items = append(items, toRoleItem(role))
	}

	return &dto.ListRolesResponse{
		Message: "Roles retrieved successfully",
		Items:   items,
	}, nil
}

func capabilitiesFromDTO(caps []dto.CapabilityDTO) ([]models.Capability, error) {
	capabilities := make([]models.Capability, 0, len(caps))
	for _, c := range caps {
		capabilities = append(capabilities, models.Capability{
			Module: models.Module(c.Module),
			Action: models.CapAction(c.Action),
		})
	}
	// NewCapabilitySet rejects unknown module/action pairs
	if _, err := models.NewCapabilitySet(capabilities); err != nil {
		return nil, NewBusinessError("INVALID_CAPABILITY", "Invalid capability", err)
	}
	return capabilities, nil
}

func toRoleItem(role *models.Role) dto.RoleItem {
	caps := make([]dto.CapabilityDTO, 0, len(role.Capabilities))
	for _, c := range role.Capabilities {
		caps = append(caps, dto.CapabilityDTO{
			Module: string(c.Module),
			Action: string(c.Action),
		})
	}
	return dto.RoleItem{
		ID:           role.ID,
		UUID:         role.UUID.String(),
		Name:         role.Name,
		Description:  role.Description,
		Capabilities: caps,
		IsActive:     role.IsActive,
	}
}
