package handlers

import (
	"log"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	businessflow "github.com/marafiq-hq/staffing-crm/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// UserAdminHandler handles user and role administration HTTP requests
type UserAdminHandler struct {
	userFlow  businessflow.UserFlow
	roleFlow  businessflow.RoleFlow
	validator *validator.Validate
}

// NewUserAdminHandler creates a new user administration handler
func NewUserAdminHandler(userFlow businessflow.UserFlow, roleFlow businessflow.RoleFlow) *UserAdminHandler {
	return &UserAdminHandler{
		userFlow:  userFlow,
		roleFlow:  roleFlow,
		validator: validator.New(),
	}
}

// CreateUser provisions a staff account
// @Summary Create User
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "User data"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse} "User created"
// @Failure 409 {object} dto.APIResponse "Email already registered"
// @Router /api/v1/users [post]
func (h *UserAdminHandler) CreateUser(c fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.userFlow.CreateUser(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsEmailAlreadyExists(err) {
			return errorResponse(c, fiber.StatusConflict, "Email already registered", "EMAIL_ALREADY_EXISTS", nil)
		}
		if businessflow.IsRoleNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Role not found", "ROLE_NOT_FOUND", nil)
		}
		if businessflow.IsRoleInactive(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Role is inactive", "ROLE_INACTIVE", nil)
		}
		if businessflow.IsBranchNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Branch not found", "BRANCH_NOT_FOUND", nil)
		}
		log.Println("Create user failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create user", "CREATE_USER_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// UpdateUser applies a partial update to a staff account
// @Summary Update User
// @Tags Users
// @Accept json
// @Produce json
// @Param uuid path string true "User UUID"
// @Param request body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User updated"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /api/v1/users/{uuid} [put]
func (h *UserAdminHandler) UpdateUser(c fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.userFlow.UpdateUser(ctx, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		if businessflow.IsRoleNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Role not found", "ROLE_NOT_FOUND", nil)
		}
		if businessflow.IsRoleInactive(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Role is inactive", "ROLE_INACTIVE", nil)
		}
		if businessflow.IsBranchNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Branch not found", "BRANCH_NOT_FOUND", nil)
		}
		log.Println("Update user failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update user", "UPDATE_USER_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// GetUser returns a staff account
// @Summary Get User
// @Tags Users
// @Produce json
// @Param uuid path string true "User UUID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User retrieved"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /api/v1/users/{uuid} [get]
func (h *UserAdminHandler) GetUser(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.userFlow.GetUser(ctx, c.Params("uuid"))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		log.Println("Get user failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve user", "GET_USER_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListUsers returns a filtered page of staff accounts
// @Summary List Users
// @Tags Users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListUsersResponse} "Users retrieved"
// @Router /api/v1/users [get]
func (h *UserAdminHandler) ListUsers(c fiber.Ctx) error {
	var req dto.ListUsersRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.userFlow.ListUsers(ctx, &req)
	if err != nil {
		log.Println("List users failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list users", "LIST_USERS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// DeactivateUser closes a staff account and ends its sessions
// @Summary Deactivate User
// @Tags Users
// @Produce json
// @Param uuid path string true "User UUID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User deactivated"
// @Failure 404 {object} dto.APIResponse "User not found"
// @Router /api/v1/users/{uuid} [delete]
func (h *UserAdminHandler) DeactivateUser(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.userFlow.DeactivateUser(ctx, c.Params("uuid"), clientMetadata(c))
	if err != nil {
		if businessflow.IsUserNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", nil)
		}
		log.Println("Deactivate user failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to deactivate user", "DEACTIVATE_USER_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// CreateRole defines a role and its capability grants
// @Summary Create Role
// @Tags Roles
// @Accept json
// @Produce json
// @Param request body dto.CreateRoleRequest true "Role data"
// @Success 201 {object} dto.APIResponse{data=dto.RoleResponse} "Role created"
// @Failure 409 {object} dto.APIResponse "Role name already exists"
// @Router /api/v1/roles [post]
func (h *UserAdminHandler) CreateRole(c fiber.Ctx) error {
	var req dto.CreateRoleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.roleFlow.CreateRole(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsRoleNameTaken(err) {
			return errorResponse(c, fiber.StatusConflict, "Role name already exists", "ROLE_NAME_TAKEN", nil)
		}
		if businessflow.IsInvalidCapability(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Unknown module or action in capability grant", "INVALID_CAPABILITY", nil)
		}
		log.Println("Create role failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create role", "CREATE_ROLE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// UpdateRole updates a role's capability grants
// @Summary Update Role
// @Tags Roles
// @Accept json
// @Produce json
// @Param id path int true "Role ID"
// @Param request body dto.UpdateRoleRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.RoleResponse} "Role updated"
// @Failure 404 {object} dto.APIResponse "Role not found"
// @Router /api/v1/roles/{id} [put]
func (h *UserAdminHandler) UpdateRole(c fiber.Ctx) error {
	roleID, err := pathID(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid role ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateRoleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.roleFlow.UpdateRole(ctx, roleID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsRoleNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Role not found", "ROLE_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidCapability(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Unknown module or action in capability grant", "INVALID_CAPABILITY", nil)
		}
		log.Println("Update role failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update role", "UPDATE_ROLE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListRoles returns the role catalog
// @Summary List Roles
// @Tags Roles
// @Produce json
// @Param active_only query bool false "Only active roles"
// @Success 200 {object} dto.APIResponse{data=dto.ListRolesResponse} "Roles retrieved"
// @Router /api/v1/roles [get]
func (h *UserAdminHandler) ListRoles(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.roleFlow.ListRoles(ctx, c.Query("active_only") == "true")
	if err != nil {
		log.Println("List roles failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list roles", "LIST_ROLES_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}
