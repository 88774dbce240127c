package dto

// CreateUserRequest represents the request to create a CRM user
type CreateUserRequest struct {
	Email                             string  `json:"email" validate:"required,email,max=255" example:"noura@example.com"`
	Password                          string  `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
	FirstName                         string  `json:"first_name" validate:"required,min=1,max=100" example:"Noura"`
	LastName                          string  `json:"last_name" validate:"required,min=1,max=100" example:"Al-Harbi"`
	RoleID                            uint    `json:"role_id" validate:"required" example:"3"`
	BranchID                          *uint   `json:"branch_id,omitempty" example:"1"`
	Mobile                            *string `json:"mobile,omitempty" validate:"omitempty,max=20"`
	MaxSelfApproveLineDiscountPercent *string `json:"max_self_approve_line_discount_percent,omitempty" example:"5.00"`
	MaxSelfApproveOverallDiscount     *string `json:"max_self_approve_overall_discount_percent,omitempty" example:"10.00"`
}

// UpdateUserRequest represents the request to update a CRM user
type UpdateUserRequest struct {
	FirstName                         *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName                          *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	RoleID                            *uint   `json:"role_id,omitempty"`
	BranchID                          *uint   `json:"branch_id,omitempty"`
	Mobile                            *string `json:"mobile,omitempty" validate:"omitempty,max=20"`
	MaxSelfApproveLineDiscountPercent *string `json:"max_self_approve_line_discount_percent,omitempty"`
	MaxSelfApproveOverallDiscount     *string `json:"max_self_approve_overall_discount_percent,omitempty"`
	IsActive                          *bool   `json:"is_active,omitempty"`
}

// UserItem represents a user in list and detail responses
type UserItem struct {
	ID                                uint    `json:"id" example:"5"`
	UUID                              string  `json:"uuid"`
	Email                             string  `json:"email" example:"noura@example.com"`
	FirstName                         string  `json:"first_name" example:"Noura"`
	LastName                          string  `json:"last_name" example:"Al-Harbi"`
	RoleID                            uint    `json:"role_id" example:"3"`
	RoleName                          *string `json:"role_name,omitempty" example:"sales_manager"`
	BranchID                          *uint   `json:"branch_id,omitempty" example:"1"`
	Mobile                            *string `json:"mobile,omitempty"`
	MaxSelfApproveLineDiscountPercent string  `json:"max_self_approve_line_discount_percent" example:"5.00"`
	MaxSelfApproveOverallDiscount     string  `json:"max_self_approve_overall_discount_percent" example:"10.00"`
	IsActive                          *bool   `json:"is_active" example:"true"`
	LastLoginAt                       *string `json:"last_login_at,omitempty"`
	CreatedAt                         string  `json:"created_at"`
}

// UserResponse wraps a single user
type UserResponse struct {
	Message string   `json:"message" example:"User saved successfully"`
	User    UserItem `json:"user"`
}

// ListUsersRequest represents query filters for listing users
type ListUsersRequest struct {
	PaginationRequest
	RoleID   *uint `json:"role_id,omitempty" query:"role_id"`
	BranchID *uint `json:"branch_id,omitempty" query:"branch_id"`
	IsActive *bool `json:"is_active,omitempty" query:"is_active"`
}

// ListUsersResponse represents the user list response
type ListUsersResponse struct {
	Message    string         `json:"message" example:"Users retrieved successfully"`
	Items      []UserItem     `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// CapabilityDTO represents one module/action grant
type CapabilityDTO struct {
	Module string `json:"module" validate:"required" example:"quotes"`
	Action string `json:"action" validate:"required,oneof=view create update delete export" example:"update"`
}

// CreateRoleRequest represents the request to create a role
type CreateRoleRequest struct {
	Name         string          `json:"name" validate:"required,min=2,max=100" example:"sales_manager"`
	Description  *string         `json:"description,omitempty" validate:"omitempty,max=1000"`
	Capabilities []CapabilityDTO `json:"capabilities" validate:"required,min=1,dive"`
}

// UpdateRoleRequest represents the request to update a role
type UpdateRoleRequest struct {
	Description  *string         `json:"description,omitempty" validate:"omitempty,max=1000"`
	Capabilities []CapabilityDTO `json:"capabilities,omitempty" validate:"omitempty,dive"`
	IsActive     *bool           `json:"is_active,omitempty"`
}

// RoleItem represents a role in responses
type RoleItem struct {
	ID           uint            `json:"id" example:"3"`
	UUID         string          `json:"uuid"`
	Name         string          `json:"name" example:"sales_manager"`
	Description  *string         `json:"description,omitempty"`
	Capabilities []CapabilityDTO `json:"capabilities"`
	IsActive     *bool           `json:"is_active" example:"true"`
}

// RoleResponse wraps a single role
type RoleResponse struct {
	Message string   `json:"message" example:"Role saved successfully"`
	Role    RoleItem `json:"role"`
}

// ListRolesResponse represents the role list response
type ListRolesResponse struct {
	Message string     `json:"message" example:"Roles retrieved successfully"`
	Items   []RoleItem `json:"items"`
}
