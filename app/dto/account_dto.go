package dto

// CreateAccountRequest represents the request to create a client account
type CreateAccountRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=255" example:"Al Faisal Contracting"`
	Industry string  `json:"industry" validate:"omitempty,max=100" example:"Construction"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20" example:"+966112345678"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255" example:"info@alfaisal.example"`
	Website  *string `json:"website,omitempty" validate:"omitempty,url,max=255" example:"https://alfaisal.example"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=2000"`
	CityID   *uint   `json:"city_id,omitempty" example:"3"`
	BranchID *uint   `json:"branch_id,omitempty" example:"1"`
}

// UpdateAccountRequest represents the request to update a client account.
// Nil fields are left unchanged.
type UpdateAccountRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Industry *string `json:"industry,omitempty" validate:"omitempty,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Website  *string `json:"website,omitempty" validate:"omitempty,url,max=255"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=2000"`
	CityID   *uint   `json:"city_id,omitempty"`
	BranchID *uint   `json:"branch_id,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// AccountItem represents an account in list and detail responses
type AccountItem struct {
	ID        uint    `json:"id" example:"42"`
	UUID      string  `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name      string  `json:"name" example:"Al Faisal Contracting"`
	Industry  string  `json:"industry" example:"Construction"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Website   *string `json:"website,omitempty"`
	Address   *string `json:"address,omitempty"`
	CityID    *uint   `json:"city_id,omitempty" example:"3"`
	BranchID  *uint   `json:"branch_id,omitempty" example:"1"`
	IsActive  *bool   `json:"is_active" example:"true"`
	CreatedAt string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt string  `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// AccountResponse wraps a single account
type AccountResponse struct {
	Message string      `json:"message" example:"Account retrieved successfully"`
	Account AccountItem `json:"account"`
}

// ListAccountsRequest represents query filters for listing accounts
type ListAccountsRequest struct {
	PaginationRequest
	Industry *string `json:"industry,omitempty" query:"industry"`
	CityID   *uint   `json:"city_id,omitempty" query:"city_id"`
	BranchID *uint   `json:"branch_id,omitempty" query:"branch_id"`
	IsActive *bool   `json:"is_active,omitempty" query:"is_active"`
}

// ListAccountsResponse represents the account list response
type ListAccountsResponse struct {
	Message    string         `json:"message" example:"Accounts retrieved successfully"`
	Items      []AccountItem  `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// CreateContactRequest represents the request to add a contact to an account
type CreateContactRequest struct {
	AccountID uint    `json:"account_id" validate:"required" example:"42"`
	FirstName string  `json:"first_name" validate:"required,min=1,max=100" example:"Khalid"`
	LastName  string  `json:"last_name" validate:"required,min=1,max=100" example:"Rahman"`
	Title     *string `json:"title,omitempty" validate:"omitempty,max=100" example:"Procurement Manager"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=255" example:"khalid@alfaisal.example"`
	Mobile    *string `json:"mobile,omitempty" validate:"omitempty,max=20" example:"+966501234567"`
	IsPrimary *bool   `json:"is_primary,omitempty" example:"true"`
}

// UpdateContactRequest represents the request to update a contact
type UpdateContactRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Title     *string `json:"title,omitempty" validate:"omitempty,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Mobile    *string `json:"mobile,omitempty" validate:"omitempty,max=20"`
	IsPrimary *bool   `json:"is_primary,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// ContactItem represents a contact in responses
type ContactItem struct {
	ID        uint    `json:"id" example:"7"`
	UUID      string  `json:"uuid"`
	AccountID uint    `json:"account_id" example:"42"`
	FirstName string  `json:"first_name" example:"Khalid"`
	LastName  string  `json:"last_name" example:"Rahman"`
	Title     *string `json:"title,omitempty"`
	Email     *string `json:"email,omitempty"`
	Mobile    *string `json:"mobile,omitempty"`
	IsPrimary *bool   `json:"is_primary" example:"true"`
	IsActive  *bool   `json:"is_active" example:"true"`
	CreatedAt string  `json:"created_at"`
}

// ContactResponse wraps a single contact
type ContactResponse struct {
	Message string      `json:"message" example:"Contact saved successfully"`
	Contact ContactItem `json:"contact"`
}

// ListContactsResponse represents contacts of an account
type ListContactsResponse struct {
	Message string        `json:"message" example:"Contacts retrieved successfully"`
	Items   []ContactItem `json:"items"`
}
