package dto

// SystemSettingsDTO represents the effective system settings
type SystemSettingsDTO struct {
	VATRate           string `json:"vat_rate" example:"15.00"`
	Currency          string `json:"currency" example:"SAR"`
	QuoteValidityDays int    `json:"quote_validity_days" example:"30"`
}

// GetSettingsResponse wraps the current settings
type GetSettingsResponse struct {
	Message  string            `json:"message" example:"Settings retrieved successfully"`
	Settings SystemSettingsDTO `json:"settings"`
}

// UpdateSettingsRequest represents a settings change.
// A new row is appended; the latest row wins.
type UpdateSettingsRequest struct {
	VATRate           *string `json:"vat_rate,omitempty" example:"15.00"`
	Currency          *string `json:"currency,omitempty" validate:"omitempty,len=3" example:"SAR"`
	QuoteValidityDays *int    `json:"quote_validity_days,omitempty" validate:"omitempty,min=1,max=365" example:"30"`
}

// UpdateSettingsResponse wraps the settings after an update
type UpdateSettingsResponse struct {
	Message  string            `json:"message" example:"Settings updated successfully"`
	Settings SystemSettingsDTO `json:"settings"`
}
