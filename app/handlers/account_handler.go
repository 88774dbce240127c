package handlers

import (
	"log"

	"github.com/marafiq-hq/staffing-crm/app/dto"
	businessflow "github.com/marafiq-hq/staffing-crm/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AccountHandler handles client account and contact HTTP requests
type AccountHandler struct {
	accountFlow businessflow.AccountFlow
	contactFlow businessflow.ContactFlow
	validator   *validator.Validate
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountFlow businessflow.AccountFlow, contactFlow businessflow.ContactFlow) *AccountHandler {
	return &AccountHandler{
		accountFlow: accountFlow,
		contactFlow: contactFlow,
		validator:   validator.New(),
	}
}

// CreateAccount registers a client account
// @Summary Create Account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body dto.CreateAccountRequest true "Account data"
// @Success 201 {object} dto.APIResponse{data=dto.AccountResponse} "Account created"
// @Failure 409 {object} dto.APIResponse "Account name already exists"
// @Router /api/v1/accounts [post]
func (h *AccountHandler) CreateAccount(c fiber.Ctx) error {
	var req dto.CreateAccountRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.accountFlow.CreateAccount(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsAccountNameTaken(err) {
			return errorResponse(c, fiber.StatusConflict, "Account name already exists", "ACCOUNT_NAME_TAKEN", nil)
		}
		log.Println("Create account failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create account", "CREATE_ACCOUNT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// UpdateAccount applies a partial update to an account
// @Summary Update Account
// @Tags Accounts
// @Accept json
// @Produce json
// @Param uuid path string true "Account UUID"
// @Param request body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.AccountResponse} "Account updated"
// @Failure 404 {object} dto.APIResponse "Account not found"
// @Router /api/v1/accounts/{uuid} [put]
func (h *AccountHandler) UpdateAccount(c fiber.Ctx) error {
	var req dto.UpdateAccountRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.accountFlow.UpdateAccount(ctx, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsAccountNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Account not found", "ACCOUNT_NOT_FOUND", nil)
		}
		if businessflow.IsAccountNameTaken(err) {
			return errorResponse(c, fiber.StatusConflict, "Account name already exists", "ACCOUNT_NAME_TAKEN", nil)
		}
		log.Println("Update account failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update account", "UPDATE_ACCOUNT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// GetAccount returns a single account
// @Summary Get Account
// @Tags Accounts
// @Produce json
// @Param uuid path string true "Account UUID"
// @Success 200 {object} dto.APIResponse{data=dto.AccountResponse} "Account retrieved"
// @Failure 404 {object} dto.APIResponse "Account not found"
// @Router /api/v1/accounts/{uuid} [get]
func (h *AccountHandler) GetAccount(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.accountFlow.GetAccount(ctx, c.Params("uuid"))
	if err != nil {
		if businessflow.IsAccountNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Account not found", "ACCOUNT_NOT_FOUND", nil)
		}
		log.Println("Get account failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve account", "GET_ACCOUNT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListAccounts returns a filtered page of accounts
// @Summary List Accounts
// @Tags Accounts
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListAccountsResponse} "Accounts retrieved"
// @Router /api/v1/accounts [get]
func (h *AccountHandler) ListAccounts(c fiber.Ctx) error {
	var req dto.ListAccountsRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.accountFlow.ListAccounts(ctx, &req)
	if err != nil {
		log.Println("List accounts failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list accounts", "LIST_ACCOUNTS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// DeactivateAccount closes an account
// @Summary Deactivate Account
// @Tags Accounts
// @Produce json
// @Param uuid path string true "Account UUID"
// @Success 200 {object} dto.APIResponse{data=dto.AccountResponse} "Account deactivated"
// @Failure 404 {object} dto.APIResponse "Account not found"
// @Router /api/v1/accounts/{uuid} [delete]
func (h *AccountHandler) DeactivateAccount(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.accountFlow.DeactivateAccount(ctx, c.Params("uuid"), clientMetadata(c))
	if err != nil {
		if businessflow.IsAccountNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Account not found", "ACCOUNT_NOT_FOUND", nil)
		}
		log.Println("Deactivate account failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to deactivate account", "DEACTIVATE_ACCOUNT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// CreateContact adds a contact to an account
// @Summary Create Contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param request body dto.CreateContactRequest true "Contact data"
// @Success 201 {object} dto.APIResponse{data=dto.ContactResponse} "Contact created"
// @Failure 404 {object} dto.APIResponse "Account not found"
// @Router /api/v1/contacts [post]
func (h *AccountHandler) CreateContact(c fiber.Ctx) error {
	var req dto.CreateContactRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.contactFlow.CreateContact(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsAccountNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Account not found", "ACCOUNT_NOT_FOUND", nil)
		}
		if businessflow.IsAccountInactive(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Account is inactive", "ACCOUNT_INACTIVE", nil)
		}
		log.Println("Create contact failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create contact", "CREATE_CONTACT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// UpdateContact applies a partial update to a contact
// @Summary Update Contact
// @Tags Contacts
// @Accept json
// @Produce json
// @Param uuid path string true "Contact UUID"
// @Param request body dto.UpdateContactRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.ContactResponse} "Contact updated"
// @Failure 404 {object} dto.APIResponse "Contact not found"
// @Router /api/v1/contacts/{uuid} [put]
func (h *AccountHandler) UpdateContact(c fiber.Ctx) error {
	var req dto.UpdateContactRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors(err))
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.contactFlow.UpdateContact(ctx, c.Params("uuid"), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsContactNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Contact not found", "CONTACT_NOT_FOUND", nil)
		}
		log.Println("Update contact failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update contact", "UPDATE_CONTACT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListContacts returns the contacts of an account
// @Summary List Contacts
// @Tags Contacts
// @Produce json
// @Param uuid path string true "Account UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ListContactsResponse} "Contacts retrieved"
// @Failure 404 {object} dto.APIResponse "Account not found"
// @Router /api/v1/accounts/{uuid}/contacts [get]
func (h *AccountHandler) ListContacts(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := h.contactFlow.ListContacts(ctx, c.Params("uuid"))
	if err != nil {
		if businessflow.IsAccountNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Account not found", "ACCOUNT_NOT_FOUND", nil)
		}
		log.Println("List contacts failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list contacts", "LIST_CONTACTS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// DeleteContact removes a contact
// @Summary Delete Contact
// @Tags Contacts
// @Produce json
// @Param uuid path string true "Contact UUID"
// @Success 200 {object} dto.APIResponse "Contact deleted"
// @Failure 404 {object} dto.APIResponse "Contact not found"
// @Router /api/v1/contacts/{uuid} [delete]
func (h *AccountHandler) DeleteContact(c fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.contactFlow.DeleteContact(ctx, c.Params("uuid"), clientMetadata(c)); err != nil {
		if businessflow.IsContactNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Contact not found", "CONTACT_NOT_FOUND", nil)
		}
		log.Println("Delete contact failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete contact", "DELETE_CONTACT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Contact deleted successfully", nil)
}
