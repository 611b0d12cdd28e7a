package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/radekzitek/crudelty/internal/models"
	"github.com/radekzitek/crudelty/internal/storage"
	"github.com/radekzitek/crudelty/internal/utils"
)

// OrganizationsHandler handles organization management endpoints
type OrganizationsHandler struct {
	repo *storage.OrganizationRepository
}

// NewOrganizationsHandler creates a new organizations handler
func NewOrganizationsHandler(repo *storage.OrganizationRepository) *OrganizationsHandler {
	return &OrganizationsHandler{repo: repo}
}

// CreateOrganizationRequest represents the request to create an organization
type CreateOrganizationRequest struct {
	Name            string  `json:"Name"`
	Address         *string `json:"Address"`
	Phone           *string `json:"Phone"`
	Email           *string `json:"Email"`
	Website         *string `json:"Website"`
	TopDepartmentID *int64  `json:"TopDepartmentID"`
}

// UpdateOrganizationRequest represents a partial update; only provided
// fields change.
type UpdateOrganizationRequest struct {
	Name            *string `json:"Name"`
	Address         *string `json:"Address"`
	Phone           *string `json:"Phone"`
	Email           *string `json:"Email"`
	Website         *string `json:"Website"`
	TopDepartmentID *int64  `json:"TopDepartmentID"`
}

// Handle dispatches /organizations and /organizations/{id}
func (h *OrganizationsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	id, hasID, ok := parseResourcePath(w, r, "organizations")
	if !ok {
		return
	}

	if !hasID {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *OrganizationsHandler) list(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	orgs, err := h.repo.List(r.Context(), skip, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list organizations")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, orgs)
}

func (h *OrganizationsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	org := &models.Organization{
		Name:            req.Name,
		Address:         req.Address,
		Phone:           req.Phone,
		Email:           req.Email,
		Website:         req.Website,
		TopDepartmentID: req.TopDepartmentID,
	}

	if err := h.repo.Create(r.Context(), org); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create organization")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, org)
}

func (h *OrganizationsHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	org, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrOrganizationNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Organization not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get organization")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, org)
}

func (h *OrganizationsHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var req UpdateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	org, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrOrganizationNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Organization not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get organization")
		return
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Address != nil {
		org.Address = req.Address
	}
	if req.Phone != nil {
		org.Phone = req.Phone
	}
	if req.Email != nil {
		org.Email = req.Email
	}
	if req.Website != nil {
		org.Website = req.Website
	}
	if req.TopDepartmentID != nil {
		org.TopDepartmentID = req.TopDepartmentID
	}

	if err := h.repo.Update(r.Context(), org); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update organization")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, org)
}

func (h *OrganizationsHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	org, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrOrganizationNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Organization not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get organization")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrOrganizationNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Organization not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete organization")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, org)
}
