package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/radekzitek/crudelty/internal/models"
	"github.com/radekzitek/crudelty/internal/storage"
	"github.com/radekzitek/crudelty/internal/utils"
)

// DepartmentsHandler handles department management endpoints
type DepartmentsHandler struct {
	repo *storage.DepartmentRepository
}

// NewDepartmentsHandler creates a new departments handler
func NewDepartmentsHandler(repo *storage.DepartmentRepository) *DepartmentsHandler {
	return &DepartmentsHandler{repo: repo}
}

// CreateDepartmentRequest represents the request to create a department
type CreateDepartmentRequest struct {
	Name               string  `json:"Name"`
	Description        *string `json:"Description"`
	ParentDepartmentID *int64  `json:"ParentDepartmentID"`
	HeadOfDepartmentID *int64  `json:"HeadOfDepartmentID"`
	OrganizationID     int64   `json:"OrganizationID"`
}

// UpdateDepartmentRequest represents a partial update; only provided
// fields change.
type UpdateDepartmentRequest struct {
	Name               *string `json:"Name"`
	Description        *string `json:"Description"`
	ParentDepartmentID *int64  `json:"ParentDepartmentID"`
	HeadOfDepartmentID *int64  `json:"HeadOfDepartmentID"`
	OrganizationID     *int64  `json:"OrganizationID"`
}

// Handle dispatches /departments and /departments/{id}
func (h *DepartmentsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	id, hasID, ok := parseResourcePath(w, r, "departments")
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

func (h *DepartmentsHandler) list(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	orgID, err := parseIDFilter(r, "org_id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	depts, err := h.repo.List(r.Context(), orgID, skip, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list departments")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, depts)
}

func (h *DepartmentsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.OrganizationID == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "OrganizationID is required")
		return
	}

	dept := &models.Department{
		Name:               req.Name,
		Description:        req.Description,
		ParentDepartmentID: req.ParentDepartmentID,
		HeadOfDepartmentID: req.HeadOfDepartmentID,
		OrganizationID:     req.OrganizationID,
	}

	if err := h.repo.Create(r.Context(), dept); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create department")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dept)
}

func (h *DepartmentsHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	dept, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrDepartmentNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Department not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get department")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dept)
}

func (h *DepartmentsHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var req UpdateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dept, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrDepartmentNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Department not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get department")
		return
	}

	if req.Name != nil {
		dept.Name = *req.Name
	}
	if req.Description != nil {
		dept.Description = req.Description
	}
	if req.ParentDepartmentID != nil {
		dept.ParentDepartmentID = req.ParentDepartmentID
	}
	if req.HeadOfDepartmentID != nil {
		dept.HeadOfDepartmentID = req.HeadOfDepartmentID
	}
	if req.OrganizationID != nil {
		dept.OrganizationID = *req.OrganizationID
	}

	if err := h.repo.Update(r.Context(), dept); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update department")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dept)
}

func (h *DepartmentsHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	dept, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrDepartmentNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Department not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get department")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrDepartmentNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Department not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete department")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dept)
}
