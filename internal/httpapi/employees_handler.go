package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/radekzitek/crudelty/internal/models"
	"github.com/radekzitek/crudelty/internal/storage"
	"github.com/radekzitek/crudelty/internal/utils"
)

// EmployeesHandler handles employee management endpoints
type EmployeesHandler struct {
	repo *storage.EmployeeRepository
}

// NewEmployeesHandler creates a new employees handler
func NewEmployeesHandler(repo *storage.EmployeeRepository) *EmployeesHandler {
	return &EmployeesHandler{repo: repo}
}

// CreateEmployeeRequest represents the request to create an employee
type CreateEmployeeRequest struct {
	Name           string  `json:"Name"`
	Email          string  `json:"Email"`
	Phone          *string `json:"Phone"`
	OrganizationID int64   `json:"OrganizationID"`
}

// UpdateEmployeeRequest represents a partial update; only provided
// fields change.
type UpdateEmployeeRequest struct {
	Name           *string `json:"Name"`
	Email          *string `json:"Email"`
	Phone          *string `json:"Phone"`
	OrganizationID *int64  `json:"OrganizationID"`
}

// Handle dispatches /employees and /employees/{id}
func (h *EmployeesHandler) Handle(w http.ResponseWriter, r *http.Request) {
	id, hasID, ok := parseResourcePath(w, r, "employees")
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

func (h *EmployeesHandler) list(w http.ResponseWriter, r *http.Request) {
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

	emps, err := h.repo.List(r.Context(), orgID, skip, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list employees")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, emps)
}

func (h *EmployeesHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if req.OrganizationID == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "OrganizationID is required")
		return
	}

	emp := &models.Employee{
		Name:           req.Name,
		Email:          models.NormalizeEmail(req.Email),
		Phone:          req.Phone,
		OrganizationID: req.OrganizationID,
	}

	if err := h.repo.Create(r.Context(), emp); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			utils.RespondWithError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create employee")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, emp)
}

func (h *EmployeesHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	emp, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrEmployeeNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Employee not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get employee")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, emp)
}

func (h *EmployeesHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var req UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	emp, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrEmployeeNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Employee not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get employee")
		return
	}

	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Email != nil {
		emp.Email = models.NormalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		emp.Phone = req.Phone
	}
	if req.OrganizationID != nil {
		emp.OrganizationID = *req.OrganizationID
	}

	if err := h.repo.Update(r.Context(), emp); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			utils.RespondWithError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update employee")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, emp)
}

func (h *EmployeesHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	emp, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrEmployeeNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Employee not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get employee")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrEmployeeNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Employee not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete employee")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, emp)
}
