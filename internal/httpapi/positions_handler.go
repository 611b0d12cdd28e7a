package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/radekzitek/crudelty/internal/models"
	"github.com/radekzitek/crudelty/internal/storage"
	"github.com/radekzitek/crudelty/internal/utils"
)

// PositionsHandler handles position management endpoints
type PositionsHandler struct {
	repo *storage.PositionRepository
}

// NewPositionsHandler creates a new positions handler
func NewPositionsHandler(repo *storage.PositionRepository) *PositionsHandler {
	return &PositionsHandler{repo: repo}
}

// CreatePositionRequest represents the request to create a position
type CreatePositionRequest struct {
	Name         string  `json:"Name"`
	Description  *string `json:"Description"`
	DepartmentID int64   `json:"DepartmentID"`
}

// UpdatePositionRequest represents a partial update; only provided
// fields change.
type UpdatePositionRequest struct {
	Name         *string `json:"Name"`
	Description  *string `json:"Description"`
	DepartmentID *int64  `json:"DepartmentID"`
}

// Handle dispatches /positions and /positions/{id}
func (h *PositionsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	id, hasID, ok := parseResourcePath(w, r, "positions")
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

func (h *PositionsHandler) list(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := parsePagination(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	deptID, err := parseIDFilter(r, "dept_id")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	positions, err := h.repo.List(r.Context(), deptID, skip, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list positions")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, positions)
}

func (h *PositionsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.DepartmentID == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "DepartmentID is required")
		return
	}

	pos := &models.Position{
		Name:         req.Name,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
	}

	if err := h.repo.Create(r.Context(), pos); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create position")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, pos)
}

func (h *PositionsHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	pos, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrPositionNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Position not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get position")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, pos)
}

func (h *PositionsHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var req UpdatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pos, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrPositionNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Position not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get position")
		return
	}

	if req.Name != nil {
		pos.Name = *req.Name
	}
	if req.Description != nil {
		pos.Description = req.Description
	}
	if req.DepartmentID != nil {
		pos.DepartmentID = *req.DepartmentID
	}

	if err := h.repo.Update(r.Context(), pos); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update position")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, pos)
}

func (h *PositionsHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	pos, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrPositionNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Position not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get position")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrPositionNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Position not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete position")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, pos)
}
