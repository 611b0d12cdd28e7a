package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/radekzitek/crudelty/internal/models"
	"github.com/radekzitek/crudelty/internal/storage"
	"github.com/radekzitek/crudelty/internal/utils"
)

// TeamsHandler handles team management endpoints
type TeamsHandler struct {
	repo *storage.TeamRepository
}

// NewTeamsHandler creates a new teams handler
func NewTeamsHandler(repo *storage.TeamRepository) *TeamsHandler {
	return &TeamsHandler{repo: repo}
}

// CreateTeamRequest represents the request to create a team
type CreateTeamRequest struct {
	Name           string  `json:"Name"`
	Description    *string `json:"Description"`
	TeamLeaderID   *int64  `json:"TeamLeaderID"`
	ParentTeamID   *int64  `json:"ParentTeamID"`
	OrganizationID int64   `json:"OrganizationID"`
}

// UpdateTeamRequest represents a partial update; only provided fields
// change.
type UpdateTeamRequest struct {
	Name           *string `json:"Name"`
	Description    *string `json:"Description"`
	TeamLeaderID   *int64  `json:"TeamLeaderID"`
	ParentTeamID   *int64  `json:"ParentTeamID"`
	OrganizationID *int64  `json:"OrganizationID"`
}

// Handle dispatches /teams and /teams/{id}
func (h *TeamsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	id, hasID, ok := parseResourcePath(w, r, "teams")
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

func (h *TeamsHandler) list(w http.ResponseWriter, r *http.Request) {
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

	teams, err := h.repo.List(r.Context(), orgID, skip, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to list teams")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, teams)
}

func (h *TeamsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
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

	team := &models.Team{
		Name:           req.Name,
		Description:    req.Description,
		TeamLeaderID:   req.TeamLeaderID,
		ParentTeamID:   req.ParentTeamID,
		OrganizationID: req.OrganizationID,
	}

	if err := h.repo.Create(r.Context(), team); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create team")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, team)
}

func (h *TeamsHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	team, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrTeamNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Team not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get team")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, team)
}

func (h *TeamsHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var req UpdateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	team, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrTeamNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Team not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get team")
		return
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.Description != nil {
		team.Description = req.Description
	}
	if req.TeamLeaderID != nil {
		team.TeamLeaderID = req.TeamLeaderID
	}
	if req.ParentTeamID != nil {
		team.ParentTeamID = req.ParentTeamID
	}
	if req.OrganizationID != nil {
		team.OrganizationID = *req.OrganizationID
	}

	if err := h.repo.Update(r.Context(), team); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update team")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, team)
}

func (h *TeamsHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	team, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrTeamNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Team not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to get team")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrTeamNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Team not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete team")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, team)
}
