package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/checkinhq/checkin/internal/checkin/service"
	"github.com/checkinhq/checkin/pkg/httpx"
	"github.com/checkinhq/checkin/pkg/slogx"
)

type VenuesHandler struct {
	VenueService *service.VenueService
}

// CreateVenueRequest is the body of POST /v1/workspaces/{id}/venues.
type CreateVenueRequest struct {
	Name string `json:"name"`
}

// VenueResponse is the JSON shape of a venue.
type VenueResponse struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	Active      bool   `json:"active"`
}

// SetVenueActiveRequest is the body of PATCH /v1/venues/{id}.
type SetVenueActiveRequest struct {
	Active bool `json:"active"`
}

// AddParticipantRequest is the body of POST /v1/venues/{id}/participants.
type AddParticipantRequest struct {
	UserID   string `json:"user_id"`
	Comments string `json:"comments,omitempty"`
}

// ParticipantResponse is the JSON shape of a venue participant.
type ParticipantResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Status   string `json:"status"`
	Comments string `json:"comments,omitempty"`
}

// UpdateStatusRequest is the body of PATCH /v1/venues/participants/{id}.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (h *VenuesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req CreateVenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Name == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	venue, err := h.VenueService.CreateVenue(ctx, service.NewVenue{
		WorkspaceID: r.PathValue("id"),
		Name:        req.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkspaceNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Workspace not found")
		case errors.Is(err, service.ErrInvalidVenue):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid venue parameters")
		default:
			log.Error("failed to create venue", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create venue")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, VenueResponse{
		ID:          venue.ID,
		WorkspaceID: venue.WorkspaceID,
		Name:        venue.Name,
		Active:      venue.Active,
	})
}

func (h *VenuesHandler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req SetVenueActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if err := h.VenueService.SetVenueActive(ctx, r.PathValue("id"), req.Active); err != nil {
		if errors.Is(err, service.ErrVenueNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Venue not found")
			return
		}
		log.Error("failed to update venue", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to update venue")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *VenuesHandler) HandleAddParticipant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req AddParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.UserID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	result, err := h.VenueService.AddMemberToVenue(ctx, r.PathValue("id"), service.AddVenueMember{
		UserID:   req.UserID,
		Comments: req.Comments,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVenueNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Venue not found")
		case errors.Is(err, service.ErrVenueInactive):
			httpx.WriteError(w, http.StatusConflict, "venue_inactive", "Venue is not accepting participants")
		default:
			log.Error("failed to add venue participant", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to add participant")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, result)
}

func (h *VenuesHandler) HandleListParticipants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	participants, err := h.VenueService.ListVenueParticipants(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrVenueNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Venue not found")
			return
		}
		log.Error("failed to list venue participants", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list participants")
		return
	}

	out := make([]ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		out = append(out, ParticipantResponse{
			ID:       p.ID,
			UserID:   p.UserID,
			Status:   p.Status,
			Comments: p.Comments,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *VenuesHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if err := h.VenueService.UpdateCheckInStatus(ctx, r.PathValue("id"), req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrVenueUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Participant not found")
		case errors.Is(err, service.ErrInvalidCheckInStep):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Unknown check-in status")
		default:
			log.Error("failed to update check-in status", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to update status")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
