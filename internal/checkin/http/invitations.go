package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/checkinhq/checkin/internal/checkin/service"
	"github.com/checkinhq/checkin/pkg/httpx"
	"github.com/checkinhq/checkin/pkg/slogx"
)

type InvitationsHandler struct {
	InvitationService *service.InvitationService
}

// InviteRequest is the body of POST /v1/workspaces/{id}/invitations.
type InviteRequest struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	SenderName string `json:"sender_name"`
}

// InviteResponse carries the invitation token back to the caller.
type InviteResponse struct {
	Token string `json:"token"`
}

// InviteBatchRequest is the body of POST /v1/workspaces/{id}/invitations/batch.
type InviteBatchRequest struct {
	SenderName string `json:"sender_name"`
	Members    []struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"members"`
}

// AcceptRequest is the body of POST /v1/invitations/accept.
type AcceptRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

func (h *InvitationsHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	token, err := h.InvitationService.InviteMemberToWorkspace(ctx, service.InviteMember{
		WorkspaceID: r.PathValue("id"),
		Email:       req.Email,
		Role:        req.Role,
		SenderName:  req.SenderName,
	})
	if err != nil {
		writeInviteError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, InviteResponse{Token: token})
}

func (h *InvitationsHandler) HandleInviteBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req InviteBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if len(req.Members) == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "members is required")
		return
	}

	members := make([]service.Invitee, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, service.Invitee{Email: m.Email, Role: m.Role})
	}

	err := h.InvitationService.InviteMultipleMembersToWorkspace(ctx, service.InviteMembers{
		WorkspaceID: r.PathValue("id"),
		SenderName:  req.SenderName,
		Members:     members,
	})
	if err != nil {
		writeInviteError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *InvitationsHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req AcceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	result, err := h.InvitationService.AcceptInvitationToWorkspace(ctx, service.AcceptInvitation{
		Token:    req.Token,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvitationNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Invitation not found or expired")
		case errors.Is(err, service.ErrInvalidInviteRequest):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid invitation parameters")
		default:
			log.Error("failed to accept invitation", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to accept invitation")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, result)
}

func writeInviteError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrWorkspaceNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "Workspace not found")
	case errors.Is(err, service.ErrInvalidRole):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid role")
	case errors.Is(err, service.ErrInvalidInviteRequest):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid invite parameters")
	default:
		log.Error("failed to create invitation", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create invitation")
	}
}
