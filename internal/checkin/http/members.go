package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/checkinhq/checkin/internal/checkin/service"
	"github.com/checkinhq/checkin/pkg/httpx"
	"github.com/checkinhq/checkin/pkg/slogx"
)

type MembersHandler struct {
	MembershipService *service.MembershipService
}

// CreateMemberRequest is the body of POST /v1/workspaces/{id}/members.
type CreateMemberRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

// MemberResponse is the JSON shape of a workspace membership.
type MemberResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (h *MembersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	result, err := h.MembershipService.CreateMemberInWorkspace(ctx, r.PathValue("id"), service.NewMember{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkspaceNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Workspace not found")
		case errors.Is(err, service.ErrInvalidMember):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid member parameters")
		default:
			log.Error("failed to create member in workspace", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create member")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, result)
}

func (h *MembersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	members, err := h.MembershipService.ListWorkspaceMembers(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Workspace not found")
			return
		}
		log.Error("failed to list workspace members", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list members")
		return
	}

	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, MemberResponse{ID: m.ID, UserID: m.UserID, Role: m.Role})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
