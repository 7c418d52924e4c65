package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/checkinhq/checkin/internal/checkin/service"
	"github.com/checkinhq/checkin/pkg/httpx"
	"github.com/checkinhq/checkin/pkg/slogx"
)

type WorkspacesHandler struct {
	WorkspaceService *service.WorkspaceService
}

// CreateWorkspaceRequest is the body of POST /v1/workspaces.
type CreateWorkspaceRequest struct {
	Name           string `json:"name"`
	CreatorID      string `json:"creator_id,omitempty"`
	IncludeCreator bool   `json:"include_creator,omitempty"`
}

// WorkspaceResponse is the JSON shape of a workspace.
type WorkspaceResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *WorkspacesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Name == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	if req.IncludeCreator && req.CreatorID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "creator_id is required when include_creator is set")
		return
	}

	workspace, err := h.WorkspaceService.CreateWorkspace(ctx, service.CreateWorkspace{
		Name:           req.Name,
		CreatorID:      req.CreatorID,
		IncludeCreator: req.IncludeCreator,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidWorkspace) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid workspace parameters")
			return
		}
		log.Error("failed to create workspace", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create workspace")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, WorkspaceResponse{ID: workspace.ID, Name: workspace.Name})
}

func (h *WorkspacesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	workspace, err := h.WorkspaceService.GetWorkspace(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Workspace not found")
			return
		}
		log.Error("failed to fetch workspace", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to fetch workspace")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, WorkspaceResponse{ID: workspace.ID, Name: workspace.Name})
}

func (h *WorkspacesHandler) HandleUsage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	usage, err := h.WorkspaceService.UsageSummary(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Workspace not found")
			return
		}
		log.Error("failed to summarise workspace usage", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to fetch usage")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, usage)
}

func (h *WorkspacesHandler) HandleListForUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	workspaces, err := h.WorkspaceService.ListWorkspacesForUser(ctx, r.PathValue("id"))
	if err != nil {
		log.Error("failed to list workspaces for user", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list workspaces")
		return
	}

	out := make([]WorkspaceResponse, 0, len(workspaces))
	for _, ws := range workspaces {
		out = append(out, WorkspaceResponse{ID: ws.ID, Name: ws.Name})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
