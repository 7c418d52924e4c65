package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/checkinhq/checkin/internal/checkin/service"
	"github.com/checkinhq/checkin/internal/checkin/store"
	"github.com/checkinhq/checkin/pkg/httpx"
	"github.com/checkinhq/checkin/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	WorkspaceService  *service.WorkspaceService
	MembershipService *service.MembershipService
	InvitationService *service.InvitationService
	VenueService      *service.VenueService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerWorkspaces()
	r.registerMembers()
	r.registerInvitations()
	r.registerVenues()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerWorkspaces() {
	h := &WorkspacesHandler{WorkspaceService: r.WorkspaceService}

	// POST /v1/workspaces - moderate rate limit (tenant creation)
	r.Mux.Handle("POST /v1/workspaces",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /v1/workspaces/{id} - lenient rate limit (read)
	r.Mux.Handle("GET /v1/workspaces/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /v1/workspaces/{id}/usage - lenient rate limit (read, polled by dashboards)
	r.Mux.Handle("GET /v1/workspaces/{id}/usage",
		httpx.Chain(http.HandlerFunc(h.HandleUsage),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /v1/users/{id}/workspaces - lenient rate limit (read)
	r.Mux.Handle("GET /v1/users/{id}/workspaces",
		httpx.Chain(http.HandlerFunc(h.HandleListForUser),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerMembers() {
	h := &MembersHandler{MembershipService: r.MembershipService}

	// POST /v1/workspaces/{id}/members - moderate rate limit (account creation path)
	r.Mux.Handle("POST /v1/workspaces/{id}/members",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /v1/workspaces/{id}/members - lenient rate limit (read)
	r.Mux.Handle("GET /v1/workspaces/{id}/members",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{InvitationService: r.InvitationService}

	// POST /invitations - moderate rate limit (sends email)
	r.Mux.Handle("POST /v1/workspaces/{id}/invitations",
		httpx.Chain(http.HandlerFunc(h.HandleInvite),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /invitations/batch - strict rate limit (fans out many emails)
	r.Mux.Handle("POST /v1/workspaces/{id}/invitations/batch",
		httpx.Chain(http.HandlerFunc(h.HandleInviteBatch),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /invitations/accept - strict rate limit by IP (public signup endpoint)
	r.Mux.Handle("POST /v1/invitations/accept",
		httpx.Chain(http.HandlerFunc(h.HandleAccept),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerVenues() {
	h := &VenuesHandler{VenueService: r.VenueService}

	// POST /v1/workspaces/{id}/venues - moderate rate limit
	r.Mux.Handle("POST /v1/workspaces/{id}/venues",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// PATCH /v1/venues/{id} - moderate rate limit (open/close venue)
	r.Mux.Handle("PATCH /v1/venues/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleSetActive),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /v1/venues/{id}/participants - lenient rate limit (check-in burst at event start)
	r.Mux.Handle("POST /v1/venues/{id}/participants",
		httpx.Chain(http.HandlerFunc(h.HandleAddParticipant),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /v1/venues/{id}/participants - lenient rate limit (read)
	r.Mux.Handle("GET /v1/venues/{id}/participants",
		httpx.Chain(http.HandlerFunc(h.HandleListParticipants),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// PATCH /v1/venues/participants/{id} - lenient rate limit (status updates during check-in)
	r.Mux.Handle("PATCH /v1/venues/participants/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateStatus),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
