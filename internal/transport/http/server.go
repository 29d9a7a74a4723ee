// package http implements the HTTP transport layer for the service.
// It handles incoming requests, decodes them, calls the appropriate service
// methods, and encodes the responses.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/projectpulse/jira-dashboard-service/internal/apperrors"
	"github.com/projectpulse/jira-dashboard-service/internal/config"
	"github.com/projectpulse/jira-dashboard-service/internal/jira"
	"github.com/projectpulse/jira-dashboard-service/internal/service"
	"github.com/projectpulse/jira-dashboard-service/internal/validation"
	"github.com/projectpulse/jira-dashboard-service/pkg/logger/sl"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// dashboardPath is where the OAuth and sync flows redirect back to.
const dashboardPath = "/dashboard"

// Server holds the dependencies for the HTTP server, including the logger
// and service interfaces.
type Server struct {
	log            *slog.Logger
	cfg            config.Jira
	oauth          *jira.OAuth
	projectService service.ProjectService
	syncService    service.SyncService
}

// NewServer creates a new instance of the HTTP server.
func NewServer(
	log *slog.Logger,
	cfg config.Jira,
	oauth *jira.OAuth,
	ps service.ProjectService,
	ss service.SyncService,
) *Server {
	return &Server{
		log:            log,
		cfg:            cfg,
		oauth:          oauth,
		projectService: ps,
		syncService:    ss,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.GetProjects)
			r.Post("/", s.PostProjects)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetProject)
				r.Patch("/", s.PatchProject)
				r.Delete("/", s.DeleteProject)
				r.Get("/issues", s.GetProjectIssues)
			})
		})

		r.Get("/teams", s.GetTeams)

		r.Route("/jira", func(r chi.Router) {
			r.Get("/auth", s.GetJiraAuth)
			r.Get("/callback", s.GetJiraCallback)
			r.Get("/sync", s.JiraSync)
			r.Post("/sync", s.JiraSync)
			r.Get("/test", s.GetJiraTest)
		})
	})

	return mux
}

func (s *Server) GetProjects(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetProjects"

	q := r.URL.Query()
	filter := parseFilter(q.Get("status"), q.Get("health"), q.Get("search"))

	listing, err := s.projectService.ListProjects(r.Context(), filter)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, listing)
}

func (s *Server) PostProjects(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostProjects"

	var req createProjectRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	project, err := s.projectService.CreateProject(r.Context(), req.toDomain())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, map[string]any{"project": project})
}

func (s *Server) GetProject(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetProject"

	details, err := s.projectService.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"project": details})
}

func (s *Server) PatchProject(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PatchProject"

	var req updateProjectRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	project, err := s.projectService.UpdateProject(r.Context(), chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"project": project})
}

func (s *Server) DeleteProject(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.DeleteProject"

	if err := s.projectService.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) GetProjectIssues(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetProjectIssues"

	issues, err := s.projectService.ListProjectIssues(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{
		"issues": issues,
		"count":  len(issues),
	})
}

func (s *Server) GetTeams(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetTeams"

	teams, err := s.projectService.ListTeams(r.Context())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"teams": teams})
}

// GetJiraAuth starts the OAuth flow: it stores a CSRF state cookie and
// redirects the browser to the Atlassian consent page.
func (s *Server) GetJiraAuth(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetJiraAuth"

	if !s.oauth.Configured() {
		s.log.Error("jira oauth is not configured", slog.String("op", op))
		s.respondError(w, http.StatusInternalServerError, "jira integration is not configured")

		return
	}

	state := uuid.NewString()
	s.setStateCookie(w, state)

	http.Redirect(w, r, s.oauth.AuthorizeURL(state), http.StatusFound)
}

// GetJiraCallback finishes the OAuth flow. On any failure it redirects back
// to the dashboard with an error code instead of rendering an error page.
func (s *Server) GetJiraCallback(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetJiraCallback"
	log := s.log.With(slog.String("op", op))

	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		log.Warn("oauth consent denied", slog.String("error", errParam))
		s.redirectDashboard(w, r, url.Values{"error": {"jira_auth_denied"}})

		return
	}

	code := q.Get("code")
	if code == "" {
		s.redirectDashboard(w, r, url.Values{"error": {"jira_auth_failed"}})
		return
	}

	stateCookie, err := r.Cookie(cookieOAuthState)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != q.Get("state") {
		log.Warn("oauth state mismatch")
		s.redirectDashboard(w, r, url.Values{"error": {"jira_auth_failed"}})

		return
	}

	tokens, err := s.oauth.ExchangeCode(r.Context(), code)
	if err != nil {
		log.Error("code exchange failed", sl.Err(err))
		s.redirectDashboard(w, r, url.Values{"error": {"jira_auth_failed"}})

		return
	}

	resources, err := s.oauth.AccessibleResources(r.Context(), tokens.AccessToken)
	if err != nil || len(resources) == 0 {
		log.Error("no accessible jira sites", sl.Err(err))
		s.redirectDashboard(w, r, url.Values{"error": {"jira_no_sites"}})

		return
	}

	s.setCredentialCookies(w, tokens.AccessToken, resources[0].ID)
	clearCookie(w, cookieOAuthState)

	log.Info("jira connected", slog.String("site", resources[0].Name))

	s.redirectDashboard(w, r, url.Values{"success": {"jira_connected"}})
}

// JiraSync runs one full synchronization and reports the outcome through
// dashboard redirect query parameters.
func (s *Server) JiraSync(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.JiraSync"
	log := s.log.With(slog.String("op", op))

	creds, ok := credentialsFromRequest(r)
	if !ok {
		s.redirectDashboard(w, r, url.Values{"error": {"not_authenticated"}})
		return
	}

	result, err := s.syncService.RunSync(r.Context(), creds)
	if err != nil {
		log.Error("sync could not start", sl.Err(err))
		s.redirectDashboard(w, r, url.Values{"error": {"jira_connection_failed"}})

		return
	}

	if result.Success {
		s.redirectDashboard(w, r, url.Values{
			"success":  {"sync_complete"},
			"projects": {strconv.Itoa(result.ProjectsSynced)},
			"issues":   {strconv.Itoa(result.IssuesSynced)},
		})

		return
	}

	log.Error("sync failed", slog.Any("errors", result.Errors))

	s.redirectDashboard(w, r, url.Values{
		"error":   {"sync_failed"},
		"details": {strings.Join(result.Errors, "; ")},
	})
}

// GetJiraTest checks the stored credentials against the jira identity
// endpoint and returns the result as JSON.
func (s *Server) GetJiraTest(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetJiraTest"

	creds, ok := credentialsFromRequest(r)
	if !ok {
		s.respond(w, http.StatusOK, map[string]any{
			"success": false,
			"error":   apperrors.ErrNotAuthenticated.Error(),
		})

		return
	}

	me, err := s.syncService.TestConnection(r.Context(), creds)
	if err != nil {
		s.log.Warn("jira connection test failed", slog.String("op", op), sl.Err(err))
		s.respond(w, http.StatusOK, map[string]any{
			"success": false,
			"error":   "jira connection failed",
		})

		return
	}

	s.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    me.DisplayName,
		"email":   me.EmailAddress,
	})
}

func (s *Server) redirectDashboard(w http.ResponseWriter, r *http.Request, params url.Values) {
	http.Redirect(w, r, dashboardPath+"?"+params.Encode(), http.StatusFound)
}

// respond is a helper function to encode data to JSON and write it to the
// response. It centralizes setting the Content-Type header and writing the
// status code.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

// respondError is a convenience wrapper around respond for sending simple error messages.
func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respond(w, code, map[string]string{"error": message})
}

// decodeAndValidate is a helper that deserializes a JSON request body into a
// struct and then runs validation checks on it.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

// decode is a helper function to decode a JSON request body.
func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

// handleServiceError provides centralized error handling for all HTTP handlers.
// It logs the internal error and maps it to a user-friendly HTTP response.
func (s *Server) handleServiceError(w http.ResponseWriter, _ *http.Request, op string, err error) {
	log := s.log.With(slog.String("op", op))
	log.Error("service error occurred", sl.Err(err))

	var (
		projectExistsErr *apperrors.ProjectExistsError
		validationErr    *validation.ValidationError
	)

	switch {
	case errors.As(err, &validationErr):
		wrappedErr := fmt.Errorf("%w: %s", apperrors.ErrValidation, validationErr.Error())
		s.respondError(w, http.StatusBadRequest, wrappedErr.Error())
	case errors.Is(err, apperrors.ErrInvalidRequest):
		s.respondError(w, http.StatusBadRequest, "invalid request body")
	case errors.Is(err, apperrors.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "resource not found")
	case errors.As(err, &projectExistsErr):
		s.respondError(w, http.StatusConflict, projectExistsErr.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
