package handler

//go:generate mockgen -source=handler.go -destination=mocks/registry-mocks.go -package=mocks Service,EventLog

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"secreg/internal/platform/metrics"
	"secreg/internal/registry/models"
	"secreg/pkg/domain"
	dErrors "secreg/pkg/domain-errors"
	"secreg/pkg/platform/events"
	"secreg/pkg/platform/httputil"
	"secreg/pkg/platform/middleware/auth"
	"secreg/pkg/platform/middleware/logging"
	"secreg/pkg/platform/middleware/metadata"
	request "secreg/pkg/platform/middleware/request"
	"secreg/pkg/platform/middleware/requesttime"
	"secreg/pkg/requestcontext"
)

const (
	requestTimeout    = 30 * time.Second
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

// Service defines the registry operations exposed over HTTP.
type Service interface {
	RegisterCompany(ctx context.Context, caller domain.Address, req models.RegisterCompanyRequest) (*models.Company, error)
	RegisterVerifier(ctx context.Context, caller domain.Address, req models.RegisterVerifierRequest) (*models.Verifier, error)
	UpdateCompanyAccount(ctx context.Context, caller domain.Address, req models.UpdateDelegateRequest) (*models.Delegate, error)
	UpdateVerifierAccount(ctx context.Context, caller domain.Address, req models.UpdateDelegateRequest) (*models.Delegate, error)
	CreateSite(ctx context.Context, caller domain.Address, req models.CreateSiteRequest) (*models.Site, error)
	LinkVerifier(ctx context.Context, caller, verifier domain.Address) (*models.VerifierLink, error)
	CreateTask(ctx context.Context, caller domain.Address, req models.CreateTaskRequest) (*models.Task, error)
	ValidateTask(ctx context.Context, caller domain.Address, taskID domain.TaskID) (*models.Task, error)
	DisposeTask(ctx context.Context, caller domain.Address, taskID domain.TaskID, action models.Disposition) (*models.Task, error)
	Mint(ctx context.Context, caller domain.Address, taskID domain.TaskID, metadataURI string) (*models.Certificate, error)
	UpdateMetadataURI(ctx context.Context, caller domain.Address, tokenID domain.TokenID, metadataURI string) (*models.Certificate, error)

	GetStatus(ctx context.Context, taskID domain.TaskID) (models.TaskStatus, error)
	GetTask(ctx context.Context, taskID domain.TaskID) (*models.TaskDetails, error)
	BuildCertificateMetadata(ctx context.Context, taskID domain.TaskID) (*models.CertificateMetadata, error)
	GetMetadataURI(ctx context.Context, tokenID domain.TokenID) (string, error)
	Roles(ctx context.Context, addr domain.Address) (*models.IdentityRoles, error)
	ResolvePrincipal(ctx context.Context, caller domain.Address, role models.Role) (models.Resolution, error)
	GetCompany(ctx context.Context, owner domain.Address) (*models.CompanyDetails, error)
	GetVerifier(ctx context.Context, owner domain.Address) (*models.VerifierDetails, error)
	ListSites(ctx context.Context, principal domain.Address) ([]*models.Site, error)
	ListDelegates(ctx context.Context, role models.Role, principal domain.Address) ([]*models.Delegate, error)
	IsSite(ctx context.Context, principal domain.Address, siteName string) (bool, error)
	IsRegister(ctx context.Context, principal domain.Address, registerID domain.RegisterID) (bool, error)
	GetLinkedVerifier(ctx context.Context, company domain.Address) (domain.Address, error)
	ListTasksByCompany(ctx context.Context, company domain.Address) ([]*models.Task, error)
	ListTasksByVerifier(ctx context.Context, verifier domain.Address) ([]*models.Task, error)
}

// EventLog is the read side of the event sink.
type EventLog interface {
	List(ctx context.Context, after uint64, limit int) ([]events.Event, error)
}

// Handler serves the registry API.
type Handler struct {
	logger    *slog.Logger
	registry  Service
	events    EventLog
	metrics   *metrics.Metrics
	validator auth.TokenValidator
}

// New creates a registry Handler. events may be nil, in which case /events
// answers 404.
func New(
	registry Service,
	eventLog EventLog,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	validator auth.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		registry:  registry,
		events:    eventLog,
		metrics:   metrics,
		validator: validator,
	}
}

// Register registers the registry routes with the chi router. Reads are public;
// every state-changing route requires a caller token.
func (h *Handler) Register(r chi.Router) {
	registryRouter := chi.NewRouter()
	registryRouter.Use(logging.Recovery(h.logger))
	registryRouter.Use(request.RequestID)
	registryRouter.Use(metadata.ClientMetadata)
	registryRouter.Use(requesttime.Middleware)
	registryRouter.Use(logging.Logger(h.logger))
	registryRouter.Use(chimw.Timeout(requestTimeout))
	registryRouter.Use(request.ContentTypeJSON)
	registryRouter.Use(metrics.LatencyMiddleware(h.metrics))

	registryRouter.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(h.validator, h.logger))
		r.Post("/companies", h.handleRegisterCompany)
		r.Post("/verifiers", h.handleRegisterVerifier)
		r.Post("/companies/accounts", h.handleUpdateAccount(models.RoleCompany))
		r.Post("/verifiers/accounts", h.handleUpdateAccount(models.RoleVerifier))
		r.Post("/sites", h.handleCreateSite)
		r.Post("/companies/verifier", h.handleLinkVerifier)
		r.Post("/tasks", h.handleCreateTask)
		r.Post("/tasks/{taskID}/validate", h.handleValidateTask)
		r.Post("/tasks/{taskID}/disposition", h.handleDisposeTask)
		r.Post("/certificates", h.handleMint)
		r.Put("/certificates/{tokenID}/metadata", h.handleUpdateMetadataURI)
	})

	registryRouter.Get("/tasks/{taskID}", h.handleGetTask)
	registryRouter.Get("/tasks/{taskID}/status", h.handleGetStatus)
	registryRouter.Get("/tasks/{taskID}/metadata", h.handleTaskMetadata)
	registryRouter.Get("/certificates/{tokenID}", h.handleGetMetadataURI)
	registryRouter.Get("/identities/{address}", h.handleRoles)
	registryRouter.Get("/identities/{address}/resolve", h.handleResolve)
	registryRouter.Get("/companies/{address}", h.handleGetCompany)
	registryRouter.Get("/companies/{address}/sites", h.handleSites)
	registryRouter.Get("/companies/{address}/accounts", h.handleDelegates(models.RoleCompany))
	registryRouter.Get("/companies/{address}/sites/{registerID}", h.handleIsRegister)
	registryRouter.Get("/companies/{address}/verifier", h.handleLinkedVerifier)
	registryRouter.Get("/companies/{address}/tasks", h.handleCompanyTasks)
	registryRouter.Get("/verifiers/{address}", h.handleGetVerifier)
	registryRouter.Get("/verifiers/{address}/tasks", h.handleVerifierTasks)
	registryRouter.Get("/verifiers/{address}/accounts", h.handleDelegates(models.RoleVerifier))
	registryRouter.Get("/events", h.handleListEvents)

	r.Mount("/", registryRouter)
}

// fail logs err at a level matching its code and writes the error envelope.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	code := dErrors.CodeOf(err)
	attrs := []any{
		"operation", op,
		"code", string(code),
		"error", err.Error(),
		"request_id", request.GetRequestID(ctx),
	}
	if httputil.ToHTTPStatus(code) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "registry request failed", attrs...)
	} else {
		h.logger.WarnContext(ctx, "registry request rejected", attrs...)
	}
	httputil.WriteError(w, err)
}

// caller returns the authenticated caller. RequireAuth guarantees it is set on
// every write route.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (domain.Address, bool) {
	caller := requestcontext.Caller(r.Context())
	if caller.IsZero() {
		h.logger.ErrorContext(r.Context(), "caller missing from context despite auth middleware",
			"request_id", request.GetRequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return domain.ZeroAddress, false
	}
	return caller, true
}

func (h *Handler) handleRegisterCompany(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	body, err := httputil.DecodeJSON[registerCompanyBody](r)
	if err != nil {
		h.fail(w, r, "register_company", err)
		return
	}
	company, err := h.registry.RegisterCompany(r.Context(), caller, body.toModel())
	if err != nil {
		h.fail(w, r, "register_company", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, company)
}

func (h *Handler) handleRegisterVerifier(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	body, err := httputil.DecodeJSON[registerVerifierBody](r)
	if err != nil {
		h.fail(w, r, "register_verifier", err)
		return
	}
	verifier, err := h.registry.RegisterVerifier(r.Context(), caller, body.toModel())
	if err != nil {
		h.fail(w, r, "register_verifier", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, verifier)
}

func (h *Handler) handleUpdateAccount(role models.Role) http.HandlerFunc {
	op := "update_" + string(role) + "_account"
	update := h.registry.UpdateCompanyAccount
	if role == models.RoleVerifier {
		update = h.registry.UpdateVerifierAccount
	}
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := h.caller(w, r)
		if !ok {
			return
		}
		body, err := httputil.DecodeJSON[updateAccountBody](r)
		if err != nil {
			h.fail(w, r, op, err)
			return
		}
		req, err := body.toModel()
		if err != nil {
			h.fail(w, r, op, err)
			return
		}
		delegate, err := update(r.Context(), caller, req)
		if err != nil {
			h.fail(w, r, op, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, delegate)
	}
}

func (h *Handler) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	body, err := httputil.DecodeJSON[createSiteBody](r)
	if err != nil {
		h.fail(w, r, "create_site", err)
		return
	}
	site, err := h.registry.CreateSite(r.Context(), caller, body.toModel())
	if err != nil {
		h.fail(w, r, "create_site", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, site)
}

func (h *Handler) handleLinkVerifier(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	body, err := httputil.DecodeJSON[linkVerifierBody](r)
	if err != nil {
		h.fail(w, r, "link_verifier", err)
		return
	}
	verifier, err := parseAddressField("verifier", body.Verifier)
	if err != nil {
		h.fail(w, r, "link_verifier", err)
		return
	}
	link, err := h.registry.LinkVerifier(r.Context(), caller, verifier)
	if err != nil {
		h.fail(w, r, "link_verifier", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, link)
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	body, err := httputil.DecodeJSON[createTaskBody](r)
	if err != nil {
		h.fail(w, r, "create_task", err)
		return
	}
	req, err := body.toModel()
	if err != nil {
		h.fail(w, r, "create_task", err)
		return
	}
	task, err := h.registry.CreateTask(r.Context(), caller, req)
	if err != nil {
		h.fail(w, r, "create_task", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, task)
}

func (h *Handler) handleValidateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	taskID, err := domain.ParseTaskID(chi.URLParam(r, "taskID"))
	if err != nil {
		h.fail(w, r, "validate_task", err)
		return
	}
	task, err := h.registry.ValidateTask(r.Context(), caller, taskID)
	if err != nil {
		h.fail(w, r, "validate_task", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) handleDisposeTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	taskID, err := domain.ParseTaskID(chi.URLParam(r, "taskID"))
	if err != nil {
		h.fail(w, r, "dispose_task", err)
		return
	}
	body, err := httputil.DecodeJSON[dispositionBody](r)
	if err != nil {
		h.fail(w, r, "dispose_task", err)
		return
	}
	task, err := h.registry.DisposeTask(r.Context(), caller, taskID, models.Disposition(body.Action))
	if err != nil {
		h.fail(w, r, "dispose_task", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, task)
}

func (h *Handler) handleMint(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	body, err := httputil.DecodeJSON[mintBody](r)
	if err != nil {
		h.fail(w, r, "mint", err)
		return
	}
	taskID, err := body.taskID()
	if err != nil {
		h.fail(w, r, "mint", err)
		return
	}
	cert, err := h.registry.Mint(r.Context(), caller, taskID, body.MetadataURI)
	if err != nil {
		h.fail(w, r, "mint", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, cert)
}

func (h *Handler) handleUpdateMetadataURI(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	tokenID, err := domain.ParseTokenID(chi.URLParam(r, "tokenID"))
	if err != nil {
		h.fail(w, r, "update_metadata_uri", err)
		return
	}
	body, err := httputil.DecodeJSON[metadataURIBody](r)
	if err != nil {
		h.fail(w, r, "update_metadata_uri", err)
		return
	}
	cert, err := h.registry.UpdateMetadataURI(r.Context(), caller, tokenID, body.MetadataURI)
	if err != nil {
		h.fail(w, r, "update_metadata_uri", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cert)
}

func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := domain.ParseTaskID(chi.URLParam(r, "taskID"))
	if err != nil {
		h.fail(w, r, "get_task", err)
		return
	}
	details, err := h.registry.GetTask(r.Context(), taskID)
	if err != nil {
		h.fail(w, r, "get_task", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, details)
}

func (h *Handler) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	taskID, err := domain.ParseTaskID(chi.URLParam(r, "taskID"))
	if err != nil {
		h.fail(w, r, "get_status", err)
		return
	}
	status, err := h.registry.GetStatus(r.Context(), taskID)
	if err != nil {
		h.fail(w, r, "get_status", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, taskStatusResponse{TaskID: taskID, Status: status, Label: status.Label()})
}

func (h *Handler) handleTaskMetadata(w http.ResponseWriter, r *http.Request) {
	taskID, err := domain.ParseTaskID(chi.URLParam(r, "taskID"))
	if err != nil {
		h.fail(w, r, "build_certificate_metadata", err)
		return
	}
	md, err := h.registry.BuildCertificateMetadata(r.Context(), taskID)
	if err != nil {
		h.fail(w, r, "build_certificate_metadata", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, md)
}

func (h *Handler) handleGetMetadataURI(w http.ResponseWriter, r *http.Request) {
	tokenID, err := domain.ParseTokenID(chi.URLParam(r, "tokenID"))
	if err != nil {
		h.fail(w, r, "get_metadata_uri", err)
		return
	}
	uri, err := h.registry.GetMetadataURI(r.Context(), tokenID)
	if err != nil {
		h.fail(w, r, "get_metadata_uri", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, certificateURIResponse{TokenID: tokenID, MetadataURI: uri})
}

func (h *Handler) handleRoles(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddressField("address", chi.URLParam(r, "address"))
	if err != nil {
		h.fail(w, r, "roles", err)
		return
	}
	roles, err := h.registry.Roles(r.Context(), addr)
	if err != nil {
		h.fail(w, r, "roles", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, roles)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddressField("address", chi.URLParam(r, "address"))
	if err != nil {
		h.fail(w, r, "resolve_principal", err)
		return
	}
	role, err := models.ParseRole(r.URL.Query().Get("role"))
	if err != nil {
		h.fail(w, r, "resolve_principal", err)
		return
	}
	res, err := h.registry.ResolvePrincipal(r.Context(), addr, role)
	if err != nil {
		h.fail(w, r, "resolve_principal", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddressField("address", chi.URLParam(r, "address"))
	if err != nil {
		h.fail(w, r, "get_company", err)
		return
	}
	company, err := h.registry.GetCompany(r.Context(), addr)
	if err != nil {
		h.fail(w, r, "get_company", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, company)
}

// handleSites answers IsSite when a name is given and lists the sites otherwise.
func (h *Handler) handleSites(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddressField("address", chi.URLParam(r, "address"))
	if err != nil {
		h.fail(w, r, "sites", err)
		return
	}

	if name := r.URL.Query().Get("name"); name != "" {
		exists, err := h.registry.IsSite(r.Context(), addr, name)
		if err != nil {
			h.fail(w, r, "is_site", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, existsResponse{Exists: exists})
		return
	}

	sites, err := h.registry.ListSites(r.Context(), addr)
	if err != nil {
		h.fail(w, r, "list_sites", err)
		return
	}
	if sites == nil {
		sites = []*models.Site{}
	}
	httputil.WriteJSON(w, http.StatusOK, sitesResponse{Sites: sites})
}

func (h *Handler) handleDelegates(role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr, err := parseAddressField("address", chi.URLParam(r, "address"))
		if err != nil {
			h.fail(w, r, "list_delegates", err)
			return
		}
		delegates, err := h.registry.ListDelegates(r.Context(), role, addr)
		if err != nil {
			h.fail(w, r, "list_delegates", err)
			return
		}
		if delegates == nil {
			delegates = []*models.Delegate{}
		}
		httputil.WriteJSON(w, http.StatusOK, delegatesResponse{Accounts: delegates})
	}
}

func (h *Handler) handleIsRegister(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddressField("address", chi.URLParam(r, "address"))
	if err != nil {
		h.fail(w, r, "is_register", err)
		return
	}
	registerID, err := domain.ParseRegisterID(chi.URLParam(r, "registerID"))
	if err != nil {
		h.fail(w, r, "is_register", err)
		return
	}
	exists, err := h.registry.IsRegister(r.Context(), addr, registerID)
	if err != nil {
		h.fail(w, r, "is_register", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, existsResponse{Exists: exists})
}

func (h *Handler) handleLinkedVerifier(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddressField("address", chi.URLParam(r, "address"))
	if err != nil {
		h.fail(w, r, "get_linked_verifier", err)
		return
	}
	verifier, err := h.registry.GetLinkedVerifier(r.Context(), addr)
	if err != nil {
		h.fail(w, r, "get_linked_verifier", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, linkedVerifierResponse{Company: addr, Verifier: verifier})
}

func (h *Handler) handleCompanyTasks(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddressField("address", chi.URLParam(r, "address"))
	if err != nil {
		h.fail(w, r, "list_company_tasks", err)
		return
	}
	tasks, err := h.registry.ListTasksByCompany(r.Context(), addr)
	if err != nil {
		h.fail(w, r, "list_company_tasks", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tasksResponse{Tasks: nonNil(tasks)})
}

func (h *Handler) handleGetVerifier(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddressField("address", chi.URLParam(r, "address"))
	if err != nil {
		h.fail(w, r, "get_verifier", err)
		return
	}
	verifier, err := h.registry.GetVerifier(r.Context(), addr)
	if err != nil {
		h.fail(w, r, "get_verifier", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, verifier)
}

func (h *Handler) handleVerifierTasks(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddressField("address", chi.URLParam(r, "address"))
	if err != nil {
		h.fail(w, r, "list_verifier_tasks", err)
		return
	}
	tasks, err := h.registry.ListTasksByVerifier(r.Context(), addr)
	if err != nil {
		h.fail(w, r, "list_verifier_tasks", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tasksResponse{Tasks: nonNil(tasks)})
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		h.fail(w, r, "list_events", dErrors.New(dErrors.CodeNotFound, "event log is not enabled"))
		return
	}
	after, err := queryUint(r, "after", 0)
	if err != nil {
		h.fail(w, r, "list_events", err)
		return
	}
	limit, err := queryUint(r, "limit", defaultEventLimit)
	if err != nil {
		h.fail(w, r, "list_events", err)
		return
	}
	if limit == 0 || limit > maxEventLimit {
		limit = maxEventLimit
	}

	list, err := h.events.List(r.Context(), after, int(limit))
	if err != nil {
		h.fail(w, r, "list_events", dErrors.Wrap(err, dErrors.CodeInternal, "failed to list events"))
		return
	}
	next := after
	if len(list) > 0 {
		next = list[len(list)-1].Seq
	}
	if list == nil {
		list = []events.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, eventsResponse{Events: list, Next: next})
}

func queryUint(r *http.Request, name string, fallback uint64) (uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "'"+name+"' must be a non-negative integer")
	}
	return n, nil
}

func nonNil(tasks []*models.Task) []*models.Task {
	if tasks == nil {
		return []*models.Task{}
	}
	return tasks
}
