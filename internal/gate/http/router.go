package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/keygate/internal/gate/service"
	"github.com/aussiebroadwan/keygate/internal/gate/store"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"github.com/aussiebroadwan/keygate/pkg/sessionx"
	"github.com/aussiebroadwan/keygate/pkg/slogx"

	_ "github.com/aussiebroadwan/keygate/api/gate" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       *sessionx.Signer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	LedgerService       *service.LedgerService
	RegistrationService *service.RegistrationService
	SessionService      *service.SessionService
}

func NewRouter(
	signer *sessionx.Signer,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
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
	r.registerAccounts()
	r.registerKeys()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			KeyGate Account Service API
//	@version		0.1.0
//	@description	Invitation-gated account service: registration requires a valid,
//	@description	unexpired, not-exhausted invitation key which is atomically consumed.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/keygate
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	registerHandler := &RegisterHandler{RegistrationService: r.RegistrationService}
	r.Mux.Handle("POST /v1/register", registerHandler)

	loginHandler := &LoginHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /v1/login", loginHandler)

	meHandler := &SessionMeHandler{SessionService: r.SessionService}
	r.Mux.Handle("GET /v1/session/me",
		httpx.Chain(meHandler,
			httpx.AuthnMiddleware(r.signer),
		),
	)
}

func (r *Router) registerKeys() {
	issueHandler := &KeysIssueHandler{LedgerService: r.LedgerService}
	listHandler := &KeysListHandler{LedgerService: r.LedgerService}
	deactivateHandler := &KeysDeactivateHandler{LedgerService: r.LedgerService}

	// Key management is an admin-only surface.
	admin := []httpx.Middleware{
		httpx.AuthnMiddleware(r.signer),
		httpx.RequireAdmin(),
	}

	r.Mux.Handle("POST /v1/keys", httpx.Chain(issueHandler, admin...))
	r.Mux.Handle("GET /v1/keys", httpx.Chain(listHandler, admin...))
	r.Mux.Handle("DELETE /v1/keys/{id}", httpx.Chain(deactivateHandler, admin...))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer))
}
