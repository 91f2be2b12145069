package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/secure"

	"github.com/easy-books/easy-books-server/internal/api/rest/handler"
	"github.com/easy-books/easy-books-server/internal/api/rest/middleware"
	"github.com/easy-books/easy-books-server/internal/api/rest/respond"
	"github.com/easy-books/easy-books-server/internal/apierrors"
	"github.com/easy-books/easy-books-server/internal/logger"
	"github.com/easy-books/easy-books-server/internal/model"
	"github.com/easy-books/easy-books-server/internal/observability"
)

// APIPrefix is the path every application route is mounted under.
const APIPrefix = "/eb"

// AuthService combines the operations of the auth handler and the
// authentication middleware.
type AuthService interface {
	handler.AuthService
	middleware.AuthService
}

// Options tunes the middleware stack.
type Options struct {
	RequestTimeout time.Duration
	// RateLimit and AuthRateLimit are requests per minute per client IP.
	// Zero disables the limiter.
	RateLimit      int
	AuthRateLimit  int
	AllowedOrigins []string
	AllowedHeaders []string
	EnableHTTPS    bool
}

// Resources holds the service behind each owned resource route.
type Resources struct {
	Inventory     handler.ResourceService[model.InventoryPayload]
	Relationships handler.ResourceService[model.RelationshipPayload]
	Purchases     handler.ResourceService[model.PurchasePayload]
	Sales         handler.ResourceService[model.SalePayload]
	Miscellaneous handler.ResourceService[model.MiscellaneousPayload]
}

// Router wires HTTP handlers and middleware for the easy-books API.
type Router struct {
	authService    AuthService
	resources      Resources
	db             handler.Pinger
	metrics        *observability.Metrics
	contextManager model.ContextManager
	validate       *validator.Validate
	options        Options
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	authService AuthService,
	resources Resources,
	db handler.Pinger,
	metrics *observability.Metrics,
	contextManager model.ContextManager,
	validate *validator.Validate,
	options Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		resources:      resources,
		db:             db,
		metrics:        metrics,
		contextManager: contextManager,
		validate:       validate,
		options:        options,
		logger:         logger,
	}
}

// Register builds the handler tree with the shared middleware stack.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)
	system := handler.NewSystem(r.db, r.logger)

	mux := chi.NewRouter()
	mux.Use(
		chimw.RequestID,
		chimw.RealIP,
		logging.Handle,
		r.metrics.Middleware,
		chimw.Recoverer,
		r.secureHeaders().Handler,
		cors.Handler(cors.Options{
			AllowedOrigins: r.options.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: r.options.AllowedHeaders,
			ExposedHeaders: []string{"Location", "Retry-After"},
			MaxAge:         300,
		}),
	)
	if r.options.RequestTimeout > 0 {
		mux.Use(chimw.Timeout(r.options.RequestTimeout))
	}
	if r.options.RateLimit > 0 {
		mux.Use(rateLimit(r.options.RateLimit, apierrors.NewErrRateLimited))
	}

	mux.NotFound(handler.NotFound)
	mux.MethodNotAllowed(handler.MethodNotAllowed)

	mux.Get("/healthz", system.Health)
	mux.Method(http.MethodGet, "/metrics", r.metrics.Handler())

	mux.Route(APIPrefix, func(api chi.Router) {
		api.Get("/", system.Index)

		api.Route("/auth", func(auth chi.Router) {
			if r.options.AuthRateLimit > 0 {
				auth.Use(rateLimit(r.options.AuthRateLimit, apierrors.NewErrTooManyAttempts))
			}
			authHandler := handler.NewAuth(r.authService, r.validate, r.logger)
			auth.Post("/register", authHandler.Register)
			auth.Post("/login", authHandler.Login)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(authenticate.Handle)
			mountResource(protected, "/inventory",
				handler.NewResource(r.resources.Inventory, r.contextManager, model.InventoryKind, r.logger))
			mountResource(protected, "/relationships",
				handler.NewResource(r.resources.Relationships, r.contextManager, model.RelationshipKind, r.logger))
			mountResource(protected, "/purchases",
				handler.NewResource(r.resources.Purchases, r.contextManager, model.PurchaseKind, r.logger))
			mountResource(protected, "/sales",
				handler.NewResource(r.resources.Sales, r.contextManager, model.SaleKind, r.logger))
			mountResource(protected, "/miscellaneous",
				handler.NewResource(r.resources.Miscellaneous, r.contextManager, model.MiscellaneousKind, r.logger))
		})
	})

	return mux
}

func mountResource[P any](r chi.Router, pattern string, h *handler.Resource[P]) {
	r.Route(pattern, func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (r *Router) secureHeaders() *secure.Secure {
	return secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		STSSeconds:            31536000,
		SSLRedirect:           r.options.EnableHTTPS,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})
}

func rateLimit(perMinute int, limited func() *apierrors.APIError) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			respond.Error(w, limited())
		}),
	)
}
