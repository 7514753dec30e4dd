package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/marketloft/storefront/internal/storefront/service"
	"github.com/marketloft/storefront/internal/storefront/store"
	"github.com/marketloft/storefront/pkg/httpx"
	"github.com/marketloft/storefront/pkg/jwtx"
	"github.com/marketloft/storefront/pkg/slogx"

	_ "github.com/marketloft/storefront/api/storefront" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     *jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	SessionService *service.SessionService
	UserService    *service.UserService
	CatalogService *service.CatalogService
	CartService    *service.CartService
	OrderService   *service.OrderService
}

func NewRouter(
	verifier *jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
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
	r.registerUsers()
	r.registerTokens()
	r.registerProducts()
	r.registerCarts()
	r.registerOrders()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			MarketLoft Storefront API
//	@version		0.1.0
//	@description	E-commerce storefront backend: accounts, catalog, carts and cash-on-delivery
//	@description	orders, authenticated with HS256 access/refresh token pairs.
//
//	@contact.name				MarketLoft Team
//	@contact.url				https://github.com/marketloft/storefront
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
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	// Login-shaped endpoints get the strict limit to slow brute force.
	r.Mux.Handle("POST /api/user/register",
		httpx.Chain(&RegisterHandler{Users: r.UserService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
	r.Mux.Handle("POST /api/user/login",
		httpx.Chain(&LoginHandler{Users: r.UserService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
	r.Mux.Handle("POST /api/user/admin",
		httpx.Chain(&AdminLoginHandler{Users: r.UserService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		))
}

func (r *Router) registerTokens() {
	refresh := &RefreshHandler{Sessions: r.SessionService}

	r.Mux.Handle("POST /api/token/refresh",
		httpx.Chain(refresh,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))

	// Route kept for older clients.
	r.Mux.Handle("POST /api/user/refresh-token",
		httpx.Chain(refresh,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		))
}

func (r *Router) registerProducts() {
	r.Mux.Handle("GET /api/product/list",
		httpx.Chain(&ProductListHandler{Catalog: r.CatalogService},
			httpx.RateLimitByIP(httpx.PublicLimit),
		))
	r.Mux.Handle("GET /api/product/{id}",
		httpx.Chain(&ProductGetHandler{Catalog: r.CatalogService},
			httpx.RateLimitByIP(httpx.PublicLimit),
		))

	r.Mux.Handle("POST /api/product/add",
		httpx.Chain(&ProductAddHandler{Catalog: r.CatalogService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAdmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))
	r.Mux.Handle("DELETE /api/product/{id}",
		httpx.Chain(&ProductDeleteHandler{Catalog: r.CatalogService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAdmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))
}

func (r *Router) registerCarts() {
	r.Mux.Handle("GET /api/cart",
		httpx.Chain(&CartGetHandler{Carts: r.CartService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		))
	r.Mux.Handle("POST /api/cart/add",
		httpx.Chain(&CartAddHandler{Carts: r.CartService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		))
	r.Mux.Handle("POST /api/cart/update",
		httpx.Chain(&CartUpdateHandler{Carts: r.CartService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		))
}

func (r *Router) registerOrders() {
	r.Mux.Handle("POST /api/order/place",
		httpx.Chain(&OrderPlaceHandler{Orders: r.OrderService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))
	r.Mux.Handle("GET /api/order/user",
		httpx.Chain(&OrderListMineHandler{Orders: r.OrderService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		))

	r.Mux.Handle("GET /api/order/list",
		httpx.Chain(&OrderListAllHandler{Orders: r.OrderService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAdmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))
	r.Mux.Handle("POST /api/order/status",
		httpx.Chain(&OrderStatusHandler{Orders: r.OrderService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAdmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
