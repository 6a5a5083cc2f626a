package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fourpaws/petstore/internal/petstore/service"
	"github.com/fourpaws/petstore/internal/petstore/store"
	"github.com/fourpaws/petstore/pkg/httpx"
	"github.com/fourpaws/petstore/pkg/jwtx"
	"github.com/fourpaws/petstore/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	TokenService *service.TokenService
	PetService   *service.PetService
	OrderService *service.OrderService
	UserService  *service.UserService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
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
	r.registerOAuth2()
	r.registerPets()
	r.registerStore()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOAuth2() {
	// POST /oauth/token - strict rate limit by IP + username to slow down
	// credential stuffing without locking out a whole NAT.
	tokenHandler := &TokenHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /oauth/token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)
}

func (r *Router) registerPets() {
	h := &PetsHandler{PetService: r.PetService}

	read := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("read"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}
	write := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /pet", write(h.HandleCreate))
	r.Mux.Handle("PUT /pet", write(h.HandleUpdate))
	r.Mux.Handle("GET /pet/findByStatus", read(h.HandleFindByStatus))
	r.Mux.Handle("GET /pet/findByTags", read(h.HandleFindByTags))
	r.Mux.Handle("GET /pet/{petId}", read(h.HandleGet))
	r.Mux.Handle("POST /pet/{petId}", write(h.HandleFormUpdate))
	r.Mux.Handle("POST /pet/{petId}/uploadImage", write(h.HandleUpload))
	r.Mux.Handle("DELETE /pet/{petId}", write(h.HandleDelete))
}

func (r *Router) registerStore() {
	orders := &OrdersHandler{OrderService: r.OrderService}
	inventory := &InventoryHandler{PetService: r.PetService}

	securedInventory := httpx.Chain(inventory,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope("read"),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	securedPlace := httpx.Chain(http.HandlerFunc(orders.HandlePlace),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope("write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)
	securedGet := httpx.Chain(http.HandlerFunc(orders.HandleGet),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope("read"),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)
	securedDelete := httpx.Chain(http.HandlerFunc(orders.HandleDelete),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope("write"),
		httpx.RateLimitByUser(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /store/inventory", securedInventory)
	r.Mux.Handle("POST /store/order", securedPlace)
	r.Mux.Handle("GET /store/order/{orderId}", securedGet)
	r.Mux.Handle("DELETE /store/order/{orderId}", securedDelete)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{
		UserService:  r.UserService,
		TokenService: r.TokenService,
	}

	// Registration and login are public but tightly rate limited.
	r.Mux.Handle("POST /user",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	batch := httpx.Chain(http.HandlerFunc(h.HandleCreateBatch),
		httpx.RateLimitByIP(httpx.StrictLimit),
	)
	r.Mux.Handle("POST /user/createWithArray", batch)
	r.Mux.Handle("POST /user/createWithList", batch)
	r.Mux.Handle("GET /user/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Logout revokes tokens when the caller is authenticated, so auth is
	// optional here rather than required.
	r.Mux.Handle("GET /user/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.OptionalAuthn(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	secured := func(fn http.HandlerFunc, scope string) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(scope),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /user/{username}", secured(h.HandleGet, "read"))
	r.Mux.Handle("PUT /user/{username}", secured(h.HandleUpdate, "write"))
	r.Mux.Handle("DELETE /user/{username}", secured(h.HandleDelete, "write"))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
