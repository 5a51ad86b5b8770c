package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// groupRegistration mounts a set of registrars under a shared prefix
type groupRegistration struct {
	prefix     string
	registrars []RouteRegistrar
}

// Router manages HTTP route registration under a versioned API prefix
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	groups     []groupRegistration
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		groups:     make([]groupRegistration, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Use adds middleware that applies to every route registered through
// this router. Routes added directly on the engine are not affected.
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register mounts registrars at the API root (e.g. /api/v1)
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	return r.RegisterGroup("", registrars...)
}

// RegisterGroup mounts registrars under an additional prefix
// below the API root (e.g. /api/v1/treasury)
func (r *Router) RegisterGroup(prefix string, registrars ...RouteRegistrar) *Router {
	r.groups = append(r.groups, groupRegistration{prefix: prefix, registrars: registrars})
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	if len(r.middleware) > 0 {
		api.Use(r.middleware...)
	}

	for _, g := range r.groups {
		rg := api
		if g.prefix != "" {
			rg = api.Group(g.prefix)
		}
		for _, registrar := range g.registrars {
			registrar.RegisterRoutes(rg)
		}
	}
}
