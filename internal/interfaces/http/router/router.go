package router

import (
	"net/http"
	"path"

	"github.com/erp/lobapi/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts domain groups under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithMiddleware applies middleware to every versioned route
func WithMiddleware(mw ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.middleware = append(r.middleware, mw...)
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be registered by Setup
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// RegisterDomains adds domain groups to be registered by Setup
func (r *Router) RegisterDomains(groups ...*DomainGroup) *Router {
	for _, g := range groups {
		r.registrars = append(r.registrars, g)
	}
	return r
}

// Setup registers all routes and returns the versioned group
func (r *Router) Setup() *gin.RouterGroup {
	api := r.engine.Group("/api/" + r.apiVersion)
	if len(r.middleware) > 0 {
		api.Use(r.middleware...)
	}
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return api
}

// RouteInfo describes one registered route
type RouteInfo struct {
	Method     string
	Path       string
	Permission string
}

// DomainGroup collects the routes of one bounded context. Routes added
// through Action are gated by "<resource>:<action>".
type DomainGroup struct {
	name       string
	prefix     string
	resource   string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method     string
	path       string
	permission string
	handlers   []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Resource sets the permission resource for routes added through Action
func (dg *DomainGroup) Resource(resource string) *DomainGroup {
	dg.resource = resource
	return dg
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Action registers a route requiring "<resource>:<action>"
func (dg *DomainGroup) Action(method, path, action string, handlers ...gin.HandlerFunc) *DomainGroup {
	permission := ""
	if dg.resource != "" && action != "" {
		permission = dg.resource + ":" + action
	}
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, permission: permission, handlers: handlers})
	return dg
}

// CRUD registers the standard resource routes: POST "", POST /search,
// GET /:id, PUT /:id and DELETE /:id. Nil handlers are skipped.
func (dg *DomainGroup) CRUD(create, search, get, update, remove gin.HandlerFunc) *DomainGroup {
	for _, r := range []struct {
		method, path, action string
		h                    gin.HandlerFunc
	}{
		{http.MethodPost, "", "create", create},
		{http.MethodPost, "/search", "read", search},
		{http.MethodGet, "/:id", "read", get},
		{http.MethodPut, "/:id", "update", update},
		{http.MethodDelete, "/:id", "delete", remove},
	} {
		if r.h != nil {
			dg.Action(r.method, r.path, r.action, r.h)
		}
	}
	return dg
}

// GET registers an ungated GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Action(http.MethodGet, path, "", handlers...)
}

// POST registers an ungated POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Action(http.MethodPost, path, "", handlers...)
}

// PUT registers an ungated PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Action(http.MethodPut, path, "", handlers...)
}

// PATCH registers an ungated PATCH route
func (dg *DomainGroup) PATCH(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Action(http.MethodPatch, path, "", handlers...)
}

// DELETE registers an ungated DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Action(http.MethodDelete, path, "", handlers...)
}

// Group creates a sub-group. The sub-group inherits the parent's resource
// until it sets its own.
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	subgroup.resource = dg.resource
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}

	for _, route := range dg.routes {
		handlers := route.handlers
		if route.permission != "" {
			handlers = append([]gin.HandlerFunc{middleware.RequirePermission(route.permission)}, handlers...)
		}
		group.Handle(route.method, route.path, handlers...)
	}

	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Routes lists the group's routes, including sub-groups, relative to base
func (dg *DomainGroup) Routes(base string) []RouteInfo {
	prefix := joinPath(base, dg.prefix)
	infos := make([]RouteInfo, 0, len(dg.routes))
	for _, route := range dg.routes {
		infos = append(infos, RouteInfo{
			Method:     route.method,
			Path:       joinPath(prefix, route.path),
			Permission: route.permission,
		})
	}
	for _, subgroup := range dg.subgroups {
		infos = append(infos, subgroup.Routes(prefix)...)
	}
	return infos
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

func joinPath(base, rel string) string {
	if rel == "" {
		return base
	}
	return path.Join(base, rel)
}
