// Package router assembles the versioned API route tree from per-module
// groups.
package router

import (
	"net/http"
	"path"
	"sort"

	"github.com/gin-gonic/gin"
)

// Config describes the versioned API mount point
type Config struct {
	// Version is the path segment after /api; v1 when empty
	Version string
	// Middleware runs on every API route, after the engine middleware
	Middleware []gin.HandlerFunc
}

// BasePath returns the prefix every group is mounted under
func (c Config) BasePath() string {
	if c.Version == "" {
		return "/api/v1"
	}
	return "/api/" + c.Version
}

// Mount registers groups on engine under cfg.BasePath() and returns the API
// group so callers can attach routes outside the module groups.
func Mount(engine *gin.Engine, cfg Config, groups ...*DomainGroup) *gin.RouterGroup {
	api := engine.Group(cfg.BasePath(), cfg.Middleware...)
	for _, g := range groups {
		g.mount(api)
	}
	return api
}

// Route is one method and path relative to the API base path
type Route struct {
	Method string
	Path   string
}

func (r Route) String() string { return r.Method + " " + r.Path }

// DomainGroup collects the routes of one business module under a prefix.
// Methods return the group so routes can be chained.
type DomainGroup struct {
	module     string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []groupRoute
	children   []*DomainGroup
}

type groupRoute struct {
	Route
	handlers []gin.HandlerFunc
}

// NewDomainGroup starts a group for module mounted at prefix
func NewDomainGroup(module, prefix string) *DomainGroup {
	return &DomainGroup{module: module, prefix: prefix}
}

// Module names the business module the group serves
func (g *DomainGroup) Module() string { return g.module }

// Use adds middleware run before every handler of the group and its
// subgroups.
func (g *DomainGroup) Use(mw ...gin.HandlerFunc) *DomainGroup {
	g.middleware = append(g.middleware, mw...)
	return g
}

func (g *DomainGroup) handle(method, relative string, handlers []gin.HandlerFunc) *DomainGroup {
	g.routes = append(g.routes, groupRoute{Route: Route{Method: method, Path: relative}, handlers: handlers})
	return g
}

func (g *DomainGroup) GET(relative string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.handle(http.MethodGet, relative, handlers)
}

func (g *DomainGroup) POST(relative string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.handle(http.MethodPost, relative, handlers)
}

func (g *DomainGroup) PUT(relative string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.handle(http.MethodPut, relative, handlers)
}

func (g *DomainGroup) DELETE(relative string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.handle(http.MethodDelete, relative, handlers)
}

// Group adds a nested group under this group's prefix and returns it
func (g *DomainGroup) Group(module, prefix string) *DomainGroup {
	child := NewDomainGroup(module, prefix)
	g.children = append(g.children, child)
	return child
}

func (g *DomainGroup) mount(parent *gin.RouterGroup) {
	rg := parent.Group(g.prefix, g.middleware...)
	for _, r := range g.routes {
		rg.Handle(r.Method, r.Path, r.handlers...)
	}
	for _, child := range g.children {
		child.mount(rg)
	}
}

// Routes lists the group's routes with full paths relative to the API base,
// sorted by path then method.
func (g *DomainGroup) Routes() []Route {
	var out []Route
	g.collect("/", &out)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func (g *DomainGroup) collect(base string, out *[]Route) {
	base = path.Join(base, g.prefix)
	for _, r := range g.routes {
		p := base
		if r.Path != "" {
			p = path.Join(base, r.Path)
		}
		*out = append(*out, Route{Method: r.Method, Path: p})
	}
	for _, child := range g.children {
		child.collect(base, out)
	}
}
