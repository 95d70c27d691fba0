package server

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kbukum/scribe/component"
)

const componentName = "http-server"

var (
	_ component.Component     = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ component.RouteProvider = (*Component)(nil)
)

// Component runs a Server under the component registry.
type Component struct {
	server *Server
}

// NewComponent wraps s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

func (c *Component) Name() string { return componentName }

func (c *Component) Start(ctx context.Context) error { return c.server.Start(ctx) }

func (c *Component) Stop(ctx context.Context) error { return c.server.Stop(ctx) }

func (c *Component) Health(_ context.Context) component.Health {
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	cfg := c.server.config
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: fmt.Sprintf("%s:%d h2c", cfg.Host, cfg.Port),
		Port:    cfg.Port,
	}
}

// systemPaths are listed after the API routes.
var systemPaths = map[string]bool{"/health": true, "/ready": true, "/version": true}

// Routes lists registered routes, API routes first.
func (c *Component) Routes() []component.Route {
	rs := c.server.engine.Routes()
	sort.Slice(rs, func(i, j int) bool {
		iSys, jSys := systemPaths[rs[i].Path], systemPaths[rs[j].Path]
		if iSys != jSys {
			return !iSys
		}
		if rs[i].Path != rs[j].Path {
			return rs[i].Path < rs[j].Path
		}
		return methodOrder(rs[i].Method) < methodOrder(rs[j].Method)
	})

	out := make([]component.Route, 0, len(rs))
	for _, r := range rs {
		out = append(out, component.Route{Method: r.Method, Path: r.Path, Handler: handlerName(r.Handler)})
	}
	return out
}

// handlerName shortens "github.com/x/api.(*Handler).List-fm" to "Handler.List".
func handlerName(full string) string {
	name := strings.TrimSuffix(full, "-fm")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)
	if _, rest, ok := strings.Cut(name, "."); ok {
		name = rest
	}
	if i := strings.Index(name, ".func"); i >= 0 {
		name = name[:i]
	}
	return name
}

func methodOrder(method string) int {
	switch method {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "DELETE":
		return 3
	default:
		return 4
	}
}
