package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kbukum/scribe/component"
)

// Summary collects what a service brought up so it can be printed once
// startup finishes.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	infrastructure  []component.Description
	routes          []component.Route
}

// NewSummary creates an empty summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackRoute records an HTTP route that no component reports on its own.
func (s *Summary) TrackRoute(method, path, handler string) {
	s.routes = append(s.routes, component.Route{Method: method, Path: path, Handler: handler})
}

// Collect pulls descriptions and routes from the registry.
func (s *Summary) Collect(registry *component.Registry) {
	if registry == nil {
		return
	}
	s.infrastructure = registry.Describe()
	for _, name := range registry.Names() {
		if rp, ok := registry.Get(name).(component.RouteProvider); ok {
			s.routes = append(s.routes, rp.Routes()...)
		}
	}
}

// Routes returns the collected routes.
func (s *Summary) Routes() []component.Route { return s.routes }

// Write prints the summary with live health from registry.
func (s *Summary) Write(ctx context.Context, w io.Writer, registry *component.Registry) {
	fmt.Fprintf(w, "\n%s %s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	if len(s.infrastructure) > 0 {
		fmt.Fprintf(w, "\nInfrastructure\n")
		for i, d := range s.infrastructure {
			details := d.Details
			if d.Port > 0 {
				details = fmt.Sprintf("%s (:%d)", details, d.Port)
			}
			fmt.Fprintf(w, "   %s %s [%s]: %s\n", branch(i, len(s.infrastructure)), d.Name, d.Type, details)
		}
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(w, "\nRoutes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			fmt.Fprintf(w, "   %s %-7s %s -> %s\n", branch(i, len(s.routes)), r.Method, r.Path, r.Handler)
		}
	}

	if registry != nil {
		healths := registry.HealthAll(ctx)
		if len(healths) > 0 {
			fmt.Fprintf(w, "\nHealth (%s)\n", component.Overall(healths))
			for i, h := range healths {
				msg := ""
				if h.Message != "" {
					msg = ": " + h.Message
				}
				fmt.Fprintf(w, "   %s %s %s%s\n", branch(i, len(healths)), h.Name, h.Status, msg)
			}
		}
	}
	fmt.Fprintln(w)
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}
