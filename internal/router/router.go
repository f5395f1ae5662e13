// Package router holds the canonical route table mapping paths to views.
package router

import (
	"errors"
	"strings"

	"story-analyzer/internal/views"
)

// ErrRouteNotFound is returned when no route matches a path
var ErrRouteNotFound = errors.New("route not found")

// Route maps a URL path to a view
type Route struct {
	Path        string
	Name        string
	Description string
	View        views.View
}

// Routes is the one route table
var Routes = []Route{
	{Path: "/", Name: "home", Description: "Story input", View: views.Home},
	{Path: "/story", Name: "story", Description: "Improved story and INVEST summary", View: views.Story},
	{Path: "/agile", Name: "agile", Description: "INVEST breakdown and agile coach review", View: views.Agile},
	{Path: "/tech", Name: "tech", Description: "Senior developer technical review", View: views.Tech},
	{Path: "/estimate", Name: "estimate", Description: "Team day and point estimates", View: views.Estimate},
}

// Resolve finds the route for a path. Trailing slashes and a missing
// leading slash are tolerated.
func Resolve(path string) (Route, error) {
	clean := "/" + strings.Trim(strings.TrimSpace(path), "/")
	for _, r := range Routes {
		if r.Path == clean {
			return r, nil
		}
	}
	return Route{}, ErrRouteNotFound
}

// ByName finds a route by its name
func ByName(name string) (Route, error) {
	for _, r := range Routes {
		if r.Name == name {
			return r, nil
		}
	}
	return Route{}, ErrRouteNotFound
}
