package handler

import (
	"fmt"
	"net/http"
)

// Routing selects how contact operations are addressed.
type Routing string

const (
	// RoutingPath addresses messages by path parameter:
	// GET /api/contact/{id}, POST /api/contact/{id}/reply.
	RoutingPath Routing = "path"
	// RoutingQuery addresses messages by query string on a single endpoint:
	// GET /api/contact?id=..., POST /api/contact?id=...&reply=1.
	RoutingQuery Routing = "query"
)

// ParseRouting validates a routing strategy name.
func ParseRouting(s string) (Routing, error) {
	switch Routing(s) {
	case RoutingPath, RoutingQuery:
		return Routing(s), nil
	}
	return "", fmt.Errorf("unknown routing %q: must be %q or %q", s, RoutingPath, RoutingQuery)
}

const contactBasePath = "/api/contact"

// Register mounts the contact API on mux. Submit is public; list, get and reply
// are wrapped with admin, which enforces the operator capability.
func (h *ContactHandler) Register(mux *http.ServeMux, routing Routing, admin func(http.Handler) http.Handler) {
	if admin == nil {
		admin = func(next http.Handler) http.Handler { return next }
	}

	if routing == RoutingQuery {
		mux.Handle(contactBasePath, h.queryDispatcher(admin))
		return
	}

	mux.HandleFunc("POST "+contactBasePath, h.Submit)
	mux.Handle("GET "+contactBasePath, admin(http.HandlerFunc(h.List)))
	mux.Handle("GET "+contactBasePath+"/{id}", admin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Get(w, r, r.PathValue("id"))
	})))
	mux.Handle("POST "+contactBasePath+"/{id}/reply", admin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Reply(w, r, r.PathValue("id"))
	})))

	// Method-less patterns catch every other verb so 405s carry a JSON body.
	mux.Handle(contactBasePath, methodNotAllowed("GET, POST"))
	mux.Handle(contactBasePath+"/{id}", methodNotAllowed("GET"))
	mux.Handle(contactBasePath+"/{id}/reply", methodNotAllowed("POST"))
}

// queryDispatcher serves every operation from one endpoint, choosing by verb
// and the presence of the id query parameter.
func (h *ContactHandler) queryDispatcher(admin func(http.Handler) http.Handler) http.Handler {
	list := admin(http.HandlerFunc(h.List))
	get := admin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Get(w, r, r.URL.Query().Get("id"))
	}))
	reply := admin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Reply(w, r, r.URL.Query().Get("id"))
	}))
	notAllowed := methodNotAllowed("GET, POST")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasID := r.URL.Query().Get("id") != ""
		switch {
		case r.Method == http.MethodGet && !hasID:
			list.ServeHTTP(w, r)
		case r.Method == http.MethodGet:
			get.ServeHTTP(w, r)
		case r.Method == http.MethodPost && !hasID:
			h.Submit(w, r)
		case r.Method == http.MethodPost:
			reply.ServeHTTP(w, r)
		default:
			notAllowed(w, r)
		}
	})
}
