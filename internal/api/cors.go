package api

import (
	"net/http"
	"slices"
	"strings"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Headers":  "Authorization, Content-Type",
	"Access-Control-Allow-Methods":  "GET, POST, OPTIONS",
	"Access-Control-Expose-Headers": strings.Join([]string{TokenHeader, ExpiresHeader}, ", "),
}

// originAllowed reports whether origin may call the API. "*" allows all.
func (s *Server) originAllowed(origin string) bool {
	return origin != "" && slices.ContainsFunc(s.config.CORSAllowedOrigins, func(o string) bool {
		return o == "*" || o == origin
	})
}

// CORSMiddleware answers preflights and tags responses for allowed origins.
// Requests from other origins pass through untouched.
func (s *Server) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if !s.originAllowed(origin) {
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
		for k, v := range corsHeaders {
			h.Set(k, v)
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
