// Package server exposes the service layer as a thin JSON HTTP API.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mtunzisteven/foodStorageManager/internal/auth"
	"github.com/mtunzisteven/foodStorageManager/internal/middleware"
	"github.com/mtunzisteven/foodStorageManager/internal/service"
)

// Server holds the handlers' dependencies.
type Server struct {
	users  *service.UserService
	pantry *service.PantryService
	jwt    *auth.JWTManager
}

// New creates a Server.
func New(users *service.UserService, pantry *service.PantryService, jwt *auth.JWTManager) *Server {
	return &Server{
		users:  users,
		pantry: pantry,
		jwt:    jwt,
	}
}

// Routes builds the request mux. Signup and login are public; everything else
// requires a bearer token.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	public := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.Metrics(pattern, h))
	}
	private := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.Metrics(pattern, middleware.RequireAuth(s.jwt, h)))
	}

	public("POST /auth/signup", s.handleSignup)
	public("POST /auth/login", s.handleLogin)

	private("PATCH /user/update", s.handleUpdateUser)
	private("GET /pantry", s.handleGetPantry)
	private("GET /pantry/products", s.handleListProducts)
	private("POST /pantry/products", s.handleCreateProduct)
	private("GET /pantry/products/{id}", s.handleGetProduct)
	private("PUT /pantry/products/{id}", s.handleUpdateProduct)
	private("DELETE /pantry/products/{id}", s.handleDeleteProduct)

	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
