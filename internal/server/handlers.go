package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mtunzisteven/foodStorageManager/internal/middleware"
	"github.com/mtunzisteven/foodStorageManager/internal/service"
)

type signupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FamilySize int    `json:"familySize"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", service.ErrValidation))
		return
	}

	user, err := s.users.CreateUser(r.Context(), service.SignupInput{
		Email:      req.Email,
		Password:   req.Password,
		FamilySize: req.FamilySize,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "user created",
		"user":    toUserJSON(user),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", service.ErrValidation))
		return
	}

	user, token, err := s.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserJSON(user),
	})
}

type updateUserRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FamilySize int    `json:"familySize"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", service.ErrValidation))
		return
	}

	user, err := s.users.UpdateUser(r.Context(), middleware.GetUserID(r.Context()), service.UpdateUserInput{
		Email:      req.Email,
		Password:   req.Password,
		FamilySize: req.FamilySize,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "user updated",
		"user":    toUserJSON(user),
	})
}

type productRequest struct {
	Name       string `json:"name"`
	Servings   string `json:"servings"`
	ExpiryDate int64  `json:"expiryDate"`
}

func (p productRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:       p.Name,
		Servings:   p.Servings,
		ExpiryDate: p.ExpiryDate,
	}
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", service.ErrValidation))
		return
	}

	product, err := s.pantry.CreateProduct(r.Context(), middleware.GetUserID(r.Context()), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "product created",
		"product": toProductJSON(product),
	})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	product, err := s.pantry.GetProduct(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"product": toProductJSON(product)})
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", service.ErrValidation))
		return
	}

	product, err := s.pantry.UpdateProduct(r.Context(), middleware.GetUserID(r.Context()), id, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "product updated",
		"product": toProductJSON(product),
	})
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.pantry.DeleteProduct(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": "product deleted"})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, fmt.Errorf("%w: page must be a positive integer", service.ErrValidation))
			return
		}
		page = parsed
	}

	products, total, err := s.pantry.ListProducts(r.Context(), middleware.GetUserID(r.Context()), page)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]productJSON, len(products))
	for i := range products {
		out[i] = toProductJSON(&products[i])
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"products": out,
		"total":    total,
		"page":     page,
	})
}

func (s *Server) handleGetPantry(w http.ResponseWriter, r *http.Request) {
	items, err := s.pantry.GetPantry(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	type itemJSON struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	out := make([]itemJSON, len(items))
	for i, item := range items {
		out[i] = itemJSON{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: product id must be an integer", service.ErrValidation)
	}
	return id, nil
}
