package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/staffcircle/backend/errs"
	"github.com/staffcircle/backend/services"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	accounts  *services.AccountService
}

func newAuthHandler(accounts *services.AccountService) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		accounts:  accounts,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type barcodeLoginRequest struct {
	Barcode string `json:"barcode"`
}

type loginResponse struct {
	Status string            `json:"status"`
	Token  string            `json:"token"`
	User   loginResponseUser `json:"user"`
}

type loginResponseUser struct {
	ID                   string   `json:"id"`
	Username             string   `json:"username"`
	DisplayName          string   `json:"displayName"`
	StoreCode            *string  `json:"storeCode,omitempty"`
	InterestedCategories []string `json:"interestedCategories"`
}

func makeLoginResponse(result *services.LoginResult) loginResponse {
	categories := []string{}
	if len(result.User.InterestedCategories) > 0 {
		// Stored as a JSON array; a corrupt value degrades to an empty list.
		if err := json.Unmarshal(result.User.InterestedCategories, &categories); err != nil {
			categories = []string{}
		}
	}

	return loginResponse{
		Status: "success",
		Token:  result.Token,
		User: loginResponseUser{
			ID:                   result.User.ID.String(),
			Username:             result.User.Username,
			DisplayName:          result.User.DisplayName,
			StoreCode:            result.User.StoreCode,
			InterestedCategories: categories,
		},
	}
}

// login authenticates a username/password pair locally or against the
// corporate identity API.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.Malformed("login"))
			return
		}

		result, err := h.accounts.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, makeLoginResponse(result))
	}
}

// barcodeLogin signs in an employee from a scanned badge barcode.
func (h authHandler) barcodeLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req barcodeLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.Malformed("barcode login"))
			return
		}

		result, err := h.accounts.BarcodeLogin(r.Context(), req.Barcode)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, makeLoginResponse(result))
	}
}
