package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/staffcircle/backend/database"
	"github.com/staffcircle/backend/errs"
	"github.com/staffcircle/backend/models"
)

type followHandler struct {
	responder  Responder
	logger     zerolog.Logger
	followRepo *database.FollowRepo
}

func newFollowHandler(followRepo *database.FollowRepo) followHandler {
	logger := log.With().Str("handlerName", "followHandler").Logger()

	return followHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		followRepo: followRepo,
	}
}

// follow makes the caller follow the target user. Following yourself is
// rejected; following twice is a conflict.
func (h followHandler) follow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := viewerID(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		targetID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid userID"))
			return
		}
		if targetID == viewer {
			h.responder.WriteError(w, errs.NewBadRequestError("cannot follow yourself"))
			return
		}

		follow := models.Follow{
			FollowerID:  viewer,
			FollowingID: targetID,
		}
		if err := h.followRepo.Add(r.Context(), &follow); err != nil {
			switch {
			case errs.IsDuplicateKey(err):
				h.responder.WriteError(w, errs.NewAlreadyExists("follow"))
			case errs.IsForeignKeyViolation(err):
				h.responder.WriteError(w, errs.NewNotFound("user"))
			default:
				h.responder.WriteError(w, wrapDatabaseError("create", "follow", err))
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "now following",
		})
	}
}

// unfollow removes the caller's follow edge to the target user.
func (h followHandler) unfollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := viewerID(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		targetID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid userID"))
			return
		}

		deleted, err := h.followRepo.Delete(r.Context(), viewer, targetID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "follow", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFound("follow"))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "unfollowed",
		})
	}
}
