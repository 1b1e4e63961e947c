package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/staffcircle/backend/errs"
	"github.com/staffcircle/backend/services"
)

type reactionHandler struct {
	responder Responder
	logger    zerolog.Logger
	reactions *services.ReactionService
}

func newReactionHandler(reactions *services.ReactionService) reactionHandler {
	logger := log.With().Str("handlerName", "reactionHandler").Logger()

	return reactionHandler{
		responder: NewResponder(logger),
		logger:    logger,
		reactions: reactions,
	}
}

type toggleReactionRequest struct {
	Type string `json:"type"`
}

// toggleReaction flips the caller's reaction of the requested kind on a post
// and reports whether it was added or removed.
func (h reactionHandler) toggleReaction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := viewerID(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		postID, err := uuid.Parse(chi.URLParam(r, "postID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid postID"))
			return
		}

		var req toggleReactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.Malformed("reaction"))
			return
		}

		result, err := h.reactions.Toggle(r.Context(), postID, viewer, req.Type)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, result)
	}
}
