package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/staffcircle/backend/services"
)

type rankingHandler struct {
	responder Responder
	logger    zerolog.Logger
	ranking   *services.RankingService
}

func newRankingHandler(ranking *services.RankingService) rankingHandler {
	logger := log.With().Str("handlerName", "rankingHandler").Logger()

	return rankingHandler{
		responder: NewResponder(logger),
		logger:    logger,
		ranking:   ranking,
	}
}

// rankPosts returns the top posts for the requested period ("weekly" or
// "monthly"; anything else means weekly).
func (h rankingHandler) rankPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := r.URL.Query().Get("type")

		entries, err := h.ranking.RankPosts(r.Context(), period, optionalViewer(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, entries)
	}
}

// rankStores returns all stores ordered by their members' summed follower counts.
func (h rankingHandler) rankStores() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rankings, err := h.ranking.RankStores(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, rankings)
	}
}

// rankStoreUsers returns one store's members ordered by follower count.
func (h rankingHandler) rankStoreUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "storeCode")

		rankings, err := h.ranking.RankStoreUsers(r.Context(), code)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, rankings)
	}
}
