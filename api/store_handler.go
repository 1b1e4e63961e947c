package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/staffcircle/backend/database"
)

type storeHandler struct {
	responder Responder
	logger    zerolog.Logger
	storeRepo *database.StoreRepo
}

func newStoreHandler(storeRepo *database.StoreRepo) storeHandler {
	logger := log.With().Str("handlerName", "storeHandler").Logger()

	return storeHandler{
		responder: NewResponder(logger),
		logger:    logger,
		storeRepo: storeRepo,
	}
}

// listStores returns all stores ordered by store code.
func (h storeHandler) listStores() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := h.storeRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "stores", err))
			return
		}

		h.responder.WriteJSON(w, stores)
	}
}
