package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/staffcircle/backend/models"
	"github.com/staffcircle/backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryReactionStore struct {
	rows map[uuid.UUID]*models.Reaction
}

func (f *memoryReactionStore) FindByOwner(_ context.Context, postID, userID uuid.UUID, kind string) (*models.Reaction, error) {
	for _, r := range f.rows {
		if r.PostID == postID && r.UserID == userID && r.Kind == kind {
			return r, nil
		}
	}
	return nil, nil
}

func (f *memoryReactionStore) Add(_ context.Context, reaction *models.Reaction) error {
	reaction.ID = uuid.New()
	f.rows[reaction.ID] = reaction
	return nil
}

func (f *memoryReactionStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func newReactionTestRouter(issuer *services.TokenIssuer) *chi.Mux {
	handler := newReactionHandler(services.NewReactionService(&memoryReactionStore{rows: map[uuid.UUID]*models.Reaction{}}))
	middleware := newAuthMiddleware(issuer)

	r := chi.NewRouter()
	r.With(middleware.authenticate).Post("/posts/{postID}/reactions", handler.toggleReaction())
	return r
}

func TestToggleReactionEndpoint(t *testing.T) {
	issuer := services.NewTokenIssuer("test-secret")
	router := newReactionTestRouter(issuer)

	token, err := issuer.Issue(&models.User{ID: uuid.New(), Username: "hanako"})
	require.NoError(t, err)

	postID := uuid.New()
	do := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/posts/"+postID.String()+"/reactions", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := do(`{"type":"like"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var result services.ToggleResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, services.ToggleAdded, result.Action)

	rec = do(`{"type":"like"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, services.ToggleRemoved, result.Action)

	rec = do(`{"type":"applaud"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleReactionRequiresToken(t *testing.T) {
	router := newReactionTestRouter(services.NewTokenIssuer("test-secret"))

	req := httptest.NewRequest(http.MethodPost, "/posts/"+uuid.NewString()+"/reactions", strings.NewReader(`{"type":"like"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToggleReactionRejectsForeignSignature(t *testing.T) {
	router := newReactionTestRouter(services.NewTokenIssuer("test-secret"))

	foreign, err := services.NewTokenIssuer("other-secret").Issue(&models.User{ID: uuid.New(), Username: "mallory"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/posts/"+uuid.NewString()+"/reactions", strings.NewReader(`{"type":"like"}`))
	req.Header.Set("Authorization", "Bearer "+foreign)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
