package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/staffcircle/backend/database"
	"github.com/staffcircle/backend/errs"
	"github.com/staffcircle/backend/services"
)

type userHandler struct {
	responder  Responder
	logger     zerolog.Logger
	userRepo   *database.UserRepo
	postRepo   *database.PostRepo
	followRepo *database.FollowRepo
}

func newUserHandler(userRepo *database.UserRepo, postRepo *database.PostRepo, followRepo *database.FollowRepo) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		userRepo:   userRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
	}
}

// ProfileView is the fixed response shape for a user profile page.
type ProfileView struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	DisplayName     string    `json:"displayName"`
	DisplayLabel    string    `json:"displayLabel"`
	StoreCode       *string   `json:"storeCode,omitempty"`
	ProfileImageURL *string   `json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	PostCount       int64     `json:"postCount"`
	FollowerCount   int64     `json:"followerCount"`
	FollowingCount  int64     `json:"followingCount"`
	IsMe            bool      `json:"isMe"`
	IsFollowing     bool      `json:"isFollowing"`
}

// getProfile returns a user's profile with follow state and their latest posts.
func (h userHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := optionalViewer(r)
		username := chi.URLParam(r, "username")

		user, err := h.userRepo.FindByUsername(r.Context(), username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFound("user"))
			return
		}

		postCount, err := h.userRepo.CountPosts(r.Context(), user.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "posts", err))
			return
		}
		followerCount, err := h.followRepo.CountFollowers(r.Context(), user.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "followers", err))
			return
		}
		followingCount, err := h.followRepo.CountFollowing(r.Context(), user.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "following", err))
			return
		}

		isFollowing := false
		if viewer != nil && *viewer != user.ID {
			isFollowing, err = h.followRepo.Exists(r.Context(), *viewer, user.ID)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find", "follow state", err))
				return
			}
		}

		posts, err := h.postRepo.FindByAuthor(r.Context(), user.ID, database.DefaultFeedLimit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "posts", err))
			return
		}

		profile := ProfileView{
			ID:              user.ID,
			Username:        user.Username,
			DisplayName:     user.DisplayName,
			DisplayLabel:    services.DisplayLabel(*user),
			StoreCode:       user.StoreCode,
			ProfileImageURL: user.ProfileImageURL,
			CreatedAt:       user.CreatedAt,
			PostCount:       postCount,
			FollowerCount:   followerCount,
			FollowingCount:  followingCount,
			IsMe:            viewer != nil && *viewer == user.ID,
			IsFollowing:     isFollowing,
		}

		h.responder.WriteJSON(w, map[string]any{
			"user":  profile,
			"posts": makePostViews(posts, viewer),
		})
	}
}

// listFollowing returns the users someone follows.
func (h userHandler) listFollowing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		user, err := h.userRepo.FindByUsername(r.Context(), username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFound("user"))
			return
		}

		following, err := h.followRepo.FindFollowing(r.Context(), user.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "follow list", err))
			return
		}

		views := make([]PostAuthorView, 0, len(following))
		for _, followed := range following {
			views = append(views, PostAuthorView{
				ID:              followed.ID,
				Username:        followed.Username,
				DisplayName:     followed.DisplayName,
				ProfileImageURL: followed.ProfileImageURL,
				StoreCode:       followed.StoreCode,
			})
		}

		h.responder.WriteJSON(w, views)
	}
}

type updateProfileRequest struct {
	DisplayName          *string  `json:"displayName,omitempty"`
	ProfileImageURL      *string  `json:"profileImageUrl,omitempty"`
	StoreCode            *string  `json:"storeCode,omitempty"`
	InterestedCategories []string `json:"interestedCategories,omitempty"`
}

// updateProfile edits the authenticated user's own profile.
func (h userHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := viewerID(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var req updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.Malformed("profile"))
			return
		}

		user, err := h.userRepo.FindByID(r.Context(), viewer)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFound("user"))
			return
		}

		if req.DisplayName != nil && *req.DisplayName != "" {
			user.DisplayName = *req.DisplayName
		}
		if req.ProfileImageURL != nil {
			user.ProfileImageURL = req.ProfileImageURL
		}
		if req.StoreCode != nil && *req.StoreCode != "" {
			user.StoreCode = req.StoreCode
		}
		if req.InterestedCategories != nil {
			raw, err := json.Marshal(req.InterestedCategories)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("interestedCategories", "not serializable"))
				return
			}
			user.InterestedCategories = raw
		}

		if err := h.userRepo.Update(r.Context(), user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "user", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"status": "success",
			"user":   user,
		})
	}
}
