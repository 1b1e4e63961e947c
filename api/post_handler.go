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
	"github.com/staffcircle/backend/models"
	"github.com/staffcircle/backend/services"
)

type postHandler struct {
	responder  Responder
	logger     zerolog.Logger
	postRepo   *database.PostRepo
	tagRepo    *database.TagRepo
	followRepo *database.FollowRepo
}

func newPostHandler(postRepo *database.PostRepo, tagRepo *database.TagRepo, followRepo *database.FollowRepo) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		postRepo:   postRepo,
		tagRepo:    tagRepo,
		followRepo: followRepo,
	}
}

// PostAuthorView is the author projection embedded in a PostView.
type PostAuthorView struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	DisplayName     string    `json:"displayName"`
	ProfileImageURL *string   `json:"profileImageUrl,omitempty"`
	StoreCode       *string   `json:"storeCode,omitempty"`
}

// PostView is the fixed response shape for a post, including its aggregated
// reaction state relative to the viewer.
type PostView struct {
	ID           uuid.UUID      `json:"id"`
	Title        *string        `json:"title,omitempty"`
	Content      string         `json:"content"`
	ImageURL     *string        `json:"imageUrl,omitempty"`
	Category     string         `json:"category"`
	PostType     string         `json:"postType"`
	CreatedAt    time.Time      `json:"createdAt"`
	Author       PostAuthorView `json:"author"`
	Tags         []string       `json:"tags"`
	LikeCount    int            `json:"likeCount"`
	CopyCount    int            `json:"copyCount"`
	CommentCount int            `json:"commentCount"`
	IsLikedByMe  bool           `json:"isLikedByMe"`
	IsCopiedByMe bool           `json:"isCopiedByMe"`
	IsMine       bool           `json:"isMine"`
}

// makePostView projects a loaded post into its response shape.
func makePostView(post *models.Post, viewer *uuid.UUID) PostView {
	summary := services.AggregateReactions(post.Reactions, viewer)

	tags := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, tag.Label)
	}

	return PostView{
		ID:        post.ID,
		Title:     post.Title,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		Category:  post.Category,
		PostType:  post.PostType,
		CreatedAt: post.CreatedAt,
		Author: PostAuthorView{
			ID:              post.Author.ID,
			Username:        post.Author.Username,
			DisplayName:     post.Author.DisplayName,
			ProfileImageURL: post.Author.ProfileImageURL,
			StoreCode:       post.Author.StoreCode,
		},
		Tags:         tags,
		LikeCount:    summary.LikeCount,
		CopyCount:    summary.CopyCount,
		CommentCount: len(post.Comments),
		IsLikedByMe:  summary.IsLikedByViewer,
		IsCopiedByMe: summary.IsCopiedByViewer,
		IsMine:       viewer != nil && post.AuthorID == *viewer,
	}
}

func makePostViews(posts []*models.Post, viewer *uuid.UUID) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, makePostView(post, viewer))
	}
	return views
}

func optionalViewer(r *http.Request) *uuid.UUID {
	if id, ok := viewerID(r.Context()); ok {
		return &id
	}
	return nil
}

// listPosts returns the newest posts matching the query filters, with the
// viewer's reaction state attached.
func (h postHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := optionalViewer(r)
		query := r.URL.Query()

		filter := database.PostFilter{
			DisplayName: query.Get("displayName"),
			StoreCode:   query.Get("storeCode"),
			Keyword:     query.Get("keyword"),
		}

		if startStr := query.Get("startDate"); startStr != "" {
			start, err := time.Parse("2006-01-02", startStr)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("startDate", "expected YYYY-MM-DD"))
				return
			}
			end := start
			if endStr := query.Get("endDate"); endStr != "" {
				end, err = time.Parse("2006-01-02", endStr)
				if err != nil {
					h.responder.WriteError(w, errs.NewInvalidFieldError("endDate", "expected YYYY-MM-DD"))
					return
				}
			}
			// The end bound is inclusive of the whole day.
			end = end.Add(24*time.Hour - time.Millisecond)
			filter.StartDate = &start
			filter.EndDate = &end
		}

		if query.Get("onlyFollowing") == "true" && viewer != nil {
			ids, err := h.followRepo.FollowingIDs(r.Context(), *viewer)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find", "follow list", err))
				return
			}
			if ids == nil {
				ids = []uuid.UUID{}
			}
			filter.AuthorIDs = ids
		}

		posts, err := h.postRepo.Search(r.Context(), filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "posts", err))
			return
		}

		h.responder.WriteJSON(w, makePostViews(posts, viewer))
	}
}

type postRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  string  `json:"content"`
	ImageURL *string `json:"imageUrl,omitempty"`
	Category string  `json:"category,omitempty"`
	PostType string  `json:"postType,omitempty"`
}

// syncTags re-derives the post's tag set from its content. Tags are created
// lazily and reused by label.
func (h postHandler) syncTags(r *http.Request, post *models.Post) error {
	labels := services.ExtractHashtags(post.Content)
	tags := make([]models.Tag, 0, len(labels))
	for _, label := range labels {
		tag, err := h.tagRepo.FindOrCreate(r.Context(), label)
		if err != nil {
			return err
		}
		tags = append(tags, *tag)
	}
	return h.postRepo.ReplaceTags(r.Context(), post, tags)
}

// createPost creates a new post for the authenticated user.
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := viewerID(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode post request body")
			h.responder.WriteError(w, errs.Malformed("post"))
			return
		}

		if req.Content == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("content"))
			return
		}
		if req.PostType != "" && req.PostType != models.PostTypeIndividual && req.PostType != models.PostTypeStore {
			h.responder.WriteError(w, errs.NewInvalidFieldError("postType", "must be \"individual\" or \"store\""))
			return
		}

		post := models.Post{
			AuthorID: viewer,
			Title:    req.Title,
			Content:  req.Content,
			ImageURL: req.ImageURL,
			Category: req.Category,
			PostType: req.PostType,
		}
		if post.Category == "" {
			post.Category = models.DefaultCategory
		}
		if post.PostType == "" {
			post.PostType = models.PostTypeIndividual
		}

		if err := h.postRepo.Add(r.Context(), &post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "post", err))
			return
		}

		if err := h.syncTags(r, &post); err != nil {
			// The post exists; failing tag bookkeeping should not fail the create.
			h.logger.Error().Err(err).Str("postId", post.ID.String()).Msg("Failed to sync post tags")
		}

		created, err := h.postRepo.FindByID(r.Context(), post.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created", "post", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, makePostView(created, &viewer))
	}
}

// updatePost edits a post's content, title, category or image. Author only.
func (h postHandler) updatePost() http.HandlerFunc {
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

		post, err := h.postRepo.FindByID(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "post", err))
			return
		}
		if post == nil {
			h.responder.WriteError(w, errs.NewNotFound("post"))
			return
		}
		if post.AuthorID != viewer {
			h.responder.WriteError(w, errs.NewForbiddenError("only the author can edit a post"))
			return
		}

		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode post request body")
			h.responder.WriteError(w, errs.Malformed("post"))
			return
		}

		if req.Content != "" {
			post.Content = req.Content
		}
		if req.Title != nil {
			post.Title = req.Title
		}
		if req.ImageURL != nil {
			post.ImageURL = req.ImageURL
		}
		if req.Category != "" {
			post.Category = req.Category
		}

		if err := h.postRepo.Update(r.Context(), post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "post", err))
			return
		}

		if err := h.syncTags(r, post); err != nil {
			h.logger.Error().Err(err).Str("postId", post.ID.String()).Msg("Failed to sync post tags")
		}

		updated, err := h.postRepo.FindByID(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated", "post", err))
			return
		}

		h.responder.WriteJSON(w, makePostView(updated, &viewer))
	}
}

// deletePost removes a post. Author only; reactions and comments cascade away.
func (h postHandler) deletePost() http.HandlerFunc {
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

		deleted, err := h.postRepo.DeleteByAuthor(r.Context(), postID, viewer)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "post", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError("post not found or not owned by caller"))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "post deleted successfully",
		})
	}
}
