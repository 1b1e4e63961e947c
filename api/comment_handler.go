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
)

type commentHandler struct {
	responder   Responder
	logger      zerolog.Logger
	commentRepo *database.CommentRepo
}

func newCommentHandler(commentRepo *database.CommentRepo) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()

	return commentHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		commentRepo: commentRepo,
	}
}

// CommentView is the fixed response shape for a comment.
type CommentView struct {
	ID        uuid.UUID      `json:"id"`
	PostID    uuid.UUID      `json:"postId"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	Author    PostAuthorView `json:"author"`
	IsMine    bool           `json:"isMine"`
}

func makeCommentView(comment *models.Comment, viewer *uuid.UUID) CommentView {
	return CommentView{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Author: PostAuthorView{
			ID:              comment.Author.ID,
			Username:        comment.Author.Username,
			DisplayName:     comment.Author.DisplayName,
			ProfileImageURL: comment.Author.ProfileImageURL,
			StoreCode:       comment.Author.StoreCode,
		},
		IsMine: viewer != nil && comment.AuthorID == *viewer,
	}
}

// listComments returns a post's comments oldest first.
func (h commentHandler) listComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := optionalViewer(r)

		postID, err := uuid.Parse(chi.URLParam(r, "postID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid postID"))
			return
		}

		comments, err := h.commentRepo.FindByPost(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "comments", err))
			return
		}

		views := make([]CommentView, 0, len(comments))
		for _, comment := range comments {
			views = append(views, makeCommentView(comment, viewer))
		}

		h.responder.WriteJSON(w, views)
	}
}

type commentRequest struct {
	Content string `json:"content"`
}

// createComment adds a comment to a post. A foreign-key failure on insert
// means the post does not exist.
func (h commentHandler) createComment() http.HandlerFunc {
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

		var req commentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.Malformed("comment"))
			return
		}
		if req.Content == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("content"))
			return
		}

		comment := models.Comment{
			PostID:   postID,
			AuthorID: viewer,
			Content:  req.Content,
		}
		if err := h.commentRepo.Add(r.Context(), &comment); err != nil {
			if errs.IsForeignKeyViolation(err) {
				h.responder.WriteError(w, errs.NewNotFound("post"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("create", "comment", err))
			return
		}

		created, err := h.commentRepo.FindByID(r.Context(), comment.ID)
		if err != nil || created == nil {
			h.responder.WriteError(w, wrapDatabaseError("find created", "comment", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, makeCommentView(created, &viewer))
	}
}

// deleteComment removes a comment. Author only.
func (h commentHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := viewerID(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		commentID, err := uuid.Parse(chi.URLParam(r, "commentID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid commentID"))
			return
		}

		deleted, err := h.commentRepo.DeleteByAuthor(r.Context(), commentID, viewer)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "comment", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError("comment not found or not owned by caller"))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "comment deleted successfully",
		})
	}
}
