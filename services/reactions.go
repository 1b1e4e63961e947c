package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/staffcircle/backend/errs"
	"github.com/staffcircle/backend/models"
)

// Toggle outcomes reported to the caller.
const (
	ToggleAdded   = "added"
	ToggleRemoved = "removed"
)

// ToggleResult reports which way a reaction toggle went.
type ToggleResult struct {
	Action string `json:"action"`
}

// ReactionSummary is the aggregate view of one post's reactions, relative to
// an optional viewer.
type ReactionSummary struct {
	LikeCount        int  `json:"likeCount"`
	CopyCount        int  `json:"copyCount"`
	IsLikedByViewer  bool `json:"isLikedByMe"`
	IsCopiedByViewer bool `json:"isCopiedByMe"`
}

// AggregateReactions computes per-kind counts and the viewer's own reaction
// state from a post's raw reaction rows. All rows must belong to the same
// post; that is the caller's contract. A nil viewer yields both flags false.
func AggregateReactions(reactions []models.Reaction, viewerID *uuid.UUID) ReactionSummary {
	var summary ReactionSummary
	for _, reaction := range reactions {
		switch reaction.Kind {
		case models.ReactionLike:
			summary.LikeCount++
			if viewerID != nil && reaction.UserID == *viewerID {
				summary.IsLikedByViewer = true
			}
		case models.ReactionCopy:
			summary.CopyCount++
			if viewerID != nil && reaction.UserID == *viewerID {
				summary.IsCopiedByViewer = true
			}
		}
	}
	return summary
}

// ReactionStore is the slice of the reaction repository the toggle needs.
type ReactionStore interface {
	FindByOwner(ctx context.Context, postID, userID uuid.UUID, kind string) (*models.Reaction, error)
	Add(ctx context.Context, reaction *models.Reaction) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReactionService struct {
	reactions ReactionStore
	logger    zerolog.Logger
}

func NewReactionService(reactions ReactionStore) *ReactionService {
	return &ReactionService{
		reactions: reactions,
		logger:    log.With().Str("serviceName", "reactionService").Logger(),
	}
}

// Toggle flips the (user, post, kind) reaction: removes it when present,
// creates it otherwise. The existence check races with concurrent toggles by
// the same user; the unique index on (user_id, post_id, kind) is the backstop,
// and a duplicate-key failure on create is reported as "added" rather than an
// error. A foreign-key failure means the post does not exist.
func (s *ReactionService) Toggle(ctx context.Context, postID, userID uuid.UUID, kind string) (ToggleResult, error) {
	if !models.ValidReactionKind(kind) {
		return ToggleResult{}, errs.NewInvalidFieldError("type", "must be \"like\" or \"copy\"")
	}

	existing, err := s.reactions.FindByOwner(ctx, postID, userID, kind)
	if err != nil {
		return ToggleResult{}, errs.NewDatabaseError("find", "reaction", err)
	}

	if existing != nil {
		if err := s.reactions.Delete(ctx, existing.ID); err != nil {
			return ToggleResult{}, errs.NewDatabaseError("delete", "reaction", err)
		}
		return ToggleResult{Action: ToggleRemoved}, nil
	}

	reaction := models.Reaction{
		PostID: postID,
		UserID: userID,
		Kind:   kind,
	}
	if err := s.reactions.Add(ctx, &reaction); err != nil {
		switch {
		case errs.IsDuplicateKey(err):
			// Lost the race against an identical toggle; the reaction exists,
			// which is what this caller asked for.
			s.logger.Debug().
				Str("postId", postID.String()).
				Str("userId", userID.String()).
				Str("kind", kind).
				Msg("duplicate reaction create absorbed")
			return ToggleResult{Action: ToggleAdded}, nil
		case errs.IsForeignKeyViolation(err):
			return ToggleResult{}, errs.NewNotFound("post")
		default:
			return ToggleResult{}, errs.NewDatabaseError("create", "reaction", err)
		}
	}
	return ToggleResult{Action: ToggleAdded}, nil
}
