package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/staffcircle/backend/errs"
	"github.com/staffcircle/backend/models"
	"golang.org/x/sync/errgroup"
)

// Ranking periods. Anything else falls back to the weekly window.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// MaxRankingEntries caps every ranking response.
const MaxRankingEntries = 20

// DefaultMonthlyWindowDays is the "monthly" window when not configured.
// Whether a month is 30 days or a calendar month is a deployment choice, so it
// is a config knob rather than a constant contract.
const DefaultMonthlyWindowDays = 30

const weeklyWindow = 7 * 24 * time.Hour

// RankedAuthor is the author projection carried on a ranking entry. The
// display name is suffixed with "@<store name>" when the author is affiliated.
type RankedAuthor struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	DisplayName     string    `json:"displayName"`
	ProfileImageURL *string   `json:"profileImageUrl,omitempty"`
}

// RankingEntry is one row of the post ranking. Computed fresh per request,
// never persisted.
type RankingEntry struct {
	Rank      int              `json:"rank"`
	PostID    uuid.UUID        `json:"id"`
	Title     *string          `json:"title,omitempty"`
	Content   string           `json:"content"`
	ImageURL  *string          `json:"imageUrl,omitempty"`
	Category  string           `json:"category"`
	CreatedAt time.Time        `json:"createdAt"`
	Author    RankedAuthor     `json:"author"`
	LikeCount int              `json:"likeCount"`
	CopyCount int              `json:"copyCount"`
	Score     int              `json:"score"`
	IsLiked   bool             `json:"isLikedByMe"`
	IsCopied  bool             `json:"isCopiedByMe"`
}

// StoreRanking is one row of the store ranking.
type StoreRanking struct {
	ID             uuid.UUID `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	TotalFollowers int64     `json:"totalFollowers"`
	MemberCount    int       `json:"memberCount"`
}

// StoreUserRanking is one row of the per-store user ranking.
type StoreUserRanking struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	DisplayName     string    `json:"displayName"`
	ProfileImageURL *string   `json:"profileImageUrl,omitempty"`
	FollowerCount   int64     `json:"followerCount"`
}

// Store contracts consumed by the ranking engine. The database repos satisfy
// these; tests substitute fakes.
type RankingPostSource interface {
	FindSince(ctx context.Context, since time.Time) ([]*models.Post, error)
}

type RankingStoreSource interface {
	FindAllWithMembers(ctx context.Context) ([]*models.Store, error)
	FindByCode(ctx context.Context, code string) (*models.Store, error)
}

type RankingUserSource interface {
	FindByStoreCode(ctx context.Context, code string) ([]*models.User, error)
}

type FollowerCountSource interface {
	FollowerCounts(ctx context.Context) (map[uuid.UUID]int64, error)
}

type RankingService struct {
	posts         RankingPostSource
	stores        RankingStoreSource
	users         RankingUserSource
	follows       FollowerCountSource
	monthlyWindow time.Duration
	now           func() time.Time
	logger        zerolog.Logger
}

// WithMonthlyWindowDays overrides the "monthly" window length.
func WithMonthlyWindowDays(days int) func(*RankingService) {
	return func(s *RankingService) {
		if days > 0 {
			s.monthlyWindow = time.Duration(days) * 24 * time.Hour
		}
	}
}

// WithClock substitutes the time source; tests pin it.
func WithClock(now func() time.Time) func(*RankingService) {
	return func(s *RankingService) {
		s.now = now
	}
}

func NewRankingService(posts RankingPostSource, stores RankingStoreSource, users RankingUserSource, follows FollowerCountSource, opts ...func(*RankingService)) *RankingService {
	s := &RankingService{
		posts:         posts,
		stores:        stores,
		users:         users,
		follows:       follows,
		monthlyWindow: DefaultMonthlyWindowDays * 24 * time.Hour,
		now:           time.Now,
		logger:        log.With().Str("serviceName", "rankingService").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// windowStart maps a period name to the inclusive lower bound of the ranking
// window. Unknown periods mean weekly; that is a documented fallback, not an
// error.
func (s *RankingService) windowStart(period string) time.Time {
	window := weeklyWindow
	if period == PeriodMonthly {
		window = s.monthlyWindow
	}
	return s.now().Add(-window)
}

// DisplayLabel renders a user's public display name, suffixed with the store
// name when the user has a store affiliation attached.
func DisplayLabel(user models.User) string {
	if user.Store != nil {
		return user.DisplayName + "@" + user.Store.Name
	}
	return user.DisplayName
}

// RankPosts ranks posts created inside the period's window by
// copyCount*2 + likeCount, descending, truncated to MaxRankingEntries. Copies
// are deliberately worth two likes. Ties break newest-first so the order is
// deterministic. A post read failure aborts the whole computation; no partial
// ranking is ever returned.
func (s *RankingService) RankPosts(ctx context.Context, period string, viewerID *uuid.UUID) ([]RankingEntry, error) {
	since := s.windowStart(period)

	posts, err := s.posts.FindSince(ctx, since)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "ranking posts", err)
	}

	entries := make([]RankingEntry, 0, len(posts))
	for _, post := range posts {
		summary := AggregateReactions(post.Reactions, viewerID)
		entries = append(entries, RankingEntry{
			PostID:    post.ID,
			Title:     post.Title,
			Content:   post.Content,
			ImageURL:  post.ImageURL,
			Category:  post.Category,
			CreatedAt: post.CreatedAt,
			Author: RankedAuthor{
				ID:              post.Author.ID,
				Username:        post.Author.Username,
				DisplayName:     DisplayLabel(post.Author),
				ProfileImageURL: post.Author.ProfileImageURL,
			},
			LikeCount: summary.LikeCount,
			CopyCount: summary.CopyCount,
			Score:     summary.CopyCount*2 + summary.LikeCount,
			IsLiked:   summary.IsLikedByViewer,
			IsCopied:  summary.IsCopiedByViewer,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	if len(entries) > MaxRankingEntries {
		entries = entries[:MaxRankingEntries]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	s.logger.Debug().
		Str("period", period).
		Time("since", since).
		Int("candidates", len(posts)).
		Int("returned", len(entries)).
		Msg("post ranking computed")

	return entries, nil
}

// RankStores ranks every store by the summed follower count of its affiliated
// users. Not time-windowed and not weighted; a store with no members scores 0.
func (s *RankingService) RankStores(ctx context.Context) ([]StoreRanking, error) {
	var (
		stores []*models.Store
		counts map[uuid.UUID]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stores, err = s.stores.FindAllWithMembers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.follows.FollowerCounts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errs.NewDatabaseError("find", "store ranking", err)
	}

	rankings := make([]StoreRanking, 0, len(stores))
	for _, store := range stores {
		var total int64
		for _, member := range store.Users {
			total += counts[member.ID]
		}
		rankings = append(rankings, StoreRanking{
			ID:             store.ID,
			Code:           store.Code,
			Name:           store.Name,
			TotalFollowers: total,
			MemberCount:    len(store.Users),
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].TotalFollowers > rankings[j].TotalFollowers
	})

	return rankings, nil
}

// RankStoreUsers ranks one store's members by follower count, descending. An
// unknown store code is a not-found error, not an empty ranking.
func (s *RankingService) RankStoreUsers(ctx context.Context, code string) ([]StoreUserRanking, error) {
	store, err := s.stores.FindByCode(ctx, code)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "store", err)
	}
	if store == nil {
		return nil, errs.NewNotFound("store")
	}

	var (
		users  []*models.User
		counts map[uuid.UUID]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.users.FindByStoreCode(gctx, code)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.follows.FollowerCounts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errs.NewDatabaseError("find", "store user ranking", err)
	}

	rankings := make([]StoreUserRanking, 0, len(users))
	for _, user := range users {
		rankings = append(rankings, StoreUserRanking{
			ID:              user.ID,
			Username:        user.Username,
			DisplayName:     DisplayLabel(*user),
			ProfileImageURL: user.ProfileImageURL,
			FollowerCount:   counts[user.ID],
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].FollowerCount > rankings[j].FollowerCount
	})

	return rankings, nil
}
