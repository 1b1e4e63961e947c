package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/staffcircle/backend/errs"
	"github.com/staffcircle/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePostSource struct {
	posts []*models.Post
	since time.Time
	err   error
}

func (f *fakePostSource) FindSince(_ context.Context, since time.Time) ([]*models.Post, error) {
	f.since = since
	if f.err != nil {
		return nil, f.err
	}
	// Honor the window the way the repository would.
	var out []*models.Post
	for _, p := range f.posts {
		if !p.CreatedAt.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeStoreSource struct {
	stores []*models.Store
	err    error
}

func (f *fakeStoreSource) FindAllWithMembers(_ context.Context) ([]*models.Store, error) {
	return f.stores, f.err
}

func (f *fakeStoreSource) FindByCode(_ context.Context, code string) (*models.Store, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.stores {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, nil
}

type fakeUserSource struct {
	users []*models.User
}

func (f *fakeUserSource) FindByStoreCode(_ context.Context, code string) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		if u.StoreCode != nil && *u.StoreCode == code {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeFollowSource struct {
	counts map[uuid.UUID]int64
	err    error
}

func (f *fakeFollowSource) FollowerCounts(_ context.Context) (map[uuid.UUID]int64, error) {
	return f.counts, f.err
}

func likes(postID uuid.UUID, n int) []models.Reaction {
	out := make([]models.Reaction, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Reaction{UserID: uuid.New(), PostID: postID, Kind: models.ReactionLike})
	}
	return out
}

func copies(postID uuid.UUID, n int) []models.Reaction {
	out := make([]models.Reaction, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Reaction{UserID: uuid.New(), PostID: postID, Kind: models.ReactionCopy})
	}
	return out
}

func newTestRankingService(posts RankingPostSource, stores RankingStoreSource, users RankingUserSource, follows FollowerCountSource, now time.Time) *RankingService {
	return NewRankingService(posts, stores, users, follows, WithClock(func() time.Time { return now }))
}

func TestRankPostsCopyWeighsDouble(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	postA := &models.Post{ID: uuid.New(), Content: "a", CreatedAt: now.Add(-time.Hour)}
	postA.Reactions = likes(postA.ID, 3) // score 3
	postB := &models.Post{ID: uuid.New(), Content: "b", CreatedAt: now.Add(-2 * time.Hour)}
	postB.Reactions = append(likes(postB.ID, 1), copies(postB.ID, 2)...) // score 5

	service := newTestRankingService(
		&fakePostSource{posts: []*models.Post{postA, postB}},
		&fakeStoreSource{}, &fakeUserSource{}, &fakeFollowSource{}, now,
	)

	entries, err := service.RankPosts(context.Background(), PeriodWeekly, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, postB.ID, entries[0].PostID)
	assert.Equal(t, 5, entries[0].Score)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, postA.ID, entries[1].PostID)
	assert.Equal(t, 3, entries[1].Score)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestRankPostsTieBreaksNewestFirst(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	older := &models.Post{ID: uuid.New(), Content: "older", CreatedAt: now.Add(-48 * time.Hour)}
	older.Reactions = likes(older.ID, 2)
	newer := &models.Post{ID: uuid.New(), Content: "newer", CreatedAt: now.Add(-time.Hour)}
	newer.Reactions = likes(newer.ID, 2)

	service := newTestRankingService(
		&fakePostSource{posts: []*models.Post{older, newer}},
		&fakeStoreSource{}, &fakeUserSource{}, &fakeFollowSource{}, now,
	)

	entries, err := service.RankPosts(context.Background(), PeriodWeekly, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, newer.ID, entries[0].PostID)
	assert.Equal(t, older.ID, entries[1].PostID)
}

func TestRankPostsTruncatesToTwenty(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	var posts []*models.Post
	for i := 0; i < 25; i++ {
		p := &models.Post{ID: uuid.New(), Content: fmt.Sprintf("p%d", i), CreatedAt: now.Add(-time.Duration(i) * time.Minute)}
		p.Reactions = likes(p.ID, i)
		posts = append(posts, p)
	}

	service := newTestRankingService(
		&fakePostSource{posts: posts},
		&fakeStoreSource{}, &fakeUserSource{}, &fakeFollowSource{}, now,
	)

	entries, err := service.RankPosts(context.Background(), PeriodWeekly, nil)
	require.NoError(t, err)
	require.Len(t, entries, MaxRankingEntries)
	assert.Equal(t, 24, entries[0].Score)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 20, entries[19].Rank)
}

func TestRankPostsWindows(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	inWeek := &models.Post{ID: uuid.New(), Content: "recent", CreatedAt: now.Add(-3 * 24 * time.Hour)}
	inMonth := &models.Post{ID: uuid.New(), Content: "older", CreatedAt: now.Add(-20 * 24 * time.Hour)}
	ancient := &models.Post{ID: uuid.New(), Content: "ancient", CreatedAt: now.Add(-60 * 24 * time.Hour)}

	source := &fakePostSource{posts: []*models.Post{inWeek, inMonth, ancient}}
	service := newTestRankingService(source, &fakeStoreSource{}, &fakeUserSource{}, &fakeFollowSource{}, now)

	weekly, err := service.RankPosts(context.Background(), PeriodWeekly, nil)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-7*24*time.Hour), source.since)
	require.Len(t, weekly, 1)
	assert.Equal(t, inWeek.ID, weekly[0].PostID)

	monthly, err := service.RankPosts(context.Background(), PeriodMonthly, nil)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-30*24*time.Hour), source.since)
	assert.Len(t, monthly, 2)
}

func TestRankPostsUnknownPeriodFallsBackToWeekly(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	source := &fakePostSource{}
	service := newTestRankingService(source, &fakeStoreSource{}, &fakeUserSource{}, &fakeFollowSource{}, now)

	_, err := service.RankPosts(context.Background(), "yearly", nil)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-7*24*time.Hour), source.since)
}

func TestRankPostsMonthlyWindowConfigurable(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	source := &fakePostSource{}
	service := NewRankingService(source, &fakeStoreSource{}, &fakeUserSource{}, &fakeFollowSource{},
		WithClock(func() time.Time { return now }),
		WithMonthlyWindowDays(28),
	)

	_, err := service.RankPosts(context.Background(), PeriodMonthly, nil)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-28*24*time.Hour), source.since)
}

func TestRankPostsViewerFlags(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	viewer := uuid.New()

	post := &models.Post{ID: uuid.New(), Content: "mine", CreatedAt: now.Add(-time.Hour)}
	post.Reactions = []models.Reaction{
		{UserID: viewer, PostID: post.ID, Kind: models.ReactionCopy},
		{UserID: uuid.New(), PostID: post.ID, Kind: models.ReactionLike},
	}

	service := newTestRankingService(
		&fakePostSource{posts: []*models.Post{post}},
		&fakeStoreSource{}, &fakeUserSource{}, &fakeFollowSource{}, now,
	)

	entries, err := service.RankPosts(context.Background(), PeriodWeekly, &viewer)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsCopied)
	assert.False(t, entries[0].IsLiked)
	assert.Equal(t, 3, entries[0].Score)
}

func TestRankPostsSourceFailure(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	service := newTestRankingService(
		&fakePostSource{err: errors.New("connection refused")},
		&fakeStoreSource{}, &fakeUserSource{}, &fakeFollowSource{}, now,
	)

	entries, err := service.RankPosts(context.Background(), PeriodWeekly, nil)
	require.Error(t, err)
	assert.Nil(t, entries)
}

func TestDisplayLabel(t *testing.T) {
	withStore := models.User{DisplayName: "Hanako", Store: &models.Store{Name: "Shibuya"}}
	assert.Equal(t, "Hanako@Shibuya", DisplayLabel(withStore))

	headOffice := models.User{DisplayName: "Taro"}
	assert.Equal(t, "Taro", DisplayLabel(headOffice))
}

func TestRankStoresSumsMemberFollowers(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	code1, code2 := "001", "002"

	stores := []*models.Store{
		{ID: uuid.New(), Code: code1, Name: "First", Users: []models.User{{ID: alice}, {ID: bob}}},
		{ID: uuid.New(), Code: code2, Name: "Second", Users: []models.User{{ID: carol}}},
		{ID: uuid.New(), Code: "003", Name: "Empty"},
	}
	counts := map[uuid.UUID]int64{alice: 3, bob: 2, carol: 10}

	service := newTestRankingService(
		&fakePostSource{},
		&fakeStoreSource{stores: stores},
		&fakeUserSource{},
		&fakeFollowSource{counts: counts},
		now,
	)

	rankings, err := service.RankStores(context.Background())
	require.NoError(t, err)
	require.Len(t, rankings, 3)

	assert.Equal(t, "Second", rankings[0].Name)
	assert.Equal(t, int64(10), rankings[0].TotalFollowers)
	assert.Equal(t, "First", rankings[1].Name)
	assert.Equal(t, int64(5), rankings[1].TotalFollowers)
	assert.Equal(t, 2, rankings[1].MemberCount)
	assert.Equal(t, "Empty", rankings[2].Name)
	assert.Equal(t, int64(0), rankings[2].TotalFollowers)
	assert.Equal(t, 0, rankings[2].MemberCount)
}

func TestRankStoresFollowSourceFailure(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	service := newTestRankingService(
		&fakePostSource{},
		&fakeStoreSource{},
		&fakeUserSource{},
		&fakeFollowSource{err: errors.New("timeout")},
		now,
	)

	rankings, err := service.RankStores(context.Background())
	require.Error(t, err)
	assert.Nil(t, rankings)
}

func TestRankStoreUsers(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	code := "001"
	store := &models.Store{Code: code, Name: "First"}

	popular := &models.User{ID: uuid.New(), Username: "popular", DisplayName: "Popular", StoreCode: &code, Store: store}
	quiet := &models.User{ID: uuid.New(), Username: "quiet", DisplayName: "Quiet", StoreCode: &code, Store: store}

	service := newTestRankingService(
		&fakePostSource{},
		&fakeStoreSource{stores: []*models.Store{store}},
		&fakeUserSource{users: []*models.User{quiet, popular}},
		&fakeFollowSource{counts: map[uuid.UUID]int64{popular.ID: 7}},
		now,
	)

	rankings, err := service.RankStoreUsers(context.Background(), code)
	require.NoError(t, err)
	require.Len(t, rankings, 2)

	assert.Equal(t, "popular", rankings[0].Username)
	assert.Equal(t, int64(7), rankings[0].FollowerCount)
	assert.Equal(t, "Popular@First", rankings[0].DisplayName)
	assert.Equal(t, int64(0), rankings[1].FollowerCount)
}

func TestRankStoreUsersUnknownStore(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	service := newTestRankingService(
		&fakePostSource{},
		&fakeStoreSource{},
		&fakeUserSource{},
		&fakeFollowSource{},
		now,
	)

	_, err := service.RankStoreUsers(context.Background(), "999")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}
