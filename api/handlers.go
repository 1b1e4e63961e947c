package api

import (
	"github.com/staffcircle/backend/config"
	"github.com/staffcircle/backend/database"
	"github.com/staffcircle/backend/services"
)

type routeHandlers struct {
	tokens          *services.TokenIssuer
	authHandler     authHandler
	postHandler     postHandler
	reactionHandler reactionHandler
	rankingHandler  rankingHandler
	commentHandler  commentHandler
	userHandler     userHandler
	followHandler   followHandler
	storeHandler    storeHandler
}

// initializeHandlers wires the repositories into services and the services
// into handlers. Everything is constructed here and injected; nothing holds a
// global database handle.
func initializeHandlers(db database.Database, c map[string]string) *routeHandlers {
	tokens := services.NewTokenIssuer(config.GetString(c, "JWT_SECRET", "development-only-secret"))

	identity := services.NewIdentityClient(
		config.GetString(c, "AUTH_API_URL", "http://auth-intra.example.internal"),
		config.GetString(c, "AUTH_API_SYSTEM_ID", ""),
		config.GetString(c, "AUTH_API_CLIENT_ID", ""),
	)

	accounts := services.NewAccountService(db.UserRepo(), identity, tokens)
	reactions := services.NewReactionService(db.ReactionRepo())
	ranking := services.NewRankingService(
		db.PostRepo(),
		db.StoreRepo(),
		db.UserRepo(),
		db.FollowRepo(),
		services.WithMonthlyWindowDays(config.GetInt(c, "RANKING_MONTHLY_WINDOW_DAYS", services.DefaultMonthlyWindowDays)),
	)

	return &routeHandlers{
		tokens:          tokens,
		authHandler:     newAuthHandler(accounts),
		postHandler:     newPostHandler(db.PostRepo(), db.TagRepo(), db.FollowRepo()),
		reactionHandler: newReactionHandler(reactions),
		rankingHandler:  newRankingHandler(ranking),
		commentHandler:  newCommentHandler(db.CommentRepo()),
		userHandler:     newUserHandler(db.UserRepo(), db.PostRepo(), db.FollowRepo()),
		followHandler:   newFollowHandler(db.FollowRepo()),
		storeHandler:    newStoreHandler(db.StoreRepo()),
	}
}
