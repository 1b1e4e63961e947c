package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the public, optional-auth and authenticated route groups.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Auth endpoints
		r.Post("/auth/login", handlers.authHandler.login())
		r.Post("/auth/login/barcode", handlers.authHandler.barcodeLogin())

		// Read paths take an optional viewer identity
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticateOptional)

			r.Get("/posts", handlers.postHandler.listPosts())
			r.Get("/posts/ranking", handlers.rankingHandler.rankPosts())
			r.Get("/posts/{postID}/comments", handlers.commentHandler.listComments())

			r.Get("/users/{username}", handlers.userHandler.getProfile())
			r.Get("/users/{username}/following", handlers.userHandler.listFollowing())

			r.Get("/stores", handlers.storeHandler.listStores())
			r.Get("/ranking/stores", handlers.rankingHandler.rankStores())
			r.Get("/ranking/stores/{storeCode}/users", handlers.rankingHandler.rankStoreUsers())
		})

		// Mutations require a session
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Post("/posts", handlers.postHandler.createPost())
			r.Put("/posts/{postID}", handlers.postHandler.updatePost())
			r.Delete("/posts/{postID}", handlers.postHandler.deletePost())

			r.Post("/posts/{postID}/reactions", handlers.reactionHandler.toggleReaction())

			r.Post("/posts/{postID}/comments", handlers.commentHandler.createComment())
			r.Delete("/posts/{postID}/comments/{commentID}", handlers.commentHandler.deleteComment())

			r.Put("/users/me", handlers.userHandler.updateProfile())
			r.Post("/users/{userID}/follow", handlers.followHandler.follow())
			r.Delete("/users/{userID}/follow", handlers.followHandler.unfollow())
		})
	})
}
