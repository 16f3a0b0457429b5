package main

import (
	"github.com/gin-gonic/gin"
	"ideagraph.backend/internal/interfaces/http/handlers"
	"ideagraph.backend/internal/interfaces/http/middleware"
	"ideagraph.backend/internal/loaders"
	"ideagraph.backend/pkg/jwt"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	userHandler    *handlers.UserHandler
	contentHandler *handlers.ContentHandler
	marketHandler  *handlers.MarketHandler
	jwtService     *jwt.JWTService
	loaderFactory  *loaders.Factory
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	requireAuth := middleware.AuthMiddleware(d.jwtService)
	optionalAuth := middleware.OptionalAuthMiddleware(d.jwtService)
	verified := middleware.RequireVerified()
	withLoaders := middleware.LoadersMiddleware(d.loaderFactory)
	idempotent := middleware.IdempotencyMiddleware()

	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/createUser", d.authHandler.CreateUser)
			auth.POST("/loginUser", d.authHandler.LoginUser)
			auth.POST("/refreshToken", d.authHandler.RefreshToken)
			auth.POST("/logoutUser", d.authHandler.LogoutUser)
			auth.POST("/requestPasswordReset", d.authHandler.RequestPasswordReset)
			auth.POST("/resetPassword", d.authHandler.ResetPassword)
		}

		// Auth routes (protected, unverified allowed)
		account := v1.Group("/auth")
		account.Use(requireAuth)
		{
			account.POST("/verifyEmail", d.authHandler.VerifyEmail)
			account.POST("/verifyPhone", d.authHandler.VerifyPhone)
			account.POST("/requestVerification", d.authHandler.RequestVerification)
			account.POST("/deactivateAccount", d.authHandler.DeactivateAccount)
			account.GET("/me", d.authHandler.Me)
		}

		// User routes (public read)
		users := v1.Group("/users")
		users.Use(optionalAuth, withLoaders)
		{
			users.GET("/userProfile/:id", d.userHandler.UserProfile)
			users.GET("/followers/:id", d.userHandler.Followers)
			users.GET("/following/:id", d.userHandler.Following)
		}

		profile := v1.Group("/users")
		profile.Use(requireAuth, withLoaders)
		{
			profile.PUT("/updateProfile", d.userHandler.UpdateProfile)
		}

		social := v1.Group("/users")
		social.Use(requireAuth, verified, withLoaders)
		{
			social.POST("/followProfile/:id", d.userHandler.FollowProfile)
			social.DELETE("/unfollowProfile/:id", d.userHandler.UnfollowProfile)
		}

		// Content routes (public read, viewer fields when authenticated)
		contentRead := v1.Group("/content")
		contentRead.Use(optionalAuth, withLoaders)
		{
			contentRead.GET("/content/:id", d.contentHandler.Content)
			contentRead.GET("/byAuthor/:id", d.contentHandler.ByAuthor)
			contentRead.GET("/replies/:id", d.contentHandler.Replies)
			contentRead.GET("/reactions/:id", d.contentHandler.Reactions)
		}

		// Content routes (protected, verified)
		content := v1.Group("/content")
		content.Use(requireAuth, verified, withLoaders)
		{
			content.POST("/createPost", idempotent, d.contentHandler.CreatePost)
			content.PUT("/updatePost/:id", d.contentHandler.UpdatePost)
			content.DELETE("/deletePost/:id", d.contentHandler.DeletePost)
			content.POST("/createIdea", idempotent, d.contentHandler.CreateIdea)
			content.PUT("/updateIdea/:id", d.contentHandler.UpdateIdea)
			content.DELETE("/deleteIdea/:id", d.contentHandler.DeleteIdea)
			content.POST("/createReaction/:id", d.contentHandler.CreateReaction)
			content.DELETE("/deleteReaction/:id", d.contentHandler.DeleteReaction)
			content.POST("/reportContent/:id", idempotent, d.contentHandler.ReportContent)
		}

		// Market routes (protected, bearer forwarded upstream)
		market := v1.Group("/market")
		market.Use(requireAuth)
		{
			market.GET("/sectors", d.marketHandler.Sectors)
			market.GET("/industries", d.marketHandler.Industries)
			market.GET("/companies/:symbol", d.marketHandler.Company)
			market.GET("/articles", d.marketHandler.Articles)
			market.GET("/articles/:slug", d.marketHandler.Article)

			market.GET("/watchlists", d.marketHandler.ListWatchlists)
			market.POST("/watchlists", idempotent, d.marketHandler.CreateWatchlist)
			market.GET("/watchlists/:id", d.marketHandler.GetWatchlist)
			market.PUT("/watchlists/:id", d.marketHandler.UpdateWatchlist)
			market.DELETE("/watchlists/:id", d.marketHandler.DeleteWatchlist)
		}
	}
}
