package http

import (
	"wikiboard/internal/config"
	"wikiboard/internal/http/handlers"
	"wikiboard/internal/http/middleware"
	"wikiboard/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	hub := ws.NewHub()
	h := handlers.NewHandler(db, hub)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// Board event feed
	r.GET("/ws/boards/:id", middleware.OptionalJWT(), h.BoardFeed)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RequestID())
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	// Auth
	v1.POST("/auth/login", h.Login)
	v1.GET("/me", middleware.JWT(), h.Me)
	v1.GET("/me/activity", middleware.JWT(), h.MyActivity)

	// Per-user limiter for write endpoints, on top of the IP limiter
	mutRL := middleware.MutationRateLimit(cfg.APIRateLimit, cfg.APIRateWindow)

	// Boards
	v1.GET("/boards", middleware.JWT(), h.ListBoards)
	v1.POST("/boards", middleware.JWT(), mutRL, h.CreateBoard)
	v1.GET("/boards/:id", middleware.OptionalJWT(), h.GetBoard)
	v1.PUT("/boards/:id", middleware.JWT(), mutRL, h.UpdateBoard)
	v1.DELETE("/boards/:id", middleware.JWT(), mutRL, h.DeleteBoard)

	// Columns
	v1.POST("/boards/:id/columns", middleware.JWT(), mutRL, h.AddColumn)
	v1.PUT("/columns/:id", middleware.JWT(), mutRL, h.UpdateColumn)
	v1.PATCH("/columns/:id/move", middleware.JWT(), mutRL, h.MoveColumn)

	// Permission grants
	v1.GET("/boards/:id/grants", middleware.JWT(), h.ListGrants)
	v1.PUT("/boards/:id/grants", middleware.JWT(), mutRL, h.SetGrant)
	v1.DELETE("/boards/:id/grants/:user_id", middleware.JWT(), mutRL, h.RevokeGrant)

	// Cards
	v1.POST("/columns/:id/cards", middleware.JWT(), mutRL, h.AddCard)
	v1.GET("/cards/:id", middleware.OptionalJWT(), h.GetCard)
	v1.PUT("/cards/:id", middleware.JWT(), mutRL, h.UpdateCard)
	v1.PATCH("/cards/:id/move", middleware.JWT(), mutRL, h.MoveCard)
	v1.DELETE("/cards/:id", middleware.JWT(), mutRL, h.DeleteCard)

	// Comments and history
	v1.GET("/cards/:id/comments", middleware.OptionalJWT(), h.ListComments)
	v1.POST("/cards/:id/comments", middleware.JWT(), mutRL, h.AddComment)
	v1.GET("/cards/:id/history", middleware.OptionalJWT(), h.CardHistory)

	// Search: dedicated page and the embedded augmentation path
	v1.GET("/search", middleware.OptionalJWT(), h.SearchPage)
	v1.GET("/embed/search", middleware.OptionalJWT(), h.EmbedSearch)

	// Embed surface for the host wiki renderer
	v1.GET("/embed/boards/:slug", middleware.OptionalJWT(), h.EmbedBoard)
}
