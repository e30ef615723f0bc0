package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ParvPasricha/loyalty-system/internal/interfaces/http/handlers"
	"github.com/ParvPasricha/loyalty-system/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	tokenHandler   *handlers.TokenHandler
	loyaltyHandler *handlers.LoyaltyHandler
	rulesHandler   *handlers.RulesHandler
	rewardHandler  *handlers.RewardHandler
	auditHandler   *handlers.AuditHandler
	authMiddleware gin.HandlerFunc
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.Refresh)
		}

		// Staff management (owner only)
		staff := v1.Group("/staff")
		staff.Use(d.authMiddleware, middleware.RequireOwner())
		{
			staff.POST("", d.authHandler.CreateStaff)
		}

		// Credential routes (any staff)
		tokens := v1.Group("/tokens")
		tokens.Use(d.authMiddleware)
		{
			tokens.POST("", d.tokenHandler.Issue)
			tokens.POST("/resolve", d.tokenHandler.Resolve)
			tokens.POST("/wallet-claim", d.tokenHandler.ClaimWalletPass)
			tokens.POST("/:id/revoke", middleware.RequireManager(), d.tokenHandler.Revoke)
		}

		// Customer routes (any staff)
		customers := v1.Group("/customers")
		customers.Use(d.authMiddleware)
		{
			customers.GET("/:id/balance", d.loyaltyHandler.Balance)
			customers.GET("/:id/ledger", d.loyaltyHandler.Ledger)
			customers.GET("/:id/tokens", d.tokenHandler.ListByCustomer)
			customers.POST("/:id/wallet-claim", d.tokenHandler.CreateWalletClaim)
		}

		// Ledger write routes
		loyalty := v1.Group("/loyalty")
		loyalty.Use(d.authMiddleware)
		{
			loyalty.POST("/earn", d.loyaltyHandler.Earn)
			loyalty.POST("/redeem", d.rewardHandler.Redeem)
			loyalty.POST("/adjust", middleware.RequireOwner(), d.loyaltyHandler.Adjust)
		}

		// Rule versions (read for managers, append for owners)
		rules := v1.Group("/rules")
		rules.Use(d.authMiddleware)
		{
			rules.GET("", middleware.RequireManager(), d.rulesHandler.List)
			rules.GET("/active", d.rulesHandler.Active)
			rules.POST("", middleware.RequireOwner(), d.rulesHandler.Create)
		}

		// Reward catalog
		rewards := v1.Group("/rewards")
		rewards.Use(d.authMiddleware)
		{
			rewards.GET("", d.rewardHandler.List)
			rewards.POST("", middleware.RequireManager(), d.rewardHandler.Create)
			rewards.POST("/:id/deactivate", middleware.RequireManager(), d.rewardHandler.Deactivate)
		}

		// Redemption reversal (managers and up)
		redemptions := v1.Group("/redemptions")
		redemptions.Use(d.authMiddleware, middleware.RequireManager())
		{
			redemptions.POST("/:id/reverse", d.rewardHandler.Reverse)
		}

		// Audit trail (owner only)
		audit := v1.Group("/audit-logs")
		audit.Use(d.authMiddleware, middleware.RequireOwner())
		{
			audit.GET("", d.auditHandler.List)
		}
	}
}
