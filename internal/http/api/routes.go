// Package api wires the HTTP surface onto a gin engine.
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mailmeow/mailmeow/internal/config"
	"github.com/mailmeow/mailmeow/internal/http/api/handlers"
	"github.com/mailmeow/mailmeow/internal/mail"
	"github.com/mailmeow/mailmeow/internal/security"
	"github.com/mailmeow/mailmeow/internal/service"
	"gorm.io/gorm"
)

// RegisterRoutes registers all service routes.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, sender mail.Sender) {
	if r == nil || db == nil {
		return
	}

	svc := service.New(db)

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/healthz", healthHandler.Healthz)

	apiGroup := r.Group("/api")

	userHandler := handlers.NewUserHandler(svc, cfg.JWT)
	apiGroup.POST("/user", userHandler.Register)
	apiGroup.DELETE("/user", userHandler.Delete)
	apiGroup.POST("/user/login", userHandler.Login)

	apiKeyHandler := handlers.NewAPIKeyHandler(svc)
	apiGroup.POST("/user/api_key", apiKeyHandler.Issue)
	apiGroup.DELETE("/user/api_key", apiKeyHandler.Revoke)

	authed := apiGroup.Group("/user")
	authed.Use(userAuthMiddleware(cfg.JWT))
	authed.GET("/api_key", apiKeyHandler.List)

	keyScoped := apiGroup.Group("/:api_key")

	oauthHandler := handlers.NewOAuthHandler(svc)
	keyScoped.POST("/oauth", oauthHandler.Bind)
	keyScoped.PUT("/oauth", oauthHandler.Rebind)
	keyScoped.DELETE("/oauth", oauthHandler.Unbind)
	keyScoped.GET("/oauth", oauthHandler.ListProviders)

	emailHandler := handlers.NewEmailHandler(svc, sender)
	keyScoped.POST("/email", emailHandler.Send)
}

// userAuthMiddleware validates session JWTs and loads the user ID into context.
func userAuthMiddleware(jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Next()
	}
}
