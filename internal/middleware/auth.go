package middleware

import (
	"context"
	"errors"
	"strings"

	"school_exam_backend/internal/model"
	"school_exam_backend/internal/util"
	"school_exam_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserLookup loads the stored user a token was issued to.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// AuthMiddleware validates the bearer token, checks it against the stored
// user and puts the claims and the typed account on the context. A token
// whose user was deleted, or whose role or school changed since it was
// issued, is rejected.
func AuthMiddleware(secret string, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, secret)
		if err != nil {
			logger.Log.Debug("rejected token", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Log.Info("token for a missing user", zap.Uint("user_id", claims.UserID))
				util.Unauthorized(c)
			} else {
				util.HandleError(c, err)
			}
			c.Abort()
			return
		}
		if !claims.Matches(user) {
			logger.Log.Info("token no longer matches its user",
				zap.Uint("user_id", user.ID),
				zap.String("token_role", string(claims.Role)),
				zap.String("role", string(user.Role)))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		account, err := model.AccountFromUser(user)
		if err != nil {
			logger.Log.Warn("stored user is not a valid account", zap.Uint("user_id", user.ID), zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextClaimsKey, claims)
		c.Set(util.ContextAccountKey, account)
		c.Next()
	}
}

// RoleMiddleware admits only the listed roles. No role implies another.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		account := util.GetAccountFromContext(c)
		if account == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		for _, role := range roles {
			if account.Role() == role {
				c.Next()
				return
			}
		}

		util.Forbidden(c)
		c.Abort()
	}
}
