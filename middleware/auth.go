package middleware

import (
	"net/http"
	"strings"
	"time"

	userRepo "bcplughub/database/repository/user"
	"bcplughub/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// sessionRefreshTTL is how long a session is cached after a database lookup.
const sessionRefreshTTL = time.Hour

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

func unauthorized(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Detail: detail})
}

// JWTAuthUserMiddleware authenticates a bearer token against the session cache,
// falling back to the token hashes stored on the user. With optional set,
// requests without a token pass through anonymously; a bad token is still rejected.
func JWTAuthUserMiddleware(repo userRepo.UserRepository, authCache *redis.Client, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := utils.GetLogger()
		tokenString := bearerToken(c)
		if tokenString == "" {
			if optional {
				c.Next()
				return
			}
			unauthorized(c, "Not authenticated")
			return
		}

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			unauthorized(c, "Invalid token")
			return
		}
		hash := utils.HashToken(tokenString)
		ctx := c.Request.Context()

		if authCache != nil {
			session, err := utils.GetAuthSession(ctx, authCache, hash)
			switch {
			case err == nil:
				if session.UserID != userID {
					unauthorized(c, "Token mismatch")
					return
				}
				c.Set(utils.ContextUserID, userID)
				c.Set(utils.ContextEmail, session.Email)
				c.Next()
				return
			case err != redis.Nil:
				logger.Warn("auth cache lookup failed, falling back to database", zap.Error(err))
			}
		}

		usr, err := repo.GetByIDWithProjection(userID, bson.M{"id": 1, "bc_email": 1, "token_hashes": 1})
		if err != nil || usr == nil {
			unauthorized(c, "Authentication error")
			return
		}
		found := false
		for _, h := range usr.TokenHashes {
			if h == hash {
				found = true
				break
			}
		}
		if !found {
			unauthorized(c, "Token mismatch")
			return
		}

		session := utils.AuthSession{UserID: usr.ID, Email: usr.BCEmail, TokenHash: hash, CreatedAt: time.Now().UTC()}
		if err := utils.SaveAuthSession(ctx, authCache, session, sessionRefreshTTL); err != nil {
			logger.Warn("auth cache refresh failed", zap.Error(err))
		}

		c.Set(utils.ContextUserID, usr.ID)
		c.Set(utils.ContextEmail, usr.BCEmail)
		c.Next()
	}
}

// MatchPathUser rejects authenticated requests whose token subject differs
// from the user named by the path parameter.
func MatchPathUser(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authed := c.GetString(utils.ContextUserID)
		if authed != "" && authed != c.Param(param) {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{Detail: "Not allowed to act for this user"})
			return
		}
		c.Next()
	}
}
