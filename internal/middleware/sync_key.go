package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SyncKeyAuth protects the search sync endpoint using a static bearer key.
// Missing or malformed headers get 401, a wrong key gets 403 and an unconfigured
// key is a server fault (500).
func SyncKeyAuth(expected string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logAuthFailure(log, c, http.StatusUnauthorized, "missing_auth")
			writeSyncError(c, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			logAuthFailure(log, c, http.StatusUnauthorized, "invalid_auth_format")
			writeSyncError(c, http.StatusUnauthorized, "Authorization header must be 'Bearer <key>'")
			return
		}

		if expected == "" {
			logAuthFailure(log, c, http.StatusInternalServerError, "key_not_configured")
			writeSyncError(c, http.StatusInternalServerError, "Sync key is not configured")
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			logAuthFailure(log, c, http.StatusForbidden, "invalid_key")
			writeSyncError(c, http.StatusForbidden, "Invalid sync key")
			return
		}

		c.Next()
	}
}

func writeSyncError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func logAuthFailure(log zerolog.Logger, c *gin.Context, status int, reason string) {
	log.Warn().
		Int("status", status).
		Str("request_id", requestID(c)).
		Str("path", c.Request.URL.Path).
		Str("reason", reason).
		Msg("sync_auth_failed")
}
