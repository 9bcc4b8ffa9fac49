package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// CORS reflects allowed origins with credentials and short-circuits preflight
// requests before auth middleware runs.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Content-Length", "Authorization", "Accept", "Origin", "X-Requested-With", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           600,
	})

	return func(ctx *gin.Context) {
		passed := false
		c.ServeHTTP(ctx.Writer, ctx.Request, func(w http.ResponseWriter, r *http.Request) {
			passed = true
		})
		if !passed {
			// preflight already answered
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
