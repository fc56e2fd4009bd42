package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the listed origins to call the console; forms are same origin,
// so this mainly covers the health and metrics endpoints.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", HeaderXRequestID},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range allowedOrigins {
		if o == "*" {
			config.AllowOrigins = nil
			config.AllowCredentials = false
			config.AllowAllOrigins = true
			break
		}
		config.AllowOrigins = append(config.AllowOrigins, o)
	}
	if !config.AllowAllOrigins && len(config.AllowOrigins) == 0 {
		config.AllowOrigins = []string{"http://localhost:8080"}
	}
	return cors.New(config)
}
