package middlewares

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware is the default policy for the staff API.
func CORSMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{
		"Origin", "Content-Type", "Content-Length", "Accept", "Authorization",
		"X-Requested-With", "Cache-Control",
	}
	cfg.MaxAge = 12 * time.Hour
	return cors.New(cfg)
}

// QRCORSMiddleware is the open policy for the anonymous QR issuance boundary:
// the scan can be fetched from any origin, GET and OPTIONS only.
func QRCORSMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{"GET", "OPTIONS"}
	cfg.AllowHeaders = []string{"Content-Type", "Accept", "X-Requested-With"}
	return cors.New(cfg)
}
