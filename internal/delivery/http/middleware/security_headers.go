package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds essential security headers to all responses.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Force HTTPS for this domain
		c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")

		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		// Legacy XSS protection (for older browsers)
		c.Header("X-XSS-Protection", "1; mode=block")

		// Prevent clickjacking by disallowing framing
		c.Header("X-Frame-Options", "DENY")

		// Control referrer information sent with requests
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Restrict browser features access
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")

		// Prevent caching of authenticated API responses
		if c.GetHeader("Authorization") != "" {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
		}

		c.Next()
	}
}
