package security

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const apiContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"

// SecurityHeadersMiddleware adds security headers to every response. Paths
// under any of uiPrefixes serve HTML and skip the strict content policy.
func (sm *SecurityMiddleware) SecurityHeadersMiddleware(uiPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		if !hasAnyPrefix(c.Request.URL.Path, uiPrefixes) {
			c.Header("Content-Security-Policy", apiContentSecurityPolicy)
		}
		if sm.config.EnableHSTS {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
