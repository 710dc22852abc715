package security

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/readiness-diagnosis/internal/errors"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/questionnaire"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	MaxNameLength  int           `json:"max_name_length" yaml:"max_name_length"`
	MaxBodyBytes   int64         `json:"max_body_bytes" yaml:"max_body_bytes"`
	AllowedOrigins []string      `json:"allowed_origins" yaml:"allowed_origins"`
	TrustedProxies []string      `json:"trusted_proxies" yaml:"trusted_proxies"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
	EnableHSTS     bool          `json:"enable_hsts" yaml:"enable_hsts"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxNameLength:  200,
		MaxBodyBytes:   1 << 20,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		TrustedProxies: []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"},
		RequestTimeout: 30 * time.Second,
	}
}

type SecurityMiddleware struct {
	config SecurityConfig
}

func NewSecurityMiddleware(config SecurityConfig) *SecurityMiddleware {
	return &SecurityMiddleware{config: config}
}

func (sm *SecurityMiddleware) Config() SecurityConfig { return sm.config }

var (
	scriptPattern     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// SanitizeInput strips markup and collapses whitespace in free-text input.
func (sm *SecurityMiddleware) SanitizeInput(input string) string {
	input = scriptPattern.ReplaceAllString(input, "")
	input = htmlTagPattern.ReplaceAllString(input, "")
	input = whitespacePattern.ReplaceAllString(input, " ")
	return strings.TrimSpace(input)
}

// ValidateInput rejects text that is too long, not UTF-8 or carries control
// characters.
func (sm *SecurityMiddleware) ValidateInput(input string) error {
	if !utf8.ValidString(input) {
		return apperrors.NewValidationError("input contains invalid UTF-8 encoding")
	}
	if utf8.RuneCountInString(input) > sm.config.MaxNameLength {
		return apperrors.NewValidationError("input exceeds maximum length", sm.config.MaxNameLength)
	}
	for _, r := range input {
		if unicode.IsControl(r) {
			return apperrors.NewValidationError("input contains invalid characters")
		}
	}
	return nil
}

// SanitizeSubmission cleans the free-text fields of a submission in place and
// validates them.
func (sm *SecurityMiddleware) SanitizeSubmission(s *questionnaire.Submission) error {
	fields := map[string]*string{
		"companyName": &s.CompanyName,
		"industry":    &s.Industry,
		"size":        &s.Size,
	}
	problems := map[string]string{}
	for name, field := range fields {
		if err := sm.ValidateInput(*field); err != nil {
			problems[name] = err.Error()
			continue
		}
		*field = sm.SanitizeInput(*field)
	}
	if len(problems) > 0 {
		return apperrors.NewValidationErrorWithMap(problems)
	}
	return nil
}

// ValidateContentType requires a JSON body on requests that carry one.
func (sm *SecurityMiddleware) ValidateContentType(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		c.Next()
		return
	}

	contentType := strings.ToLower(c.GetHeader("Content-Type"))
	if !strings.HasPrefix(contentType, "application/json") {
		c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
			"error": "content type must be application/json",
		})
		return
	}

	c.Next()
}

// LimitBody caps the request body size.
func (sm *SecurityMiddleware) LimitBody(c *gin.Context) {
	if sm.config.MaxBodyBytes > 0 && c.Request.Body != nil {
		if c.Request.ContentLength > sm.config.MaxBodyBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "request body too large",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, sm.config.MaxBodyBytes)
	}
	c.Next()
}

// RequestTimeout bounds the request context.
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Header("X-Timeout", strconv.Itoa(int(sm.config.RequestTimeout.Seconds())))

	c.Next()
}

// CORS returns the CORS handler for the configured origins. An empty list or
// "*" allows every origin without credentials.
func (sm *SecurityMiddleware) CORS() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After", "X-Diagnosis-Stored", "Location"},
		MaxAge:        12 * time.Hour,
	}

	allowAll := len(sm.config.AllowedOrigins) == 0
	for _, o := range sm.config.AllowedOrigins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = sm.config.AllowedOrigins
		cfg.AllowCredentials = true
	}

	return cors.New(cfg)
}
