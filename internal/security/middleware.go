package security

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"pibdash/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10000
	clientIdleTimeout = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter stores rate limit information per IP
type RateLimiter struct {
	limiters  map[string]*clientLimiter
	mu        sync.Mutex
	r         rate.Limit
	b         int
	lastSweep time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		r:        r,
		b:        b,
	}
}

// GetLimiter returns the rate limiter for the given key (IP address). Clients
// idle for longer than clientIdleTimeout are swept at most once per timeout,
// and immediately when maxTrackedClients is reached.
func (rl *RateLimiter) GetLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	_, tracked := rl.limiters[key]
	if now.Sub(rl.lastSweep) > clientIdleTimeout || (!tracked && len(rl.limiters) >= maxTrackedClients) {
		rl.cleanupLocked(now, clientIdleTimeout)
		rl.lastSweep = now
	}

	entry, exists := rl.limiters[key]
	if !exists {
		entry = &clientLimiter{limiter: rate.NewLimiter(rl.r, rl.b)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter
}

// cleanup drops limiters of clients idle for longer than maxIdle
func (rl *RateLimiter) cleanup(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.cleanupLocked(time.Now(), maxIdle)
}

func (rl *RateLimiter) cleanupLocked(now time.Time, maxIdle time.Duration) {
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > maxIdle {
			delete(rl.limiters, key)
		}
	}
}

// Len is the number of tracked clients
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	EnableRateLimit       bool
	RateLimitPerSecond    float64
	RateLimitBurst        int
	EnableCORS            bool
	AllowedOrigins        []string
	EnableSecurityHeaders bool
	MaxRequestSize        int64
	EnableRequestID       bool
}

// DefaultSecurityConfig returns default security configuration
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		EnableRateLimit:       true,
		RateLimitPerSecond:    10.0,
		RateLimitBurst:        20,
		EnableCORS:            true,
		AllowedOrigins:        []string{"*"},
		EnableSecurityHeaders: true,
		MaxRequestSize:        1 << 20,
		EnableRequestID:       true,
	}
}

// SetupSecurityMiddleware configures all security middleware
func SetupSecurityMiddleware(router *gin.Engine, config *SecurityConfig) {
	if config == nil {
		config = DefaultSecurityConfig()
	}

	if config.EnableRequestID {
		router.Use(requestid.New())
	}

	if config.EnableSecurityHeaders {
		router.Use(secure.New(secure.Config{
			SSLRedirect:           false,
			STSSeconds:            31536000,
			STSIncludeSubdomains:  true,
			FrameDeny:             true,
			ContentTypeNosniff:    true,
			BrowserXssFilter:      true,
			ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'",
			ReferrerPolicy:        "strict-origin-when-cross-origin",
		}))
	}

	if config.EnableCORS {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = config.AllowedOrigins
		corsConfig.AllowMethods = []string{"GET", "PUT", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
		corsConfig.ExposeHeaders = []string{"X-Request-ID"}
		router.Use(cors.New(corsConfig))
	}

	if config.EnableRateLimit {
		limiter := NewRateLimiter(rate.Limit(config.RateLimitPerSecond), config.RateLimitBurst)
		router.Use(RateLimitMiddleware(limiter))
	}

	router.Use(RequestSizeMiddleware(config.MaxRequestSize))
	router.Use(InputValidationMiddleware())
	router.Use(SecurityLoggingMiddleware())
}

// RateLimitMiddleware implements rate limiting per IP
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.GetLimiter(getClientIP(c)).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": "Too many requests, please try again later",
			})
			return
		}

		c.Next()
	}
}

// RequestSizeMiddleware limits request body size
func RequestSizeMiddleware(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxSize > 0 && c.Request.ContentLength > maxSize {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":   "Request too large",
				"message": "Request body exceeds maximum allowed size",
			})
			return
		}
		if maxSize > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		}

		c.Next()
	}
}

// InputValidationMiddleware rejects malformed query parameters before they
// reach the handlers
func InputValidationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := validateQuery(c); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid query parameters",
				"message": err.Error(),
			})
			return
		}

		c.Next()
	}
}

// SecurityLoggingMiddleware writes one access line per request
func SecurityLoggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		fields := []string{
			"ip=" + param.ClientIP,
			"method=" + param.Method,
			"path=" + param.Path,
			"status=" + fmt.Sprintf("%d", param.StatusCode),
			"latency=" + param.Latency.String(),
			"user_agent=" + fmt.Sprintf("%q", param.Request.UserAgent()),
		}

		if id := param.Request.Header.Get("X-Request-ID"); id != "" {
			fields = append(fields, "request_id="+id)
		}

		if param.StatusCode >= 400 {
			fields = append(fields, "error=true")
		}

		return strings.Join(fields, " ") + "\n"
	})
}

func validateQuery(c *gin.Context) error {
	if top := c.Query("$top"); top != "" {
		if !isValidNumber(top) {
			return fmt.Errorf("invalid $top parameter: must be a positive integer")
		}
	}

	if skip := c.Query("$skip"); skip != "" {
		if !isValidNumber(skip) {
			return fmt.Errorf("invalid $skip parameter: must be a non-negative integer")
		}
	}

	if filter := c.Query("$filter"); len(filter) > 1000 {
		return fmt.Errorf("$filter parameter too long: maximum 1000 characters")
	}

	if search := c.Query("$search"); len(search) > 500 {
		return fmt.Errorf("$search parameter too long: maximum 500 characters")
	}

	if orderBy := c.Query("$orderby"); len(orderBy) > 200 {
		return fmt.Errorf("$orderby parameter too long: maximum 200 characters")
	}

	if aggregation := c.Query("aggregation"); aggregation != "" {
		if _, err := models.ParseGranularity(aggregation); err != nil {
			return err
		}
	}

	return nil
}

// getClientIP extracts the real client IP address
func getClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		if commaIndex := strings.Index(ip, ","); commaIndex != -1 {
			return strings.TrimSpace(ip[:commaIndex])
		}
		return strings.TrimSpace(ip)
	}

	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return strings.TrimSpace(ip)
	}

	return c.ClientIP()
}

// isValidNumber checks if a string is a non-negative integer of sane length
func isValidNumber(s string) bool {
	if s == "" || len(s) > 9 {
		return false
	}

	for _, char := range s {
		if char < '0' || char > '9' {
			return false
		}
	}

	return true
}
