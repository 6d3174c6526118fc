package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	ua "github.com/mileusna/useragent"

	"luminora-backend/internal/common/errors"
	"luminora-backend/internal/common/logger"
	"luminora-backend/internal/features/blocklist"
)

var botUserAgents = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bot`),
	regexp.MustCompile(`(?i)crawler`),
	regexp.MustCompile(`(?i)spider`),
	regexp.MustCompile(`(?i)scraper`),
	regexp.MustCompile(`(?i)curl`),
	regexp.MustCompile(`(?i)wget`),
	regexp.MustCompile(`(?i)python`),
	regexp.MustCompile(`(?i)java`),
	regexp.MustCompile(`(?i)php`),
	regexp.MustCompile(`(?i)node`),
	regexp.MustCompile(`(?i)axios`),
	regexp.MustCompile(`(?i)fetch`),
	regexp.MustCompile(`(?i)postman`),
	regexp.MustCompile(`(?i)insomnia`),
}

// More than two of these on one request usually means a proxy chain or
// a bot farm rather than a browser.
var suspiciousHeaders = []string{
	"X-Forwarded-For",
	"X-Real-Ip",
	"X-Cluster-Client-Ip",
	"Cf-Connecting-Ip",
}

const minUserAgentLength = 10

// Blocklist rejects every request from a blocked IP.
func Blocklist(repo blocklist.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		blocked, err := repo.Contains(c.Request.Context(), ip)
		if err != nil {
			// A broken blocklist must not take the platform down.
			logger.Error().Err(err).Str("client_ip", ip).Msg("Blocklist lookup failed")
			c.Next()
			return
		}
		if blocked {
			SendError(c, errors.New(errors.ErrCodeBlocked, "Access denied"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// BotDetection rejects requests with bot-like client identifiers.
func BotDetection() gin.HandlerFunc {
	return func(c *gin.Context) {
		userAgent := c.Request.UserAgent()
		ip := c.ClientIP()

		if len(userAgent) < minUserAgentLength {
			logger.Warn().Str("client_ip", ip).Msg("Rejected request without a usable User-Agent")
			SendError(c, errors.New(errors.ErrCodeBlocked, "Invalid request"))
			c.Abort()
			return
		}

		if looksLikeBot(userAgent) {
			logger.Warn().Str("client_ip", ip).Str("user_agent", userAgent).Msg("Bot detected")
			SendError(c, errors.New(errors.ErrCodeBlocked, "Bot access not allowed"))
			c.Abort()
			return
		}

		proxyHeaders := 0
		for _, header := range suspiciousHeaders {
			if c.GetHeader(header) != "" {
				proxyHeaders++
			}
		}
		if proxyHeaders > 2 {
			logger.Warn().Str("client_ip", ip).Int("proxy_headers", proxyHeaders).Msg("Suspicious proxy headers")
			SendError(c, errors.New(errors.ErrCodeBlocked, "Suspicious request"))
			c.Abort()
			return
		}

		c.Next()
	}
}

func looksLikeBot(userAgent string) bool {
	if ua.Parse(userAgent).Bot {
		return true
	}
	for _, pattern := range botUserAgents {
		if pattern.MatchString(userAgent) {
			return true
		}
	}
	return false
}
