package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/obralog/obralog/internal/domain"
)

// ActorKey is the gin context key for the authenticated actor's display
// name, the name written into audit entries.
const ActorKey = "actor"

// authTimingFloor is the minimum response time for failed auth so a
// caller cannot distinguish valid from invalid API keys by timing.
const authTimingFloor = 50 * time.Millisecond

// truncateKey returns at most the first 4 characters of key followed by "...".
func truncateKey(key string) string {
	if len(key) > 4 {
		return key[:4] + "..."
	}

	return key
}

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// AuthMiddleware authenticates requests via Bearer token against the
// identity provider and stores the resolved actor name in the context.
func AuthMiddleware(lookup domain.IdentityLookup, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		apiKey := ExtractBearerToken(c)
		if apiKey == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")

			return
		}

		actor, err := lookup.GetActorByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			log.WithFields(logrus.Fields{
				"client_ip":  c.ClientIP(),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"request_id": c.GetString(RequestIDKey),
				"key_prefix": truncateKey(apiKey),
			}).Warn("authentication failed: invalid api key")

			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid api key")

			return
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}

// ExtractBearerToken extracts the API key from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}

	return strings.TrimPrefix(header, "Bearer ")
}
