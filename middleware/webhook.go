package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"flixcrd-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// WebhookToken authenticates a gateway callback by a shared secret carried
// in one of headers. With no secret configured the check is skipped outside
// production and every request is refused in production.
func WebhookToken(provider, expected string, production bool, headers ...string) gin.HandlerFunc {
	expected = strings.TrimSpace(expected)
	return func(c *gin.Context) {
		log := utils.Logger.WithFields(logrus.Fields{
			"source":   "webhooks",
			"provider": provider,
			"ip":       c.ClientIP(),
		})

		if expected == "" {
			if !production {
				c.Next()
				return
			}
			log.Error("Webhook token not configured in production, refusing request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var received string
		for _, h := range headers {
			if v := strings.TrimSpace(c.GetHeader(h)); v != "" {
				received = v
				break
			}
		}

		if subtle.ConstantTimeCompare([]byte(received), []byte(expected)) != 1 {
			log.WithField("token_present", received != "").Warn("Webhook token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
