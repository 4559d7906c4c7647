package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/wb-go/wbf/ginext"

	"github.com/CamMacB17/spotpay/internal/domain"
)

const (
	// EventIDKey holds the event the resolved token belongs to.
	EventIDKey = "event_id"
	// TokenHashKey holds the hash of the presented token, for audit entries.
	TokenHashKey = "token_hash"
)

type tokenResolver interface {
	ResolveToken(ctx context.Context, rawToken string) (*domain.AdminToken, error)
}

// AdminAuth resolves the Authorization bearer token to an event-scoped admin
// token and stores the event id on the context. Handlers never see the raw
// token, only its hash.
func AdminAuth(resolver tokenResolver) ginext.HandlerFunc {
	return func(c *ginext.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				ginext.H{"error": "missing admin token"},
			)
			return
		}

		token, err := resolver.ResolveToken(c.Request.Context(), raw)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					ginext.H{"error": "invalid admin token"},
				)
			case errors.Is(err, domain.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					ginext.H{"error": "admin token expired"},
				)
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					ginext.H{"error": "internal server error"},
				)
			}
			return
		}

		c.Set(EventIDKey, token.EventID)
		c.Set(TokenHashKey, token.TokenHash)

		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
