package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/looplj/modelguard/internal/authz"
)

// AuthConfig configures actor resolution.
type AuthConfig struct {
	// JWTSecret verifies bearer tokens. Empty disables token auth, leaving
	// every request anonymous.
	JWTSecret string `conf:"jwt_secret" yaml:"jwt_secret" json:"jwt_secret"`
}

// ActorClaims are the JWT claims recognized by the actor middleware.
type ActorClaims struct {
	jwt.RegisteredClaims

	Name      string `json:"name,omitempty"`
	Superuser bool   `json:"superuser,omitempty"`
}

var errInvalidToken = errors.New("invalid bearer token")

// WithActorAuth resolves the request's actor from its bearer token and
// installs a fresh scope stack on the request context. A request without a
// token proceeds as the anonymous actor; enforcement decides what anonymous
// may do. A present but invalid token is rejected outright.
func WithActorAuth(config AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := authz.WithScopes(c.Request.Context())

		token := bearerToken(c.Request)
		if token != "" {
			if config.JWTSecret == "" {
				AbortWithError(c, http.StatusUnauthorized, errInvalidToken)
				return
			}

			actor, err := actorFromToken(token, config.JWTSecret)
			if err != nil {
				AbortWithError(c, http.StatusUnauthorized, errInvalidToken)
				return
			}

			ctx = authz.WithActor(ctx, actor)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}

	return strings.TrimSpace(token)
}

func actorFromToken(token, secret string) (authz.Actor, error) {
	var claims ActorClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil {
		return authz.Actor{}, err
	}

	if !parsed.Valid || claims.Subject == "" {
		return authz.Actor{}, errInvalidToken
	}

	return authz.Actor{
		ID:        claims.Subject,
		Name:      claims.Name,
		Superuser: claims.Superuser,
	}, nil
}
