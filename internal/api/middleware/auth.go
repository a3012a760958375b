package middleware

import (
	"errors"
	"strings"

	"github.com/ITyukz11/payops/internal/constants"
	"github.com/ITyukz11/payops/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

var (
	errMissingToken = errors.New("missing bearer token")
	errMissingClaim = errors.New("token has no subject or role")
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthConfig struct {
	Secret string
	Issuer string
}

// Actor verifies the bearer token and stores the caller on the request. Tokens are
// issued elsewhere; only HS256 is accepted.
func Actor(cfg AuthConfig) fiber.Handler {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(options...)

	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthenticated(errMissingToken)
		}

		var claims Claims
		_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
			return []byte(cfg.Secret), nil
		})
		if err != nil {
			return unauthenticated(err)
		}

		if claims.Subject == "" || claims.Role == "" {
			return unauthenticated(errMissingClaim)
		}

		c.Locals(actorKey, service.Actor{ID: claims.Subject, Role: service.Role(strings.ToUpper(claims.Role))})

		return c.Next()
	}
}

// ActorFrom returns the caller stored by Actor.
func ActorFrom(c *fiber.Ctx) (service.Actor, bool) {
	actor, ok := c.Locals(actorKey).(service.Actor)
	return actor, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func unauthenticated(cause error) error {
	return service.NewServiceError(constants.ErrCodeUnauthenticated, cause)
}
