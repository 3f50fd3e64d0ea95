package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// Claims is the bearer token body. Subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
	// CompanyID names the company the user acts for, if any.
	CompanyID string `json:"company_id,omitempty"`
}

type AuthConfig struct {
	Secret []byte
	Issuer string
	// Leeway tolerates clock skew on exp and nbf.
	Leeway time.Duration
}

// Authenticate verifies the HS256 bearer token and stores the resulting principal
// on the request context.
func Authenticate(cfg AuthConfig) echo.MiddlewareFunc {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(opts...)
	keyFunc := func(*jwt.Token) (any, error) { return cfg.Secret, nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			raw, ok := bearerToken(ctx.Request())
			if !ok {
				return unauthorized(ctx, "Missing bearer token")
			}

			var claims Claims
			if _, err := parser.ParseWithClaims(raw, &claims, keyFunc); err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return unauthorized(ctx, "Token expired")
				}
				return unauthorized(ctx, "Invalid token")
			}

			principal, err := principalFromClaims(claims)
			if err != nil {
				return unauthorized(ctx, "Invalid token subject or roles")
			}
			ctx.Set(principalKey, principal)
			return next(ctx)
		}
	}
}

// RequireCarrier admits carrier integrations and admins.
func RequireCarrier() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			p, ok := currentPrincipal(ctx)
			if !ok {
				return unauthorized(ctx, "Missing principal")
			}
			if !p.IsCarrier() && !p.IsAdmin() {
				return ctx.JSON(http.StatusForbidden, Error{
					Code:    http.StatusForbidden,
					Message: "Carrier integration access required",
				})
			}
			return next(ctx)
		}
	}
}

func principalFromClaims(c Claims) (identity.Principal, error) {
	userID, err := kernel.UUIDFromString(c.Subject)
	if err != nil {
		return identity.Principal{}, err
	}
	roles := make([]identity.Role, 0, len(c.Roles))
	for _, r := range c.Roles {
		role, err := identity.ParseRole(r)
		if err != nil {
			return identity.Principal{}, err
		}
		roles = append(roles, role)
	}
	principal, err := identity.NewPrincipal(userID, roles...)
	if err != nil || c.CompanyID == "" {
		return principal, err
	}
	companyID, err := kernel.UUIDFromString(c.CompanyID)
	if err != nil {
		return identity.Principal{}, err
	}
	return principal.WithCompany(companyID)
}

func currentPrincipal(ctx echo.Context) (identity.Principal, bool) {
	p, ok := ctx.Get(principalKey).(identity.Principal)
	return p, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusUnauthorized, Error{Code: http.StatusUnauthorized, Message: message})
}
