package http

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/dmitrijs2005/profilehub/internal/common"
	"github.com/dmitrijs2005/profilehub/internal/server/auth"
	"github.com/gofiber/fiber/v2"
)

// TokenVerifier checks bearer tokens and returns their claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

const claimsLocalKey = "claims"

var (
	publicPrefixes = []string{"/api/auth/login", "/api/auth/register", "/api/public"}
	adminPrefixes  = []string{"/api/roles", "/api/admin"}
)

// Gate decides per request path whether a caller may reach a handler.
// Everything outside /api and the public API prefixes is open; the rest
// needs a valid bearer token, and admin prefixes also need the admin role.
type Gate struct {
	verifier TokenVerifier
}

func NewGate(v TokenVerifier) *Gate {
	return &Gate{verifier: v}
}

// Authorize classifies the path and checks the Authorization header value.
// Public paths return nil claims and a nil error without looking at the
// header.
func (g *Gate) Authorize(requestPath, authorization string) (*auth.Claims, error) {
	p := path.Clean("/" + requestPath)
	if isPublic(p) {
		return nil, nil
	}

	token, ok := bearerToken(authorization)
	if !ok {
		return nil, common.ErrMissingCredentials
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if hasAnyPrefix(p, adminPrefixes) && !claims.IsAdmin() {
		return nil, common.ErrForbidden
	}
	return claims, nil
}

// Handler is the fiber middleware form of Authorize. Verified claims are
// attached to the user context and to the request locals.
func (g *Gate) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := g.Authorize(c.Path(), c.Get(common.AuthorizationHeaderName))
		if err != nil {
			return err
		}
		if claims != nil {
			c.Locals(claimsLocalKey, claims)
			c.SetUserContext(auth.WithClaims(userContext(c), claims))
		}
		return c.Next()
	}
}

func isPublic(p string) bool {
	if !underPrefix(p, "/api") {
		return true
	}
	return hasAnyPrefix(p, publicPrefixes)
}

func hasAnyPrefix(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if underPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// underPrefix matches whole path segments only: /api/roles and
// /api/roles/x are under /api/roles, /api/rolesx is not.
func underPrefix(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

func bearerToken(header string) (string, bool) {
	scheme := strings.TrimSpace(common.BearerPrefix)
	if len(header) <= len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) || header[len(scheme)] != ' ' {
		return "", false
	}
	token := strings.TrimSpace(header[len(scheme)+1:])
	if token == "" {
		return "", false
	}
	return token, true
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// claimsFrom returns the claims the gate attached to the request.
func claimsFrom(c *fiber.Ctx) (*auth.Claims, error) {
	claims, ok := auth.ClaimsFromContext(userContext(c))
	if !ok || claims.UserID == "" {
		return nil, common.ErrUnauthenticated
	}
	return claims, nil
}
