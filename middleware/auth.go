package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/eshop-api/auth"
	"github.com/junaidrashid-git/eshop-api/respond"
)

// PublicRoute is one entry of the table of requests that skip credential
// checks. Methods nil means any method. Subtree extends the entry to every
// path below Path.
type PublicRoute struct {
	Path    string
	Methods []string
	Subtree bool
}

// Matches reports whether the request method and path fall under the route.
// Matching is on whole path segments: "/products" covers "/products/123" but
// not "/productsx".
func (p PublicRoute) Matches(method, path string) bool {
	if p.Methods != nil && !slices.Contains(p.Methods, method) {
		return false
	}
	if path == p.Path {
		return true
	}
	return p.Subtree && strings.HasPrefix(path, p.Path+"/")
}

// DefaultPublicRoutes is the catalog's public surface: browsing products and
// categories, account onboarding, uploaded images and the health probe.
func DefaultPublicRoutes(apiPrefix, uploadsPath string) []PublicRoute {
	read := []string{http.MethodGet, http.MethodOptions}
	return []PublicRoute{
		{Path: apiPrefix + "/products", Methods: read, Subtree: true},
		{Path: apiPrefix + "/categories", Methods: read, Subtree: true},
		{Path: apiPrefix + "/users/login"},
		{Path: apiPrefix + "/users/register"},
		{Path: uploadsPath, Methods: []string{http.MethodGet, http.MethodHead}, Subtree: true},
		{Path: "/health", Methods: []string{http.MethodGet}},
	}
}

// Authorize gates every request that is not in the public table behind a
// valid bearer token. Websocket handshakes may pass the token as the
// access_token query parameter instead. Verified claims are stored on the context for
// handlers; failures abort with 401 before any handler runs.
func Authorize(tokens *auth.Tokens, public []PublicRoute) gin.HandlerFunc {
	return func(c *gin.Context) {
		method, path := c.Request.Method, c.Request.URL.Path
		for _, route := range public {
			if route.Matches(method, path) {
				c.Next()
				return
			}
		}

		header := c.GetHeader("Authorization")
		// Browsers cannot set headers on a websocket handshake.
		if header == "" && websocket.IsWebSocketUpgrade(c.Request) {
			if token := c.Query("access_token"); token != "" {
				header = "Bearer " + token
			}
		}

		raw, err := bearerToken(header)
		if err != nil {
			respond.Abort(c, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			slog.Debug("rejected token", "path", path, "error", err)
			respond.Abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		auth.SetClaims(c, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("Authorization header is missing")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("Authorization header must be 'Bearer <token>'")
	}
	return strings.TrimSpace(token), nil
}
