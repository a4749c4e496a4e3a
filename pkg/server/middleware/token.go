package middleware

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wardenhq/warden/pkg/config"
	"github.com/wardenhq/warden/pkg/identity"
)

// TokenService issues and validates the HS256 identity tokens the façade
// accepts. Tokens carry the tenant in a private claim and the user in the
// subject.
type TokenService struct {
	key    []byte
	ttl    time.Duration
	config *config.Config
}

type identityClaims struct {
	Tenant string `json:"tenant"`
	jwt.RegisteredClaims
}

// NewTokenService creates a token service with the signing key and the
// token TTL from configuration.
func NewTokenService(key []byte, cfg *config.Config) (*TokenService, error) {
	if len(key) == 0 {
		return nil, errors.New("token signing key must not be empty")
	}
	return &TokenService{key: key, ttl: cfg.IdentityTokenTTL(), config: cfg}, nil
}

// Issue signs a token for the given tenant and user.
func (t *TokenService) Issue(tenant, user string) (string, error) {
	now := time.Now()
	claims := identityClaims{
		Tenant: tenant,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
}

// Verify parses and validates a token, returning the identity it carries.
func (t *TokenService) Verify(tokenString string) (*identity.Identity, error) {
	claims := &identityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Tenant == "" || claims.Subject == "" {
		return nil, errors.New("token is missing identity claims")
	}
	return &identity.Identity{Tenant: claims.Tenant, User: claims.Subject}, nil
}

// Middleware validates the Bearer token and stores the requestor identity
// in the request context.
func (t *TokenService) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Authorization missing"))
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Malformed authorization header"))
			return
		}

		id, err := t.Verify(tokenString)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Invalid token"))
			return
		}

		id.WithRemoteIP(t.remoteIP(r))
		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

// remoteIP resolves the client address, honoring X-Forwarded-For only when
// the direct peer is a trusted proxy.
func (t *TokenService) remoteIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" && t.config.IsTrustedProxy(host) {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip
		}
	}

	return net.ParseIP(host)
}
