// Package auth verifies the bearer tokens issued by the auth service and
// gates role-specific surfaces.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleSales   Role = "sales"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carried by auth service tokens. The username travels in sub.
type Claims struct {
	Role Role `json:"role"`
	UID  int  `json:"uid"`
	jwt.RegisteredClaims
}

func (c *Claims) Username() string { return c.Subject }

// Redirect tells the caller where to send a request that failed a role
// check. Status is 401 for missing or bad tokens and 403 for wrong roles.
type Redirect struct {
	Location string
	Status   int
	Reason   string
}

// Verifier checks HS256 tokens signed with a shared secret.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

func NewVerifier(secret string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: secret is empty")
	}
	return &Verifier{secret: []byte(secret), now: time.Now}, nil
}

// Parse validates token and returns its claims.
func (v *Verifier) Parse(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return claims, nil
}

// RequireRole admits token when its role is one of roles. Admins are
// admitted wherever managers are.
func (v *Verifier) RequireRole(token string, roles ...Role) (*Claims, *Redirect) {
	claims, err := v.Parse(token)
	if err != nil {
		return nil, &Redirect{Location: LoginPath, Status: http.StatusUnauthorized, Reason: err.Error()}
	}

	if !Allowed(claims.Role, roles...) {
		return nil, &Redirect{
			Location: HomePath,
			Status:   http.StatusForbidden,
			Reason:   fmt.Sprintf("role %q not permitted", claims.Role),
		}
	}

	return claims, nil
}

// Allowed reports whether role satisfies any of roles. An empty roles list
// admits any known role.
func Allowed(role Role, roles ...Role) bool {
	switch role {
	case RoleSales, RoleManager, RoleAdmin:
	default:
		return false
	}

	if len(roles) == 0 {
		return true
	}
	if role == RoleAdmin && slices.Contains(roles, RoleManager) {
		return true
	}
	return slices.Contains(roles, role)
}

// Issue signs a token in the auth service's format.
func (v *Verifier) Issue(username string, role Role, uid int, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{
		Role: role,
		UID:  uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
