package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/billing-console/internal/domain"
	apperrors "github.com/spec-kit/billing-console/pkg/util"
)

const principalKey = "auth_principal"

// Credential is an extracted, verified reference to a principal. It still
// has to be resolved against the credential store before it is trusted.
type Credential struct {
	PrincipalID int64
	Kind        domain.PrincipalKind
	SessionID   string
}

// CredentialTransport extracts a credential from a request. Extraction
// failures are silent: the next transport in order gets a chance, and the
// gate decides what an unauthenticated request may do.
type CredentialTransport interface {
	Extract(c *fiber.Ctx) (Credential, bool)
}

// BearerTransport reads and verifies an Authorization: Bearer token.
type BearerTransport struct {
	codec *TokenCodec
}

// NewBearerTransport constructs the bearer header transport.
func NewBearerTransport(codec *TokenCodec) *BearerTransport {
	return &BearerTransport{codec: codec}
}

func (t *BearerTransport) Extract(c *fiber.Ctx) (Credential, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return Credential{}, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Credential{}, false
	}
	claims, err := t.codec.Verify(parts[1])
	if err != nil {
		return Credential{}, false
	}
	id, err := claims.PrincipalID()
	if err != nil {
		return Credential{}, false
	}
	return Credential{PrincipalID: id, Kind: claims.Kind}, true
}

// CookieTransport reads a session cookie and looks the session up in the
// shared store. A store outage surfaces as ErrSessionNotFound inside the
// store, so it degrades to "no credential presented" here.
type CookieTransport struct {
	sessions   SessionStore
	cookieName string
}

// NewCookieTransport constructs the session cookie transport.
func NewCookieTransport(sessions SessionStore, cookieName string) *CookieTransport {
	return &CookieTransport{sessions: sessions, cookieName: cookieName}
}

func (t *CookieTransport) Extract(c *fiber.Ctx) (Credential, bool) {
	id := c.Cookies(t.cookieName)
	if id == "" {
		return Credential{}, false
	}
	summary, err := t.sessions.Get(c.UserContext(), id)
	if err != nil {
		return Credential{}, false
	}
	return Credential{PrincipalID: summary.PrincipalID, Kind: summary.Kind, SessionID: id}, true
}

// Middleware identifies the request's principal before any handler runs.
// Transports are tried in order; the first extracted credential is resolved
// against the credential store and the result attached to the request.
type Middleware struct {
	transports []CredentialTransport
	resolver   *PrincipalResolver
}

// NewMiddleware builds the middleware with the given transport order.
func NewMiddleware(resolver *PrincipalResolver, transports ...CredentialTransport) *Middleware {
	return &Middleware{transports: transports, resolver: resolver}
}

// Authenticate attaches the resolved principal to the request when a valid
// credential is present and otherwise lets the request continue
// unauthenticated; authorization is the gate's job. Credential store
// failures during resolution are fatal to the request.
func (m *Middleware) Authenticate(c *fiber.Ctx) error {
	for _, transport := range m.transports {
		cred, ok := transport.Extract(c)
		if !ok {
			continue
		}
		principal, err := m.resolver.Resolve(c.UserContext(), cred.PrincipalID, cred.Kind)
		if err != nil {
			if errors.Is(err, ErrPrincipalNotFound) || errors.Is(err, ErrPrincipalInactive) {
				break
			}
			return apperrors.NewInternalError(err)
		}
		c.Locals(principalKey, principal)
		if cred.SessionID != "" {
			c.Locals(sessionIDKey, cred.SessionID)
		}
		break
	}
	return c.Next()
}

const sessionIDKey = "auth_session_id"

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}

// SessionIDFromContext returns the session id when the request was
// authenticated via the cookie transport.
func SessionIDFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(sessionIDKey)
	if val == nil {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
