package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const SessionCookieName = "bucksy_session"

var (
	ErrNoSession      = errors.New("no session cookie")
	ErrBadSignature   = errors.New("invalid session signature")
	ErrSessionExpired = errors.New("session expired")
)

type Session struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Sessions issues stateless cookies: the session JSON plus an HMAC-SHA256
// over it, both base64url encoded.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessions(secret string, ttl time.Duration, secure bool) *Sessions {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sessions{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

func (s *Sessions) New(userID, username string) Session {
	return Session{UserID: userID, Username: username, ExpiresAt: s.now().Add(s.ttl)}
}

func (s *Sessions) Encode(session Session) (string, error) {
	payload, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString(payload) + "." + enc.EncodeToString(s.sign(payload)), nil
}

func (s *Sessions) Decode(value string) (*Session, error) {
	if value == "" {
		return nil, ErrNoSession
	}
	data, mac, ok := strings.Cut(value, ".")
	if !ok {
		return nil, ErrBadSignature
	}
	enc := base64.RawURLEncoding
	payload, err := enc.DecodeString(data)
	if err != nil {
		return nil, ErrBadSignature
	}
	sig, err := enc.DecodeString(mac)
	if err != nil || !hmac.Equal(sig, s.sign(payload)) {
		return nil, ErrBadSignature
	}

	var session Session
	if err = json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if !s.now().Before(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	return &session, nil
}

func (s *Sessions) sign(payload []byte) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write(payload)
	return h.Sum(nil)
}

// Set writes the session cookie on the response.
func (s *Sessions) Set(c *fiber.Ctx, session Session) error {
	value, err := s.Encode(session)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  session.ExpiresAt,
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (s *Sessions) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Required rejects requests without a valid session and stores the session
// in the request locals for handlers.
func (s *Sessions) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := s.Decode(c.Cookies(SessionCookieName))
		if err != nil {
			if errors.Is(err, ErrSessionExpired) {
				s.Clear(c)
			}
			return SendUnauthorized(c, "Authentication required")
		}
		c.Locals(localSession, session)
		return c.Next()
	}
}

func CurrentSession(c *fiber.Ctx) (*Session, bool) {
	s, ok := c.Locals(localSession).(*Session)
	return s, ok
}
