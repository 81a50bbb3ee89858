package api

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/database/models"
	"github.com/disgoorg/snowflake/v2"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8

	invalidLogin = "Invalid username or password"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	UserID   string `json:"userId"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type sessionView struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// HashPassword is shared with the CLI so both create the same hashes.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Server) health(c *fiber.Ctx) error {
	return SendSuccess(c, fiber.Map{"status": "ok", "version": s.deps.Version}, "")
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil || req.Username == "" || req.Password == "" {
		return SendBadRequest(c, "Username and password are required", nil)
	}

	user, err := s.deps.Admins.FindByUsername(c.UserContext(), req.Username)
	if errors.Is(err, database.ErrNotFound) {
		return SendUnauthorized(c, invalidLogin)
	}
	if err != nil {
		return SendInternalServerError(c, "An error occurred during login")
	}
	if user.Role != models.RoleAdmin || user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		slog.Warn("Failed admin login",
			slog.String("type", "api"),
			slog.String("user_name", req.Username),
			slog.String("ip", c.IP()))
		return SendUnauthorized(c, invalidLogin)
	}

	session := s.sessions.New(user.ID, user.Username)
	if err = s.sessions.Set(c, session); err != nil {
		return SendInternalServerError(c, "An error occurred during login")
	}
	slog.Info("Admin logged in",
		slog.String("type", "api"),
		slog.String("user_id", user.ID),
		slog.String("user_name", user.Username))
	return SendSuccess(c, sessionView{UserID: user.ID, Username: user.Username}, "Logged in")
}

func (s *Server) logout(c *fiber.Ctx) error {
	s.sessions.Clear(c)
	return SendSuccess(c, nil, "Logged out")
}

func (s *Server) me(c *fiber.Ctx) error {
	session, _ := CurrentSession(c)
	return SendSuccess(c, sessionView{UserID: session.UserID, Username: session.Username}, "")
}

func (s *Server) createAdmin(c *fiber.Ctx) error {
	var req createAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return SendBadRequest(c, "Invalid request body", nil)
	}
	req.Username = strings.TrimSpace(req.Username)

	details := map[string]string{}
	if req.Username == "" {
		details["username"] = "required"
	}
	if len(req.Password) < MinPasswordLength {
		details["password"] = "must be at least 8 characters"
	}
	if _, err := snowflake.Parse(req.UserID); err != nil {
		details["userId"] = "must be a Discord user ID"
	}
	if len(details) > 0 {
		return SendBadRequest(c, "Validation failed", details)
	}

	ctx := c.UserContext()
	if _, err := s.deps.Admins.FindByUsername(ctx, req.Username); err == nil {
		return SendConflict(c, "Username already exists")
	} else if !errors.Is(err, database.ErrNotFound) {
		return SendInternalServerError(c, "Failed to create admin user")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return SendInternalServerError(c, "Failed to create admin user")
	}
	if err = s.deps.Admins.SetCredentials(ctx, req.UserID, req.Username, hash); err != nil {
		return SendInternalServerError(c, "Failed to create admin user")
	}
	return SendCreated(c, sessionView{UserID: req.UserID, Username: req.Username}, "Admin user created successfully")
}

func (s *Server) changePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil || req.CurrentPassword == "" {
		return SendBadRequest(c, "Current and new password are required", nil)
	}
	if len(req.NewPassword) < MinPasswordLength {
		return SendBadRequest(c, "Validation failed", map[string]string{"newPassword": "must be at least 8 characters"})
	}

	session, _ := CurrentSession(c)
	ctx := c.UserContext()
	user, err := s.deps.Admins.FindByUsername(ctx, session.Username)
	if errors.Is(err, database.ErrNotFound) {
		return SendNotFound(c, "User not found")
	}
	if err != nil {
		return SendInternalServerError(c, "Failed to update password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return SendBadRequest(c, "Current password is incorrect", nil)
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return SendInternalServerError(c, "Failed to update password")
	}
	if err = s.deps.Admins.SetCredentials(ctx, user.ID, user.Username, hash); err != nil {
		return SendInternalServerError(c, "Failed to update password")
	}
	return SendSuccess(c, nil, "Password updated successfully")
}
