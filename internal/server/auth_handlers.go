package server

import (
	"fmt"
	"strconv"
	"time"

	"meetback/internal/middleware"
	"meetback/internal/models"
	"meetback/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		Handle      string `json:"handle"`
		DisplayName string `json:"displayName"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Handle:      req.Handle,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	token, _, err := s.generateToken(user.ID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusCreated, "Account created", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	token, _, err := s.generateToken(user.ID)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}

	return models.Respond(c, fiber.StatusOK, "Logged in", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Verify handles GET /api/auth/verify. Reaching this handler means the token
// already passed AuthRequired; it confirms the session and returns the user.
func (s *Server) Verify(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Session valid", fiber.Map{
		"user": user,
	})
}

// Logout handles POST /api/auth/logout. The current token's JTI is
// blacklisted until its natural expiry so it cannot be replayed.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.authService.Logout(c.UserContext(), authedUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}

	if jti, ok := c.Locals("jti").(string); ok && jti != "" && s.redis != nil {
		if err := s.redis.Set(c.Context(), "blacklist:"+jti, "1", tokenLifetime).Err(); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to blacklist token", "error", err)
		}
	}

	return models.Respond(c, fiber.StatusOK, "Logged out", nil)
}

// GetProfile handles GET /api/auth/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.authService.GetProfile(c.UserContext(), authedUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Profile", fiber.Map{"user": user})
}

// UpdateProfile handles PUT /api/auth/profile
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		DisplayName *string `json:"displayName"`
		Description *string `json:"description"`
		Gender      *string `json:"gender"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.UpdateProfile(c.UserContext(), authedUserID(c), service.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Description: req.Description,
		Gender:      req.Gender,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Profile updated", fiber.Map{"user": user})
}

// GetPublicProfile handles GET /api/auth/user/:handle
func (s *Server) GetPublicProfile(c *fiber.Ctx) error {
	handle := c.Params("handle")
	profile, err := s.authService.GetPublicProfile(c.UserContext(), handle)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "User profile", fiber.Map{"user": profile})
}

// ChangePassword handles POST /api/auth/change-password
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	err := s.authService.ChangePassword(c.UserContext(), authedUserID(c),
		req.CurrentPassword, req.NewPassword)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Password changed", nil)
}

// UploadAvatar handles POST /api/auth/avatar
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	url, err := s.authService.UploadAvatar(c.UserContext(), authedUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Avatar updated", fiber.Map{"avatar": url})
}

// DeleteAccount handles DELETE /api/auth/delete
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	email, err := s.authService.DeleteAccount(c.UserContext(), authedUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if jti, ok := c.Locals("jti").(string); ok && jti != "" && s.redis != nil {
		_ = s.redis.Set(c.Context(), "blacklist:"+jti, "1", tokenLifetime).Err()
	}

	return models.Respond(c, fiber.StatusOK, "Account deleted", fiber.Map{"email": email})
}

// generateToken creates a signed JWT for the given user ID and returns the
// token along with its JTI.
func (s *Server) generateToken(userID uint) (string, string, error) {
	if s.config.JWTSecret == "" {
		return "", "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	jti := s.generateJTI()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": jwtIssuer,
		"aud": jwtAudience,
		"exp": now.Add(tokenLifetime).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": jti,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	return signed, jti, err
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

// GetAllUsers handles GET /api/admin/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	users, err := s.authService.ListUsers(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Users", fiber.Map{"users": users})
}
