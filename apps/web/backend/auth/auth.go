// Package auth issues and validates demo-session tokens for the web chat.
// There are no passwords: a session names a user id and a role, and the
// signed cookie just keeps later requests consistent with that choice.
package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/supportpilot/supportpilot/pkg/identity"
)

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type SessionRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type Handler struct {
	JWTSecret []byte
}

const sessionExpirationHours = 24

func (h *Handler) HandleCreateSession(c echo.Context) error {
	var req SessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format."})
	}

	user, err := identity.NewUser(req.UserID, req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	expiration := time.Now().Add(time.Hour * sessionExpirationHours)
	claims := &Claims{
		UserID:           user.ID,
		Role:             string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiration)},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.JWTSecret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create token"})
	}

	c.SetCookie(&http.Cookie{
		Name: "token", Value: tokenString, Expires: expiration, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, map[string]string{
		"user_id": user.ID,
		"role":    string(user.Role),
	})
}

func (h *Handler) HandleGetMe(c echo.Context) error {
	user := UserFrom(c)
	return c.JSON(http.StatusOK, map[string]string{
		"user_id": user.ID,
		"role":    string(user.Role),
	})
}

func (h *Handler) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie("token")
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		token, err := jwt.ParseWithClaims(cookie.Value, &Claims{}, func(token *jwt.Token) (any, error) {
			return h.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		}
		c.Set("user", token)
		return next(c)
	}
}

// UserFrom extracts the authenticated identity set by AuthMiddleware.
func UserFrom(c echo.Context) identity.User {
	token := c.Get("user").(*jwt.Token)
	claims := token.Claims.(*Claims)
	role, _ := identity.ParseRole(claims.Role)
	return identity.User{ID: claims.UserID, Role: role}
}
