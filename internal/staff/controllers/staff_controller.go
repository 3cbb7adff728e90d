package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/c14220110/hospital-ops-backend/internal/staff/models"
	"github.com/c14220110/hospital-ops-backend/internal/staff/services"
	"github.com/c14220110/hospital-ops-backend/pkg/utils"
)

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.Staff, error)
}

type StaffController struct {
	Service   Authenticator
	JWTSecret string
	TokenTTL  time.Duration
	Logger    *zap.Logger
}

func NewStaffController(svc Authenticator, secret string, ttl time.Duration, logger *zap.Logger) *StaffController {
	return &StaffController{Service: svc, JWTSecret: secret, TokenTTL: ttl, Logger: logger}
}

// Login handles POST /api/staff/login
func (sc *StaffController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload",
			"data":    nil,
		})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Username and Password are required",
			"data":    nil,
		})
	}

	st, err := sc.Service.Authenticate(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  http.StatusUnauthorized,
			"message": "Invalid username or password",
			"data":    nil,
		})
	}
	if err != nil {
		sc.Logger.Error("Staff login failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Login failed",
			"data":    nil,
		})
	}

	exp := time.Now().Add(sc.TokenTTL)
	token, err := utils.GenerateJWTToken(sc.JWTSecret, st.IDStaff, st.Username, st.Role, st.Privileges, exp)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to generate token: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Login successful",
		"data": map[string]interface{}{
			"id_staff":   st.IDStaff,
			"nama":       st.Nama,
			"username":   st.Username,
			"role":       st.Role,
			"privileges": st.Privileges,
			"expires_at": exp.Format(time.RFC3339),
			"token":      token,
		},
	})
}
