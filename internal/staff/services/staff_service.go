package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/c14220110/hospital-ops-backend/internal/staff/models"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

type StaffService struct {
	DB     *sql.DB
	Logger *zap.Logger
}

func NewStaffService(db *sql.DB, logger *zap.Logger) *StaffService {
	return &StaffService{DB: db, Logger: logger}
}

// Authenticate memvalidasi login staff dan memuat privilege-nya.
func (s *StaffService) Authenticate(ctx context.Context, username, password string) (*models.Staff, error) {
	var st models.Staff
	query := "SELECT id_staff, nama, username, password, role FROM staff WHERE username = ?"
	err := s.DB.QueryRowContext(ctx, query, username).Scan(&st.IDStaff, &st.Nama, &st.Username, &st.Password, &st.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("query staff: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(st.Password), []byte(password)); err != nil {
		s.Logger.Info("Rejected staff login", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	privs, err := s.privileges(ctx, st.IDStaff)
	if err != nil {
		return nil, err
	}
	st.Privileges = privs
	return &st, nil
}

func (s *StaffService) privileges(ctx context.Context, idStaff int) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT privilege FROM staff_privilege WHERE id_staff = ? ORDER BY privilege", idStaff)
	if err != nil {
		return nil, fmt.Errorf("query staff_privilege: %w", err)
	}
	defer rows.Close()

	privs := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan staff_privilege: %w", err)
		}
		privs = append(privs, p)
	}
	return privs, rows.Err()
}
