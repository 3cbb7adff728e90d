package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func setupStaffService(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *StaffService) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewStaffService(db, zap.NewNop())
}

func hash(t *testing.T, pw string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(b)
}

var staffColumns = []string{"id_staff", "nama", "username", "password", "role"}

func TestAuthenticate_Success(t *testing.T) {
	db, mock, svc := setupStaffService(t)
	defer db.Close()

	mock.ExpectQuery(`FROM staff WHERE username`).
		WithArgs("asha").
		WillReturnRows(sqlmock.NewRows(staffColumns).AddRow(7, "Asha Rao", "asha", hash(t, "s3cret"), "finance"))
	mock.ExpectQuery(`FROM staff_privilege`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"privilege"}).AddRow("view_dashboard").AddRow("view_statistics"))

	st, err := svc.Authenticate(context.Background(), "asha", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, 7, st.IDStaff)
	assert.Equal(t, "finance", st.Role)
	assert.Equal(t, []string{"view_dashboard", "view_statistics"}, st.Privileges)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	db, mock, svc := setupStaffService(t)
	defer db.Close()

	mock.ExpectQuery(`FROM staff WHERE username`).
		WithArgs("asha").
		WillReturnRows(sqlmock.NewRows(staffColumns).AddRow(7, "Asha Rao", "asha", hash(t, "s3cret"), "finance"))

	_, err := svc.Authenticate(context.Background(), "asha", "guess")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	db, mock, svc := setupStaffService(t)
	defer db.Close()

	mock.ExpectQuery(`FROM staff WHERE username`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(staffColumns))

	_, err := svc.Authenticate(context.Background(), "ghost", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_DBError(t *testing.T) {
	db, mock, svc := setupStaffService(t)
	defer db.Close()

	mock.ExpectQuery(`FROM staff WHERE username`).WillReturnError(errors.New("timeout"))

	_, err := svc.Authenticate(context.Background(), "asha", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
