package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/domain"
	apperrors "github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/errors"
)

var userCols = []string{
	"id", "name", "email", "password_hash", "avatar_public_id", "avatar_url",
	"role", "reset_password_token", "reset_password_expire", "created_at",
}

func sampleUser() domain.User {
	return domain.User{
		ID:       "user-1",
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "$2a$10$hashed",
		Avatar: domain.ProductImage{
			PublicID: "avatars/default",
			URL:      "https://cdn.example.com/avatars/default.png",
		},
		Role:      domain.RoleUser,
		CreatedAt: now,
	}
}

func userRow(u domain.User) []any {
	var token *string
	if u.ResetPasswordToken != "" {
		token = &u.ResetPasswordToken
	}
	return []any{
		u.ID, u.Name, u.Email, u.Password, u.Avatar.PublicID, u.Avatar.URL,
		u.Role, token, u.ResetPasswordExpire, u.CreatedAt,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// UserRepository
// ─────────────────────────────────────────────────────────────────────────────

func TestUserRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Name, u.Email, u.Password, u.Avatar.PublicID, u.Avatar.URL, u.Role, u.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &u)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	u := sampleUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Name, u.Email, u.Password, u.Avatar.PublicID, u.Avatar.URL, u.Role, u.CreatedAt).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "users_email_unique" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), &u)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	u := sampleUser()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs(u.Email).
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(userRow(u)...))

	got, err := repo.GetByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Avatar, got.Avatar)
	assert.Empty(t, got.ResetPasswordToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(userCols))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByResetToken_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	expire := now.Add(15 * time.Minute)
	u := sampleUser()
	u.ResetPasswordToken = "hashed-token"
	u.ResetPasswordExpire = &expire

	mock.ExpectQuery("SELECT (.+) FROM users WHERE reset_password_token").
		WithArgs("hashed-token").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(userRow(u)...))

	got, err := repo.GetByResetToken(context.Background(), "hashed-token")
	require.NoError(t, err)
	assert.Equal(t, "hashed-token", got.ResetPasswordToken)
	require.NotNil(t, got.ResetPasswordExpire)
	assert.Equal(t, expire, *got.ResetPasswordExpire)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	u1 := sampleUser()
	u2 := sampleUser()
	u2.ID = "user-2"
	u2.Email = "ravi@example.com"

	mock.ExpectQuery("SELECT (.+) FROM users ORDER BY created_at DESC").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(userRow(u1)...).
			AddRow(userRow(u2)...))

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "user-2", users[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	u := sampleUser()
	u.ID = "missing"

	mock.ExpectExec("UPDATE users SET name").
		WithArgs(u.Name, u.Email, u.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &u)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePassword_ClearsResetToken(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users").
		WithArgs("$2a$10$newhash", "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdatePassword(context.Background(), "user-1", "$2a$10$newhash")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetResetToken_Stores(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	expire := now.Add(15 * time.Minute)

	mock.ExpectExec("UPDATE users SET reset_password_token").
		WithArgs("hashed-token", &expire, "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.SetResetToken(context.Background(), "user-1", "hashed-token", &expire)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetResetToken_ClearsWithEmptyValues(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users SET reset_password_token").
		WithArgs(nil, (*time.Time)(nil), "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.SetResetToken(context.Background(), "user-1", "", nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateDetails_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users SET name").
		WithArgs("Alice", "alice@example.com", domain.RoleAdmin, "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateDetails(context.Background(), "user-1", "Alice", "alice@example.com", domain.RoleAdmin)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateDetails_DuplicateEmail(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users SET name").
		WithArgs("Alice", "taken@example.com", domain.RoleUser, "user-1").
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "users_email_unique" (SQLSTATE 23505)`))

	err := repo.UpdateDetails(context.Background(), "user-1", "Alice", "taken@example.com", domain.RoleUser)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewUserRepository(mock)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
