package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/domain"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/event"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/mailer"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/repository"
	apperrors "github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/errors"
)

// resetTokenTTL is how long a password reset link stays usable.
const resetTokenTTL = 15 * time.Minute

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Generate(userID, name, email, role string) (string, error)
}

// RegisterInput holds the parameters for creating an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdatePasswordInput holds the parameters for a logged-in password change.
type UpdatePasswordInput struct {
	UserID          string
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// ResetPasswordInput holds the parameters for a token-driven password reset.
type ResetPasswordInput struct {
	Token           string
	Password        string
	ConfirmPassword string
}

// UserService implements registration, authentication, and account
// management.
type UserService struct {
	repo        repository.UserRepository
	tokens      TokenIssuer
	mail        mailer.Sender
	events      event.Publisher
	logger      *slog.Logger
	frontendURL string
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, tokens TokenIssuer, mail mailer.Sender, events event.Publisher, logger *slog.Logger, frontendURL string) *UserService {
	return &UserService{
		repo:        repo,
		tokens:      tokens,
		mail:        mail,
		events:      events,
		logger:      logger,
		frontendURL: frontendURL,
	}
}

// Register creates a new account and returns it with a signed token.
func (s *UserService) Register(ctx context.Context, input *RegisterInput) (*domain.User, string, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, "", apperrors.InvalidInput("please enter name, email and password")
	}
	if len(input.Password) < 8 {
		return nil, "", apperrors.InvalidInput("password should have at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:       uuid.New().String(),
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hash),
		Avatar: domain.ProductImage{
			PublicID: "avatars/default",
			URL:      "https://res.cloudinary.com/demo/image/upload/default_avatar.png",
		},
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user.ID, user.Name, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	if err := s.events.PublishUserRegistered(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "failed to publish user.registered", slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// Login verifies credentials and returns the account with a signed token.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperrors.InvalidInput("please enter email and password")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.Unauthorized("invalid email or password")
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID, user.Name, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// ForgotPassword generates a reset token, stores its hash with a 15
// minute expiry, and mails the reset link. If the mail cannot be sent
// the stored token is cleared so no dangling token stays valid.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFoundMsg("user not found")
		}
		return fmt.Errorf("find user: %w", err)
	}

	plain, hashed, err := domain.NewResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().UTC().Add(resetTokenTTL)
	if err := s.repo.SetResetToken(ctx, user.ID, hashed, &expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/password/reset/%s", s.frontendURL, plain)
	msg := &mailer.Message{
		To:      user.Email,
		Subject: "Password Recovery",
		Body: fmt.Sprintf(
			"Your password reset link is:\n\n%s\n\nIf you have not requested this email then please ignore it.",
			resetURL,
		),
	}

	if err := s.mail.Send(ctx, msg); err != nil {
		if clearErr := s.repo.SetResetToken(ctx, user.ID, "", nil); clearErr != nil {
			s.logger.ErrorContext(ctx, "failed to clear reset token after send failure",
				slog.String("user_id", user.ID),
				slog.String("error", clearErr.Error()),
			)
		}
		return apperrors.Internal(fmt.Errorf("send reset mail: %w", err))
	}

	if err := s.events.PublishUserPasswordReset(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "failed to publish user.password_reset", slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "password reset mail sent", slog.String("user_id", user.ID))

	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *UserService) ResetPassword(ctx context.Context, input *ResetPasswordInput) (*domain.User, error) {
	if input.Password == "" || input.Password != input.ConfirmPassword {
		return nil, apperrors.InvalidInput("password does not match confirm password")
	}
	if len(input.Password) < 8 {
		return nil, apperrors.InvalidInput("password should have at least 8 characters")
	}

	user, err := s.repo.GetByResetToken(ctx, domain.HashResetToken(input.Token))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput("reset password token is invalid or has expired")
		}
		return nil, fmt.Errorf("find user by reset token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return nil, fmt.Errorf("update password: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset", slog.String("user_id", user.ID))

	return user, nil
}

// GetProfile returns the account for the given id.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", userID)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes the account's name and email.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name, email string) (*domain.User, error) {
	if name == "" || email == "" {
		return nil, apperrors.InvalidInput("please enter name and email")
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Email = email

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdatePassword changes the password of a logged-in user after
// verifying the old one.
func (s *UserService) UpdatePassword(ctx context.Context, input *UpdatePasswordInput) error {
	user, err := s.GetProfile(ctx, input.UserID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)) != nil {
		return apperrors.InvalidInput("old password is incorrect")
	}
	if input.NewPassword == "" || input.NewPassword != input.ConfirmPassword {
		return apperrors.InvalidInput("password does not match confirm password")
	}
	if input.NewPassword == input.OldPassword {
		return apperrors.InvalidInput("new password must differ from the old password")
	}
	if len(input.NewPassword) < 8 {
		return apperrors.InvalidInput("password should have at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

// ListUsers returns every account, for the admin dashboard.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser returns a single account by id, for the admin dashboard.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.GetProfile(ctx, id)
}

// UpdateUser changes an account's name, email, and role, for the admin
// dashboard.
func (s *UserService) UpdateUser(ctx context.Context, id, name, email, role string) error {
	if !domain.IsValidRole(role) {
		return apperrors.InvalidInput("role must be one of: user, admin")
	}

	if err := s.repo.UpdateDetails(ctx, id, name, email, role); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user details updated",
		slog.String("user_id", id),
		slog.String("role", role),
	)

	return nil
}

// DeleteUser removes an account.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "user deleted", slog.String("user_id", id))

	return nil
}
