package auth

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const UsernameMax = 120

// AdminStore is the persistence the auth service needs.
type AdminStore interface {
	Count(ctx context.Context) (int64, error)
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	FindByID(ctx context.Context, id uint) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	UpdateCredentials(ctx context.Context, id uint, username, passwordHash string) error
}

type Service struct {
	store    AdminStore
	tokens   *TokenIssuer
	hasher   Hasher
	adminKey string
	logger   zerolog.Logger

	// compared against when a username does not exist so both paths cost a bcrypt round
	dummyHash string
}

func NewService(store AdminStore, tokens *TokenIssuer, hasher Hasher, adminKey string) *Service {
	dummy, _ := hasher.Hash("portfolio-backend-dummy-password")
	return &Service{
		store:     store,
		tokens:    tokens,
		hasher:    hasher,
		adminKey:  adminKey,
		logger:    log.With().Str("service", "auth").Logger(),
		dummyHash: dummy,
	}
}

func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

// Session is a freshly issued login.
type Session struct {
	Token IssuedToken
	User  models.Identity
}

func validateCredentials(username, password string) error {
	if username == "" {
		return errs.NewMissingRequiredFieldError("username")
	}
	if utf8.RuneCountInString(username) > UsernameMax {
		return errs.NewInvalidFieldError("username", "too long")
	}
	return validatePassword("password", password)
}

func validatePassword(field, password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return errs.NewValidationError(field, "Password must be at least 6 characters.")
	}
	if len(password) > MaxPasswordBytes {
		return errs.NewValidationError(field, "Password must be at most 72 bytes.")
	}
	return nil
}

// Setup creates the first admin. It is refused once any admin exists.
func (s *Service) Setup(ctx context.Context, username, password, setupKey string) error {
	if !SecretsEqual(s.adminKey, setupKey) {
		return errs.NewSecretMismatchError("setupKey")
	}

	n, err := s.store.Count(ctx)
	if err != nil {
		return errs.NewDatabaseError("count", "admins", err)
	}
	if n > 0 {
		return errs.NewAdminExistsError()
	}

	if _, err := s.create(ctx, strings.TrimSpace(username), password); err != nil {
		return err
	}
	s.logger.Info().Str("username", strings.TrimSpace(username)).Msg("Initial admin created")
	return nil
}

// CreateAdmin adds an admin without a setup key. Used by the CLI.
func (s *Service) CreateAdmin(ctx context.Context, username, password string) (models.Identity, error) {
	admin, err := s.create(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return models.Identity{}, err
	}
	return admin.Identity(), nil
}

func (s *Service) create(ctx context.Context, username, password string) (*models.Admin, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to hash password", err)
	}
	admin := &models.Admin{Username: username, PasswordHash: hash}
	if err := s.store.Create(ctx, admin); err != nil {
		apiErr := errs.NewDatabaseError("create", "admin", err)
		if errs.IsConflict(apiErr) {
			return nil, errs.NewConflictError("Username already taken")
		}
		return nil, apiErr
	}
	return admin, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Session{}, errs.NewInvalidCredentialsError()
	}

	admin, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Session{}, errs.NewDatabaseError("find", "admin", err)
		}
		s.hasher.Matches(s.dummyHash, password)
		return Session{}, errs.NewInvalidCredentialsError()
	}
	if !s.hasher.Matches(admin.PasswordHash, password) {
		s.logger.Warn().Str("username", username).Msg("Failed login attempt")
		return Session{}, errs.NewInvalidCredentialsError()
	}

	return s.session(admin.Identity())
}

func (s *Service) session(id models.Identity) (Session, error) {
	token, err := s.tokens.IssueSession(id)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: id}, nil
}

// Verify resolves a session token to its identity.
func (s *Service) Verify(token string) (models.Identity, error) {
	claims, err := s.tokens.Parse(token, PurposeSession)
	if err != nil {
		return models.Identity{}, err
	}
	return claims.Identity(), nil
}

// RequestRecovery issues a short-lived token that can reset one admin's password.
func (s *Service) RequestRecovery(ctx context.Context, username, recoveryKey string) (IssuedToken, error) {
	if !SecretsEqual(s.adminKey, recoveryKey) {
		return IssuedToken{}, errs.NewSecretMismatchError("recoveryKey")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return IssuedToken{}, errs.NewMissingRequiredFieldError("username")
	}

	admin, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return IssuedToken{}, errs.NewDatabaseError("find", "admin", err)
	}
	s.logger.Info().Str("username", username).Msg("Recovery token issued")
	return s.tokens.IssueRecovery(*admin)
}

// ResetPassword consumes a recovery token. The token is bound to the
// password hash it was issued against, so it works once.
func (s *Service) ResetPassword(ctx context.Context, recoveryToken, newPassword string) error {
	claims, err := s.tokens.Parse(recoveryToken, PurposeRecovery)
	if err != nil {
		return err
	}
	if err := validatePassword("newPassword", newPassword); err != nil {
		return err
	}

	adminID, _ := claims.AdminID()
	admin, err := s.store.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewInvalidTokenError(err)
		}
		return errs.NewDatabaseError("find", "admin", err)
	}
	if !SecretsEqual(fingerprint(admin.PasswordHash), claims.Fingerprint) {
		return errs.NewInvalidTokenError(errors.New("recovery token already used"))
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return errs.NewInternalErrorWithCause("failed to hash password", err)
	}
	if err := s.store.UpdateCredentials(ctx, admin.ID, "", hash); err != nil {
		return errs.NewDatabaseError("update", "admin", err)
	}
	s.logger.Info().Uint("adminId", admin.ID).Msg("Password reset")
	return nil
}

// UpdateProfile changes the caller's username and/or password and returns a new session.
func (s *Service) UpdateProfile(ctx context.Context, id models.Identity, newUsername, newPassword string) (Session, error) {
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" && newPassword == "" {
		return Session{}, errs.NewBadRequestError("Nothing to update")
	}
	if utf8.RuneCountInString(newUsername) > UsernameMax {
		return Session{}, errs.NewInvalidFieldError("username", "too long")
	}

	var hash string
	if newPassword != "" {
		if err := validatePassword("password", newPassword); err != nil {
			return Session{}, err
		}
		var err error
		if hash, err = s.hasher.Hash(newPassword); err != nil {
			return Session{}, errs.NewInternalErrorWithCause("failed to hash password", err)
		}
	}

	if newUsername != "" && newUsername != id.Username {
		existing, err := s.store.FindByUsername(ctx, newUsername)
		switch {
		case err == nil && existing.ID != id.ID:
			return Session{}, errs.NewConflictError("Username already taken")
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return Session{}, errs.NewDatabaseError("find", "admin", err)
		}
	}

	if err := s.store.UpdateCredentials(ctx, id.ID, newUsername, hash); err != nil {
		apiErr := errs.NewDatabaseError("update", "admin", err)
		switch {
		case errs.IsConflict(apiErr):
			return Session{}, errs.NewConflictError("Username already taken")
		case errs.IsNotFound(apiErr):
			return Session{}, errs.Unauthorized
		}
		return Session{}, apiErr
	}

	if newUsername != "" {
		id.Username = newUsername
	}
	return s.session(id)
}
