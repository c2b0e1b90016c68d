package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

const (
	Issuer = "portfolio-backend"

	PurposeSession  = "session"
	PurposeRecovery = "recovery"

	DefaultSessionTTL  = 24 * time.Hour
	DefaultRecoveryTTL = 15 * time.Minute
)

// Claims is the payload of every token we sign.
type Claims struct {
	Username    string `json:"username"`
	Purpose     string `json:"purpose"`
	Fingerprint string `json:"fp,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and parses HS256 tokens.
type TokenIssuer struct {
	secret      []byte
	sessionTTL  time.Duration
	recoveryTTL time.Duration
	now         func() time.Time
}

func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("JWT secret key cannot be empty")
	}
	return &TokenIssuer{
		secret:      []byte(secret),
		sessionTTL:  DefaultSessionTTL,
		recoveryTTL: DefaultRecoveryTTL,
		now:         time.Now,
	}, nil
}

// IssuedToken is a signed token and when it stops being valid.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

func (t *TokenIssuer) IssueSession(id models.Identity) (IssuedToken, error) {
	return t.issue(id, PurposeSession, "", t.sessionTTL)
}

// IssueRecovery binds the token to the admin's current password hash so it
// stops working once the password changes.
func (t *TokenIssuer) IssueRecovery(admin models.Admin) (IssuedToken, error) {
	return t.issue(admin.Identity(), PurposeRecovery, fingerprint(admin.PasswordHash), t.recoveryTTL)
}

func (t *TokenIssuer) issue(id models.Identity, purpose, fp string, ttl time.Duration) (IssuedToken, error) {
	now := t.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Username:    id.Username,
		Purpose:     purpose,
		Fingerprint: fp,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id.ID), 10),
			Issuer:    Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return IssuedToken{}, errs.NewInternalErrorWithCause("failed to sign token", err)
	}
	return IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// Parse validates signature, algorithm, issuer, expiry and purpose.
func (t *TokenIssuer) Parse(tokenString, purpose string) (*Claims, error) {
	if tokenString == "" {
		return nil, errs.NewMissingTokenError()
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewExpiredTokenError()
		}
		return nil, errs.NewInvalidTokenError(err)
	}

	if claims.Purpose != purpose {
		return nil, errs.NewInvalidTokenError(errors.New("token purpose mismatch"))
	}
	if _, err := claims.AdminID(); err != nil {
		return nil, errs.NewInvalidTokenError(err)
	}
	return claims, nil
}

func (c *Claims) AdminID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid subject")
	}
	return uint(id), nil
}

func (c *Claims) Identity() models.Identity {
	id, _ := c.AdminID()
	return models.Identity{ID: id, Username: c.Username}
}
