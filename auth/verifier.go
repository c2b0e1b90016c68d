package auth

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
)

// CredentialVerifier resolves the credentials on a request to an admin identity.
type CredentialVerifier interface {
	Verify(r *http.Request) (models.Identity, error)
}

// BearerVerifier accepts "Authorization: Bearer <session token>".
type BearerVerifier struct {
	tokens *TokenIssuer
}

func NewBearerVerifier(tokens *TokenIssuer) BearerVerifier {
	return BearerVerifier{tokens: tokens}
}

func (v BearerVerifier) Verify(r *http.Request) (models.Identity, error) {
	token, err := ExtractToken(r.Header.Get("Authorization"))
	if err != nil {
		return models.Identity{}, err
	}
	claims, err := v.tokens.Parse(token, PurposeSession)
	if err != nil {
		return models.Identity{}, err
	}
	return claims.Identity(), nil
}

// ExtractToken extracts the JWT token from an Authorization header value.
func ExtractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errs.NewMissingTokenError()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errs.NewInvalidTokenError(nil)
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errs.NewMissingTokenError()
	}
	return token, nil
}
