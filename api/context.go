package api

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolio-backend/models"
)

type keyType string

const identityKey keyType = "identity"

// ctxWithIdentity adds the verified admin to the context
func ctxWithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// ctxGetIdentity retrieves the verified admin from the context
func ctxGetIdentity(ctx context.Context) (models.Identity, error) {
	if ctxValue := ctx.Value(identityKey); ctxValue == nil {
		return models.Identity{}, errors.New("key not found in context")
	} else if id, ok := ctxValue.(models.Identity); !ok {
		return models.Identity{}, errors.New("value is not of type `models.Identity`")
	} else {
		return id, nil
	}
}
