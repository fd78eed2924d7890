package auth

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"

	userdomain "dna-clinic-go/internal/domain/user"
)

var ErrEmailNotVerified = errors.New("google email not verified")

// GoogleVerifier checks Google ID tokens issued for clientID.
type GoogleVerifier struct {
	clientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (userdomain.GoogleIdentity, error) {
	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return userdomain.GoogleIdentity{}, err
	}

	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return userdomain.GoogleIdentity{}, ErrEmailNotVerified
	}

	identity := userdomain.GoogleIdentity{}
	identity.Email, _ = payload.Claims["email"].(string)
	identity.Name, _ = payload.Claims["name"].(string)
	identity.Picture, _ = payload.Claims["picture"].(string)
	return identity, nil
}
