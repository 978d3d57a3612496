// Package identity integrates the external identity provider: account
// creation goes through the provider's admin HTTP API, while access tokens
// are verified locally — the provider signs them with a shared HS256 secret.
package identity

import "context"

// Identity describes the authenticated principal carried by a bearer token.
type Identity struct {
	ID    string
	Email string
	Role  string
}

// Provider is the contract the rest of the server codes against.
type Provider interface {
	// SignUp registers the credentials with the identity provider and
	// returns the provider-issued user id. A duplicate email yields
	// common.ErrorAlreadyExists.
	SignUp(ctx context.Context, email, password string) (string, error)

	// Verify validates a bearer token and extracts the identity.
	// Invalid or expired tokens yield common.ErrInvalidToken.
	Verify(ctx context.Context, token string) (*Identity, error)
}
