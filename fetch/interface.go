package fetch

import "context"

// Transport defines the credentialed upstream caller
type Transport interface {
	// Authenticate acquires a fresh bearer credential
	Authenticate(ctx context.Context) error

	// Post sends one GraphQL query and returns the raw response body
	Post(ctx context.Context, query string) ([]byte, error)

	IsInterfaceNil() bool
}
