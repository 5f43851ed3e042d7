package credential

import "context"

// Source yields credentials from some configuration origin.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	// Load returns the credentials the source can see. A source with
	// nothing configured returns an empty slice and no error.
	Load(ctx context.Context) ([]*Credential, error)
}
