package template

import "context"

// Repository provides read access to templates. CRUD lives in another
// subsystem; the pipeline only resolves ids.
type Repository interface {
	Get(ctx context.Context, id string) (*Template, error)
}
