package docstorerepo

import (
	"context"

	"github.com/docuforge/docuforge/internal/docstore"
	"github.com/docuforge/docuforge/internal/domain/template"
	"github.com/docuforge/docuforge/internal/logger"
	"github.com/docuforge/docuforge/internal/types"
)

type templateRepository struct {
	store docstore.Store
	log   *logger.Logger
}

// NewTemplateRepository creates a read-only view over templates.
func NewTemplateRepository(store docstore.Store, log *logger.Logger) template.Repository {
	return &templateRepository{store: store, log: log}
}

func (r *templateRepository) Get(ctx context.Context, id string) (*template.Template, error) {
	doc, err := r.store.Get(ctx, types.CollectionTemplates, id)
	if err != nil {
		return nil, err
	}
	return docstore.Decode[template.Template](doc)
}
