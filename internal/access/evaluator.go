package access

import (
	"context"
	"fmt"

	"github.com/saran-softdev/component-library-sub001/internal/model"
)

// ComponentView is the client-facing projection of a component.
type ComponentView struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Evaluator extracts a module's permission entry from a resolved
// matrix and projects its component list through the catalog.
type Evaluator struct {
	components ComponentCatalog
}

// NewEvaluator returns an evaluator over the given component catalog.
func NewEvaluator(components ComponentCatalog) *Evaluator {
	return &Evaluator{components: components}
}

// ComponentsFor returns the visible components the matrix grants for
// the module. No permission entry for the module is ErrForbidden: both
// absence and explicit empty access deny, but absence is its own
// logged condition. An entry granting zero components is a valid empty
// result. Stale component ids and components that are soft-deleted or
// inactive are dropped silently.
func (e *Evaluator) ComponentsFor(ctx context.Context, matrix *model.AccessMatrix, moduleID uint) ([]ComponentView, error) {
	perm := matrix.PermissionFor(moduleID)
	if perm == nil {
		return nil, fmt.Errorf("%w: matrix %d has no permission entry for module %d",
			ErrForbidden, matrix.ID, moduleID)
	}

	if len(perm.ComponentIDs) == 0 {
		return []ComponentView{}, nil
	}

	components, err := e.components.FindActiveByIDs(ctx, perm.ComponentIDs)
	if err != nil {
		return nil, err
	}

	views := make([]ComponentView, 0, len(components))
	for _, comp := range components {
		views = append(views, ComponentView{
			Name:        comp.ComponentName,
			Description: comp.Description,
			Status:      comp.Status,
		})
	}
	return views, nil
}

// Permission returns the CRUD flags the matrix grants for the module,
// for callers gating create/read/update/delete actions rather than
// widget visibility.
func (e *Evaluator) Permission(matrix *model.AccessMatrix, moduleID uint) (model.AccessLevel, error) {
	perm := matrix.PermissionFor(moduleID)
	if perm == nil {
		return model.AccessLevel{}, fmt.Errorf("%w: matrix %d has no permission entry for module %d",
			ErrForbidden, matrix.ID, moduleID)
	}
	return perm.Access, nil
}
