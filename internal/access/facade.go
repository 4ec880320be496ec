package access

import (
	"context"
	"fmt"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/saran-softdev/component-library-sub001/internal/model"
)

// SidebarModule is the navigation projection of a module.
type SidebarModule struct {
	DisplayGroup string            `json:"display_group"`
	Name         string            `json:"name"`
	Href         string            `json:"href"`
	Icon         string            `json:"icon"`
	Children     []model.ChildLink `json:"children"`
	Order        int               `json:"order"`
}

// Diagnostics describes which matrix answered a resolution. It is for
// operational debugging only and carries nothing security-relevant.
type Diagnostics struct {
	MatrixID        uint   `json:"matrix_id"`
	MatrixType      string `json:"matrix_type"`
	PermissionCount int    `json:"permission_count"`
	ModuleCount     int    `json:"module_count"`
}

// SidebarResult is the response of ResolveSidebarModules.
type SidebarResult struct {
	Modules     []SidebarModule `json:"modules"`
	Diagnostics Diagnostics     `json:"diagnostics"`
}

// Options configures the facade.
type Options struct {
	// Timeout bounds every resolution's store access; a slow store
	// yields ErrStoreUnavailable rather than a hung request.
	Timeout time.Duration
	// CacheSize and CacheTTL size the per-tuple result cache. A zero
	// CacheSize disables caching.
	CacheSize int
	CacheTTL  time.Duration
	// OnCacheHit/OnCacheMiss are optional observability hooks invoked
	// with the operation name ("sidebar" or "components").
	OnCacheHit  func(operation string)
	OnCacheMiss func(operation string)
}

// Facade composes module lookup, precedence resolution, and permission
// evaluation into the two externally invoked operations. Both are
// read-only and idempotent; results are cached per principal tuple and
// the cache is purged on any matrix/module/component mutation.
type Facade struct {
	modules     ModuleDirectory
	resolver    *Resolver
	evaluator   *Evaluator
	cache       *lru.LRU[string, any]
	timeout     time.Duration
	onCacheHit  func(string)
	onCacheMiss func(string)
}

// NewFacade wires the engine over the given stores.
func NewFacade(modules ModuleDirectory, matrices MatrixStore, components ComponentCatalog, opts Options) *Facade {
	noop := func(string) {}
	f := &Facade{
		modules:     modules,
		resolver:    NewResolver(matrices),
		evaluator:   NewEvaluator(components),
		timeout:     opts.Timeout,
		onCacheHit:  opts.OnCacheHit,
		onCacheMiss: opts.OnCacheMiss,
	}
	if f.onCacheHit == nil {
		f.onCacheHit = noop
	}
	if f.onCacheMiss == nil {
		f.onCacheMiss = noop
	}
	if opts.CacheSize > 0 {
		f.cache = lru.NewLRU[string, any](opts.CacheSize, nil, opts.CacheTTL)
	}
	return f
}

// Invalidate drops every cached resolution. Called after any mutation
// of matrices, modules, or components.
func (f *Facade) Invalidate() {
	if f.cache != nil {
		f.cache.Purge()
	}
}

// ResolveComponentAccess returns the components the principal may
// render under the module whose href equals pathname. An empty list is
// a valid outcome: the module is accessible with nothing to render.
func (f *Facade) ResolveComponentAccess(ctx context.Context, pathname string, p Principal) ([]ComponentView, error) {
	if pathname == "" {
		return nil, fmt.Errorf("%w: pathname is required", ErrInvalidArgument)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("components|%s|%d|%d|%d", pathname, p.UserID, p.RoleID, p.OrganizationID)
	if f.cache != nil {
		if cached, ok := f.cache.Get(key); ok {
			f.onCacheHit("components")
			return cached.([]ComponentView), nil
		}
		f.onCacheMiss("components")
	}

	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	module, err := f.modules.FindLiveByHref(ctx, pathname)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, fmt.Errorf("%w: no live module for pathname %q", ErrModuleNotFound, pathname)
	}

	matrix, err := f.resolver.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	views, err := f.evaluator.ComponentsFor(ctx, matrix, module.ID)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		f.cache.Add(key, views)
	}
	return views, nil
}

// ResolveSidebarModules returns the live modules the principal's
// matrix grants read access on, in sidebar order.
func (f *Facade) ResolveSidebarModules(ctx context.Context, p Principal) (*SidebarResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("sidebar|%d|%d|%d", p.UserID, p.RoleID, p.OrganizationID)
	if f.cache != nil {
		if cached, ok := f.cache.Get(key); ok {
			f.onCacheHit("sidebar")
			return cached.(*SidebarResult), nil
		}
		f.onCacheMiss("sidebar")
	}

	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	matrix, err := f.resolver.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	moduleIDs := make([]uint, 0, len(matrix.Permissions))
	for _, perm := range matrix.Permissions {
		if perm.Access.Read {
			moduleIDs = append(moduleIDs, perm.ModuleID)
		}
	}

	// A deleted module behind a permission entry is treated as no
	// permission: FindLiveByIDs drops it.
	modules := []model.Module{}
	if len(moduleIDs) > 0 {
		modules, err = f.modules.FindLiveByIDs(ctx, moduleIDs)
		if err != nil {
			return nil, err
		}
	}

	sidebar := make([]SidebarModule, 0, len(modules))
	for _, m := range modules {
		sidebar = append(sidebar, SidebarModule{
			DisplayGroup: m.SidebarDisplayGroup,
			Name:         m.SidebarDisplayName,
			Href:         m.Href,
			Icon:         m.Icon,
			Children:     m.Children,
			Order:        m.SortOrder,
		})
	}
	sort.SliceStable(sidebar, func(i, j int) bool {
		if sidebar[i].Order != sidebar[j].Order {
			return sidebar[i].Order < sidebar[j].Order
		}
		return sidebar[i].Name < sidebar[j].Name
	})

	result := &SidebarResult{
		Modules: sidebar,
		Diagnostics: Diagnostics{
			MatrixID:        matrix.ID,
			MatrixType:      matrix.MatrixType,
			PermissionCount: len(matrix.Permissions),
			ModuleCount:     len(sidebar),
		},
	}

	if f.cache != nil {
		f.cache.Add(key, result)
	}
	return result, nil
}

func (f *Facade) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, f.timeout)
}
