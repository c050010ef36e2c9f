// Package tenant resolves per-client configuration: branding, default
// FICO, rate sheet, and loan officer contact, keyed by slug.
package tenant

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/investor-cli/internal/model"
	"github.com/sells-group/investor-cli/internal/ratesheet"
	"github.com/sells-group/investor-cli/internal/store"
)

// ErrNotFound reports an unknown tenant slug.
var ErrNotFound = eris.New("tenant: not found")

// Provider layers a directory of YAML tenant files over the store. Files
// win: a slug present on disk shadows the stored row, so local overrides
// work without touching the database.
type Provider struct {
	dir string
	st  store.Store
}

// NewProvider creates a Provider. Either source may be absent: an empty
// dir skips the file layer, a nil store skips the database layer.
func NewProvider(dir string, st store.Store) *Provider {
	return &Provider{dir: dir, st: st}
}

// Resolve returns the tenant for the given slug.
func (p *Provider) Resolve(ctx context.Context, slug string) (*model.Tenant, error) {
	if slug == "" {
		return nil, eris.Wrap(ErrNotFound, "empty slug")
	}

	if p.dir != "" {
		t, err := p.loadFile(slug)
		if err == nil {
			return t, nil
		}
		if !eris.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	if p.st != nil {
		t, err := p.st.GetTenant(ctx, slug)
		if eris.Is(err, store.ErrNotFound) {
			return nil, eris.Wrapf(ErrNotFound, "slug %s", slug)
		}
		if err != nil {
			return nil, eris.Wrapf(err, "tenant: resolve %s", slug)
		}
		return t, nil
	}

	return nil, eris.Wrapf(ErrNotFound, "slug %s", slug)
}

// List returns every known tenant, file layer first, deduplicated by slug.
func (p *Provider) List(ctx context.Context) ([]model.Tenant, error) {
	seen := make(map[string]bool)
	var out []model.Tenant

	if p.dir != "" {
		entries, err := os.ReadDir(p.dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, eris.Wrap(err, "tenant: read dir")
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
				continue
			}
			slug := strings.TrimSuffix(entry.Name(), ".yaml")
			t, err := p.loadFile(slug)
			if err != nil {
				zap.L().Warn("skipping malformed tenant file", zap.String("file", entry.Name()), zap.Error(err))
				continue
			}
			seen[t.Slug] = true
			out = append(out, *t)
		}
	}

	if p.st != nil {
		stored, err := p.st.ListTenants(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "tenant: list stored")
		}
		for _, t := range stored {
			if !seen[t.Slug] {
				out = append(out, t)
			}
		}
	}

	return out, nil
}

func (p *Provider) loadFile(slug string) (*model.Tenant, error) {
	path := filepath.Join(p.dir, slug+".yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, eris.Wrapf(ErrNotFound, "no file for %s", slug)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "tenant: read %s", path)
	}

	var t model.Tenant
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrapf(err, "tenant: parse %s", path)
	}
	if t.Slug == "" {
		t.Slug = slug
	}

	// A malformed client rate sheet is rejected here, not at resolution
	// time where unmatched lookups silently fall back.
	if !t.RateSheet.Empty() {
		if err := ratesheet.Validate(t.RateSheet); err != nil {
			return nil, eris.Wrapf(err, "tenant: %s rate sheet", slug)
		}
	}
	return &t, nil
}
