// Package orgs tracks which organizations the user belongs to and which one
// is currently selected. The Switch is the single owner of the "current
// tenant" value: nothing else writes the persisted selection or the API
// client's tenant header.
package orgs

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/relaygate/relay/api"
	"github.com/relaygate/relay/logger"
)

type lister interface {
	ListMyOrgs(ctx context.Context) ([]api.OrgMembership, error)
}

// Directory caches the current user's organization memberships.
type Directory struct {
	client lister
	log    zerolog.Logger

	mu          sync.Mutex
	memberships []api.OrgMembership
	loaded      bool
}

// NewDirectory creates an empty directory backed by the given client.
func NewDirectory(client lister) *Directory {
	return &Directory{
		client: client,
		log:    logger.Get().With().Str("component", "orgs").Logger(),
	}
}

// Load fetches the user's memberships and replaces the in-memory directory.
// A fetch failure keeps the previous directory and is logged rather than
// surfaced: membership is non-critical to basic authentication.
func (d *Directory) Load(ctx context.Context) {
	memberships, err := d.client.ListMyOrgs(ctx)
	if err != nil {
		d.log.Warn().Err(err).Msg("failed to load organization directory")
		return
	}

	d.mu.Lock()
	d.memberships = memberships
	d.loaded = true
	d.mu.Unlock()
}

// Refresh re-fetches memberships. Call after actions that may change them,
// e.g. accepting an invite.
func (d *Directory) Refresh(ctx context.Context) {
	d.Load(ctx)
}

// Memberships returns the cached directory.
func (d *Directory) Memberships() []api.OrgMembership {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]api.OrgMembership, len(d.memberships))
	copy(out, d.memberships)
	return out
}

// Loaded reports whether a load has succeeded since the last reset.
func (d *Directory) Loaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded
}

// Find returns the organization with the given id, or nil.
func (d *Directory) Find(id string) *api.Organization {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.memberships {
		if d.memberships[i].Organization.ID == id {
			org := d.memberships[i].Organization
			return &org
		}
	}
	return nil
}

// FindByRef resolves an organization by id or (case-insensitive) name.
func (d *Directory) FindByRef(ref string) *api.Organization {
	if org := d.Find(ref); org != nil {
		return org
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.memberships {
		if strings.EqualFold(d.memberships[i].Organization.Name, ref) {
			org := d.memberships[i].Organization
			return &org
		}
	}
	return nil
}

// Reset empties the directory. Run on sign-out.
func (d *Directory) Reset() {
	d.mu.Lock()
	d.memberships = nil
	d.loaded = false
	d.mu.Unlock()
}
