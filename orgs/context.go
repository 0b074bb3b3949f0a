package orgs

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/relaygate/relay/api"
	"github.com/relaygate/relay/storage"
)

// HeaderSetter is the API client's tenant-header surface. *client.Client
// satisfies it.
type HeaderSetter interface {
	SetOrganizationContext(orgID string)
	ClearOrganizationContext()
}

// Switch is the single source of truth for the current tenant. A nil current
// organization means the personal workspace. Every change propagates to the
// header setter synchronously, so the outgoing tenant header and the visible
// selection never diverge.
type Switch struct {
	store  *storage.Store
	header HeaderSetter

	mu      sync.Mutex
	current *api.Organization
}

// NewSwitch creates a switch in the personal-workspace state.
func NewSwitch(store *storage.Store, header HeaderSetter) *Switch {
	return &Switch{store: store, header: header}
}

// SetCurrentOrganization selects org as the current tenant, or the personal
// workspace when org is nil. The selection is persisted and the API client's
// tenant header is updated before this returns.
func (s *Switch) SetCurrentOrganization(org *api.Organization) error {
	s.mu.Lock()
	s.current = org
	s.mu.Unlock()

	if org == nil {
		s.header.ClearOrganizationContext()
		return errors.WithMessage(s.store.Delete(storage.KeyCurrentOrg), "failed to clear persisted organization")
	}

	s.header.SetOrganizationContext(org.ID)
	return errors.WithMessage(s.store.Set(storage.KeyCurrentOrg, org.ID), "failed to persist organization selection")
}

// RestoreSelection resolves the current organization after a directory load:
// the persisted selection when still present in the directory, else the first
// membership, else the personal workspace.
func (s *Switch) RestoreSelection(memberships []api.OrgMembership) error {
	var persisted string
	if _, err := s.store.Get(storage.KeyCurrentOrg, &persisted); err != nil {
		return err
	}

	if persisted != "" {
		for i := range memberships {
			if memberships[i].Organization.ID == persisted {
				org := memberships[i].Organization
				return s.SetCurrentOrganization(&org)
			}
		}
	}

	if len(memberships) > 0 {
		org := memberships[0].Organization
		return s.SetCurrentOrganization(&org)
	}
	return s.SetCurrentOrganization(nil)
}

// Current returns the selected organization, or nil for the personal
// workspace.
func (s *Switch) Current() *api.Organization {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsPersonalWorkspace reports whether no organization is selected.
func (s *Switch) IsPersonalWorkspace() bool {
	return s.Current() == nil
}

// Reset drops the in-memory selection and clears the tenant header without
// touching durable storage. Run on sign-out, where the session store owns the
// durable clearing.
func (s *Switch) Reset() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.header.ClearOrganizationContext()
}
