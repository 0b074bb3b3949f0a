package orgs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaygate/relay/api"
	"github.com/relaygate/relay/storage"
)

type fakeLister struct {
	memberships []api.OrgMembership
	err         error
	calls       int
}

func (f *fakeLister) ListMyOrgs(ctx context.Context) ([]api.OrgMembership, error) {
	f.calls++
	return f.memberships, f.err
}

// countingHeader records every tenant-header mutation.
type countingHeader struct {
	sets   []string
	clears int
}

func (h *countingHeader) SetOrganizationContext(orgID string) { h.sets = append(h.sets, orgID) }
func (h *countingHeader) ClearOrganizationContext()           { h.clears++ }

func membership(id, name string, role api.Role) api.OrgMembership {
	return api.OrgMembership{
		Role:         role,
		Organization: api.Organization{ID: id, Name: name},
	}
}

func tempStorage(t *testing.T) *storage.Store {
	t.Helper()
	return storage.NewStore(filepath.Join(t.TempDir(), "state.json"))
}

func TestDirectoryLoad(t *testing.T) {
	lister := &fakeLister{memberships: []api.OrgMembership{
		membership("org-1", "acme", api.RoleAdmin),
	}}
	dir := NewDirectory(lister)

	dir.Load(context.Background())

	require.True(t, dir.Loaded())
	assert.Len(t, dir.Memberships(), 1)
	assert.NotNil(t, dir.Find("org-1"))
	assert.NotNil(t, dir.FindByRef("ACME"))
	assert.Nil(t, dir.Find("org-2"))
}

func TestDirectoryLoadFailureKeepsPrevious(t *testing.T) {
	lister := &fakeLister{memberships: []api.OrgMembership{
		membership("org-1", "acme", api.RoleMember),
	}}
	dir := NewDirectory(lister)
	dir.Load(context.Background())

	lister.err = errors.New("backend down")
	dir.Refresh(context.Background())

	// Non-blocking failure: the previous directory survives.
	assert.Len(t, dir.Memberships(), 1)
}

func TestDirectoryReset(t *testing.T) {
	lister := &fakeLister{memberships: []api.OrgMembership{
		membership("org-1", "acme", api.RoleMember),
	}}
	dir := NewDirectory(lister)
	dir.Load(context.Background())

	dir.Reset()
	assert.Empty(t, dir.Memberships())
	assert.False(t, dir.Loaded())
}

func TestSetCurrentOrganization(t *testing.T) {
	header := &countingHeader{}
	st := tempStorage(t)
	sw := NewSwitch(st, header)

	org := &api.Organization{ID: "org-1", Name: "acme"}
	require.NoError(t, sw.SetCurrentOrganization(org))

	// Exactly one header set with the selected id.
	assert.Equal(t, []string{"org-1"}, header.sets)
	assert.Equal(t, 0, header.clears)
	assert.False(t, sw.IsPersonalWorkspace())

	var persisted string
	ok, err := st.Get(storage.KeyCurrentOrg, &persisted)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "org-1", persisted)

	require.NoError(t, sw.SetCurrentOrganization(nil))
	assert.Equal(t, 1, header.clears)
	assert.True(t, sw.IsPersonalWorkspace())

	ok, err = st.Get(storage.KeyCurrentOrg, &persisted)
	require.NoError(t, err)
	assert.False(t, ok, "persisted key must be removed for personal workspace")
}

func TestRestoreSelectionPersisted(t *testing.T) {
	header := &countingHeader{}
	st := tempStorage(t)
	require.NoError(t, st.Set(storage.KeyCurrentOrg, "org-2"))

	sw := NewSwitch(st, header)
	memberships := []api.OrgMembership{
		membership("org-1", "acme", api.RoleAdmin),
		membership("org-2", "globex", api.RoleMember),
	}

	require.NoError(t, sw.RestoreSelection(memberships))
	require.NotNil(t, sw.Current())
	assert.Equal(t, "org-2", sw.Current().ID)
	assert.Equal(t, []string{"org-2"}, header.sets)
}

func TestRestoreSelectionStaleFallsBackToFirst(t *testing.T) {
	header := &countingHeader{}
	st := tempStorage(t)
	require.NoError(t, st.Set(storage.KeyCurrentOrg, "org-gone"))

	sw := NewSwitch(st, header)
	memberships := []api.OrgMembership{
		membership("org-1", "acme", api.RoleAdmin),
		membership("org-2", "globex", api.RoleMember),
	}

	require.NoError(t, sw.RestoreSelection(memberships))
	require.NotNil(t, sw.Current())
	assert.Equal(t, "org-1", sw.Current().ID)
}

func TestRestoreSelectionEmptyDirectory(t *testing.T) {
	header := &countingHeader{}
	st := tempStorage(t)
	require.NoError(t, st.Set(storage.KeyCurrentOrg, "org-gone"))

	sw := NewSwitch(st, header)
	require.NoError(t, sw.RestoreSelection(nil))

	assert.True(t, sw.IsPersonalWorkspace())
	assert.Equal(t, 1, header.clears)
}

func TestRestoreSelectionNoPersistedPicksFirst(t *testing.T) {
	header := &countingHeader{}
	sw := NewSwitch(tempStorage(t), header)

	memberships := []api.OrgMembership{
		membership("org-1", "acme", api.RoleAdmin),
		membership("org-2", "globex", api.RoleMember),
	}
	require.NoError(t, sw.RestoreSelection(memberships))

	require.NotNil(t, sw.Current())
	assert.Equal(t, "org-1", sw.Current().ID)
}

// Selecting an org and re-running restoration against the same storage
// restores the same org, simulating an app reload.
func TestSelectionSurvivesReload(t *testing.T) {
	st := tempStorage(t)
	memberships := []api.OrgMembership{
		membership("org-1", "acme", api.RoleAdmin),
		membership("org-2", "globex", api.RoleMember),
	}

	first := NewSwitch(st, &countingHeader{})
	org := memberships[1].Organization
	require.NoError(t, first.SetCurrentOrganization(&org))

	second := NewSwitch(st, &countingHeader{})
	require.NoError(t, second.RestoreSelection(memberships))
	require.NotNil(t, second.Current())
	assert.Equal(t, "org-2", second.Current().ID)
}

func TestResetClearsHeaderOnly(t *testing.T) {
	header := &countingHeader{}
	st := tempStorage(t)
	sw := NewSwitch(st, header)

	org := &api.Organization{ID: "org-1"}
	require.NoError(t, sw.SetCurrentOrganization(org))

	sw.Reset()
	assert.True(t, sw.IsPersonalWorkspace())
	assert.Equal(t, 1, header.clears)

	// Durable selection is untouched; sign-out clearing is the session
	// store's job.
	var persisted string
	ok, err := st.Get(storage.KeyCurrentOrg, &persisted)
	require.NoError(t, err)
	assert.True(t, ok)
}
