package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaygate/relay/api"
	"github.com/relaygate/relay/client"
	"github.com/relaygate/relay/storage"
)

// A persisted organization the user no longer belongs to must be replaced
// through the switch when the session resolves, never sent as the tenant
// header.
func TestStartupRestoresSelectionThroughSwitch(t *testing.T) {
	var orgHeaders []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgHeaders = append(orgHeaders, r.Header.Get(client.OrgHeader))
		switch r.URL.Path {
		case "/v1/auth/whoami":
			_ = json.NewEncoder(w).Encode(api.User{ID: "usr-1", Email: "a@b.co"})
		case "/v1/orgs/mine":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []api.OrgMembership{
					{Role: api.RoleMember, Organization: api.Organization{ID: "org-live", Name: "Live"}},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := client.NewClient(srv.URL, "tok")
	require.NoError(t, err)

	st := storage.NewStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, st.Set(storage.KeyCurrentOrg, "org-gone"))

	sess, _, sw := wireSession(c, st)
	sess.Start(context.Background())

	require.NotNil(t, sw.Current())
	assert.Equal(t, "org-live", sw.Current().ID)
	assert.Equal(t, "org-live", c.OrganizationContext())

	var persisted string
	ok, err := st.Get(storage.KeyCurrentOrg, &persisted)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "org-live", persisted, "stale selection must be replaced durably")

	for _, h := range orgHeaders {
		assert.NotEqual(t, "org-gone", h, "stale organization must never scope a request")
	}
}

// Signing out through the wired session resets the selection and the header.
func TestSignOutResetsSelection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/whoami":
			_ = json.NewEncoder(w).Encode(api.User{ID: "usr-1"})
		case "/v1/orgs/mine":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []api.OrgMembership{
					{Role: api.RoleAdmin, Organization: api.Organization{ID: "org-1", Name: "One"}},
				},
			})
		case "/v1/auth/signout":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := client.NewClient(srv.URL, "tok")
	require.NoError(t, err)

	st := storage.NewStore(filepath.Join(t.TempDir(), "state.json"))
	sess, dir, sw := wireSession(c, st)
	sess.Start(context.Background())
	require.NotNil(t, sw.Current())

	require.NoError(t, sess.SignOut(context.Background()))
	assert.Nil(t, sw.Current())
	assert.Empty(t, c.OrganizationContext())
	assert.Empty(t, dir.Memberships())
}
