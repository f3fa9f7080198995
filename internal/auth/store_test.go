package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderboard/internal/api"
	"orderboard/internal/database"
	"orderboard/internal/models"
)

// unsignedToken builds a JWT-shaped token carrying the given claims. The
// console never verifies signatures, so an empty one suffices.
func unsignedToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "none", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "."
}

func TestLoginPersistsAndRestores(t *testing.T) {
	token := unsignedToken(t, map[string]interface{}{"sub": "a1"})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.AuthResponse{
			Token:        token,
			AdminID:      "a1",
			Name:         "Operator",
			Email:        "op@example.com",
			Role:         models.RoleRestaurantAdmin,
			RestaurantID: "r1",
		})
	}))
	defer upstream.Close()

	db, err := database.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()

	client := api.NewClient(upstream.URL + "/api")
	store := NewStore(client, db)

	var loggedIn *models.Admin
	store.OnLogin(func(admin models.Admin) { loggedIn = &admin })

	admin, err := store.Login(context.Background(), "op@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a1", admin.ID)
	assert.Equal(t, "r1", admin.RestaurantID)
	require.NotNil(t, loggedIn)
	assert.Equal(t, admin, *loggedIn)

	store.PersistScope("r1")

	// A fresh store over the same database restores the session.
	restoredClient := api.NewClient(upstream.URL + "/api")
	restored := NewStore(restoredClient, db)
	require.True(t, restored.Restore())

	got, ok := restored.Admin()
	require.True(t, ok)
	assert.Equal(t, admin, got)
	assert.Equal(t, "r1", restored.RestoredScope())
}

func TestRestoreWithoutSession(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(api.NewClient("http://localhost/api"), db)
	assert.False(t, store.Restore())
	_, ok := store.Admin()
	assert.False(t, ok)
}

func TestUnauthorizedForcesLogout(t *testing.T) {
	calls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			_ = json.NewEncoder(w).Encode(models.AuthResponse{Token: "tok", AdminID: "a1", Role: models.RoleAdmin})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer upstream.Close()

	db, err := database.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()

	client := api.NewClient(upstream.URL + "/api")
	store := NewStore(client, db)

	loggedOut := false
	store.OnLogout(func() { loggedOut = true })

	_, err = store.Login(context.Background(), "op@example.com", "secret")
	require.NoError(t, err)

	// Any 401 on any later call clears the session.
	_, err = client.ListOrders(context.Background(), nil, "")
	require.Error(t, err)

	assert.True(t, loggedOut)
	_, ok := store.Admin()
	assert.False(t, ok)
	assert.Empty(t, store.RestoredScope())

	// The persisted session is gone too.
	fresh := NewStore(api.NewClient(upstream.URL+"/api"), db)
	assert.False(t, fresh.Restore())
}

func TestTokenClaimsFillMissingIdentityFields(t *testing.T) {
	token := unsignedToken(t, map[string]interface{}{
		"sub":          "a9",
		"email":        "claims@example.com",
		"role":         models.RoleRestaurantAdmin,
		"restaurantId": "r9",
	})
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Login payload omits everything but the token.
		_ = json.NewEncoder(w).Encode(models.AuthResponse{Token: token})
	}))
	defer upstream.Close()

	db, err := database.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(api.NewClient(upstream.URL+"/api"), db)
	admin, err := store.Login(context.Background(), "op@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "a9", admin.ID)
	assert.Equal(t, "claims@example.com", admin.Email)
	assert.Equal(t, models.RoleRestaurantAdmin, admin.Role)
	assert.Equal(t, "r9", admin.RestaurantID)
}

func TestExplicitLogout(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.AuthResponse{Token: "tok", AdminID: "a1", Role: models.RoleAdmin})
	}))
	defer upstream.Close()

	db, err := database.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(api.NewClient(upstream.URL+"/api"), db)
	_, err = store.Login(context.Background(), "op@example.com", "secret")
	require.NoError(t, err)

	store.Logout()
	_, ok := store.Admin()
	assert.False(t, ok)
	assert.False(t, NewStore(api.NewClient(upstream.URL+"/api"), db).Restore())
}
