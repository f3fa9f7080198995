package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderboard/internal/models"
)

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]models.Order{})
	}))
	defer server.Close()

	client := NewClient(server.URL + "/api")
	client.SetToken("tok123")

	_, err := client.ListOrders(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)

	client.ClearToken()
	_, err = client.ListOrders(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestListOrdersQueryParameters(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]models.Order{{ID: "o1"}})
	}))
	defer server.Close()

	client := NewClient(server.URL + "/api")
	status := models.OrderStatusConfirmed
	orders, err := client.ListOrders(context.Background(), &status, "r1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Contains(t, gotQuery, "status=1")
	assert.Contains(t, gotQuery, "restaurantId=r1")
}

func TestUnauthorizedFiresHookEverywhere(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/api")
	hookFired := 0
	client.OnUnauthorized(func() { hookFired++ })

	_, err := client.ListOrders(context.Background(), nil, "")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)

	err = client.UpdateOrderStatus(context.Background(), "o1", models.OrderStatusConfirmed)
	require.ErrorAs(t, err, &authErr)

	assert.Equal(t, 2, hookFired, "every 401 must fire the hook, reads and writes alike")
}

func TestFetchErrorWrapsReadFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/api")
	_, err := client.ListTableSessions(context.Background(), "")

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "table sessions", fetchErr.Resource)
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
	assert.NotNil(t, errors.Unwrap(fetchErr))
}

func TestMutationErrorWrapsWriteFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/api")
	err := client.CloseTableSession(context.Background(), "s1", "done")

	var mutErr *MutationError
	require.ErrorAs(t, err, &mutErr)
	assert.Equal(t, "close table session", mutErr.Op)
	assert.Equal(t, http.StatusConflict, mutErr.StatusCode)
}

func TestLoginRejectedCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/api")
	_, err := client.Login(context.Background(), "a@b.c", "wrong")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusBadRequest, authErr.StatusCode)
}

func TestLoginSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/admin/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin@example.com", body["email"])
		_ = json.NewEncoder(w).Encode(models.AuthResponse{
			Token:   "tok",
			AdminID: "a1",
			Email:   "admin@example.com",
			Role:    models.RoleAdmin,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL + "/api")
	resp, err := client.Login(context.Background(), "admin@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "a1", resp.Identity().ID)
}

func TestUpdateOrderStatusSendsIntegerStatus(t *testing.T) {
	var gotBody map[string]int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/admin/orders/o1/status", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/api")
	require.NoError(t, client.UpdateOrderStatus(context.Background(), "o1", models.OrderStatusCompleted))
	assert.Equal(t, int(models.OrderStatusCompleted), gotBody["status"])
}

func TestHubURLDerivation(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"https://platform.example.com/api", "wss://platform.example.com/hubs/orders"},
		{"http://localhost:5000/api", "ws://localhost:5000/hubs/orders"},
		{"http://localhost:5000", "ws://localhost:5000/hubs/orders"},
	}
	for _, tc := range cases {
		client := NewClient(tc.base)
		assert.Equal(t, tc.want, client.HubURL(), "base %s", tc.base)
	}
}

func TestErrorTypesUnwrap(t *testing.T) {
	inner := errors.New("inner")
	assert.ErrorIs(t, &FetchError{Resource: "orders", Err: inner}, inner)
	assert.ErrorIs(t, &MutationError{Op: "cancel", Err: inner}, inner)
	assert.Contains(t, (&AuthError{Message: "session expired", StatusCode: 401}).Error(), "session expired")
}
