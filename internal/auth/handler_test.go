package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-accounts/internal/identity"
)

func TestRecoverPasswordHandler_Success(t *testing.T) {
	stores := fakeStores{identities: newFakeIdentities(), customers: newFakeCustomers()}
	stores.customers.byEmail["a@b.com"] = importedProfile("a@b.com")

	svc, mock := newTestService(t, stores)
	mock.ExpectBegin()
	mock.ExpectCommit()
	handler := NewHandler(svc)

	body := strings.NewReader(`{"recovery_code": 1631959404, "email": "a@b.com", "password": "password123"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/recover-password", body)
	rec := httptest.NewRecorder()
	handler.RecoverPassword(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp MessageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "New Credentials Created for a@b.com.", resp.Message)
}

func TestRecoverPasswordHandler_CodeMismatch(t *testing.T) {
	stores := fakeStores{identities: newFakeIdentities(), customers: newFakeCustomers()}
	stores.customers.byEmail["a@b.com"] = importedProfile("a@b.com")

	svc, _ := newTestService(t, stores)
	handler := NewHandler(svc)

	body := strings.NewReader(`{"recovery_code": 1, "email": "a@b.com", "password": "password123"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/recover-password", body)
	rec := httptest.NewRecorder()
	handler.RecoverPassword(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "incorrect")
}

func TestRecoverPasswordHandler_MalformedBody(t *testing.T) {
	stores := fakeStores{identities: newFakeIdentities(), customers: newFakeCustomers()}

	svc, _ := newTestService(t, stores)
	handler := NewHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/recover-password", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.RecoverPassword(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid request body")
}

func TestRecoverPasswordHandler_ProfileNotFound(t *testing.T) {
	stores := fakeStores{identities: newFakeIdentities(), customers: newFakeCustomers()}

	svc, mock := newTestService(t, stores)
	mock.ExpectBegin()
	mock.ExpectRollback()
	handler := NewHandler(svc)

	body := strings.NewReader(`{"recovery_code": 1631959404, "email": "ghost@b.com", "password": "password123"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/recover-password", body)
	rec := httptest.NewRecorder()
	handler.RecoverPassword(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ghost@b.com")
}

func TestLoginHandler_FormEncoded(t *testing.T) {
	stores := fakeStores{identities: newFakeIdentities(), customers: newFakeCustomers()}
	hash, err := NewHasher().Hash("password123")
	require.NoError(t, err)
	stores.identities.byUsername["a@b.com"] = &identity.Identity{ID: 7, Username: "a@b.com", PasswordHash: hash}

	svc, _ := newTestService(t, stores)
	handler := NewHandler(svc)

	form := url.Values{"username": {"a@b.com"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)

	subject, err := NewJWTService([]byte("test-secret")).Validate(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", subject)
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	stores := fakeStores{identities: newFakeIdentities(), customers: newFakeCustomers()}

	svc, _ := newTestService(t, stores)
	handler := NewHandler(svc)

	form := url.Values{"username": {"a@b.com"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "incorrect username or password")
}

func TestResetPasswordHandler_OldPasswordMismatch(t *testing.T) {
	stores := fakeStores{identities: newFakeIdentities(), customers: newFakeCustomers()}
	hash, err := NewHasher().Hash("password123")
	require.NoError(t, err)
	ident := &identity.Identity{ID: 7, Username: "a@b.com", PasswordHash: hash}
	stores.identities.byUsername["a@b.com"] = ident

	svc, _ := newTestService(t, stores)
	handler := NewHandler(svc)

	body := strings.NewReader(`{"old_password": "wrong-password", "new_password": "password321"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/reset-password", body)
	req = req.WithContext(identity.NewContext(req.Context(), ident))
	rec := httptest.NewRecorder()
	handler.ResetPassword(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, stores.identities.updated, "password unchanged")
}

func TestResetPasswordHandler_Success(t *testing.T) {
	stores := fakeStores{identities: newFakeIdentities(), customers: newFakeCustomers()}
	hash, err := NewHasher().Hash("password123")
	require.NoError(t, err)
	ident := &identity.Identity{ID: 7, Username: "a@b.com", PasswordHash: hash}
	stores.identities.byUsername["a@b.com"] = ident

	svc, _ := newTestService(t, stores)
	handler := NewHandler(svc)

	body := strings.NewReader(`{"old_password": "password123", "new_password": "password321"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/reset-password", body)
	req = req.WithContext(identity.NewContext(req.Context(), ident))
	rec := httptest.NewRecorder()
	handler.ResetPassword(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "New Credentials Created for a@b.com.")

	newHash := stores.identities.updated[7]
	assert.True(t, NewHasher().Verify("password321", newHash))
}

func TestResetPasswordHandler_NoSession(t *testing.T) {
	stores := fakeStores{identities: newFakeIdentities(), customers: newFakeCustomers()}
	svc, _ := newTestService(t, stores)
	handler := NewHandler(svc)

	body := strings.NewReader(`{"old_password": "password123", "new_password": "password321"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/reset-password", body)
	rec := httptest.NewRecorder()
	handler.ResetPassword(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
