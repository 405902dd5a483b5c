package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dimitrije/salesdesk-api/internal/services"
	"github.com/dimitrije/salesdesk-api/internal/state"
	"github.com/dimitrije/salesdesk-api/pkg/dto"
	"github.com/dimitrije/salesdesk-api/tests/testutil"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupSessionTest(t *testing.T) (*testutil.MockUserService, *testutil.MockEngine, *state.Store, *SessionHandler) {
	t.Helper()
	mockUserService := new(testutil.MockUserService)
	mockEngine := new(testutil.MockEngine)
	store := state.NewStore()
	handler := NewSessionHandler(store, mockUserService, mockEngine)
	return mockUserService, mockEngine, store, handler
}

func serveSessions(handler *SessionHandler, req *http.Request) *httptest.ResponseRecorder {
	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Get("/sessions/:clientId/state", handler.State)
	app.Post("/sessions/:clientId/customer/:customerId", handler.SelectCustomer)
	app.Post("/sessions/:clientId/options", handler.SetOptions)
	app.Post("/sessions/:clientId/generate", handler.Generate)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestSessionHandler_State_Defaults(t *testing.T) {
	_, _, _, handler := setupSessionTest(t)

	req := httptest.NewRequest(http.MethodGet, "/sessions/client-1/state", nil)
	rec := serveSessions(handler, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var snap state.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, state.DefaultEmailContent, snap.EmailContent)
	assert.Equal(t, state.DefaultTone, snap.Tone)
	assert.Equal(t, state.DefaultLength, snap.Length)
	assert.False(t, snap.Generating)
}

func TestSessionHandler_SelectCustomer(t *testing.T) {
	mockUserService, _, store, handler := setupSessionTest(t)

	customer := testCustomerUser(3, "Jane Doe")
	mockUserService.On("GetByID", mock.Anything, int64(3)).Return(customer, nil)

	req := httptest.NewRequest(http.MethodPost, "/sessions/client-1/customer/3", nil)
	rec := serveSessions(handler, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	sess, ok := store.Lookup("client-1")
	require.True(t, ok)
	require.NotNil(t, sess.SelectedCustomer())
	assert.Equal(t, int64(3), sess.SelectedCustomer().ID)

	mockUserService.AssertExpectations(t)
}

func TestSessionHandler_SelectCustomer_NotFound(t *testing.T) {
	mockUserService, _, _, handler := setupSessionTest(t)

	mockUserService.On("GetByID", mock.Anything, int64(404)).Return(nil, services.ErrNotFound)

	req := httptest.NewRequest(http.MethodPost, "/sessions/client-1/customer/404", nil)
	rec := serveSessions(handler, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "customer not found")
}

func TestSessionHandler_SelectCustomer_InvalidID(t *testing.T) {
	_, _, _, handler := setupSessionTest(t)

	req := httptest.NewRequest(http.MethodPost, "/sessions/client-1/customer/abc", nil)
	rec := serveSessions(handler, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionHandler_SetOptions(t *testing.T) {
	_, _, store, handler := setupSessionTest(t)

	body, _ := json.Marshal(dto.OptionsRequest{Tone: "Casual", Length: "500"})
	req := httptest.NewRequest(http.MethodPost, "/sessions/client-1/options", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serveSessions(handler, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	sess, ok := store.Lookup("client-1")
	require.True(t, ok)
	tone, length := sess.Options()
	assert.Equal(t, "Casual", tone)
	assert.Equal(t, "500", length)
}

func TestSessionHandler_Generate_NoBody(t *testing.T) {
	_, mockEngine, store, handler := setupSessionTest(t)

	mockEngine.On("Start", mock.Anything, mock.Anything, "").Return()

	req := httptest.NewRequest(http.MethodPost, "/sessions/client-1/generate", nil)
	rec := serveSessions(handler, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "generating")

	_, ok := store.Lookup("client-1")
	assert.True(t, ok)
	mockEngine.AssertExpectations(t)
}

func TestSessionHandler_Generate_SelectsCustomerFromBody(t *testing.T) {
	mockUserService, mockEngine, store, handler := setupSessionTest(t)

	customer := testCustomerUser(3, "Jane Doe")
	mockUserService.On("GetByID", mock.Anything, int64(3)).Return(customer, nil)
	mockEngine.On("Start", mock.Anything, mock.Anything, "session-token").Return()

	customerID := int64(3)
	body, _ := json.Marshal(dto.GenerateRequest{CustomerID: &customerID, Tone: "Friendly"})
	req := httptest.NewRequest(http.MethodPost, "/sessions/client-1/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer session-token")
	rec := serveSessions(handler, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	sess, ok := store.Lookup("client-1")
	require.True(t, ok)
	require.NotNil(t, sess.SelectedCustomer())
	assert.Equal(t, int64(3), sess.SelectedCustomer().ID)
	tone, _ := sess.Options()
	assert.Equal(t, "Friendly", tone)

	mockUserService.AssertExpectations(t)
	mockEngine.AssertExpectations(t)
}

func TestSessionHandler_Generate_UnknownCustomer(t *testing.T) {
	mockUserService, mockEngine, _, handler := setupSessionTest(t)

	mockUserService.On("GetByID", mock.Anything, int64(404)).Return(nil, services.ErrNotFound)

	customerID := int64(404)
	body, _ := json.Marshal(dto.GenerateRequest{CustomerID: &customerID})
	req := httptest.NewRequest(http.MethodPost, "/sessions/client-1/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serveSessions(handler, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockEngine.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything)
}
