package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnhub/internal/auth"
	"learnhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) postIntent(t *testing.T, token string, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/intent", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) token(t *testing.T, u models.User) string {
	t.Helper()
	token, err := auth.GenerateAccessToken(&e.cfg.JWT, u.ID, u.Email, u.Role)
	require.NoError(t, err)
	return token
}

func TestCreateIntentRequiresAuth(t *testing.T) {
	e := newTestEnv(t)
	w := e.postIntent(t, "", map[string]interface{}{"courseId": e.course.ID, "amount": 4999})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, e.gw.calls)
}

func TestCreateIntentHappyPath(t *testing.T) {
	e := newTestEnv(t)
	w := e.postIntent(t, e.token(t, e.user), map[string]interface{}{"courseId": e.course.ID, "amount": 4999})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ClientSecret string `json:"clientSecret"`
		IntentID     string `json:"intentId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pi_fake_secret", resp.ClientSecret)
	assert.Equal(t, "pi_fake", resp.IntentID)

	require.Len(t, e.gw.calls, 1)
	assert.Equal(t, e.user.ID, e.gw.calls[0].Metadata["userId"])
	assert.Equal(t, e.course.ID, e.gw.calls[0].Metadata["courseId"])
}

func TestCreateIntentAmountTamperRejected(t *testing.T) {
	e := newTestEnv(t)
	w := e.postIntent(t, e.token(t, e.user), map[string]interface{}{"courseId": e.course.ID, "amount": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, e.gw.calls) // no gateway intent issued
}

func TestCreateIntentUnknownItem(t *testing.T) {
	e := newTestEnv(t)
	w := e.postIntent(t, e.token(t, e.user), map[string]interface{}{"courseId": "no-such-course", "amount": 4999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateIntentFieldValidation(t *testing.T) {
	e := newTestEnv(t)
	token := e.token(t, e.user)

	// neither item id
	w := e.postIntent(t, token, map[string]interface{}{"amount": 4999})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// both item ids
	w = e.postIntent(t, token, map[string]interface{}{"courseId": e.course.ID, "bundleId": e.bundle.ID, "amount": 4999})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing amount
	w = e.postIntent(t, token, map[string]interface{}{"courseId": e.course.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, e.gw.calls)
}

func TestGatewayFailurePropagatesAs500(t *testing.T) {
	e := newTestEnv(t)
	e.gw.err = fmt.Errorf("gateway unavailable")
	w := e.postIntent(t, e.token(t, e.user), map[string]interface{}{"courseId": e.course.ID, "amount": 4999})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
