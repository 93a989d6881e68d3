package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"jumpstart-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("subscribe then duplicate", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)

		w := env.do(t, jsonRequest(t, http.MethodPost, "/api/subscribers", `{"email": "Alice@Example.org"}`))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			Message    string             `json:"message"`
			Subscriber *models.Subscriber `json:"subscriber"`
		}
		decodeJSON(t, w, &resp)
		require.NotNil(t, resp.Subscriber)
		assert.Equal(t, "alice@example.org", resp.Subscriber.Email)
		assert.True(t, resp.Subscriber.Active)

		// same address, different casing
		w = env.do(t, jsonRequest(t, http.MethodPost, "/api/subscribers", `{"email": "alice@example.org"}`))
		assert.Equal(t, http.StatusConflict, w.Code)

		var errResp map[string]string
		decodeJSON(t, w, &errResp)
		assert.Equal(t, "ALREADY_SUBSCRIBED", errResp["code"])
	})

	t.Run("invalid email", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		w := env.do(t, jsonRequest(t, http.MethodPost, "/api/subscribers", `{"email": "not-an-email"}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp map[string]string
		decodeJSON(t, w, &resp)
		assert.Equal(t, models.CodeInvalidEmail, resp["code"])
	})

	t.Run("non-json body", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		w := env.do(t, jsonRequest(t, http.MethodPost, "/api/subscribers", `email=x`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUnsubscribeEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("by id", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		w := env.do(t, jsonRequest(t, http.MethodPost, "/api/subscribers", `{"email": "bob@example.org"}`))
		require.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			Subscriber *models.Subscriber `json:"subscriber"`
		}
		decodeJSON(t, w, &resp)

		w = env.do(t, httptest.NewRequest(http.MethodDelete, "/api/subscribers/"+resp.Subscriber.ID.String(), nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, httptest.NewRequest(http.MethodDelete, "/api/subscribers/"+resp.Subscriber.ID.String(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("by email", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		w := env.do(t, jsonRequest(t, http.MethodPost, "/api/subscribers", `{"email": "carol@example.org"}`))
		require.Equal(t, http.StatusCreated, w.Code)

		w = env.do(t, httptest.NewRequest(http.MethodDelete, "/api/subscribers?email=carol@example.org", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, httptest.NewRequest(http.MethodDelete, "/api/subscribers?email=carol@example.org", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing email parameter", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		w := env.do(t, httptest.NewRequest(http.MethodDelete, "/api/subscribers", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		w := env.do(t, httptest.NewRequest(http.MethodDelete, "/api/subscribers/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp map[string]string
		decodeJSON(t, w, &resp)
		assert.Equal(t, "Subscriber not found", resp["error"])
	})
}
