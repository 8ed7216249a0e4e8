package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NickEsColR/link-shorterer-seo/internal/models"

	"github.com/stretchr/testify/assert"
)

func postJSON(r http.Handler, path string, body map[string]interface{}, subject string) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		req.Header.Set(testSubjectHeader, subject)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCreateLinkHandler(t *testing.T) {
	h, db := setupTestHandler()
	r := setupTestRouter(h)

	t.Run("Unauthorized without identity", func(t *testing.T) {
		w := postJSON(r, "/api/v1/links", map[string]interface{}{
			"original_url": "https://example.com",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Create with trusted subject", func(t *testing.T) {
		w := postJSON(r, "/api/v1/links", map[string]interface{}{
			"original_url": "https://example.com",
			"custom_code":  "mycode1",
		}, "auth0|alice")

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, "mycode1", resp["short_code"])
		assert.Equal(t, "http://short.test/mycode1", resp["short_url"])

		// First authenticated action provisioned the user
		var user models.User
		assert.NoError(t, db.Where("external_id = ?", "auth0|alice").First(&user).Error)
	})

	t.Run("Invalid URL rejected by binding", func(t *testing.T) {
		w := postJSON(r, "/api/v1/links", map[string]interface{}{
			"original_url": "not-a-url",
		}, "auth0|alice")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Invalid custom code", func(t *testing.T) {
		w := postJSON(r, "/api/v1/links", map[string]interface{}{
			"original_url": "https://example.com/a",
			"custom_code":  "x",
		}, "auth0|alice")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Taken code conflicts across users", func(t *testing.T) {
		w := postJSON(r, "/api/v1/links", map[string]interface{}{
			"original_url": "https://other.com",
			"custom_code":  "mycode1",
		}, "auth0|bob")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("API key auth works", func(t *testing.T) {
		var user models.User
		db.Where("external_id = ?", "auth0|alice").First(&user)

		data, _ := json.Marshal(map[string]interface{}{
			"original_url": "https://via-api-key.com",
		})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/links", bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", user.APIKey)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestCreateLinkHandler_Quota(t *testing.T) {
	h, _ := setupTestHandlerWithQuota(1)
	r := setupTestRouter(h)

	w := postJSON(r, "/api/v1/links", map[string]interface{}{
		"original_url": "https://a.com",
	}, "auth0|carol")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/api/v1/links", map[string]interface{}{
		"original_url": "https://b.com",
	}, "auth0|carol")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "1", "quota message names the configured limit")
}
