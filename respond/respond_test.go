package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/eshop-api/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestError_WithDetails(t *testing.T) {
	c, w := newContext()
	Error(c, http.StatusInternalServerError, "boom", gin.H{"orphanedItems": []string{"a"}})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "boom", body["error"])
	assert.Equal(t, []any{"a"}, body["orphanedItems"])
}

func TestAbort(t *testing.T) {
	c, w := newContext()
	Abort(c, http.StatusUnauthorized, "nope")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "nope", decode(t, w)["error"])
}

func TestStoreError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{store.ErrNotFound, http.StatusNotFound, "thing not found"},
		{fmt.Errorf("lookup: %w", store.ErrNotFound), http.StatusNotFound, "thing not found"},
		{store.ErrInvalidID, http.StatusBadRequest, "invalid id"},
		{store.ErrConflict, http.StatusConflict, "record already exists"},
		{errors.New("socket closed"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			c, w := newContext()
			StoreError(c, tt.err, "thing not found")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decode(t, w)["error"])
		})
	}
}
