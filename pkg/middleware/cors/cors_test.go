package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter(origins []string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins, "X-Tenant-ID"))
	r.GET("/menu", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestPreflightAllowsTenantHeader(t *testing.T) {
	r := corsRouter([]string{"https://admin.example.com/"})
	req := httptest.NewRequest(http.MethodOptions, "/menu", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Tenant-ID")
}

func TestUnknownOriginIsNotEchoed(t *testing.T) {
	r := corsRouter([]string{"https://admin.example.com"})
	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
