package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(origins []string, method, origin string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.GET("/cycles", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/cycles", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(method, "/cycles", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAllowAllWhenUnconfigured(t *testing.T) {
	w := serve(nil, http.MethodGet, "http://viewer.local")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestAllowListed(t *testing.T) {
	w := serve([]string{"http://viewer.local/"}, http.MethodGet, "http://viewer.local")
	assert.Equal(t, "http://viewer.local", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve([]string{"http://viewer.local"}, http.MethodGet, "http://evil.local")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	w := serve(nil, http.MethodOptions, "http://viewer.local")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
