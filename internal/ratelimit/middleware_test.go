package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubStore struct {
	limited bool
	keys    []string
}

func (s *stubStore) Limit(key string, _ *gin.Context) rateli.Info {
	s.keys = append(s.keys, key)
	return rateli.Info{
		Limit:       10,
		RateLimited: s.limited,
		ResetTime:   time.Now().Add(time.Minute),
	}
}

func serve(store rateli.Store) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/users/signIn", Middleware(store, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users/signIn", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware_Allows(t *testing.T) {
	s := &stubStore{}
	w := serve(s)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"ratelimit:auth:/api/users/signIn:10.0.0.1"}, s.keys)
}

func TestMiddleware_Blocks(t *testing.T) {
	w := serve(&stubStore{limited: true})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"type":"error","message":"`+TooManyRequestsMessage+`"}`, w.Body.String())
}
