package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tedgershon/SafePlate/config"
	"github.com/tedgershon/SafePlate/internal/testhelpers"
)

func TestNew(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDatabase(t)

	cfg := &config.Config{
		ServerHost:     "localhost",
		ServerPort:     "8080",
		SimulateAgents: true,
	}

	server := New(cfg, db, nil)
	assert.NotNil(t, server)
	assert.Equal(t, ":8080", server.http.Addr)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	server.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
