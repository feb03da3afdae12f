// filepath: internal/api/handlers/info_handler_test.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"streamstore/internal/models"
	"streamstore/internal/services/mocks"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	testInfo := models.Info{
		ServiceName:   "streamstore",
		Version:       "v1.2.3-test",
		UptimeSince:   time.Now(),
		QueueCapacity: 3,
		ScratchDir:    "/tmp/streamstore",
	}

	infoService := new(mocks.MockInfoService)
	infoService.On("GetInfo").Return(testInfo)
	h := &Handlers{Info: infoService}

	rr := httptest.NewRecorder()
	h.GetInfo(rr, httptest.NewRequest("GET", "/api/info", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var response models.Info
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "streamstore", response.ServiceName)
	assert.Equal(t, 3, response.QueueCapacity)
}

func TestHealthCheck(t *testing.T) {
	rr := httptest.NewRecorder()
	HealthCheck(rr, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK\n", rr.Body.String())
}

func TestTriggerHousekeeping(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		hk := new(mocks.MockHousekeepingService)
		hk.On("TriggerHousekeeping").Return(&models.HousekeepingReport{FilesRemoved: 2, SpaceFreedBytes: 42}, nil)
		h := &Handlers{Housekeeping: hk}

		rr := httptest.NewRecorder()
		h.TriggerHousekeeping(rr, httptest.NewRequest("POST", "/api/housekeeping", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"files_removed":2`)
	})

	t.Run("Failure", func(t *testing.T) {
		hk := new(mocks.MockHousekeepingService)
		hk.On("TriggerHousekeeping").Return(nil, errors.New("no such directory"))
		h := &Handlers{Housekeeping: hk}

		rr := httptest.NewRecorder()
		h.TriggerHousekeeping(rr, httptest.NewRequest("POST", "/api/housekeeping", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
