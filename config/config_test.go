package config

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/chat-relay-api/models"
)

func TestNew(t *testing.T) {
	t.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	t.Setenv("DB_NAME", "test")
	t.Setenv("ENV", "local")
	conf, err := New()
	require.NoError(t, err)

	assert.Equal(t, "test", conf.DatabaseName)
	assert.Equal(t, "5000", conf.Port)
	assert.Equal(t, StoreMongo, conf.StoreDriver)
	assert.Equal(t, 10*time.Second, conf.InactivityThreshold)
	assert.Equal(t, 15*time.Second, conf.ReaperPeriod)
	assert.Equal(t, 100, conf.DefaultMessageLimit)
	assert.Equal(t, []string{"*"}, conf.AllowedOrigins)
}

func TestNewReaperSettings(t *testing.T) {
	t.Setenv("STORE_DRIVER", "badger")
	t.Setenv("ENV", "local")
	t.Setenv("REAPER_PERIOD", "2s")
	t.Setenv("INACTIVITY_THRESHOLD", "30s")
	conf, err := New()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, conf.ReaperPeriod)
	assert.Equal(t, 30*time.Second, conf.InactivityThreshold)
}

func TestNewMongoRequiresURI(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("DB_URI", "")
	_, err := New()
	assert.EqualError(t, err, "DB_URI is required for the mongo store")
}

func TestNewUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "redis")
	_, err := New()
	assert.EqualError(t, err, `unknown STORE_DRIVER "redis"`)
}

func TestNewRejectsZeroThreshold(t *testing.T) {
	t.Setenv("STORE_DRIVER", "badger")
	t.Setenv("INACTIVITY_THRESHOLD", "0s")
	_, err := New()
	assert.Error(t, err)
}

func TestErrorStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorStatus("error it borked", http.StatusBadRequest, rr, errors.New("bad request"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp models.ErrorMessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "error it borked", resp.Response.Message)
	assert.Equal(t, "bad request", resp.Response.Error)
}

func TestErrorStatusHidesServerErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorStatus("failed to list participants", http.StatusInternalServerError, rr, errors.New("connection refused 10.0.0.3:27017"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "10.0.0.3")
}

func TestValidationStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	ValidationStatus("invalid message", rr, []string{"to is required", "text is required"})

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	var resp models.ErrorMessageResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"to is required", "text is required"}, resp.Response.Details)
}

func TestSetLoggerSetsDevelopmentLogger(t *testing.T) {
	l, err := setLogger("development")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(1))
}

func TestSetLoggerSetsProductionLogger(t *testing.T) {
	l, err := setLogger("production")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(2))
}

func TestSetLoggerSetsLocalLogger(t *testing.T) {
	l, err := setLogger("local")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(0))
}
