package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/linesmerrill/chat-relay-api/models"
)

// Config holds the project config values
type Config struct {
	Port    string `envconfig:"PORT" default:"5000"`
	BaseURL string `envconfig:"BASE_URL"`
	Env     string `envconfig:"ENV" default:"production"`

	StoreDriver  string `envconfig:"STORE_DRIVER" default:"mongo"`
	URL          string `envconfig:"DB_URI"`
	DatabaseName string `envconfig:"DB_NAME" default:"chat"`
	BadgerPath   string `envconfig:"BADGER_PATH"`

	ReaperPeriod        time.Duration `envconfig:"REAPER_PERIOD" default:"15s"`
	InactivityThreshold time.Duration `envconfig:"INACTIVITY_THRESHOLD" default:"10s"`
	DefaultMessageLimit int           `envconfig:"DEFAULT_MESSAGE_LIMIT" default:"100"`
	QueryTimeout        time.Duration `envconfig:"QUERY_TIMEOUT" default:"10s"`
	SlowRequest         time.Duration `envconfig:"SLOW_REQUEST" default:"1s"`
	AllowedOrigins      []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

const (
	// StoreMongo selects the mongo backed store
	StoreMongo = "mongo"
	// StoreBadger selects the embedded badger store
	StoreBadger = "badger"
)

// New sets up all config related services
func New() (*Config, error) {
	// a missing .env file is fine, the process env wins anyway
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	//setup zap logger and replace default logger
	logger, err := setLogger(c.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	_ = zap.ReplaceGlobals(logger)

	return &c, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case StoreMongo:
		if c.URL == "" {
			return fmt.Errorf("DB_URI is required for the %s store", StoreMongo)
		}
	case StoreBadger:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.ReaperPeriod <= 0 {
		return fmt.Errorf("REAPER_PERIOD must be positive, got %v", c.ReaperPeriod)
	}
	if c.InactivityThreshold <= 0 {
		return fmt.Errorf("INACTIVITY_THRESHOLD must be positive, got %v", c.InactivityThreshold)
	}
	if c.DefaultMessageLimit <= 0 {
		return fmt.Errorf("DEFAULT_MESSAGE_LIMIT must be positive, got %d", c.DefaultMessageLimit)
	}
	return nil
}

// setLogger picks the zap preset matching the environment the api runs in
func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "local":
		return zap.NewExample(), nil
	case "development":
		return zap.NewDevelopment()
	default:
		return zap.NewProduction()
	}
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err. Server side errors are logged but never echoed back.
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	resp := models.ErrorMessageResponse{Response: models.MessageError{Message: message}}
	if httpStatusCode >= http.StatusInternalServerError {
		zap.S().Errorw(message, "error", err, "status", httpStatusCode)
	} else {
		zap.S().Debugw(message, "error", err, "status", httpStatusCode)
		if err != nil {
			resp.Response.Error = err.Error()
		}
	}
	writeError(w, httpStatusCode, resp)
}

// ValidationStatus writes a 422 along with every constraint the request broke
func ValidationStatus(message string, w http.ResponseWriter, details []string) {
	zap.S().Debugw(message, "details", details)
	writeError(w, http.StatusUnprocessableEntity, models.ErrorMessageResponse{
		Response: models.MessageError{Message: message, Details: details},
	})
}

func writeError(w http.ResponseWriter, httpStatusCode int, resp models.ErrorMessageResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(resp)
	_, _ = w.Write(b)
}
