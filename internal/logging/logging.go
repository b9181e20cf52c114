// Package logging sets up the daemon logger and adapts it to the key/value
// Logger interface of the library packages.
package logging

import (
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// Adapter forwards key/value logging calls to a structured logger.
type Adapter struct {
	logger *log.Logger
}

// NewAdapter wraps logger.
func NewAdapter(logger *log.Logger) *Adapter {
	return &Adapter{logger: logger}
}

func (a *Adapter) Debug(msg string, keysAndValues ...interface{}) {
	a.logger.Debug(msg, Fields(keysAndValues...)...)
}

func (a *Adapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, Fields(keysAndValues...)...)
}

func (a *Adapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, Fields(keysAndValues...)...)
}

// Fields converts alternating keys and values to typed fields. A trailing
// key without a value is logged under "extra".
func Fields(keysAndValues ...interface{}) []log.Field {
	fields := make([]log.Field, 0, (len(keysAndValues)+1)/2)

	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 == len(keysAndValues) {
			fields = append(fields, log.String("extra", fmt.Sprint(keysAndValues[i])))
			break
		}

		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields = append(fields, field(key, keysAndValues[i+1]))
	}
	return fields
}

func field(key string, value interface{}) log.Field {
	switch v := value.(type) {
	case string:
		return log.String(key, v)
	case int:
		return log.Int(key, v)
	case uint8:
		return log.Hex(key, v)
	case uint16:
		return log.Hex(key, v)
	case error:
		return log.Err(v)
	case time.Duration:
		return log.Stringer(key, v)
	case fmt.Stringer:
		return log.Stringer(key, v)
	default:
		return log.String(key, fmt.Sprint(v))
	}
}
