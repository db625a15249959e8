// Package logs builds the loggers of the host tools.
package logs

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// formatter prefixes every message with the tool name.
type formatter struct {
	owner string
	lf    log.Formatter
}

// Format satisfies the log.Formatter interface.
func (f *formatter) Format(e *log.Entry) ([]byte, error) {
	e.Message = fmt.Sprintf("[%s] %s", f.owner, e.Message)
	return f.lf.Format(e)
}

// NewLogger returns a text logger for owner. verbose enables debug level.
func NewLogger(owner string, verbose bool) *log.Logger {
	logger := log.New()
	logger.SetFormatter(&formatter{
		owner: owner,
		lf: &log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.StampMilli,
		},
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
