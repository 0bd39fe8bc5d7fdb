package backend

import (
	"strings"

	"slidecast/internal/infra"
)

// restyLogger routes resty's internal warnings through zerolog.
type restyLogger struct{ l *infra.Logger }

func (r restyLogger) Errorf(format string, v ...any) {
	r.l.Error().Msgf(strings.TrimSpace(format), v...)
}

func (r restyLogger) Warnf(format string, v ...any) {
	r.l.Warn().Msgf(strings.TrimSpace(format), v...)
}

func (r restyLogger) Debugf(format string, v ...any) {
	r.l.Debug().Msgf(strings.TrimSpace(format), v...)
}
