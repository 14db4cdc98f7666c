// Package report formats and outputs mutation testing results.
package report

import (
	"errors"

	"github.com/sprocketworks/gremlin/internal/aggregate"
	"github.com/sprocketworks/gremlin/internal/configuration"
	"github.com/sprocketworks/gremlin/internal/log"
	"github.com/sprocketworks/gremlin/internal/store"
)

// Filter maps result statuses to filter which gremlins are logged.
type Filter = map[store.Status]struct{}

// ErrInvalidFilter is returned when an invalid status filter string is provided.
var ErrInvalidFilter = errors.New("invalid statuses filter, only 'zste' letters allowed")

// GremlinLogger prints gremlin statuses based on filter and verbosity flags.
type GremlinLogger struct {
	Filter
}

// NewLogger creates a new GremlinLogger with filters from configuration.
func NewLogger() GremlinLogger {
	outputStatuses := configuration.Get[string](configuration.UnleashOutputStatusesKey)
	f, err := ParseFilter(outputStatuses)
	if err != nil {
		log.Infof("output-statuses filter not applied: %s\n", err)
	}

	return GremlinLogger{
		Filter: f,
	}
}

// Gremlin logs a record if it passes the filter.
func (l GremlinLogger) Gremlin(rec aggregate.Record) {
	if l.Filter == nil {
		Gremlin(rec)

		return
	}

	if _, ok := l.Filter[rec.Status]; ok {
		Gremlin(rec)
	}
}

// ParseFilter parses a status filter string into a Filter map.
// Valid characters are 'zste': zapped, survived, timeout, error.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return nil, nil
	}

	result := Filter{}

	for _, r := range s {
		switch r {
		case 'z':
			result[store.StatusZapped] = struct{}{}
		case 's':
			result[store.StatusSurvived] = struct{}{}
		case 't':
			result[store.StatusTimeout] = struct{}{}
		case 'e':
			result[store.StatusError] = struct{}{}
		default:
			return nil, ErrInvalidFilter
		}
	}

	return result, nil
}
