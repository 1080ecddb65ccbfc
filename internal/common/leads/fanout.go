package leads

import (
	"context"
	"errors"
	"strings"
)

// Publisher matches the lead sink used by plan delivery.
type Publisher interface {
	PublishJSON(ctx context.Context, subject string, payload interface{}, attrs map[string]string) (string, error)
}

// Fanout publishes to every sink. Every sink is attempted; the returned ids
// of successful sinks are joined with ",".
type Fanout []Publisher

func (f Fanout) PublishJSON(ctx context.Context, subject string, payload interface{}, attrs map[string]string) (string, error) {
	var ids []string
	var errs []error
	for _, p := range f {
		id, err := p.PublishJSON(ctx, subject, payload, attrs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if id != "" {
			ids = append(ids, id)
		}
	}
	return strings.Join(ids, ","), errors.Join(errs...)
}
