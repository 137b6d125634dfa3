package store

import (
	"context"

	"github.com/jrsteele09/docflow-admin/transport"
)

// Caller executes requests outside of a cached collection and reports
// failures the same way the store does.
type Caller struct {
	Doer     Doer
	Reporter Reporter
}

func NewCaller(doer Doer, opts ...Option) Caller {
	return Caller{Doer: doer, Reporter: ReporterOf(opts...)}
}

func (c Caller) Do(ctx context.Context, req transport.Request) (*transport.Response, error) {
	resp, err := c.Doer.Do(ctx, req)
	if err != nil && c.Reporter != nil {
		c.Reporter.Report(err)
	}
	return resp, err
}

// Into executes req and decodes the JSON response into v.
func (c Caller) Into(ctx context.Context, req transport.Request, v any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(v)
}
