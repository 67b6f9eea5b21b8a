package client

import (
	"context"
	"time"
)

// ProbeResult records one starvation probe: a /slow request followed, after
// Delay, by a / request.
type ProbeResult struct {
	Slow  *Response
	Fast  *Response
	Delay time.Duration
	// Total is the wall time from sending /slow until both answered.
	Total time.Duration
}

// Starved reports whether the / request was only answered once /slow was,
// i.e. whether it sat behind the blocked dispatch loop. A tenth of the slow
// request's latency is allowed as slack for client-side scheduling.
func (r *ProbeResult) Starved() bool {
	fastDone := r.Delay + r.Fast.Elapsed
	return fastDone >= r.Slow.Elapsed-r.Slow.Elapsed/10
}

// Probe sends GET /slow, waits delay, sends GET / and waits for both.
func (c *Client) Probe(ctx context.Context, delay time.Duration) (*ProbeResult, error) {
	type outcome struct {
		resp *Response
		err  error
	}

	start := time.Now()
	slowCh := make(chan outcome, 1)
	go func() {
		resp, err := c.Slow(ctx)
		slowCh <- outcome{resp, err}
	}()

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	fast, err := c.Root(ctx)
	slow := <-slowCh
	if err != nil {
		return nil, err
	}
	if slow.err != nil {
		return nil, slow.err
	}

	return &ProbeResult{
		Slow:  slow.resp,
		Fast:  fast,
		Delay: delay,
		Total: time.Since(start),
	}, nil
}
