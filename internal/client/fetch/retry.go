package fetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

// ErrInvalidAttempts is returned when Retry is given a budget below one.
var ErrInvalidAttempts = errors.New("attempt budget must be at least 1")

// Doer is the transport primitive. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a plain function to Doer.
type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Options describes the request that Retry sends on every attempt.
type Options struct {
	Method string
	Header http.Header
	Body   []byte
}

// sleep waits for d or until ctx is done. It is a test seam.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retry sends the request described by opts to url, retrying transport
// failures up to maxAttempts calls in total with a fixed delay between them.
//
// The returned error, if any, is the one produced by the last call to
// doer.Do. If ctx is done while waiting, Retry stops early with that same
// last error.
func Retry(ctx context.Context, doer Doer, url string, delay time.Duration, maxAttempts int, opts Options) (*http.Response, error) {
	if maxAttempts < 1 {
		return nil, ErrInvalidAttempts
	}

	for attempt := 1; ; attempt++ {
		req, err := newRequest(ctx, url, opts)
		if err != nil {
			return nil, err
		}

		resp, err := doer.Do(req)
		if err == nil {
			return resp, nil
		}

		if attempt >= maxAttempts {
			return nil, err
		}
		if sleep(ctx, delay) != nil {
			return nil, err
		}
	}
}

func newRequest(ctx context.Context, url string, opts Options) (*http.Request, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	for k, v := range opts.Header {
		req.Header[k] = append([]string(nil), v...)
	}
	return req, nil
}
