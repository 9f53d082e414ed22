package timeout

import (
	"context"
	"errors"
	"testing"
	"time"

	"browseroskb/pkg/connector"
)

func slowConnector(d time.Duration) connector.Connector {
	return connector.WrapConnector(
		func(ctx context.Context, _ string, _ connector.QueryOptions) (string, error) {
			select {
			case <-time.After(d):
				return "done", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		},
		func(context.Context) bool { return true },
		func() connector.Transport { return connector.TransportHTTP },
	)
}

func TestMiddlewareCutsOffSlowQueries(t *testing.T) {
	wrapped := Middleware(10 * time.Millisecond)(slowConnector(time.Minute))

	start := time.Now()
	_, err := wrapped.Query(context.Background(), "hi", connector.QueryOptions{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("timeout did not fire promptly")
	}
}

func TestMiddlewarePassesFastQueries(t *testing.T) {
	wrapped := Middleware(time.Second)(slowConnector(0))

	text, err := wrapped.Query(context.Background(), "hi", connector.QueryOptions{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if text != "done" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestMiddlewareZeroTimeoutPassesThrough(t *testing.T) {
	wrapped := Middleware(0)(slowConnector(0))

	if _, err := wrapped.Query(context.Background(), "hi", connector.QueryOptions{}); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
}
