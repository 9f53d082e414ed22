package metrics

import (
	"context"
	"testing"
	"time"

	"browseroskb/pkg/connector"
)

type capturingRecorder struct {
	queries []capturedQuery
	probes  []bool
	retries int
}

type capturedQuery struct {
	agent, transport, model string
	promptTokens            int
	completionTokens        int
	success                 bool
	errorType               string
}

func (c *capturingRecorder) ObserveQuery(agent, transport, model string, promptTokens, completionTokens int, success bool, errorType string, _ time.Duration) {
	c.queries = append(c.queries, capturedQuery{agent, transport, model, promptTokens, completionTokens, success, errorType})
}

func (c *capturingRecorder) IncRetry(_, _ string) { c.retries++ }

func (c *capturingRecorder) ObserveProbe(_, _ string, available bool) {
	c.probes = append(c.probes, available)
}

func testConnector(text string, err error, available bool) connector.Connector {
	return connector.WrapConnector(
		func(context.Context, string, connector.QueryOptions) (string, error) { return text, err },
		func(context.Context) bool { return available },
		func() connector.Transport { return connector.TransportHTTP },
	)
}

func TestMiddlewareRecordsSuccessfulQuery(t *testing.T) {
	rec := &capturingRecorder{}
	wrapped := Middleware(rec, "ollama", nil)(testConnector("four words of text", nil, true))

	text, err := wrapped.Query(context.Background(), "a prompt", connector.QueryOptions{Model: "llama3.3"})
	if err != nil || text == "" {
		t.Fatalf("Query failed: %v", err)
	}

	if len(rec.queries) != 1 {
		t.Fatalf("recorded %d queries, want 1", len(rec.queries))
	}
	q := rec.queries[0]
	if q.agent != "ollama" || q.transport != "http" || q.model != "llama3.3" {
		t.Errorf("unexpected labels %+v", q)
	}
	if !q.success || q.errorType != "" {
		t.Errorf("expected success with no error type, got %+v", q)
	}
	if q.promptTokens == 0 || q.completionTokens == 0 {
		t.Errorf("expected non-zero token estimates, got %+v", q)
	}
}

func TestMiddlewareRecordsFailedQuery(t *testing.T) {
	rec := &capturingRecorder{}
	failure := connector.NewError(connector.ErrorTypeRateLimit, "slow down")
	wrapped := Middleware(rec, "openrouter", nil)(testConnector("", failure, true))

	if _, err := wrapped.Query(context.Background(), "a prompt", connector.QueryOptions{}); err == nil {
		t.Fatal("expected query error")
	}

	q := rec.queries[0]
	if q.success {
		t.Error("failed query recorded as success")
	}
	if q.errorType != "rate_limit" {
		t.Errorf("errorType = %q, want rate_limit", q.errorType)
	}
	if q.completionTokens != 0 {
		t.Errorf("failed query should record zero completion tokens, got %d", q.completionTokens)
	}
}

func TestMiddlewareRecordsProbes(t *testing.T) {
	rec := &capturingRecorder{}
	wrapped := Middleware(rec, "ollama", nil)(testConnector("", nil, false))

	if wrapped.Available(context.Background()) {
		t.Error("expected unavailable")
	}
	if len(rec.probes) != 1 || rec.probes[0] {
		t.Errorf("recorded probes %v, want one false", rec.probes)
	}
}

func TestMiddlewareNilRecorder(t *testing.T) {
	wrapped := Middleware(nil, "ollama", nil)(testConnector("ok", nil, true))

	if _, err := wrapped.Query(context.Background(), "hi", connector.QueryOptions{}); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
}
