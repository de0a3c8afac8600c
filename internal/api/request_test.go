package api

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apierrors "github.com/diogo/lgclient/internal/errors"
	"github.com/diogo/lgclient/internal/models"
)

const testKey = "lsv2_secret_key_value"

func newTestClient(t *testing.T, doer HTTPDoer, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithHTTPClient(doer), WithEndpoint("https://example.test/runs/stream")}, opts...)
	client, err := NewClient(testKey, opts...)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func userMessages(content string) []models.Message {
	return []models.Message{models.UserMessage(content)}
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient("key")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if client.Endpoint() != models.EndpointRunsStream {
		t.Errorf("Endpoint() = %s, want %s", client.Endpoint(), models.EndpointRunsStream)
	}
	if client.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.timeout, DefaultTimeout)
	}
	if client.StrictDecoding() {
		t.Error("strict decoding should be off by default")
	}
	if !client.followRedirects {
		t.Error("redirects should be followed by default")
	}
	if client.httpClient == nil {
		t.Error("expected a default HTTP client")
	}
}

func TestNewClientOptions(t *testing.T) {
	doer := &MockHttpClient{}
	client, err := NewClient("key",
		WithHTTPClient(doer),
		WithEndpoint("https://other.test/runs/stream"),
		WithStrictDecoding(true),
		WithEndpoint(""),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if client.Endpoint() != "https://other.test/runs/stream" {
		t.Errorf("Endpoint() = %s", client.Endpoint())
	}
	if !client.StrictDecoding() {
		t.Error("expected strict decoding")
	}
	if client.httpClient != doer {
		t.Error("expected injected HTTP client")
	}
}

func TestMakeRequestSuccess(t *testing.T) {
	doer := &MockHttpClient{Response: newResponse(200, NewMockResponseBody([]byte("hello")))}
	client := newTestClient(t, doer)

	result := client.MakeRequest(context.Background(), "assistant-1", userMessages("hi"))

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Data != "hello" {
		t.Errorf("Data = %q, want %q", result.Data, "hello")
	}
	if result.Error != "" {
		t.Errorf("Error = %q, want empty", result.Error)
	}
	if doer.Calls() != 1 {
		t.Errorf("Calls() = %d, want 1", doer.Calls())
	}
}

func TestMakeRequestSendsHeadersAndBody(t *testing.T) {
	doer := &MockHttpClient{Response: newResponse(200, NewMockResponseBody([]byte("ok")))}
	client := newTestClient(t, doer)

	client.MakeRequest(context.Background(), "079b1acc", []models.Message{
		models.UserMessage("What is 2+2?"),
		{Role: models.RoleAssistant, Content: "4"},
	})

	req := doer.LastRequest()
	if req == nil {
		t.Fatal("no request recorded")
	}

	if req.Method != fhttp.MethodPost {
		t.Errorf("Method = %s, want POST", req.Method)
	}
	if req.URL.String() != "https://example.test/runs/stream" {
		t.Errorf("URL = %s", req.URL.String())
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"x-api-key":    testKey,
	}
	for name, want := range headers {
		if got := req.Header.Get(name); got != want {
			t.Errorf("header %s = %q, want %q", name, got, want)
		}
	}
	if len(req.Header) != len(headers) {
		t.Errorf("sent %d headers, want only %v", len(req.Header), headers)
	}

	body := string(doer.LastBody())
	checks := map[string]string{
		"assistant_id":             "079b1acc",
		"stream_mode":              "values",
		"input.messages.#":         "2",
		"input.messages.0.role":    "user",
		"input.messages.0.content": "What is 2+2?",
		"input.messages.1.role":    "assistant",
		"input.messages.1.content": "4",
	}
	for path, want := range checks {
		if got := gjson.Get(body, path).String(); got != want {
			t.Errorf("body %s = %q, want %q", path, got, want)
		}
	}
}

func TestMakeRequestHTTPErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		auth   bool
	}{
		{"unauthorized", 401, `{"detail":"Invalid API key"}`, true},
		{"forbidden", 403, "", true},
		{"not found", 404, "not found", false},
		{"server error", 500, "internal", false},
		{"redirect", 302, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := NewMockResponseBody([]byte(tt.body))
			doer := &MockHttpClient{Response: newResponse(tt.status, body)}
			client := newTestClient(t, doer)

			result := client.MakeRequest(context.Background(), "a", userMessages("x"))

			if result.Success {
				t.Fatal("expected failure")
			}
			if result.Data != "" {
				t.Errorf("Data = %q, want empty", result.Data)
			}
			if !strings.Contains(result.Error, "HTTP error! status:") {
				t.Errorf("Error = %q, want HTTP status message", result.Error)
			}
			if !strings.Contains(result.Error, strconv.Itoa(tt.status)) {
				t.Errorf("Error = %q, should contain %d", result.Error, tt.status)
			}
			if apierrors.GetHTTPStatus(result.Cause()) != tt.status {
				t.Errorf("status = %d, want %d", apierrors.GetHTTPStatus(result.Cause()), tt.status)
			}
			if apierrors.IsAuthError(result.Cause()) != tt.auth {
				t.Errorf("IsAuthError = %v, want %v", !tt.auth, tt.auth)
			}
			if apierrors.GetResponseBody(result.Cause()) != tt.body {
				t.Errorf("body = %q, want %q", apierrors.GetResponseBody(result.Cause()), tt.body)
			}
			if !body.closed {
				t.Error("response body was not closed")
			}
		})
	}
}

func TestMakeRequestNetworkError(t *testing.T) {
	doer := &MockHttpClient{Err: errors.New("dial tcp: lookup example.test: no such host")}
	client := newTestClient(t, doer)

	result := client.MakeRequest(context.Background(), "a", userMessages("x"))

	if result.Success {
		t.Fatal("expected failure")
	}
	if !apierrors.IsNetworkError(result.Cause()) {
		t.Errorf("expected network error, got %v", result.Cause())
	}
	if !strings.Contains(result.Error, "no such host") {
		t.Errorf("Error = %q, should carry the transport message", result.Error)
	}
}

func TestMakeRequestStreamReadError(t *testing.T) {
	body := NewFailingResponseBody([]byte("partial"), errors.New("connection reset by peer"))
	doer := &MockHttpClient{Response: newResponse(200, body)}
	client := newTestClient(t, doer)

	result := client.MakeRequest(context.Background(), "a", userMessages("x"))

	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Data != "" {
		t.Errorf("Data = %q, partial data must not be returned", result.Data)
	}
	if !apierrors.IsNetworkError(result.Cause()) {
		t.Errorf("expected network error, got %v", result.Cause())
	}
	if !strings.Contains(result.Error, "connection reset by peer") {
		t.Errorf("Error = %q", result.Error)
	}
}

func TestMakeRequestEmptyBody(t *testing.T) {
	tests := []struct {
		name string
		body func() *fhttp.Response
	}{
		{"nil body", func() *fhttp.Response { return newResponse(200, nil) }},
		{"no body", func() *fhttp.Response { return newResponse(200, fhttp.NoBody) }},
		{"zero bytes", func() *fhttp.Response { return newResponse(204, NewMockResponseBody(nil)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, &MockHttpClient{Response: tt.body()})

			result := client.MakeRequest(context.Background(), "a", userMessages("x"))

			if !result.Success {
				t.Fatalf("expected success, got %q", result.Error)
			}
			if result.Data != "" {
				t.Errorf("Data = %q, want empty", result.Data)
			}
		})
	}
}

func TestMakeRequestNilResponse(t *testing.T) {
	client := newTestClient(t, &MockHttpClient{})

	result := client.MakeRequest(context.Background(), "a", userMessages("x"))

	if result.Success {
		t.Fatal("expected failure for missing response")
	}
	if !apierrors.IsNetworkError(result.Cause()) {
		t.Errorf("expected network error, got %v", result.Cause())
	}
}

func TestMakeRequestValidation(t *testing.T) {
	tests := []struct {
		name        string
		assistantID string
		messages    []models.Message
	}{
		{"empty assistant", "", userMessages("x")},
		{"blank assistant", "   ", userMessages("x")},
		{"no messages", "a", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doer := &MockHttpClient{}
			client := newTestClient(t, doer)

			result := client.MakeRequest(context.Background(), tt.assistantID, tt.messages)

			if result.Success {
				t.Fatal("expected failure")
			}
			if !apierrors.IsValidationError(result.Cause()) {
				t.Errorf("expected validation error, got %v", result.Cause())
			}
			if doer.Calls() != 0 {
				t.Errorf("Calls() = %d, want no network call", doer.Calls())
			}
		})
	}
}

func TestMakeRequestRecoversPanic(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"error value", errors.New("transport exploded"), "transport exploded"},
		{"non-error value", 42, "Unknown error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, &MockHttpClient{Panic: tt.value})

			result := client.MakeRequest(context.Background(), "a", userMessages("x"))

			if result.Success {
				t.Fatal("expected failure")
			}
			if result.Error != tt.want {
				t.Errorf("Error = %q, want %q", result.Error, tt.want)
			}
		})
	}
}

func TestMakeRequestDoesNotLogAPIKey(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	responses := []*fhttp.Response{
		newResponse(200, NewMockResponseBody([]byte("hello"))),
		newResponse(401, NewMockResponseBody([]byte("bad key"))),
	}

	for _, resp := range responses {
		client := newTestClient(t, &MockHttpClient{Response: resp}, WithLogger(logger))
		client.MakeRequest(context.Background(), "a", userMessages("x"))
	}

	if logs.Len() == 0 {
		t.Fatal("expected log entries")
	}

	for _, entry := range logs.All() {
		if strings.Contains(entry.Message, testKey) {
			t.Errorf("log message contains API key: %s", entry.Message)
		}
		for key, value := range entry.ContextMap() {
			if strings.Contains(strings.ToLower(key), "key") {
				t.Errorf("log field %q may carry the API key", key)
			}
			if s, ok := value.(string); ok && strings.Contains(s, testKey) {
				t.Errorf("log field %q contains API key", key)
			}
		}
	}
}

func TestBuildPayload(t *testing.T) {
	payload, err := buildPayload("assistant", userMessages("hello"))
	if err != nil {
		t.Fatalf("buildPayload failed: %v", err)
	}

	want := `{"assistant_id":"assistant","input":{"messages":[{"role":"user","content":"hello"}]},"stream_mode":"values"}`
	if string(payload) != want {
		t.Errorf("payload = %s, want %s", payload, want)
	}
}
