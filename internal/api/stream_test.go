package api

import (
	"context"
	"errors"
	"strings"
	"testing"

	apierrors "github.com/diogo/lgclient/internal/errors"
)

func TestFragmentsChunkInvariance(t *testing.T) {
	payloads := []string{
		"hello",
		"data: {\"messages\":[]}\n\n",
		"héllo wörld ✓ 日本語 🎉",
		strings.Repeat("αβγ🙂", 2000),
	}

	for _, payload := range payloads {
		for _, chunk := range []int{1, 2, 3, 5, 7, 4096} {
			body := NewChunkedResponseBody([]byte(payload), chunk)

			got, err := collect(fragments(body, false))
			if err != nil {
				t.Fatalf("chunk %d: unexpected error: %v", chunk, err)
			}
			if got != payload {
				t.Errorf("chunk %d: got %d bytes, want %d bytes", chunk, len(got), len(payload))
			}
		}
	}
}

func TestFragmentsStrictChunkInvariance(t *testing.T) {
	payload := "multi-byte ✓ runes 🎉 split"

	for chunk := 1; chunk <= 5; chunk++ {
		got, err := collect(fragments(NewChunkedResponseBody([]byte(payload), chunk), true))
		if err != nil {
			t.Fatalf("chunk %d: unexpected error: %v", chunk, err)
		}
		if got != payload {
			t.Errorf("chunk %d: got %q, want %q", chunk, got, payload)
		}
	}
}

func TestFragmentsLenientReplacesInvalidBytes(t *testing.T) {
	data := []byte("ab\xffcd")

	got, err := collect(fragments(NewMockResponseBody(data), false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ab�cd" {
		t.Errorf("got %q, want %q", got, "ab�cd")
	}
}

func TestFragmentsLenientTruncatedRuneAtEOF(t *testing.T) {
	// first two bytes of a three-byte rune
	data := []byte("ok\xe2\x9c")

	got, err := collect(fragments(NewChunkedResponseBody(data, 1), false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "ok") || !strings.Contains(got, "�") {
		t.Errorf("got %q, want ok followed by replacement character", got)
	}
}

func TestFragmentsLenientDropsLeadingBOM(t *testing.T) {
	got, err := collect(fragments(NewMockResponseBody([]byte("\xef\xbb\xbfhello")), false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestFragmentsStrictRejectsInvalidBytes(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"invalid byte", []byte("ab\xffcd")},
		{"truncated rune at EOF", []byte("ok\xe2\x9c")},
		{"overlong encoding", []byte("x\xc0\xafy")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collect(fragments(NewChunkedResponseBody(tt.data, 1), true))
			if err == nil {
				t.Fatal("expected decode error")
			}
			if !apierrors.IsDecodeError(err) {
				t.Errorf("expected decode error, got %v", err)
			}
		})
	}
}

func TestFragmentsEmptyBodies(t *testing.T) {
	for _, strict := range []bool{false, true} {
		got, err := collect(fragments(nil, strict))
		if err != nil || got != "" {
			t.Errorf("nil body: got %q, %v", got, err)
		}

		got, err = collect(fragments(NewMockResponseBody(nil), strict))
		if err != nil || got != "" {
			t.Errorf("empty body: got %q, %v", got, err)
		}
	}
}

func TestFragmentsStopsEarly(t *testing.T) {
	body := NewChunkedResponseBody([]byte(strings.Repeat("x", 100)), 10)

	var count int
	for _, err := range fragments(body, false) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		count++
		break
	}

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if body.pos >= 100 {
		t.Error("sequence read the whole body after the consumer stopped")
	}
}

func TestFragmentsPropagatesReadError(t *testing.T) {
	readErr := errors.New("unexpected EOF")

	_, err := collect(fragments(NewFailingResponseBody([]byte("abc"), readErr), false))
	if !errors.Is(err, readErr) {
		t.Errorf("err = %v, want %v", err, readErr)
	}
}

func TestMakeRequestStrictDecoding(t *testing.T) {
	data := []byte("bad \xff byte")

	lenient := newTestClient(t, &MockHttpClient{Response: newResponse(200, NewMockResponseBody(data))})
	result := lenient.MakeRequest(context.Background(), "a", userMessages("x"))
	if !result.Success {
		t.Fatalf("lenient: expected success, got %q", result.Error)
	}
	if result.Data != "bad � byte" {
		t.Errorf("lenient: Data = %q", result.Data)
	}

	strict := newTestClient(t, &MockHttpClient{Response: newResponse(200, NewMockResponseBody(data))}, WithStrictDecoding(true))
	result = strict.MakeRequest(context.Background(), "a", userMessages("x"))
	if result.Success {
		t.Fatal("strict: expected failure")
	}
	if !apierrors.IsDecodeError(result.Cause()) {
		t.Errorf("strict: expected decode error, got %v", result.Cause())
	}
	if result.Data != "" {
		t.Errorf("strict: Data = %q, want empty", result.Data)
	}
}

func TestMakeRequestChunkedUnicodeResponse(t *testing.T) {
	payload := "event: values\ndata: {\"content\":\"Olá, 世界 🌍\"}\n\n"
	body := NewChunkedResponseBody([]byte(payload), 3)
	client := newTestClient(t, &MockHttpClient{Response: newResponse(200, body)})

	result := client.MakeRequest(context.Background(), "a", userMessages("x"))

	if !result.Success {
		t.Fatalf("expected success, got %q", result.Error)
	}
	if result.Data != payload {
		t.Errorf("Data = %q, want %q", result.Data, payload)
	}
}
