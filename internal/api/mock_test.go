package api

import (
	"bytes"
	"io"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
)

// MockResponseBody is a ReadCloser that hands out data in fixed-size chunks
type MockResponseBody struct {
	data      []byte
	pos       int
	chunkSize int
	err       error
	closed    bool
}

// NewMockResponseBody creates a new MockResponseBody with the given data
func NewMockResponseBody(data []byte) *MockResponseBody {
	return &MockResponseBody{data: data}
}

// NewChunkedResponseBody returns data at most chunkSize bytes per Read
func NewChunkedResponseBody(data []byte, chunkSize int) *MockResponseBody {
	return &MockResponseBody{data: data, chunkSize: chunkSize}
}

// NewFailingResponseBody returns data and then err instead of io.EOF
func NewFailingResponseBody(data []byte, err error) *MockResponseBody {
	return &MockResponseBody{data: data, err: err}
}

// Read implements the io.Reader interface
func (m *MockResponseBody) Read(p []byte) (n int, err error) {
	if m.pos >= len(m.data) {
		if m.err != nil {
			return 0, m.err
		}
		return 0, io.EOF
	}
	end := len(m.data)
	if m.chunkSize > 0 && m.pos+m.chunkSize < end {
		end = m.pos + m.chunkSize
	}
	n = copy(p, m.data[m.pos:end])
	m.pos += n
	return n, nil
}

// Close implements the io.Closer interface
func (m *MockResponseBody) Close() error {
	m.closed = true
	return nil
}

// MockHttpClient is a mock HTTPDoer that records the request it receives
type MockHttpClient struct {
	Response *fhttp.Response
	Err      error
	Panic    any

	mu       sync.Mutex
	requests []*fhttp.Request
	bodies   [][]byte
}

// Do implements the HTTPDoer interface
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.bodies = append(m.bodies, body)
	m.mu.Unlock()

	if m.Panic != nil {
		panic(m.Panic)
	}
	return m.Response, m.Err
}

// Calls returns the number of requests sent
func (m *MockHttpClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// LastRequest returns the most recent request, or nil
func (m *MockHttpClient) LastRequest() *fhttp.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// LastBody returns the body of the most recent request
func (m *MockHttpClient) LastBody() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.bodies) == 0 {
		return nil
	}
	return m.bodies[len(m.bodies)-1]
}

// newResponse builds a response with the given status and body
func newResponse(status int, body io.ReadCloser) *fhttp.Response {
	return &fhttp.Response{
		StatusCode: status,
		Header:     fhttp.Header{"Content-Type": []string{"text/event-stream"}},
		Body:       body,
	}
}
