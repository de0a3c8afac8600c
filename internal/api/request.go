package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"go.uber.org/zap"

	apierrors "github.com/diogo/lgclient/internal/errors"
	"github.com/diogo/lgclient/internal/models"
)

// MakeRequest sends messages to the assistant and returns the streamed
// response body as one string. Every failure, including a panic in the
// transport, is reported through the returned Result.
func (c *Client) MakeRequest(ctx context.Context, assistantID string, messages []models.Message) (result models.Result) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := apierrors.FromRecovered(r)
			c.logger.Error("runs request panicked",
				zap.String("assistant_id", assistantID),
				zap.Error(err),
			)
			result = models.Failed(err)
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}

	data, err := c.doMakeRequest(ctx, assistantID, messages)
	if err != nil {
		c.logger.Warn("runs request failed",
			zap.String("assistant_id", assistantID),
			zap.Int("status", apierrors.GetHTTPStatus(err)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return models.Failed(err)
	}

	c.logger.Debug("runs request complete",
		zap.String("assistant_id", assistantID),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)),
	)

	return models.Succeeded(data)
}

// doMakeRequest performs the actual request and drains the response stream
func (c *Client) doMakeRequest(ctx context.Context, assistantID string, messages []models.Message) (string, error) {
	if strings.TrimSpace(assistantID) == "" {
		return "", apierrors.NewValidationError("assistant_id", "Assistant ID is required")
	}

	if len(messages) == 0 {
		return "", apierrors.NewValidationError("messages", "at least one message is required")
	}

	payload, err := buildPayload(assistantID, messages)
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	req.Header.Set(models.HeaderAPIKey, c.apiKey)

	c.logger.Debug("sending runs request",
		zap.String("endpoint", c.endpoint),
		zap.String("assistant_id", assistantID),
		zap.Int("message_count", len(messages)),
		zap.Int("body_size", len(payload)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkErrorWithEndpoint("send request", c.endpoint, err)
	}
	if resp == nil {
		return "", apierrors.NewNetworkErrorWithEndpoint("send request", c.endpoint, fmt.Errorf("no response"))
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errorBody []byte
		if resp.Body != nil {
			errorBody, _ = io.ReadAll(io.LimitReader(resp.Body, apierrors.MaxErrorBodySize))
		}
		return "", apierrors.NewAPIErrorWithBody(resp.StatusCode, c.endpoint, string(errorBody))
	}

	c.logger.Debug("receiving runs stream", zap.Int("status", resp.StatusCode))

	return c.readStream(resp.Body)
}

// readStream folds the decoded fragments of body into a single string
func (c *Client) readStream(body io.Reader) (string, error) {
	data, err := collect(fragments(body, c.strictDecoding))
	if err != nil {
		if apierrors.IsDecodeError(err) {
			return "", err
		}
		return "", apierrors.NewNetworkErrorWithEndpoint("read stream", c.endpoint, err)
	}
	return data, nil
}

// buildPayload creates the JSON body for a runs request
func buildPayload(assistantID string, messages []models.Message) ([]byte, error) {
	return json.Marshal(models.NewRunRequest(assistantID, messages))
}
