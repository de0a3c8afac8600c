// Package form implements the request form: input state, validation and
// delegation to the runs client, independent of any user interface.
package form

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/diogo/lgclient/internal/api"
	apierrors "github.com/diogo/lgclient/internal/errors"
	"github.com/diogo/lgclient/internal/models"
)

// ErrSubmitDisabled is returned by Begin while a request is in flight
var ErrSubmitDisabled = errors.New("submit is disabled while a request is in flight")

// ErrUnexpected is reported when a submission fails without a usable error
var ErrUnexpected = errors.New("An unexpected error occurred")

// Validation messages, checked in this order
const (
	MsgAPIKeyRequired      = "API key is required"
	MsgAssistantIDRequired = "Assistant ID is required"
	MsgContentRequired     = "Message content is required"
)

// ClientFactory builds a Requester bound to apiKey. It is called once per
// submission so the key lives no longer than the call.
type ClientFactory func(apiKey string) (api.Requester, error)

// APIClientFactory returns a ClientFactory creating api.Client values
func APIClientFactory(opts ...api.ClientOption) ClientFactory {
	return func(apiKey string) (api.Requester, error) {
		client, err := api.NewClient(apiKey, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Controller owns the form state. It is safe for concurrent use and allows a
// single request in flight.
type Controller struct {
	mu sync.Mutex

	factory ClientFactory
	logger  *zap.Logger

	apiKey      string
	assistantID string
	messages    []models.Message

	state    State
	response string
	errMsg   string
}

// Option configures a Controller
type Option func(*Controller)

// WithDefaultAPIKey pre-populates the API key field
func WithDefaultAPIKey(key string) Option {
	return func(c *Controller) {
		c.apiKey = key
	}
}

// WithAssistantID sets the initial assistant id
func WithAssistantID(id string) Option {
	return func(c *Controller) {
		c.assistantID = id
	}
}

// WithMessageContent sets the initial message content
func WithMessageContent(content string) Option {
	return func(c *Controller) {
		c.messages = []models.Message{models.UserMessage(content)}
	}
}

// WithLogger sets the logger for state transitions
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Controller in the Idle state
func New(factory ClientFactory, opts ...Option) *Controller {
	c := &Controller{
		factory:     factory,
		logger:      zap.NewNop(),
		assistantID: models.DefaultAssistantID,
		messages:    []models.Message{models.UserMessage(models.DefaultMessageContent)},
		state:       StateIdle,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fork returns an Idle controller with c's client factory, logger and
// current inputs. Edits and submissions on the fork never change c.
func (c *Controller) Fork() *Controller {
	c.mu.Lock()
	defer c.mu.Unlock()

	return &Controller{
		factory:     c.factory,
		logger:      c.logger,
		apiKey:      c.apiKey,
		assistantID: c.assistantID,
		messages:    append([]models.Message(nil), c.messages...),
		state:       StateIdle,
	}
}

// SetAPIKey replaces the API key
func (c *Controller) SetAPIKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = key
	c.editedLocked()
}

// SetAssistantID replaces the assistant id
func (c *Controller) SetAssistantID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assistantID = id
	c.editedLocked()
}

// SetMessageContent replaces the message list with a single user message
func (c *Controller) SetMessageContent(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = []models.Message{models.UserMessage(content)}
	c.editedLocked()
}

// editedLocked returns a finished form to Idle. Edits during a request only
// change the inputs of the next submission.
func (c *Controller) editedLocked() {
	if c.state == StateSuccess || c.state == StateError {
		c.state = StateIdle
		c.response = ""
		c.errMsg = ""
	}
}

// Messages returns a copy of the outgoing message list
func (c *Controller) Messages() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Message(nil), c.messages...)
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Validate checks the required fields without changing state
func (c *Controller) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validateLocked()
}

func (c *Controller) validateLocked() error {
	if strings.TrimSpace(c.apiKey) == "" {
		return apierrors.NewValidationError("api_key", MsgAPIKeyRequired)
	}
	if strings.TrimSpace(c.assistantID) == "" {
		return apierrors.NewValidationError("assistant_id", MsgAssistantIDRequired)
	}
	if strings.TrimSpace(messageContent(c.messages)) == "" {
		return apierrors.NewValidationError("content", MsgContentRequired)
	}
	return nil
}

// Submission is a validated snapshot of the form inputs, ready to run
type Submission struct {
	c           *Controller
	apiKey      string
	assistantID string
	messages    []models.Message
}

// Begin validates the form and moves it to Loading. While Loading it returns
// ErrSubmitDisabled and changes nothing. A validation failure moves the form
// to Error and is returned.
func (c *Controller) Begin() (*Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateLoading {
		return nil, ErrSubmitDisabled
	}

	c.state = StateValidating
	c.response = ""
	c.errMsg = ""

	if err := c.validateLocked(); err != nil {
		c.state = StateError
		c.errMsg = err.Error()
		c.logger.Debug("form validation failed", zap.String("reason", c.errMsg))
		return nil, err
	}

	c.state = StateLoading
	c.logger.Debug("form submitted",
		zap.String("assistant_id", c.assistantID),
		zap.Int("message_count", len(c.messages)),
	)

	return &Submission{
		c:           c,
		apiKey:      c.apiKey,
		assistantID: c.assistantID,
		messages:    append([]models.Message(nil), c.messages...),
	}, nil
}

// Run performs the request. It never panics: factory errors and panics in the
// client become a failed Result.
func (s *Submission) Run(ctx context.Context) (result models.Result) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok || err == nil || err.Error() == "" {
				err = ErrUnexpected
			}
			s.c.logger.Error("submission panicked", zap.Error(err))
			result = models.Failed(err)
		}
	}()

	if s.c.factory == nil {
		return models.Failed(ErrUnexpected)
	}

	client, err := s.c.factory(s.apiKey)
	if err != nil {
		return models.Failed(err)
	}
	if client == nil {
		return models.Failed(ErrUnexpected)
	}

	return client.MakeRequest(ctx, s.assistantID, s.messages)
}

// Complete records the result of a submission and leaves Loading
func (c *Controller) Complete(result models.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLoading {
		return
	}

	if result.Success {
		c.state = StateSuccess
		c.response = result.Data
		c.errMsg = ""
		c.logger.Debug("form request succeeded", zap.Int("bytes", len(result.Data)))
		return
	}

	c.state = StateError
	c.response = ""
	c.errMsg = result.Error
	if c.errMsg == "" {
		c.errMsg = apierrors.ErrUnknown.Error()
	}
	c.logger.Debug("form request failed", zap.String("error", c.errMsg))
}

// Submit runs Begin, Run and Complete in sequence. The error is non-nil only
// when no request was made: a validation failure or ErrSubmitDisabled.
func (c *Controller) Submit(ctx context.Context) (models.Result, error) {
	s, err := c.Begin()
	if err != nil {
		return models.Failed(err), err
	}

	result := s.Run(ctx)
	c.Complete(result)
	return result, nil
}

// Snapshot returns a copy of the form for rendering
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return View{
		State:          c.state,
		Loading:        c.state == StateLoading,
		Response:       c.response,
		Error:          c.errMsg,
		APIKey:         c.apiKey,
		AssistantID:    c.assistantID,
		MessageContent: messageContent(c.messages),
	}
}
