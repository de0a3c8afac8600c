package form

import "github.com/diogo/lgclient/internal/models"

// State is the lifecycle position of a Controller
type State int

const (
	StateIdle State = iota
	StateValidating
	StateLoading
	StateSuccess
	StateError
)

// String returns the lowercase name of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Labels shown by the shells
const (
	LabelSubmit    = "Send API Request"
	LabelLoading   = "Sending Request..."
	NoResponseData = "No response data"
)

// View is a point-in-time copy of the controller for rendering
type View struct {
	State          State  `json:"state"`
	Loading        bool   `json:"loading"`
	Response       string `json:"response"`
	Error          string `json:"error"`
	APIKey         string `json:"-"`
	AssistantID    string `json:"assistant_id"`
	MessageContent string `json:"message_content"`
}

// SubmitLabel returns the text of the submit control
func (v View) SubmitLabel() string {
	if v.Loading {
		return LabelLoading
	}
	return LabelSubmit
}

// DisplayResponse returns the response as shown to the user. An empty
// success reads "No response data".
func (v View) DisplayResponse() string {
	if v.State == StateSuccess && v.Response == "" {
		return NoResponseData
	}
	return v.Response
}

// ShowResponse reports whether the response panel is visible
func (v View) ShowResponse() bool {
	return v.State == StateSuccess
}

// ShowError reports whether the error panel is visible
func (v View) ShowError() bool {
	return v.State == StateError
}

// messageContent returns the content of the single outgoing message
func messageContent(messages []models.Message) string {
	if len(messages) == 0 {
		return ""
	}
	return messages[0].Content
}
