package models

// RunInput holds the conversation passed to the assistant
type RunInput struct {
	Messages []Message `json:"messages"`
}

// RunRequest is the JSON body POSTed to the runs stream endpoint
type RunRequest struct {
	AssistantID string   `json:"assistant_id"`
	Input       RunInput `json:"input"`
	StreamMode  string   `json:"stream_mode"`
}

// NewRunRequest builds a request in "values" stream mode. The message slice is
// copied so later edits by the caller do not leak into a request in flight.
func NewRunRequest(assistantID string, messages []Message) RunRequest {
	msgs := make([]Message, len(messages))
	copy(msgs, messages)

	return RunRequest{
		AssistantID: assistantID,
		Input:       RunInput{Messages: msgs},
		StreamMode:  StreamModeValues,
	}
}
