// Package models contains data types and constants for the LangGraph runs API.
package models

// EndpointRunsStream is the remote streaming runs endpoint. It is a variable so
// release builds can point elsewhere with -ldflags "-X".
var EndpointRunsStream = "https://ht-left-oleo-40-fc4247019a235621a56c8b9686a58fe1.us.langgraph.app/runs/stream"

// Request headers
const (
	HeaderAPIKey      = "x-api-key"
	HeaderContentType = "Content-Type"

	ContentTypeJSON = "application/json"
)

// StreamModeValues is the only stream mode this client requests.
const StreamModeValues = "values"

// Form defaults
const (
	DefaultAssistantID = "079b1acc-49e6-4d00-a763-5e27658d813c"

	DefaultMessageContent = "Q: Besides PowerPoint and Word, which other Microsoft tools do you find " +
		"particularly challenging for users to master? A:Microsoft Access is easily the toughest. " +
		"It's powerful, but most users have no background in database design or relational data. " +
		"Even Power BI has a learning curve--especially with DAX formulas and data modeling. " +
		"Outlook can also be tricky in enterprise settings due to calendar sharing, rules, and " +
		"integration with Teams. \nQ: Are there any Microsoft applications that your team has found " +
		"difficult to adopt or use effectively? A:Yammer and Viva Engage have had low adoption. " +
		"People aren't sure how it fits into their workflow, especially when we already use Teams. " +
		"Also, some advanced Teams features--like shared channels and webinar hosting--aren't " +
		"intuitive without training."
)

// DefaultHeaders returns the headers sent with every runs request, minus the API key
func DefaultHeaders() map[string]string {
	return map[string]string{
		HeaderContentType: ContentTypeJSON,
	}
}
