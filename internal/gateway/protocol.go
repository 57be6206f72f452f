package gateway

// Message types sent by clients.
const (
	TypeExecute  = "execute"
	TypeComplete = "complete"
	TypePing     = "ping"
)

// Message types sent by the server.
const (
	TypeResult      = "result"
	TypeCompletions = "completions"
	TypePong        = "pong"
	TypeError       = "error"
)

// Error codes carried by error responses.
const (
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeUnknownType    = "unknown_type"
	ErrCodeRateLimited    = "rate_limited"
)

// Request is a client message. ID is echoed on the response so clients can
// match answers to concurrent requests. Sender overrides the connection's
// sender name for this request.
type Request struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Sender string `json:"sender,omitempty"`
	Line   string `json:"line,omitempty"`
}

// Response is a server message.
type Response struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`

	// result
	RequestID string   `json:"request_id,omitempty"`
	Kind      string   `json:"kind,omitempty"`
	OK        bool     `json:"ok,omitempty"`
	Message   string   `json:"message,omitempty"`
	Usage     string   `json:"usage,omitempty"`
	Replies   []string `json:"replies,omitempty"`

	// completions
	Completions []string `json:"completions,omitempty"`

	// error
	Error *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload describes a rejected request.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
