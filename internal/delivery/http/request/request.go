package request

// AssistantChatRequest is one question for the shopping assistant.
type AssistantChatRequest struct {
	Query string `json:"query"`
}
