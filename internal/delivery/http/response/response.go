package response

// IngestResponse reports the outcome of one history upload.
type IngestResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Received   int    `json:"received"`
	Queued     int    `json:"queued"`
	Duplicates int    `json:"duplicates"`
	Invalid    int    `json:"invalid"`
}

// QueueStatusResponse exposes the pending-queue depth.
type QueueStatusResponse struct {
	Pending int64 `json:"pending"`
}

// AssistantChatResponse carries the assistant's answer.
type AssistantChatResponse struct {
	Answer string `json:"answer"`
}
