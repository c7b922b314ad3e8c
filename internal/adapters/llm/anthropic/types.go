package anthropic

import "github.com/okian/recupero/internal/domain/narrative"

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// messagesResponse is the part of the message body the decoder reads. The
// content stays a tagged variant instead of the SDK's block union.
type messagesResponse struct {
	Content *narrative.Content `json:"content"`
	Error   *apiError          `json:"error,omitempty"`
}
