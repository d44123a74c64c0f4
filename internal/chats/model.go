package chats

import "time"

// Message is one question/answer exchange about a document.
type Message struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	SessionID  string    `json:"sessionId"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Timestamp  time.Time `json:"timestamp"`
}
