package chats

import "context"

// Repo persists chat history. Messages are append-only.
type Repo interface {
	Append(ctx context.Context, msg Message) error
	// List returns the document's messages oldest first. An empty sessionID returns every session.
	List(ctx context.Context, documentID, sessionID string) ([]Message, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}
