package domain

// ChatMessage is one entry in the in-session conversation thread.
// Chat history is purely local: never persisted to the remote store,
// never reloaded, append-only for the lifetime of the session.
type ChatMessage struct {
	ID        MessageID
	Text      string
	Sender    Sender
	CreatedAt Timestamp
}
