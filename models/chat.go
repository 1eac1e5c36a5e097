package models

// ChatInfo is a chat known to the store
type ChatInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ChatTypeStored marks chats derived from stored records.
const ChatTypeStored = "stored"
