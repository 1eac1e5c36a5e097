package models

// WSMessage è il messaggio inviato ai client websocket
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// StoreUpdate is the payload of a store_updated message.
type StoreUpdate struct {
	Total int `json:"total"`
}
