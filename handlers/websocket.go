package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"whatsapp-reactions/models"
)

const MessageStoreUpdated = "store_updated"

var (
	// WebSocket upgrader
	wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // Consenti tutte le origini in sviluppo
		},
	}

	wsClients    = make(map[*websocket.Conn]bool)
	wsClientsMux sync.Mutex
)

// BroadcastToClients invia un messaggio a tutti i client WebSocket connessi
func BroadcastToClients(messageType string, payload interface{}) {
	wsClientsMux.Lock()
	defer wsClientsMux.Unlock()

	if len(wsClients) == 0 {
		return
	}

	wsMessage := models.WSMessage{
		Type:    messageType,
		Payload: payload,
	}

	for client := range wsClients {
		if err := client.WriteJSON(wsMessage); err != nil {
			client.Close()
			delete(wsClients, client)
		}
	}
}

// BroadcastStoreUpdate è il listener registrato sullo store
func BroadcastStoreUpdate(total int) {
	BroadcastToClients(MessageStoreUpdated, models.StoreUpdate{Total: total})
}

// HandleWebSocket gestisce le connessioni WebSocket
func HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "Could not upgrade connection", http.StatusInternalServerError)
		return
	}

	wsClientsMux.Lock()
	wsClients[conn] = true
	wsClientsMux.Unlock()

	// Cleanup quando la connessione viene chiusa
	defer func() {
		wsClientsMux.Lock()
		delete(wsClients, conn)
		wsClientsMux.Unlock()
		conn.Close()
	}()

	// I client non inviano nulla: si legge solo per accorgersi della chiusura
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func connectedClients() int {
	wsClientsMux.Lock()
	defer wsClientsMux.Unlock()
	return len(wsClients)
}
