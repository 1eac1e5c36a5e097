package whatsapp

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mdp/qrterminal/v3"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"

	"whatsapp-reactions/models"
)

// Sink riceve i batch convertiti (lo store)
type Sink interface {
	Merge(batch *models.Batch) int
}

// Client rappresenta il client WhatsApp che alimenta lo store in tempo reale
type Client struct {
	*whatsmeow.Client
	sink Sink

	// Cache per i nomi
	groupNameCache   sync.Map
	contactNameCache sync.Map
}

// NewClient apre la sessione whatsmeow salvata in sessionDB (sqlite)
func NewClient(sessionDB string, sink Sink) (*Client, error) {
	container, err := sqlstore.New("sqlite3", sessionDB, waLog.Stdout("Database", "INFO", true))
	if err != nil {
		return nil, fmt.Errorf("errore nell'apertura della sessione WhatsApp: %w", err)
	}

	deviceStore, err := container.GetFirstDevice()
	if err != nil {
		return nil, fmt.Errorf("errore nel recupero del device: %w", err)
	}

	c := &Client{
		Client: whatsmeow.NewClient(deviceStore, waLog.Stdout("Client", "INFO", true)),
		sink:   sink,
	}
	c.AddEventHandler(c.HandleEvent)
	return c, nil
}

// Connect connette il client; al primo avvio stampa il QR code da scansionare
func (c *Client) Connect(ctx context.Context) error {
	if c.Store.ID != nil {
		if err := c.Client.Connect(); err != nil {
			return fmt.Errorf("errore nella connessione: %w", err)
		}
		return nil
	}

	qrChan, err := c.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("errore nel recupero del canale QR: %w", err)
	}
	if err := c.Client.Connect(); err != nil {
		return fmt.Errorf("errore nella connessione: %w", err)
	}

	go func() {
		for evt := range qrChan {
			switch evt.Event {
			case "code":
				fmt.Println("Scansiona questo QR code con WhatsApp:")
				qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
			case "success":
				log.Println("✅ Login WhatsApp completato")
			default:
				log.Printf("🔄 Evento login: %s", evt.Event)
			}
		}
	}()
	return nil
}

// HandleEvent gestisce gli eventi WhatsApp
func (c *Client) HandleEvent(evt interface{}) {
	switch v := evt.(type) {
	case *events.Message:
		batch, ok := Convert(v, c)
		if !ok {
			return
		}
		total := c.sink.Merge(batch)
		log.Printf("🔄 Messaggio %s da %s, store: %d messaggi", v.Info.ID, v.Info.Sender.User, total)

	case *events.Connected:
		log.Println("✅ Client WhatsApp connesso")

	case *events.Disconnected:
		log.Println("❌ Client WhatsApp disconnesso")

	case *events.LoggedOut:
		log.Println("❌ Client WhatsApp disconnesso (logout)")
	}
}

// ChatName ottiene il nome di un gruppo o di una chat privata
func (c *Client) ChatName(jid types.JID, isGroup bool) string {
	if !isGroup {
		return c.ContactName(jid, "")
	}
	if cachedName, ok := c.groupNameCache.Load(jid.String()); ok {
		return cachedName.(string)
	}

	groupInfo, err := c.GetGroupInfo(jid)
	if err != nil || groupInfo.Name == "" {
		return fallbackName(jid)
	}
	c.groupNameCache.Store(jid.String(), groupInfo.Name)
	return groupInfo.Name
}

// ContactName ottiene il nome di un contatto
func (c *Client) ContactName(jid types.JID, pushName string) string {
	userJID := types.NewJID(jid.User, jid.Server)

	if cachedName, ok := c.contactNameCache.Load(userJID.String()); ok {
		return cachedName.(string)
	}

	name := pushName
	if name == "" {
		contactInfo, err := c.Store.Contacts.GetContact(userJID)
		if err == nil {
			name = contactInfo.PushName
			if contactInfo.FullName != "" {
				name = contactInfo.FullName
			}
		}
	}
	if name == "" {
		return fallbackName(userJID)
	}

	c.contactNameCache.Store(userJID.String(), name)
	return name
}
