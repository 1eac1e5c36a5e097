package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"whatsapp-reactions/analytics"
	"whatsapp-reactions/handlers"
	"whatsapp-reactions/store"
	"whatsapp-reactions/utils"
	"whatsapp-reactions/whatsapp"
)

func main() {
	configPath := flag.String("config", "config.json", "percorso del file di configurazione")
	flag.Parse()

	// Carica la configurazione
	config, err := utils.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("❌ Errore nel caricamento della configurazione: %v", err)
	}
	loc, err := config.Location()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	persister, err := openPersister(config)
	if err != nil {
		log.Fatalf("❌ Errore nell'apertura dello storage %s: %v", config.Storage.Backend, err)
	}

	st := store.New(persister)
	if err := st.Restore(); err != nil {
		log.Printf("❌ Errore nel caricamento dei dati salvati: %v", err)
	}
	st.OnChange(handlers.BroadcastStoreUpdate)

	metrics, err := analytics.NewMetricSet(config.Analytics.CustomMetrics)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	service := analytics.NewService(st, analytics.WithLocation(loc), analytics.WithMetrics(metrics))

	var client *whatsapp.Client
	if config.WhatsApp.Enabled {
		client, err = whatsapp.NewClient(config.WhatsApp.SessionDB, st)
		if err != nil {
			log.Fatalf("❌ Errore nella creazione del client WhatsApp: %v", err)
		}
		if err := client.Connect(context.Background()); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}

	router := gin.Default()
	handlers.SetupRoutes(router, st, service, loc)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Server.Port),
		Handler: router,
	}

	// Avvia il server HTTP in una goroutine
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Errore nell'avvio del server: %v", err)
		}
	}()
	log.Printf("✅ Server API avviato su http://localhost:%d (storage: %s, %d messaggi)",
		config.Server.Port, config.Storage.Backend, st.Len())

	// Gestisci chiusura corretta
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	log.Println("🔄 Disconnessione...")
	if client != nil {
		client.Disconnect()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Errore nello spegnimento del server: %v", err)
	}
	if err := st.Close(); err != nil {
		log.Printf("❌ Errore nella chiusura dello storage: %v", err)
	}
}
