package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"whatsapp-reactions/charts"
	"whatsapp-reactions/corpus"
	"whatsapp-reactions/scrape"
)

// SetupAPIRoutes configura tutte le rotte API. loc è il fuso usato per
// interpretare gli orari letti da WhatsApp Web.
func SetupAPIRoutes(router *gin.Engine, st StoreManager, provider StatsProvider, loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}

	// Batch dallo scraper: {id: record parziale}
	router.POST("/api/messages", func(c *gin.Context) {
		batch, err := corpus.Decode(c.Request.Body)
		if err != nil {
			badRequest(c, err)
			return
		}
		total := st.Merge(batch)
		log.Printf("🔄 Ricevuti %d messaggi, totale %d", batch.Len(), total)
		c.JSON(http.StatusOK, gin.H{"success": true, "received": batch.Len(), "total": total})
	})

	// Righe grezze lette dal DOM, gli id vengono calcolati qui
	router.POST("/api/scrape", func(c *gin.Context) {
		var rows []scrape.Row
		if err := c.ShouldBindJSON(&rows); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato JSON non valido"})
			return
		}
		batch := scrape.BuildBatch(rows, time.Now(), loc)
		total := st.Merge(batch)
		c.JSON(http.StatusOK, gin.H{"success": true, "received": batch.Len(), "total": total, "ids": batch.Keys()})
	})

	router.GET("/api/stats", func(c *gin.Context) {
		doc, noData, err := provider.Stats(c.Query("chatId"))
		if !respondNoData(c, noData, err) {
			c.JSON(http.StatusOK, doc)
		}
	})

	router.GET("/api/stats/quick", func(c *gin.Context) {
		doc, noData, err := provider.QuickStats(c.Query("chatId"))
		if !respondNoData(c, noData, err) {
			c.JSON(http.StatusOK, doc)
		}
	})

	router.GET("/api/stats/hourly.png", func(c *gin.Context) {
		ta, noData, err := provider.Temporal(c.Query("chatId"))
		if respondNoData(c, noData, err) {
			return
		}
		var buf bytes.Buffer
		if err := charts.HourlyActivityPNG(&buf, ta); err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Errore nella generazione del grafico"})
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
	})

	router.GET("/api/chats", func(c *gin.Context) {
		c.JSON(http.StatusOK, provider.Chats())
	})

	router.GET("/api/corpus", func(c *gin.Context) {
		var buf bytes.Buffer
		if err := corpus.Encode(&buf, st.ExportCorpus()); err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Errore nell'esportazione del corpus"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", corpus.Filename(time.Now())))
		c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
	})

	router.POST("/api/corpus", func(c *gin.Context) {
		doc, err := corpus.Decode(c.Request.Body)
		if err != nil {
			badRequest(c, err)
			return
		}
		total := st.ImportCorpus(doc)
		log.Printf("✅ Importati %d messaggi, totale %d", doc.Len(), total)
		c.JSON(http.StatusOK, gin.H{"success": true, "imported": doc.Len(), "total": total})
	})

	router.DELETE("/api/data", func(c *gin.Context) {
		st.Clear()
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	router.GET("/api/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"total":     st.Len(),
			"wsClients": connectedClients(),
		})
	})
}

// respondNoData scrive la risposta per i casi "nessun dato" ed errore.
// Restituisce true se la risposta è già stata scritta.
func respondNoData(c *gin.Context, noData bool, err error) bool {
	switch {
	case err != nil:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Errore nel calcolo delle statistiche"})
		return true
	case noData:
		c.JSON(http.StatusOK, gin.H{"noData": true})
		return true
	}
	return false
}

func badRequest(c *gin.Context, err error) {
	if errors.Is(err, corpus.ErrMalformed) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Errore nella lettura della richiesta"})
}
