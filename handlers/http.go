package handlers

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// CORSMiddleware abilita CORS per la dashboard e l'estensione
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, "+requestIDHeader)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// RequestIDMiddleware propaga l'X-Request-ID del client o ne genera uno nuovo
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		c.Set("requestID", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()

		if len(c.Errors) > 0 {
			log.Printf("❌ [%s] %s %s: %v", id, c.Request.Method, c.Request.URL.Path, c.Errors.Last())
		}
	}
}

// SetupRoutes configura middleware, API e websocket
func SetupRoutes(router *gin.Engine, st StoreManager, provider StatsProvider, loc *time.Location) {
	router.Use(CORSMiddleware(), RequestIDMiddleware())
	SetupAPIRoutes(router, st, provider, loc)
	router.GET("/ws", func(c *gin.Context) {
		HandleWebSocket(c.Writer, c.Request)
	})
}
