package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"walletbridge/relay/internal/config"
	"walletbridge/relay/internal/handler/middleware"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	relayHandler *RelayHandler,
	systemHandler *SystemHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))

	// Each route family advertises only the methods it serves. The
	// dispatch stays in the global chain so preflight OPTIONS requests,
	// which match no registered route, still reach the CORS handler.
	requestCORS := middleware.CORS(corsWithMethods(cfg.CORS,
		http.MethodPost, http.MethodHead, http.MethodGet, http.MethodPut))
	responseCORS := middleware.CORS(corsWithMethods(cfg.CORS,
		http.MethodGet, http.MethodPut))
	r.Use(func(c *gin.Context) {
		switch {
		case strings.HasPrefix(c.Request.URL.Path, "/request"):
			requestCORS(c)
		case strings.HasPrefix(c.Request.URL.Path, "/response"):
			responseCORS(c)
		default:
			c.Next()
		}
	})

	r.GET("/", systemHandler.Info)
	r.GET("/healthz", systemHandler.Health)

	// Web leg: create a request, poll for the response.
	r.POST("/request", relayHandler.CreateRequest)
	r.GET("/response/:request_id", relayHandler.FetchResponse)

	// Wallet leg: claim the request, submit the response.
	r.HEAD("/request/:request_id", relayHandler.HasRequest)
	r.GET("/request/:request_id", relayHandler.ClaimRequest)
	r.PUT("/response/:request_id", relayHandler.SubmitResponse)

	// Retry-safe creation with a caller-supplied id, deployment-gated.
	if cfg.Relay.IdempotentCreate {
		r.PUT("/request/:request_id", relayHandler.PutRequest)
	}

	return r
}

// corsWithMethods narrows the configured CORS policy to the methods one
// route family serves.
func corsWithMethods(cfg config.CORSConfig, methods ...string) config.CORSConfig {
	cfg.AllowedMethods = methods
	return cfg
}
