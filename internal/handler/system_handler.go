package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"walletbridge/relay/internal/repository"
)

type SystemHandler struct {
	kv      repository.KVStore
	version string
}

func NewSystemHandler(kv repository.KVStore, version string) *SystemHandler {
	return &SystemHandler{kv: kv, version: version}
}

type ServiceInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	RepoURL string `json:"repo_url"`
}

// Info handles GET /.
func (h *SystemHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, ServiceInfo{
		Service: "wallet-bridge",
		Version: h.version,
		RepoURL: "https://github.com/walletbridge/relay",
	})
}

// Health handles GET /healthz, including a store round trip.
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.kv.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
