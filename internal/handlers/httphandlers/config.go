package httphandlers

import (
	"github.com/Lumerin-protocol/milestone-ledger/internal/config"
	"github.com/gin-gonic/gin"
)

type ConfigResponse struct {
	Version string      `json:"version"`
	Config  interface{} `json:"config"`
}

func (h *HTTPHandler) GetConfig(ctx *gin.Context) {
	ctx.JSON(200, ConfigResponse{
		Version: config.BuildVersion,
		Config:  h.config.GetSanitized(),
	})
}
