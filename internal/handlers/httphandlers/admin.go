package httphandlers

import (
	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) SetCollaborators(ctx *gin.Context) {
	var req CollaboratorsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.writeBadRequest(ctx, err)
		return
	}

	err := h.ledger.SetCollaboratorAddresses(ctx.Request.Context(), caller(ctx),
		lib.MustParseAddr(req.Governance),
		lib.MustParseAddr(req.Oracle),
		lib.MustParseAddr(req.Custodian),
	)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(200, gin.H{"status": "ok"})
}

func (h *HTTPHandler) Pause(ctx *gin.Context) {
	if err := h.ledger.Pause(ctx.Request.Context(), caller(ctx)); err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(200, gin.H{"paused": true})
}

func (h *HTTPHandler) Unpause(ctx *gin.Context) {
	if err := h.ledger.Unpause(ctx.Request.Context(), caller(ctx)); err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(200, gin.H{"paused": false})
}

func (h *HTTPHandler) PauseCampaign(ctx *gin.Context) {
	h.setCampaignPaused(ctx, true)
}

func (h *HTTPHandler) UnpauseCampaign(ctx *gin.Context) {
	h.setCampaignPaused(ctx, false)
}

func (h *HTTPHandler) setCampaignPaused(ctx *gin.Context, paused bool) {
	id, err := campaignIDParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	if err := h.ledger.SetCampaignPaused(ctx.Request.Context(), caller(ctx), id, paused); err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(200, gin.H{"campaignId": id, "paused": paused})
}
