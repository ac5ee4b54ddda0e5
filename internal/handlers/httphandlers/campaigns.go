package httphandlers

import (
	"fmt"
	"net/http"

	"github.com/Lumerin-protocol/milestone-ledger/internal/events"
	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) CreateCampaign(ctx *gin.Context) {
	var req CreateCampaignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.writeBadRequest(ctx, err)
		return
	}

	id, err := h.ledger.CreateCampaign(ctx.Request.Context(), caller(ctx), req.params())
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *HTTPHandler) ApproveCampaign(ctx *gin.Context) {
	id, err := campaignIDParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	if err := h.ledger.ApproveCampaign(ctx.Request.Context(), caller(ctx), id); err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(200, gin.H{"id": id, "approved": true})
}

func (h *HTTPHandler) Contribute(ctx *gin.Context) {
	id, err := campaignIDParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	var req ContributeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.writeBadRequest(ctx, err)
		return
	}

	if err := h.ledger.Contribute(ctx.Request.Context(), caller(ctx), id, req.Amount); err != nil {
		h.writeError(ctx, err)
		return
	}
	h.writeContribution(ctx, id, caller(ctx))
}

func (h *HTTPHandler) VerifyMilestone(ctx *gin.Context) {
	id, err := campaignIDParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	index, err := milestoneIndexParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	var req VerifyMilestoneRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.writeBadRequest(ctx, err)
		return
	}

	if err := h.ledger.VerifyMilestone(ctx.Request.Context(), caller(ctx), id, index, req.Evidence); err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(200, gin.H{"id": id, "index": index, "verified": true})
}

func (h *HTTPHandler) ReleaseMilestoneFunds(ctx *gin.Context) {
	id, err := campaignIDParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	index, err := milestoneIndexParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}

	amount, err := h.ledger.ReleaseMilestoneFunds(ctx.Request.Context(), caller(ctx), id, index)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(200, gin.H{"id": id, "index": index, "amount": amount})
}

func (h *HTTPHandler) EndCampaign(ctx *gin.Context) {
	id, err := campaignIDParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}

	successful, err := h.ledger.EndCampaign(ctx.Request.Context(), caller(ctx), id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(200, gin.H{"id": id, "successful": successful})
}

func (h *HTTPHandler) ClaimRefund(ctx *gin.Context) {
	id, err := campaignIDParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}

	amount, err := h.ledger.ClaimRefund(ctx.Request.Context(), caller(ctx), id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(200, gin.H{"id": id, "amount": amount})
}

func (h *HTTPHandler) GetCampaigns(ctx *gin.Context) {
	campaigns, err := h.ledger.ListCampaigns(ctx.Request.Context())
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	res := make([]CampaignResponse, len(campaigns))
	for i, c := range campaigns {
		res[i] = mapCampaign(c)
	}
	ctx.JSON(200, res)
}

func (h *HTTPHandler) GetCampaign(ctx *gin.Context) {
	id, err := campaignIDParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	campaign, ok, err := h.ledger.GetCampaign(ctx.Request.Context(), id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	if !ok {
		h.writeError(ctx, lib.WrapError(ledger.ErrCampaignNotFound, fmt.Errorf("campaign %d", id)))
		return
	}
	ctx.JSON(200, mapCampaign(campaign))
}

func (h *HTTPHandler) GetContributions(ctx *gin.Context) {
	id, err := campaignIDParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	if !h.campaignExists(ctx, id) {
		return
	}
	contributions, err := h.ledger.ListContributions(ctx.Request.Context(), id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	res := make([]ContributionResponse, len(contributions))
	for i, c := range contributions {
		res[i] = mapContribution(c)
	}
	ctx.JSON(200, res)
}

func (h *HTTPHandler) GetContribution(ctx *gin.Context) {
	id, err := campaignIDParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	contributor, err := lib.ParseAddr(ctx.Param("address"))
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	h.writeContribution(ctx, id, contributor)
}

func (h *HTTPHandler) writeContribution(ctx *gin.Context, id ledger.CampaignID, contributor ledger.Identity) {
	contribution, ok, err := h.ledger.GetContribution(ctx.Request.Context(), id, contributor)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	if !ok {
		h.writeError(ctx, lib.WrapError(ErrNotFound, fmt.Errorf("no contribution from %s to campaign %d", contributor.Hex(), id)))
		return
	}
	ctx.JSON(200, mapContribution(contribution))
}

func (h *HTTPHandler) GetMilestoneVerification(ctx *gin.Context) {
	id, err := campaignIDParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	index, err := milestoneIndexParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	verification, ok, err := h.ledger.GetMilestoneVerification(ctx.Request.Context(), id, index)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	if !ok {
		h.writeError(ctx, lib.WrapError(ErrNotFound, fmt.Errorf("milestone %d of campaign %d is not verified", index, id)))
		return
	}
	ctx.JSON(200, mapVerification(verification))
}

func (h *HTTPHandler) GetCampaignEvents(ctx *gin.Context) {
	id, err := campaignIDParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	if id == 0 {
		h.writeBadRequest(ctx, fmt.Errorf("invalid campaign id %q", ctx.Param("id")))
		return
	}
	h.writeEvents(ctx, id)
}

// GetLedgerEvents lists the events that belong to no campaign
func (h *HTTPHandler) GetLedgerEvents(ctx *gin.Context) {
	h.writeEvents(ctx, 0)
}

func (h *HTTPHandler) writeEvents(ctx *gin.Context, id ledger.CampaignID) {
	list, err := h.ledger.ListEvents(ctx.Request.Context(), id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	res := make([]events.Message, len(list))
	for i, e := range list {
		res[i] = events.NewMessage(e)
	}
	ctx.JSON(200, res)
}

func (h *HTTPHandler) campaignExists(ctx *gin.Context, id ledger.CampaignID) bool {
	_, ok, err := h.ledger.GetCampaign(ctx.Request.Context(), id)
	if err != nil {
		h.writeError(ctx, err)
		return false
	}
	if !ok {
		h.writeError(ctx, lib.WrapError(ledger.ErrCampaignNotFound, fmt.Errorf("campaign %d", id)))
		return false
	}
	return true
}
