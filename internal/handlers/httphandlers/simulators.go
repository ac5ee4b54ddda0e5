package httphandlers

import (
	"github.com/Lumerin-protocol/milestone-ledger/internal/repositories/local"
	"github.com/gin-gonic/gin"
)

// Simulators are the in-process collaborators of local mode, exposed so
// their decisions can be driven over HTTP
type Simulators struct {
	Governance *local.Governance
	Oracle     *local.Oracle
	Custodian  *local.Custodian
}

func (h *HTTPHandler) registerSimulators(r *gin.Engine) {
	g := r.Group("/local")
	g.POST("/governance/campaigns/:id/approve", h.SimApprove)
	g.POST("/governance/campaigns/:id/revoke", h.SimRevoke)
	g.POST("/oracle/campaigns/:id/milestones/:index/reject", h.SimRejectMilestone)
	g.POST("/oracle/campaigns/:id/milestones/:index/accept", h.SimAcceptMilestone)
	g.GET("/custodian", h.SimCustodianPool)
	g.GET("/custodian/campaigns/:id", h.SimCustodianHeld)
}

func (h *HTTPHandler) SimApprove(ctx *gin.Context) {
	id, err := campaignIDParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	h.simulators.Governance.Approve(id)
	ctx.JSON(200, gin.H{"id": id, "approved": true})
}

func (h *HTTPHandler) SimRevoke(ctx *gin.Context) {
	id, err := campaignIDParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	h.simulators.Governance.Revoke(id)
	ctx.JSON(200, gin.H{"id": id, "approved": false})
}

func (h *HTTPHandler) SimRejectMilestone(ctx *gin.Context) {
	h.simSetMilestone(ctx, false)
}

func (h *HTTPHandler) SimAcceptMilestone(ctx *gin.Context) {
	h.simSetMilestone(ctx, true)
}

func (h *HTTPHandler) simSetMilestone(ctx *gin.Context, accept bool) {
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
	if accept {
		h.simulators.Oracle.Accept(id, index)
	} else {
		h.simulators.Oracle.Reject(id, index)
	}
	ctx.JSON(200, gin.H{"id": id, "index": index, "accepted": accept})
}

func (h *HTTPHandler) SimCustodianPool(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"pool": h.simulators.Custodian.Pool()})
}

func (h *HTTPHandler) SimCustodianHeld(ctx *gin.Context) {
	id, err := campaignIDParam(ctx)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	ctx.JSON(200, gin.H{"id": id, "held": h.simulators.Custodian.Held(id)})
}
