package httphandlers

import (
	"fmt"
	"strconv"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
	"github.com/gin-gonic/gin"
)

const (
	CallerHeader = "X-Caller-Address"
	callerKey    = "caller"
)

// RequireCaller resolves the identity the request acts as
func (h *HTTPHandler) RequireCaller(ctx *gin.Context) {
	header := ctx.GetHeader(CallerHeader)
	if header == "" {
		h.writeBadRequest(ctx, ErrMissingCaller)
		return
	}
	addr, err := lib.ParseAddr(header)
	if err != nil {
		h.writeBadRequest(ctx, err)
		return
	}
	ctx.Set(callerKey, addr)
	ctx.Next()
}

func caller(ctx *gin.Context) ledger.Identity {
	return ctx.MustGet(callerKey).(ledger.Identity)
}

func campaignIDParam(ctx *gin.Context) (ledger.CampaignID, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid campaign id %q", ctx.Param("id"))
	}
	return ledger.CampaignID(id), nil
}

func milestoneIndexParam(ctx *gin.Context) (uint32, error) {
	index, err := strconv.ParseUint(ctx.Param("index"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid milestone index %q", ctx.Param("index"))
	}
	return uint32(index), nil
}
