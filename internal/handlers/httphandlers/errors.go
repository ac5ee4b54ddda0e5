package httphandlers

import (
	"errors"
	"net/http"

	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/gin-gonic/gin"
)

var (
	ErrMissingCaller = errors.New("missing X-Caller-Address header")
	ErrNotFound      = errors.New("not found")
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrCampaignNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidParam), errors.Is(err, ledger.ErrInvalidMilestone):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrCampaignActive),
		errors.Is(err, ledger.ErrMilestoneNotReached),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrFundsLocked),
		errors.Is(err, ledger.ErrNotApproved):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrTransferFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *HTTPHandler) writeError(ctx *gin.Context, err error) {
	status := statusOf(err)
	code := ledger.Code(err)
	if errors.Is(err, ErrNotFound) {
		code = 0
	}
	if status == http.StatusInternalServerError {
		h.log.Errorf("%s %s: %s", ctx.Request.Method, ctx.FullPath(), err)
	}
	ctx.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

// writeBadRequest reports malformed input that never reached the ledger
func (h *HTTPHandler) writeBadRequest(ctx *gin.Context, err error) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: ledger.CodeInvalidParam})
}
