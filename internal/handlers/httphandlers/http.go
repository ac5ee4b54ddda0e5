package httphandlers

import (
	"context"

	"github.com/Lumerin-protocol/milestone-ledger/internal/config"
	"github.com/Lumerin-protocol/milestone-ledger/internal/events"
	"github.com/Lumerin-protocol/milestone-ledger/internal/interfaces"
	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/gin-gonic/gin"
)

type Ledger interface {
	GetState(ctx context.Context) (ledger.State, error)
	SetCollaboratorAddresses(ctx context.Context, caller ledger.Identity, governance, oracle, custodian ledger.Identity) error
	Pause(ctx context.Context, caller ledger.Identity) error
	Unpause(ctx context.Context, caller ledger.Identity) error
	SetCampaignPaused(ctx context.Context, caller ledger.Identity, id ledger.CampaignID, paused bool) error

	CreateCampaign(ctx context.Context, caller ledger.Identity, params ledger.CreateCampaignParams) (ledger.CampaignID, error)
	ApproveCampaign(ctx context.Context, caller ledger.Identity, id ledger.CampaignID) error
	Contribute(ctx context.Context, caller ledger.Identity, id ledger.CampaignID, amount uint64) error
	VerifyMilestone(ctx context.Context, caller ledger.Identity, id ledger.CampaignID, index uint32, evidence string) error
	ReleaseMilestoneFunds(ctx context.Context, caller ledger.Identity, id ledger.CampaignID, index uint32) (uint64, error)
	EndCampaign(ctx context.Context, caller ledger.Identity, id ledger.CampaignID) (bool, error)
	ClaimRefund(ctx context.Context, caller ledger.Identity, id ledger.CampaignID) (uint64, error)

	GetCampaign(ctx context.Context, id ledger.CampaignID) (*ledger.Campaign, bool, error)
	ListCampaigns(ctx context.Context) ([]*ledger.Campaign, error)
	GetContribution(ctx context.Context, id ledger.CampaignID, contributor ledger.Identity) (*ledger.Contribution, bool, error)
	ListContributions(ctx context.Context, id ledger.CampaignID) ([]*ledger.Contribution, error)
	GetMilestoneVerification(ctx context.Context, id ledger.CampaignID, index uint32) (*ledger.MilestoneVerification, bool, error)
	ListEvents(ctx context.Context, id ledger.CampaignID) ([]ledger.Event, error)
}

type SanitizedConfigProvider interface {
	GetSanitized() interface{}
}

type EventStatsProvider interface {
	Stats() events.Stats
}

type HTTPHandler struct {
	ledger     Ledger
	config     SanitizedConfigProvider
	eventStats EventStatsProvider
	simulators *Simulators
	log        interfaces.ILogger
}

// NewHTTPHandler builds the router, simulators and eventStats are optional
func NewHTTPHandler(l Ledger, cfg SanitizedConfigProvider, eventStats EventStatsProvider, simulators *Simulators, log interfaces.ILogger) *gin.Engine {
	handl := &HTTPHandler{
		ledger:     l,
		config:     cfg,
		eventStats: eventStats,
		simulators: simulators,
		log:        log,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthcheck", handl.HealthCheck)
	r.GET("/config", handl.GetConfig)
	r.GET("/state", handl.GetState)

	r.GET("/campaigns", handl.GetCampaigns)
	r.GET("/campaigns/:id", handl.GetCampaign)
	r.GET("/campaigns/:id/contributions", handl.GetContributions)
	r.GET("/campaigns/:id/contributions/:address", handl.GetContribution)
	r.GET("/campaigns/:id/milestones/:index/verification", handl.GetMilestoneVerification)
	r.GET("/campaigns/:id/events", handl.GetCampaignEvents)
	r.GET("/events", handl.GetLedgerEvents)

	authed := r.Group("/", handl.RequireCaller)

	authed.POST("/admin/collaborators", handl.SetCollaborators)
	authed.POST("/admin/pause", handl.Pause)
	authed.POST("/admin/unpause", handl.Unpause)
	authed.POST("/admin/campaigns/:id/pause", handl.PauseCampaign)
	authed.POST("/admin/campaigns/:id/unpause", handl.UnpauseCampaign)

	authed.POST("/campaigns", handl.CreateCampaign)
	authed.POST("/campaigns/:id/approve", handl.ApproveCampaign)
	authed.POST("/campaigns/:id/contributions", handl.Contribute)
	authed.POST("/campaigns/:id/milestones/:index/verify", handl.VerifyMilestone)
	authed.POST("/campaigns/:id/milestones/:index/release", handl.ReleaseMilestoneFunds)
	authed.POST("/campaigns/:id/end", handl.EndCampaign)
	authed.POST("/campaigns/:id/refund", handl.ClaimRefund)

	if simulators != nil {
		handl.registerSimulators(r)
	}

	err := r.SetTrustedProxies(nil)
	if err != nil {
		panic(err)
	}

	return r
}

func (h *HTTPHandler) HealthCheck(ctx *gin.Context) {
	res := gin.H{
		"status":  "healthy",
		"version": config.BuildVersion,
	}
	if h.eventStats != nil {
		res["events"] = h.eventStats.Stats()
	}
	ctx.JSON(200, res)
}

func (h *HTTPHandler) GetState(ctx *gin.Context) {
	state, err := h.ledger.GetState(ctx.Request.Context())
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(200, mapState(state))
}
