package ledger

import (
	"context"

	"github.com/google/uuid"
)

const (
	EventCampaignCreated      = "campaign-created"
	EventCampaignApproved     = "campaign-approved"
	EventContributionReceived = "contribution-received"
	EventMilestoneVerified    = "milestone-verified"
	EventMilestoneReleased    = "milestone-released"
	EventCampaignEnded        = "campaign-ended"
	EventRefundClaimed        = "refund-claimed"
	EventPaused               = "paused"
	EventUnpaused             = "unpaused"
	EventCollaboratorsUpdated = "collaborators-updated"
	EventCampaignPaused       = "campaign-paused"
	EventCampaignUnpaused     = "campaign-unpaused"
)

// Event is the notification of a committed mutation. CampaignID is zero for process-wide events
type Event struct {
	ID         uuid.UUID
	Name       string
	CampaignID CampaignID
	Caller     Identity
	Time       LogicalTime
	Data       map[string]interface{}
}

func newEvent(name string, campaignID CampaignID, caller Identity, now LogicalTime, data map[string]interface{}) Event {
	if data == nil {
		data = map[string]interface{}{}
	}
	return Event{
		ID:         uuid.New(),
		Name:       name,
		CampaignID: campaignID,
		Caller:     caller,
		Time:       now,
		Data:       data,
	}
}

// EventPublisher receives events after their transaction committed
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}
