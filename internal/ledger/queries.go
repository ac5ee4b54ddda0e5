package ledger

import "context"

func (l *Ledger) GetState(ctx context.Context) (State, error) {
	var res State
	err := l.view(ctx, func(tx Tx, state State) error {
		res = state
		return nil
	})
	return res, err
}

func (l *Ledger) GetNextCampaignID(ctx context.Context) (CampaignID, error) {
	state, err := l.GetState(ctx)
	return state.NextCampaignID, err
}

func (l *Ledger) IsPaused(ctx context.Context) (bool, error) {
	state, err := l.GetState(ctx)
	return state.Paused, err
}

func (l *Ledger) GetCampaign(ctx context.Context, id CampaignID) (*Campaign, bool, error) {
	var (
		campaign *Campaign
		ok       bool
	)
	err := l.store.View(ctx, func(tx Tx) (err error) {
		campaign, ok, err = tx.Campaign(id)
		return err
	})
	return campaign, ok, err
}

func (l *Ledger) GetContribution(ctx context.Context, id CampaignID, contributor Identity) (*Contribution, bool, error) {
	var (
		contribution *Contribution
		ok           bool
	)
	err := l.store.View(ctx, func(tx Tx) (err error) {
		contribution, ok, err = tx.Contribution(id, contributor)
		return err
	})
	return contribution, ok, err
}

func (l *Ledger) GetMilestoneVerification(ctx context.Context, id CampaignID, index uint32) (*MilestoneVerification, bool, error) {
	var (
		verification *MilestoneVerification
		ok           bool
	)
	err := l.store.View(ctx, func(tx Tx) (err error) {
		verification, ok, err = tx.Verification(id, index)
		return err
	})
	return verification, ok, err
}

func (l *Ledger) ListCampaigns(ctx context.Context) ([]*Campaign, error) {
	var campaigns []*Campaign
	err := l.store.View(ctx, func(tx Tx) (err error) {
		campaigns, err = tx.Campaigns()
		return err
	})
	return campaigns, err
}

func (l *Ledger) ListContributions(ctx context.Context, id CampaignID) ([]*Contribution, error) {
	var contributions []*Contribution
	err := l.store.View(ctx, func(tx Tx) (err error) {
		contributions, err = tx.Contributions(id)
		return err
	})
	return contributions, err
}

// ListEvents returns the events of a campaign, id 0 selects process-wide events
func (l *Ledger) ListEvents(ctx context.Context, id CampaignID) ([]Event, error) {
	var events []Event
	err := l.store.View(ctx, func(tx Tx) (err error) {
		events, err = tx.Events(id)
		return err
	})
	return events, err
}

// ExpiredCampaigns lists the active campaigns whose deadline is reached and whose goal was missed
func (l *Ledger) ExpiredCampaigns(ctx context.Context) ([]CampaignID, error) {
	now, err := l.clock.Now(ctx)
	if err != nil {
		return nil, err
	}
	campaigns, err := l.ListCampaigns(ctx)
	if err != nil {
		return nil, err
	}
	var ids []CampaignID
	for _, c := range campaigns {
		if c.Active && now >= c.Deadline && !c.IsSuccessful() {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}
