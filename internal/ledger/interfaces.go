package ledger

import "context"

type Governance interface {
	IsApproved(ctx context.Context, campaignID CampaignID) (bool, error)
}

type Oracle interface {
	VerifyMilestone(ctx context.Context, campaignID CampaignID, index uint32, evidence string) (bool, error)
}

// Custodian holds the funds, the ledger only instructs it
type Custodian interface {
	Deposit(ctx context.Context, from Identity, campaignID CampaignID, amount uint64) error
	ReleaseFunds(ctx context.Context, recipient Identity, amount uint64) error
	Refund(ctx context.Context, recipient Identity, campaignID CampaignID, amount uint64) error
}

// Directory resolves the collaborator deployed at an address
type Directory interface {
	Governance(addr Identity) (Governance, error)
	Oracle(addr Identity) (Oracle, error)
	Custodian(addr Identity) (Custodian, error)
}

type Clock interface {
	Now(ctx context.Context) (LogicalTime, error)
}

// Store gives transactional access to the ledger state. Update discards every write
// made inside fn if fn returns an error
type Store interface {
	View(ctx context.Context, fn func(tx Tx) error) error
	Update(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is a view on the store inside a transaction. Getters return ok=false for missing keys
type Tx interface {
	State() (State, bool, error)
	PutState(state State) error

	Campaign(id CampaignID) (*Campaign, bool, error)
	PutCampaign(campaign *Campaign) error
	// Campaigns lists campaigns ordered by id
	Campaigns() ([]*Campaign, error)

	Contribution(id CampaignID, contributor Identity) (*Contribution, bool, error)
	PutContribution(contribution *Contribution) error
	// Contributions lists the contributions to a campaign ordered by contributor
	Contributions(id CampaignID) ([]*Contribution, error)

	Verification(id CampaignID, index uint32) (*MilestoneVerification, bool, error)
	PutVerification(verification *MilestoneVerification) error

	AppendEvent(event Event) error
	// Events lists the events of a campaign in append order
	Events(id CampaignID) ([]Event, error)
}
