package ledger

import "errors"

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrCampaignActive      = errors.New("campaign active")
	ErrInvalidParam        = errors.New("invalid param")
	ErrInvalidMilestone    = errors.New("invalid milestone")
	ErrMilestoneNotReached = errors.New("milestone not reached")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrFundsLocked         = errors.New("funds locked")
	ErrNotApproved         = errors.New("not approved")
	ErrTransferFailed      = errors.New("transfer failed")
)

// Stable numeric codes of the categorical errors, CodeUnknown marks infrastructure failures
const (
	CodeUnknown = iota + 99
	CodeUnauthorized
	CodeCampaignNotFound
	CodeCampaignActive
	CodeInvalidParam
	CodeInvalidMilestone
	CodeMilestoneNotReached
	CodeInsufficientFunds
	CodeFundsLocked
	CodeNotApproved
	CodeTransferFailed
)

var errorCodes = []struct {
	err  error
	code int
}{
	{ErrUnauthorized, CodeUnauthorized},
	{ErrCampaignNotFound, CodeCampaignNotFound},
	{ErrCampaignActive, CodeCampaignActive},
	{ErrInvalidParam, CodeInvalidParam},
	{ErrInvalidMilestone, CodeInvalidMilestone},
	{ErrMilestoneNotReached, CodeMilestoneNotReached},
	{ErrInsufficientFunds, CodeInsufficientFunds},
	{ErrFundsLocked, CodeFundsLocked},
	{ErrNotApproved, CodeNotApproved},
	{ErrTransferFailed, CodeTransferFailed},
}

// Code returns the code of the first categorical error found in the chain
func Code(err error) int {
	if err == nil {
		return 0
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeUnknown
}

// IsCategorical reports whether err is one of the ledger failures rather than an infrastructure error
func IsCategorical(err error) bool {
	return Code(err) > CodeUnknown
}
