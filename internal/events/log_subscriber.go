package events

import (
	"context"

	"github.com/Lumerin-protocol/milestone-ledger/internal/interfaces"
	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
)

type LogSubscriber struct {
	log interfaces.ILogger
}

func NewLogSubscriber(log interfaces.ILogger) *LogSubscriber {
	return &LogSubscriber{log: log}
}

func (s *LogSubscriber) Name() string {
	return "log"
}

func (s *LogSubscriber) Handle(ctx context.Context, event ledger.Event) error {
	s.log.Infof("event %s campaign=%d caller=%s time=%d data=%v", event.Name, event.CampaignID, lib.AddrShort(event.Caller.Hex()), event.Time, event.Data)
	return nil
}
