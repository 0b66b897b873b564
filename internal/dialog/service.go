package dialog

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
)

const lockStripes = 64

// Service runs turns against the conversation store. Turns for one
// conversation id are serialized through a striped mutex around the
// read-advance-write cycle; distinct conversations proceed independently,
// except that ids sharing a stripe serialize together.
type Service struct {
	store   Store
	machine *Machine
	logger  *slog.Logger

	locks [lockStripes]sync.Mutex
}

// NewService creates a Service.
func NewService(store Store, machine *Machine, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		machine: machine,
		logger:  logger,
	}
}

// HandleMessage processes one inbound message for a conversation and returns
// the turn's presentation effects. State mutations that happened before a
// failing backend call stay committed; only store errors fail the turn.
func (s *Service) HandleMessage(ctx context.Context, conversationID, text string) ([]Effect, error) {
	lock := s.lockFor(conversationID)
	lock.Lock()
	defer lock.Unlock()

	st, err := s.store.Get(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", conversationID, err)
	}

	fx := s.machine.Advance(ctx, st, text)

	if err := s.store.Put(ctx, conversationID, st); err != nil {
		return nil, fmt.Errorf("save conversation %s: %w", conversationID, err)
	}

	s.logger.Debug("turn completed", "conversation", conversationID, "effects", len(fx))
	return fx, nil
}

// lockFor maps a conversation id onto its stripe. The lock set is fixed, so
// memory stays flat no matter how many conversation ids the process sees.
func (s *Service) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &s.locks[h.Sum32()%lockStripes]
}
