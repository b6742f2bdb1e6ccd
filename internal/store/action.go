package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"burger-storefront/internal/domain"
	"burger-storefront/internal/logging"

	"github.com/sirupsen/logrus"
)

const (
	defaultQueueSize   = 256
	defaultSinkTimeout = 5 * time.Second
)

type Listener func(domain.Action)

type subscription struct {
	listener Listener
}

// Bus fans dispatched actions out to listeners and sinks. Listeners run on the
// dispatching goroutine in subscription order; sinks are fed from a queue by a
// single background goroutine so a slow broker never stalls a reducer.
type Bus struct {
	log         logrus.FieldLogger
	sinks       []ActionSink
	sinkTimeout time.Duration
	now         func() time.Time

	mu        sync.RWMutex
	listeners []*subscription
	closed    bool

	queue chan domain.Action
	done  chan struct{}
	once  sync.Once
}

func NewBus(logger logrus.FieldLogger, sinks ...ActionSink) *Bus {
	b := &Bus{
		log:         logging.Component(logger, "bus"),
		sinks:       sinks,
		sinkTimeout: defaultSinkTimeout,
		now:         time.Now,
		queue:       make(chan domain.Action, defaultQueueSize),
		done:        make(chan struct{}),
	}
	go b.drain()
	return b
}

// Subscribe registers a listener and returns a function that removes it.
func (b *Bus) Subscribe(listener Listener) func() {
	sub := &subscription{listener: listener}

	b.mu.Lock()
	b.listeners = append(slices.Clone(b.listeners), sub)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.listeners = slices.DeleteFunc(slices.Clone(b.listeners), func(s *subscription) bool {
			return s == sub
		})
	}
}

func (b *Bus) Publish(actionType string, payload any) domain.Action {
	action := domain.Action{Type: actionType, Payload: payload, At: b.now()}

	b.mu.RLock()
	listeners := b.listeners
	if !b.closed && len(b.sinks) > 0 {
		select {
		case b.queue <- action:
		default:
			b.log.WithField("action", action.Type).Warn("action queue full, dropping action")
		}
	}
	b.mu.RUnlock()

	b.log.WithField("action", action.Type).Debug("dispatched")
	for _, sub := range listeners {
		sub.listener(action)
	}
	return action
}

// Close stops accepting actions for sinks and waits until the queued ones
// have been delivered.
func (b *Bus) Close() {
	b.once.Do(func() {
		b.mu.Lock()
		b.closed = true
		close(b.queue)
		b.mu.Unlock()
	})
	<-b.done
}

func (b *Bus) drain() {
	defer close(b.done)
	for action := range b.queue {
		for _, sink := range b.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), b.sinkTimeout)
			if err := sink.PublishAction(ctx, action); err != nil {
				b.log.WithError(err).WithField("action", action.Type).Warn("failed to publish action")
			}
			cancel()
		}
	}
}
