package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"burger-storefront/internal/domain"
	"burger-storefront/internal/mocks"
	"burger-storefront/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBus_ListenersRunInOrder(t *testing.T) {
	bus := store.NewBus(nil)
	defer bus.Close()

	var seen []string
	bus.Subscribe(func(action domain.Action) { seen = append(seen, "first:"+action.Type) })
	unsubscribe := bus.Subscribe(func(action domain.Action) { seen = append(seen, "second:"+action.Type) })

	action := bus.Publish("constructor/resetState", nil)
	assert.Equal(t, "constructor/resetState", action.Type)
	assert.False(t, action.At.IsZero())

	unsubscribe()
	bus.Publish("order/resetOrder", nil)

	assert.Equal(t, []string{
		"first:constructor/resetState",
		"second:constructor/resetState",
		"first:order/resetOrder",
	}, seen)
}

func TestBus_SinksReceiveActionsAfterClose(t *testing.T) {
	sink := mocks.NewActionSink(t)
	failing := mocks.NewActionSink(t)

	var mu sync.Mutex
	var delivered []string
	sink.On("PublishAction", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			delivered = append(delivered, args.Get(1).(domain.Action).Type)
		}).
		Return(nil).Times(3)
	failing.On("PublishAction", mock.Anything, mock.Anything).Return(errors.New("broker unavailable")).Times(3)

	bus := store.NewBus(nil, failing, sink)
	bus.Publish("user/login/pending", nil)
	bus.Publish("user/login/fulfilled", nil)
	bus.Publish("order/getFeeds/pending", nil)
	bus.Close()

	bus.Publish("order/getFeeds/fulfilled", nil)
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"user/login/pending", "user/login/fulfilled", "order/getFeeds/pending"}, delivered)
}

func TestRun(t *testing.T) {
	release := make(chan struct{})
	task := store.Run(context.Background(), func(context.Context) error {
		<-release
		return errors.New("failed")
	})

	select {
	case <-task.Done():
		t.Fatal("task finished before release")
	default:
	}

	close(release)
	<-task.Done()
	assert.EqualError(t, task.Wait(), "failed")
}

func TestRun_PassesContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := store.Run(ctx, func(ctx context.Context) error { return ctx.Err() })
	require.ErrorIs(t, task.Wait(), context.Canceled)
}

func TestContainer_PublishesInApplyOrder(t *testing.T) {
	const adds = 50

	var mu sync.Mutex
	var logged []string
	sink := mocks.NewActionSink(t)
	sink.On("PublishAction", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			logged = append(logged, args.Get(1).(domain.Action).Payload.(domain.AssemblyItem).InstanceID)
		}).
		Return(nil).Times(adds)

	bus := store.NewBus(nil, sink)
	var heard []string
	bus.Subscribe(func(action domain.Action) {
		heard = append(heard, action.Payload.(domain.AssemblyItem).InstanceID)
	})
	assembly := store.NewAssembly(bus)

	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assembly.Add(meteorite)
		}()
	}
	wg.Wait()
	bus.Close()

	applied := make([]string, 0, adds)
	for _, item := range assembly.Fillings() {
		applied = append(applied, item.InstanceID)
	}
	require.Len(t, applied, adds)
	assert.Equal(t, applied, heard)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, applied, logged)
}
