// api/util/event_bus_test.go
package util_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trashmob-eco/trashmob-api/util"
)

func TestEventBus_PublishReachesAllSubscribers(t *testing.T) {
	bus := util.NewEventBus()

	var mu sync.Mutex
	got := make([]string, 0, 2)
	done := make(chan struct{}, 2)

	handler := func(name string) util.EventHandler {
		return func(ctx context.Context, e util.Event) error {
			mu.Lock()
			got = append(got, name+":"+e.Payload.(string))
			mu.Unlock()
			done <- struct{}{}
			return nil
		}
	}

	bus.Subscribe("team.updated", handler("a"))
	bus.Subscribe("team.updated", handler("b"))
	bus.Subscribe("other", handler("c"))

	bus.Publish(context.Background(), "team.updated", "t1")

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("handler did not run")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a:t1", "b:t1"}, got)
}

func TestEventBus_NoSubscribersIsANoop(t *testing.T) {
	bus := util.NewEventBus()
	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), "nobody.listens", "payload")
	})
}
