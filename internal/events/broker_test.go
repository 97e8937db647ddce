package events

import (
	"context"
	"testing"
	"time"
)

func recvEvent(t *testing.T, ch chan Event) (Event, bool) {
	t.Helper()
	select {
	case ev, ok := <-ch:
		return ev, ok
	case <-time.After(time.Second):
		return Event{}, false
	}
}

func TestPublishDeliversToSubscriber(t *testing.T) {
	b := NewBroker(nil)
	ctx := context.Background()

	sub := b.Subscribe("thread:1")
	defer b.Unsubscribe(sub)

	b.Publish(ctx, Event{Entity: "thread", ID: 1, Action: ActionUpdated})

	ev, ok := recvEvent(t, sub.C)
	if !ok {
		t.Fatal("expected event delivery")
	}
	if ev.Key() != "thread:1" || ev.Action != ActionUpdated {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestPublishSkipsOtherKeys(t *testing.T) {
	b := NewBroker(nil)
	ctx := context.Background()

	sub := b.Subscribe("thread:1")
	defer b.Unsubscribe(sub)

	b.Publish(ctx, Event{Entity: "thread", ID: 2, Action: ActionUpdated})

	select {
	case ev := <-sub.C:
		t.Errorf("should not receive event for other key, got: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAddRemoveKeys(t *testing.T) {
	b := NewBroker(nil)
	ctx := context.Background()

	sub := b.Subscribe()
	defer b.Unsubscribe(sub)

	b.Add(sub, "comment:5")
	b.Publish(ctx, Event{Entity: "comment", ID: 5, Action: ActionCreated})
	if _, ok := recvEvent(t, sub.C); !ok {
		t.Fatal("expected event after Add")
	}

	b.Remove(sub, "comment:5")
	b.Publish(ctx, Event{Entity: "comment", ID: 5, Action: ActionCreated})
	select {
	case ev := <-sub.C:
		t.Errorf("should not receive event after Remove, got: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker(nil)

	sub := b.Subscribe("user:1")
	b.Unsubscribe(sub)

	if _, ok := <-sub.C; ok {
		t.Error("channel should be closed after Unsubscribe")
	}
}

func TestSlowConsumerDoesNotBlock(t *testing.T) {
	b := NewBroker(nil)
	ctx := context.Background()

	sub := b.Subscribe("thread:9")
	defer b.Unsubscribe(sub)

	// Overfill the buffer; Publish must not block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(ctx, Event{Entity: "thread", ID: 9, Action: ActionUpdated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on slow consumer")
	}
}
