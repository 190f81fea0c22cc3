package event

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/autopilot/domain/event"
	memstore "github.com/felixgeelhaar/autopilot/infrastructure/storage/memory"
)

func mustEvent(t *testing.T, typ event.Type) event.Event {
	t.Helper()
	e, err := event.New("agent-1", typ, map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("event.New() error = %v", err)
	}
	return e
}

func recv(t *testing.T, ch <-chan event.Event) event.Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		if !ok {
			t.Fatal("channel closed before delivery")
		}
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return event.Event{}
}

func TestBus_PublishSubscribe(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, cancel := b.Subscribe()
	defer cancel()

	sent := mustEvent(t, event.TypeStatusChanged)
	if err := b.Publish(context.Background(), sent); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	got := recv(t, ch)
	if got.Type != event.TypeStatusChanged || got.AgentID != "agent-1" {
		t.Errorf("received %+v, want published event", got)
	}
}

func TestBus_TypeFiltering(t *testing.T) {
	b := NewBus()
	defer b.Close()

	errors, cancel := b.Subscribe(event.TypeError)
	defer cancel()

	ctx := context.Background()
	_ = b.Publish(ctx, mustEvent(t, event.TypeStatusChanged))
	_ = b.Publish(ctx, mustEvent(t, event.TypeError))

	got := recv(t, errors)
	if got.Type != event.TypeError {
		t.Errorf("filtered subscriber received %s, want error", got.Type)
	}
	select {
	case extra := <-errors:
		t.Errorf("filtered subscriber received unexpected event %s", extra.Type)
	default:
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch1, cancel1 := b.Subscribe()
	defer cancel1()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	_ = b.Publish(context.Background(), mustEvent(t, event.TypeAgentStarted))

	if recv(t, ch1).Type != event.TypeAgentStarted {
		t.Error("subscriber 1 missed the event")
	}
	if recv(t, ch2).Type != event.TypeAgentStarted {
		t.Error("subscriber 2 missed the event")
	}
}

func TestBus_CancelStopsDelivery(t *testing.T) {
	b := NewBus()
	defer b.Close()

	ch, cancel := b.Subscribe()
	cancel()
	cancel() // Idempotent.

	if _, ok := <-ch; ok {
		t.Error("channel not closed after cancel")
	}

	if err := b.Publish(context.Background(), mustEvent(t, event.TypeError)); err != nil {
		t.Errorf("Publish() after cancel error = %v", err)
	}
}

func TestBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBus(WithSubscriberBuffer(1))
	defer b.Close()

	_, cancel := b.Subscribe()
	defer cancel()

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			_ = b.Publish(ctx, mustEvent(t, event.TypeStatusUpdate))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}

func TestBus_JournalsToStore(t *testing.T) {
	store := memstore.NewEventStore()
	b := NewBus(WithStore(store))
	defer b.Close()

	ctx := context.Background()
	_ = b.Publish(ctx, mustEvent(t, event.TypeAgentStarted))
	_ = b.Publish(ctx, mustEvent(t, event.TypeAgentStopped))

	events, err := store.List(ctx, "agent-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 2 {
		t.Errorf("journal holds %d events, want 2", len(events))
	}
}

func TestBus_Close(t *testing.T) {
	b := NewBus()
	ch, _ := b.Subscribe()

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, ok := <-ch; ok {
		t.Error("subscriber channel not closed on bus close")
	}
	if err := b.Publish(context.Background(), mustEvent(t, event.TypeError)); err == nil {
		t.Error("Publish() on closed bus should fail")
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestJournalPublisher_Immediate(t *testing.T) {
	store := memstore.NewEventStore()
	p := NewJournalPublisher(store)

	ctx := context.Background()
	if err := p.Publish(ctx, mustEvent(t, event.TypeError)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	events, _ := store.List(ctx, "agent-1")
	if len(events) != 1 {
		t.Errorf("store holds %d events, want 1 (immediate append)", len(events))
	}
}

func TestJournalPublisher_Batching(t *testing.T) {
	store := memstore.NewEventStore()
	p := NewJournalPublisher(store, WithBatchSize(3))

	ctx := context.Background()
	_ = p.Publish(ctx, mustEvent(t, event.TypeStatusUpdate))
	_ = p.Publish(ctx, mustEvent(t, event.TypeStatusUpdate))

	if events, _ := store.List(ctx, "agent-1"); len(events) != 0 {
		t.Errorf("store holds %d events before batch full, want 0", len(events))
	}

	_ = p.Publish(ctx, mustEvent(t, event.TypeStatusUpdate))
	if events, _ := store.List(ctx, "agent-1"); len(events) != 3 {
		t.Errorf("store holds %d events after batch full, want 3", len(events))
	}
}

func TestJournalPublisher_CloseFlushes(t *testing.T) {
	store := memstore.NewEventStore()
	p := NewJournalPublisher(store, WithBatchSize(10))

	ctx := context.Background()
	_ = p.Publish(ctx, mustEvent(t, event.TypeGoalCompleted))

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if events, _ := store.List(ctx, "agent-1"); len(events) != 1 {
		t.Errorf("store holds %d events after Close, want 1", len(events))
	}
}
