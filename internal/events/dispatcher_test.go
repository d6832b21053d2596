package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDeliversByType(t *testing.T) {
	d := NewInMemoryDispatcher()
	var created, assigned []Event
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		created = append(created, e)
		return nil
	})
	d.Subscribe(EventTicketAssigned, func(_ context.Context, e Event) error {
		assigned = append(assigned, e)
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketCreated, EntityID: "t1"}); err != nil {
		t.Fatal(err)
	}
	if len(created) != 1 || created[0].EntityID != "t1" {
		t.Errorf("created handler saw %v", created)
	}
	if len(assigned) != 0 {
		t.Errorf("assigned handler saw %v", assigned)
	}
}

func TestDispatcherCatchAllAndErrorIsolation(t *testing.T) {
	d := NewInMemoryDispatcher()
	var all []EventType
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		return errors.New("handler failure")
	})
	d.SubscribeAll(func(_ context.Context, e Event) error {
		all = append(all, e.Type)
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketCreated}); err != nil {
		t.Fatalf("handler errors must not surface: %v", err)
	}
	if err := d.Publish(context.Background(), Event{Type: EventEscalationRaised}); err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0] != EventTicketCreated || all[1] != EventEscalationRaised {
		t.Errorf("catch-all saw %v", all)
	}
}
