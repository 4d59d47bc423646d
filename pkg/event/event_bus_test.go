package event

import "testing"

type testEvent struct {
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestBusPublish(t *testing.T) {
	bus := NewEventBus()

	var seen []string
	bus.RegisterHandler("step.completed", HandlerFunc(func(event Event) {
		seen = append(seen, event.EventName())
	}))

	bus.Publish(testEvent{name: "step.completed"})
	bus.Publish(testEvent{name: "step.failed"})

	if len(seen) != 1 || seen[0] != "step.completed" {
		t.Fatalf("handler saw %v, want [step.completed]", seen)
	}
}

func TestBusMultipleHandlers(t *testing.T) {
	bus := NewEventBus()

	count := 0
	for i := 0; i < 3; i++ {
		bus.RegisterHandler("job.created", HandlerFunc(func(Event) { count++ }))
	}
	bus.Publish(testEvent{name: "job.created"})

	if count != 3 {
		t.Fatalf("published to %d handlers, want 3", count)
	}
}
