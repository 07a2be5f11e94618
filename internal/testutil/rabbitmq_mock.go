package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/WailSalutem-Health-Care/care-portal/internal/messaging"
)

var _ messaging.PublisherInterface = (*MockPublisher)(nil)

// PublishedEvent is one event captured by MockPublisher, kept in the JSON
// form it would have had on the exchange.
type PublishedEvent struct {
	RoutingKey string
	RawJSON    []byte
}

// Decode unmarshals the event body into target.
func (e PublishedEvent) Decode(t *testing.T, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(e.RawJSON, target); err != nil {
		t.Fatalf("Failed to decode %s event: %v", e.RoutingKey, err)
	}
}

// MockPublisher records events in memory instead of sending them to
// RabbitMQ. An event that cannot be encoded fails Publish, as it would on
// the real publisher.
type MockPublisher struct {
	mu     sync.RWMutex
	events []PublishedEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(_ context.Context, routingKey string, eventData interface{}) error {
	raw, err := json.Marshal(eventData)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{RoutingKey: routingKey, RawJSON: raw})
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

// Events returns the events published under routingKey, oldest first. An
// empty key returns every event.
func (m *MockPublisher) Events(routingKey string) []PublishedEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []PublishedEvent
	for _, e := range m.events {
		if routingKey == "" || e.RoutingKey == routingKey {
			out = append(out, e)
		}
	}
	return out
}

// GetEventCount returns the number of events published so far.
func (m *MockPublisher) GetEventCount() int {
	return len(m.Events(""))
}

// AssertEventPublished fails unless at least one routingKey event was published.
func (m *MockPublisher) AssertEventPublished(t *testing.T, routingKey string) {
	t.Helper()
	if len(m.Events(routingKey)) == 0 {
		t.Errorf("Expected a %s event, none was published", routingKey)
	}
}

func (m *MockPublisher) AssertEventNotPublished(t *testing.T, routingKey string) {
	t.Helper()
	if n := len(m.Events(routingKey)); n > 0 {
		t.Errorf("Expected no %s event, got %d", routingKey, n)
	}
}

func (m *MockPublisher) AssertEventCount(t *testing.T, routingKey string, expected int) {
	t.Helper()
	if n := len(m.Events(routingKey)); n != expected {
		t.Errorf("Expected %d %s events, got %d", expected, routingKey, n)
	}
}

// LastEvent returns the newest routingKey event, failing the test when
// there is none.
func (m *MockPublisher) LastEvent(t *testing.T, routingKey string) PublishedEvent {
	t.Helper()
	events := m.Events(routingKey)
	if len(events) == 0 {
		t.Fatalf("Expected a %s event, none was published", routingKey)
	}
	return events[len(events)-1]
}
