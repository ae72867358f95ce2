package sse

import (
	"testing"

	"github.com/google/uuid"

	"github.com/nextclass/nextclass-backend/internal/logger"
)

func newHub(t *testing.T) *Hub {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return NewHub(log)
}

func TestHub_DeliversToTeacherChannel(t *testing.T) {
	hub := newHub(t)
	teacherID := uuid.New()
	client := hub.NewClient(teacherID)
	defer hub.RemoveClient(client)

	msg := Message{Channel: JobChannel(teacherID), Event: EventJobStatusChanged, Data: "x"}
	hub.Publish(msg)

	select {
	case got := <-client.Outbound:
		if got.Event != EventJobStatusChanged {
			t.Fatalf("unexpected event %q", got.Event)
		}
	default:
		t.Fatalf("message not delivered")
	}
}

func TestHub_DoesNotCrossTeacherChannels(t *testing.T) {
	hub := newHub(t)
	mine := hub.NewClient(uuid.New())
	defer hub.RemoveClient(mine)

	hub.Publish(Message{Channel: JobChannel(uuid.New()), Event: EventJobStatusChanged})

	select {
	case <-mine.Outbound:
		t.Fatalf("message leaked across teacher channels")
	default:
	}
}

func TestHub_FullClientDoesNotBlockPublisher(t *testing.T) {
	hub := newHub(t)
	teacherID := uuid.New()
	client := hub.NewClient(teacherID)
	defer hub.RemoveClient(client)

	msg := Message{Channel: JobChannel(teacherID), Event: EventJobStatusChanged}
	for i := 0; i < cap(client.Outbound)+10; i++ {
		hub.Publish(msg)
	}
	// Reaching this line is the assertion: Publish never blocked.
	if len(client.Outbound) != cap(client.Outbound) {
		t.Fatalf("expected a full outbound buffer, got %d", len(client.Outbound))
	}
}

func TestHub_RemoveClientDropsSubscription(t *testing.T) {
	hub := newHub(t)
	teacherID := uuid.New()
	client := hub.NewClient(teacherID)
	hub.RemoveClient(client)

	hub.Publish(Message{Channel: JobChannel(teacherID), Event: EventJobStatusChanged})
	select {
	case <-client.Outbound:
		t.Fatalf("removed client still receives messages")
	default:
	}
	select {
	case <-client.Done():
	default:
		t.Fatalf("removed client not closed")
	}
}
