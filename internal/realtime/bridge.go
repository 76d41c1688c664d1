package realtime

import (
	"encoding/json"
	"log"

	"taskboard-api/internal/store"
)

// assigneeNotice is the targeted message sent to a task's assignee when
// someone else touches their task.
type assigneeNotice struct {
	Type    string          `json:"type"`
	Event   store.EventType `json:"event"`
	TaskID  string          `json:"taskId"`
	ActorID string          `json:"actorId,omitempty"`
}

// AttachBus subscribes the hub to the store event bus. Every domain event is
// fanned out to all connected clients as a JSON message; task events whose
// assignee is not the acting user additionally produce a targeted notice on
// the assignee's own connections.
func AttachBus(h *Hub, bus *store.Bus) {
	bus.Subscribe(func(e store.Event) {
		data, err := json.Marshal(e)
		if err != nil {
			log.Printf("realtime: failed to encode event %s: %v", e.Type, err)
			return
		}
		h.BroadcastAll(data)

		if e.AssigneeID == "" || e.AssigneeID == e.UserID {
			return
		}
		notice, err := json.Marshal(assigneeNotice{
			Type:    "notification",
			Event:   e.Type,
			TaskID:  e.TaskID,
			ActorID: e.UserID,
		})
		if err != nil {
			log.Printf("realtime: failed to encode notice for %s: %v", e.AssigneeID, err)
			return
		}
		h.Broadcast(e.AssigneeID, notice)
	})
}
