package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Entity names the aggregate a sync message is about.
type Entity string

const (
	EntityFamilyMember Entity = "family_member"
	EntityRotationTask Entity = "rotation_task"
	EntityRotation     Entity = "rotation"
	EntityScreenTime   Entity = "screen_time"
	EntitySavingsGoal  Entity = "savings_goal"
	EntityMenuEntry    Entity = "menu_entry"
	EntitySettings     Entity = "settings"
)

// Action names what happened to the entity.
type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionDeleted       Action = "deleted"
	ActionReordered     Action = "reordered"
	ActionGenerated     Action = "generated"
	ActionAdjusted      Action = "adjusted"
	ActionConfigUpdated Action = "config_updated"
	ActionUsageAdded    Action = "usage_added"
	ActionDeposit       Action = "deposit"
)

// Message is one sync notification pushed to every connected display.
type Message struct {
	Type   string         `json:"type"`
	Entity Entity         `json:"entity"`
	Action Action         `json:"action"`
	ID     int64          `json:"id,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// NewMessage builds a Message; Type is the "entity_action" string clients
// switch on.
func NewMessage(entity Entity, action Action, id int64, extra map[string]any) Message {
	return Message{
		Type:   string(entity) + "_" + string(action),
		Entity: entity,
		Action: action,
		ID:     id,
		Extra:  extra,
	}
}

// Hub tracks the connected displays and fans mutations out to all of them.
type Hub struct {
	mu     sync.RWMutex
	conns  map[*Client]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		conns:  make(map[*Client]struct{}),
		logger: logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes the client and closes its outbound channel. Safe to call
// more than once for the same client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; !ok {
		return
	}
	delete(h.conns, c)
	close(c.out)
}

// Broadcast queues the message for every connected client. A client whose
// buffer is full misses the message; it must never stall the others.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "type", msg.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.conns {
		select {
		case c.out <- data:
		default:
		}
	}
}
