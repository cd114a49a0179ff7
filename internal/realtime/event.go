// Package realtime carries row-insert notifications to live sessions.
package realtime

import (
	"context"
	"encoding/json"
	"slices"
)

const (
	TableMessages      = "messages"
	TableGroupMessages = "group_chat_messages"
	TableNotifications = "notifications"
	TablePosts         = "posts"

	TypeInsert = "INSERT"
)

// Event announces a change to a table. UserIDs names the users the row is
// visible to; an empty list means everyone.
type Event struct {
	Table    string `json:"table"`
	Type     string `json:"type"`
	RecordID uint   `json:"record_id"`
	UserIDs  []uint `json:"user_ids,omitempty"`
}

// Insert builds an INSERT event.
func Insert(table string, recordID uint, userIDs ...uint) Event {
	return Event{Table: table, Type: TypeInsert, RecordID: recordID, UserIDs: userIDs}
}

// Concerns reports whether userID should react to the event.
func (e Event) Concerns(userID uint) bool {
	return len(e.UserIDs) == 0 || slices.Contains(e.UserIDs, userID)
}

// Publisher emits change events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Subscriber delivers events for the given tables until ctx is done, then
// closes the channel.
type Subscriber interface {
	Subscribe(ctx context.Context, tables ...string) (<-chan Event, error)
}

type Broker interface {
	Publisher
	Subscriber
}

func encode(e Event) ([]byte, error) {
	return json.Marshal(e)
}

func decode(payload []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(payload, &e)
	return e, err
}
