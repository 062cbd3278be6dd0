package chat

import "time"

// EventType 事件类型标识
type EventType string

const (
	EventUserJoined EventType = "user.joined"
	EventUserLeft   EventType = "user.left"
	EventBroadcast  EventType = "message.broadcast"
)

type Event interface {
	Type() EventType
	Time() time.Time
}

// UserEvent 表示用户加入 / 离开
type UserEvent struct {
	When   time.Time
	Name   string
	Joined bool
}

func (e *UserEvent) Type() EventType {
	if e.Joined {
		return EventUserJoined
	}
	return EventUserLeft
}

func (e *UserEvent) Time() time.Time { return e.When }

// BroadcastEvent 表示一次群发；From 为空表示系统消息
type BroadcastEvent struct {
	When    time.Time
	From    string
	Content string
}

func (e *BroadcastEvent) Type() EventType { return EventBroadcast }
func (e *BroadcastEvent) Time() time.Time { return e.When }
