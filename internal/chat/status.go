package chat

import "strings"

// Status 用户在线状态
type Status int32

const (
	StatusOnline Status = iota
	StatusAway
	StatusBusy
	StatusOffline
)

func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "ONLINE"
	case StatusAway:
		return "AWAY"
	case StatusBusy:
		return "BUSY"
	case StatusOffline:
		return "OFFLINE"
	default:
		return "UNKNOWN"
	}
}

// ParseStatus 解析 /status 参数，只接受 online/away/busy（大小写不敏感）。
// OFFLINE 是终态，不允许由客户端设置。
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "online":
		return StatusOnline, true
	case "away":
		return StatusAway, true
	case "busy":
		return StatusBusy, true
	default:
		return StatusOnline, false
	}
}
