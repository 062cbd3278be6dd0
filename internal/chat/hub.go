package chat

import (
	"sync"
	"time"

	"github.com/hn/chat-relay/internal/observe"
)

type EventHandler func(Event)

type handlerEntry struct {
	id uint64
	fn EventHandler
}

// Hub 活跃会话注册表 + 消息路由。
// 单把互斥锁保护成员列表、消息统计与检查后插入的原子性；
// fan-out 先在锁内做快照，投递本身走各 Client 的非阻塞缓冲，
// 锁从不跨网络 I/O 持有。
type Hub struct {
	mu      sync.Mutex
	clients []*Client // 插入序
	stats   map[string]int

	totalConnections int
	totalMessages    int
	peakConnections  int

	// 按 EventType 注册的处理器，供外部控制面做日志 / 统计展示
	handlersMu sync.RWMutex
	handlers   map[EventType][]handlerEntry
	nextHID    uint64
}

func NewHub() *Hub {
	return &Hub{
		stats:    make(map[string]int),
		handlers: make(map[EventType][]handlerEntry),
	}
}

// Subscribe 注册事件处理器
func (h *Hub) Subscribe(t EventType, fn EventHandler) { _ = h.SubscribeCancelable(t, fn) }

// SubscribeCancelable 注册并返回一个取消函数，用于移除该处理器
func (h *Hub) SubscribeCancelable(t EventType, fn EventHandler) (cancel func()) {
	h.handlersMu.Lock()
	h.nextHID++
	id := h.nextHID
	h.handlers[t] = append(h.handlers[t], handlerEntry{id: id, fn: fn})
	h.handlersMu.Unlock()

	return func() {
		h.handlersMu.Lock()
		entries := h.handlers[t]
		if len(entries) > 0 {
			filtered := entries[:0]
			for _, e := range entries {
				if e.id != id {
					filtered = append(filtered, e)
				}
			}
			if len(filtered) == 0 {
				delete(h.handlers, t)
			} else {
				h.handlers[t] = append([]handlerEntry(nil), filtered...)
			}
		}
		h.handlersMu.Unlock()
	}
}

// Emit 异步分发事件给所有 handler，非阻塞返回。
// handler 只做展示 / 记录，不得影响路由，panic 会被吞掉。
func (h *Hub) Emit(e Event) {
	h.handlersMu.RLock()
	entries, ok := h.handlers[e.Type()]
	var copied []handlerEntry
	if ok && len(entries) > 0 {
		copied = append(copied, entries...)
	}
	h.handlersMu.RUnlock()
	if len(copied) == 0 {
		return
	}
	for _, entry := range copied {
		go func(f EventHandler) {
			defer func() { _ = recover() }()
			f(e)
		}(entry.fn)
	}
}

// Join 原子地完成重名检查与插入：若 proposed 已被其他活跃会话占用，
// 追加 "_<shortId>" 后缀。返回最终名字以及是否发生了替换。
func (h *Hub) Join(c *Client, proposed string) (final string, renamed bool) {
	h.mu.Lock()
	final = proposed
	if h.nameTakenLocked(proposed, c) {
		final = proposed + "_" + c.ShortID()
		renamed = true
	}
	c.Name = final
	h.clients = append(h.clients, c)
	h.totalConnections++
	if n := len(h.clients); n > h.peakConnections {
		h.peakConnections = n
		observe.SetPeak(float64(n))
	}
	h.mu.Unlock()

	observe.AddOnline(1)
	observe.IncConnection()
	h.Emit(&UserEvent{When: time.Now(), Name: final, Joined: true})
	return final, renamed
}

func (h *Hub) nameTakenLocked(name string, requester *Client) bool {
	for _, c := range h.clients {
		if c != requester && c.Status() != StatusOffline && c.Name == name {
			return true
		}
	}
	return false
}

func (h *Hub) removeLocked(target *Client) bool {
	for i, c := range h.clients {
		if c == target {
			h.clients = append(h.clients[:i], h.clients[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup 按用户名精确查找活跃会话
func (h *Hub) Lookup(name string) (*Client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Members 返回成员快照，插入序
func (h *Hub) Members() []*Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Client, len(h.clients))
	copy(out, h.clients)
	return out
}

// Names 返回在线用户名，插入序
func (h *Hub) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.clients))
	for _, c := range h.clients {
		out = append(out, c.Name)
	}
	return out
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast 按锁内快照的枚举序群发一行文本。
// includeSender 控制发送者是否收到自己的广播；对单个目标的投递
// 相互独立，某个目标丢弃不影响其余目标。
func (h *Hub) Broadcast(line string, sender *Client, includeSender bool) {
	h.mu.Lock()
	targets := make([]*Client, len(h.clients))
	copy(targets, h.clients)
	h.totalMessages++
	h.mu.Unlock()

	for _, c := range targets {
		if !includeSender && c == sender {
			continue
		}
		c.Send(line)
	}

	from := ""
	if sender != nil {
		from = sender.Name
	}
	observe.IncBroadcast()
	h.Emit(&BroadcastEvent{When: time.Now(), From: from, Content: line})
}

// SendPrivate 私聊投递：目标按用户名精确匹配且不能是发送者本人。
// 命中时给目标和发送者各发一条独立的标记行，未命中返回 false。
func (h *Hub) SendPrivate(sender *Client, target, text string) bool {
	h.mu.Lock()
	var dst *Client
	for _, c := range h.clients {
		if c != sender && c.Name == target {
			dst = c
			break
		}
	}
	h.mu.Unlock()
	if dst == nil {
		return false
	}
	dst.Send("[PM from " + sender.Name + "] " + text)
	sender.Send("[PM to " + target + "] " + text)
	observe.IncPrivate()
	return true
}

// Disconnect 下线状态机，首个触发者胜出：置 OFFLINE、关闭会话资源、
// 移出注册表、向剩余成员广播离开通知。并发重复触发为空操作。
func (h *Hub) Disconnect(c *Client) bool {
	if !c.BeginShutdown() {
		return false
	}
	c.SetStatus(StatusOffline)
	c.Close()

	h.mu.Lock()
	removed := h.removeLocked(c)
	h.mu.Unlock()

	if removed {
		observe.AddOnline(-1)
		h.Broadcast("[System] "+c.Name+" has left the chat", nil, true)
		h.Emit(&UserEvent{When: time.Now(), Name: c.Name, Joined: false})
	}
	return true
}

// Kick 踢出指定用户：先给目标一条系统通知，再走同一条下线路径
func (h *Hub) Kick(name string) bool {
	c, ok := h.Lookup(name)
	if !ok {
		return false
	}
	c.SendSystem("You have been kicked by the server administrator.")
	h.Disconnect(c)
	return true
}

// RecordMessage 按用户名累计消息数。刻意不按会话 id 记：
// 同名重连会继续累计此前的计数。
func (h *Hub) RecordMessage(name string) {
	h.mu.Lock()
	h.stats[name]++
	h.mu.Unlock()
}

// MessageCounts 返回消息统计快照
func (h *Hub) MessageCounts() map[string]int {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]int, len(h.stats))
	for k, v := range h.stats {
		out[k] = v
	}
	return out
}

// Totals 返回累计连接数、累计消息数、并发峰值
func (h *Hub) Totals() (connections, messages, peak int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.totalConnections, h.totalMessages, h.peakConnections
}
