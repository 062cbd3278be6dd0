package chat

import (
	"sync"
	"sync/atomic"

	"github.com/hn/chat-relay/internal/observe"
)

// Client 一个已连接对端的会话状态。
// Name 在注册握手期间由 Hub.Join 最终确定，注册之后不再变化。
type Client struct {
	ID   string
	Name string

	status    atomic.Int32
	running   atomic.Bool
	out       chan string
	closed    chan struct{}
	closeOnce sync.Once
}

// NewClient 创建会话，bufferSize 为发送缓冲大小
func NewClient(id string, bufferSize int) *Client {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	c := &Client{
		ID:     id,
		out:    make(chan string, bufferSize),
		closed: make(chan struct{}),
	}
	c.running.Store(true)
	c.status.Store(int32(StatusOnline))
	return c
}

// ShortID 返回会话 id 前 4 位，用于匿名名和重名后缀
func (c *Client) ShortID() string {
	if len(c.ID) < 4 {
		return c.ID
	}
	return c.ID[:4]
}

// Send 非阻塞写入发送缓冲；缓冲满时丢弃并计数。
// 返回是否成功入队。out 通道从不 close，关闭用 closed 信号表达，
// 因此并发的 fan-out 与下线不会撞出 send-on-closed-channel。
func (c *Client) Send(message string) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.out <- message:
		return true
	case <-c.closed:
		return false
	default:
		// 缓冲已满：丢弃以保证 fan-out 不被单个慢客户端阻塞
		observe.IncDropped()
		return false
	}
}

// SendSystem 发送系统标记行
func (c *Client) SendSystem(message string) bool {
	return c.Send("[System] " + message)
}

// Outgoing 返回只读输出通道，transport 读取并写到网络
func (c *Client) Outgoing() <-chan string {
	return c.out
}

// Done 关闭信号，写协程据此退出
func (c *Client) Done() <-chan struct{} {
	return c.closed
}

func (c *Client) Status() Status { return Status(c.status.Load()) }

func (c *Client) SetStatus(s Status) { c.status.Store(int32(s)) }

// Running 会话主循环是否仍应继续读取
func (c *Client) Running() bool { return c.running.Load() }

// BeginShutdown 抢占断开权：首个调用者返回 true 并负责执行完整的
// 下线流程，后续并发触发全部为空操作。
func (c *Client) BeginShutdown() bool {
	return c.running.CompareAndSwap(true, false)
}

// Close 发出关闭信号。已入队的消息由写协程尽量冲刷后
// 关闭底层连接。
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// IsClosed 非阻塞判断是否已关闭
func (c *Client) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}
