package transport

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hn/chat-relay/internal/chat"
	"github.com/hn/chat-relay/internal/command"
	"github.com/hn/chat-relay/pkg/logger"
)

const maxUsernameLen = 15

var usernameStrip = regexp.MustCompile(`[^A-Za-z0-9_]`)

// sanitizeUsername 规范化提议的用户名：空行得到匿名占位名；
// 非 [A-Za-z0-9_] 字符全部剔除并截断到 15 字符；剔除后为空则兜底。
func sanitizeUsername(proposed, shortID string) string {
	name := strings.TrimSpace(proposed)
	if name == "" {
		name = "Anonymous_" + shortID
	}
	name = usernameStrip.ReplaceAllString(name, "")
	if len(name) > maxUsernameLen {
		name = name[:maxUsernameLen]
	}
	if name == "" {
		name = "User_" + shortID
	}
	return name
}

// Session 一条连接的服务端会话：独占底层连接，
// 负责注册握手和此后的消息循环。
type Session struct {
	Client *chat.Client
	conn   LineConn
	hub    *chat.Hub
	interp *command.Interpreter
}

func NewSession(conn LineConn, hub *chat.Hub, interp *command.Interpreter, outBuffer int) *Session {
	c := chat.NewClient(uuid.New().String(), outBuffer)
	return &Session{Client: c, conn: conn, hub: hub, interp: interp}
}

// Run 驱动整个会话生命周期，连接关闭或任何 I/O 失败都会
// 收敛到同一条下线路径，且只执行一次。
func (s *Session) Run() {
	defer s.disconnect()
	go s.writeLoop()

	// 注册握手：阻塞读取首行作为提议用户名
	proposed, handshakeErr := s.conn.ReadLine()
	name := sanitizeUsername(proposed, s.Client.ShortID())
	final, renamed := s.hub.Join(s.Client, name)
	if renamed {
		s.Client.SendSystem("Username '" + name + "' is already taken. Using '" + final + "' instead.")
	}
	s.hub.Broadcast("[System] "+final+" has joined the chat", nil, true)
	s.Client.SendSystem("Welcome to the Chat Server, " + final + "!")
	s.Client.SendSystem("Type /help for available commands")
	logger.L().Sugar().Infow("client_connected",
		"id", s.Client.ID, "name", final, "remote", s.conn.RemoteAddr())
	if handshakeErr != nil {
		// 对端在握手完成前已断开
		return
	}

	for s.Client.Running() {
		line, err := s.conn.ReadLine()
		if err != nil {
			if err != io.EOF && s.Client.Running() {
				logger.L().Sugar().Warnw("client_read_error", "name", s.Client.Name, "err", err)
			}
			return
		}
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			s.interp.Execute(s.Client, line)
			continue
		}
		if s.Client.Status() == chat.StatusAway {
			s.Client.SendSystem("You are marked as AWAY. Type /back to resume chatting.")
			continue
		}
		text := fmt.Sprintf("[%s] %s: %s", time.Now().Format("15:04"), s.Client.Name, line)
		s.hub.Broadcast(text, s.Client, false)
		s.hub.RecordMessage(s.Client.Name)
	}
}

// writeLoop 排空会话输出缓冲写到网络。收到关闭信号时先冲刷
// 已入队的行（比如踢出前的最后通知），再关闭底层连接，
// 这会顺带解除阻塞中的读取。
func (s *Session) writeLoop() {
	defer func() { _ = s.conn.Close() }()
	for {
		select {
		case <-s.Client.Done():
			s.flush()
			return
		case msg := <-s.Client.Outgoing():
			if err := s.conn.WriteLine(msg); err != nil {
				logger.L().Sugar().Warnw("client_write_error", "id", s.Client.ID, "err", err)
				return
			}
		}
	}
}

func (s *Session) flush() {
	for {
		select {
		case msg := <-s.Client.Outgoing():
			if err := s.conn.WriteLine(msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (s *Session) disconnect() {
	if s.hub.Disconnect(s.Client) {
		logger.L().Sugar().Infow("client_disconnect", "id", s.Client.ID, "name", s.Client.Name)
	}
}
