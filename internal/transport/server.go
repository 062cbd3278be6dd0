package transport

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hn/chat-relay/internal/chat"
	"github.com/hn/chat-relay/internal/command"
	"github.com/hn/chat-relay/internal/config"
	"github.com/hn/chat-relay/pkg/logger"
)

const serverVersion = "1.0.0"

var ErrAlreadyRunning = errors.New("server already running")

// Server 接入层门面：持有监听套接字和接受循环，并向外部控制面
// 暴露 start / stop / kick / 统计查询。路由本身全在 Hub 里。
type Server struct {
	cfg    *config.Config
	hub    *chat.Hub
	interp *command.Interpreter

	running atomic.Bool
	ln      net.Listener
	started time.Time
	wg      sync.WaitGroup

	wsMu  sync.Mutex
	wsSrv *http.Server
}

func NewServer(cfg *config.Config, hub *chat.Hub) *Server {
	s := &Server{cfg: cfg, hub: hub}
	s.interp = &command.Interpreter{Hub: hub, Info: s}
	return s
}

// Start 绑定 TCP 监听端口并启动接受循环。
// 绑定失败直接返回错误，不自动重试。
func (s *Server) Start() error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	ln, err := net.Listen("tcp", s.cfg.TCPAddr)
	if err != nil {
		s.running.Store(false)
		return fmt.Errorf("bind %s: %w", s.cfg.TCPAddr, err)
	}
	s.ln = ln
	s.started = time.Now()
	logger.L().Sugar().Infow("tcp_listen", "addr", ln.Addr().String())

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			// Stop 关闭监听套接字时挂起的 Accept 会在这里返回，
			// 不作为异常上报
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			logger.L().Sugar().Warnw("tcp_accept_error", "err", err)
			continue
		}
		sess := NewSession(NewTCPConn(conn), s.hub, s.interp, s.cfg.OutBuffer)
		go sess.Run()
	}
}

// Stop 清掉运行标记、关闭监听端点，再按注册表快照逐个走下线路径
func (s *Server) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	logger.L().Sugar().Infow("server_stopping")
	_ = s.ln.Close()

	s.wsMu.Lock()
	if s.wsSrv != nil {
		_ = s.wsSrv.Close()
	}
	s.wsMu.Unlock()

	for _, c := range s.hub.Members() {
		s.hub.Disconnect(c)
	}
	s.wg.Wait()
	logger.L().Sugar().Infow("server_stopped")
}

// Addr 实际监听地址（端口 0 启动时用于回查）
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Kick 踢出指定用户名的会话，返回是否找到
func (s *Server) Kick(username string) bool {
	ok := s.hub.Kick(username)
	if ok {
		logger.L().Sugar().Infow("client_kicked", "name", username)
	}
	return ok
}

func (s *Server) Version() string { return serverVersion }

func (s *Server) OnlineCount() int { return s.hub.Count() }

func (s *Server) ConnectedUsernames() []string { return s.hub.Names() }

// Uptime 运行时长，格式 HH:MM:SS
func (s *Server) Uptime() string {
	if s.started.IsZero() {
		return "00:00:00"
	}
	return formatUptime(time.Since(s.started))
}

func formatUptime(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

// StatsSnapshot 展示用统计快照
type StatsSnapshot struct {
	Version          string
	Uptime           string
	Online           int
	PeakConnections  int
	TotalConnections int
	TotalMessages    int
	Messages         map[string]int
}

func (s *Server) Stats() StatsSnapshot {
	conns, msgs, peak := s.hub.Totals()
	return StatsSnapshot{
		Version:          serverVersion,
		Uptime:           s.Uptime(),
		Online:           s.hub.Count(),
		PeakConnections:  peak,
		TotalConnections: conns,
		TotalMessages:    msgs,
		Messages:         s.hub.MessageCounts(),
	}
}
