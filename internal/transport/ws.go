package transport

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/hn/chat-relay/pkg/logger"
)

// wsLineConn 把 WebSocket 连接适配成 LineConn：
// 一条 text message 即一行，协议文本与 TCP 接入完全一致。
type wsLineConn struct {
	conn *websocket.Conn
}

func (w *wsLineConn) ReadLine() (string, error) {
	for {
		mt, data, err := w.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		if mt != websocket.TextMessage {
			continue
		}
		return strings.TrimSpace(string(data)), nil
	}
}

func (w *wsLineConn) WriteLine(s string) error {
	return w.conn.WriteMessage(websocket.TextMessage, []byte(s))
}

func (w *wsLineConn) Close() error { return w.conn.Close() }

func (w *wsLineConn) RemoteAddr() string { return w.conn.RemoteAddr().String() }

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS 在独立地址上提供 WebSocket 接入，桥接到同一套会话引擎。
// 阻塞直到服务关闭。
func (s *Server) ServeWS(addr, path string) error {
	if path == "" {
		path = "/ws"
	}
	r := mux.NewRouter()
	r.HandleFunc(path, s.handleWS)

	srv := &http.Server{Addr: addr, Handler: r}
	s.wsMu.Lock()
	s.wsSrv = srv
	s.wsMu.Unlock()

	logger.L().Sugar().Infow("ws_listen", "addr", addr, "path", path)
	return srv.ListenAndServe()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	if !s.running.Load() {
		_ = conn.Close()
		return
	}
	// HTTP handler 协程直接承载会话循环
	sess := NewSession(&wsLineConn{conn: conn}, s.hub, s.interp, s.cfg.OutBuffer)
	sess.Run()
}
