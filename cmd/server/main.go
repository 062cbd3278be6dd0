package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hn/chat-relay/internal/chat"
	"github.com/hn/chat-relay/internal/config"
	"github.com/hn/chat-relay/internal/observe"
	"github.com/hn/chat-relay/internal/transport"
	"github.com/hn/chat-relay/pkg/logger"
)

func main() {
	defer logger.Sync()
	cfg := config.Load()
	hub := chat.NewHub()

	// 控制面订阅：只做结构化日志展示，不参与路由
	hub.Subscribe(chat.EventUserJoined, func(e chat.Event) {
		ue := e.(*chat.UserEvent)
		logger.L().Sugar().Infow("user_joined", "name", ue.Name)
	})
	hub.Subscribe(chat.EventUserLeft, func(e chat.Event) {
		ue := e.(*chat.UserEvent)
		logger.L().Sugar().Infow("user_left", "name", ue.Name)
	})
	hub.Subscribe(chat.EventBroadcast, func(e chat.Event) {
		be := e.(*chat.BroadcastEvent)
		from := be.From
		if from == "" {
			from = "System"
		}
		content := be.Content
		if len(content) > 100 {
			content = content[:100] + "..."
		}
		logger.L().Sugar().Debugw("broadcast", "from", from, "content", content)
	})

	srv := transport.NewServer(cfg, hub)
	if err := srv.Start(); err != nil {
		logger.L().Sugar().Fatalw("server_start_failed", "err", err)
	}

	go func() {
		if err := srv.ServeWS(cfg.WSAddr, "/ws"); err != nil && err != http.ErrServerClosed {
			logger.L().Sugar().Warnw("ws_server_exit", "err", err)
		}
	}()
	go func() {
		if err := observe.StartHTTP(cfg.HTTPAddr); err != nil {
			logger.L().Sugar().Warnw("ops_http_exit", "err", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	srv.Stop()
}
