package observe

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter 运维侧路由：/healthz 存活检查，/metrics 指标导出
func NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, "ok")
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

// StartHTTP 启动运维 HTTP 服务，阻塞直到出错
func StartHTTP(addr string) error {
	return http.ListenAndServe(addr, NewRouter())
}
