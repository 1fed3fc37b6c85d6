package metrics

import (
	"errors"
	"expvar"
	"net"
	"net/http"
	"net/http/pprof"

	"github.com/betbot/gobet-dashboard/pkg/logger"
)

// Handler 返回 debug mux：
// - expvar: /debug/vars
// - pprof:  /debug/pprof
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())

	// pprof：显式注册到我们的 mux，避免依赖 DefaultServeMux 的全局副作用
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// Serve 在后台启动 debug 服务（建议仅监听 localhost 或内网）。
// 端口占用等错误同步返回；关闭由调用方通过 Shutdown 完成。
func Serve(listenAddr string) (*http.Server, error) {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, err
	}
	s := &http.Server{
		Addr:    ln.Addr().String(),
		Handler: Handler(),
	}

	go func() {
		if err := s.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("debug server error: %v", err)
		}
	}()
	return s, nil
}
