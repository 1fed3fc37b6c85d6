package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/betbot/gobet-dashboard/internal/metrics"
	"github.com/betbot/gobet-dashboard/internal/notify"
	"github.com/betbot/gobet-dashboard/internal/pages"
	"github.com/betbot/gobet-dashboard/internal/server"
	"github.com/betbot/gobet-dashboard/internal/shell"
	"github.com/betbot/gobet-dashboard/internal/ui"
	"github.com/betbot/gobet-dashboard/pkg/config"
	"github.com/betbot/gobet-dashboard/pkg/logger"
	"github.com/betbot/gobet-dashboard/pkg/ratelimit"
	"github.com/betbot/gobet-dashboard/pkg/shutdown"
)

func main() {
	// Load .env (best-effort). If missing, fall back to real env vars.
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("DASH_CONFIG"), "config file (yaml or json)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		OutputFile: cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}

	shutdownMgr := shutdown.NewManager()
	// 出错提前返回时也要释放已打开的资源
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownMgr.Shutdown(ctx); err != nil {
			logger.Errorf("优雅关闭失败: %v", err)
		}
	}()

	store, err := openStore(cfg.Notifications)
	if err != nil {
		return err
	}
	shutdownMgr.OnShutdown("notification store", func(context.Context) error { return store.Close() })

	hub := notify.NewHub(store)
	shutdownMgr.OnShutdown("notification hub", func(context.Context) error {
		hub.Close()
		return nil
	})

	sh, err := shell.New(shell.Options{
		Lang:                     cfg.Site.Lang,
		Metadata:                 cfg.Site.Metadata,
		Fonts:                    cfg.Site.Fonts,
		Stylesheets:              append([]string{server.GlobalStylesheet}, cfg.Site.Stylesheets...),
		Toaster:                  notify.DefaultToaster(),
		SuppressHydrationWarning: cfg.Site.SuppressHydrationWarning,
		Log:                      logger.WithField("component", "shell"),
	})
	if err != nil {
		return fmt.Errorf("初始化页面外壳失败: %w", err)
	}

	srvCfg := server.Config{
		Shell: sh,
		Hub:   hub,
		Pages: map[string]server.Page{
			"/": func(*http.Request) ui.Component { return pages.Home(cfg.Site.Metadata) },
		},
	}
	if cfg.Notifications.RatePerSecond > 0 {
		srvCfg.PublishLimit = ratelimit.NewKeyed(cfg.Notifications.RateBurst, cfg.Notifications.RatePerSecond, 0)
	}
	srv, err := server.New(srvCfg)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Router(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}
	shutdownMgr.OnShutdown("http server", httpSrv.Shutdown)

	if cfg.Server.DebugListen != "" {
		debugSrv, err := metrics.Serve(cfg.Server.DebugListen)
		if err != nil {
			return fmt.Errorf("启动 debug 服务失败: %w", err)
		}
		logger.Infof("debug server listening on %s", debugSrv.Addr)
		shutdownMgr.OnShutdown("debug server", debugSrv.Shutdown)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("dashboard listening on %s", cfg.Server.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-stopCh:
		logger.Infof("收到信号 %s，开始关闭", sig)
		return nil
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	}
}

func openStore(cfg config.NotificationsConfig) (notify.Store, error) {
	switch cfg.Store {
	case "badger":
		s, err := notify.OpenBadger(notify.BadgerOptions{Path: cfg.Path, Retention: cfg.Retention})
		if err != nil {
			return nil, fmt.Errorf("打开通知存储失败: %w", err)
		}
		logger.Infof("通知存储: badger (%s)", cfg.Path)
		return s, nil
	default:
		return notify.NewMemoryStore(cfg.Capacity, cfg.Retention), nil
	}
}
