package shutdown

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/betbot/gobet-dashboard/pkg/logger"
)

// Hook 关闭回调
type Hook func(ctx context.Context) error

type namedHook struct {
	name string
	fn   Hook
}

// Manager 优雅关闭管理器。
// 回调按注册的逆序执行（后启动的先关闭），与 defer 一致。
type Manager struct {
	mu    sync.Mutex
	hooks []namedHook
	done  bool
}

// NewManager 创建新的关闭管理器
func NewManager() *Manager {
	return &Manager{}
}

// OnShutdown 注册关闭回调
func (m *Manager) OnShutdown(name string, hook Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, namedHook{name: name, fn: hook})
}

// Shutdown 执行所有关闭回调（阻塞调用），只执行一次。
// ctx 应该是一个带超时的 context；超时后剩余回调不再执行。
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return nil
	}
	m.done = true
	hooks := m.hooks
	m.mu.Unlock()

	if len(hooks) == 0 {
		logger.Info("没有注册的关闭回调")
		return nil
	}

	logger.Infof("开始优雅关闭，共 %d 个回调", len(hooks))

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		if err := ctx.Err(); err != nil {
			logger.Warnf("关闭超时，跳过 %s: %v", h.name, err)
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
			continue
		}
		if err := h.fn(ctx); err != nil {
			logger.Warnf("关闭 %s 失败: %v", h.name, err)
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
			continue
		}
		logger.Debugf("已关闭 %s", h.name)
	}

	if len(errs) == 0 {
		logger.Info("所有关闭回调已完成")
	}
	return errors.Join(errs...)
}
