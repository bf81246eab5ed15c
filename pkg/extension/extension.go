package extension

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Extension 需要随进程启动和退出的组件，例如 Redis 连接和事件订阅
type Extension interface {
	Name() string
	Load(ctx context.Context) error
	Exit() // 不返回错误，应确保资源释放
}

type funcExtension struct {
	name string
	load func(ctx context.Context) error
	exit func()
}

func (f *funcExtension) Name() string { return f.name }

func (f *funcExtension) Load(ctx context.Context) error {
	if f.load == nil {
		return nil
	}
	return f.load(ctx)
}

func (f *funcExtension) Exit() {
	if f.exit != nil {
		f.exit()
	}
}

// Func 用两个函数构造扩展，load 和 exit 都可以为 nil
func Func(name string, load func(ctx context.Context) error, exit func()) Extension {
	return &funcExtension{name: name, load: load, exit: exit}
}

// Manager 按注册顺序加载，按相反顺序退出
type Manager struct {
	mu         sync.Mutex
	registered []Extension
	loaded     []Extension
}

func NewManager() *Manager {
	return &Manager{}
}

// Register 注册扩展，nil 会被忽略
func (m *Manager) Register(exts ...Extension) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ext := range exts {
		if ext == nil {
			log.Warn().Msg("attempted to register a nil extension")
			continue
		}
		m.registered = append(m.registered, ext)
		log.Trace().Str("extension", ext.Name()).Msg("extension registered")
	}
	return m
}

// LoadAll 加载所有尚未加载的扩展
// 任何一个失败时，本次调用中已加载的扩展会被反向退出，之前已加载的保持不变
func (m *Manager) LoadAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var loadedNow []Extension
	for _, ext := range m.registered[len(m.loaded):] {
		if err := ext.Load(ctx); err != nil {
			log.Error().Err(err).Str("extension", ext.Name()).Msg("failed to load extension")
			exitReverse(loadedNow)
			return fmt.Errorf("load extension %s: %w", ext.Name(), err)
		}
		loadedNow = append(loadedNow, ext)
		log.Debug().Str("extension", ext.Name()).Msg("extension loaded")
	}
	m.loaded = append(m.loaded, loadedNow...)
	return nil
}

// ExitAll 反向退出所有已加载的扩展，之后可以再次 LoadAll
func (m *Manager) ExitAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	exitReverse(m.loaded)
	m.loaded = nil
}

// Loaded 已加载扩展的名称
func (m *Manager) Loaded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, len(m.loaded))
	for i, ext := range m.loaded {
		names[i] = ext.Name()
	}
	return names
}

func exitReverse(exts []Extension) {
	for i := len(exts) - 1; i >= 0; i-- {
		exts[i].Exit()
		log.Debug().Str("extension", exts[i].Name()).Msg("extension exited")
	}
}
