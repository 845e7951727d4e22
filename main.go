// main.go - EFGH 桌面壳层入口
// 负责运行时装配：配置、日志、窗口、托盘、壳层核心

package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/wailsapp/wails/v3/pkg/application"

	"efgh-desktop/config"
	"efgh-desktop/internal/installmode"
	"efgh-desktop/internal/logging"
	"efgh-desktop/internal/shell"
	"efgh-desktop/internal/storage"
)

// 版本信息
var (
	Version   = "1.0.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// 命令行参数
var (
	configPath  = flag.String("config", "", "配置文件路径（默认使用用户配置目录）")
	showVersion = flag.Bool("version", false, "显示版本信息")
)

// 嵌入前端资源
//
//go:embed all:frontend/dist
var assets embed.FS

// 嵌入应用图标
//
//go:embed build/appicon.png
var icon []byte

// 嵌入默认配置文件
//
//go:embed config/config.yaml
var defaultConfigContent []byte

// 运行时变量
var currentLogHandler *SimpleHandler

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("EFGH Desktop\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Commit: %s\n", Commit)
		fmt.Printf("Built: %s\n", BuildTime)
		os.Exit(0)
	}

	// 安装形态决定数据目录位置，必须最先判定
	portable := installmode.IsPortable()
	storage.SetPortable(portable)
	if err := storage.EnsureAppDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: 创建应用目录失败: %v\n", err)
		os.Exit(1)
	}

	// 配置：显式路径优先，否则首次运行写出内嵌默认配置
	cfgPath := *configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = config.EnsureDefaultConfig(storage.GetConfigDir(), defaultConfigContent)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: 准备默认配置失败: %v\n", err)
			os.Exit(1)
		}
	}

	configWatcher, err := config.NewConfigWatcher(cfgPath, slog.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: 加载配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg := configWatcher.GetConfig()

	logger, logHandler := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("🚀 EFGH 桌面版启动中...",
		"version", Version,
		"config_file", cfgPath,
		"portable", portable,
		"appdir", storage.GetAppDataDir())

	appService := NewApp()
	appService.logger = logger
	appService.logHandler = logHandler
	appService.logEmitter = logging.NewEventEmitter()
	appService.configWatcher = configWatcher
	appService.portable = portable

	// 壳层设置库要在建窗前就绪：主窗口尺寸从里面恢复
	if err := appService.setupShellStore(); err != nil {
		logger.Error("❌ 壳层设置库初始化失败", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	savedState, err := appService.settingsService.WindowState(ctx)
	cancel()
	if err != nil {
		logger.Warn("⚠️ 读取窗口状态失败，使用默认尺寸", "error", err)
	}

	winWidth, winHeight := cfg.Window.Width, cfg.Window.Height
	if savedState != nil {
		winWidth, winHeight = savedState.Width, savedState.Height
	}

	// 窗口运行时初始化失败无法降级，Run 返回错误时直接退出
	wailsApp := application.New(application.Options{
		Name:        cfg.App.Name,
		Description: "EFGH 桌面壳层",
		Icon:        icon,
		Services: []application.Service{
			application.NewService(appService),
		},
		Assets: application.AssetOptions{
			Handler: application.AssetFileServerFS(assets),
		},
		Mac: application.MacOptions{
			// 关掉最后一个窗口不退出，常驻托盘
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
		Windows: application.WindowsOptions{
			DisableQuitOnLastWindowClosed: true,
		},
		Linux: application.LinuxOptions{
			DisableQuitOnLastWindowClosed: true,
			ProgramName:                   "efgh-desktop",
		},
		OnShutdown: func() {
			appService.shutdown()
		},
	})
	appService.app = wailsApp

	appService.mainWindow = wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Name:             "main",
		Title:            cfg.App.Name,
		Width:            winWidth,
		Height:           winHeight,
		MinWidth:         cfg.Window.MinWidth,
		MinHeight:        cfg.Window.MinHeight,
		BackgroundColour: application.NewRGB(26, 26, 46),
		URL:              "/",
		Mac: application.MacWindow{
			Backdrop: application.MacBackdropTranslucent,
		},
	})

	appService.setupShell(cfg)
	appService.setupWindowStatePersistence()
	appService.restoreWindowPosition(savedState)

	// 系统托盘：左键释放唤出主窗口，右键释放切换托盘菜单
	tray := wailsApp.SystemTray.New()
	tray.SetIcon(icon)
	tray.SetTooltip(cfg.App.Name)
	tray.OnClick(func() {
		appService.dispatcher.Dispatch(trayPointerEvent(shell.ButtonLeft))
	})
	tray.OnRightClick(func() {
		appService.dispatcher.Dispatch(trayPointerEvent(shell.ButtonRight))
	})

	configWatcher.AddReloadCallback(appService.onConfigReloaded)

	if err := wailsApp.Run(); err != nil {
		logger.Error("❌ 窗口运行时启动失败", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ============================================================
// 日志相关函数
// ============================================================

// setupLogger 配置结构化日志
func setupLogger(cfg config.LoggingConfig) (*slog.Logger, *logging.BroadcastHandler) {
	level := parseLogLevel(cfg.Level)

	var fileRotator *logging.FileRotator
	if cfg.FileEnabled {
		maxSize, err := logging.ParseSize(cfg.MaxFileSize)
		if err != nil {
			fmt.Printf("警告：无法解析日志文件大小配置 '%s'，使用默认值 100MB: %v\n", cfg.MaxFileSize, err)
			maxSize = 100 * 1024 * 1024
		}

		// 相对路径落到应用日志目录
		filePath := cfg.FilePath
		if !filepath.IsAbs(filePath) {
			filePath = filepath.Join(storage.GetLogDir(), filepath.Base(filePath))
		}

		fileRotator, err = logging.NewFileRotator(filePath, maxSize, cfg.MaxFiles, cfg.CompressRotated)
		if err != nil {
			fmt.Printf("警告：无法创建日志文件轮转器: %v\n", err)
			fileRotator = nil
		}
	}

	simpleHandler := NewSimpleHandler(level, fileRotator)
	currentLogHandler = simpleHandler

	// 用 BroadcastHandler 包装（添加前端日志面板支持）
	broadcastHandler := logging.NewBroadcastHandler(simpleHandler, 1000)

	return slog.New(broadcastHandler), broadcastHandler
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SimpleHandler 简化的日志处理器（时间戳 + PID/GID 标记的控制台与文件输出）
type SimpleHandler struct {
	level       *slog.LevelVar
	fileRotator *logging.FileRotator
}

// NewSimpleHandler 创建日志处理器
func NewSimpleHandler(level slog.Level, fileRotator *logging.FileRotator) *SimpleHandler {
	lv := &slog.LevelVar{}
	lv.Set(level)
	return &SimpleHandler{
		level:       lv,
		fileRotator: fileRotator,
	}
}

// SetLevel 热更新日志级别
func (h *SimpleHandler) SetLevel(level slog.Level) {
	h.level.Set(level)
}

func (h *SimpleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *SimpleHandler) Handle(_ context.Context, r slog.Record) error {
	message := r.Message

	var attrs []string
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
		return true
	})
	if len(attrs) > 0 {
		message = message + " " + strings.Join(attrs, " ")
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	pid := os.Getpid()
	gid := getGoroutineID()
	level := "INFO"
	switch r.Level {
	case slog.LevelDebug:
		level = "DEBUG"
	case slog.LevelWarn:
		level = "WARN"
	case slog.LevelError:
		level = "ERROR"
	}

	if len(message) > 500 {
		message = message[:500] + "... (截断)"
	}
	formatted := fmt.Sprintf("[%s] [PID:%d] [GID:%d] [%s] %s", timestamp, pid, gid, level, message)

	if h.fileRotator != nil {
		h.fileRotator.Write([]byte(formatted + "\n"))
	}
	fmt.Println(formatted)

	return nil
}

func (h *SimpleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *SimpleHandler) WithGroup(name string) slog.Handler {
	return h
}

func (h *SimpleHandler) Close() error {
	if h.fileRotator != nil {
		h.fileRotator.Sync()
		return h.fileRotator.Close()
	}
	return nil
}

func getGoroutineID() int {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	idField := strings.Fields(string(buf))[1]
	id, err := strconv.Atoi(idField)
	if err != nil {
		return 0
	}
	return id
}
