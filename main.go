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

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap/zapcore"

	"bounceball/config"
	"bounceball/game"
	"bounceball/scores"
	"bounceball/server"
	"bounceball/terminal"
)

// BounceBall 入口：默认启动 HTTP + WebSocket 服务；-tui 在本地终端游玩
func main() {
	var (
		envFile   string
		addr      string
		room      string
		scoresURL string
		logLevel  string
		seed      int64
		tui       bool
	)
	flag.StringVar(&envFile, "env", ".env", "env file to load before BOUNCEBALL_* variables")
	flag.StringVar(&addr, "addr", "", "server listen address, e.g. :8080")
	flag.StringVar(&room, "room", "", "default room id")
	flag.StringVar(&scoresURL, "scores-url", "", "remote leaderboard base url, e.g. http://localhost:8080")
	flag.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	flag.Int64Var(&seed, "seed", 0, "random seed, 0 picks one from the clock")
	flag.BoolVar(&tui, "tui", false, "play in the terminal instead of serving")
	flag.Parse()

	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	// 命令行优先于环境变量
	if addr != "" {
		cfg.Addr = addr
	}
	if room != "" {
		cfg.DefaultRoom = room
	}
	if scoresURL != "" {
		cfg.ScoresURL = scoresURL
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "log level:", err)
		os.Exit(2)
	}
	logFile := cfg.LogFile
	if tui && logFile == "" {
		// 屏幕归 tcell 所有
		logFile = "bounceball.log"
	}
	if err := server.InitLogger(logFile, level); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	var store scores.Store
	if cfg.ScoresURL != "" {
		store = scores.NewClient(cfg.ScoresURL)
	} else {
		store = scores.NewFileStore(cfg.ScoresFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if tui {
		err = runTerminal(ctx, cfg, store)
	} else {
		err = serve(ctx, cfg, store)
	}
	if err != nil {
		server.Log.Errorw("exit", "err", err)
		server.SyncLogger()
		os.Exit(1)
	}
}

func runTerminal(ctx context.Context, cfg config.Config, store scores.Store) error {
	tn := game.DefaultTuning()
	tn.TickRate = cfg.TickRate
	opts := []game.Option{game.WithLogger(server.Log)}
	if cfg.Seed != 0 {
		opts = append(opts, game.WithSeed(cfg.Seed))
	}
	sess, err := game.NewSession(tn, opts...)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	server.Log.Infow("terminal session started", "seed", sess.Seed())
	return terminal.NewApp(screen, sess, store, server.Log).Run(ctx)
}

func serve(ctx context.Context, cfg config.Config, store scores.Store) error {
	rc := server.DefaultRoomConfig()
	rc.Tuning.TickRate = cfg.TickRate
	rc.TickRate = cfg.TickRate
	rc.BroadcastEvery = cfg.BroadcastEvery
	rc.Seed = cfg.Seed
	rc.Store = store
	rc.Log = server.Log

	rm := server.NewRoomManager(rc, cfg.DefaultRoom)
	if err := rm.SetDefaultCodec(cfg.Codec); err != nil {
		return err
	}
	defer rm.Close()
	// 先预创建一个默认房间，便于快速试跑
	if _, err := rm.GetOrCreateRoom(cfg.DefaultRoom); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", rm.HandleWS)
	mux.Handle("/api/scores", scores.Handler(store, server.Log))
	// 前后端分离：将 / 映射到静态资源目录
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	// 管理与监控接口
	mux.HandleFunc("/admin/config", rm.HandleAdminConfig)
	mux.HandleFunc("/metrics", rm.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: mux}
	errc := make(chan error, 1)
	go func() {
		server.Log.Infof("BounceBall listening on %s; open http://localhost%v/", cfg.Addr, cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	// 优雅退出（Ctrl+C）
	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}
	server.Log.Info("Shutting down...")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownWait)
	defer cancel()
	return srv.Shutdown(sctx)
}
