package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/api"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/chat"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/config"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/extract"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/generator"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/profile"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/scheduler"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/storage"
	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/tools"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the tux server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running tux server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tux system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "tux.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "tux version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	// Refuse to start twice. Health probe first, PID file second.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("tux is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("tux is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer os.Remove(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen := generator.New(cfg.Ollama.BaseURL, cfg.Ollama.Model)
	if err := gen.EnsureReady(ctx, os.Stderr); err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	profiles := profile.NewManager(store)

	var extractor extract.Extractor
	switch cfg.Extraction.Strategy {
	case extract.StrategyLLM:
		extractor = extract.NewLLM(gen)
	default:
		extractor = extract.NewRules()
	}

	// The scheduler's fire callback records the reminder as a turn; the
	// chat manager it needs is built right after, so the closure binds a
	// variable set before Start.
	var chatMgr *chat.Manager
	sched := scheduler.New(store, func(fireCtx context.Context, t scheduler.Task) error {
		sess := chatMgr.Session(t.ConversationID)
		if err := sess.ScheduledTaskFired(fireCtx, t.Description); err != nil {
			slog.Error("recording fired task", "task", t.ID, "error", err)
			return err
		}
		return nil
	}, slog.Default())

	registry := tools.NewRegistry(sched)
	chatMgr = chat.NewManager(profiles, extractor, gen, registry, store, chat.Options{
		MaxSteps:  cfg.Chat.MaxSteps,
		MaxTokens: cfg.Chat.MaxTokens,
	}, slog.Default())

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	handler := api.NewHandler(api.Deps{
		Chat:      chatMgr,
		Profiles:  profiles,
		Model:     gen.Model(),
		AuthToken: cfg.Server.AuthToken,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Profiles: profiles,
		Sched:    sched,
	})
	stdioSrv := server.NewStdioServer(mcpSrv)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "tux listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	slog.Info("MCP server started (stdio transport)")

	return g.Wait()
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("tux is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop tux (PID %d): %v", pid, err)
		os.Remove(pidPath)
		return err
	}

	printSuccess("Sent stop signal to tux (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == 200 {
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	ollamaResp, err := client.Get(cfg.Ollama.BaseURL + "/api/version")
	if err != nil {
		printStatus("Ollama", "not running")
	} else {
		ollamaResp.Body.Close()
		printStatus("Ollama", "running at %s", cfg.Ollama.BaseURL)
	}

	printStatus("Model", "%s", cfg.Ollama.Model)
	printStatus("Extraction", "%s", cfg.Extraction.Strategy)
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}
