package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Joseda-hg/focuspal/internal/assistant"
	"github.com/Joseda-hg/focuspal/internal/config"
	"github.com/Joseda-hg/focuspal/internal/db"
	"github.com/Joseda-hg/focuspal/internal/focus"
	"github.com/Joseda-hg/focuspal/internal/mcptools"
	"github.com/Joseda-hg/focuspal/internal/notify"
	"github.com/Joseda-hg/focuspal/internal/observability"
	"github.com/Joseda-hg/focuspal/internal/repo"
	"github.com/Joseda-hg/focuspal/internal/tui"
	"github.com/Joseda-hg/focuspal/internal/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fail(err)
	}
}

// run wires every component. Errors are returned so the deferred cleanups
// close the focus session and the database before the process exits.
func run(args []string) error {
	flags := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
	configPathFlag := flags.String("config", "", "config file path")
	dbPathFlag := flags.String("db", "", "sqlite db path")
	rulesPathFlag := flags.String("rules", "", "site-blocking rules file (yaml)")
	webFlag := flags.Bool("web", false, "enable web server")
	webOnlyFlag := flags.Bool("web-only", false, "run web server only")
	portFlag := flags.Int("port", 0, "web server port")
	commandFlag := flags.String("c", "", "run one command and exit, e.g. -c \"add a task call the bank\"")
	flags.Usage = func() { usage(flags) }
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfgPath, err := resolveConfigPath(*configPathFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if *dbPathFlag != "" {
		cfg.DBPath = *dbPathFlag
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(cfgPath), "focuspal.db")
	}
	if *rulesPathFlag != "" {
		cfg.RulesPath = *rulesPathFlag
	}
	if cfg.RulesPath == "" {
		cfg.RulesPath = filepath.Join(filepath.Dir(cfgPath), "rules.yaml")
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(filepath.Dir(cfgPath), "focuspal.log")
	}
	if *webFlag || *webOnlyFlag {
		cfg.WebEnabled = true
	}
	if *portFlag != 0 {
		cfg.WebPort = *portFlag
	}
	if cfg.WebPort == 0 {
		cfg.WebPort = 8080
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveMCP := flags.Arg(0) == "serve"
	interactive := *commandFlag == "" && !*webOnlyFlag && !serveMCP
	if interactive {
		logFile, err := openLog(cfg.LogPath)
		if err != nil {
			return err
		}
		defer logFile.Close()
		observability.SetOutput(logFile, slog.LevelInfo)
	}
	logger := observability.Component("main")

	store, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("closing database", "err", err)
		}
	}()
	r := repo.New(store)
	if err := r.EnsureSettings(ctx, cfg.Settings()); err != nil {
		return err
	}

	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		return err
	}

	console := tui.NewNotifier()
	notifier := notify.Multi{notify.Log{Logger: observability.Component("notify")}, console}
	controller := focus.NewController(focus.Config{
		Repo:     r,
		Notifier: notifier,
		Blocker:  focus.NewBlocker(rules.DistractingSites),
	})
	defer func() {
		if err := controller.Disable(context.Background()); err != nil {
			logger.Error("closing focus session", "err", err)
		}
		controller.StopTimer()
	}()
	a := assistant.New(r, nil)

	if *commandFlag != "" {
		return runCommand(ctx, os.Stdout, a, *commandFlag)
	}

	scheduler := focus.NewScheduler(r, notifier, cfg.ReminderPoll(), nil)
	go func() {
		if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("reminder scheduler stopped", "err", err)
		}
	}()

	if serveMCP {
		return mcptools.ServeStdio(mcptools.NewServer(a, controller))
	}

	if cfg.WebEnabled {
		srv, err := web.NewServer(a, controller)
		if err != nil {
			return err
		}
		httpServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.WebPort), Handler: srv.Handler()}
		go func() {
			<-ctx.Done()
			_ = httpServer.Shutdown(context.Background())
		}()

		if *webOnlyFlag {
			logger.Info("web server running", "url", fmt.Sprintf("http://localhost:%d", cfg.WebPort))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}

		go func() {
			logger.Info("web server running", "url", fmt.Sprintf("http://localhost:%d", cfg.WebPort))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("web server error", "err", err)
			}
		}()
	}

	return tui.Run(tui.Deps{
		Assistant:  a,
		Controller: controller,
		Scheduler:  scheduler,
		Notifier:   console,
	})
}

func usage(flags *flag.FlagSet) {
	out := flags.Output()
	fmt.Fprintf(out, "Usage: %s [flags] [serve]\n\n", flags.Name())
	fmt.Fprintln(out, "Without arguments focuspal opens the terminal console.")
	fmt.Fprintln(out, "serve runs the MCP server on stdin/stdout.")
	fmt.Fprintln(out)
	flags.PrintDefaults()
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

func openStore(dbPath string) (*db.Store, error) {
	if err := config.EnsureDir(dbPath); err != nil {
		return nil, err
	}

	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return nil, err
	}

	return db.NewStore(sqlDB), nil
}

func openLog(path string) (*os.File, error) {
	if err := config.EnsureDir(path); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
