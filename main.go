package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/xgbutil"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/phsym/console-slog"

	"honnef.co/go/wmclient/config"
)

type Options struct {
	Debug  bool   `doc:"enable debug logging"`
	Config string `doc:"config file, defaults to $WMCLIENT_CONFIG or wmclient/config.toml in the user config directory"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		OnServe(hooks, func(ctx context.Context) error {
			return run(ctx, options)
		})
	})

	cli.Root().Use = "wmclient"
	cli.Run()
}

func run(ctx context.Context, options *Options) error {
	path, err := configPath(options.Config)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	slog.Debug("loaded config", "path", path)

	xu, err := xgbutil.NewConn()
	if err != nil {
		return err
	}
	defer xu.Conn().Close()

	wm := NewWM(xu, cfg, slog.Default())
	if err := wm.Init(); err != nil {
		return err
	}

	super := newSupervisor()
	super.Add(wm)
	if cfg.Socket != "" {
		super.Add(&fileServer{wm: wm, path: cfg.Socket})
	}
	return super.Serve(ctx)
}

func configPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if path := os.Getenv("WMCLIENT_CONFIG"); path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wmclient", "config.toml"), nil
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("exiting", "error", err)
				os.Exit(1)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
