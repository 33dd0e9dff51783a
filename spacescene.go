package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/mogaika/spacescene/assets"
	"github.com/mogaika/spacescene/config"
	"github.com/mogaika/spacescene/loop"
	"github.com/mogaika/spacescene/scene"
	"github.com/mogaika/spacescene/stage"
	"github.com/mogaika/spacescene/utils"
	"github.com/mogaika/spacescene/viewer"
	"github.com/mogaika/spacescene/web"
)

// parseConfig applies yaml from -config first, then other flags over it
func parseConfig(args []string) (*config.Config, error) {
	var path string
	pre := flag.NewFlagSet(args[0], flag.ContinueOnError)
	pre.SetOutput(os.Stderr)
	pre.StringVar(&path, "config", "", "Path to yaml config")
	config.Default().RegisterFlags(pre)
	if err := pre.Parse(args[1:]); err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.String("config", path, "Path to yaml config")
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func loadModel(cfg *config.Config, driver *loop.Driver) {
	if cfg.Assets.Model == "" {
		return
	}
	assets.LoadAsync(cfg.Assets.Model,
		func(model *scene.Node) {
			driver.Post(func(s *stage.Stage) {
				if err := s.AttachModel(model); err != nil {
					s.ModelFailed(err)
				}
			})
		},
		func(err error) {
			driver.Post(func(s *stage.Stage) { s.ModelFailed(err) })
		})
}

func main() {
	cfg, err := parseConfig(os.Args)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[main] config: %s", utils.SDump(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	hub := viewer.NewHub()
	hub.Background = cfg.Assets.Background

	st, err := stage.New(cfg, hub)
	if err != nil {
		log.Fatal(err)
	}
	driver := loop.NewDriver(st)
	loadModel(cfg, driver)

	if cfg.Headless {
		if err := driver.Run(ctx, loop.TickerRefresh(ctx, cfg.FrameRate, cfg.Frames)); err != nil {
			log.Fatal(err)
		}
		log.Printf("[main] final scene:\n%s", scene.DumpString(st.Root))
		utils.LogDump("[main] stats", driver.Stats())
		return
	}

	refresh := loop.NewRequestRefresh()
	dispatcher := &viewer.Dispatcher{Driver: driver, Refresh: refresh}
	hub.OnMessage = dispatcher.Dispatch

	go func() {
		if err := driver.Run(ctx, refresh.C()); err != nil {
			log.Printf("[main] loop: %v", err)
		}
		stop()
	}()

	if err := web.NewServer(driver, hub).StartServer(ctx, cfg.Addr, cfg.WebPath); err != nil {
		log.Fatal(err)
	}
}
