package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	httpapi "github.com/i474232898/weather-companion/internal/api/http"
	"github.com/i474232898/weather-companion/internal/app"
	"github.com/i474232898/weather-companion/internal/config"
	"github.com/i474232898/weather-companion/internal/location"
	"github.com/i474232898/weather-companion/internal/location/geocoders"
	"github.com/i474232898/weather-companion/internal/log"
	"github.com/i474232898/weather-companion/internal/scheduler"
	"github.com/i474232898/weather-companion/internal/store"
	"github.com/i474232898/weather-companion/internal/tui"
	"github.com/i474232898/weather-companion/internal/weather"
	"github.com/i474232898/weather-companion/internal/weather/providers"
)

const (
	serviceName = "weather"

	// number of preference writes the control API can list
	historySize = 50
)

func main() {
	headless := flag.Bool("headless", false, "log views instead of drawing the terminal interface")
	flag.Parse()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if *headless {
		err = log.Init(cfg.Log.Debug)
	} else {
		err = log.InitFile(cfg.Log.Debug, cfg.Log.File)
	}
	if err != nil {
		log.Fatalf("failed to initialize logging: %v", err)
	}
	defer log.Sync()
	logger := log.GetSugaredLogger()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTP.Timeout,
	}

	var fetcher weather.Fetcher
	switch cfg.Weather.Provider {
	case "openmeteo":
		fetcher = providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteo.BaseURL)
	default:
		fetcher = providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeather.APIKey, cfg.OpenWeather.BaseURL)
	}

	var searcher location.Searcher
	switch cfg.Geocoder.Provider {
	case "google":
		searcher = geocoders.NewGoogle(cfg.Google.APIKey, cfg.Geocoder.BaseURL)
	default:
		searcher = geocoders.NewGeocodeAPI(httpClient, cfg.Geocoder.APIKey, cfg.Geocoder.BaseURL)
	}

	// A malformed preferences file is fatal; a missing one is not.
	fileStore := store.NewFileStore(cfg.Preferences.Path)
	prefs, err := fileStore.Load()
	if err != nil {
		log.Fatalf("failed to load preferences: %v", err)
	}
	prefStore := store.NewMemoryStore(historySize, fileStore)

	var sink app.Sink = app.NewLogSink(logger)
	termSink := tui.NewSink()
	if !*headless {
		sink = termSink
	}

	spawner := app.NewGoSpawner(logger)
	core, handle := app.New(app.Config{
		Fetcher:         fetcher,
		Searcher:        searcher,
		Store:           prefStore,
		Sink:            sink,
		Spawner:         spawner,
		Logger:          logger,
		DefaultLocation: cfg.Defaults.Location,
		DefaultUnits:    cfg.Defaults.Units,
		TaskTimeout:     cfg.HTTP.Timeout,
	}, prefs)

	done := make(chan struct{})
	go func() {
		defer close(done)
		core.Run()
	}()
	core.Start()

	// Scheduler that periodically asks for a refresh.
	sched := scheduler.New(cfg.Refresh.Interval, handle, logger)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	var api interface {
		ShutdownWithContext(ctx context.Context) error
	}
	if cfg.API.Listen != "" {
		a := httpapi.NewApp(serviceName)
		httpapi.RegisterRoutes(a, handle, prefStore)
		api = a

		go func() {
			if err := a.Listen(cfg.API.Listen); err != nil {
				log.Errorf("control api stopped: %v", err)
			}
		}()
		log.Infow("control api listening", "addr", cfg.API.Listen)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *headless {
		// Wait for termination signal
		<-ctx.Done()
	} else {
		p := tea.NewProgram(tui.New(handle), tea.WithAltScreen(), tea.WithContext(ctx))
		termSink.Attach(p)
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			log.Errorf("terminal interface stopped: %v", err)
		}
	}

	sched.Stop()
	if api != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := api.ShutdownWithContext(shutdownCtx); err != nil {
			log.Errorf("error during shutdown: %v", err)
		}
		cancel()
	}

	// Closing the handle closes the update channel once in-flight tasks
	// have reported back; the loop then drains and returns.
	handle.Close()
	select {
	case <-done:
	case <-time.After(cfg.HTTP.Timeout + 5*time.Second):
		pending := core.Abandon()
		log.Warnf("consumer loop did not stop in time, discarded %d queued updates", pending)
		<-done
	}
	spawner.Wait()
	log.Infof("shutdown complete")
}
