package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markusressel/pid2go/internal/api"
	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/loops"
	"github.com/markusressel/pid2go/internal/persistence"
	"github.com/markusressel/pid2go/internal/plant"
	"github.com/markusressel/pid2go/internal/statistics"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

func RunDaemon() {
	if configuration.CurrentConfig.TickRate <= 0 {
		ui.Fatal("Invalid tickRate: %s, must be > 0", configuration.CurrentConfig.TickRate)
	}

	pers := persistence.NewPersistence(configuration.CurrentConfig.DbPath)
	err := pers.Init()
	if err != nil {
		ui.Fatal("Unable to initialize persistence: %v", err)
	}

	plants, loopList, err := InitializeObjects()
	if err != nil {
		ui.Fatal("%v", err)
	}
	if len(loopList) == 0 {
		ui.Fatal("No valid loop configurations, exiting.")
	}

	// the stored history always belongs to the latest run
	for _, loop := range loopList {
		err = pers.DeleteSamples(loop.GetId())
		if err != nil {
			ui.Warning("Unable to clear stored history of loop %s: %v", loop.GetId(), err)
		}
	}

	statistics.Register(statistics.NewLoopCollector(loopList))
	statistics.Register(statistics.NewPlantCollector(plants))

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		enabled := configuration.CurrentConfig.Statistics.Enabled
		if enabled {
			// === Prometheus Exporter
			port := configuration.CurrentConfig.Statistics.Port
			if port <= 0 || port >= 65535 {
				port = 9000
			}
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			server := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

			g.Add(func() error {
				ui.Info("Starting statistics server on %s", server.Addr)
				return listenAndServe(server)
			}, func(err error) {
				shutdownServer("statistics", server)
			})
		}
	}
	{
		apiConfig := configuration.CurrentConfig.Api
		if apiConfig.Enabled {
			// === REST API
			rest := api.CreateRestService(prometheus.DefaultRegisterer)
			addr := fmt.Sprintf("%s:%d", apiConfig.Host, apiConfig.Port)

			g.Add(func() error {
				ui.Info("Starting REST API on %s", addr)
				err := rest.Start(addr)
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start REST API (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				if err := rest.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping REST API: %v", err)
				} else {
					ui.Info("REST API stopped.")
				}
			})
		}
	}
	{
		profilingConfig := configuration.CurrentConfig.Profiling
		if profilingConfig.Enabled {
			// === pprof endpoints, registered on the default mux
			server := &http.Server{
				Addr:    fmt.Sprintf("%s:%d", profilingConfig.Host, profilingConfig.Port),
				Handler: http.DefaultServeMux,
			}

			g.Add(func() error {
				ui.Info("Starting profiling server on %s", server.Addr)
				return listenAndServe(server)
			}, func(err error) {
				shutdownServer("profiling", server)
			})
		}
	}
	{
		// === control loops
		tickRate := configuration.CurrentConfig.TickRate
		for _, loop := range loopList {
			l := loop

			g.Add(func() error {
				err := l.Run(ctx, tickRate)
				ui.Info("Control loop %s stopped.", l.GetId())
				return err
			}, func(err error) {
				if err != nil {
					ui.Warning("Something went wrong: %v", err)
				}
			})
		}
	}
	{
		// === history persistence
		interval := configuration.CurrentConfig.PersistenceInterval
		if interval <= 0 {
			interval = 10 * time.Second
		}

		g.Add(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					ui.Info("Saving loop history...")
					saveHistory(pers, loopList)
					return nil
				case <-ticker.C:
					saveHistory(pers, loopList)
				}
			}
		}, func(err error) {
			cancel()
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			<-sig
			ui.Info("Received SIGTERM signal, exiting...")
			return nil
		}, func(err error) {
			signal.Stop(sig)
			defer close(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// InitializeObjects creates all configured plants and loops and registers them
// in their maps. Loops are returned in dependency order.
func InitializeObjects() ([]plant.Plant, []*loops.Loop, error) {
	plant.PlantMap.Clear()
	loops.LoopMap.Clear()

	var plantList []plant.Plant
	for _, config := range configuration.CurrentConfig.Plants {
		p, err := plant.NewPlant(config)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to process plant configuration %s: %w", config.ID, err)
		}
		plant.PlantMap.Set(config.ID, p)
		plantList = append(plantList, p)
	}

	defaultTimeStep := configuration.CurrentConfig.TickRate.Seconds()
	loopList, err := loops.CreateLoops(configuration.CurrentConfig.Loops, defaultTimeStep)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to process loop configuration: %w", err)
	}

	return plantList, loopList, nil
}

// Simulate creates all configured objects and cycles every loop steps times,
// upstream loops first. A failed cycle is logged and skipped.
func Simulate(steps int) ([]*loops.Loop, error) {
	_, loopList, err := InitializeObjects()
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	for i := 0; i < steps; i++ {
		for _, loop := range loopList {
			if err := loop.Cycle(ctx); err != nil {
				ui.Warning("Skipping cycle %d: %v", i, err)
			}
		}
	}
	return loopList, nil
}

func saveHistory(pers persistence.Persistence, loopList []*loops.Loop) {
	for _, loop := range loopList {
		err := loops.SaveHistory(pers, loop)
		if err != nil {
			ui.Warning("Unable to save history of loop %s: %v", loop.GetId(), err)
		}
	}
}

func listenAndServe(server *http.Server) error {
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		ui.Error("Cannot start server on %s (%s)", server.Addr, err.Error())
		return err
	}
	return nil
}

func shutdownServer(name string, server *http.Server) {
	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer timeoutCancel()
	if err := server.Shutdown(timeoutCtx); err != nil {
		ui.Warning("Error stopping %s server: %v", name, err)
	} else {
		ui.Info("Stopped %s server.", name)
	}
}
