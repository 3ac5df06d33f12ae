package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/rwortham/instinct"
	"github.com/rwortham/instinct/internal/application/executor"
	"github.com/rwortham/instinct/internal/command"
	"github.com/rwortham/instinct/internal/config"
	"github.com/rwortham/instinct/internal/domain"
	"github.com/rwortham/instinct/internal/monitor"
	"github.com/rwortham/instinct/internal/planstore"
	"github.com/rwortham/instinct/internal/restapi"
	"github.com/rwortham/instinct/internal/snapshot"
	"github.com/rwortham/instinct/internal/telemetry"
	"github.com/rwortham/instinct/internal/wsmonitor"
)

func main() {
	var (
		restAddr = flag.String("rest-addr", "", "REST Gateway listen address (overrides config)")
		wsAddr   = flag.String("ws-addr", "", "Live Monitor Transport listen address (overrides config)")
		planID   = flag.Int("plan-id", 1, "plan id the REST Gateway answers for")
	)
	flag.Parse()

	cfg := config.Load()
	if *restAddr != "" {
		cfg.RESTAddr = *restAddr
	}
	if *wsAddr != "" {
		cfg.WSAddr = *wsAddr
	}

	log := instinct.NewLogger(cfg.LogLevel)
	log.Info("starting instinct engine host",
		"rest_addr", cfg.RESTAddr,
		"ws_addr", cfg.WSAddr,
		"snapshot_driver", cfg.SnapshotDriver,
	)

	store := planstore.NewWithByteCeiling(cfg.MaxPlanBytes)
	store.SetPlanID(int32(*planID))

	metricsSink := monitor.NewMetricsSink()
	mon := monitor.NewComposite(monitor.NewLogSink(nil), metricsSink)

	var hub *wsmonitor.Hub
	if cfg.WSAddr != "" {
		hub = wsmonitor.NewHub(nil)
		mon.Add(hub)
		go hub.Run()
	}

	senses, actions := newDemoCollaborators(log)

	engineCfg := executor.DefaultConfig()
	eng := instinct.NewEngine(store, senses, actions, mon, engineCfg)
	gw := instinct.NewGateway(store)

	var snapStore snapshot.Store
	if cfg.SnapshotDriver == "postgres" {
		snapStore = instinct.NewPostgresSnapshotStore(cfg.SnapshotDSN)
		log.Info("using Postgres snapshot store")
	} else {
		snapStore = instinct.NewMemorySnapshotStore()
		log.Info("using in-memory snapshot store")
	}

	tracer := telemetry.NewTracer("instinct")

	restServer := restapi.NewServer(store, gw, log)
	if cfg.RESTAPIKeyHash != "" {
		restServer.RequireAPIKey(cfg.RESTAPIKeyHash)
	}
	restHTTPServer := &http.Server{
		Addr:         cfg.RESTAddr,
		Handler:      restServer,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wsHTTPServer *http.Server
	if hub != nil {
		auth := newWSAuth(cfg)
		wsHandler := wsmonitor.NewHandler(hub, auth, log)
		mux := http.NewServeMux()
		mux.Handle("/v1/monitor", wsHandler)
		wsHTTPServer = &http.Server{
			Addr:         cfg.WSAddr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("REST Gateway listening", "address", restHTTPServer.Addr)
		if err := restHTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("REST Gateway failed", "error", err)
		}
	}()

	if wsHTTPServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("Live Monitor Transport listening", "address", wsHTTPServer.Addr)
			if err := wsHTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Live Monitor Transport failed", "error", err)
			}
		}()
	}

	ctx, stopCycle := context.WithCancel(context.Background())
	wg.Add(1)
	go runCycleLoop(ctx, &wg, eng, tracer, store, snapStore, time.Duration(cfg.CycleIntervalMillis)*time.Millisecond)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	stopCycle()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := restHTTPServer.Shutdown(shutdownCtx); err != nil {
		log.Error("REST Gateway forced to shutdown", "error", err)
	}
	if wsHTTPServer != nil {
		if err := wsHTTPServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Live Monitor Transport forced to shutdown", "error", err)
		}
	}

	wg.Wait()
	instinct.DisplayMetrics(os.Stdout, metricsSink)
	log.Info("exited gracefully")
}

// runCycleLoop drives RunPlan on a fixed tick, feeding the elapsed ticks
// into ProcessTimers first, and persists a snapshot of every node after
// each cycle so a restart can recover the plan's last known state.
func runCycleLoop(ctx context.Context, wg *sync.WaitGroup, eng *executor.Engine, tracer *telemetry.Tracer, store *planstore.Store, snapStore snapshot.Store, interval time.Duration) {
	defer wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	gw := command.NewGateway(store)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tracer.TraceProcessTimers(ctx, 1, func() { eng.ProcessTimers(1) })
			tracer.TraceRunPlan(ctx, 0, eng.RunPlan)
			persistSnapshot(ctx, store, snapStore, gw)
		}
	}
}

func persistSnapshot(ctx context.Context, store *planstore.Store, snapStore snapshot.Store, gw *command.Gateway) {
	highest := store.MaxElementID()
	for id := domain.ElementID(1); id <= highest; id++ {
		if _, ok := store.Get(id); !ok {
			continue
		}
		line := gw.Execute("D N " + strconv.Itoa(int(id)))
		_ = snapStore.Save(ctx, snapshot.Record{PlanID: store.PlanID(), ElementID: uint16(id), Line: line})
	}
}

func newWSAuth(cfg *config.Config) wsmonitor.Authenticator {
	if cfg.WSAuthMode == "jwt" {
		return wsmonitor.NewJWTAuth(cfg.WSJWTSecret)
	}
	return wsmonitor.NewNoAuth()
}

// newDemoCollaborators returns a placeholder Senses/Actions pair so this
// host can run without real I/O wired in: Read always reports 0, and
// Execute logs the dispatched action and reports Success. A real
// deployment supplies its own domain.Senses/domain.Actions backed by
// actual hardware or simulated I/O.
func newDemoCollaborators(log *slog.Logger) (domain.Senses, domain.Actions) {
	senses := instinct.SensesFunc(func(id domain.SenseID) int32 { return 0 })

	actions := instinct.ActionsFunc(func(id domain.ActionID, value int32, checkForComplete bool) domain.ReturnCode {
		log.Debug("action dispatched", "action_id", id, "value", value, "check_for_complete", checkForComplete)
		return domain.Success
	})

	return senses, actions
}
