package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/asnowfix/tigo-cca/hlog"
	"github.com/asnowfix/tigo-cca/pkg/tigo"

	"github.com/go-logr/logr"
)

func main() {
	configPath := flag.String("config", "", "configuration file (default: ./tigod.yaml, /etc/tigod/tigod.yaml)")
	verbose := flag.Bool("verbose", false, "verbose output")
	flag.Parse()

	hlog.InitForDaemon(*verbose)
	log := hlog.GetLogger("tigod")

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Error(err, "Unable to load configuration")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p := &poller{
		log:     log,
		cca:     tigo.NewTigoCCA(log, cfg.Host, cfg.Username, cfg.Password),
		timeout: cfg.Timeout,
	}

	if err := p.readConfig(ctx); err != nil {
		log.Error(err, "Giving up on initial configuration read", "host", cfg.Host)
		os.Exit(1)
	}
	log.Info("Read CCA configuration", "host", cfg.Host, "panels", len(p.cca.Panels))

	go p.run(ctx, cfg.Interval)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", p.handleStatus)
	mux.HandleFunc("GET /panels", p.handlePanels)
	mux.HandleFunc("POST /modules/on", p.handleModules(p.cca.TurnModulesOn))
	mux.HandleFunc("POST /modules/off", p.handleModules(p.cca.TurnModulesOff))

	srv := &http.Server{Addr: cfg.Listen, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("Listening", "addr", cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error(err, "HTTP server failed")
		os.Exit(1)
	}
}

// poller keeps the latest CCA snapshot. The CCA's embedded web server
// handles one client at a time, so every CCA operation goes through op.
type poller struct {
	log     logr.Logger
	cca     *tigo.TigoCCA
	timeout time.Duration

	op sync.Mutex

	mu      sync.RWMutex
	last    *tigo.CcaStatus
	lastErr error
	updated time.Time
}

func (p *poller) readConfig(ctx context.Context) error {
	// The CCA takes a while to come up after a power cut: retry before
	// giving up on the whole daemon.
	for attempt := 1; ; attempt++ {
		opCtx, cancel := context.WithTimeout(ctx, p.timeout)
		err := p.cca.ReadConfig(opCtx)
		cancel()
		if err == nil {
			return nil
		}
		hlog.ErrorIfNotCanceled(p.log, err, "Failed to read CCA configuration", "attempt", attempt)
		if attempt >= 5 {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Second):
		}
	}
}

func (p *poller) run(ctx context.Context, interval time.Duration) {
	p.poll(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *poller) poll(ctx context.Context) {
	p.op.Lock()
	opCtx, cancel := context.WithTimeout(ctx, p.timeout)
	status, err := p.cca.GetStatus(opCtx)
	cancel()
	p.op.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = err
	if err != nil {
		hlog.ErrorIfNotCanceled(p.log, err, "Poll failed")
		return
	}
	p.last = status
	p.updated = time.Now()
}

func (p *poller) handleStatus(w http.ResponseWriter, r *http.Request) {
	p.mu.RLock()
	last, lastErr, updated := p.last, p.lastErr, p.updated
	p.mu.RUnlock()

	if last == nil || lastErr != nil {
		msg := "no snapshot yet"
		if lastErr != nil {
			msg = lastErr.Error()
		}
		http.Error(w, msg, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, struct {
		Updated time.Time `json:"updated"`
		*tigo.CcaStatus
	}{updated, last})
}

func (p *poller) handlePanels(w http.ResponseWriter, r *http.Request) {
	// cca.Panels is only written during readConfig, before the server starts
	writeJSON(w, p.cca.Panels)
}

func (p *poller) handleModules(control func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.op.Lock()
		defer p.op.Unlock()
		ctx, cancel := context.WithTimeout(r.Context(), p.timeout)
		defer cancel()
		if err := control(ctx); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, out any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
