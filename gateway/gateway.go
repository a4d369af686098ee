// Package gateway provides the HTTP surface of the relay
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gliderlab/linerelay/gateway/channels/types"
	"github.com/gliderlab/linerelay/pkg/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// LivenessMessage is returned by GET /.
const LivenessMessage = "linerelay is alive"

// WebhookChannel parses webhook batches and answers health checks
type WebhookChannel interface {
	ParseRequest(r *http.Request) ([]types.InboundEvent, error)
	HealthCheck() error
}

// Gateway is the HTTP server wiring the channel to the dispatcher
type Gateway struct {
	cfg        *config.Config
	channel    WebhookChannel
	dispatcher *Dispatcher
	server     *http.Server
}

// New creates a gateway
func New(cfg *config.Config, channel WebhookChannel, dispatcher *Dispatcher) *Gateway {
	return &Gateway{
		cfg:        cfg,
		channel:    channel,
		dispatcher: dispatcher,
	}
}

// Router builds the HTTP routes
func (g *Gateway) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", g.handleRoot)
	r.Get("/health", g.handleHealth)
	r.Post("/webhook", g.handleWebhook)
	return r
}

// Start runs the HTTP server until Shutdown or failure
func (g *Gateway) Start() error {
	g.server = &http.Server{
		Addr:         g.cfg.Addr(),
		Handler:      g.Router(),
		ReadTimeout:  g.cfg.ReadTimeout,
		WriteTimeout: g.cfg.WriteTimeout,
		IdleTimeout:  g.cfg.IdleTimeout,
	}
	log.Printf("[Gateway] listening on %s", g.cfg.Addr())
	return g.server.ListenAndServe()
}

// Shutdown stops the HTTP server gracefully
func (g *Gateway) Shutdown(ctx context.Context) error {
	if g.server == nil {
		return nil
	}
	return g.server.Shutdown(ctx)
}

func (g *Gateway) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, LivenessMessage)
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "channel": string(types.ChannelLINE)}
	if err := g.channel.HealthCheck(); err != nil {
		status["status"] = "degraded"
		status["error"] = err.Error()
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	writeJSON(w, status)
}

// handleWebhook processes one webhook batch. Events are dispatched
// concurrently and joined before responding; per-event model failures are
// absorbed by the dispatcher, anything else fails the whole batch.
func (g *Gateway) handleWebhook(w http.ResponseWriter, r *http.Request) {
	types.LimitBody(w, r)

	events, err := g.channel.ParseRequest(r)
	if err != nil {
		log.Printf("[Gateway] webhook rejected: %v", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	results := make([]Result, len(events))
	errs := make([]error, len(events))

	var wg sync.WaitGroup
	for i, ev := range events {
		if ev.Message == nil {
			results[i] = Result{Action: ActionIgnored}
			continue
		}
		wg.Add(1)
		go func(i int, msg types.InboundMessage) {
			defer wg.Done()
			results[i], errs[i] = g.dispatcher.Dispatch(r.Context(), msg)
		}(i, *ev.Message)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			log.Printf("[Gateway] dispatch failed: %v", err)
			http.Error(w, "dispatch failed", http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, results)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Gateway] write response: %v", err)
	}
}
