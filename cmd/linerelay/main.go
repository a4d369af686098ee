// linerelay bridges LINE webhook events to a generative-language-model
// backend, keeping short-term per-conversation context in memory.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gliderlab/linerelay/agent"
	"github.com/gliderlab/linerelay/gateway"
	"github.com/gliderlab/linerelay/gateway/channels/line"
	"github.com/gliderlab/linerelay/history"
	"github.com/gliderlab/linerelay/pkg/config"
	"github.com/gliderlab/linerelay/pkg/llm/factory"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("Starting linerelay...")

	if err := godotenv.Load(); err != nil {
		log.Printf("[Config] no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Config] %v", err)
	}

	provider, err := factory.New(cfg)
	if err != nil {
		log.Fatalf("[LLM] %v", err)
	}
	log.Printf("[LLM] provider=%s", provider.Name())

	store := history.NewStore(cfg.MaxHistoryTurns)
	ag := agent.New(provider, store, cfg.MaxOutputTokens)

	channel, err := line.NewChannel(cfg.LineChannelSecret, cfg.LineChannelToken)
	if err != nil {
		log.Fatalf("[LINE] %v", err)
	}

	dispatcher := gateway.NewDispatcher(ag, store, channel, cfg.MaxReplyChars)
	gw := gateway.New(cfg, channel, dispatcher)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		s := <-sig
		log.Printf("[Gateway] received %v, shutting down", s)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := gw.Shutdown(ctx); err != nil {
			log.Printf("[Gateway] shutdown: %v", err)
		}
	}()

	if err := gw.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("[Gateway] %v", err)
	}
	log.Println("linerelay stopped")
}
