package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"deck-align-be/pkg/events"
	pkgNats "deck-align-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Tails the JetStream event stream so operators can watch alignment
// lifecycle events (ALIGNMENT_COMPLETED, ALIGNMENT_FAILED, DECK_INGESTED)
// without attaching a full consumer service.
func main() {
	subject := flag.String("subject", "events.>", "Subject filter to tail")
	durable := flag.String("durable", "tail-events-cli", "Durable consumer name")
	flag.Parse()

	godotenv.Load()

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	sub, err := pkgNats.NewSubscriber(natsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS at %s: %v", natsURL, err)
	}
	defer sub.Close()

	err = sub.Subscribe(*subject, *durable, func(ctx context.Context, event events.Event) error {
		data, _ := json.MarshalIndent(event.Payload(), "", "  ")
		color.Cyan("[%s] %s", event.Timestamp().Format("15:04:05"), event.EventType())
		color.White("%s", string(data))
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	color.Green("Tailing %s (durable: %s). Ctrl+C to stop.", *subject, *durable)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
