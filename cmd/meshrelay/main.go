// Command meshrelay serves a simulated mesh over websocket: a full snapshot
// on connect, then one update per interval.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"meshview/internal/feed"
	"meshview/internal/mesh"
)

var config = struct {
	Address  string
	Port     int
	DataPath string
	Size     int
	Sleep    time.Duration
}{
	Address: "127.0.0.1",
	Port:    8081,
	Size:    feed.DefaultSimSize,
	Sleep:   feed.DefaultSimInterval,
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func main() {
	flag.StringVar(&config.Address, "address", config.Address, "IP address to bind to")
	flag.IntVar(&config.Port, "port", config.Port, "Port number to serve on")
	flag.StringVar(&config.DataPath, "datapath", config.DataPath, "Snapshot file to serve instead of the braid mesh")
	flag.IntVar(&config.Size, "size", config.Size, "Nodes per side of the braid mesh")
	flag.DurationVar(&config.Sleep, "sleep-between-updates", config.Sleep, "Time between updates")
	flag.Parse()

	if err := validateConfig(); err != nil {
		log.Fatal(err)
	}

	var initial *mesh.Load
	if config.DataPath != "" {
		l, err := feed.ReadFile(config.DataPath)
		if err != nil {
			log.Fatal(err)
		}
		initial = l
	} else {
		initial = feed.Braid(config.Size)
	}
	// Fail at startup rather than on the first connection.
	if _, err := feed.NewSimulator(initial); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/websocket", func(w http.ResponseWriter, r *http.Request) {
		serveMesh(ctx, w, r, initial)
	})
	srv := &http.Server{
		Addr:    net.JoinHostPort(config.Address, strconv.Itoa(config.Port)),
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	log.Printf("serving on ws://%s/websocket", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func validateConfig() error {
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("-port must be in [1,65535]")
	}
	if config.Size < 2 {
		return fmt.Errorf("-size must be >= 2")
	}
	if config.Sleep <= 0 {
		return fmt.Errorf("-sleep-between-updates must be > 0")
	}
	return nil
}

// serveMesh runs one simulation per connection so every client sees a
// consistent snapshot followed by its own updates.
func serveMesh(ctx context.Context, w http.ResponseWriter, r *http.Request, initial *mesh.Load) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade: %v", err)
		return
	}
	defer c.Close()
	log.Printf("client %s connected", r.RemoteAddr)

	sim, err := feed.NewSimulator(initial)
	if err != nil {
		log.Printf("simulator: %v", err)
		return
	}
	sim.Interval = config.Sleep

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	// Drain control frames; a read error means the client went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.NextReader(); err != nil {
				return
			}
		}
	}()

	err = sim.Run(ctx, func(msg feed.Message) {
		if msg.Err != nil {
			log.Printf("simulate: %v", msg.Err)
			return
		}
		data, err := feed.Encode(msg)
		if err != nil {
			log.Printf("encode: %v", err)
			return
		}
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("write to %s: %v", r.RemoteAddr, err)
			cancel()
		}
	})
	log.Printf("client %s disconnected: %v", r.RemoteAddr, err)
}
