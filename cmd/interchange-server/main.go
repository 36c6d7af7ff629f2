package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/H0TB0X420/InterchangeDB/pkg/buffer"
	"github.com/H0TB0X420/InterchangeDB/pkg/server"
	"github.com/H0TB0X420/InterchangeDB/pkg/storage"
)

func main() {
	host := flag.String("host", "localhost", "Admin server host address")
	port := flag.Int("port", 8080, "Admin server port")
	dataFile := flag.String("data", "./data/interchange.db", "Path to the database page file")
	poolSize := flag.Int("pool-size", 1000, "Buffer pool size in frames (1 frame = 4KB, default 1000 = ~4MB)")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*dataFile), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create data directory: %v\n", err)
		os.Exit(1)
	}

	diskMgr, err := storage.NewDiskManager(*dataFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}

	pool := buffer.NewBufferPool(*poolSize, diskMgr)

	config := server.DefaultConfig()
	config.Host = *host
	config.Port = *port
	srv := server.New(config, pool)

	// Flush and close cleanly on SIGINT/SIGTERM.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		fmt.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	fmt.Printf("InterchangeDB admin server on %s:%d (pool %d frames, file %s)\n",
		*host, *port, *poolSize, *dataFile)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}

	if err := pool.FlushAllPages(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to flush pool: %v\n", err)
	}
	if err := diskMgr.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v\n", err)
		os.Exit(1)
	}
}
