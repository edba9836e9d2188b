package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/veritas/internal/config"
)

func main() {
	metricsAddr := flag.String("metrics-addr", ":9091", "Listen address for /metrics and /healthz")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	w, err := NewWorker(cfg, *metricsAddr)
	if err != nil {
		log.Fatal("worker init failed:", err)
	}

	if err := w.Start(); err != nil {
		log.Fatal("worker start failed:", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := w.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		log.Fatal("shutdown failed:", err)
	}
}
