// exporter serves the receiver's counters over HTTP for prometheus.
// It stays disabled unless a port is configured.
package exporter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/netmeasure/udptester/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const pkgName = "PrometheusExporter. "

type Exporter struct {
	port uint16
	reg  *prometheus.Registry
}

func New(port uint16, collector prometheus.Collector) (*Exporter, error) {
	obj := Exporter{
		port: port,
		reg:  prometheus.NewRegistry(),
	}

	err := obj.reg.Register(collector)
	if err != nil {
		return nil, err
	}

	return &obj, nil
}

// Run starts the exposition server and stops it when ctx ends.
func (obj *Exporter) Run(ctx context.Context) {
	handler := promhttp.HandlerFor(obj.reg, promhttp.HandlerOpts{})
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	logger.Debug().Println(pkgName, "exporter starting on port", obj.port)
	srv := http.Server{
		Addr:         fmt.Sprintf(":%d", obj.port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		err := srv.ListenAndServe()
		if err != http.ErrServerClosed {
			logger.Error().Println(pkgName, err)
		}
	}()

	go func() {
		<-ctx.Done()
		logger.Debug().Println(pkgName, "stopping exporter")
		srv.Close()
	}()
}
