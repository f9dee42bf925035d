// Command tpool sums 1..total on a worker pool by splitting the range into
// chunks, one task per chunk, and optionally serves the pool's Prometheus
// metrics until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	wp "github.com/Andrej220/go-utils/tpool"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tpool:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "", "YAML file with pool options")
		workers     = flag.Int("workers", 0, "worker count (overrides config; 0 = one per CPU)")
		total       = flag.Int("total", 10000, "sum integers 1..total")
		chunks      = flag.Int("chunks", 10, "number of tasks to split the range into")
		metricsAddr = flag.String("metrics", "", "serve /metrics on this address and wait for a signal")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := wp.Options{}
	if *configPath != "" {
		var err error
		if opts, err = wp.LoadOptions(*configPath); err != nil {
			return err
		}
	}
	if *workers > 0 {
		opts.Workers = *workers
	}
	opts.FillDefaults()
	opts.Ctx = ctx

	reg := prometheus.NewRegistry()
	opts.Metrics = wp.NewPrometheusMetrics(reg, "tpool", opts.Name)

	p, err := wp.New(opts)
	if err != nil {
		return err
	}
	defer p.Close()

	sum, err := parallelSum(p, *total, *chunks)
	if err != nil {
		return err
	}
	lg.FromContext(ctx).Info("Sum computed",
		lg.String("pool", p.Name()),
		lg.Int("total", *total),
		lg.Int("chunks", *chunks),
		lg.Int("workers", p.ThreadCount()),
		lg.Any("sum", sum),
	)
	fmt.Println(sum)

	if *metricsAddr == "" {
		return nil
	}
	return serveMetrics(ctx, *metricsAddr, reg)
}

// parallelSum submits one summation task per chunk of 1..total and adds
// up the partial results.
func parallelSum(p *wp.Pool, total, chunks int) (int64, error) {
	if chunks <= 0 {
		return 0, errors.New("chunks must be positive")
	}
	size := (total + chunks - 1) / chunks

	futures := make([]*wp.Future[int64], 0, chunks)
	for lo := 1; lo <= total; lo += size {
		hi := min(lo+size-1, total)
		futures = append(futures, wp.Submit2(p, sumRange, lo, hi))
	}

	partial := make([]int64, len(futures))
	var g errgroup.Group
	for i, f := range futures {
		g.Go(func() error {
			v, err := f.Get()
			partial[i] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var sum int64
	for _, v := range partial {
		sum += v
	}
	return sum, nil
}

func sumRange(lo, hi int) (int64, error) {
	var s int64
	for i := lo; i <= hi; i++ {
		s += int64(i)
	}
	return s, nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	lg.FromContext(ctx).Info("Serving metrics", lg.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
