// Command eprbridge delays packets from a netfilter queue according to the
// level of a slowly replenished resource pool.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yourusername/eprbridge/api"
	"github.com/yourusername/eprbridge/interceptor"
	"github.com/yourusername/eprbridge/metrics"
	"github.com/yourusername/eprbridge/pkg/eprbridge"
	"github.com/yourusername/eprbridge/store"
)

// command holds everything parsed from the command line
type command struct {
	config        *eprbridge.Config
	configPath    string
	listen        string
	redisAddr     string
	redisPassword string
	debug         bool
}

func main() {
	if err := newRootCommand(&command{config: eprbridge.NewConfig()}).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand binds the command line flags to c
func newRootCommand(c *command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eprbridge",
		Short: "Delay queued packets by the cost of a replenished EPR buffer",
		Long: `eprbridge binds a netfilter queue and returns an accept verdict for every
packet after a delay priced against a resource pool that is refilled
periodically. Route traffic to it with an iptables NFQUEUE rule, e.g.

    iptables -A OUTPUT -j NFQUEUE --queue-num 0`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Flags())
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&c.config.FrameIncrement, "frame-increment", c.config.FrameIncrement, "Units added to the pool per tick")
	flags.Int64Var(&c.config.BufferCapacity, "buffer-capacity", c.config.BufferCapacity, "Maximum units stored in the pool")
	flags.DurationVar(&c.config.ReplenishPeriod, "replenish-period", c.config.ReplenishPeriod, "Time between ticks")
	flags.DurationVar(&c.config.DelayScale, "delay-scale", c.config.DelayScale, "Duration of one delay unit")
	flags.Uint16Var(&c.config.QueueNum, "queue-num", c.config.QueueNum, "Netfilter queue number to bind")
	flags.Uint32Var(&c.config.QueueDepth, "queue-depth", c.config.QueueDepth, "Maximum packets waiting in the queue")
	flags.Int64Var(&c.config.UnitOverhead, "unit-overhead", c.config.UnitOverhead, "Units added to every packet")
	flags.StringVar(&c.config.CostModel, "cost-model", c.config.CostModel, "Pricing function: tiered or legacy")
	flags.StringVar(&c.config.MissedTicks, "missed-ticks", c.config.MissedTicks, "Ticks arriving during a delay: drop or queue")
	flags.StringVar(&c.config.Name, "name", c.config.Name, "Name used for published snapshots")
	flags.StringVarP(&c.configPath, "config", "c", getEnv("EPRBRIDGE_CONFIG", ""), "YAML configuration file")
	flags.StringVar(&c.listen, "listen", getEnv("EPRBRIDGE_LISTEN", "127.0.0.1:8080"), "Status server address (empty to disable)")
	flags.StringVar(&c.redisAddr, "redis-addr", getEnv("REDIS_ADDR", ""), "Publish pool snapshots to this Redis server")
	flags.StringVar(&c.redisPassword, "redis-password", getEnv("REDIS_PASSWORD", ""), "Redis password")
	flags.BoolVar(&c.debug, "debug", false, "Toggle debug mode")
	return cmd
}

func (c *command) run(flags *pflag.FlagSet) error {
	log.SetHandler(cli.New(os.Stderr))
	logmap := map[bool]log.Level{
		true:  log.DebugLevel,
		false: log.InfoLevel,
	}
	log.SetLevel(logmap[c.debug])

	config, err := c.loadConfig(flags)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	tracker := metrics.NewMetricsWithPrometheus(reg)

	opts := []eprbridge.Option{
		eprbridge.WithConfig(config),
		eprbridge.WithLogger(log.Log),
		eprbridge.WithRecorder(tracker),
	}
	if c.redisAddr != "" {
		redisStore := store.NewRedisStore(store.RedisConfig{
			Addr:     c.redisAddr,
			Password: c.redisPassword,
			TTL:      10 * config.ReplenishPeriod,
		})
		defer redisStore.Close()
		if err := redisStore.Ping(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", c.redisAddr, err)
		}
		log.Infof("publishing snapshots to redis at %s", c.redisAddr)
		opts = append(opts, eprbridge.WithStore(redisStore))
	}

	bridge, err := eprbridge.NewBridge(opts...)
	if err != nil {
		return err
	}
	tracker.ObserveLevel(bridge.Pool().Level)

	queue, err := interceptor.OpenNFQueue(interceptor.NFQueueConfig{
		QueueNum:   config.QueueNum,
		QueueDepth: config.QueueDepth,
	})
	if err != nil {
		return fmt.Errorf("queue %d: %w", config.QueueNum, err)
	}
	defer queue.Close()
	log.Infof("bound netfilter queue %d", config.QueueNum)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *http.Server
	if c.listen != "" {
		if srv, err = startStatusServer(c.listen, bridge, tracker, reg); err != nil {
			return err
		}
	}

	err = bridge.Run(ctx, queue)
	log.Infof("bridge stopped, final level %d", bridge.Pool().Level())

	if srv != nil {
		wg := &sync.WaitGroup{}
		wg.Add(1)
		go shutdown(srv, wg)
		wg.Wait()
	}
	return err
}

// loadConfig returns the flag configuration, or the file configuration with
// explicitly set flags applied on top.
func (c *command) loadConfig(flags *pflag.FlagSet) (*eprbridge.Config, error) {
	if c.configPath == "" {
		return c.config, c.config.Validate()
	}

	config, err := eprbridge.LoadConfigFromFile(c.configPath)
	if err != nil {
		return nil, err
	}
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "frame-increment":
			config.FrameIncrement = c.config.FrameIncrement
		case "buffer-capacity":
			config.BufferCapacity = c.config.BufferCapacity
		case "replenish-period":
			config.ReplenishPeriod = c.config.ReplenishPeriod
		case "delay-scale":
			config.DelayScale = c.config.DelayScale
		case "queue-num":
			config.QueueNum = c.config.QueueNum
		case "queue-depth":
			config.QueueDepth = c.config.QueueDepth
		case "unit-overhead":
			config.UnitOverhead = c.config.UnitOverhead
		case "cost-model":
			config.CostModel = c.config.CostModel
		case "missed-ticks":
			config.MissedTicks = c.config.MissedTicks
		case "name":
			config.Name = c.config.Name
		}
	})
	return config, config.Validate()
}

// newStatusServer creates the HTTP server exposing pool status and metrics
func newStatusServer(addr string, bridge *eprbridge.Bridge, tracker *metrics.Metrics, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	api.NewHandler(bridge).Register(mux)
	mux.Handle("/metrics", api.NewMetricsHandler(tracker))
	mux.Handle("/prometheus", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/dashboard", dashboardHandler)
	mux.HandleFunc("/", rootHandler)
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
}

// startStatusServer binds addr and serves the status routes in the background
func startStatusServer(addr string, bridge *eprbridge.Bridge, tracker *metrics.Metrics, reg *prometheus.Registry) (*http.Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := newStatusServer(addr, bridge, tracker, reg)
	log.Infof("serving status at http://%s/dashboard", listener.Addr().String())
	go srv.Serve(listener)
	return srv, nil
}

// shutdown calls srv.Shutdown with a bounded timeout and decrements wg
func shutdown(srv *http.Server, wg *sync.WaitGroup) {
	defer wg.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Warnf("status server shutdown: %s", err.Error())
	}
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"service": "eprbridge",
		"endpoints": map[string]string{
			"GET /status":     "Current pool level and state",
			"POST /estimate":  "Price a packet without consuming the pool",
			"GET /metrics":    "Packet and tick counters (JSON)",
			"GET /prometheus": "Prometheus exposition",
			"GET /dashboard":  "Live dashboard (HTML)",
			"GET /health":     "Health check",
		},
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
