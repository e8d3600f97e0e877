package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"

	wrpcd "github.com/wrpcd/wrpcd"
	"github.com/wrpcd/wrpcd/config"
	"github.com/wrpcd/wrpcd/log"
	"github.com/wrpcd/wrpcd/pkg/netaddr"
	"github.com/wrpcd/wrpcd/rpc"
)

const appName = "wrpcd"

var (
	configFileFlag = cli.StringFlag{
		Name:     config.FlagCfg,
		Aliases:  []string{"c"},
		Usage:    "Configuration `FILE`",
		Required: false,
	}
	networkFlag = cli.StringFlag{
		Name:  config.FlagNetwork,
		Usage: "Network `TYPE`: mainnet, testnet, simnet or devnet",
	}
	rpcListenBorshFlag = cli.StringFlag{
		Name:  config.FlagRPCListenBorsh,
		Usage: "wRPC Borsh listen `ADDRESS`: default, public or ip[:port]",
	}
	rpcListenJSONFlag = cli.StringFlag{
		Name:  config.FlagRPCListenJSON,
		Usage: "wRPC JSON listen `ADDRESS`: default, public or ip[:port]",
	}

	flags = []cli.Flag{&configFileFlag, &networkFlag, &rpcListenBorshFlag, &rpcListenJSONFlag}
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Version = wrpcd.Version
	app.Commands = []*cli.Command{
		{
			Name:   "resolve",
			Usage:  "Print the resolved wRPC listen addresses",
			Action: resolve,
			Flags:  flags,
		},
		{
			Name:   "run",
			Usage:  fmt.Sprintf("Run the %v", appName),
			Action: start,
			Flags:  flags,
		},
	}

	return app
}

func resolve(cliCtx *cli.Context) error {
	c, err := config.Load(cliCtx)
	if err != nil {
		return err
	}

	if err := log.Init(c.Log); err != nil {
		return err
	}

	listeners := rpc.NewListeners(log.WithFields("module", "listeners"), c).Resolve(cliCtx.Context)
	if len(listeners) == 0 {
		return errors.New("no wrpc listener configured")
	}

	w := tabwriter.NewWriter(cliCtx.App.Writer, 0, 0, 2, ' ', 0) //nolint:gomnd
	fmt.Fprintln(w, "ENCODING\tCONFIGURED\tADDRESS")
	for _, l := range listeners {
		fmt.Fprintf(w, "%s\t%s\t%s\n", l.Encoding, l.Configured, l.Address)
	}

	return w.Flush()
}

func start(cliCtx *cli.Context) error {
	c, err := config.Load(cliCtx)
	if err != nil {
		return err
	}

	if err := log.Init(c.Log); err != nil {
		return err
	}

	// Create opentelemetry metric provider
	metricProvider, err := createMetricProvider()
	if err != nil {
		return err
	}
	otel.SetMeterProvider(metricProvider)

	listeners := rpc.NewListeners(log.WithFields("module", "listeners"), c).Resolve(cliCtx.Context)
	if len(listeners) == 0 {
		log.Warn("no wrpc listener configured")
	}

	// Run prometheus server
	closePrometheus, err := runPrometheusServer(c)
	if err != nil {
		return err
	}

	// Stop services
	waitSignal([]context.CancelFunc{
		closePrometheus,
		func() {
			if err := metricProvider.Shutdown(cliCtx.Context); err != nil {
				log.Error(err)
			}
		},
	})

	return nil
}

func createMetricProvider() (*metric.MeterProvider, error) {
	// The exporter embeds a default OpenTelemetry Reader and
	// implements prometheus.Collector, allowing it to be used as
	// both a Reader and Collector.
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}

	return metric.NewMeterProvider(metric.WithReader(exporter)), nil
}

// newPrometheusServer returns nil when no telemetry address is configured
func newPrometheusServer(c *config.Config) (*http.Server, error) {
	if c.Telemetry.PrometheusAddr == "" {
		return nil, nil
	}

	addr, err := netaddr.ResolveAddr(c.Telemetry.PrometheusAddr, netaddr.AllInterfacesBinding)
	if err != nil {
		return nil, fmt.Errorf("invalid Telemetry.PrometheusAddr: %w", err)
	}

	return &http.Server{
		Addr:              addr.TCPAddr().String(),
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 60 * time.Second, //nolint:gomnd
	}, nil
}

func runPrometheusServer(c *config.Config) (func(), error) {
	srv, err := newPrometheusServer(c)
	if err != nil || srv == nil {
		return nil, err
	}

	log.Infof("prometheus server started: %s", srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("prometheus HTTP server ListenAndServe: %v", err)
			}
		}
	}()

	return func() {
		if err := srv.Close(); err != nil {
			log.Errorf("prometheus HTTP server closing failed: %v", err)
		}
	}, nil
}

func waitSignal(cancelFuncs []context.CancelFunc) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)

	for sig := range signals {
		if sig == os.Interrupt {
			log.Info("terminating application gracefully...")

			for _, cancel := range cancelFuncs {
				if cancel != nil {
					cancel()
				}
			}
			os.Exit(0)
		}
	}
}
