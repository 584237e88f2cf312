package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/numbleroot/lwwset/config"
	"github.com/numbleroot/lwwset/replica"
	"github.com/numbleroot/lwwset/simulation"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Functions

// initLogger initializes a JSON gokit-logger set
// to the according log level supplied via cli flag.
func initLogger(loglevel string) log.Logger {

	logger := log.NewJSONLogger(log.NewSyncWriter(os.Stdout))
	logger = log.With(logger,
		"ts", log.DefaultTimestampUTC,
		"caller", log.DefaultCaller,
	)

	switch strings.ToLower(loglevel) {
	case "info":
		logger = level.NewFilter(logger, level.AllowInfo())
	case "warn":
		logger = level.NewFilter(logger, level.AllowWarn())
	case "error":
		logger = level.NewFilter(logger, level.AllowError())
	default:
		logger = level.NewFilter(logger, level.AllowDebug())
	}

	return logger
}

// runScenario executes the scenario defined in conf
// with every replica decorated by metrics and logging
// middleware, and checks the expected outcome.
func runScenario(ctx context.Context, logger log.Logger, conf *config.Config, m *replica.Metrics) (*simulation.Result, error) {

	plan, err := conf.Scenario.Plan()
	if err != nil {
		return nil, err
	}

	res, err := simulation.Run(ctx, logger, plan, func(name string) replica.Service[string] {

		var s replica.Service[string]
		s = replica.NewService[string](name, nil)
		s = replica.NewMetricsService(s, m)
		s = replica.NewLoggingService(s, logger)

		return s
	})
	if err != nil {
		return nil, err
	}

	return res, res.Check(conf.Scenario.Expectation())
}

func main() {

	// Set CPUs usable to all available.
	runtime.GOMAXPROCS(runtime.NumCPU())

	// Parse command-line flags.
	configFlag := flag.String("config", "config.toml", "Provide path to configuration file in TOML syntax.")
	envFlag := flag.String("env", ".env", "Provide path to an optional .env file overriding values of the configuration file.")
	loglevelFlag := flag.String("loglevel", "", "This flag overrides the logging level of the configuration file.")
	holdFlag := flag.Duration("hold", 0, "Keep exposing prometheus metrics for this long after the scenario finished.")
	flag.Parse()

	// Read configuration from file.
	conf, err := config.LoadConfig(*configFlag)
	if err != nil {
		level.Error(initLogger("")).Log(
			"msg", "failed to load the config", "err", err,
		)
		os.Exit(1)
	}

	// Apply host specific overrides.
	env, err := config.LoadEnv(*envFlag)
	if err != nil {
		level.Error(initLogger(conf.LogLevel)).Log(
			"msg", "failed to load environment overrides", "err", err,
		)
		os.Exit(2)
	}
	env.Apply(conf)

	if *loglevelFlag != "" {
		conf.LogLevel = *loglevelFlag
	}

	logger := initLogger(conf.LogLevel)

	go runPromHTTP(logger, conf.PrometheusAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := runScenario(ctx, logger, conf, newMetrics(conf.PrometheusAddr, prom.DefaultRegisterer))
	if res == nil {
		level.Error(logger).Log(
			"msg", "failed to run scenario",
			"err", err,
		)
		os.Exit(3)
	}

	level.Debug(logger).Log(
		"msg", "final state of sink",
		"sink", res.Sink.ID(),
		"members", strings.Join(res.Members, ","),
	)

	if *holdFlag > 0 && conf.PrometheusAddr != "" {

		select {
		case <-ctx.Done():
		case <-time.After(*holdFlag):
		}
	}

	if err != nil {
		level.Error(logger).Log(
			"msg", "scenario outcome does not match expectation",
			"err", err,
		)
		os.Exit(4)
	}

	level.Info(logger).Log("msg", "scenario outcome matches expectation")
}
