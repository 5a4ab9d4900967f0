package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"reflect"
	"strings"
	"syscall"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/aukilabs/idalloc/domains"
	"github.com/aukilabs/idalloc/featureflag"
	idallochttp "github.com/aukilabs/idalloc/http"
	"github.com/aukilabs/idalloc/selftest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
)

var (
	// The idalloc version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "idalloc_info",
		Help:        "Idalloc information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// This will effectively disable obfuscation of the config struct. Without it, the keys would get obfuscated causing the cli package to generate garbled command-line options.
// https://github.com/burrowers/garble/issues/403
var _ = reflect.TypeOf(config{})

type config struct {
	Addr         string   `cli:""        env:"IDALLOC_ADDR"          help:"Listening address for the service endpoints."`
	AdminAddr    string   `cli:""        env:"IDALLOC_ADMIN_ADDR"    help:"Admin listening address."`
	LogLevel     string   `cli:""        env:"IDALLOC_LOG_LEVEL"     help:"Log level (debug|info|warning|error)."`
	LogIndent    bool     `cli:""        env:"IDALLOC_LOG_INDENT"    help:"Indent logs."`
	Domains      []string `cli:""        env:"IDALLOC_DOMAINS"       help:"Comma separated allocation domains to open at start (name:kind)."`
	FeatureFlags []string `cli:",hidden" env:"IDALLOC_FEATURE_FLAGS" help:"Comma separated feature flags"`
	Version      bool     `cli:""        env:"-"                     help:"Show version."`
	Help         bool     `cli:""        env:"-"                     help:"Show help."`
}

func main() {
	conf := config{
		Addr:      ":4100",
		AdminAddr: ":18290",
		LogLevel:  logs.InfoLevel.String(),
		Domains:   []string{"default:reusable"},
	}

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts an idalloc server.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	flags := featureflag.New(conf.FeatureFlags)

	var store domains.Store
	if err := openDomains(&store, conf.Domains); err != nil {
		logs.Fatal(errors.New("opening allocation domains failed").Wrap(err))
	}

	readinessCheck := func() bool {
		return len(store.List()) != 0
	}

	var service http.ServeMux
	service.Handle("/health", idallochttp.HandleWithCORS(http.HandlerFunc(idallochttp.HandleHealthCheck)))
	service.Handle("/ready", idallochttp.HandleWithCORS(http.HandlerFunc(idallochttp.HandleReadyCheck(readinessCheck))))
	service.Handle("/version", idallochttp.HandleWithCORS(http.HandlerFunc(idallochttp.HandleVersion(version))))

	flags.IfNotSet(featureflag.FlagDisableDomainStats, func() {
		service.Handle("/domains", idallochttp.HandleWithCORS(idallochttp.HandleDomainStats(&store)))
	})

	flags.IfNotSet(featureflag.FlagDisableSelfTest, func() {
		service.HandleFunc("/self-test", selftest.Handle(ctx, selftest.Options{
			SendResult: func(ctx context.Context, res selftest.Results) {
				logs.WithTag("passed", res.Passed).
					WithTag("id_count", res.IDCount).
					WithTag("duration", res.Duration).
					Debug("self test completed")
			},
		}))
	})

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", idallochttp.HandleHealthCheck)
	admin.HandleFunc("/ready", idallochttp.HandleReadyCheck(readinessCheck))

	flags.IfNotSet(featureflag.FlagDisablePprof, func() {
		admin.HandleFunc("/debug/pprof/", pprof.Index)
		admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
		admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
		admin.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
		admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))
		admin.Handle("/debug/pprof/threadcreate", pprof.Handler("threadcreate"))
		admin.Handle("/debug/pprof/block", pprof.Handler("block"))
	})

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("domains", len(store.List())).
		WithTag("feature_flags", strings.Join(flags.List(), ",")).
		Info("starting idalloc server")

	idallochttp.ListenAndServe(ctx,
		&http.Server{Addr: conf.Addr, Handler: metrics.HTTPHandler(&service,
			idallochttp.MetricsPathFormatter)},
		&http.Server{Addr: conf.AdminAddr, Handler: &admin},
	)
}

func openDomains(store *domains.Store, specs []string) error {
	for _, spec := range specs {
		name, kindName, ok := strings.Cut(spec, ":")
		if !ok {
			return errors.New("domain is not formatted as name:kind").
				WithTag("domain", spec)
		}

		kind, err := domains.ParseKind(kindName)
		if err != nil {
			return err
		}

		if _, err := store.Open(name, kind); err != nil {
			return err
		}

		logs.WithTag("domain", name).
			WithTag("kind", kind).
			Debug("allocation domain open")
	}
	return nil
}
