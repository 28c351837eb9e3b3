package app

import (
	"context"
	"net/http"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xenking/product-desk/internal/console"
	"github.com/xenking/product-desk/internal/domain/product"
	"github.com/xenking/product-desk/internal/facade"
	"github.com/xenking/product-desk/internal/notify"
	"github.com/xenking/product-desk/internal/restclient"
	"github.com/xenking/product-desk/internal/store"
	"github.com/xenking/product-desk/pkg/health"
)

// consoleNav forwards navigation to the console once it exists. The facade is
// constructed before the console, so the target is assigned afterwards.
type consoleNav struct {
	target facade.Navigator
}

func (n *consoleNav) ToList() {
	if n.target != nil {
		n.target.ToList()
	}
}

func (n *consoleNav) ToCreate() {
	if n.target != nil {
		n.target.ToCreate()
	}
}

func (n *consoleNav) ToEdit(p product.Product) {
	if n.target != nil {
		n.target.ToEdit(p)
	}
}

// Run creates all dependencies and drives the interactive console until it
// exits or the context is cancelled. It is the single wiring point for the
// client.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("api", cfg.APIBaseURL))

	httpc := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
		Timeout: cfg.RequestTimeout,
	}
	client := restclient.NewClient(cfg.APIBaseURL,
		restclient.WithHTTPClient(httpc),
		restclient.WithLogger(lg.Named("restclient")),
	)

	productStore := store.New(client, store.WithLogger(lg.Named("store")))
	listView := store.NewListView(productStore)
	listView.UpdatePageSize(cfg.PageSize)

	center := notify.NewCenter(notify.WithTTL(cfg.ToastTTL))
	defer center.Close()

	nav := &consoleNav{}
	productFacade := facade.New(productStore, listView, center, nav, client,
		facade.WithSearchDebounce(cfg.SearchDebounce),
		facade.WithLogger(lg.Named("facade")),
	)
	defer productFacade.Close()

	var monitor *health.Monitor
	if cfg.Health.Enabled {
		monitor = health.NewMonitor(
			reachabilityProbe(httpc, cfg.APIBaseURL),
			health.WithInterval(cfg.Health.Interval),
			health.WithTimeout(cfg.Health.Timeout),
		)
		monitor.Start(ctx)
		defer monitor.Stop()
	}

	ui := console.New(productFacade, center, monitor, client.Exists, os.Stdin, os.Stdout, lg.Named("console"))
	nav.target = ui

	lg.Info("Console ready")
	if err := ui.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "console")
	}
	return nil
}

// reachabilityProbe issues a lightweight request against the products listing
// to confirm the backend is reachable. Any HTTP status counts as reachable;
// only transport-level failures do not.
func reachabilityProbe(httpc *http.Client, baseURL string) health.ProbeFunc {
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, baseURL+"/products", nil)
		if err != nil {
			return errors.Wrap(err, "build probe request")
		}
		resp, err := httpc.Do(req)
		if err != nil {
			return errors.Wrap(err, "probe backend")
		}
		return resp.Body.Close()
	}
}
