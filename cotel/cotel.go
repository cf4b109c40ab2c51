package cotel

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/chenjie199234/Dictionary/internal/version"
	"github.com/chenjie199234/Dictionary/util/host"
	"github.com/chenjie199234/Dictionary/util/name"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	oprometheus "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	otrace "go.opentelemetry.io/otel/trace"
)

var needmetric bool
var promRegister *prometheus.Registry

func getenv(key string) string {
	str := strings.TrimSpace(os.Getenv(key))
	if str == "<"+key+">" {
		return ""
	}
	return str
}

// Init sets the global otel tracer and meter provider from os env
// TRACE: ""(default,no sample),log,otlphttp,otlpgrpc,zipkin
// METRIC: ""(default,no metric),log,otlphttp,otlpgrpc,prometheus
func Init() error {
	if e := name.HasSelfFullName(); e != nil {
		return e
	}
	traceenv := strings.ToLower(getenv("TRACE"))
	if traceenv != "" && traceenv != "log" && traceenv != "otlphttp" && traceenv != "otlpgrpc" && traceenv != "zipkin" {
		panic("[cotel] os env TRACE error,must in [\"\",\"log\",\"otlphttp\",\"otlpgrpc\",\"zipkin\"]")
	}
	metricenv := strings.ToLower(getenv("METRIC"))
	if metricenv != "" && metricenv != "log" && metricenv != "otlphttp" && metricenv != "otlpgrpc" && metricenv != "prometheus" {
		panic("[cotel] os env METRIC error,must in [\"\",\"log\",\"otlphttp\",\"otlpgrpc\",\"prometheus\"]")
	}
	resources := resource.NewSchemaless(
		attribute.String("service.name", name.GetSelfFullName()),
		attribute.String("service.version", version.String()),
		attribute.String("host.id", host.Hostname),
		attribute.String("host.ip", host.Hostip))
	//trace
	otel.SetTextMapPropagator(propagation.TraceContext{})
	topts := make([]trace.TracerProviderOption, 0, 3)
	topts = append(topts, trace.WithResource(resources))
	if traceenv != "" {
		topts = append(topts, trace.WithSampler(trace.AlwaysSample()))
	} else {
		topts = append(topts, trace.WithSampler(trace.NeverSample()))
	}
	switch traceenv {
	case "log":
		topts = append(topts, trace.WithSyncer(&slogTraceExporter{}))
	case "otlphttp":
		checkotlp("TRACES")
		exporter, e := otlptrace.New(context.Background(), otlptracehttp.NewClient())
		if e != nil {
			panic("[cotel] os env OTEL_EXPORTER_OTLP_TRACES_ENDPOINT or OTEL_EXPORTER_OTLP_ENDPOINT error,when os env TRACE is otlphttp")
		}
		topts = append(topts, trace.WithBatcher(exporter))
	case "otlpgrpc":
		checkotlp("TRACES")
		exporter, e := otlptrace.New(context.Background(), otlptracegrpc.NewClient())
		if e != nil {
			panic("[cotel] os env OTEL_EXPORTER_OTLP_TRACES_ENDPOINT or OTEL_EXPORTER_OTLP_ENDPOINT error,when os env TRACE is otlpgrpc")
		}
		topts = append(topts, trace.WithBatcher(exporter))
	case "zipkin":
		str := getenv("ZIPKIN_URL")
		if str == "" {
			panic("[cotel] os env ZIPKIN_URL missing,when os env TRACE is zipkin")
		}
		exporter, e := zipkin.New(str, zipkin.WithLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo)))
		if e != nil {
			panic("[cotel] os env ZIPKIN_URL error,when os env TRACE is zipkin")
		}
		topts = append(topts, trace.WithBatcher(exporter))
	}
	otel.SetTracerProvider(trace.NewTracerProvider(topts...))
	//metric
	mopts := make([]metric.Option, 0, 2)
	mopts = append(mopts, metric.WithResource(resources))
	switch metricenv {
	case "log":
		mopts = append(mopts, metric.WithReader(metric.NewPeriodicReader(&slogMetricExporter{})))
		needmetric = true
	case "otlphttp":
		checkotlp("METRICS")
		exporter, e := otlpmetrichttp.New(context.Background())
		if e != nil {
			panic("[cotel] os env OTEL_EXPORTER_OTLP_METRICS_ENDPOINT or OTEL_EXPORTER_OTLP_ENDPOINT error,when os env METRIC is otlphttp")
		}
		mopts = append(mopts, metric.WithReader(metric.NewPeriodicReader(exporter)))
		needmetric = true
	case "otlpgrpc":
		checkotlp("METRICS")
		exporter, e := otlpmetricgrpc.New(context.Background())
		if e != nil {
			panic("[cotel] os env OTEL_EXPORTER_OTLP_METRICS_ENDPOINT or OTEL_EXPORTER_OTLP_ENDPOINT error,when os env METRIC is otlpgrpc")
		}
		mopts = append(mopts, metric.WithReader(metric.NewPeriodicReader(exporter)))
		needmetric = true
	case "prometheus":
		promRegister = prometheus.NewRegistry()
		exporter, e := oprometheus.New(oprometheus.WithoutUnits(), oprometheus.WithRegisterer(promRegister), oprometheus.WithoutCounterSuffixes())
		if e != nil {
			return e
		}
		mopts = append(mopts, metric.WithReader(exporter))
		needmetric = true
	}
	if needmetric {
		otel.SetMeterProvider(metric.NewMeterProvider(mopts...))
		if e := startHost(); e != nil {
			return e
		}
	}
	return nil
}

// kind: TRACES or METRICS
func checkotlp(kind string) {
	if getenv("OTEL_EXPORTER_OTLP_"+kind+"_ENDPOINT") == "" && getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		panic("[cotel] os env OTEL_EXPORTER_OTLP_" + kind + "_ENDPOINT or OTEL_EXPORTER_OTLP_ENDPOINT missing")
	}
}

func Stop() {
	stopHost()
	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		if tp, ok := otel.GetTracerProvider().(*trace.TracerProvider); ok {
			tp.Shutdown(context.Background())
		}
		wg.Done()
	}()
	go func() {
		if mp, ok := otel.GetMeterProvider().(*metric.MeterProvider); ok && needmetric {
			mp.Shutdown(context.Background())
		}
		wg.Done()
	}()
	wg.Wait()
}

func NeedMetric() bool {
	return needmetric
}

// GetPrometheusHandler returns nil when os env METRIC is not prometheus
func GetPrometheusHandler() http.Handler {
	if promRegister == nil {
		return nil
	}
	return promhttp.HandlerFor(promRegister, promhttp.HandlerOpts{ErrorLog: slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo)})
}

func TraceIDFromContext(ctx context.Context) string {
	span := otrace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

type slogTraceExporter struct {
	stopped atomic.Bool
}

func (s *slogTraceExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	if s.stopped.Load() {
		return nil
	}
	if len(spans) == 0 {
		return nil
	}
	stubs := tracetest.SpanStubsFromReadOnlySpans(spans)
	for _, stub := range stubs {
		slog.Info("trace",
			slog.String("Name", stub.Name),
			slog.Any("SpanContext", stub.SpanContext),
			slog.Any("Parent", stub.Parent),
			slog.Int("SpanKind", int(stub.SpanKind)),
			slog.Time("StartTime", stub.StartTime),
			slog.Time("EndTime", stub.EndTime),
			slog.Any("Attributes", stub.Attributes),
			slog.Any("Status", stub.Status))
	}
	return nil
}

func (s *slogTraceExporter) Shutdown(ctx context.Context) error {
	s.stopped.Store(true)
	return nil
}

type slogMetricExporter struct {
	stopped atomic.Bool
}

func (s *slogMetricExporter) Temporality(p metric.InstrumentKind) metricdata.Temporality {
	return metric.DefaultTemporalitySelector(p)
}
func (s *slogMetricExporter) Aggregation(p metric.InstrumentKind) metric.Aggregation {
	return metric.DefaultAggregationSelector(p)
}
func (s *slogMetricExporter) Export(ctx context.Context, metrics *metricdata.ResourceMetrics) error {
	if s.stopped.Load() {
		return nil
	}
	attrs := make([]any, 0, 10)
	attrs = append(attrs, slog.Any("Resource", metrics.Resource))
	for _, m := range metrics.ScopeMetrics {
		gattrs := make([]any, 0, len(m.Metrics))
		for _, mm := range m.Metrics {
			gattrs = append(gattrs, slog.Any(mm.Name+"("+mm.Unit+")", mm.Data))
		}
		attrs = append(attrs, slog.Group(m.Scope.Name, gattrs...))
	}
	slog.Info("metric", attrs...)
	return nil
}
func (s *slogMetricExporter) ForceFlush(context.Context) error {
	return nil
}
func (s *slogMetricExporter) Shutdown(context.Context) error {
	s.stopped.Store(true)
	return nil
}
