package api

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName         = "github.com/Vishalsongara77/Task-App/api"
	tasksSpanName      = "tasks.request"
	tasksEventName     = "tasks.request.completed"
	tasksEventDomain   = "tasky.api"
	observabilityEvent = "observability.event"
)

// taskRequestMetrics collects timings for one API request and reports them as
// a span plus a structured log entry.
type taskRequestMetrics struct {
	logger        *log.Logger
	span          trace.Span
	start         time.Time
	route         string
	operation     string
	taskID        string
	storeDuration time.Duration
	tasksReturned int
	hasCount      bool
	errorStage    string
}

func newTaskRequestMetrics(ctx context.Context, logger *log.Logger, route, operation string) (*taskRequestMetrics, context.Context) {
	spanCtx, span := otel.Tracer(tracerName).Start(ctx, tasksSpanName,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.route", route),
			attribute.String("tasky.operation", operation),
		),
	)
	return &taskRequestMetrics{
		logger:    logger,
		span:      span,
		start:     time.Now(),
		route:     route,
		operation: operation,
	}, spanCtx
}

func (m *taskRequestMetrics) ObserveStore(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.storeDuration = duration
}

func (m *taskRequestMetrics) SetTaskID(id string) {
	m.taskID = id
}

func (m *taskRequestMetrics) SetTasksReturned(count int) {
	if count < 0 {
		count = 0
	}
	m.tasksReturned = count
	m.hasCount = true
}

func (m *taskRequestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

func (m *taskRequestMetrics) attributes(status int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("http.route", m.route),
		attribute.String("tasky.operation", m.operation),
		attribute.Int("http.status_code", status),
		attribute.Float64("tasky.total_ms", durationToMillis(time.Since(m.start))),
	}
	if m.storeDuration > 0 {
		attrs = append(attrs, attribute.Float64("tasky.store_ms", durationToMillis(m.storeDuration)))
	}
	if m.taskID != "" {
		attrs = append(attrs, attribute.String("tasky.task_id", m.taskID))
	}
	if m.hasCount {
		attrs = append(attrs, attribute.Int("tasky.tasks_returned", m.tasksReturned))
	}
	if m.errorStage != "" {
		attrs = append(attrs, attribute.String("tasky.error_stage", m.errorStage))
	}
	return attrs
}

// Log ends the request span and writes the observability event.
func (m *taskRequestMetrics) Log(status int, err error) {
	if m == nil {
		return
	}

	attrs := m.attributes(status)
	severityText, severityNumber := severityForStatus(status, err)

	eventAttrs := append([]attribute.KeyValue{
		attribute.String("event.name", tasksEventName),
		attribute.String("event.domain", tasksEventDomain),
		attribute.String("severity_text", severityText),
		attribute.Int("severity_number", severityNumber),
	}, attrs...)
	if err != nil {
		eventAttrs = append(eventAttrs, attribute.String("error.message", err.Error()))
	}

	if m.span != nil {
		m.span.SetAttributes(attrs...)
		m.span.AddEvent(observabilityEvent, trace.WithAttributes(eventAttrs...))
		if severityText == "ERROR" {
			desc := http.StatusText(status)
			if err != nil {
				desc = err.Error()
				m.span.RecordError(err)
			}
			m.span.SetStatus(codes.Error, desc)
		} else {
			m.span.SetStatus(codes.Ok, "")
		}
		m.span.End()
	}

	if m.logger == nil {
		return
	}
	fields := log.Fields{
		"event.name":      tasksEventName,
		"event.domain":    tasksEventDomain,
		"severity_text":   severityText,
		"severity_number": severityNumber,
		"attributes":      attributesToMap(attrs),
	}
	if m.span != nil {
		if sc := m.span.SpanContext(); sc.IsValid() {
			fields["trace_id"] = sc.TraceID().String()
			fields["span_id"] = sc.SpanID().String()
		}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	m.logger.WithFields(fields).Log(levelForSeverity(severityText), observabilityEvent)
}

// severityForStatus follows the OpenTelemetry log severity numbers.
func severityForStatus(status int, err error) (string, int) {
	switch {
	case status >= http.StatusInternalServerError:
		return "ERROR", 17
	case status >= http.StatusBadRequest:
		return "WARN", 13
	case err != nil:
		return "ERROR", 17
	default:
		return "INFO", 9
	}
}

func levelForSeverity(text string) log.Level {
	switch text {
	case "ERROR":
		return log.ErrorLevel
	case "WARN":
		return log.WarnLevel
	default:
		return log.InfoLevel
	}
}

func attributesToMap(attrs []attribute.KeyValue) map[string]any {
	out := make(map[string]any, len(attrs))
	for _, kv := range attrs {
		out[string(kv.Key)] = kv.Value.AsInterface()
	}
	return out
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
