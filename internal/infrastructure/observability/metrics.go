package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics.
type Metrics struct {
	meter metric.Meter

	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPRequestsActive  metric.Int64UpDownCounter

	// Ticket metrics
	TicketActionsTotal       metric.Int64Counter
	TicketActionDuration     metric.Float64Histogram
	ChannelDeleteErrorsTotal metric.Int64Counter

	// Notification metrics
	NotificationsSentTotal  metric.Int64Counter
	NotificationErrorsTotal metric.Int64Counter

	// Gateway metrics
	GatewayEventsTotal          metric.Int64Counter
	GatewayConnectAttemptsTotal metric.Int64Counter
	CollectorWindowsActive      metric.Int64UpDownCounter
	BreakerTransitionsTotal     metric.Int64Counter
}

// NewMetrics creates and registers all application metrics.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{meter: meter}

	var err error

	// HTTP metrics
	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http.server.requests.total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_requests_total: %w", err)
	}

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_request_duration: %w", err)
	}

	m.HTTPRequestsActive, err = meter.Int64UpDownCounter(
		"http.server.requests.active",
		metric.WithDescription("Number of active HTTP requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_requests_active: %w", err)
	}

	// Ticket metrics
	m.TicketActionsTotal, err = meter.Int64Counter(
		"tickets.actions.total",
		metric.WithDescription("Total number of ticket actions handled, by action and outcome"),
		metric.WithUnit("{actions}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tickets_actions_total: %w", err)
	}

	m.TicketActionDuration, err = meter.Float64Histogram(
		"tickets.action.duration",
		metric.WithDescription("Ticket action handling duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tickets_action_duration: %w", err)
	}

	m.ChannelDeleteErrorsTotal, err = meter.Int64Counter(
		"tickets.channel_delete.errors.total",
		metric.WithDescription("Total number of failed ticket channel deletions"),
		metric.WithUnit("{errors}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating channel_delete_errors_total: %w", err)
	}

	// Notification metrics
	m.NotificationsSentTotal, err = meter.Int64Counter(
		"notifications.sent.total",
		metric.WithDescription("Total number of staff notifications sent"),
		metric.WithUnit("{notifications}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating notifications_sent_total: %w", err)
	}

	m.NotificationErrorsTotal, err = meter.Int64Counter(
		"notifications.errors.total",
		metric.WithDescription("Total number of staff notification errors"),
		metric.WithUnit("{errors}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating notification_errors_total: %w", err)
	}

	// Gateway metrics
	m.GatewayEventsTotal, err = meter.Int64Counter(
		"gateway.events.total",
		metric.WithDescription("Total number of gateway events received, by type and outcome"),
		metric.WithUnit("{events}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gateway_events_total: %w", err)
	}

	m.GatewayConnectAttemptsTotal, err = meter.Int64Counter(
		"gateway.connect.attempts.total",
		metric.WithDescription("Total number of gateway connection attempts"),
		metric.WithUnit("{attempts}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gateway_connect_attempts_total: %w", err)
	}

	m.CollectorWindowsActive, err = meter.Int64UpDownCounter(
		"gateway.collector.windows.active",
		metric.WithDescription("Number of open message collection windows"),
		metric.WithUnit("{windows}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating collector_windows_active: %w", err)
	}

	m.BreakerTransitionsTotal, err = meter.Int64Counter(
		"resilience.breaker.transitions.total",
		metric.WithDescription("Total number of circuit breaker state transitions"),
		metric.WithUnit("{transitions}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating breaker_transitions_total: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// AddActiveRequests moves the in-flight HTTP request count by delta.
func (m *Metrics) AddActiveRequests(ctx context.Context, delta int64) {
	m.HTTPRequestsActive.Add(ctx, delta)
}

// RecordTicketAction records one handled ticket action.
func (m *Metrics) RecordTicketAction(ctx context.Context, action, outcome string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	}

	m.TicketActionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.TicketActionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordChannelDeleteError counts a ticket channel that could not be deleted.
func (m *Metrics) RecordChannelDeleteError(ctx context.Context) {
	m.ChannelDeleteErrorsTotal.Add(ctx, 1)
}

// RecordNotification records a staff notification attempt.
func (m *Metrics) RecordNotification(ctx context.Context, notifier string, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("notifier", notifier),
		attribute.Bool("success", success),
	}

	m.NotificationsSentTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	if !success {
		m.NotificationErrorsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordGatewayEvent records one inbound gateway event.
func (m *Metrics) RecordGatewayEvent(ctx context.Context, eventType, outcome string) {
	m.GatewayEventsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", eventType),
		attribute.String("outcome", outcome),
	))
}

// RecordGatewayConnect records a gateway connection attempt.
func (m *Metrics) RecordGatewayConnect(ctx context.Context, success bool) {
	m.GatewayConnectAttemptsTotal.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

// AddCollectorWindows moves the open collection window count by delta.
func (m *Metrics) AddCollectorWindows(ctx context.Context, delta int64) {
	m.CollectorWindowsActive.Add(ctx, delta)
}

// RecordBreakerTransition records a circuit breaker state change.
func (m *Metrics) RecordBreakerTransition(ctx context.Context, name, from, to string) {
	m.BreakerTransitionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("breaker", name),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}
