package notification

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// recordEmitter is the subset of otellog.Logger used here.
type recordEmitter interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// OTelNotifier emits events as OTel log records.
type OTelNotifier struct {
	logger recordEmitter
}

// NewOTelNotifier returns a notifier backed by provider. A nil provider yields Noop.
func NewOTelNotifier(provider *sdklog.LoggerProvider) Notifier {
	if provider == nil {
		return Noop{}
	}
	return &OTelNotifier{logger: provider.Logger("taskflow.notification")}
}

// NewOTelNotifierWithLogger returns a notifier that emits through logger. Used by tests.
func NewOTelNotifierWithLogger(logger recordEmitter) *OTelNotifier {
	return &OTelNotifier{logger: logger}
}

func (o *OTelNotifier) Notify(ctx context.Context, event Event) error {
	rec := otellog.Record{}
	ts := event.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	rec.SetTimestamp(ts)
	rec.SetSeverity(otellog.SeverityInfo)
	rec.SetBody(otellog.StringValue(string(event.Type)))
	rec.AddAttributes(
		otellog.String("event_id", event.ID.String()),
		otellog.String("event_type", string(event.Type)),
		otellog.String("recipient_id", event.RecipientID.String()),
	)
	if !event.ActorID.IsZero() {
		rec.AddAttributes(otellog.String("actor_id", event.ActorID.String()))
	}
	if !event.TeamID.IsZero() {
		rec.AddAttributes(otellog.String("team_id", event.TeamID.String()))
	}
	if !event.InvitationID.IsZero() {
		rec.AddAttributes(otellog.String("invitation_id", event.InvitationID.String()))
	}
	o.logger.Emit(ctx, rec)
	return nil
}
