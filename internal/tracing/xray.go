// Package tracing wires AWS X-Ray segments around slate runs.
package tracing

import (
	"context"
	"fmt"

	"github.com/aws/aws-xray-sdk-go/strategy/sampling"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"
)

// Config contains X-Ray configuration.
type Config struct {
	ServiceName   string
	Enabled       bool
	SamplingRate  float64
	DaemonAddress string
}

// logAdapter funnels X-Ray SDK logs through logrus.
type logAdapter struct {
	entry *logrus.Entry
}

func (l *logAdapter) Log(level xraylog.LogLevel, msg fmt.Stringer) {
	switch level {
	case xraylog.LogLevelDebug:
		l.entry.Debug(msg.String())
	case xraylog.LogLevelInfo:
		l.entry.Info(msg.String())
	case xraylog.LogLevelWarn:
		l.entry.Warn(msg.String())
	default:
		l.entry.Error(msg.String())
	}
}

// Initialize configures the X-Ray recorder with a local sampling rule.
// A disabled config is a no-op so callers can wire it unconditionally.
func Initialize(cfg Config, logger *logrus.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	xraylog.SetLogger(&logAdapter{entry: logger.WithField("component", "tracing")})

	rule := fmt.Sprintf(`{"version": 2, "default": {"fixed_target": 1, "rate": %g}}`, cfg.SamplingRate)
	strategy, err := sampling.NewLocalizedStrategyFromJSONBytes([]byte(rule))
	if err != nil {
		return fmt.Errorf("building sampling strategy: %w", err)
	}

	if err := xray.Configure(xray.Config{
		DaemonAddr:       cfg.DaemonAddress,
		SamplingStrategy: strategy,
	}); err != nil {
		return fmt.Errorf("configuring xray recorder: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"service_name":  cfg.ServiceName,
		"daemon_addr":   cfg.DaemonAddress,
		"sampling_rate": cfg.SamplingRate,
	}).Info("Tracing initialized")

	return nil
}

// StartRun opens a segment covering one slate run. Close the returned segment
// with the run's error to record the outcome.
func StartRun(ctx context.Context, name string) (context.Context, *xray.Segment) {
	return xray.BeginSegment(ctx, name)
}

// StartStage opens a subsegment for one pipeline stage within a run.
func StartStage(ctx context.Context, name string) (context.Context, *xray.Segment) {
	return xray.BeginSubsegment(ctx, name)
}

// AddAnnotation attaches an indexed key to the current segment, if any.
func AddAnnotation(ctx context.Context, key string, value interface{}) {
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddAnnotation(key, value)
	}
}

// AddMetadata attaches unindexed detail to the current segment, if any.
func AddMetadata(ctx context.Context, key string, value interface{}) {
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddMetadata(key, value)
	}
}
