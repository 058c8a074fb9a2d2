// Package moderation implements the outbound message screening pipeline:
// local keyword filtering, remote content classification, and the
// administrative escalation that follows a block.
package moderation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sparkmatch/engine/internal/domain"
	"github.com/sparkmatch/engine/internal/logging"
	"github.com/sparkmatch/engine/internal/metrics"
)

// Classifier is the remote content classification boundary. Classify returns
// a structured decision, or an error when the service is unreachable or its
// response cannot be used.
type Classifier interface {
	Classify(ctx context.Context, text string) (*domain.ModerationDecision, error)
}

// SettingsSource supplies platform settings at evaluation time. It never
// fails: when the backing store is unavailable it returns defaults
// (moderation enabled, empty dynamic keyword list).
type SettingsSource interface {
	Current(ctx context.Context) domain.PlatformSettings
}

// Decision paths, recorded in logs and metrics.
const (
	pathKeywordBlocked = "keyword_blocked"
	pathRemoteBlocked  = "remote_blocked"
	pathPassed         = "passed"
)

// Result is the outcome of evaluating one message.
type Result struct {
	Decision domain.ModerationDecision
	// Alert is set when the message was blocked.
	Alert *domain.ModerationAlert
	// Escalation is set when the message was blocked; any effects that
	// failed can be retried with Escalation.Run without re-evaluating.
	Escalation *Escalation
}

// Blocked reports whether the message must be discarded.
func (r *Result) Blocked() bool {
	return r.Decision.Flagged
}

// Pipeline evaluates outbound chat messages. Each evaluation walks
// Pending -> LocallyChecked -> {Blocked | RemotelyChecked} -> {Blocked | Passed};
// a local keyword hit short-circuits the remote call entirely.
type Pipeline struct {
	filter     *KeywordFilter
	classifier Classifier
	settings   SettingsSource
	flags      FlagStore
	alerts     AlertStore
	stats      StatsStore
	metrics    *metrics.Metrics
	logger     logging.Logger
	timeout    time.Duration
}

// PipelineConfig wires the pipeline's collaborators. Classifier may be nil
// when no remote service is configured; the pipeline then runs keyword-only.
type PipelineConfig struct {
	Filter          *KeywordFilter
	Classifier      Classifier
	Settings        SettingsSource
	Flags           FlagStore
	Alerts          AlertStore
	Stats           StatsStore
	Metrics         *metrics.Metrics
	Logger          logging.Logger
	ClassifyTimeout time.Duration
}

const defaultClassifyTimeout = 5 * time.Second

// NewPipeline creates a moderation pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	timeout := cfg.ClassifyTimeout
	if timeout == 0 {
		timeout = defaultClassifyTimeout
	}
	return &Pipeline{
		filter:     cfg.Filter,
		classifier: cfg.Classifier,
		settings:   cfg.Settings,
		flags:      cfg.Flags,
		alerts:     cfg.Alerts,
		stats:      cfg.Stats,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		timeout:    timeout,
	}
}

// Evaluate screens one outbound message from senderID. On a block it runs the
// full escalation bundle; if any escalation write fails the returned error
// wraps ErrEscalationIncomplete and the Result still carries the block
// decision — a persistence failure never un-blocks a message. Evaluation
// itself cannot fail: classifier outages are absorbed fail-open.
func (p *Pipeline) Evaluate(ctx context.Context, senderID, text string) (*Result, error) {
	settings := p.settings.Current(ctx)
	p.filter.UpdateDynamic(settings.BannedKeywords)

	// LocallyChecked: keyword hit blocks without consulting the remote
	// classifier.
	if decision := p.filter.Scan(text); decision.Flagged {
		return p.block(ctx, senderID, text, decision, pathKeywordBlocked)
	}

	// RemotelyChecked, when enabled and configured.
	if settings.ModerationEnabled && p.classifier != nil {
		if decision := p.classifyRemote(ctx, text); decision.Flagged {
			return p.block(ctx, senderID, text, decision, pathRemoteBlocked)
		}
	}

	p.logger.Debug("message passed moderation",
		logging.String("sender_id", senderID),
		logging.String("decision_path", pathPassed),
	)
	if p.metrics != nil {
		p.metrics.MessagesScreened.WithLabelValues(pathPassed).Inc()
	}
	return &Result{}, nil
}

// classifyRemote consults the remote classifier with a bounded timeout.
// Fail-open: unreachable, timed out, and unusable responses all come back as
// "not flagged" — messaging availability wins over blocking on infrastructure
// failure. Do not change this to fail closed.
func (p *Pipeline) classifyRemote(ctx context.Context, text string) domain.ModerationDecision {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	decision, err := p.classifier.Classify(callCtx, text)
	elapsed := time.Since(start)

	if p.metrics != nil {
		p.metrics.ClassifierLatency.Observe(elapsed.Seconds())
	}

	if err != nil {
		p.logger.Warn("remote classification failed, failing open",
			logging.Error(err),
			logging.Duration("elapsed", elapsed),
		)
		if p.metrics != nil {
			p.metrics.ClassifierRequests.WithLabelValues("error").Inc()
		}
		return domain.ModerationDecision{}
	}

	if p.metrics != nil {
		p.metrics.ClassifierRequests.WithLabelValues("success").Inc()
	}
	return *decision
}

// block finalizes a Blocked evaluation and runs the escalation bundle.
func (p *Pipeline) block(ctx context.Context, senderID, text string, decision domain.ModerationDecision, path string) (*Result, error) {
	alert := &domain.ModerationAlert{
		ID:            uuid.NewString(),
		UserID:        senderID,
		OffendingText: text,
		Reason:        decision.Reason,
		Categories:    decision.Categories,
		Severity:      domain.SeverityHigh,
		Status:        domain.AlertStatusNew,
		CreatedAt:     time.Now().UTC(),
	}

	result := &Result{
		Decision:   decision,
		Alert:      alert,
		Escalation: newEscalation(p.flags, p.alerts, p.stats, alert),
	}

	p.logger.Info("message blocked",
		logging.String("sender_id", senderID),
		logging.String("reason", decision.Reason),
		logging.String("decision_path", path),
		logging.String("alert_id", alert.ID),
	)
	if p.metrics != nil {
		p.metrics.MessagesScreened.WithLabelValues(path).Inc()
	}

	if err := result.Escalation.Run(ctx); err != nil {
		p.logger.Error("escalation incomplete",
			logging.String("alert_id", alert.ID),
			logging.Strings("pending_effects", result.Escalation.Pending()),
			logging.Error(err),
		)
		if p.metrics != nil {
			p.metrics.EscalationFailures.Inc()
		}
		return result, err
	}

	return result, nil
}
