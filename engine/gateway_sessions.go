package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"fixgw/domain/session"
	"fixgw/fix"
	"fixgw/infra/config"
	"fixgw/infra/metrics"
	"fixgw/infra/seqindex"
	"fixgw/infra/sessionids"
)

// AuthenticationStrategy decides whether a logon may proceed. It runs on
// the framer goroutine, so implementations must not block; anything that
// needs a remote call should pre-warm its own cache.
type AuthenticationStrategy interface {
	Authenticate(msg *fix.Message) error
}

// MessageValidationStrategy checks the logon's protocol-level fields
// after authentication.
type MessageValidationStrategy interface {
	Validate(msg *fix.Message) error
}

// AcceptAllAuthentication admits every counterparty. The default.
type AcceptAllAuthentication struct{}

func (AcceptAllAuthentication) Authenticate(*fix.Message) error { return nil }

// StandardValidation enforces the fields the engine itself depends on.
type StandardValidation struct{}

func (StandardValidation) Validate(msg *fix.Message) error {
	if msg.SenderCompID == "" || msg.TargetCompID == "" {
		return fmt.Errorf("missing comp id")
	}
	if msg.HeartBtInt < 1 || msg.HeartBtInt > 300 {
		return fmt.Errorf("HeartBtInt %d outside 1..300", msg.HeartBtInt)
	}
	return nil
}

// LogonOutcome is the value-typed result of an admission attempt.
// Exactly one of Session and Reject is set.
type LogonOutcome struct {
	Session *session.Session
	// ResetEpoch is set when the session starts a fresh sequence epoch
	// that must be recorded on the data streams.
	ResetEpoch bool
	// ResendFrom is non-zero when the logon arrived above the expected
	// sequence number; the framer must request a resend starting here.
	ResendFrom uint64
	// Reject carries the refusal reason sent in the logout.
	Reject string
}

// GatewaySessions owns the admission pipeline: authenticate, validate,
// reconcile sequence numbers against the index, allocate the surrogate
// id. It never touches sockets; the framer acts on the outcome.
type GatewaySessions struct {
	ids      *sessionids.Store
	index    *seqindex.Index
	auth     AuthenticationStrategy
	validate MessageValidationStrategy
	window   time.Duration
	policy   config.ResumePolicy
	clock    func() time.Time
	metrics  *metrics.Engine
	logger   *zap.Logger
}

func NewGatewaySessions(
	ids *sessionids.Store,
	index *seqindex.Index,
	auth AuthenticationStrategy,
	validate MessageValidationStrategy,
	cfg config.SessionConfig,
	clock func() time.Time,
	m *metrics.Engine,
	logger *zap.Logger,
) *GatewaySessions {
	if auth == nil {
		auth = AcceptAllAuthentication{}
	}
	if validate == nil {
		validate = StandardValidation{}
	}
	return &GatewaySessions{
		ids:      ids,
		index:    index,
		auth:     auth,
		validate: validate,
		window:   cfg.SendingTimeWindow,
		policy:   cfg.ResumePolicy,
		clock:    clock,
		metrics:  m,
		logger:   logger,
	}
}

// OnLogon runs the admission pipeline for one inbound logon. live
// reports whether a key already owns a connection; at most one live
// session per key ever exists.
func (g *GatewaySessions) OnLogon(msg *fix.Message, live func(session.Key) bool) LogonOutcome {
	now := g.clock()

	if err := g.auth.Authenticate(msg); err != nil {
		return g.reject("authentication failed: " + err.Error())
	}
	if err := g.validate.Validate(msg); err != nil {
		return g.reject("invalid logon: " + err.Error())
	}
	if g.window > 0 && !msg.SendingTime.IsZero() {
		if d := now.Sub(msg.SendingTime); d > g.window || d < -g.window {
			return g.reject("SendingTime outside accepted window")
		}
	}

	key := session.Key{
		LocalCompID:      msg.TargetCompID,
		LocalSubID:       msg.TargetSubID,
		LocalLocationID:  msg.TargetLocationID,
		RemoteCompID:     msg.SenderCompID,
		RemoteSubID:      msg.SenderSubID,
		RemoteLocationID: msg.SenderLocationID,
	}
	if live(key) {
		return g.reject("session already connected")
	}

	reset := msg.ResetSeqNum || g.policy == config.ResetSequences
	if reset && msg.SeqNum != 1 {
		return g.reject("logon with ResetSeqNumFlag must carry MsgSeqNum 1")
	}

	id, err := g.ids.OnLogon(key)
	if err != nil {
		g.logger.Error("session id allocation failed", zap.Stringer("key", key), zap.Error(err))
		return g.reject("session id allocation failed")
	}

	sess := session.New(id, key)
	if msg.HeartBtInt > 0 {
		sess.HeartbeatInterval = time.Duration(msg.HeartBtInt) * time.Second
	}

	outcome := LogonOutcome{Session: sess}
	g.reconcile(sess, reset, &outcome)

	expected := sess.ExpectedSeq()
	switch {
	case msg.SeqNum < expected:
		return g.reject(fmt.Sprintf("MsgSeqNum %d lower than expected %d", msg.SeqNum, expected))
	case msg.SeqNum > expected:
		outcome.ResendFrom = expected
	default:
		sess.RecordReceived(msg.SeqNum, now)
	}

	g.metrics.AdmittedSessions.Inc()
	return outcome
}

// reconcile seeds the session's epoch and counters from the index. Index
// read failures degrade to an empty history; the index is a cache over
// the log and must never block admission.
func (g *GatewaySessions) reconcile(sess *session.Session, reset bool, outcome *LogonOutcome) {
	recv, okRecv, err := g.index.LastKnown(seqindex.Received, sess.ID)
	if err != nil {
		g.logger.Warn("received-sequence lookup failed", zap.Uint64("session", sess.ID), zap.Error(err))
		okRecv = false
	}
	sent, okSent, err := g.index.LastKnown(seqindex.Sent, sess.ID)
	if err != nil {
		g.logger.Warn("sent-sequence lookup failed", zap.Uint64("session", sess.ID), zap.Error(err))
		okSent = false
	}

	var lastEpoch uint32
	if okRecv {
		lastEpoch = recv.Epoch
	}
	if okSent && sent.Epoch > lastEpoch {
		lastEpoch = sent.Epoch
	}

	switch {
	case reset:
		sess.Epoch = lastEpoch + 1
		outcome.ResetEpoch = true
	case !okRecv && !okSent:
		sess.Epoch = 1
		outcome.ResetEpoch = true
	default:
		sess.Epoch = lastEpoch
		if okRecv && recv.Epoch == lastEpoch {
			sess.LastReceivedSeq = recv.SeqNum
		}
		if okSent && sent.Epoch == lastEpoch {
			sess.LastSentSeq = sent.SeqNum
		}
	}
}

func (g *GatewaySessions) reject(reason string) LogonOutcome {
	g.metrics.RejectedLogons.Inc()
	return LogonOutcome{Reject: reason}
}
