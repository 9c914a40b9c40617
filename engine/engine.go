// Package engine hosts the FIX gateway: a TCP acceptor, the single
// threaded framer reactor that owns all session state, the admission
// pipeline and the in-process library API. Everything durable goes
// through the stream logs; everything queryable goes through the
// admin-command queue.
package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"fixgw/domain/session"
	"fixgw/infra/config"
	"fixgw/infra/logging"
	"fixgw/infra/metrics"
	"fixgw/infra/seqindex"
	"fixgw/infra/sessionids"
	"fixgw/infra/streamlog"
	"fixgw/infra/streams"
)

// Options carries the injectable collaborators. Every field is optional;
// zero values get production defaults.
type Options struct {
	Logger *zap.Logger
	// Metrics overrides the instrument set; when nil a fresh one is
	// registered against Registry.
	Metrics    *metrics.Engine
	Registry   prometheus.Registerer
	Valve      streams.ReliefValve
	Auth       AuthenticationStrategy
	Validation MessageValidationStrategy
	Clock      func() time.Time
	// Listener overrides the TCP listener, for tests and embedding.
	Listener net.Listener
}

// Engine is the running gateway process. Admin methods are safe from any
// goroutine; they serialize through the framer's command queue.
type Engine struct {
	cfg     config.Config
	logger  *zap.Logger
	metrics *metrics.Engine

	streams *streams.Streams
	ids     *sessionids.Store
	index   *seqindex.Index
	framer  *Framer

	listener     net.Listener
	cancel       context.CancelFunc
	framerDone   chan struct{}
	consumerDone <-chan struct{}
	closeOnce    sync.Once
}

// Launch opens the stores and stream logs under the configured data
// directory, recovers state, and starts the framer, the index consumer
// and the acceptor. A Launch error leaves nothing running.
func Launch(cfg config.Config, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.New(cfg.Log.Level)
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	m := opts.Metrics
	if m == nil {
		reg := opts.Registry
		if reg == nil {
			reg = prometheus.NewRegistry()
		}
		m = metrics.NewEngine(reg)
	}

	dataDir := cfg.Engine.DataDir
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	ids, err := sessionids.Open(filepath.Join(dataDir, "session-ids"))
	if err != nil {
		return nil, err
	}
	index, err := seqindex.Open(filepath.Join(dataDir, "seqindex"), logger.Named("seqindex"))
	if err != nil {
		ids.Close()
		return nil, err
	}
	str, err := streams.Open(filepath.Join(dataDir, "streams"), streamlog.Options{
		SegmentSize:     cfg.Streams.SegmentSize,
		SegmentDuration: cfg.Streams.SegmentDuration,
	}, m, logger.Named("streams"))
	if err != nil {
		index.Close()
		ids.Close()
		return nil, err
	}

	fail := func(err error) (*Engine, error) {
		str.Close()
		index.Close()
		ids.Close()
		return nil, err
	}

	valve := opts.Valve
	if valve == nil {
		valve = streams.NoReliefValve{Metrics: m}
	}

	gateway := NewGatewaySessions(ids, index, opts.Auth, opts.Validation,
		cfg.Session, clock, m, logger.Named("gateway"))
	framer := newFramer(cfg, gateway, ids, str, valve, clock, m, logger.Named("framer"))

	// The consumer resumes from its checkpoints; a wiped index restarts
	// from position zero and rebuilds.
	inFrom, err := index.Checkpoint(byte(streams.InboundData))
	if err != nil {
		return fail(err)
	}
	outFrom, err := index.Checkpoint(byte(streams.OutboundData))
	if err != nil {
		return fail(err)
	}
	inSub, err := str.Subscription(streams.InboundData, inFrom)
	if err != nil {
		return fail(err)
	}
	outSub, err := str.Subscription(streams.OutboundData, outFrom)
	if err != nil {
		return fail(err)
	}
	consumer := seqindex.NewConsumer(index, inSub, outSub, logger.Named("seqindex"))

	listener := opts.Listener
	if listener == nil {
		listener, err = net.Listen("tcp", cfg.Engine.BindAddress)
		if err != nil {
			return fail(fmt.Errorf("bind %s: %w", cfg.Engine.BindAddress, err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		cfg:        cfg,
		logger:     logger,
		metrics:    m,
		streams:    str,
		ids:        ids,
		index:      index,
		framer:     framer,
		listener:   listener,
		cancel:     cancel,
		framerDone: make(chan struct{}),
	}
	go func() {
		framer.Run(ctx)
		close(e.framerDone)
	}()
	e.consumerDone = consumer.Start(ctx)
	go e.acceptLoop()

	logger.Info("engine up",
		zap.String("bind", listener.Addr().String()),
		zap.String("data_dir", dataDir))
	return e, nil
}

func (e *Engine) acceptLoop() {
	for {
		nc, err := e.listener.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				e.logger.Warn("accept failed", zap.Error(err))
			}
			return
		}
		e.serveConn(nc)
	}
}

// serveConn registers one accepted connection with the framer and starts
// its reader goroutine.
func (e *Engine) serveConn(nc net.Conn) {
	c := &connection{tcp: nc}
	select {
	case e.framer.events <- connEvent{kind: connOpened, conn: c}:
	case <-e.framer.stop:
		nc.Close()
		return
	}
	go c.readLoop(e.framer.events, e.framer.stop)
}

// Addr returns the address the engine accepts FIX connections on.
func (e *Engine) Addr() net.Addr { return e.listener.Addr() }

// StreamDir exposes a stream's directory for out-of-process readers such
// as the archiver.
func (e *Engine) StreamDir(id streams.StreamID) string { return e.streams.Dir(id) }

func (e *Engine) replyTimeout() time.Duration {
	if e.cfg.Session.ReplyTimeout > 0 {
		return e.cfg.Session.ReplyTimeout
	}
	return 5 * time.Second
}

func (e *Engine) submitAdmin(cmd adminCommand) error {
	select {
	case e.framer.admin <- cmd:
		return nil
	case <-time.After(e.replyTimeout()):
		return ErrEngineBusy
	}
}

func (e *Engine) submitLibrary(sub librarySubmission) error {
	select {
	case e.framer.library <- sub:
		return nil
	case <-time.After(e.replyTimeout()):
		return ErrEngineBusy
	}
}

// Libraries reports every attached library, including the engine's own
// reserved slot.
func (e *Engine) Libraries() ([]LibraryInfo, error) {
	cmd := &queryLibrariesCommand{resp: newResponse[[]LibraryInfo]()}
	if err := e.submitAdmin(cmd); err != nil {
		return nil, err
	}
	return cmd.resp.await(e.replyTimeout())
}

// Sessions reports a consistent snapshot of every connected session. The
// snapshot is taken in a single duty cycle, so an in-flight logon is
// either fully visible or not at all.
func (e *Engine) Sessions() ([]session.Info, error) {
	cmd := &querySessionsCommand{resp: newResponse[[]session.Info]()}
	if err := e.submitAdmin(cmd); err != nil {
		return nil, err
	}
	return cmd.resp.await(e.replyTimeout())
}

// ResetSessionIds backs up and clears the identity-to-id mapping. It is
// refused with sessionids.ErrSessionsConnected while any session is
// connected.
func (e *Engine) ResetSessionIds(backupPath string) error {
	cmd := &resetSessionIdsCommand{backupPath: backupPath, resp: newResponse[struct{}]()}
	if err := e.submitAdmin(cmd); err != nil {
		return err
	}
	_, err := cmd.resp.await(e.replyTimeout())
	return err
}

// AttachLibrary registers an in-process library and returns its handle.
func (e *Engine) AttachLibrary(name string) (*Library, error) {
	sub := librarySubmission{
		kind: streams.KindLibraryConnect,
		name: name,
		resp: newResponse[uint32](),
	}
	if err := e.submitLibrary(sub); err != nil {
		return nil, err
	}
	id, err := sub.resp.await(e.replyTimeout())
	if err != nil {
		return nil, err
	}
	return &Library{id: id, name: name, e: e}, nil
}

// Close stops accepting, drains the framer and consumer, syncs the
// stream logs and closes the stores. Idempotent.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		_ = e.listener.Close()
		e.cancel()
		<-e.framerDone
		<-e.consumerDone
		if err := e.streams.Sync(); err != nil {
			e.logger.Error("final stream sync failed", zap.Error(err))
		}
		e.streams.Close()
		_ = e.index.Close()
		_ = e.ids.Close()
		e.logger.Info("engine stopped")
	})
	return nil
}
