package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fixgw/domain/session"
	"fixgw/fix"
	"fixgw/infra/config"
	"fixgw/infra/metrics"
	"fixgw/infra/sessionids"
	"fixgw/infra/streams"
)

const (
	tickInterval  = 100 * time.Millisecond
	drainLimit    = 256
	testRequestID = "TEST"
)

// Framer is the engine's single-threaded reactor. It alone owns every
// connection, session and library record; connections, admin callers and
// libraries reach it only through its queues. One duty cycle drains the
// admin queue to exhaustion, then connection events, then library
// submissions, then runs timers.
type Framer struct {
	cfg     config.Config
	logger  *zap.Logger
	metrics *metrics.Engine
	clock   func() time.Time
	idler   IdleStrategy

	gateway *GatewaySessions
	ids     *sessionids.Store

	inboundData  *streams.Publication
	inboundCtrl  *streams.Publication
	outboundData *streams.Publication
	outboundCtrl *streams.Publication

	admin   chan adminCommand
	library chan librarySubmission
	events  chan connEvent
	stop    chan struct{}

	conns     map[uint64]*connection
	bySession map[uint64]*connection
	liveKeys  map[string]uint64
	libraries map[uint32]*libraryState

	nextConn    uint64
	nextLibrary uint32
	lastTick    time.Time

	builder fix.Builder
	decoder fix.Decoder
}

func newFramer(
	cfg config.Config,
	gateway *GatewaySessions,
	ids *sessionids.Store,
	str *streams.Streams,
	valve streams.ReliefValve,
	clock func() time.Time,
	m *metrics.Engine,
	logger *zap.Logger,
) *Framer {
	attempts := cfg.Streams.MaxClaimAttempts
	return &Framer{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		clock:   clock,
		idler:   &BackoffIdle{},

		gateway: gateway,
		ids:     ids,

		inboundData:  str.Publication(streams.InboundData, attempts, valve),
		inboundCtrl:  str.Publication(streams.InboundControl, attempts, valve),
		outboundData: str.Publication(streams.OutboundData, attempts, valve),
		outboundCtrl: str.Publication(streams.OutboundControl, attempts, valve),

		admin:   make(chan adminCommand, cfg.Engine.AdminQueueSize),
		library: make(chan librarySubmission, 1024),
		events:  make(chan connEvent, 1024),
		stop:    make(chan struct{}),

		conns:     make(map[uint64]*connection),
		bySession: make(map[uint64]*connection),
		liveKeys:  make(map[string]uint64),
		libraries: map[uint32]*libraryState{
			GatewayLibraryID: {id: GatewayLibraryID, name: "engine", sessions: make(map[uint64]struct{})},
		},

		nextLibrary: GatewayLibraryID + 1,
		decoder:     fix.TagDecoder{},
	}
}

// Run drives duty cycles until ctx is cancelled, then tears down every
// connection.
func (f *Framer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			f.shutdown()
			return
		default:
		}
		f.idler.Idle(f.dutyCycle(f.clock()))
	}
}

func (f *Framer) dutyCycle(now time.Time) int {
	work := f.drainAdmin()
	work += f.drainEvents(now)
	work += f.drainLibrary(now)
	if now.Sub(f.lastTick) >= tickInterval {
		f.lastTick = now
		f.onTick(now)
		work++
	}
	return work
}

func (f *Framer) drainAdmin() int {
	n := 0
	for {
		select {
		case cmd := <-f.admin:
			cmd.execute(f)
			n++
		default:
			return n
		}
	}
}

func (f *Framer) drainEvents(now time.Time) int {
	for n := 0; n < drainLimit; n++ {
		select {
		case ev := <-f.events:
			f.onConnEvent(ev, now)
		default:
			return n
		}
	}
	return drainLimit
}

func (f *Framer) drainLibrary(now time.Time) int {
	for n := 0; n < drainLimit; n++ {
		select {
		case sub := <-f.library:
			f.onLibrarySubmission(sub, now)
		default:
			return n
		}
	}
	return drainLimit
}

func (f *Framer) onConnEvent(ev connEvent, now time.Time) {
	switch ev.kind {
	case connOpened:
		f.nextConn++
		ev.conn.id = f.nextConn
		ev.conn.opened = now
		f.conns[ev.conn.id] = ev.conn
		f.logger.Info("connection accepted",
			zap.Uint64("conn", ev.conn.id),
			zap.String("remote", ev.conn.tcp.RemoteAddr().String()))
	case connFrame:
		if ev.conn.closed {
			return
		}
		f.onFrame(ev.conn, ev.frame, now)
	case connClosed:
		if ev.conn.closed {
			return
		}
		f.disconnect(ev.conn, fmt.Sprintf("peer closed: %v", ev.err), now)
	}
}

func (f *Framer) onFrame(c *connection, frame []byte, now time.Time) {
	if err := fix.Validate(frame); err != nil {
		f.disconnect(c, "checksum failure", now)
		return
	}
	msg, err := f.decoder.Decode(frame)
	if err != nil {
		// Garbled messages are ignored without advancing sequence state.
		f.logger.Warn("undecodable frame", zap.Uint64("conn", c.id), zap.Error(err))
		return
	}
	c.lastInbound = now
	c.testReqAt = time.Time{}

	if c.sess == nil {
		if msg.MsgType != fix.MsgTypeLogon {
			f.disconnect(c, "first message must be a logon", now)
			return
		}
		f.onLogon(c, msg, now)
		return
	}
	if msg.MsgType == fix.MsgTypeLogon {
		f.logoutAndDisconnect(c, "already logged on", now)
		return
	}
	f.onSessionMessage(c, msg, now)
}

func (f *Framer) onLogon(c *connection, msg fix.Message, now time.Time) {
	outcome := f.gateway.OnLogon(&msg, func(k session.Key) bool {
		_, live := f.liveKeys[string(k.Encode())]
		return live
	})
	if outcome.Reject != "" {
		f.logger.Info("logon rejected",
			zap.Uint64("conn", c.id),
			zap.String("comp", msg.SenderCompID),
			zap.String("reason", outcome.Reject))
		header := fix.Header{
			Sender:      fix.Identity{CompID: msg.TargetCompID, SubID: msg.TargetSubID, LocationID: msg.TargetLocationID},
			Target:      fix.Identity{CompID: msg.SenderCompID, SubID: msg.SenderSubID, LocationID: msg.SenderLocationID},
			SeqNum:      1,
			SendingTime: now,
		}
		_ = c.write(f.builder.Logout(header, outcome.Reject))
		f.disconnect(c, outcome.Reject, now)
		return
	}

	sess := outcome.Session
	f.observe(sess)
	if err := sess.Transition(session.Authenticating); err == nil {
		_ = sess.Transition(session.Active)
	}

	c.sess = sess
	f.bySession[sess.ID] = c
	f.liveKeys[string(sess.Key.Encode())] = sess.ID
	lib := f.chooseLibrary()
	sess.LibraryID = lib.id
	lib.sessions[sess.ID] = struct{}{}

	if outcome.ResetEpoch {
		f.publishEpochStart(sess, now)
	}
	f.publishInbound(sess, msg.SeqNum, msg.Raw, now)

	ack := f.builder.Logon(f.headerFor(sess, sess.NextSentSeq(), now), msg.HeartBtInt, outcome.ResetEpoch)
	f.sendSession(c, ack, sess.LastSentSeq, now)
	if c.closed {
		return
	}

	if outcome.ResendFrom > 0 {
		c.resendTarget = msg.SeqNum
		if sess.Transition(session.AwaitingResend) == nil {
			req := f.builder.ResendRequest(f.headerFor(sess, sess.NextSentSeq(), now), outcome.ResendFrom, msg.SeqNum-1)
			f.sendSession(c, req, sess.LastSentSeq, now)
		}
		if c.closed {
			return
		}
	}

	env := streams.Envelope{
		Kind:      streams.KindSessionAssign,
		SessionID: sess.ID,
		LibraryID: sess.LibraryID,
		Epoch:     sess.Epoch,
		Timestamp: now.UnixNano(),
	}
	f.inboundCtrl.Publish(env.Encode(nil))

	f.logger.Info("session admitted",
		zap.Uint64("session", sess.ID),
		zap.Stringer("key", sess.Key),
		zap.Uint32("epoch", sess.Epoch),
		zap.Uint32("library", sess.LibraryID))
}

func (f *Framer) onSessionMessage(c *connection, msg fix.Message, now time.Time) {
	sess := c.sess
	expected := sess.ExpectedSeq()

	switch {
	case msg.SeqNum < expected:
		if msg.MsgType == fix.MsgTypeSequenceReset {
			f.applySequenceReset(c, msg)
			return
		}
		if msg.PossDup {
			return
		}
		f.logoutAndDisconnect(c, fmt.Sprintf("MsgSeqNum %d lower than expected %d", msg.SeqNum, expected), now)
		return
	case msg.SeqNum > expected:
		// Publish anyway; the index parks it as pending until the gap fills.
		f.publishInbound(sess, msg.SeqNum, msg.Raw, now)
		if msg.SeqNum > c.resendTarget {
			c.resendTarget = msg.SeqNum
		}
		if sess.State() == session.Active {
			_ = sess.Transition(session.AwaitingResend)
			req := f.builder.ResendRequest(f.headerFor(sess, sess.NextSentSeq(), now), expected, msg.SeqNum-1)
			f.sendSession(c, req, sess.LastSentSeq, now)
		}
		return
	}

	f.publishInbound(sess, msg.SeqNum, msg.Raw, now)
	sess.RecordReceived(msg.SeqNum, now)
	f.maybeCaughtUp(c)

	switch msg.MsgType {
	case fix.MsgTypeHeartbeat:
	case fix.MsgTypeTestRequest:
		hb := f.builder.Heartbeat(f.headerFor(sess, sess.NextSentSeq(), now), msg.TestReqID)
		f.sendSession(c, hb, sess.LastSentSeq, now)
	case fix.MsgTypeResendRequest:
		// The counterparty recovers from the durable log through a library
		// replay; on the wire we gap-fill to the next outbound number.
		gf := f.builder.SequenceReset(f.headerFor(sess, msg.BeginSeqNo, now), sess.LastSentSeq+1, true)
		f.sendSession(c, gf, sess.LastSentSeq, now)
	case fix.MsgTypeSequenceReset:
		f.applySequenceReset(c, msg)
	case fix.MsgTypeLogout:
		ack := f.builder.Logout(f.headerFor(sess, sess.NextSentSeq(), now), "")
		f.sendSession(c, ack, sess.LastSentSeq, now)
		if !c.closed {
			f.disconnect(c, "logout", now)
		}
	}
}

// applySequenceReset moves the inbound expectation forward. Rewinds are
// ignored per protocol.
func (f *Framer) applySequenceReset(c *connection, msg fix.Message) {
	if msg.NewSeqNo == 0 || msg.NewSeqNo <= c.sess.LastReceivedSeq {
		return
	}
	c.sess.LastReceivedSeq = msg.NewSeqNo - 1
	f.maybeCaughtUp(c)
}

func (f *Framer) maybeCaughtUp(c *connection) {
	sess := c.sess
	if c.resendTarget == 0 || sess.LastReceivedSeq < c.resendTarget {
		return
	}
	c.resendTarget = 0
	if sess.State() == session.AwaitingResend {
		_ = sess.Transition(session.Active)
	}
}

// publishInbound appends one accepted frame to the inbound data stream.
// Back-pressure marks the session slow instead of stalling the reactor;
// the frame itself went to the relief valve.
func (f *Framer) publishInbound(sess *session.Session, seq uint64, frame []byte, now time.Time) {
	env := streams.Envelope{
		Kind:      streams.KindFixMessage,
		SessionID: sess.ID,
		LibraryID: sess.LibraryID,
		SeqNum:    seq,
		Epoch:     sess.Epoch,
		Timestamp: now.UnixNano(),
		Body:      frame,
	}
	if f.inboundData.Publish(env.Encode(nil)) == streams.PositionBackPressured {
		_ = sess.MarkSlow()
		return
	}
	_ = sess.ClearSlow()
}

// publishEpochStart records the new epoch on both data streams so both
// sequence families index it.
func (f *Framer) publishEpochStart(sess *session.Session, now time.Time) {
	env := streams.Envelope{
		Kind:      streams.KindSequenceReset,
		SessionID: sess.ID,
		LibraryID: sess.LibraryID,
		Epoch:     sess.Epoch,
		Timestamp: now.UnixNano(),
	}
	wire := env.Encode(nil)
	f.inboundData.Publish(wire)
	f.outboundData.Publish(wire)
}

// sendSession writes one frame to the session's socket and records it on
// the outbound data stream.
func (f *Framer) sendSession(c *connection, frame []byte, seq uint64, now time.Time) {
	if err := c.write(frame); err != nil {
		f.disconnect(c, fmt.Sprintf("write failed: %v", err), now)
		return
	}
	c.lastOutbound = now
	sess := c.sess
	env := streams.Envelope{
		Kind:      streams.KindFixMessage,
		SessionID: sess.ID,
		LibraryID: sess.LibraryID,
		SeqNum:    seq,
		Epoch:     sess.Epoch,
		Timestamp: now.UnixNano(),
		Body:      frame,
	}
	f.outboundData.Publish(env.Encode(nil))
}

func (f *Framer) logoutAndDisconnect(c *connection, reason string, now time.Time) {
	if c.sess != nil {
		frame := f.builder.Logout(f.headerFor(c.sess, c.sess.NextSentSeq(), now), reason)
		f.sendSession(c, frame, c.sess.LastSentSeq, now)
	}
	if !c.closed {
		f.disconnect(c, reason, now)
	}
}

func (f *Framer) disconnect(c *connection, reason string, now time.Time) {
	if c.closed {
		return
	}
	c.closed = true
	_ = c.tcp.Close()
	delete(f.conns, c.id)

	if sess := c.sess; sess != nil {
		delete(f.bySession, sess.ID)
		delete(f.liveKeys, string(sess.Key.Encode()))
		if lib, ok := f.libraries[sess.LibraryID]; ok {
			delete(lib.sessions, sess.ID)
		}
		if sess.State() != session.Disconnecting {
			_ = sess.Transition(session.Disconnecting)
		}
		_ = sess.Transition(session.Closed)
		env := streams.Envelope{
			Kind:      streams.KindDisconnect,
			SessionID: sess.ID,
			LibraryID: sess.LibraryID,
			Epoch:     sess.Epoch,
			Timestamp: now.UnixNano(),
		}
		f.inboundCtrl.Publish(env.Encode(nil))
	}

	f.metrics.Disconnects.Inc()
	f.logger.Info("connection closed", zap.Uint64("conn", c.id), zap.String("reason", reason))
}

func (f *Framer) onLibrarySubmission(sub librarySubmission, now time.Time) {
	switch sub.kind {
	case streams.KindLibraryConnect:
		id := f.nextLibrary
		f.nextLibrary++
		f.libraries[id] = &libraryState{
			id:            id,
			name:          sub.name,
			lastHeartbeat: now,
			sessions:      make(map[uint64]struct{}),
		}
		env := streams.Envelope{Kind: streams.KindLibraryConnect, LibraryID: id, Timestamp: now.UnixNano(), Body: []byte(sub.name)}
		f.outboundCtrl.Publish(env.Encode(nil))
		f.logger.Info("library attached", zap.Uint32("library", id), zap.String("name", sub.name))
		sub.resp.set(id, nil)

	case streams.KindLibraryHeartbeat:
		lib, ok := f.libraries[sub.libraryID]
		if !ok {
			return
		}
		lib.lastHeartbeat = now
		env := streams.Envelope{Kind: streams.KindLibraryHeartbeat, LibraryID: sub.libraryID, Timestamp: now.UnixNano()}
		f.outboundCtrl.Publish(env.Encode(nil))

	case streams.KindFixMessage:
		c, ok := f.bySession[sub.sessionID]
		if !ok {
			f.logger.Warn("send to unknown session",
				zap.Uint32("library", sub.libraryID), zap.Uint64("session", sub.sessionID))
			return
		}
		sess := c.sess
		frame := f.builder.Build(sub.msgType, f.headerFor(sess, sess.NextSentSeq(), now), sub.fields)
		f.sendSession(c, frame, sess.LastSentSeq, now)

	case streams.KindDisconnect:
		if c, ok := f.bySession[sub.sessionID]; ok {
			f.logoutAndDisconnect(c, "library requested disconnect", now)
		}
	}
}

func (f *Framer) onTick(now time.Time) {
	for _, c := range f.conns {
		if c.sess == nil {
			if now.Sub(c.opened) > f.cfg.Session.ReplyTimeout {
				f.disconnect(c, "no logon received", now)
			}
			continue
		}
		hb := c.sess.HeartbeatInterval
		if hb <= 0 {
			hb = f.cfg.Engine.HeartbeatInterval
		}
		if now.Sub(c.lastOutbound) >= hb {
			frame := f.builder.Heartbeat(f.headerFor(c.sess, c.sess.NextSentSeq(), now), "")
			f.sendSession(c, frame, c.sess.LastSentSeq, now)
			if c.closed {
				continue
			}
		}
		silent := now.Sub(c.lastInbound)
		switch {
		case silent < hb+hb/2:
		case c.testReqAt.IsZero():
			frame := f.builder.TestRequest(f.headerFor(c.sess, c.sess.NextSentSeq(), now), testRequestID)
			f.sendSession(c, frame, c.sess.LastSentSeq, now)
			c.testReqAt = now
		case now.Sub(c.testReqAt) >= hb:
			f.logoutAndDisconnect(c, "test request timed out", now)
		}
	}

	for id, lib := range f.libraries {
		if id == GatewayLibraryID {
			continue
		}
		if now.Sub(lib.lastHeartbeat) <= f.cfg.Engine.LibraryTimeout {
			continue
		}
		f.releaseLibrary(lib, now)
	}
}

// releaseLibrary detaches a timed-out library and hands its sessions back
// to the engine.
func (f *Framer) releaseLibrary(lib *libraryState, now time.Time) {
	engineLib := f.libraries[GatewayLibraryID]
	for id := range lib.sessions {
		if c, ok := f.bySession[id]; ok {
			c.sess.LibraryID = GatewayLibraryID
			engineLib.sessions[id] = struct{}{}
			env := streams.Envelope{
				Kind:      streams.KindSessionAssign,
				SessionID: id,
				LibraryID: GatewayLibraryID,
				Epoch:     c.sess.Epoch,
				Timestamp: now.UnixNano(),
			}
			f.inboundCtrl.Publish(env.Encode(nil))
		}
	}
	delete(f.libraries, lib.id)
	f.logger.Warn("library timed out", zap.Uint32("library", lib.id), zap.String("name", lib.name))
}

// chooseLibrary assigns new sessions to the oldest attached library, or
// to the engine itself when none is attached.
func (f *Framer) chooseLibrary() *libraryState {
	best := f.libraries[GatewayLibraryID]
	for id, lib := range f.libraries {
		if id == GatewayLibraryID {
			continue
		}
		if best.id == GatewayLibraryID || id < best.id {
			best = lib
		}
	}
	return best
}

func (f *Framer) observe(sess *session.Session) {
	sess.Observe(
		func(id uint64, from, to session.State) {
			switch {
			case from == session.Authenticating && to == session.Active:
				f.metrics.ConnectedSessions.Inc()
			case to == session.Closed:
				f.metrics.ConnectedSessions.Dec()
			}
		},
		func(id uint64, slow bool) {
			if slow {
				f.metrics.SlowSessions.Inc()
				f.logger.Warn("session marked slow", zap.Uint64("session", id))
			} else {
				f.metrics.SlowSessions.Dec()
			}
		},
	)
}

func (f *Framer) headerFor(sess *session.Session, seq uint64, now time.Time) fix.Header {
	return fix.Header{
		Sender: fix.Identity{
			CompID:     sess.Key.LocalCompID,
			SubID:      sess.Key.LocalSubID,
			LocationID: sess.Key.LocalLocationID,
		},
		Target: fix.Identity{
			CompID:     sess.Key.RemoteCompID,
			SubID:      sess.Key.RemoteSubID,
			LocationID: sess.Key.RemoteLocationID,
		},
		SeqNum:      seq,
		SendingTime: now,
	}
}

// Admin command targets; all run on the framer goroutine.

func (f *Framer) libraryInfos() []LibraryInfo {
	out := make([]LibraryInfo, 0, len(f.libraries))
	for _, lib := range f.libraries {
		out = append(out, lib.snapshot())
	}
	return out
}

func (f *Framer) sessionInfos() []session.Info {
	out := make([]session.Info, 0, len(f.bySession))
	for _, c := range f.bySession {
		out = append(out, c.sess.Snapshot())
	}
	return out
}

func (f *Framer) resetSessionIds(backupPath string) error {
	if len(f.bySession) > 0 {
		return sessionids.ErrSessionsConnected
	}
	return f.ids.Reset(backupPath)
}

func (f *Framer) shutdown() {
	close(f.stop)
	now := f.clock()
	for _, c := range f.conns {
		f.disconnect(c, "engine shutdown", now)
	}
}
