package grpcserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "fixgw/api/pb"
	"fixgw/domain/session"
	"fixgw/engine"
	"fixgw/infra/sessionids"
)

type fakeAdmin struct {
	libraries []engine.LibraryInfo
	sessions  []session.Info
	resetErr  error
	queryErr  error

	resetBackup string
}

func (a *fakeAdmin) Libraries() ([]engine.LibraryInfo, error) {
	return a.libraries, a.queryErr
}

func (a *fakeAdmin) Sessions() ([]session.Info, error) {
	return a.sessions, a.queryErr
}

func (a *fakeAdmin) ResetSessionIds(backupPath string) error {
	a.resetBackup = backupPath
	return a.resetErr
}

func newTestServer(t *testing.T, admin *fakeAdmin) *Server {
	t.Helper()
	return NewServer(admin, zaptest.NewLogger(t))
}

func TestListLibraries(t *testing.T) {
	at := time.Date(2024, 5, 14, 9, 30, 0, 0, time.UTC)
	admin := &fakeAdmin{
		libraries: []engine.LibraryInfo{
			{ID: 0, Name: "engine", LastHeartbeat: at},
			{ID: 1, Name: "algo", LastHeartbeat: at, SessionIDs: []uint64{7}},
		},
	}
	srv := newTestServer(t, admin)

	resp, err := srv.ListLibraries(context.Background(), &pb.ListLibrariesRequest{})
	require.NoError(t, err)
	require.Len(t, resp.GetLibraries(), 2)
	lib := resp.GetLibraries()[1]
	require.EqualValues(t, 1, lib.GetId())
	require.Equal(t, "algo", lib.GetName())
	require.Equal(t, []uint64{7}, lib.GetSessionIds())
	require.Equal(t, at.UnixNano(), lib.GetLastHeartbeatUnixNanos())
}

func TestListSessions(t *testing.T) {
	admin := &fakeAdmin{
		sessions: []session.Info{{
			ID:              7,
			Key:             session.Key{LocalCompID: "GATEWAY", RemoteCompID: "CLIENT1"},
			State:           session.Active,
			LibraryID:       1,
			Epoch:           2,
			LastSentSeq:     10,
			LastReceivedSeq: 9,
		}},
	}
	srv := newTestServer(t, admin)

	resp, err := srv.ListSessions(context.Background(), &pb.ListSessionsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.GetSessions(), 1)
	info := resp.GetSessions()[0]
	require.EqualValues(t, 7, info.GetId())
	require.Equal(t, "ACTIVE", info.GetState())
	require.Equal(t, "GATEWAY", info.GetLocalCompId())
	require.Equal(t, "CLIENT1", info.GetRemoteCompId())
	require.EqualValues(t, 9, info.GetLastReceivedSeq())
	require.EqualValues(t, 10, info.GetLastSentSeq())
	require.EqualValues(t, 2, info.GetEpoch())
	require.EqualValues(t, 1, info.GetLibraryId())
	require.False(t, info.GetSlow())
}

func TestResetSessionIds(t *testing.T) {
	admin := &fakeAdmin{}
	srv := newTestServer(t, admin)

	resp, err := srv.ResetSessionIds(context.Background(), &pb.ResetSessionIdsRequest{BackupPath: "/tmp/ids.bak"})
	require.NoError(t, err)
	require.True(t, resp.GetOk())
	require.Equal(t, "/tmp/ids.bak", admin.resetBackup)
}

func TestResetSessionIdsRefusedIsNotAnRPCError(t *testing.T) {
	admin := &fakeAdmin{resetErr: sessionids.ErrSessionsConnected}
	srv := newTestServer(t, admin)

	resp, err := srv.ResetSessionIds(context.Background(), &pb.ResetSessionIdsRequest{})
	require.NoError(t, err)
	require.False(t, resp.GetOk())
	require.Contains(t, resp.GetReason(), "connected")
}

func TestBusyEngineMapsToUnavailable(t *testing.T) {
	admin := &fakeAdmin{queryErr: engine.ErrEngineBusy}
	srv := newTestServer(t, admin)

	_, err := srv.ListSessions(context.Background(), &pb.ListSessionsRequest{})
	require.Error(t, err)
	require.Equal(t, codes.Unavailable, status.Code(err))
}
