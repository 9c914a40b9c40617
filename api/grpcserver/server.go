// Package grpcserver adapts the engine's admin API to gRPC. Every call
// funnels into the engine's command queue; the server holds no state of
// its own.
package grpcserver

import (
	"context"
	"errors"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "fixgw/api/pb"
	"fixgw/domain/session"
	"fixgw/engine"
	"fixgw/infra/sessionids"
)

// Admin is the slice of the engine the server needs. The engine
// satisfies it directly.
type Admin interface {
	Libraries() ([]engine.LibraryInfo, error)
	Sessions() ([]session.Info, error)
	ResetSessionIds(backupPath string) error
}

// Server adapts Admin to the AdminService wire contract.
type Server struct {
	pb.UnimplementedAdminServiceServer
	admin  Admin
	logger *zap.Logger
}

func NewServer(admin Admin, logger *zap.Logger) *Server {
	return &Server{admin: admin, logger: logger}
}

// Serve registers the server on a fresh gRPC server and runs it on lis.
// The returned server is handed to the caller for shutdown.
func (s *Server) Serve(lis net.Listener) *grpc.Server {
	gs := grpc.NewServer()
	pb.RegisterAdminServiceServer(gs, s)
	go func() {
		if err := gs.Serve(lis); err != nil {
			s.logger.Warn("admin server stopped", zap.Error(err))
		}
	}()
	return gs
}

func (s *Server) ListLibraries(ctx context.Context, req *pb.ListLibrariesRequest) (*pb.ListLibrariesResponse, error) {
	libs, err := s.admin.Libraries()
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &pb.ListLibrariesResponse{
		Libraries: make([]*pb.LibraryInfo, 0, len(libs)),
	}
	for _, lib := range libs {
		resp.Libraries = append(resp.Libraries, toLibrary(lib))
	}
	return resp, nil
}

func (s *Server) ListSessions(ctx context.Context, req *pb.ListSessionsRequest) (*pb.ListSessionsResponse, error) {
	sessions, err := s.admin.Sessions()
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &pb.ListSessionsResponse{
		Sessions: make([]*pb.SessionInfo, 0, len(sessions)),
	}
	for _, info := range sessions {
		resp.Sessions = append(resp.Sessions, toSession(info))
	}
	return resp, nil
}

// ResetSessionIds reports a refused reset as a normal response rather
// than an RPC error, so operators can distinguish "sessions connected"
// from transport trouble.
func (s *Server) ResetSessionIds(ctx context.Context, req *pb.ResetSessionIdsRequest) (*pb.ResetSessionIdsResponse, error) {
	err := s.admin.ResetSessionIds(req.GetBackupPath())
	switch {
	case err == nil:
		s.logger.Info("session ids reset", zap.String("backup", req.GetBackupPath()))
		return &pb.ResetSessionIdsResponse{Ok: true}, nil
	case errors.Is(err, sessionids.ErrSessionsConnected):
		return &pb.ResetSessionIdsResponse{Ok: false, Reason: err.Error()}, nil
	default:
		return nil, toStatus(err)
	}
}

func toLibrary(lib engine.LibraryInfo) *pb.LibraryInfo {
	return &pb.LibraryInfo{
		Id:                     lib.ID,
		Name:                   lib.Name,
		SessionIds:             lib.SessionIDs,
		LastHeartbeatUnixNanos: lib.LastHeartbeat.UnixNano(),
	}
}

func toSession(info session.Info) *pb.SessionInfo {
	return &pb.SessionInfo{
		Id:              info.ID,
		State:           info.State.String(),
		LocalCompId:     info.Key.LocalCompID,
		RemoteCompId:    info.Key.RemoteCompID,
		LastReceivedSeq: info.LastReceivedSeq,
		LastSentSeq:     info.LastSentSeq,
		Epoch:           info.Epoch,
		Slow:            info.Slow,
		LibraryId:       info.LibraryID,
	}
}

func toStatus(err error) error {
	if errors.Is(err, engine.ErrEngineBusy) || errors.Is(err, engine.ErrTimeout) {
		return status.Error(codes.Unavailable, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
