package grpc

import (
	"context"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mr1hm/go-disaster-relief/internal/models"
	"github.com/mr1hm/go-disaster-relief/internal/repository"
)

const listProcessedLimit = 100

type Server struct {
	repo        repository.ProcessedAlertRepository
	broadcaster *Broadcaster
	grpcServer  *grpc.Server
}

func NewServer(repo repository.ProcessedAlertRepository, broadcaster *Broadcaster) *Server {
	s := &Server{
		repo:        repo,
		broadcaster: broadcaster,
		grpcServer:  grpc.NewServer(),
	}
	RegisterReliefServiceServer(s.grpcServer, s)
	return s
}

func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	slog.Info("gRPC server listening", "addr", addr)
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}

func (s *Server) ListProcessedAlerts(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	alerts, err := s.repo.ListProcessed(ctx, repository.Filter{Limit: listProcessedLimit})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to list processed alerts: %v", err)
	}

	values := make([]any, 0, len(alerts))
	for _, a := range alerts {
		values = append(values, map[string]any{
			"alert_id":     a.AlertID,
			"severity":     a.Severity,
			"event":        a.Event,
			"area_desc":    a.AreaDesc,
			"processed_at": a.ProcessedAt.UTC().Format(time.RFC3339),
		})
	}

	list, err := structpb.NewList(values)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode processed alerts: %v", err)
	}
	return list, nil
}

func (s *Server) StreamDispatches(_ *emptypb.Empty, stream DispatchStream) error {
	id, ch := s.broadcaster.Subscribe()
	defer s.broadcaster.Unsubscribe(id)

	slog.Info("client subscribed to dispatch stream", "subscriber_id", id)

	for {
		select {
		case <-stream.Context().Done():
			slog.Info("client disconnected from dispatch stream", "subscriber_id", id)
			return nil
		case e, ok := <-ch:
			if !ok {
				return nil
			}

			msg, err := toStruct(e)
			if err != nil {
				slog.Error("failed to encode dispatch event", "error", err, "subscriber_id", id)
				continue
			}
			if err := stream.Send(msg); err != nil {
				slog.Error("failed to send dispatch event to stream", "error", err, "subscriber_id", id)
				return err
			}
		}
	}
}

func toStruct(e *models.DispatchEvent) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"user_id":     e.UserID,
		"email":       e.Email,
		"zip_code":    e.ZipCode,
		"alert_id":    e.AlertID,
		"event":       e.Event,
		"severity":    e.Severity,
		"outcome":     string(e.Outcome),
		"payout_sent": e.PayoutSent,
		"error":       e.Error,
		"at":          e.At.UTC().Format(time.RFC3339),
	})
}
