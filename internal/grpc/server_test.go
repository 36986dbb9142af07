package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mr1hm/go-disaster-relief/internal/models"
	"github.com/mr1hm/go-disaster-relief/internal/repository"
)

type stubProcessedRepo struct {
	alerts []models.ProcessedAlert
}

func (r *stubProcessedRepo) Exists(ctx context.Context, alertID string) (bool, error) {
	for _, a := range r.alerts {
		if a.AlertID == alertID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProcessedRepo) MarkProcessed(ctx context.Context, p *models.ProcessedAlert) (bool, error) {
	r.alerts = append(r.alerts, *p)
	return true, nil
}

func (r *stubProcessedRepo) ListProcessed(ctx context.Context, opts repository.Filter) ([]models.ProcessedAlert, error) {
	return r.alerts, nil
}

func startTestServer(t *testing.T, repo repository.ProcessedAlertRepository, b *Broadcaster) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := NewServer(repo, b)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial bufconn: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServer_ListProcessedAlerts(t *testing.T) {
	repo := &stubProcessedRepo{alerts: []models.ProcessedAlert{
		{AlertID: "alert-1", Severity: "Extreme", Event: "Flood Warning", AreaDesc: "Tangipahoa", ProcessedAt: time.Now()},
		{AlertID: "alert-2", Severity: "Minor", Event: "Wind Advisory", AreaDesc: "Orleans", ProcessedAt: time.Now()},
	}}
	conn := startTestServer(t, repo, NewBroadcaster())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := new(structpb.ListValue)
	if err := conn.Invoke(ctx, ListProcessedAlertsFullMethod, &emptypb.Empty{}, out); err != nil {
		t.Fatalf("ListProcessedAlerts failed: %v", err)
	}

	if len(out.Values) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(out.Values))
	}
	first := out.Values[0].GetStructValue().GetFields()
	if first["alert_id"].GetStringValue() != "alert-1" {
		t.Errorf("expected alert-1, got %s", first["alert_id"].GetStringValue())
	}
	if first["severity"].GetStringValue() != "Extreme" {
		t.Errorf("expected Extreme, got %s", first["severity"].GetStringValue())
	}
}

func TestServer_StreamDispatches(t *testing.T) {
	b := NewBroadcaster()
	conn := startTestServer(t, &stubProcessedRepo{}, b)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := conn.NewStream(ctx, &grpc.StreamDesc{ServerStreams: true}, StreamDispatchesFullMethod)
	if err != nil {
		t.Fatalf("NewStream failed: %v", err)
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		t.Fatalf("SendMsg failed: %v", err)
	}
	if err := stream.CloseSend(); err != nil {
		t.Fatalf("CloseSend failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for b.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timeout waiting for stream subscription")
		}
		time.Sleep(5 * time.Millisecond)
	}

	b.Broadcast(&models.DispatchEvent{
		UserID:     "user-1",
		ZipCode:    "70401",
		AlertID:    "alert-1",
		Outcome:    models.OutcomeNotified,
		PayoutSent: true,
		At:         time.Now(),
	})

	msg := new(structpb.Struct)
	if err := stream.RecvMsg(msg); err != nil {
		t.Fatalf("RecvMsg failed: %v", err)
	}
	fields := msg.GetFields()
	if fields["zip_code"].GetStringValue() != "70401" {
		t.Errorf("expected zip 70401, got %s", fields["zip_code"].GetStringValue())
	}
	if fields["outcome"].GetStringValue() != "notified" {
		t.Errorf("expected outcome notified, got %s", fields["outcome"].GetStringValue())
	}
	if !fields["payout_sent"].GetBoolValue() {
		t.Error("expected payout_sent true")
	}

	cancel()
}
