package notify_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culturatoken/ctk-platform/internal/adapter"
	"github.com/culturatoken/ctk-platform/internal/logger"
	"github.com/culturatoken/ctk-platform/internal/notify"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeConn struct {
	closed bool
}

func (c *fakeConn) Close()               { c.closed = true }
func (c *fakeConn) LastError() error     { return nil }
func (c *fakeConn) ConnectedUrl() string { return "nats://fake:4222" }

type fakeJetStream struct {
	subjects   []string
	payloads   [][]byte
	publishErr error
}

func (j *fakeJetStream) Publish(_ context.Context, subject string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if j.publishErr != nil {
		return nil, j.publishErr
	}
	j.subjects = append(j.subjects, subject)
	j.payloads = append(j.payloads, data)
	return &jetstream.PubAck{Stream: "LEDGER"}, nil
}

type fakeNatsJetStream struct {
	conn       *fakeConn
	js         *fakeJetStream
	connectErr error
}

func (n *fakeNatsJetStream) Connect(_ string, _ ...nats.Option) (adapter.NatsConn, adapter.JetStream, error) {
	if n.connectErr != nil {
		return nil, nil, n.connectErr
	}
	return n.conn, n.js, nil
}

func newTestPublisher(t *testing.T, fake *fakeNatsJetStream) notify.Publisher {
	t.Helper()
	pub, err := notify.NewPublisher(notify.PublisherConfig{
		URL:            "nats://fake:4222",
		StreamName:     "LEDGER",
		MaxReconnects:  3,
		ReconnectWait:  time.Second,
		ConnectionName: "test",
	}, fake, adapter.NewJSON())
	require.NoError(t, err)
	return pub
}

func TestPublishEvent_SubjectPerEventType(t *testing.T) {
	js := &fakeJetStream{}
	pub := newTestPublisher(t, &fakeNatsJetStream{conn: &fakeConn{}, js: js})
	defer pub.Close()

	events := []struct {
		eventType notify.EventType
		subject   string
	}{
		{notify.EventInvestmentCreated, "ledger.investment.created"},
		{notify.EventRoyaltiesDistributed, "ledger.royalties.distributed"},
		{notify.EventRoyaltiesClaimed, "ledger.royalties.claimed"},
	}

	for _, ev := range events {
		err := pub.PublishEvent(context.Background(), &notify.LedgerEvent{
			ID:         "01A",
			Type:       ev.eventType,
			Email:      "ana@example.com",
			Amount:     500,
			OccurredAt: time.Now(),
		})
		require.NoError(t, err)
	}

	require.Len(t, js.subjects, len(events))
	for i, ev := range events {
		assert.Equal(t, ev.subject, js.subjects[i])
	}
}

func TestPublishEvent_PublishFailure(t *testing.T) {
	js := &fakeJetStream{publishErr: errors.New("stream unavailable")}
	pub := newTestPublisher(t, &fakeNatsJetStream{conn: &fakeConn{}, js: js})
	defer pub.Close()

	err := pub.PublishEvent(context.Background(), &notify.LedgerEvent{
		Type: notify.EventInvestmentCreated,
	})
	assert.ErrorContains(t, err, "failed to publish event")
}

func TestNewPublisher_ConnectFailure(t *testing.T) {
	_, err := notify.NewPublisher(notify.PublisherConfig{URL: "nats://down:4222"},
		&fakeNatsJetStream{connectErr: errors.New("connection refused")}, adapter.NewJSON())
	assert.ErrorContains(t, err, "failed to connect to NATS")
}

func TestClose(t *testing.T) {
	conn := &fakeConn{}
	pub := newTestPublisher(t, &fakeNatsJetStream{conn: conn, js: &fakeJetStream{}})

	pub.Close()
	assert.True(t, conn.closed)
}

func TestRecorder(t *testing.T) {
	rec := notify.NewRecorder()
	rec.Notify(context.Background(), notify.Notice{Level: notify.LevelSuccess, Message: "done"})
	rec.Notify(context.Background(), notify.Notice{Level: notify.LevelError, Message: "failed"})

	notices := rec.Notices()
	require.Len(t, notices, 2)
	assert.Equal(t, notify.LevelSuccess, notices[0].Level)
	assert.Equal(t, "failed", notices[1].Message)

	rec.Reset()
	assert.Empty(t, rec.Notices())
}
