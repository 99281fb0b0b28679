package listener

import (
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/messaging/zeromq/message"
	"FlatDB/internal/platform/messaging/zeromq/publisher"
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestUnmarshalChangeMessage(t *testing.T) {
	payload, err := publisher.MarshalChangeMessage(message.ChangeMessage{
		Id:        "id-1",
		Kind:      "DELETE",
		Prefix:    "Fortune500",
		RecordNum: 4,
		Record:    domain.Record{Name: "Initech"},
	})
	require.NoError(t, err)

	m, err := UnmarshalChangeMessage(payload)
	require.NoError(t, err)
	assert.Equal(t, domain.ChangeDelete, m.ToChangeEvent().Kind)
	assert.Equal(t, "Initech", m.Record.Name)
}

func TestUnmarshalChangeMessage_Garbage(t *testing.T) {
	_, err := UnmarshalChangeMessage([]byte("{not json"))
	assert.Error(t, err)
}

func TestChangeFeed_DeliversPublishedEvents(t *testing.T) {
	port := freePort(t)
	pub := publisher.NewZeroMQChangePublisher()
	require.NoError(t, pub.Listen(port))
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	received := make(chan domain.ChangeEvent, 16)
	sub := NewZeromqChangeListener(ctx, func(event domain.ChangeEvent) {
		received <- event
	})
	require.NoError(t, sub.Dial(fmt.Sprintf("tcp://127.0.0.1:%d", port)))
	defer sub.Close()
	go sub.Listen()

	event := domain.NewChangeEvent(domain.ChangeAdd, "Fortune500", domain.Lookup{
		RecordNum: 6,
		Record:    domain.Record{Name: "Vandelay", Rank: "7"},
	})

	// PUB drops messages until the subscription has propagated.
	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case got := <-received:
			assert.Equal(t, event.Id, got.Id)
			assert.Equal(t, "Vandelay", got.Record.Name)
			return
		case <-ticker.C:
			require.NoError(t, pub.Notify(event))
		case <-deadline:
			t.Fatal("no change event received")
		}
	}
}
