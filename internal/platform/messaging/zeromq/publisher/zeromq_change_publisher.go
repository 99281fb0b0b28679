package publisher

import (
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/messaging/zeromq/message"
	"context"
	"fmt"
	"sync"

	"github.com/go-zeromq/zmq4"
	json "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const ChangeTopic = "record_change"

// ZeroMQChangePublisher sends every record change on a PUB socket.
// Subscribers that are not connected when an event is sent miss it.
type ZeroMQChangePublisher struct {
	pub zmq4.Socket
	mu  sync.Mutex
}

func NewZeroMQChangePublisher() *ZeroMQChangePublisher {
	return &ZeroMQChangePublisher{
		pub: zmq4.NewPub(context.Background()),
	}
}

func (p *ZeroMQChangePublisher) Listen(port int) error {
	address := fmt.Sprintf("tcp://*:%d", port)
	if err := p.pub.Listen(address); err != nil {
		return errors.Wrapf(err, "change feed listen on %s", address)
	}
	logrus.WithField("addr", address).Info("change feed publishing")
	return nil
}

func (p *ZeroMQChangePublisher) Notify(event domain.ChangeEvent) error {
	payload, err := MarshalChangeMessage(message.ChangeMessageFrom(event))
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pub.Send(zmqMessage(ChangeTopic, payload))
}

func (p *ZeroMQChangePublisher) Close() error {
	return p.pub.Close()
}

func zmqMessage(topic string, payload []byte) zmq4.Msg {
	return zmq4.NewMsgFrom(
		[][]byte{
			[]byte(topic),
			payload,
		}...,
	)
}

func MarshalChangeMessage(msg message.ChangeMessage) ([]byte, error) {
	return json.Marshal(msg)
}
