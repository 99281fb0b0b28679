package listener

import (
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/messaging/zeromq/message"
	"context"
	"time"

	"github.com/go-zeromq/zmq4"
	json "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const ChangeTopic = "record_change"

type ChangeHandler func(event domain.ChangeEvent)

type ZeromqChangeListener struct {
	sub     zmq4.Socket
	handler ChangeHandler
}

func NewZeromqChangeListener(ctx context.Context, handler ChangeHandler) *ZeromqChangeListener {
	reconnectOpt := zmq4.WithAutomaticReconnect(true)
	retryOpt := zmq4.WithDialerRetry(time.Second * 5)
	sub := zmq4.NewSub(ctx, reconnectOpt, retryOpt)
	return &ZeromqChangeListener{
		sub:     sub,
		handler: handler,
	}
}

func (z *ZeromqChangeListener) Dial(endpoint string) error {
	if err := z.sub.Dial(endpoint); err != nil {
		return errors.Wrapf(err, "dial change feed %s", endpoint)
	}
	return z.sub.SetOption(zmq4.OptionSubscribe, ChangeTopic)
}

// Listen blocks until the socket is closed or its context is cancelled.
func (z *ZeromqChangeListener) Listen() error {
	for {
		msg, err := z.sub.Recv()
		if err != nil {
			if errors.Is(err, zmq4.ErrClosedConn) || errors.Is(err, context.Canceled) {
				return nil
			}
			return errors.Wrap(err, "receive change")
		}
		if len(msg.Frames) < 2 {
			logrus.WithField("frames", len(msg.Frames)).Warn("dropping short change message")
			continue
		}
		m, err := UnmarshalChangeMessage(msg.Frames[1])
		if err != nil {
			logrus.WithError(err).Warn("dropping undecodable change message")
			continue
		}
		m.Topic = string(msg.Frames[0])
		z.handler(m.ToChangeEvent())
	}
}

func (z *ZeromqChangeListener) Close() error {
	return z.sub.Close()
}

func UnmarshalChangeMessage(data []byte) (message.ChangeMessage, error) {
	var m message.ChangeMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return message.ChangeMessage{}, errors.Wrap(err, "unmarshal change message")
	}
	return m, nil
}
