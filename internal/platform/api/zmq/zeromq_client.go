package zmq

import (
	"context"
	"time"

	"github.com/go-zeromq/zmq4"
	json "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var ErrRequestTimeout = errors.New("request timeout")

// ZmqClient is a REQ socket speaking the ZmqApi protocol. It is not safe
// for concurrent use; REQ sockets alternate strictly between send and recv.
type ZmqClient struct {
	socket  zmq4.Socket
	timeout time.Duration
}

func NewZmqClient(address string, timeout time.Duration) (*ZmqClient, error) {
	socket := zmq4.NewReq(context.Background())
	if err := socket.Dial(address); err != nil {
		return nil, errors.Wrapf(err, "connect to %s", address)
	}
	return &ZmqClient{
		socket:  socket,
		timeout: timeout,
	}, nil
}

func (c *ZmqClient) SendRequest(req ApiRequest) (ApiResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return ApiResponse{}, errors.Wrap(err, "marshal request")
	}
	if err := c.socket.Send(zmq4.NewMsg(payload)); err != nil {
		return ApiResponse{}, errors.Wrap(err, "send request")
	}

	msgChan := make(chan zmq4.Msg, 1)
	errChan := make(chan error, 1)
	go func() {
		msg, err := c.socket.Recv()
		if err != nil {
			errChan <- err
			return
		}
		msgChan <- msg
	}()

	select {
	case msg := <-msgChan:
		var resp ApiResponse
		if err := json.Unmarshal(msg.Bytes(), &resp); err != nil {
			return ApiResponse{}, errors.Wrap(err, "unmarshal response")
		}
		return resp, nil
	case err := <-errChan:
		return ApiResponse{}, err
	case <-time.After(c.timeout):
		return ApiResponse{}, ErrRequestTimeout
	}
}

func (c *ZmqClient) Close() error {
	return c.socket.Close()
}
