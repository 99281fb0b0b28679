package zmq

import (
	"FlatDB/internal/application/service"
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/config"
	"context"
	"fmt"

	"github.com/go-zeromq/zmq4"
	json "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ZmqApi answers record requests on a REP socket, one request at a time.
type ZmqApi struct {
	socket   zmq4.Socket
	config   config.Config
	services *Services
	ctx      context.Context
	cancel   context.CancelFunc
}

type Services struct {
	get    *service.GetRecordService
	read   *service.ReadRecordService
	update *service.UpdateRecordService
	delete *service.DeleteRecordService
	add    *service.AddRecordService
	stats  *service.GetStatsService
}

const (
	FIND   = "FIND"
	READ   = "READ"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
	ADD    = "ADD"
	STATS  = "STATS"
)

var ErrUnknownAction = errors.New("unknown action")

func NewServices(get *service.GetRecordService,
	read *service.ReadRecordService,
	update *service.UpdateRecordService,
	delete *service.DeleteRecordService,
	add *service.AddRecordService,
	stats *service.GetStatsService) *Services {
	return &Services{
		get:    get,
		read:   read,
		update: update,
		delete: delete,
		add:    add,
		stats:  stats,
	}
}

func NewZmqApi(services *Services, conf config.Config) *ZmqApi {
	ctx, cancel := context.WithCancel(context.Background())
	return &ZmqApi{
		socket:   zmq4.NewRep(ctx),
		config:   conf,
		services: services,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (z *ZmqApi) Listen() error {
	address := fmt.Sprintf("tcp://*:%d", z.config.ZmqApiPort)
	if err := z.socket.Listen(address); err != nil {
		return errors.Wrapf(err, "zmq api listen on %s", address)
	}
	logrus.WithField("addr", address).Info("ZMQ API listening")

	for {
		msg, err := z.socket.Recv()
		if err != nil {
			if z.ctx.Err() != nil || errors.Is(err, zmq4.ErrClosedConn) {
				logrus.Info("ZMQ API stopped")
				return nil
			}
			logrus.WithError(err).Warn("zmq api recv")
			continue
		}
		if err := z.socket.Send(z.marshal(z.Handle(msg.Bytes()))); err != nil {
			logrus.WithError(err).Warn("zmq api send")
		}
	}
}

// Handle decodes one request payload and runs it.
func (z *ZmqApi) Handle(payload []byte) ApiResponse {
	var req ApiRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return failure(errors.Wrap(err, "decode request"))
	}
	return z.processRequest(&req)
}

func (z *ZmqApi) processRequest(req *ApiRequest) ApiResponse {
	switch req.Action {
	case FIND:
		result := z.services.get.Execute(service.GetRecordQuery{Name: req.Name})
		if result.Err != nil {
			return failure(result.Err)
		}
		if !result.Found {
			return failure(errors.Wrapf(domain.ErrKeyNotFound, "%q", req.Name))
		}
		return ApiResponse{Success: true, Record: recordResponse(result.Lookup)}

	case READ:
		result := z.services.read.Execute(service.ReadRecordQuery{RecordNum: req.RecordNum})
		if result.Err != nil {
			return failure(result.Err)
		}
		return ApiResponse{Success: true, Record: recordResponse(result.Lookup)}

	case UPDATE:
		record := req.Record
		if req.Name != "" {
			record.Name = req.Name
		}
		result := z.services.update.Execute(service.UpdateRecordCommand{Record: record})
		if result.Err != nil {
			return failure(result.Err)
		}
		return ApiResponse{Success: true, Record: recordResponse(result.Lookup)}

	case DELETE:
		result := z.services.delete.Execute(service.DeleteRecordCommand{Name: req.Name})
		if result.Err != nil {
			return failure(result.Err)
		}
		return ApiResponse{Success: true, Record: recordResponse(result.Lookup)}

	case ADD:
		result := z.services.add.Execute(service.AddRecordCommand{Record: req.Record})
		if result.Err != nil {
			return failure(result.Err)
		}
		return ApiResponse{Success: true, Record: recordResponse(result.Lookup)}

	case STATS:
		result := z.services.stats.Execute()
		if !result.Open {
			return failure(domain.ErrNotOpen)
		}
		return ApiResponse{Success: true, Stats: &result.Stats}

	default:
		logrus.WithField("action", req.Action).Warn("unknown zmq action")
		return failure(errors.Wrapf(ErrUnknownAction, "%q", req.Action))
	}
}

func (z *ZmqApi) marshal(response ApiResponse) zmq4.Msg {
	payload, err := json.Marshal(response)
	if err != nil {
		logrus.WithError(err).Warn("marshal zmq response")
		payload = []byte(`{"success":false}`)
	}
	return zmq4.NewMsg(payload)
}

func (z *ZmqApi) Close() error {
	z.cancel()
	return z.socket.Close()
}
