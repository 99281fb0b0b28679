package bootstrap

import (
	"FlatDB/internal/application/service"
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/api/zmq"
	"FlatDB/internal/platform/config"
	"FlatDB/internal/platform/messaging/zeromq/publisher"
	"FlatDB/internal/platform/repository"
	"FlatDB/internal/platform/server"
	"FlatDB/internal/platform/server/handler/database"
	"FlatDB/internal/platform/server/handler/record"
	"context"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"
)

// NewContainer wires every use case over one repository. The HTTP server
// and zmq API are provided but only built when something asks for them.
func NewContainer(conf config.Config) (*dig.Container, error) {
	container := dig.New()
	if err := container.Provide(func() config.Config { return conf }); err != nil {
		return nil, err
	}
	if err := container.Provide(repository.NewFlatFileRecordRepository,
		dig.As(new(domain.RecordRepository), new(domain.DatabaseBuilder))); err != nil {
		return nil, err
	}
	serviceConstructors := []interface{}{
		changeNotifier,
		service.NewBuildDatabaseService,
		service.NewOpenDatabaseService,
		service.NewCloseDatabaseService,
		service.NewGetStatsService,
		service.NewGetRecordService,
		service.NewReadRecordService,
		service.NewUpdateRecordService,
		service.NewDeleteRecordService,
		service.NewAddRecordService,
		service.NewReportService,
		service.NewVerifyDatabaseService,
		record.NewRecordHandler,
		database.NewDatabaseHandler,
		server.NewServer,
		zmq.NewServices,
		zmq.NewZmqApi,
	}
	for _, constructor := range serviceConstructors {
		if err := container.Provide(constructor); err != nil {
			return nil, err
		}
	}
	return container, nil
}

// Run serves HTTP, and zmq when a port is configured, until SIGINT or SIGTERM.
func Run(conf config.Config) error {
	container, err := NewContainer(conf)
	if err != nil {
		return err
	}
	return container.Invoke(func(s *server.Server,
		api *zmq.ZmqApi,
		repo domain.RecordRepository,
		notifier domain.ChangeNotifier,
		open *service.OpenDatabaseService) error {
		if conf.DefaultPrefix != "" {
			if result := open.Execute(service.OpenDatabaseCommand{Prefix: conf.DefaultPrefix}); result.Err != nil {
				return errors.Wrapf(result.Err, "open default database %s", conf.DefaultPrefix)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		eg, ctx := errgroup.WithContext(ctx)

		eg.Go(s.Run)
		if conf.ZmqApiPort != 0 {
			eg.Go(api.Listen)
		}
		eg.Go(func() error {
			<-ctx.Done()
			logrus.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err := s.Shutdown(shutdownCtx)
			if conf.ZmqApiPort != 0 {
				api.Close()
			}
			return err
		})

		err := eg.Wait()
		if repo.IsOpen() {
			if cerr := repo.Close(); cerr != nil {
				logrus.WithError(cerr).Error("close database")
			}
		}
		if closer, ok := notifier.(io.Closer); ok {
			closer.Close()
		}
		return err
	})
}

func changeNotifier(conf config.Config) (domain.ChangeNotifier, error) {
	if conf.ChangeFeedPort == 0 {
		return domain.NopChangeNotifier{}, nil
	}
	pub := publisher.NewZeroMQChangePublisher()
	if err := pub.Listen(conf.ChangeFeedPort); err != nil {
		return nil, err
	}
	return pub, nil
}
