package main

import (
	"FlatDB/bootstrap"
	"FlatDB/internal/application/service"
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/client"
	"FlatDB/internal/platform/config"
	"FlatDB/internal/platform/logging"
	"FlatDB/internal/platform/messaging/zeromq/listener"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var Version = "development"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func newApp() *cli.App {
	app := &cli.App{
		Name:    "flatdb",
		Usage:   "fixed-width flat-file record store",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server", Usage: "Run record commands against a flatdb server at this URL", EnvVars: []string{"FLATDB_SERVER"}},
			&cli.StringFlag{Name: "data-dir", Usage: "Directory database prefixes are resolved against", EnvVars: []string{"FLATDB_DATA_DIRECTORY"}},
			&cli.StringFlag{Name: "log-level", Usage: "Set log level (panic, fatal, error, warn, info, debug, trace)", EnvVars: []string{"FLATDB_LOG_LEVEL"}},
			&cli.StringFlag{Name: "log-format", Usage: "Log format, text or json", EnvVars: []string{"FLATDB_LOG_FORMAT"}},
		},
		Before: func(c *cli.Context) error {
			conf := loadConfig(c)
			return logging.SetUp(conf.LogLevel, conf.LogFormat)
		},
	}
	app.Commands = []*cli.Command{
		serveCommand(),
		buildCommand(),
		{
			Name:      "get",
			Usage:     "Find a record by name",
			ArgsUsage: "PREFIX NAME",
			Action: withBackend(2, func(c *cli.Context, b backend) error {
				lookup, err := b.Find(c.Args().Get(1))
				if err != nil {
					return err
				}
				return printLookups(c.App.Writer, lookup)
			}),
		},
		{
			Name:      "read",
			Usage:     "Read a record by record number",
			ArgsUsage: "PREFIX RECORD_NUM",
			Action: withBackend(2, func(c *cli.Context, b backend) error {
				recordNum, err := strconv.Atoi(c.Args().Get(1))
				if err != nil {
					return errors.Wrap(domain.ErrInvalidRecordNumber, err.Error())
				}
				lookup, err := b.Read(recordNum)
				if err != nil {
					return err
				}
				return printLookups(c.App.Writer, lookup)
			}),
		},
		{
			Name:      "update",
			Usage:     "Overwrite the non-key fields of a record",
			ArgsUsage: "PREFIX NAME RANK CITY STATE ZIP EMPLOYEES",
			Action: withBackend(1+domain.NumFields, func(c *cli.Context, b backend) error {
				record, err := domain.RecordFromFields(c.Args().Slice()[1:])
				if err != nil {
					return err
				}
				lookup, err := b.Update(record)
				if err != nil {
					return err
				}
				return printLookups(c.App.Writer, lookup)
			}),
		},
		{
			Name:      "delete",
			Usage:     "Blank the non-key fields of a record",
			ArgsUsage: "PREFIX NAME",
			Action: withBackend(2, func(c *cli.Context, b backend) error {
				lookup, err := b.Delete(c.Args().Get(1))
				if err != nil {
					return err
				}
				return printLookups(c.App.Writer, lookup)
			}),
		},
		{
			Name:      "add",
			Usage:     "Append a record to the overflow region",
			ArgsUsage: "PREFIX NAME RANK CITY STATE ZIP EMPLOYEES",
			Action: withBackend(1+domain.NumFields, func(c *cli.Context, b backend) error {
				record, err := domain.RecordFromFields(c.Args().Slice()[1:])
				if err != nil {
					return err
				}
				lookup, err := b.Add(record)
				if err != nil {
					return err
				}
				return printLookups(c.App.Writer, lookup)
			}),
		},
		{
			Name:      "report",
			Usage:     "List the first records of the sorted region",
			ArgsUsage: "PREFIX",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "limit", Usage: "Number of records to list, 0 for the configured default"},
			},
			Action: withBackend(1, func(c *cli.Context, b backend) error {
				lookups, err := b.Report(c.Int("limit"))
				if err != nil {
					return err
				}
				return printLookups(c.App.Writer, lookups...)
			}),
		},
		{
			Name:      "verify",
			Usage:     "Check key order and duplicate keys",
			ArgsUsage: "PREFIX",
			Action: withBackend(1, func(c *cli.Context, b backend) error {
				report, err := b.Verify()
				if err != nil {
					return err
				}
				printVerifyReport(c.App.Writer, report)
				if !report.Sorted() {
					return cli.Exit("", 1)
				}
				return nil
			}),
		},
		watchCommand(),
	}
	return app
}

// loadConfig applies global flags over the .env and environment config.
func loadConfig(c *cli.Context) config.Config {
	conf := config.LoadConfig()
	if v := c.String("data-dir"); v != "" {
		conf.DataDirectory = v
	}
	if v := c.String("log-level"); v != "" {
		conf.LogLevel = v
	}
	if v := c.String("log-format"); v != "" {
		conf.LogFormat = v
	}
	return conf
}

// withBackend checks the positional arguments, opens the database named by
// the first one and closes it after action returns.
func withBackend(nargs int, action func(c *cli.Context, b backend) error) cli.ActionFunc {
	return func(c *cli.Context) (err error) {
		if c.NArg() != nargs {
			return errors.Errorf("%s expects %d arguments: %s", c.Command.Name, nargs, c.Command.ArgsUsage)
		}
		prefix := c.Args().First()
		var b backend
		if url := c.String("server"); url != "" {
			b, err = openRemote(url, prefix)
		} else {
			b, err = openLocal(loadConfig(c), prefix)
		}
		if err != nil {
			return err
		}
		defer func() {
			if cerr := b.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return action(c, b)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the record store over HTTP and ZeroMQ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "HTTP listen host"},
			&cli.IntFlag{Name: "port", Usage: "HTTP listen port"},
			&cli.IntFlag{Name: "zmq-port", Usage: "ZeroMQ REQ/REP API port, 0 disables it"},
			&cli.IntFlag{Name: "feed-port", Usage: "ZeroMQ change feed port, 0 disables it"},
			&cli.StringFlag{Name: "prefix", Usage: "Database to open at startup"},
		},
		Action: func(c *cli.Context) error {
			conf := loadConfig(c)
			if c.IsSet("host") {
				conf.ServerHost = c.String("host")
			}
			if c.IsSet("port") {
				conf.ServerPort = c.Int("port")
			}
			if c.IsSet("zmq-port") {
				conf.ZmqApiPort = c.Int("zmq-port")
			}
			if c.IsSet("feed-port") {
				conf.ChangeFeedPort = c.Int("feed-port")
			}
			if c.IsSet("prefix") {
				conf.DefaultPrefix = c.String("prefix")
			}
			return bootstrap.Run(conf)
		},
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:        "build",
		Usage:       "Build a database from a CSV source, replacing any existing one",
		ArgsUsage:   "SOURCE PREFIX",
		Description: "SOURCE is read relative to the working directory (the server's with --server). PREFIX is placed under --data-dir.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "widths", Usage: "Comma separated field widths", Value: domain.DefaultFieldWidths.String()},
			&cli.BoolFlag{Name: "skip-header", Usage: "Skip a leading NAME,RANK,... header row"},
			&cli.IntFlag{Name: "max-records", Usage: "Stop after this many accepted rows, 0 for no limit"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return errors.Errorf("build expects 2 arguments: %s", c.Command.ArgsUsage)
			}
			source, prefix := c.Args().Get(0), c.Args().Get(1)

			var report domain.BuildReport
			if url := c.String("server"); url != "" {
				r, err := client.NewRecordServerClient(url).Build(client.BuildRequest{
					Source:     source,
					Prefix:     prefix,
					Widths:     c.String("widths"),
					SkipHeader: c.Bool("skip-header"),
					MaxRecords: c.Int("max-records"),
				})
				if err != nil {
					return err
				}
				report = *r
			} else {
				widths, err := domain.ParseFieldWidths(c.String("widths"))
				if err != nil {
					return err
				}
				container, err := bootstrap.NewContainer(loadConfig(c))
				if err != nil {
					return err
				}
				err = container.Invoke(func(build *service.BuildDatabaseService) error {
					result := build.Execute(service.BuildDatabaseCommand{Request: domain.BuildRequest{
						Source:       source,
						Prefix:       prefix,
						Widths:       widths,
						DetectHeader: c.Bool("skip-header"),
						MaxRecords:   c.Int("max-records"),
					}})
					report = result.Report
					return result.Err
				})
				if err != nil {
					return err
				}
			}
			fmt.Fprintf(c.App.Writer, "built %s: %d records, %d skipped, record size %d\n",
				report.Prefix, report.Accepted, report.Skipped, report.RecordSize)
			return nil
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Print record changes published by a flatdb server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "endpoint", Usage: "Change feed endpoint", Value: "tcp://127.0.0.1:5556"},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			sub := listener.NewZeromqChangeListener(ctx, func(event domain.ChangeEvent) {
				printChange(c.App.Writer, event)
			})
			defer sub.Close()
			if err := sub.Dial(c.String("endpoint")); err != nil {
				return err
			}
			logrus.WithField("endpoint", c.String("endpoint")).Info("watching changes")
			err := sub.Listen()
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return err
		},
	}
}
