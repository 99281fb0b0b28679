package service

import (
	"FlatDB/internal/domain"

	"github.com/sirupsen/logrus"
)

// publish never fails the mutation that triggered it.
func publish(notifier domain.ChangeNotifier, repository domain.RecordRepository, kind domain.ChangeKind, lookup domain.Lookup) {
	stats, _ := repository.Stats()
	event := domain.NewChangeEvent(kind, stats.Prefix, lookup)
	if err := notifier.Notify(event); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"kind":       kind,
			"record_num": lookup.RecordNum,
		}).Warn("change notification failed")
	}
}
