package main

import (
	logger "github.com/sirupsen/logrus"
)

// UTCFormatter normalizes every log entry's timestamp to UTC before
// delegating to the wrapped formatter, so logs from zones running on
// different hosts line up.
type UTCFormatter struct {
	logger.Formatter
}

func (u UTCFormatter) Format(e *logger.Entry) ([]byte, error) {
	e.Time = e.Time.UTC()
	return u.Formatter.Format(e)
}

// newLogger returns a zone-tagged entry: every line it logs carries
// "zone"=zoneID so interleaved output from concurrent workers stays
// attributable. instrument raises the level to Debug; otherwise the level
// stays at Info. The activity-timing report itself is logged at Info level.
func newLogger(zoneID int, instrument bool) *logger.Entry {
	log := logger.New()
	if instrument {
		log.SetLevel(logger.DebugLevel)
	} else {
		log.SetLevel(logger.InfoLevel)
	}
	customFormatter := new(logger.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05.000"
	log.SetFormatter(UTCFormatter{customFormatter})
	return log.WithField("zone", zoneID)
}
