package pubsub

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/sirupsen/logrus"
)

// NewLogrusLogger adapts logrus to watermill's logger interface.
func NewLogrusLogger(logger *logrus.Entry) watermill.LoggerAdapter {
	return logrusAdapter{logger: logger}
}

type logrusAdapter struct {
	logger *logrus.Entry
}

func (l logrusAdapter) Error(msg string, err error, fields watermill.LogFields) {
	l.logger.WithError(err).WithFields(logrus.Fields(fields)).Error(msg)
}

func (l logrusAdapter) Info(msg string, fields watermill.LogFields) {
	l.logger.WithFields(logrus.Fields(fields)).Info(msg)
}

func (l logrusAdapter) Debug(msg string, fields watermill.LogFields) {
	l.logger.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l logrusAdapter) Trace(msg string, fields watermill.LogFields) {
	l.logger.WithFields(logrus.Fields(fields)).Trace(msg)
}

func (l logrusAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return logrusAdapter{logger: l.logger.WithFields(logrus.Fields(fields))}
}
