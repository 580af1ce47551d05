package logrus

import (
	"github.com/sirupsen/logrus"
	nicolascache "github.com/wickeddoc/nicolas-cache"
)

type LogrusLogger struct{ E *logrus.Entry }

func (l LogrusLogger) Debug(msg string, f nicolascache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f nicolascache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Info(msg)
}
func (l LogrusLogger) Warn(msg string, f nicolascache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Warn(msg)
}
func (l LogrusLogger) Error(msg string, f nicolascache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
