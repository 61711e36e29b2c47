package main

import (
	"github.com/sirupsen/logrus"
)

// logFollower reports chain generation progress through logrus.
type logFollower struct {
	logger *logrus.Logger
	desc   string
	total  int
	done   int
}

func (f *logFollower) StepStart(desc string, intermediates int) {
	f.desc, f.total, f.done = desc, intermediates, 0
	f.logger.WithField("primes", intermediates).Info(desc)
}

func (f *logFollower) Tick() {
	f.done++
	f.logger.WithFields(logrus.Fields{
		"step":  f.desc,
		"found": f.done,
		"of":    f.total,
	}).Debug("prime found")
}

func (f *logFollower) StepDone() {
	f.logger.WithField("step", f.desc).Info("done")
}
