package primechain

import (
	"github.com/jholdings/primechain/primality"
	"github.com/jholdings/primechain/shard"
	"github.com/jholdings/primechain/validator"
	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func init() {
	SetLogger(logrus.StandardLogger())
}

// SetLogger sets the logger of this package and of the primality, validator and shard packages.
func SetLogger(l *logrus.Logger) {
	Logger = l
	primality.Logger = l
	validator.Logger = l
	shard.Logger = l
}
