package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jholdings/primechain"
	"github.com/jholdings/primechain/big"
	"github.com/jholdings/primechain/keystore"
	"github.com/jholdings/primechain/primality"
)

var cfgFile string

// rootCmd represents the base command when called without any sub-commands
var rootCmd = &cobra.Command{
	Use:           "primechain",
	Short:         "Prime chain key generation, encryption and transaction validation",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLog)

	viper.SetDefault("chain.length", 10)
	viper.SetDefault("chain.bits", 2048)
	viper.SetDefault("validator.bitwidth", 256)
	viper.SetDefault("validator.rounds", 3)
	viper.SetDefault("validator.hash", "sha2-256")
	viper.SetDefault("search.maxcandidates", 0)
	viper.SetDefault("search.timeout", 0)
	viper.SetDefault("keystore.path", "primechain.db")
	viper.SetDefault("log.level", "info")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.Uint64("max-candidates", 0, "maximum number of candidates per prime search, 0 for unlimited")
	flags.Duration("timeout", 0, "maximum duration of a prime search, 0 for unlimited")
	flags.String("keystore", "primechain.db", "path of the keystore database")

	bindFlag("log.level", flags.Lookup("log-level"))
	bindFlag("search.maxcandidates", flags.Lookup("max-candidates"))
	bindFlag("search.timeout", flags.Lookup("timeout"))
	bindFlag("keystore.path", flags.Lookup("keystore"))
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logrus.Panicf("Error on binding flag %q: %+v", key, err)
	}
}

// initConfig reads in the config file and environment variables, PRIMECHAIN_CHAIN_LENGTH
// overriding chain.length and so on.
func initConfig() {
	viper.SetEnvPrefix("primechain")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Fatalf("Unable to read config file (%s): %v", cfgFile, err)
	}
}

func initLog() {
	logger := logrus.StandardLogger()
	logger.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		logger.Warnf("Invalid log level %q, using info", viper.GetString("log.level"))
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	primechain.SetLogger(logger)
	keystore.Logger = logger
}

func searchBudget() primality.Budget {
	return primality.Budget{
		MaxCandidates: viper.GetUint64("search.maxcandidates"),
		Timeout:       viper.GetDuration("search.timeout"),
	}
}

func newOracle() *primality.Oracle {
	return primality.New(nil).WithBudget(searchBudget())
}

// parseInt accepts decimal, 0x-prefixed hexadecimal and the base64 encoding used in the JSON
// output. A string that parses as a number is never read as base64.
func parseInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.WrapPrefix(primechain.ErrInvalidArgument, "empty integer", 0)
	}
	if i, ok := new(big.Int).SetString(s, 0); ok {
		if i.Sign() < 0 {
			return nil, errors.WrapPrefix(primechain.ErrInvalidArgument, "negative integer", 0)
		}
		return i, nil
	}
	i := new(big.Int)
	if err := i.UnmarshalJSON([]byte(fmt.Sprintf("%q", s))); err != nil {
		return nil, errors.WrapPrefix(err, fmt.Sprintf("cannot parse %q as integer", s), 0)
	}
	return i, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
