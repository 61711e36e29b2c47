package main

import (
	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jholdings/primechain"
	"github.com/jholdings/primechain/big"
	"github.com/jholdings/primechain/validator"
)

type validateOutput struct {
	Digest    string   `json:"digest"`
	Candidate *big.Int `json:"candidate"`
	Valid     bool     `json:"valid"`
}

var validateCmd = &cobra.Command{
	Use:   "validate PAYLOAD",
	Short: "Validate a transaction payload; exits non-zero when fraud is suspected",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := newValidator()
		if err != nil {
			return err
		}
		digest, err := v.HashData([]byte(args[0]))
		if err != nil {
			return err
		}
		candidate, err := v.PrimeFromHash(digest)
		if err != nil {
			return err
		}
		out := validateOutput{
			Digest:    digest.HexString(),
			Candidate: candidate,
			Valid:     v.IsPrime(candidate),
		}
		if err = writeJSON(cmd.OutOrStdout(), out); err != nil {
			return err
		}
		if !out.Valid {
			return errors.WrapPrefix(validator.ErrFraudSuspected, "payload rejected", 0)
		}
		return nil
	},
}

func newValidator() (*validator.Validator, error) {
	name := viper.GetString("validator.hash")
	code, ok := multihash.Names[name]
	if !ok {
		return nil, errors.WrapPrefix(primechain.ErrInvalidArgument, "unknown hash function "+name, 0)
	}
	return validator.New(viper.GetInt("validator.bitwidth"), viper.GetInt("validator.rounds"),
		validator.WithHash(code))
}

func init() {
	flags := validateCmd.Flags()
	flags.Int("bitwidth", validator.DefaultBitWidth, "bit width of the candidate prime")
	flags.Int("rounds", validator.DefaultRounds, "Miller-Rabin rounds")
	flags.String("hash", "sha2-256", "multihash name of the hash function")
	bindFlag("validator.bitwidth", flags.Lookup("bitwidth"))
	bindFlag("validator.rounds", flags.Lookup("rounds"))
	bindFlag("validator.hash", flags.Lookup("hash"))

	rootCmd.AddCommand(validateCmd)
}
