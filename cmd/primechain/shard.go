package main

import (
	"strconv"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/jholdings/primechain"
	"github.com/jholdings/primechain/big"
	"github.com/jholdings/primechain/primality"
	"github.com/jholdings/primechain/shard"
)

var (
	shardPrimes  []string
	shardIndices []int
)

var shardCmd = &cobra.Command{
	Use:   "shard",
	Short: "Assign shard primes and derive record identifiers",
}

var shardAssignCmd = &cobra.Command{
	Use:   "assign [PRIME...]",
	Short: "Print the prime for a new shard, given the primes assigned so far",
	RunE: func(cmd *cobra.Command, args []string) error {
		existing, err := parsePrimes(args)
		if err != nil {
			return err
		}
		p, err := shard.NewAssigner(primality.New(nil), searchBudget()).AssignPrimeToShard(existing)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), struct {
			Prime uint64 `json:"prime"`
		}{p})
	},
}

var shardIDCmd = &cobra.Command{
	Use:   "id",
	Short: "Print the record identifier of a record stored on the given shards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		primes, err := parsePrimes(shardPrimes)
		if err != nil {
			return err
		}
		id := shard.GenerateRecordID(primes, shardIndices)
		return writeJSON(cmd.OutOrStdout(), struct {
			ID      *big.Int `json:"id"`
			Decimal string   `json:"decimal"`
		}{id, id.String()})
	},
}

func parsePrimes(args []string) ([]uint64, error) {
	primes := make([]uint64, len(args))
	for i, a := range args {
		p, err := strconv.ParseUint(a, 10, 64)
		if err != nil {
			return nil, errors.WrapPrefix(primechain.ErrInvalidArgument, "shard prime "+a, 0)
		}
		primes[i] = p
	}
	return primes, nil
}

func init() {
	shardIDCmd.Flags().StringSliceVar(&shardPrimes, "primes", nil, "shard primes")
	shardIDCmd.Flags().IntSliceVar(&shardIndices, "indices", nil, "indices of the shards holding the record")

	shardCmd.AddCommand(shardAssignCmd, shardIDCmd)
	rootCmd.AddCommand(shardCmd)
}
