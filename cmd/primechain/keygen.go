package main

import (
	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jholdings/primechain"
	"github.com/jholdings/primechain/big"
	"github.com/jholdings/primechain/internal/common"
	"github.com/jholdings/primechain/keystore"
)

// A coin flip partition of a chain of length n is degenerate with probability 2^(1-n).
const maxPartitionAttempts = 32

var (
	keygenUser      string
	keygenPassword  string
	keygenPartition string
)

type keygenOutput struct {
	ChainLength int        `json:"chainLength"`
	BitLength   int        `json:"bitLength"`
	PublicKey   *big.Int   `json:"publicKey"`
	PrivateKey  []*big.Int `json:"privateKey"`
	Prime       *big.Int   `json:"prime"`
	StoredFor   string     `json:"storedFor,omitempty"`
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a prime chain and derive a key pair from it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if keygenUser != "" && keygenPassword == "" {
			return errors.WrapPrefix(primechain.ErrInvalidArgument, "--store requires --password", 0)
		}
		length, bits := viper.GetInt("chain.length"), viper.GetInt("chain.bits")

		gen := primechain.NewGenerator(newOracle())
		gen.Follower = &logFollower{logger: logrus.StandardLogger()}
		chain, err := gen.Generate(length, bits)
		if err != nil {
			return err
		}

		kp, err := deriveKeys(chain)
		if err != nil {
			return err
		}
		prime, err := kp.DecryptionPrime()
		if err != nil {
			return err
		}

		out := keygenOutput{
			ChainLength: len(chain),
			BitLength:   bits,
			PublicKey:   kp.PublicKey,
			PrivateKey:  kp.PrivateKey,
			Prime:       prime,
		}
		if keygenUser != "" {
			if err = storeKey(keygenUser, keygenPassword, kp.PrivateKey); err != nil {
				return err
			}
			out.StoredFor = keygenUser
		}
		return writeJSON(cmd.OutOrStdout(), out)
	},
}

func deriveKeys(chain primechain.PrimeChain) (*primechain.KeyPair, error) {
	var strategy primechain.PartitionStrategy
	switch keygenPartition {
	case "coinflip":
		strategy = primechain.CoinFlipPartition{}
	case "alternating":
		return primechain.GenerateKeysFromPrimeChain(chain, primechain.AlternatingPartition{})
	default:
		return nil, errors.WrapPrefix(primechain.ErrInvalidArgument, "unknown partition "+keygenPartition, 0)
	}

	var err error
	for i := 0; i < maxPartitionAttempts; i++ {
		var kp *primechain.KeyPair
		kp, err = primechain.GenerateKeysFromPrimeChain(chain, strategy)
		if err == nil {
			return kp, nil
		}
		if !errors.Is(err, primechain.ErrDegenerateKeyPair) {
			return nil, err
		}
	}
	return nil, err
}

func storeKey(user, password string, privateKey []*big.Int) error {
	store, err := keystore.Open(viper.GetString("keystore.path"))
	if err != nil {
		return err
	}
	defer common.Close(store)

	rec, err := keystore.Seal(privateKey, password, nil)
	if err != nil {
		return err
	}
	return store.Put(user, rec)
}

func init() {
	flags := keygenCmd.Flags()
	flags.Int("length", 10, "number of primes in the chain")
	flags.Int("bits", 2048, "bit length of the first prime")
	flags.StringVar(&keygenUser, "store", "", "seal the private key in the keystore under this user id")
	flags.StringVar(&keygenPassword, "password", "", "password sealing the stored private key")
	flags.StringVar(&keygenPartition, "partition", "coinflip", "partition strategy: coinflip or alternating")
	bindFlag("chain.length", flags.Lookup("length"))
	bindFlag("chain.bits", flags.Lookup("bits"))

	rootCmd.AddCommand(keygenCmd)
}
