package main

import (
	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jholdings/primechain"
	"github.com/jholdings/primechain/big"
	"github.com/jholdings/primechain/internal/common"
	"github.com/jholdings/primechain/keystore"
)

var (
	cipherPublicKey string
	cipherPrime     string
	cipherUser      string
	cipherPassword  string
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt MESSAGE",
	Short: "Encrypt a message under a public key, modulo a prime of its chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pk, prime, err := cipherOperands()
		if err != nil {
			return err
		}
		c, err := primechain.EncryptString(args[0], pk, prime)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), struct {
			Ciphertext *big.Int `json:"ciphertext"`
		}{c})
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt CIPHERTEXT",
	Short: "Decrypt a ciphertext with a private prime, given directly or unsealed from the keystore",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := parseInt(args[0])
		if err != nil {
			return err
		}
		pk, prime, err := cipherOperands()
		if err != nil {
			return err
		}
		m, err := primechain.DecryptString(c, pk, prime)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), struct {
			Message string `json:"message"`
		}{m})
	},
}

// cipherOperands parses --public-key and either --prime or the private key of --user.
func cipherOperands() (pk, prime *big.Int, err error) {
	if pk, err = parseInt(cipherPublicKey); err != nil {
		return nil, nil, errors.WrapPrefix(err, "--public-key", 0)
	}
	switch {
	case cipherPrime != "":
		prime, err = parseInt(cipherPrime)
		if err != nil {
			return nil, nil, errors.WrapPrefix(err, "--prime", 0)
		}
	case cipherUser != "":
		prime, err = storedPrime(cipherUser, cipherPassword, pk)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, errors.WrapPrefix(primechain.ErrInvalidArgument, "--prime or --user required", 0)
	}
	return pk, prime, nil
}

func storedPrime(user, password string, pk *big.Int) (*big.Int, error) {
	store, err := keystore.Open(viper.GetString("keystore.path"))
	if err != nil {
		return nil, err
	}
	defer common.Close(store)

	rec, err := store.Get(user)
	if err != nil {
		return nil, err
	}
	privateKey, err := rec.Open(password)
	if err != nil {
		return nil, err
	}
	kp := &primechain.KeyPair{PublicKey: pk, PrivateKey: privateKey}
	return kp.DecryptionPrime()
}

var forgetCmd = &cobra.Command{
	Use:   "forget USER",
	Short: "Delete the sealed private key of a user from the keystore",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := keystore.Open(viper.GetString("keystore.path"))
		if err != nil {
			return err
		}
		defer common.Close(store)
		if err = store.Delete(args[0]); err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), struct {
			Deleted string `json:"deleted"`
		}{args[0]})
	},
}

func init() {
	for _, c := range []*cobra.Command{encryptCmd, decryptCmd} {
		c.Flags().StringVar(&cipherPublicKey, "public-key", "", "public key, decimal or base64")
		c.Flags().StringVar(&cipherPrime, "prime", "", "modulus prime, decimal or base64")
	}
	decryptCmd.Flags().StringVar(&cipherUser, "user", "", "unseal the private key of this user from the keystore")
	decryptCmd.Flags().StringVar(&cipherPassword, "password", "", "password of the sealed private key")

	rootCmd.AddCommand(encryptCmd, decryptCmd, forgetCmd)
}
