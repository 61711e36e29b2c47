package primechain

import (
	"unicode/utf8"

	"github.com/go-errors/errors"

	"github.com/jholdings/primechain/big"
)

// MessageToInt encodes a UTF-8 string as the big-endian integer of its bytes, so that
// IntToMessage(MessageToInt(s)) == s. A leading NUL byte would vanish in the integer, so such
// strings are rejected, as are strings that are not valid UTF-8. The empty string encodes to 0.
func MessageToInt(s string) (*big.Int, error) {
	if !utf8.ValidString(s) {
		return nil, errors.WrapPrefix(ErrInvalidArgument, "message is not valid UTF-8", 0)
	}
	if len(s) > 0 && s[0] == 0 {
		return nil, errors.WrapPrefix(ErrInvalidArgument, "message starts with a NUL byte", 0)
	}
	return new(big.Int).SetBytes([]byte(s)), nil
}

// IntToMessage decodes an integer produced by MessageToInt back into its string.
func IntToMessage(n *big.Int) (string, error) {
	if n == nil || n.Sign() < 0 {
		return "", errors.WrapPrefix(ErrInvalidArgument, "message integer must be non-negative", 0)
	}
	bts := n.Bytes()
	if !utf8.Valid(bts) {
		return "", errors.WrapPrefix(ErrInvalidArgument, "message integer does not decode to UTF-8", 0)
	}
	return string(bts), nil
}
