package utils

import (
	"fmt"
	"math/big"
	"strings"
)

var (
	OneEtherInWei = int64(1_000_000_000_000_000_000)
)

// ParseAmount parses a base-unit amount given as a decimal string, e.g.
// "1000000000000000000" for 1 token with 18 decimals.
func ParseAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("not a base-10 integer")
	}

	if amount.Sign() < 0 {
		return nil, fmt.Errorf("amount cannot be negative")
	}

	return amount, nil
}

// ParseChainId parses a chain id in decimal or 0x-prefixed hex form.
func ParseChainId(s string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok {
		return nil, fmt.Errorf("not an integer")
	}

	if id.Sign() <= 0 {
		return nil, fmt.Errorf("chain id must be positive")
	}

	return id, nil
}

// WeiToEther formats a wei amount for logs.
func WeiToEther(wei *big.Int) string {
	f := new(big.Float).SetInt(wei)
	f = f.Quo(f, new(big.Float).SetInt64(OneEtherInWei))
	return f.Text('f', 6)
}
