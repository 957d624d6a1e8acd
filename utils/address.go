package utils

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsZeroAddress reports whether s means "no token". Empty strings, "0x0" and the all-zero
// address all count.
func IsZeroAddress(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "0x0") || s == "0" {
		return true
	}

	return common.IsHexAddress(s) && common.HexToAddress(s) == (common.Address{})
}

func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("not a hex address")
	}

	return common.HexToAddress(s), nil
}
