package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type contractFile struct {
	Contract Contract `toml:"contract"`
}

// LoadContractConfig decodes the [contract] section of a toml file, e.g.
//
//	[contract]
//	abi = '[{"name":"bridgeOut", ...}]'
//	token_deposit_method = "bridgeOut"
func LoadContractConfig(path string) (Contract, error) {
	file := contractFile{}
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return Contract{}, fmt.Errorf("cannot decode contract config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Contract{}, fmt.Errorf("unknown keys in contract config %s: %v", path, undecoded)
	}

	return file.Contract, nil
}

// LoadContract fills b.Contract from b.ContractConfig when a path is set.
func (b *Bridge) LoadContract() error {
	if b.ContractConfig == "" {
		return nil
	}

	contract, err := LoadContractConfig(b.ContractConfig)
	if err != nil {
		return NewInvalidConfigErr(EnvContractConfig, b.ContractConfig, err)
	}

	b.Contract = contract
	return nil
}
