package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/sisu-network/bridge-transfer/chains/eth"
	"github.com/sisu-network/bridge-transfer/config"
	"github.com/sisu-network/bridge-transfer/core"
	"github.com/sisu-network/lib/log"
)

// dial is replaced in tests.
var dial = eth.NewEthClient

func loadEnv() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Cannot load .env file, err = ", err)
	}
}

// run returns the process exit code. Every failure ends here.
func run(ctx context.Context, getenv func(string) string) int {
	if err := transfer(ctx, getenv); err != nil {
		log.Error(err)
		return 1
	}

	return 0
}

func transfer(ctx context.Context, getenv func(string) string) error {
	cfg := config.LoadFromEnv(getenv)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := cfg.LoadContract(); err != nil {
		return err
	}

	params, err := cfg.Parse()
	if err != nil {
		return err
	}

	client, err := dial(ctx, params.Rpc)
	if err != nil {
		return err
	}
	defer client.Close()

	opts, err := eth.NewTransactor(ctx, client, params.PrivateKey)
	if err != nil {
		return err
	}

	bridge, err := eth.NewBridge(params.Bridge, client, params.Contract)
	if err != nil {
		return err
	}

	newToken := func(token common.Address) (core.Approver, error) {
		t, err := eth.NewToken(token, client)
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	processor := core.NewProcessor(opts, bridge, newToken, eth.NewReceiptWaiter(client))
	_, err = processor.Execute(ctx, params.Transfer)

	return err
}

func main() {
	loadEnv()
	os.Exit(run(context.Background(), os.Getenv))
}
