// sdkcheck calls every SDK facade once against the configured host and prints the
// replies. It is meant for checking a host deployment by hand.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"cafe_task/internal/payload"
	"cafe_task/internal/sdk"
	"cafe_task/internal/shared/config"
	"cafe_task/internal/shared/logger"
	"cafe_task/internal/shared/types"
)

func main() {
	configPath := flag.String("config", "configs/task.ini", "Path to the task ini file")
	flag.Parse()

	_ = godotenv.Load()

	cfg := types.DefaultConfig()
	if err := config.Load(cfg, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to load config file '%s': %v\n", *configPath, err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	conn, err := sdk.Dial(cfg.RPCConf)
	if err != nil {
		logger.Fatal().Err(err).Msgf("Failed to create channel to '%s'", cfg.RPCConf.Address)
	}
	defer conn.Close()

	if err := check(context.Background(), sdk.New(conn, cfg.RPCConf.ServicePackage)); err != nil {
		conn.Close()
		logger.Fatal().Err(err).Msg("SDK check failed")
	}
}

func check(ctx context.Context, c *sdk.Client) error {
	raw, err := c.Parameter.GetInputJSONString(ctx)
	if err != nil {
		return err
	}
	fmt.Println("GetInputJSONString:", raw)

	params, err := c.Parameter.GetInputJSONMap(ctx)
	if err != nil {
		return err
	}
	fmt.Println("GetInputJSONMap:", params)

	ack, err := c.Result.PushData(ctx, payload.NewMap().SetString("go-data-key", "go-data-value"))
	if err != nil {
		return err
	}
	fmt.Println("PushData:", ack.Code, ack.Message)

	logs := []struct {
		name string
		send func(context.Context, string) (sdk.Ack, error)
		msg  string
	}{
		{"Log.Debug", c.Log.Debug, "go-debug..."},
		{"Log.Debug", c.Log.Debug, "params=" + params.String()},
		{"Log.Info", c.Log.Info, "go-info..."},
		{"Log.Warn", c.Log.Warn, "go-warn..."},
		{"Log.Error", c.Log.Error, "go-error..."},
	}
	for _, l := range logs {
		ack, err := l.send(ctx, l.msg)
		if err != nil {
			return fmt.Errorf("%s: %w", l.name, err)
		}
		fmt.Println(l.name+":", ack.Code, ack.Message)
	}
	return nil
}
