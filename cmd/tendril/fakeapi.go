package main

import (
	"time"

	"github.com/aretw0/tendril/internal/cli"
	"github.com/aretw0/tendril/internal/config"
	"github.com/aretw0/tendril/pkg/adapters/fakeapi"
	"github.com/spf13/cobra"
)

var fakeapiCmd = &cobra.Command{
	Use:   "fakeapi",
	Short: "Run the fake REST API backed by memory or Redis",
	Long: `Serves /todos and /fakeApi/{posts,users} for the todos and posts thunks.
With --redis (or fakeapi.redis.addr) records live in Redis, otherwise in memory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if flags.Changed("port") {
			cfg.FakeAPI.Port, _ = flags.GetInt("port")
		}
		if flags.Changed("redis") {
			cfg.FakeAPI.Redis.Addr, _ = flags.GetString("redis")
		}
		if flags.Changed("delay") {
			d, _ := flags.GetDuration("delay")
			cfg.FakeAPI.Delay = config.Duration(d)
		}
		if flags.Changed("seed") {
			cfg.FakeAPI.Seed, _ = flags.GetBool("seed")
		}

		backend, closer, err := cli.OpenBackend(cmd.Context(), cfg.FakeAPI, logger)
		if err != nil {
			return err
		}
		defer closer.Close()

		h := fakeapi.NewHandler(backend,
			fakeapi.WithDelay(time.Duration(cfg.FakeAPI.Delay)),
			fakeapi.WithLogger(logger),
		)
		return listen(cmd.Context(), "fakeapi", cfg.FakeAPI.Port, h)
	},
}

func init() {
	rootCmd.AddCommand(fakeapiCmd)
	fakeapiCmd.Flags().IntP("port", "p", 3000, "Port to listen on (overrides fakeapi.port)")
	fakeapiCmd.Flags().String("redis", "", "Redis address; empty keeps records in memory")
	fakeapiCmd.Flags().Duration("delay", 500*time.Millisecond, "Artificial latency per request")
	fakeapiCmd.Flags().Bool("seed", true, "Load the demo todos, posts and users")
}
