package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jwalitptl/care-console/pkg/event"
	"github.com/jwalitptl/care-console/pkg/messaging/redis"
)

// newActivityCmd tails the activity channel, one line per event.
func newActivityCmd(v *viper.Viper, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Print console activity events as they are published",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, appLogger, err := setup(v, *configPath)
			if err != nil {
				return err
			}
			if cfg.Redis.URL == "" {
				return errors.New("redis.url is not set; activity events are not published")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			broker, err := redis.NewRedisBroker(ctx, redis.Config{URL: cfg.Redis.URL}, appLogger)
			if err != nil {
				return err
			}
			defer broker.Close()

			messages, err := broker.Subscribe(ctx, event.Channel)
			if err != nil {
				return err
			}
			for msg := range messages {
				var evt event.Event
				if err := json.Unmarshal(msg, &evt); err != nil {
					appLogger.Warn("skipping malformed activity event", "error", err.Error())
					continue
				}
				cmd.Printf("%s %-20s %s\n", evt.At.Format("2006-01-02T15:04:05Z07:00"), evt.Type, evt.EntityID)
			}
			return nil
		},
	}
}
