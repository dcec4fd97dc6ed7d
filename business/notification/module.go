// Package notification delivers signal-worthy opportunities to Telegram and
// websocket subscribers.
package notification

import (
	"context"
	"time"

	arbApp "github.com/fd1az/arbscan/business/arbitrage/app"
	arbitrageDI "github.com/fd1az/arbscan/business/arbitrage/di"
	"github.com/fd1az/arbscan/business/notification/app"
	notificationDI "github.com/fd1az/arbscan/business/notification/di"
	"github.com/fd1az/arbscan/business/notification/infra/stream"
	"github.com/fd1az/arbscan/business/notification/infra/telegram"
	"github.com/fd1az/arbscan/internal/circuitbreaker"
	"github.com/fd1az/arbscan/internal/config"
	"github.com/fd1az/arbscan/internal/di"
	"github.com/fd1az/arbscan/internal/logger"
	"github.com/fd1az/arbscan/internal/monolith"
	"github.com/fd1az/arbscan/internal/wsconn"
)

const shutdownTimeout = 10 * time.Second

// Module implements the notification bounded context.
type Module struct{}

// RegisterServices registers the enabled channels and the dispatcher. With no
// channel enabled nothing is registered and the scanner runs without a notifier.
func (m *Module) RegisterServices(c di.Container) error {
	cfg := c.Get(monolith.ConfigKey).(*config.Config)
	log := c.Get(monolith.LoggerKey).(logger.LoggerInterface)
	ncfg := cfg.Notification

	var channels []app.Channel

	if ncfg.Telegram.Enabled {
		tg, err := telegram.New(TelegramConfig(ncfg.Telegram), log)
		if err != nil {
			return err
		}
		c.Register(notificationDI.Telegram.Key(), tg)
		channels = append(channels, tg)
	}

	if ncfg.Stream.Enabled {
		hub := wsconn.DefaultConfig()
		srv := stream.NewServer(stream.Config{Addr: ncfg.Stream.Addr, Recent: ncfg.Stream.Recent, Hub: hub}, log)
		c.Register(notificationDI.Stream.Key(), srv)
		channels = append(channels, srv)
	}

	if len(channels) == 0 {
		return nil
	}

	di.RegisterToken(c, notificationDI.Dispatcher, func(di.ServiceRegistry) *app.Dispatcher {
		return app.NewDispatcher(app.DispatcherConfig{Nickname: ncfg.Nickname}, log, channels...)
	})
	di.RegisterToken(c, arbitrageDI.Notifier, func(sr di.ServiceRegistry) arbApp.Notifier {
		return notificationDI.GetDispatcher(sr)
	})
	return nil
}

// Startup starts the delivery loop and the stream listener.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	sr := mono.Services()
	if !sr.Has(notificationDI.Dispatcher.Key()) {
		mono.Logger().Info(ctx, "notification module started", "channels", "none")
		return nil
	}

	if sr.Has(notificationDI.Stream.Key()) {
		srv := di.GetToken(sr, notificationDI.Stream)
		srv.Start(ctx)
		mono.OnClose(func() error {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Stop(sctx)
		})
	}

	d := notificationDI.GetDispatcher(sr)
	d.Start()
	mono.OnClose(func() error {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := d.Stop(sctx)
		sent, dropped, failed := d.Stats()
		mono.Logger().Info(context.Background(), "notification dispatcher stopped",
			"sent", sent, "dropped", dropped, "failed", failed)
		return err
	})

	mono.Logger().Info(ctx, "notification module started", "channels", d.Channels())
	return nil
}

// TelegramConfig maps configuration onto the notifier settings.
func TelegramConfig(cfg config.TelegramConfig) telegram.Config {
	breaker := circuitbreaker.DefaultConfig("telegram")
	if cfg.Breaker.MaxFailures > 0 {
		breaker.MaxFailures = cfg.Breaker.MaxFailures
	}
	if cfg.Breaker.Interval > 0 {
		breaker.Interval = cfg.Breaker.Interval
	}
	if cfg.Breaker.Timeout > 0 {
		breaker.Timeout = cfg.Breaker.Timeout
	}
	return telegram.Config{
		BaseURL:       cfg.BaseURL,
		Tokens:        cfg.Tokens,
		ChatID:        cfg.ChatID,
		RatePerMinute: cfg.RatePerMinute,
		Burst:         cfg.Burst,
		MaxRetries:    cfg.MaxRetries,
		Timeout:       cfg.Timeout,
		Breaker:       breaker,
	}
}
