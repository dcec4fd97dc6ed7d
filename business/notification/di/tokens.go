// Package di contains dependency injection tokens for the notification context.
package di

import (
	"github.com/fd1az/arbscan/business/notification/app"
	"github.com/fd1az/arbscan/business/notification/infra/stream"
	"github.com/fd1az/arbscan/business/notification/infra/telegram"
	"github.com/fd1az/arbscan/internal/di"
)

// Channels are registered only when enabled; check with Has before resolving.
var (
	Dispatcher = di.NewToken[*app.Dispatcher]("notification.Dispatcher")
	Telegram   = di.NewToken[*telegram.Notifier]("notification.Telegram")
	Stream     = di.NewToken[*stream.Server]("notification.Stream")
)

func GetDispatcher(c di.ServiceRegistry) *app.Dispatcher {
	return di.GetToken(c, Dispatcher)
}
