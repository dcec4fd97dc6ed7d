// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/fd1az/arbscan/business/arbitrage/app"
	"github.com/fd1az/arbscan/business/arbitrage/domain"
	"github.com/fd1az/arbscan/internal/di"
)

// Public service tokens. Reporter and Notifier are supplied from outside the
// module: main picks the reporter, the notification module registers the notifier.
var (
	Engine   = di.NewToken[*app.Engine]("arbitrage.Engine")
	Scanner  = di.NewToken[*app.Scanner]("arbitrage.Scanner")
	Reporter = di.NewToken[app.Reporter]("arbitrage.Reporter")
	Notifier = di.NewToken[app.Notifier]("arbitrage.Notifier")
	Recorder = di.NewToken[app.Recorder]("arbitrage.Recorder")
)

// Private dependency tokens
var (
	Policy = di.NewToken[domain.SignalPolicy]("arbitrage:policy")
)

func GetEngine(c di.ServiceRegistry) *app.Engine {
	return di.GetToken(c, Engine)
}

func GetScanner(c di.ServiceRegistry) *app.Scanner {
	return di.GetToken(c, Scanner)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}
