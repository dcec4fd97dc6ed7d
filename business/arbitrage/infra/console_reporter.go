// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fd1az/arbscan/business/arbitrage/app"
	"github.com/fd1az/arbscan/business/arbitrage/domain"
	"github.com/fd1az/arbscan/internal/apperror"
)

const rule = "================================================================================"
const thinRule = "--------------------------------------------------------------------------------"

// ConsoleReporter implements Reporter for CLI output. Every route gets a one
// line summary; signal-worthy routes get the full cost breakdown.
type ConsoleReporter struct {
	mu    sync.Mutex
	out   io.Writer
	stats app.Stats
}

var _ app.Reporter = (*ConsoleReporter)(nil)

// NewConsoleReporter creates a new ConsoleReporter writing to out, stdout when nil.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleReporter{out: out}
}

// Start prints the banner.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, "arbscan started")
	fmt.Fprintln(r.out, "===============")
	return nil
}

// Report prints an evaluated route.
func (r *ConsoleReporter) Report(opp *domain.Opportunity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := opp.Timestamp.Format("15:04:05")
	route := fmt.Sprintf("%s %s/%s@%s", opp.Route.Direction.Flow(), opp.Route.Token.Symbol, opp.Route.Pair.Symbol, opp.Route.Chain)

	if opp.Err != nil {
		fmt.Fprintf(r.out, "[%s] %-15s %-36s %s: %v\n", ts, "skipped", route, apperror.GetCode(opp.Err), opp.Err)
		return
	}

	status := "loss"
	switch {
	case opp.Signal:
		status = "SIGNAL"
	case opp.IsProfitable() && !opp.VolumeOK:
		status = "low volume"
	case opp.IsProfitable():
		status = "below threshold"
	}
	fmt.Fprintf(r.out, "[%s] %-15s %-36s %-16s pnl $%s (%s%%)\n",
		ts, status, route, opp.Provider(),
		opp.Result.ProfitLoss.StringFixed(2), opp.Percent().StringFixed(2))

	if opp.Signal {
		r.printBreakdown(opp)
	}
}

func (r *ConsoleReporter) printBreakdown(opp *domain.Opportunity) {
	res := opp.Result
	c := res.Costs

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintln(r.out, "ARBITRAGE SIGNAL")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "Opportunity:    %s\n", opp.ID)
	fmt.Fprintf(r.out, "Timestamp:      %s\n", opp.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(r.out, "Route:          %s/%s on %s via %s\n", opp.Route.Token.Symbol, opp.Route.Pair.Symbol, opp.Route.Chain, opp.Provider())
	fmt.Fprintf(r.out, "Direction:      %s\n", domain.Describe(opp.Route.Direction, opp.CEX, opp.DEX))
	fmt.Fprintln(r.out, thinRule)
	fmt.Fprintln(r.out, "PRICES")
	fmt.Fprintf(r.out, "  Buy:            %s\n", res.BuyPrice.StringFixed(6))
	fmt.Fprintf(r.out, "  Sell:           %s\n", res.SellPrice.StringFixed(6))
	fmt.Fprintf(r.out, "  USD rate:       %s (%s)\n", res.ResolvedUSDRate.StringFixed(4), res.RateSource)
	fmt.Fprintln(r.out, thinRule)
	fmt.Fprintln(r.out, "COSTS")
	fmt.Fprintf(r.out, "  Modal:          $%s\n", c.Modal.StringFixed(2))
	fmt.Fprintf(r.out, "  Trade fee:      $%s\n", c.FeeTrade.StringFixed(4))
	fmt.Fprintf(r.out, "  Swap fee:       $%s\n", c.FeeSwap.StringFixed(4))
	fmt.Fprintf(r.out, "  Transfer fee:   $%s\n", c.FeeTransfer.StringFixed(4))
	fmt.Fprintf(r.out, "  Withdraw fee:   $%s\n", c.FeeWithdraw.StringFixed(4))
	fmt.Fprintf(r.out, "  Total cost:     $%s\n", c.TotalCost.StringFixed(2))
	fmt.Fprintln(r.out, thinRule)
	fmt.Fprintln(r.out, "PROFIT")
	fmt.Fprintf(r.out, "  Value:          $%s\n", res.TotalValue.StringFixed(2))
	fmt.Fprintf(r.out, "  Gross:          $%s\n", res.Gross.StringFixed(2))
	fmt.Fprintf(r.out, "  Net:            $%s (%s%%)\n", res.ProfitLoss.StringFixed(2), opp.Percent().StringFixed(2))
	if opp.Multi != nil && len(opp.Multi.Candidates) > 1 {
		fmt.Fprintf(r.out, "  Candidates:     %d evaluated, %d valid\n", len(opp.Multi.Candidates), opp.Multi.Valid())
	}
	fmt.Fprintln(r.out, rule)
}

// UpdateStats keeps the latest totals for the closing summary.
func (r *ConsoleReporter) UpdateStats(stats app.Stats) {
	r.mu.Lock()
	r.stats = stats
	r.mu.Unlock()
}

// Stop prints the run summary.
func (r *ConsoleReporter) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.stats
	fmt.Fprintln(r.out, "")
	fmt.Fprintf(r.out, "ticks=%d evaluated=%d failed=%d skipped=%d signals=%d\n",
		s.Ticks, s.Evaluated, s.Failed, s.Skipped, s.Signals)
	fmt.Fprintln(r.out, "arbscan stopped")
	return nil
}
