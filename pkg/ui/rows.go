package ui

import (
	"fmt"

	"github.com/fd1az/arbscan/business/arbitrage/domain"
	"github.com/fd1az/arbscan/internal/apperror"
	"github.com/fd1az/arbscan/pkg/ui/components"
)

// rowFromOpportunity maps an opportunity onto a board row. Every figure is
// taken from the engine result as is.
func rowFromOpportunity(opp *domain.Opportunity) components.OpportunityRow {
	row := components.OpportunityRow{
		Key:      opp.Key(),
		Time:     opp.Timestamp.Format("15:04:05"),
		Route:    routeLabel(opp),
		Flow:     opp.Route.Direction.Flow(),
		Provider: opp.Provider(),
		Modal:    opp.Modal,
		Signal:   opp.Signal,
		VolumeOK: opp.VolumeOK,
	}
	if opp.Err != nil {
		row.Error = string(apperror.GetCode(opp.Err))
		return row
	}
	if opp.Result == nil {
		return row
	}

	res := opp.Result
	row.PnL = res.ProfitLoss
	row.Percent = opp.Percent()
	row.Breakdown = &components.Breakdown{
		Description: domain.Describe(opp.Route.Direction, opp.CEX, opp.DEX),
		BuyPrice:    res.BuyPrice,
		SellPrice:   res.SellPrice,
		USDRate:     res.ResolvedUSDRate,
		RateSource:  string(res.RateSource),
		Modal:       res.Costs.Modal,
		FeeTrade:    res.Costs.FeeTrade,
		FeeSwap:     res.Costs.FeeSwap,
		FeeTransfer: res.Costs.FeeTransfer,
		FeeWithdraw: res.Costs.FeeWithdraw,
		TotalFee:    res.Costs.TotalFee,
		TotalCost:   res.Costs.TotalCost,
		TotalValue:  res.TotalValue,
		Gross:       res.Gross,
		PnL:         res.ProfitLoss,
		Percent:     opp.Percent(),
	}

	if opp.Multi != nil {
		for _, c := range opp.Multi.Candidates {
			cr := components.CandidateRow{Provider: c.Provider}
			if c.Err != nil {
				cr.Error = string(apperror.GetCode(c.Err))
			} else {
				cr.PnL = c.Result.ProfitLoss
				cr.Best = c.Result == opp.Multi.Best
			}
			row.Breakdown.Candidates = append(row.Breakdown.Candidates, cr)
		}
	}
	return row
}

func routeLabel(opp *domain.Opportunity) string {
	r := opp.Route
	label := fmt.Sprintf("%s/%s", r.Token.Symbol, r.Pair.Symbol)
	if r.Chain != "" {
		label += "@" + r.Chain
	}
	return label
}
