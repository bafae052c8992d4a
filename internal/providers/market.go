package providers

import (
	"context"
	"strings"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

// AirDNA serves market averages per location.
type AirDNA struct {
	sim *simulator
}

func NewAirDNA(opts Options) *AirDNA {
	return &AirDNA{sim: newSimulator(opts)}
}

func (a *AirDNA) Source() enums.DataSource { return enums.DataSourceAirDNA }

func (a *AirDNA) FetchMarket(ctx context.Context, location string) (MarketSnapshot, error) {
	if strings.TrimSpace(location) == "" {
		return MarketSnapshot{}, ErrNoData
	}
	if err := ctx.Err(); err != nil {
		return MarketSnapshot{}, err
	}
	adr := a.sim.between(180, 120)
	occ := a.sim.between(0.65, 0.25)
	return MarketSnapshot{
		Date:      a.sim.today(),
		ADR:       adr,
		Occupancy: occ,
		RevPAR:    adr * occ,
	}, nil
}

// Rabbu serves competitor pricing. It reports an average competitor rate
// but no occupancy or RevPAR.
type Rabbu struct {
	sim *simulator
}

func NewRabbu(opts Options) *Rabbu {
	return &Rabbu{sim: newSimulator(opts)}
}

func (r *Rabbu) Source() enums.DataSource { return enums.DataSourceRabbu }

func (r *Rabbu) FetchMarket(ctx context.Context, location string) (MarketSnapshot, error) {
	if strings.TrimSpace(location) == "" {
		return MarketSnapshot{}, ErrNoData
	}
	if err := ctx.Err(); err != nil {
		return MarketSnapshot{}, err
	}
	return MarketSnapshot{
		Date: r.sim.today(),
		ADR:  r.sim.between(220, 80),
	}, nil
}
