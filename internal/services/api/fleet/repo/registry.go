package repo

import (
	"context"
	"fmt"

	"fleetdash/internal/modkit/repokit"
	perr "fleetdash/internal/platform/errors"
)

// DeviceRow is a device registry entry
type DeviceRow struct {
	ID   string
	Name string
	Site string
}

// Registry lists the devices the fleet knows about
type Registry interface {
	Devices(ctx context.Context) ([]DeviceRow, error)
}

type (
	// PG is a binder that can bind the registry to a Queryer
	PG struct{}
	// pgRegistry implements Registry over the devices table
	pgRegistry struct{ q repokit.Queryer }
)

// NewPG returns a binder for the postgres registry
func NewPG() repokit.Binder[Registry] { return PG{} }

// Bind wires a Queryer to the registry
func (PG) Bind(q repokit.Queryer) Registry { return &pgRegistry{q: repokit.RequireQueryer(q)} }

const schemaSQL = `
create table if not exists devices (
	id         text primary key,
	name       text not null,
	site       text not null default '',
	created_at timestamptz not null default now(),
	retired_at timestamptz
)
`

// Migrate creates the devices table when it is missing
func Migrate(ctx context.Context, q repokit.Queryer) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return perr.FromPostgres(err, "create devices table")
	}
	return nil
}

func (r *pgRegistry) Devices(ctx context.Context) ([]DeviceRow, error) {
	const sql = `
select id, name, site
from devices
where retired_at is null
order by id asc
`
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return repokit.CollectRows(rows, func(rs repokit.Rows) (DeviceRow, error) {
		var d DeviceRow
		if err := rs.Scan(&d.ID, &d.Name, &d.Site); err != nil {
			return d, err
		}
		return cleanDevice(d), nil
	})
}

var mockSites = []string{"Oakland Depot", "San Jose Yard", "Fresno Hub", "Sacramento North"}

// NewMockRegistry names each id "Unit NN" and spreads them over a few sites
func NewMockRegistry(ids []string) Registry {
	out := make([]DeviceRow, len(ids))
	for i, id := range ids {
		out[i] = DeviceRow{ID: id, Name: fmt.Sprintf("Unit %02d", i+1), Site: mockSites[i%len(mockSites)]}
	}
	return NewStaticRegistry(out...)
}

// NewStaticRegistry serves a fixed device list; with no rows it names nothing
// and devices are listed by id from telemetry alone
func NewStaticRegistry(rows ...DeviceRow) Registry { return staticRegistry(rows) }

type staticRegistry []DeviceRow

func (s staticRegistry) Devices(context.Context) ([]DeviceRow, error) {
	return append([]DeviceRow(nil), s...), nil
}

// WithFallback reads primary and switches to fallback when the devices
// table does not exist yet
func WithFallback(primary, fallback Registry) Registry {
	return fallbackRegistry{primary: primary, fallback: fallback}
}

type fallbackRegistry struct {
	primary, fallback Registry
}

func (f fallbackRegistry) Devices(ctx context.Context) ([]DeviceRow, error) {
	rows, err := f.primary.Devices(ctx)
	switch {
	case err == nil:
		return rows, nil
	case perr.IsUndefinedTable(err):
		return f.fallback.Devices(ctx)
	default:
		return nil, perr.FromPostgres(err, "list devices")
	}
}
