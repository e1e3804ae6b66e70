package postgres

import (
	"context"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/db/model"
)

const counterColumns = `loans_originated, unique_borrowers, principal_originated::text,
	principal_repaid::text, interest_repaid::text, last_updated`

func counterArgs(c *model.StatCounters) []any {
	return []any{
		c.LoansOriginated, c.UniqueBorrowers, amountArg(c.PrincipalOriginated),
		amountArg(c.PrincipalRepaid), amountArg(c.InterestRepaid), c.LastUpdated,
	}
}

func counterDest(c *model.StatCounters) []any {
	return []any{
		&c.LoansOriginated, &c.UniqueBorrowers, amount{&c.PrincipalOriginated},
		amount{&c.PrincipalRepaid}, amount{&c.InterestRepaid}, &c.LastUpdated,
	}
}

func (d *Database) GetProtocolStat(ctx context.Context) (*model.ProtocolStatDocument, error) {
	var doc model.ProtocolStatDocument
	dest := append([]any{&doc.ID}, counterDest(&doc.StatCounters)...)
	err := d.conn(ctx).QueryRowContext(ctx,
		`SELECT id, `+counterColumns+` FROM protocol_stat WHERE id = $1`, model.GlobalStatsID,
	).Scan(dest...)
	if err != nil {
		return nil, notFoundError(err, "protocol_stat", model.GlobalStatsID)
	}
	return &doc, nil
}

func (d *Database) SaveProtocolStat(ctx context.Context, doc *model.ProtocolStatDocument) error {
	args := append([]any{doc.ID}, counterArgs(&doc.StatCounters)...)
	_, err := d.conn(ctx).ExecContext(ctx, `
		INSERT INTO protocol_stat (id, `+counterColumnsPlain+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET `+counterUpdates,
		args...,
	)
	return err
}

func scanDailyStat(row interface{ Scan(...any) error }) (*model.DailyProtocolStatDocument, error) {
	var doc model.DailyProtocolStatDocument
	dest := append([]any{&doc.ID, &doc.DayStart}, counterDest(&doc.StatCounters)...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Database) GetDailyProtocolStat(ctx context.Context, id string) (*model.DailyProtocolStatDocument, error) {
	row := d.conn(ctx).QueryRowContext(ctx,
		`SELECT id, day_start, `+counterColumns+` FROM daily_protocol_stat WHERE id = $1`, id)
	doc, err := scanDailyStat(row)
	if err != nil {
		return nil, notFoundError(err, "daily_protocol_stat", id)
	}
	return doc, nil
}

func (d *Database) SaveDailyProtocolStat(ctx context.Context, doc *model.DailyProtocolStatDocument) error {
	args := append([]any{doc.ID, doc.DayStart}, counterArgs(&doc.StatCounters)...)
	_, err := d.conn(ctx).ExecContext(ctx, `
		INSERT INTO daily_protocol_stat (id, day_start, `+counterColumnsPlain+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET `+counterUpdates,
		args...,
	)
	return err
}

func (d *Database) ListDailyProtocolStats(ctx context.Context, filter db.TimeRangeFilter) ([]*model.DailyProtocolStatDocument, error) {
	rows, err := d.conn(ctx).QueryContext(ctx, `
		SELECT id, day_start, `+counterColumns+` FROM daily_protocol_stat
		WHERE day_start >= $1 AND day_start < $2
		ORDER BY day_start
		LIMIT $3`,
		filter.From, upperBound(filter), d.limit(filter.Limit),
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanDailyStat)
}

const counterColumnsPlain = `loans_originated, unique_borrowers, principal_originated,
	principal_repaid, interest_repaid, last_updated`

const counterUpdates = `
	loans_originated = EXCLUDED.loans_originated,
	unique_borrowers = EXCLUDED.unique_borrowers,
	principal_originated = EXCLUDED.principal_originated,
	principal_repaid = EXCLUDED.principal_repaid,
	interest_repaid = EXCLUDED.interest_repaid,
	last_updated = EXCLUDED.last_updated`
