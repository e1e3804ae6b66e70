package postgres

import (
	"context"

	"github.com/lendoor/lendoor-indexer/internal/db/model"
)

func (d *Database) GetBorrower(ctx context.Context, account string) (*model.BorrowerDocument, error) {
	var doc model.BorrowerDocument
	err := d.conn(ctx).QueryRowContext(ctx,
		`SELECT id, first_seen FROM borrower WHERE id = $1`, account,
	).Scan(&doc.ID, &doc.FirstSeen)
	if err != nil {
		return nil, notFoundError(err, "borrower", account)
	}
	return &doc, nil
}

func (d *Database) SaveNewBorrower(ctx context.Context, doc *model.BorrowerDocument) error {
	_, err := d.conn(ctx).ExecContext(ctx,
		`INSERT INTO borrower (id, first_seen) VALUES ($1, $2)`, doc.ID, doc.FirstSeen)
	return insertError(err, "borrower", doc.ID)
}

func (d *Database) CountBorrowers(ctx context.Context) (uint64, error) {
	var count uint64
	err := d.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM borrower`).Scan(&count)
	return count, err
}

func (d *Database) GetActiveLoan(ctx context.Context, account string) (*model.ActiveLoanDocument, error) {
	var doc model.ActiveLoanDocument
	err := d.conn(ctx).QueryRowContext(ctx, `
		SELECT id, principal::text, amount_due::text, fee_bps, start, due, active
		FROM active_loan WHERE id = $1`, account,
	).Scan(&doc.ID, amount{&doc.Principal}, amount{&doc.AmountDue}, &doc.FeeBps, &doc.Start, &doc.Due, &doc.Active)
	if err != nil {
		return nil, notFoundError(err, "active_loan", account)
	}
	return &doc, nil
}

func (d *Database) SaveActiveLoan(ctx context.Context, doc *model.ActiveLoanDocument) error {
	_, err := d.conn(ctx).ExecContext(ctx, `
		INSERT INTO active_loan (id, principal, amount_due, fee_bps, start, due, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			principal = EXCLUDED.principal,
			amount_due = EXCLUDED.amount_due,
			fee_bps = EXCLUDED.fee_bps,
			start = EXCLUDED.start,
			due = EXCLUDED.due,
			active = EXCLUDED.active`,
		doc.ID, amountArg(doc.Principal), amountArg(doc.AmountDue), doc.FeeBps, doc.Start, doc.Due, doc.Active,
	)
	return err
}
