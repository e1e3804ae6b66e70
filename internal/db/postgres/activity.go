package postgres

import (
	"context"
	"database/sql"

	"github.com/lendoor/lendoor-indexer/internal/db"
	"github.com/lendoor/lendoor-indexer/internal/db/model"
)

const vaultActivityColumns = `id, type, account, counterparty, assets::text, shares::text,
	tx_hash, log_index, block_number, block_timestamp`

func (d *Database) SaveVaultActivity(ctx context.Context, doc *model.VaultActivityDocument) error {
	_, err := d.conn(ctx).ExecContext(ctx, `
		INSERT INTO vault_activity (id, type, account, counterparty, assets, shares,
			tx_hash, log_index, block_number, block_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		doc.ID, string(doc.Type), doc.Account, optionalString(doc.Counterparty),
		amountArg(doc.Assets), optionalAmountArg(doc.Shares),
		doc.TxHash, doc.LogIndex, doc.BlockNumber, doc.BlockTimestamp,
	)
	return insertError(err, "vault_activity", doc.ID)
}

func scanVaultActivity(row interface{ Scan(...any) error }) (*model.VaultActivityDocument, error) {
	var (
		doc          model.VaultActivityDocument
		counterparty sql.NullString
	)
	err := row.Scan(
		&doc.ID, &doc.Type, &doc.Account, &counterparty,
		amount{&doc.Assets}, optionalAmount{&doc.Shares},
		&doc.TxHash, &doc.LogIndex, &doc.BlockNumber, &doc.BlockTimestamp,
	)
	if err != nil {
		return nil, err
	}
	if counterparty.Valid {
		doc.Counterparty = &counterparty.String
	}
	return &doc, nil
}

func (d *Database) GetVaultActivity(ctx context.Context, id string) (*model.VaultActivityDocument, error) {
	row := d.conn(ctx).QueryRowContext(ctx,
		`SELECT `+vaultActivityColumns+` FROM vault_activity WHERE id = $1`, id)
	doc, err := scanVaultActivity(row)
	if err != nil {
		return nil, notFoundError(err, "vault_activity", id)
	}
	return doc, nil
}

func (d *Database) ListVaultActivities(ctx context.Context, filter db.ActivityFilter) ([]*model.VaultActivityDocument, error) {
	rows, err := d.conn(ctx).QueryContext(ctx, `
		SELECT `+vaultActivityColumns+` FROM vault_activity
		WHERE ($1 = '' OR account = $1)
		ORDER BY block_number DESC, log_index DESC
		LIMIT $2`,
		filter.Account, d.limit(filter.Limit),
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanVaultActivity)
}

const loanActivityColumns = `id, type, borrower, principal::text, amount_due::text, paid::text,
	interest::text, tx_hash, log_index, block_number, block_timestamp`

func (d *Database) SaveLoanActivity(ctx context.Context, doc *model.LoanActivityDocument) error {
	_, err := d.conn(ctx).ExecContext(ctx, `
		INSERT INTO loan_activity (id, type, borrower, principal, amount_due, paid, interest,
			tx_hash, log_index, block_number, block_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		doc.ID, string(doc.Type), doc.Borrower,
		optionalAmountArg(doc.Principal), optionalAmountArg(doc.AmountDue),
		optionalAmountArg(doc.Paid), optionalAmountArg(doc.Interest),
		doc.TxHash, doc.LogIndex, doc.BlockNumber, doc.BlockTimestamp,
	)
	return insertError(err, "loan_activity", doc.ID)
}

func scanLoanActivity(row interface{ Scan(...any) error }) (*model.LoanActivityDocument, error) {
	var doc model.LoanActivityDocument
	err := row.Scan(
		&doc.ID, &doc.Type, &doc.Borrower,
		optionalAmount{&doc.Principal}, optionalAmount{&doc.AmountDue},
		optionalAmount{&doc.Paid}, optionalAmount{&doc.Interest},
		&doc.TxHash, &doc.LogIndex, &doc.BlockNumber, &doc.BlockTimestamp,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Database) GetLoanActivity(ctx context.Context, id string) (*model.LoanActivityDocument, error) {
	row := d.conn(ctx).QueryRowContext(ctx,
		`SELECT `+loanActivityColumns+` FROM loan_activity WHERE id = $1`, id)
	doc, err := scanLoanActivity(row)
	if err != nil {
		return nil, notFoundError(err, "loan_activity", id)
	}
	return doc, nil
}

func (d *Database) ListLoanActivities(ctx context.Context, filter db.ActivityFilter) ([]*model.LoanActivityDocument, error) {
	rows, err := d.conn(ctx).QueryContext(ctx, `
		SELECT `+loanActivityColumns+` FROM loan_activity
		WHERE ($1 = '' OR borrower = $1)
		ORDER BY block_number DESC, log_index DESC
		LIMIT $2`,
		filter.Account, d.limit(filter.Limit),
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanLoanActivity)
}

const snapshotColumns = `id, total_shares::text, total_borrows::text, accumulated_fees::text, cash::text,
	interest_accumulator::text, interest_rate::text, vault_timestamp,
	tx_hash, log_index, block_number, block_timestamp`

func (d *Database) SaveVaultStatusSnapshot(ctx context.Context, doc *model.VaultStatusSnapshotDocument) error {
	_, err := d.conn(ctx).ExecContext(ctx, `
		INSERT INTO vault_status_snapshot (id, total_shares, total_borrows, accumulated_fees, cash,
			interest_accumulator, interest_rate, vault_timestamp,
			tx_hash, log_index, block_number, block_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		doc.ID, amountArg(doc.TotalShares), amountArg(doc.TotalBorrows), amountArg(doc.AccumulatedFees),
		amountArg(doc.Cash), amountArg(doc.InterestAccumulator), amountArg(doc.InterestRate),
		doc.VaultTimestamp, doc.TxHash, doc.LogIndex, doc.BlockNumber, doc.BlockTimestamp,
	)
	return insertError(err, "vault_status_snapshot", doc.ID)
}

func scanSnapshot(row interface{ Scan(...any) error }) (*model.VaultStatusSnapshotDocument, error) {
	var doc model.VaultStatusSnapshotDocument
	err := row.Scan(
		&doc.ID, amount{&doc.TotalShares}, amount{&doc.TotalBorrows}, amount{&doc.AccumulatedFees},
		amount{&doc.Cash}, amount{&doc.InterestAccumulator}, amount{&doc.InterestRate},
		&doc.VaultTimestamp, &doc.TxHash, &doc.LogIndex, &doc.BlockNumber, &doc.BlockTimestamp,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Database) GetVaultStatusSnapshot(ctx context.Context, id string) (*model.VaultStatusSnapshotDocument, error) {
	row := d.conn(ctx).QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM vault_status_snapshot WHERE id = $1`, id)
	doc, err := scanSnapshot(row)
	if err != nil {
		return nil, notFoundError(err, "vault_status_snapshot", id)
	}
	return doc, nil
}

func (d *Database) ListVaultStatusSnapshots(ctx context.Context, filter db.TimeRangeFilter) ([]*model.VaultStatusSnapshotDocument, error) {
	rows, err := d.conn(ctx).QueryContext(ctx, `
		SELECT `+snapshotColumns+` FROM vault_status_snapshot
		WHERE block_timestamp >= $1 AND block_timestamp < $2
		ORDER BY block_timestamp, log_index
		LIMIT $3`,
		filter.From, upperBound(filter), d.limit(filter.Limit),
	)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSnapshot)
}

func collect[T any](rows *sql.Rows, scan func(interface{ Scan(...any) error }) (*T, error)) ([]*T, error) {
	defer rows.Close()

	var result []*T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
