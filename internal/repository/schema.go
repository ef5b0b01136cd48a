package repository

import "database/sql"

// Postgres DDL, applied at startup. NUMERIC keeps money exact; all child
// tables cascade from their aggregate root so deleting a loan application
// takes its collaterals, loan and transactions with it.
const schema = `
CREATE TABLE IF NOT EXISTS loan_products (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	interest_rate   NUMERIC(7,4)  NOT NULL,
	min_loan_amount NUMERIC(15,2) NOT NULL,
	max_loan_amount NUMERIC(15,2) NOT NULL,
	max_tenure      INTEGER NOT NULL,
	processing_fee  NUMERIC(7,4)  NOT NULL,
	ltv_ratio       NUMERIC(5,4)  NOT NULL,
	status          TEXT NOT NULL DEFAULT 'ACTIVE',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS customers (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	phone      TEXT NOT NULL,
	pan_card   TEXT NOT NULL UNIQUE,
	address    TEXT NOT NULL DEFAULT '',
	city       TEXT NOT NULL DEFAULT '',
	pincode    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS loan_applications (
	id               TEXT PRIMARY KEY,
	customer_id      TEXT NOT NULL REFERENCES customers(id),
	loan_product_id  TEXT NOT NULL REFERENCES loan_products(id),
	requested_amount NUMERIC(15,2) NOT NULL,
	status           TEXT NOT NULL DEFAULT 'SUBMITTED',
	application_date TIMESTAMPTZ NOT NULL DEFAULT now(),
	approval_date    TIMESTAMPTZ,
	rejection_reason TEXT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS collaterals (
	id                  TEXT PRIMARY KEY,
	loan_application_id TEXT NOT NULL REFERENCES loan_applications(id) ON DELETE CASCADE,
	fund_name           TEXT NOT NULL,
	folio_number        TEXT NOT NULL,
	units               NUMERIC(15,4) NOT NULL,
	nav_per_unit        NUMERIC(15,4) NOT NULL,
	total_value         NUMERIC(15,2) NOT NULL,
	pledge_date         TIMESTAMPTZ NOT NULL DEFAULT now(),
	status              TEXT NOT NULL DEFAULT 'PLEDGED',
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS loans (
	id                  TEXT PRIMARY KEY,
	loan_application_id TEXT NOT NULL UNIQUE REFERENCES loan_applications(id) ON DELETE CASCADE,
	sanctioned_amount   NUMERIC(15,2) NOT NULL,
	disbursed_amount    NUMERIC(15,2) NOT NULL DEFAULT 0,
	interest_rate       NUMERIC(7,4)  NOT NULL,
	tenure_months       INTEGER NOT NULL,
	start_date          TIMESTAMPTZ NOT NULL DEFAULT now(),
	end_date            TIMESTAMPTZ NOT NULL,
	outstanding_amount  NUMERIC(15,2) NOT NULL,
	status              TEXT NOT NULL DEFAULT 'ACTIVE',
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS transactions (
	id               TEXT PRIMARY KEY,
	loan_id          TEXT NOT NULL REFERENCES loans(id) ON DELETE CASCADE,
	type             TEXT NOT NULL,
	amount           NUMERIC(15,2) NOT NULL,
	transaction_date TIMESTAMPTZ NOT NULL DEFAULT now(),
	reference_number TEXT NOT NULL UNIQUE,
	notes            TEXT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_loan_applications_status   ON loan_applications(status);
CREATE INDEX IF NOT EXISTS idx_loan_applications_customer ON loan_applications(customer_id);
CREATE INDEX IF NOT EXISTS idx_collaterals_application    ON collaterals(loan_application_id);
CREATE INDEX IF NOT EXISTS idx_loans_status               ON loans(status);
CREATE INDEX IF NOT EXISTS idx_transactions_loan          ON transactions(loan_id);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
