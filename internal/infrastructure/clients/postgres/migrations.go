package postgres

import (
	"context"
)

// schemaSQL is the full schema, written to be re-runnable. The bookings
// exclusion constraint needs btree_gist so the scalar shop_id column can
// take part in a gist index. It rejects overlapping intervals for the same
// shop at the storage layer even if two transactions race past the
// application's locked re-check.
const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS btree_gist;

CREATE TABLE IF NOT EXISTS shops (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	name TEXT NOT NULL,
	address TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS services (
	id TEXT PRIMARY KEY,
	shop_id TEXT NOT NULL REFERENCES shops(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
	price_cents BIGINT NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS business_hours (
	shop_id TEXT NOT NULL REFERENCES shops(id) ON DELETE CASCADE,
	weekday SMALLINT NOT NULL CHECK (weekday BETWEEN 0 AND 6),
	is_open BOOLEAN NOT NULL DEFAULT FALSE,
	opens_at TEXT NOT NULL DEFAULT '',
	closes_at TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (shop_id, weekday)
);

CREATE TABLE IF NOT EXISTS bookings (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	shop_id TEXT NOT NULL REFERENCES shops(id),
	service_id TEXT NOT NULL REFERENCES services(id),
	scheduled_at TIMESTAMPTZ NOT NULL,
	end_time TIMESTAMPTZ NOT NULL CHECK (end_time > scheduled_at),
	status TEXT NOT NULL DEFAULT 'confirmed',
	cancelled_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT bookings_no_overlap EXCLUDE USING gist (
		shop_id WITH =,
		tstzrange(scheduled_at, end_time) WITH &&
	) WHERE (status <> 'cancelled')
);

CREATE INDEX IF NOT EXISTS idx_bookings_shop_schedule
	ON bookings (shop_id, scheduled_at);
CREATE INDEX IF NOT EXISTS idx_bookings_user_page
	ON bookings (user_id, scheduled_at DESC, id ASC);

CREATE TABLE IF NOT EXISTS reviews (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	shop_id TEXT NOT NULL REFERENCES shops(id),
	booking_id TEXT NOT NULL UNIQUE REFERENCES bookings(id),
	rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comment TEXT NOT NULL DEFAULT '',
	response TEXT,
	responded_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_reviews_shop_newest
	ON reviews (shop_id, created_at DESC, id ASC);
CREATE INDEX IF NOT EXISTS idx_reviews_shop_rating
	ON reviews (shop_id, rating, created_at DESC, id ASC);

CREATE TABLE IF NOT EXISTS review_likes (
	review_id TEXT NOT NULL REFERENCES reviews(id) ON DELETE CASCADE,
	user_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (review_id, user_id)
);
`

// Migrate applies the schema
func (c *Client) Migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, schemaSQL)
	return err
}
