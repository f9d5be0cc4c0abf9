package database

// migrationsSQL holds the forward-only schema history, keyed by version.
var migrationsSQL = map[int]string{
	1: migrationV1Feasts,
	2: migrationV2FeastIndexes,
	3: migrationV3FeastTableState,
}

// migrationV1Feasts creates the fixed-feast table.
//
// day is capped at 30 by the schema; the tighter Nesi limit (6) is checked
// in Go before insert.
const migrationV1Feasts = `
CREATE TABLE IF NOT EXISTS feasts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Coptic month 1 (Thoout) .. 13 (Nesi) and day within it
    month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 13),
    day INTEGER NOT NULL CHECK (day BETWEEN 1 AND 30),

    name TEXT NOT NULL CHECK (name <> ''),
    kind TEXT NOT NULL CHECK (kind IN ('lord', 'major', 'minor')),

    -- declaration order; ties on the same day are reported in this order
    position INTEGER NOT NULL DEFAULT 0,

    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE (month, day, name)
);
`

const migrationV2FeastIndexes = `
CREATE INDEX IF NOT EXISTS idx_feasts_month_day ON feasts(month, day);
CREATE INDEX IF NOT EXISTS idx_feasts_position ON feasts(position);
`

// migrationV3FeastTableState records that the feast table has been written
// at least once, so an emptied table stays empty instead of reverting to
// the built-in feasts. Databases that already hold feasts count as written.
const migrationV3FeastTableState = `
CREATE TABLE IF NOT EXISTS feast_table_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    initialized_at TEXT NOT NULL DEFAULT (datetime('now'))
);

INSERT OR IGNORE INTO feast_table_state (id)
SELECT 1 WHERE EXISTS (SELECT 1 FROM feasts);
`
