package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
var migrationsSQL = map[int]string{
	1: migrationV1ReferenceTables,
}

// migrationV1ReferenceTables stores imported reference tables.
//
// A table keeps its column order as a JSON array; each row is a JSON array
// of cell strings aligned with that order. Re-importing a table replaces
// it by name (rows go with it through the cascade).
const migrationV1ReferenceTables = `
CREATE TABLE IF NOT EXISTS reference_tables (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Table name: the source file name without extension
    name TEXT NOT NULL UNIQUE,

    -- File the table was imported from
    source TEXT NOT NULL DEFAULT '',

    -- Column names in order, e.g. '["KIN", "圖騰", "調性"]'
    columns TEXT NOT NULL DEFAULT '[]',

    row_count INTEGER NOT NULL DEFAULT 0,
    imported_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS reference_rows (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    table_id INTEGER NOT NULL,

    -- Position of the row in the source, from 0
    row_index INTEGER NOT NULL,

    -- Cells aligned with reference_tables.columns
    cells TEXT NOT NULL,

    FOREIGN KEY (table_id) REFERENCES reference_tables(id) ON DELETE CASCADE,
    UNIQUE (table_id, row_index)
);

CREATE INDEX IF NOT EXISTS idx_reference_rows_table
    ON reference_rows(table_id, row_index);
`
