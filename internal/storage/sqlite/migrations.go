package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// Deleting a campaign must take every membership and recipient record of
// the group with it; SQLite gives us that through ON DELETE CASCADE, so
// the campaigns table must be created first. The membership -> recipient
// link uses ON DELETE SET NULL so the two cascades from campaigns never
// race each other into a constraint failure.
const schema = `
CREATE TABLE IF NOT EXISTS campaigns (
    group_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    state TEXT NOT NULL DEFAULT 'awaiting' CHECK (state IN ('awaiting', 'started')),
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS recipients (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    group_id TEXT NOT NULL,
    FOREIGN KEY (group_id) REFERENCES campaigns(group_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS memberships (
    user_id TEXT NOT NULL,
    group_id TEXT NOT NULL,
    is_organizer INTEGER NOT NULL DEFAULT 0,
    recipient_id TEXT,
    joined_at INTEGER NOT NULL,
    PRIMARY KEY (user_id, group_id),
    FOREIGN KEY (group_id) REFERENCES campaigns(group_id) ON DELETE CASCADE,
    FOREIGN KEY (recipient_id) REFERENCES recipients(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_memberships_group_id ON memberships(group_id);
CREATE INDEX IF NOT EXISTS idx_recipients_group_id ON recipients(group_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
