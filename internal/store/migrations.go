package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Analysis records table - one row per completed analysis
		`CREATE TABLE IF NOT EXISTS analysis_records (
			id TEXT PRIMARY KEY,
			best_idx INTEGER NOT NULL,
			best_tone TEXT NOT NULL,
			rule_id TEXT NOT NULL,
			dark_circle_score REAL NOT NULL DEFAULT 0,
			dark_circle_type TEXT NOT NULL DEFAULT '',
			result_json TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Index for listing records newest first
		`CREATE INDEX IF NOT EXISTS idx_analysis_records_created_at ON analysis_records(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
