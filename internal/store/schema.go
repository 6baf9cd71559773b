package store

const schema = `
CREATE TABLE IF NOT EXISTS associations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    target_id TEXT NOT NULL,
    disease_id TEXT NOT NULL,
    overall_score REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_associations_target ON associations(target_id);
CREATE INDEX IF NOT EXISTS idx_associations_disease ON associations(disease_id);
`
