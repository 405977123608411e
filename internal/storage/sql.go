package storage

const (
	initSchemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    start_time DATETIME NOT NULL,
    source     TEXT NOT NULL,
    config     TEXT
);

CREATE TABLE IF NOT EXISTS samples (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id INTEGER NOT NULL REFERENCES sessions (id),
    timestamp  DATETIME NOT NULL,
    latitude   REAL NOT NULL,
    longitude  REAL NOT NULL,
    altitude   REAL NOT NULL,
    velocity   REAL NOT NULL,
    battery    REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_samples_session_time
    ON samples (session_id, timestamp);`

	insertSessionSQL = `
INSERT INTO sessions (
                      start_time,
                      source,
                      config)
VALUES (CURRENT_TIMESTAMP, ?, ?)`

	selectSessionSQL = `
SELECT
    id,
    start_time,
    source,
    config
FROM sessions
WHERE
    id = ?`

	insertSampleSQL = `
INSERT INTO samples (session_id,
                     timestamp,
                     latitude,
                     longitude,
                     altitude,
                     velocity,
                     battery)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectSamplesSQL = `
SELECT
    timestamp,
    latitude,
    longitude,
    altitude,
    velocity,
    battery
FROM samples
WHERE
    session_id = ?
ORDER BY
    id`
)
