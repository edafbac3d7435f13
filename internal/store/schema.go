package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS logs (
    id                   TEXT PRIMARY KEY,
    vehicle_id           TEXT NOT NULL DEFAULT '',
    date                 TEXT NOT NULL,
    odometer             REAL NOT NULL DEFAULT 0,
    distance             REAL NOT NULL DEFAULT 0,
    avg_consumption      REAL,
    is_refuel_day        INTEGER NOT NULL DEFAULT 0,
    is_full_tank         INTEGER NOT NULL DEFAULT 0,
    fuel_price           REAL NOT NULL DEFAULT 0,
    station              TEXT,
    fuel_liters          REAL NOT NULL DEFAULT 0,
    cost                 REAL NOT NULL DEFAULT 0,
    cost_per_km          REAL NOT NULL DEFAULT 0,
    notes                TEXT
);

CREATE TABLE IF NOT EXISTS purchases (
    id                   TEXT PRIMARY KEY,
    vehicle_id           TEXT NOT NULL DEFAULT '',
    purchased_at         TEXT NOT NULL,
    liters               REAL NOT NULL,
    price_per_liter      REAL NOT NULL,
    total_amount         REAL NOT NULL,
    station              TEXT,
    odometer             REAL,
    location             TEXT,
    is_full_tank         INTEGER NOT NULL DEFAULT 0,
    notes                TEXT
);

CREATE TABLE IF NOT EXISTS maintenance (
    id                   TEXT PRIMARY KEY,
    vehicle_id           TEXT NOT NULL DEFAULT '',
    title                TEXT NOT NULL,
    interval_km          REAL NOT NULL DEFAULT 0,
    last_service_km      REAL NOT NULL DEFAULT 0,
    notify_before_km     REAL NOT NULL DEFAULT 0,
    notify_before_days   INTEGER NOT NULL DEFAULT 0,
    due_date             TEXT
);

CREATE TABLE IF NOT EXISTS user_stats (
    id                   INTEGER PRIMARY KEY CHECK (id = 1),
    total_xp             INTEGER NOT NULL DEFAULT 0,
    current_streak       INTEGER NOT NULL DEFAULT 0,
    longest_streak       INTEGER NOT NULL DEFAULT 0,
    last_activity        TEXT
);

CREATE TABLE IF NOT EXISTS badges (
    badge_id             TEXT PRIMARY KEY,
    name                 TEXT,
    unlocked_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS challenges (
    challenge_key        TEXT PRIMARY KEY,
    challenge_id         TEXT NOT NULL,
    week_start           TEXT NOT NULL,
    xp_reward            INTEGER NOT NULL DEFAULT 0,
    completed_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_logs_vehicle_date ON logs(vehicle_id, date);
CREATE INDEX IF NOT EXISTS idx_purchases_vehicle_date ON purchases(vehicle_id, purchased_at);
`
