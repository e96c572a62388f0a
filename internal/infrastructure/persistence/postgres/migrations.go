package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE PLAYERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create players table
-- Version: 001

CREATE TABLE IF NOT EXISTS players (
    id UUID PRIMARY KEY,
    display_name VARCHAR(50) NOT NULL,
    blocked BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_display_name CHECK (length(trim(display_name)) > 0)
);

CREATE INDEX IF NOT EXISTS idx_players_created_at ON players(created_at);
`

const migration001Down = `
DROP TABLE IF EXISTS players;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE LOCATIONS AND RIDDLES
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create locations and riddles tables
-- Version: 002

CREATE TABLE IF NOT EXISTS locations (
    id UUID PRIMARY KEY,
    latitude DOUBLE PRECISION NOT NULL,
    longitude DOUBLE PRECISION NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    created_by VARCHAR(100) NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_latitude CHECK (latitude >= -90 AND latitude <= 90),
    CONSTRAINT valid_longitude CHECK (longitude >= -180 AND longitude <= 180)
);

CREATE TABLE IF NOT EXISTS riddles (
    id UUID PRIMARY KEY,
    location_id UUID NOT NULL REFERENCES locations(id),
    difficulty VARCHAR(10) NOT NULL DEFAULT 'easy',
    time_limit_seconds DOUBLE PRECISION NOT NULL,
    max_distance_meters DOUBLE PRECISION NOT NULL,
    active_date DATE NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_difficulty CHECK (difficulty IN ('easy', 'medium', 'hard')),
    CONSTRAINT valid_time_limit CHECK (time_limit_seconds > 0),
    CONSTRAINT valid_max_distance CHECK (max_distance_meters > 0)
);

-- One riddle of the day at most
CREATE UNIQUE INDEX IF NOT EXISTS idx_riddles_active_date ON riddles(active_date);
CREATE INDEX IF NOT EXISTS idx_riddles_location_id ON riddles(location_id);
`

const migration002Down = `
DROP TABLE IF EXISTS riddles;
DROP TABLE IF EXISTS locations;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE SUBMISSIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create submissions ledger
-- Version: 003

CREATE TABLE IF NOT EXISTS submissions (
    id UUID PRIMARY KEY,
    player_id UUID NOT NULL REFERENCES players(id),
    riddle_id UUID NOT NULL REFERENCES riddles(id),
    guess_lat DOUBLE PRECISION NOT NULL,
    guess_lng DOUBLE PRECISION NOT NULL,
    elapsed_seconds DOUBLE PRECISION NOT NULL,
    distance_meters DOUBLE PRECISION NOT NULL,
    score INTEGER NOT NULL,
    correct BOOLEAN NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_guess_lat CHECK (guess_lat >= -90 AND guess_lat <= 90),
    CONSTRAINT valid_guess_lng CHECK (guess_lng >= -180 AND guess_lng <= 180),
    CONSTRAINT valid_elapsed CHECK (elapsed_seconds >= 0),
    CONSTRAINT valid_distance CHECK (distance_meters >= 0),
    CONSTRAINT valid_score CHECK (score >= 0)
);

-- Exactly one answer per (player, riddle); the insert that loses this
-- race gets a unique violation, which the repo maps to the domain error.
CREATE UNIQUE INDEX IF NOT EXISTS idx_submissions_player_riddle
    ON submissions(player_id, riddle_id);

CREATE INDEX IF NOT EXISTS idx_submissions_player_id ON submissions(player_id);
CREATE INDEX IF NOT EXISTS idx_submissions_riddle_id ON submissions(riddle_id);
CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at);
`

const migration003Down = `
DROP TABLE IF EXISTS submissions;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 004: CREATE SETTINGS
// ══════════════════════════════════════════════════════════════════════════════

const migration004Up = `
-- Migration: Create game settings singleton
-- Version: 004

CREATE TABLE IF NOT EXISTS game_settings (
    id SMALLINT PRIMARY KEY DEFAULT 1,
    riddle_time VARCHAR(8) NOT NULL DEFAULT '09:00:00',
    max_distance DOUBLE PRECISION NOT NULL DEFAULT 100,
    podium_period INTEGER NOT NULL DEFAULT 7,
    game_active BOOLEAN NOT NULL DEFAULT TRUE,
    allow_registration BOOLEAN NOT NULL DEFAULT TRUE,
    max_riddles_per_day INTEGER NOT NULL DEFAULT 5,
    points_per_correct_answer INTEGER NOT NULL DEFAULT 100,
    time_bonus_enabled BOOLEAN NOT NULL DEFAULT TRUE,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT settings_singleton CHECK (id = 1)
);

INSERT INTO game_settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING;
`

const migration004Down = `
DROP TABLE IF EXISTS game_settings;
`
