package archive

import (
    "context"
    "database/sql"

    "github.com/google/uuid"
    _ "github.com/jackc/pgx/v5/stdlib"

    "emsdash/internal/model"
)

// Postgres archives trips in a single trip_log table.
type Postgres struct {
    db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
    db, err := sql.Open("pgx", dsn)
    if err != nil {
        return nil, err
    }
    if err := db.Ping(); err != nil {
        return nil, err
    }
    p := &Postgres{db: db}
    if err := p.migrate(); err != nil {
        return nil, err
    }
    return p, nil
}

func (p *Postgres) migrate() error {
    _, err := p.db.Exec(`CREATE TABLE IF NOT EXISTS trip_log (
        id uuid PRIMARY KEY,
        car_no text NOT NULL,
        start_time text NOT NULL,
        arrival_time text NOT NULL,
        start_location text,
        destination text,
        created_at timestamptz NOT NULL DEFAULT now(),
        UNIQUE (car_no, start_time)
    )`)
    return err
}

func (p *Postgres) InsertTrip(ctx context.Context, t model.TripLogEntry) error {
    // Upsert by (car_no, start_time): a re-sent arrival event refreshes
    // the arrival time instead of duplicating the trip.
    _, err := p.db.ExecContext(ctx, `INSERT INTO trip_log (id, car_no, start_time, arrival_time, start_location, destination)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (car_no, start_time) DO UPDATE SET arrival_time = EXCLUDED.arrival_time`,
        uuid.New(), t.CarNo, t.StartTime, t.ArrivalTime, t.StartLocation, t.Destination)
    return err
}

func (p *Postgres) ListRecent(ctx context.Context, limit int) ([]model.TripLogEntry, error) {
    if limit <= 0 { limit = 50 }
    rows, err := p.db.QueryContext(ctx, `SELECT car_no, start_time, arrival_time, coalesce(start_location,''), coalesce(destination,'')
        FROM trip_log ORDER BY start_time DESC LIMIT $1`, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.TripLogEntry{}
    for rows.Next() {
        var t model.TripLogEntry
        if err := rows.Scan(&t.CarNo, &t.StartTime, &t.ArrivalTime, &t.StartLocation, &t.Destination); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

// Ping checks DB connectivity for the readiness probe.
func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }
