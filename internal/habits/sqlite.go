package habits

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS habit (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	name       TEXT NOT NULL,
	cadence    TEXT NOT NULL CHECK (cadence IN ('daily', 'weekly')),
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS habit_checkin (
	id       TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL REFERENCES habit(id) ON DELETE CASCADE,
	date     TEXT NOT NULL,
	status   TEXT NOT NULL CHECK (status IN ('done', 'skipped', 'partial')),
	UNIQUE (habit_id, date)
);

CREATE INDEX IF NOT EXISTS idx_habit_user ON habit(user_id);
CREATE INDEX IF NOT EXISTS idx_checkin_habit_date ON habit_checkin(habit_id, date);
`

// SQLiteStore persists habits and check-ins in a local SQLite database.
type SQLiteStore struct {
	path string
	db   *sql.DB

	// now is stubbed in tests
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a store persisting to the given file path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
		now:  time.Now,
	}
}

// Init creates the database directory and schema if needed.
func (s *SQLiteStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateHabit stores a new habit definition.
func (s *SQLiteStore) CreateHabit(userID, name string, cadence Cadence) (Habit, error) {
	if name == "" {
		return Habit{}, fmt.Errorf("habit name is required")
	}
	if !cadence.Valid() {
		return Habit{}, ErrInvalidCadence
	}

	h := Habit{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Cadence:   cadence,
		CreatedAt: s.now().UTC(),
	}

	_, err := s.db.Exec(
		"INSERT INTO habit (id, user_id, name, cadence, created_at) VALUES (?, ?, ?, ?, ?)",
		h.ID, h.UserID, h.Name, string(h.Cadence), h.CreatedAt,
	)
	if err != nil {
		return Habit{}, fmt.Errorf("failed to create habit: %w", err)
	}

	return h, nil
}

// ListHabits returns all habits for a user, oldest first.
func (s *SQLiteStore) ListHabits(userID string) ([]Habit, error) {
	rows, err := s.db.Query(
		"SELECT id, user_id, name, cadence, created_at FROM habit WHERE user_id = ? ORDER BY created_at",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		var h Habit
		var cadence string
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &cadence, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		h.Cadence = Cadence(cadence)
		habits = append(habits, h)
	}

	return habits, rows.Err()
}

// DeleteHabit removes a habit and its check-ins.
func (s *SQLiteStore) DeleteHabit(id string) error {
	res, err := s.db.Exec("DELETE FROM habit WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrHabitNotFound
	}
	return nil
}

// RecordCheckin inserts or updates the check-in for (habit, date).
// Dates after today are rejected.
func (s *SQLiteStore) RecordCheckin(habitID, date string, status CheckinStatus) (Checkin, error) {
	if !status.Valid() {
		return Checkin{}, ErrInvalidStatus
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return Checkin{}, fmt.Errorf("invalid check-in date %q: %w", date, err)
	}

	today := s.now().Format(DateLayout)
	if date > today {
		return Checkin{}, ErrFutureCheckin
	}

	var exists int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM habit WHERE id = ?", habitID).Scan(&exists); err != nil {
		return Checkin{}, fmt.Errorf("failed to look up habit: %w", err)
	}
	if exists == 0 {
		return Checkin{}, ErrHabitNotFound
	}

	_, err := s.db.Exec(`
		INSERT INTO habit_checkin (id, habit_id, date, status) VALUES (?, ?, ?, ?)
		ON CONFLICT (habit_id, date) DO UPDATE SET status = excluded.status`,
		uuid.New().String(), habitID, date, string(status),
	)
	if err != nil {
		return Checkin{}, fmt.Errorf("failed to record check-in: %w", err)
	}

	var c Checkin
	var st string
	err = s.db.QueryRow(
		"SELECT id, habit_id, date, status FROM habit_checkin WHERE habit_id = ? AND date = ?",
		habitID, date,
	).Scan(&c.ID, &c.HabitID, &c.Date, &st)
	if err != nil {
		return Checkin{}, fmt.Errorf("failed to read back check-in: %w", err)
	}
	c.Status = CheckinStatus(st)

	return c, nil
}

// ListCheckins returns the check-ins for a habit with from <= date <= to,
// newest first.
func (s *SQLiteStore) ListCheckins(habitID, from, to string) ([]Checkin, error) {
	rows, err := s.db.Query(
		"SELECT id, habit_id, date, status FROM habit_checkin WHERE habit_id = ? AND date >= ? AND date <= ? ORDER BY date DESC",
		habitID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	var checkins []Checkin
	for rows.Next() {
		var c Checkin
		var st string
		if err := rows.Scan(&c.ID, &c.HabitID, &c.Date, &st); err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		c.Status = CheckinStatus(st)
		checkins = append(checkins, c)
	}

	return checkins, rows.Err()
}

// Overview returns the status and streak of each of the user's habits on
// the given day.
func (s *SQLiteStore) Overview(userID, date string) ([]HabitStatus, error) {
	habits, err := s.ListHabits(userID)
	if err != nil {
		return nil, err
	}

	var overview []HabitStatus
	for _, h := range habits {
		hs := HabitStatus{Habit: h}

		var st string
		err := s.db.QueryRow(
			"SELECT status FROM habit_checkin WHERE habit_id = ? AND date = ?",
			h.ID, date,
		).Scan(&st)
		switch {
		case err == sql.ErrNoRows:
			// nothing recorded for the day
		case err != nil:
			return nil, fmt.Errorf("failed to read check-in: %w", err)
		default:
			hs.Today = CheckinStatus(st)
		}

		doneDates, err := s.doneDates(h.ID, date)
		if err != nil {
			return nil, err
		}
		hs.Streak = streak(doneDates, h.Cadence, date)

		overview = append(overview, hs)
	}

	return overview, nil
}

// doneDates returns the dates marked done up to and including the given
// day, newest first.
func (s *SQLiteStore) doneDates(habitID, upTo string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT date FROM habit_checkin WHERE habit_id = ? AND status = 'done' AND date <= ? ORDER BY date DESC",
		habitID, upTo,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list done check-ins: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}

	return dates, rows.Err()
}

// streak counts consecutive cadence periods marked done, ending at the
// given day (or the previous period when the current one is still open).
func streak(doneDates []string, cadence Cadence, today string) int {
	if len(doneDates) == 0 {
		return 0
	}

	ref, err := time.Parse(DateLayout, today)
	if err != nil {
		return 0
	}

	switch cadence {
	case CadenceWeekly:
		return weeklyStreak(doneDates, ref)
	default:
		return dailyStreak(doneDates, ref)
	}
}

func dailyStreak(doneDates []string, ref time.Time) int {
	done := make(map[string]bool, len(doneDates))
	for _, d := range doneDates {
		done[d] = true
	}

	day := ref
	// Today may not be checked in yet; an unbroken run ending yesterday
	// still counts.
	if !done[day.Format(DateLayout)] {
		day = day.AddDate(0, 0, -1)
	}

	n := 0
	for done[day.Format(DateLayout)] {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

func weeklyStreak(doneDates []string, ref time.Time) int {
	type week struct{ year, week int }

	done := make(map[week]bool, len(doneDates))
	for _, d := range doneDates {
		t, err := time.Parse(DateLayout, d)
		if err != nil {
			continue
		}
		y, w := t.ISOWeek()
		done[week{y, w}] = true
	}

	day := ref
	y, w := day.ISOWeek()
	if !done[week{y, w}] {
		day = day.AddDate(0, 0, -7)
	}

	n := 0
	for {
		y, w := day.ISOWeek()
		if !done[week{y, w}] {
			break
		}
		n++
		day = day.AddDate(0, 0, -7)
	}
	return n
}
