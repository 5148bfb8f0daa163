package habits

// Store is the persistence contract for habits and check-ins.
type Store interface {
	// Lifecycle
	Init() error
	Close() error

	// Habits
	CreateHabit(userID, name string, cadence Cadence) (Habit, error)
	ListHabits(userID string) ([]Habit, error)
	DeleteHabit(id string) error

	// Check-ins
	RecordCheckin(habitID, date string, status CheckinStatus) (Checkin, error)
	ListCheckins(habitID, from, to string) ([]Checkin, error)

	// Overview returns the per-habit status and streak for one day.
	Overview(userID, date string) ([]HabitStatus, error)
}
