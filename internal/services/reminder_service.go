package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"greenthumb/internal/database"
	"greenthumb/internal/models"

	"github.com/google/uuid"
)

// ReminderService stores the one-off reminders the assistant schedules via
// its scheduleReminder tool call. Subscribers replace the global
// "reminder added" event of the first app generation: interested views get
// an explicit channel instead of an ambient broadcast.
type ReminderService struct {
	db *database.DB

	mu          sync.RWMutex
	subscribers map[int]chan models.Reminder
	nextSubID   int
}

// NewReminderService creates a new reminder service
func NewReminderService(db *database.DB) *ReminderService {
	return &ReminderService{
		db:          db,
		subscribers: make(map[int]chan models.Reminder),
	}
}

// Create stores a reminder from a tool-call payload and notifies subscribers
func (s *ReminderService) Create(ctx context.Context, req *models.CreateReminderRequest) (*models.Reminder, error) {
	if req.PlantName == "" || req.Action == "" {
		return nil, fmt.Errorf("plantName and action are required")
	}
	if req.DueInHours <= 0 {
		return nil, fmt.Errorf("dueInHours must be positive")
	}

	now := time.Now().UnixMilli()
	reminder := &models.Reminder{
		ID:         uuid.New().String(),
		PlantName:  req.PlantName,
		Action:     req.Action,
		DueInHours: req.DueInHours,
		CreatedAt:  now,
		DueDate:    now + int64(req.DueInHours*60*60*1000),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (id, plant_name, action, due_in_hours, created_at, due_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`, reminder.ID, reminder.PlantName, reminder.Action, reminder.DueInHours,
		reminder.CreatedAt, reminder.DueDate)
	if err != nil {
		if isStorageFull(err) {
			return nil, ErrStorageFull
		}
		return nil, fmt.Errorf("failed to save reminder: %w", err)
	}

	s.notify(*reminder)

	log.Printf("⏰ [REMINDER] Set: %s %s in %.0f hours", reminder.Action, reminder.PlantName, reminder.DueInHours)
	return reminder, nil
}

// List returns all reminders sorted by due date ascending
func (s *ReminderService) List(ctx context.Context) ([]*models.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, plant_name, action, due_in_hours, created_at, due_date
		FROM reminders
		ORDER BY due_date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	reminders := []*models.Reminder{}
	for rows.Next() {
		var r models.Reminder
		if err := rows.Scan(&r.ID, &r.PlantName, &r.Action, &r.DueInHours, &r.CreatedAt, &r.DueDate); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, &r)
	}
	return reminders, rows.Err()
}

// Delete removes a reminder. Missing ids are a no-op success.
func (s *ReminderService) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM reminders WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

// Subscribe returns a channel that receives every reminder created after the
// call, plus an unsubscribe function. The channel is buffered; a slow
// consumer drops notifications rather than blocking the create path.
func (s *ReminderService) Subscribe() (<-chan models.Reminder, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++

	ch := make(chan models.Reminder, 16)
	s.subscribers[id] = ch

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

func (s *ReminderService) notify(reminder models.Reminder) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- reminder:
		default:
		}
	}
}
