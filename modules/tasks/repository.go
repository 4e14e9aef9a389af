package tasks

import (
	"errors"
	"fmt"

	domain "github.com/example/task-manager-api/domain/task"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a task does not exist for the given owner.
	// A task owned by someone else is reported the same way; callers cannot
	// distinguish the two cases.
	ErrNotFound = errors.New("task not found")
	// ErrMalformedID is returned when the task id is not a valid UUID. The
	// API surfaces this as a store fault, not a not-found.
	ErrMalformedID = errors.New("malformed task id")
)

// Repository provides owner-scoped access to task storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new task to the database.
func (r *Repository) Create(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by id, scoped to its owner.
func (r *Repository) FindByID(id, ownerID string) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedID, id)
	}

	var task domain.Task
	err := r.db.First(&task, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// FindByOwner retrieves the owner's tasks matching the translated query.
func (r *Repository) FindByOwner(ownerID string, q ListQuery) ([]*domain.Task, error) {
	tx := r.db.Where("owner_id = ?", ownerID)
	if q.Completed != nil {
		tx = tx.Where("completed = ?", *q.Completed)
	}
	if q.OrderBy != "" {
		tx = tx.Order(q.OrderBy)
	}
	if q.Skip > 0 {
		tx = tx.Offset(q.Skip)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var found []*domain.Task
	if err := tx.Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return found, nil
}

// Update persists changes to an existing task, scoped to its owner.
func (r *Repository) Update(task *domain.Task) error {
	result := r.db.Model(&domain.Task{}).
		Where("id = ? AND owner_id = ?", task.ID, task.OwnerID).
		Updates(map[string]any{
			"description": task.Description,
			"completed":   task.Completed,
		})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task by id, scoped to its owner.
func (r *Repository) Delete(id, ownerID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedID, id)
	}

	result := r.db.Delete(&domain.Task{}, "id = ? AND owner_id = ?", id, ownerID)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByOwner removes every task belonging to the owner. Used by the
// account deletion cascade.
func (r *Repository) DeleteByOwner(ownerID string) (int64, error) {
	result := r.db.Delete(&domain.Task{}, "owner_id = ?", ownerID)
	if err := result.Error; err != nil {
		return 0, fmt.Errorf("failed to delete tasks: %w", err)
	}
	return result.RowsAffected, nil
}
