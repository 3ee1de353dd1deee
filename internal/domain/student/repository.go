package student

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранилища студентов.
// Порядок FindAll совпадает с порядком вставки.
type Repository interface {
	// FindAll возвращает всех студентов.
	FindAll(ctx context.Context) ([]*Student, error)

	// FindByID возвращает студента по ID.
	// Возвращает ErrStudentNotFound, если студент не найден.
	FindByID(ctx context.Context, id string) (*Student, error)

	// FindByEmail ищет студента по email без учёта регистра.
	// Возвращает ErrStudentNotFound, если студент не найден.
	FindByEmail(ctx context.Context, email string) (*Student, error)

	// Save вставляет или заменяет студента по ID и сохраняет коллекцию.
	Save(ctx context.Context, s *Student) (*Student, error)

	// Update - то же самое, что Save.
	Update(ctx context.Context, s *Student) (*Student, error)

	// Delete удаляет студента. Возвращает true, если запись была удалена.
	Delete(ctx context.Context, id string) (bool, error)
}
