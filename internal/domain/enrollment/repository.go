package enrollment

import "context"

// Repository определяет операции хранилища записей.
// Порядок выдачи совпадает с порядком вставки.
type Repository interface {
	// FindAll возвращает все записи.
	FindAll(ctx context.Context) ([]*Enrollment, error)

	// FindByID возвращает запись по ID.
	// Возвращает ErrEnrollmentNotFound, если запись не найдена.
	FindByID(ctx context.Context, id string) (*Enrollment, error)

	// FindByStudentID возвращает записи студента.
	FindByStudentID(ctx context.Context, studentID string) ([]*Enrollment, error)

	// FindByCourseID возвращает записи на курс.
	FindByCourseID(ctx context.Context, courseID string) ([]*Enrollment, error)

	// Save вставляет или заменяет запись по ID и сохраняет коллекцию.
	Save(ctx context.Context, e *Enrollment) (*Enrollment, error)

	// Update - то же самое, что Save.
	Update(ctx context.Context, e *Enrollment) (*Enrollment, error)

	// Delete удаляет запись. Возвращает true, если запись была удалена.
	Delete(ctx context.Context, id string) (bool, error)

	// Atomically выполняет fn под блокировкой записи хранилища.
	// Вызовы Atomically не перекрываются, поэтому проверка внутри fn
	// остаётся верной до её собственной записи. Вложенный вызов блокирует.
	Atomically(ctx context.Context, fn func(ctx context.Context) error) error
}
