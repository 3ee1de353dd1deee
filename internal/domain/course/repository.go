package course

import "context"

// Repository определяет операции хранилища курсов.
// Порядок FindAll совпадает с порядком вставки.
type Repository interface {
	// FindAll возвращает все курсы.
	FindAll(ctx context.Context) ([]*Course, error)

	// FindByID возвращает курс по ID.
	// Возвращает ErrCourseNotFound, если курс не найден.
	FindByID(ctx context.Context, id string) (*Course, error)

	// Save вставляет или заменяет курс по ID и сохраняет коллекцию.
	Save(ctx context.Context, c *Course) (*Course, error)

	// Update - то же самое, что Save.
	Update(ctx context.Context, c *Course) (*Course, error)

	// Delete удаляет курс. Возвращает true, если запись была удалена.
	Delete(ctx context.Context, id string) (bool, error)
}
