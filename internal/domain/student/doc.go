// Package student содержит доменную модель студента.
//
// Пакет определяет:
//
//   - Сущность Student (идентификатор, имя, email, дата рождения)
//   - Интерфейс репозитория Repository
//   - Доменные ошибки (ErrStudentNotFound, ErrEmailTaken и др.)
//
// # Архитектурные принципы
//
//  1. Нулевые внешние зависимости - только стандартная библиотека Go
//  2. Dependency Inversion - интерфейс Repository реализуется в infrastructure
//  3. Валидация входных данных выполняется в слое application (command)
//
// # Уникальность
//
// Email является ключом уникальности без учёта регистра. Сущность хранит
// email в нижнем регистре, поэтому сравнение сводится к strings.EqualFold.
//
//	s := student.NewStudent(uuid.NewString(), " Ana ", "Ana@Example.com", time.Time{})
//	// s.Name == "Ana", s.Email == "ana@example.com"
package student
