package shared

import (
	"context"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each one is emitted after the corresponding mutation
// has been persisted.
const (
	// Student events
	EventStudentRegistered EventType = "student.registered"
	EventStudentDeleted    EventType = "student.deleted"

	// Course events
	EventCourseCreated EventType = "course.created"
	EventCourseDeleted EventType = "course.deleted"

	// Enrollment events
	EventEnrollmentCreated   EventType = "enrollment.created"
	EventEnrollmentCancelled EventType = "enrollment.cancelled"
	EventEnrollmentCompleted EventType = "enrollment.completed"
	EventEnrollmentDeleted   EventType = "enrollment.deleted"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the entity that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
	}
}

// StudentEvent is emitted when a student is registered or deleted.
type StudentEvent struct {
	BaseEvent
	Email string `json:"email,omitempty"`
}

// Payload implements Event interface.
func (e StudentEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.AggregateId,
		"email":      e.Email,
	}
}

// NewStudentEvent creates a new StudentEvent.
func NewStudentEvent(eventType EventType, studentID, email string) StudentEvent {
	return StudentEvent{
		BaseEvent: NewBaseEvent(eventType, studentID),
		Email:     email,
	}
}

// CourseEvent is emitted when a course is created or deleted.
type CourseEvent struct {
	BaseEvent
	Name string `json:"name,omitempty"`
}

// Payload implements Event interface.
func (e CourseEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"course_id": e.AggregateId,
		"name":      e.Name,
	}
}

// NewCourseEvent creates a new CourseEvent.
func NewCourseEvent(eventType EventType, courseID, name string) CourseEvent {
	return CourseEvent{
		BaseEvent: NewBaseEvent(eventType, courseID),
		Name:      name,
	}
}

// EnrollmentEvent is emitted on every enrollment lifecycle change.
type EnrollmentEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	CourseID  string `json:"course_id"`
	Status    string `json:"status"`
}

// Payload implements Event interface.
func (e EnrollmentEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"enrollment_id": e.AggregateId,
		"student_id":    e.StudentID,
		"course_id":     e.CourseID,
		"status":        e.Status,
	}
}

// NewEnrollmentEvent creates a new EnrollmentEvent.
func NewEnrollmentEvent(eventType EventType, enrollmentID, studentID, courseID, status string) EnrollmentEvent {
	return EnrollmentEvent{
		BaseEvent: NewBaseEvent(eventType, enrollmentID),
		StudentID: studentID,
		CourseID:  courseID,
		Status:    status,
	}
}

// EventHandler is a function that handles an event.
type EventHandler func(ctx context.Context, event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(ctx context.Context, event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }
