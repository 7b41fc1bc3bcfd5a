package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_DeliversInSubscriptionOrder(t *testing.T) {
	d := NewDispatcher()
	var order []string

	d.Subscribe("attempt.submitted", func(_ context.Context, _ Event) error {
		order = append(order, "grades")
		return nil
	})
	d.Subscribe("attempt.submitted", func(_ context.Context, _ Event) error {
		order = append(order, "gamification")
		return nil
	})

	d.Publish(context.Background(), AttemptSubmitted{UserID: 10, QuizID: 1, Result: 3, Total: 5})

	// Агрегация оценок всегда раньше геймификации
	assert.Equal(t, []string{"grades", "gamification"}, order)
}

func TestDispatcher_HandlerErrorDoesNotStopOthers(t *testing.T) {
	d := NewDispatcher()
	secondCalled := false

	d.Subscribe("attempt.submitted", func(_ context.Context, _ Event) error {
		return errors.New("db unavailable")
	})
	d.Subscribe("attempt.submitted", func(_ context.Context, _ Event) error {
		secondCalled = true
		return nil
	})

	d.Publish(context.Background(), AttemptSubmitted{UserID: 10})

	assert.True(t, secondCalled)
}

func TestDispatcher_PanicIsIsolated(t *testing.T) {
	d := NewDispatcher()
	secondCalled := false

	d.Subscribe("submission.graded", func(_ context.Context, _ Event) error {
		panic("handler bug")
	})
	d.Subscribe("submission.graded", func(_ context.Context, _ Event) error {
		secondCalled = true
		return nil
	})

	// Публикация не паникует и доставляет событие остальным
	assert.NotPanics(t, func() {
		d.Publish(context.Background(), SubmissionGraded{UserID: 10, CourseID: 5})
	})
	assert.True(t, secondCalled)
}

func TestDispatcher_EventsRoutedByName(t *testing.T) {
	d := NewDispatcher()
	var attempts, activities int

	d.Subscribe("attempt.submitted", func(_ context.Context, _ Event) error {
		attempts++
		return nil
	})
	d.Subscribe("activity.recorded", func(_ context.Context, _ Event) error {
		activities++
		return nil
	})

	d.Publish(context.Background(), AttemptSubmitted{UserID: 10})
	d.Publish(context.Background(), ActivityRecorded{UserID: 10, Kind: ActivityDiscussionPost})
	d.Publish(context.Background(), ActivityRecorded{UserID: 10, Kind: ActivityAssignmentSubmitted})

	assert.Equal(t, 1, attempts)
	assert.Equal(t, 2, activities)
}

func TestDispatcher_NoSubscribersIsNoOp(t *testing.T) {
	d := NewDispatcher()

	assert.NotPanics(t, func() {
		d.Publish(context.Background(), AttemptSubmitted{UserID: 10})
	})
}
