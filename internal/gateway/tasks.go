package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/apper-apps/clientflow-continuous/internal/apper"
	"github.com/apper-apps/clientflow-continuous/internal/models"
)

// TaskService is the task resource plus status changes and time tracking.
// Time is tracked as time_log records; the task points at its running log
// through active_timer and accumulates finished durations in total_time.
type TaskService struct {
	*Resource[models.Task, models.TaskInput, models.TaskPatch]

	logs   *Resource[models.TimeLog, timeLogInput, timeLogPatch]
	logger zerolog.Logger
	now    func() time.Time
}

func (s *TaskService) UpdateStatus(ctx context.Context, id, status string) (*models.Task, error) {
	return s.update(ctx, "update task status", id, models.TaskPatch{
		Status: models.Set(status),
	})
}

// StartTimer opens a time log for the task and marks it as the task's active
// timer. A task can only have one running timer.
func (s *TaskService) StartTimer(ctx context.Context, taskID string) (*models.TimeLog, error) {
	const op = "start task timer"

	task, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Running() {
		return nil, fmt.Errorf("task #%d: %w", task.ID, ErrTimerRunning)
	}

	now := s.now()
	log, err := s.logs.create(ctx, op, timeLogInput{
		Name:      fmt.Sprintf("Task-%d-%d", task.ID, now.UnixMilli()),
		TaskID:    task.ID,
		StartedAt: now,
	})
	if err != nil {
		return nil, err
	}

	_, err = s.update(ctx, op, formatID(task.ID), models.TaskPatch{
		ActiveTimer: models.Set(log.ID),
	})
	if err != nil {
		if delErr := s.logs.Delete(ctx, formatID(log.ID)); delErr != nil {
			s.logger.Error().
				Err(delErr).
				Int64("task_id", task.ID).
				Int64("time_log_id", log.ID).
				Msg("failed to remove orphaned time log")
		}
		return nil, err
	}

	return log, nil
}

// StopTimer closes the running time log and adds its duration to the task.
// When the store no longer has the log, the task's timer is cleared without
// adding time and ErrTimeLogMissing is returned.
func (s *TaskService) StopTimer(ctx context.Context, taskID string) (*models.TimeLog, error) {
	const op = "stop task timer"

	task, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.Running() {
		return nil, fmt.Errorf("task #%d: %w", task.ID, ErrNoActiveTimer)
	}

	logID := formatID(task.ActiveTimer.ID)
	log, err := s.logs.Get(ctx, logID)
	if err != nil {
		var rej *RemoteRejection
		if !errors.As(err, &rej) || rej.Err != nil {
			return nil, err
		}
		return nil, s.dropMissingLog(ctx, op, task, err)
	}

	now := s.now()
	elapsed := int64(now.Sub(log.StartedAt.Time) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	stopped, err := s.logs.update(ctx, op, logID, timeLogPatch{
		EndedAt:  models.Set(now),
		Duration: models.Set(elapsed),
	})
	if err != nil {
		return nil, err
	}

	_, err = s.update(ctx, op, formatID(task.ID), models.TaskPatch{
		TotalTime:   models.Set(task.TotalTime + elapsed),
		ActiveTimer: models.Clear[int64](),
	})
	if err != nil {
		return nil, err
	}

	return stopped, nil
}

func (s *TaskService) dropMissingLog(ctx context.Context, op string, task *models.Task, cause error) error {
	s.logger.Warn().
		Err(cause).
		Int64("task_id", task.ID).
		Int64("time_log_id", task.ActiveTimer.ID).
		Msg("active timer points at a missing time log")

	_, err := s.update(ctx, op, formatID(task.ID), models.TaskPatch{
		ActiveTimer: models.Clear[int64](),
	})
	if err != nil {
		return err
	}
	return fmt.Errorf("task #%d: %w", task.ID, ErrTimeLogMissing)
}

// TimeLogs returns the task's time logs, oldest first.
func (s *TaskService) TimeLogs(ctx context.Context, taskID string) ([]models.TimeLog, error) {
	return s.logs.Find(ctx, apper.FetchParams{
		Fields: timeLogFields,
		Where: []apper.Condition{{
			FieldName: "task_id",
			Operator:  apper.OpEqualTo,
			Values:    []any{models.CoerceID(taskID)},
		}},
		OrderBy: []apper.Order{{FieldName: "started_at", SortType: apper.SortAsc}},
	})
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
