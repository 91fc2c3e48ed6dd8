package errors

import (
	"errors"
	"fmt"
)

type InvalidThreadCountError struct {
	Count int
	Max   int
}

func NewInvalidThreadCountError(count, max int) *InvalidThreadCountError {
	return &InvalidThreadCountError{Count: count, Max: max}
}

func (e *InvalidThreadCountError) Error() string {
	return fmt.Sprintf("invalid thread count %d: must be between 1 and %d", e.Count, e.Max)
}

func IsInvalidThreadCountError(err error) bool {
	var e *InvalidThreadCountError
	return errors.As(err, &e)
}

type InvalidPriorityError struct {
	Priority string
}

func NewInvalidPriorityError(priority string) *InvalidPriorityError {
	return &InvalidPriorityError{Priority: priority}
}

func (e *InvalidPriorityError) Error() string {
	return fmt.Sprintf("invalid job priority: %s", e.Priority)
}

func IsInvalidPriorityError(err error) bool {
	var e *InvalidPriorityError
	return errors.As(err, &e)
}

type InvalidJobTypeError struct {
	Type string
}

func NewInvalidJobTypeError(t string) *InvalidJobTypeError {
	return &InvalidJobTypeError{Type: t}
}

func (e *InvalidJobTypeError) Error() string {
	return fmt.Sprintf("invalid job type: %q", e.Type)
}

func IsInvalidJobTypeError(err error) bool {
	var e *InvalidJobTypeError
	return errors.As(err, &e)
}

type InvalidJobError struct {
	Reason string
}

func NewInvalidJobError(reason string) *InvalidJobError {
	return &InvalidJobError{Reason: reason}
}

func (e *InvalidJobError) Error() string {
	return fmt.Sprintf("invalid job: %s", e.Reason)
}

func IsInvalidJobError(err error) bool {
	var e *InvalidJobError
	return errors.As(err, &e)
}

// QueueFullError is returned by Submit when the priority queue selected for
// the job has reached its capacity. The job is not accepted.
type QueueFullError struct {
	Priority string
	Capacity int
}

func NewQueueFullError(priority string, capacity int) *QueueFullError {
	return &QueueFullError{Priority: priority, Capacity: capacity}
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("%s priority queue is full (capacity %d)", e.Priority, e.Capacity)
}

func IsQueueFullError(err error) bool {
	var e *QueueFullError
	return errors.As(err, &e)
}

// SchedulerStateError is returned when an operation is not allowed in the
// current lifecycle state of the scheduler.
type SchedulerStateError struct {
	State string
	Op    string
}

func NewSchedulerStateError(op, state string) *SchedulerStateError {
	return &SchedulerStateError{Op: op, State: state}
}

func (e *SchedulerStateError) Error() string {
	return fmt.Sprintf("cannot %s: scheduler is %s", e.Op, e.State)
}

func IsSchedulerStateError(err error) bool {
	var e *SchedulerStateError
	return errors.As(err, &e)
}

type ResourceNotFoundError struct {
	Resource string
	ID       string
}

func NewResourceNotFoundError(resource, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Resource: resource, ID: id}
}

func NewJobRecordNotFoundError(handle uint64) *ResourceNotFoundError {
	return NewResourceNotFoundError("job", fmt.Sprintf("%d", handle))
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

type InvalidBackendError struct {
	Name string
}

func NewInvalidBackendError(name string) *InvalidBackendError {
	return &InvalidBackendError{Name: name}
}

func (e *InvalidBackendError) Error() string {
	return fmt.Sprintf("unknown render backend: %q", e.Name)
}

func IsInvalidBackendError(err error) bool {
	var e *InvalidBackendError
	return errors.As(err, &e)
}
