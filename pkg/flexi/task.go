// Package flexi is the runtime library linked by flexigen-generated code.
//
// A generated async variant spawns the primary function's body on a fresh
// goroutine and hands the caller a Task: a single-resolution container that
// settles to either a value or an error. The package has no scheduler of its
// own; cancellation and timeouts belong to the caller's context.
package flexi

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// Unit is the value arm used when the primary function declares no results.
type Unit struct{}

// Task is a spawned computation resolving to a value of T or an error of E.
// The E constraint makes instantiating a Task with a non-error type a compile
// error in the package that holds the generated code.
type Task[T any, E error] struct {
	done  chan struct{}
	value T
	err   E
	// failure carries an error E cannot express: a recovered panic, or a
	// conversion that did not hold. Err and Wait report it; the E arm stays
	// zero.
	failure error
	isErr   bool
}

// PanicError wraps a panic recovered from a spawned body so it can travel
// through the Task's error arm instead of tearing down the goroutine.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("recovered panic: %v", e.Value)
}

// ConversionError reports a failure the task's declared error arm could not
// carry: the configured conversion did not hold for the error the body
// produced.
type ConversionError struct {
	Cause error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("failure not convertible to the declared error arm: %v", e.Cause)
}

// Unwrap exposes the original failure.
func (e *ConversionError) Unwrap() error { return e.Cause }

// Spawn runs fn on a new goroutine and returns a Task that resolves when fn
// returns. A panic inside fn is recovered into a *PanicError on the error arm.
func Spawn[T any](fn func() (T, error)) *Task[T, error] {
	return SpawnAs[T](func(err error) error { return err }, fn)
}

// SpawnAs is Spawn with an explicit error arm: convert coerces any failure
// (returned error or recovered panic) into E before the Task settles.
// Generated code passes ConvertAs[E] here when an error type override is in
// effect. A failure convert cannot coerce settles the task with a
// *ConversionError on Err and Wait; the spawned goroutine never crashes the
// process.
func SpawnAs[T any, E error](convert func(error) E, fn func() (T, error)) *Task[T, E] {
	t := &Task[T, E]{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		value, err := Call(fn)
		if err == nil {
			t.value = value
			return
		}
		t.isErr = true
		converted, ok := tryConvert(convert, err)
		if !ok {
			t.failure = &ConversionError{Cause: err}
			return
		}
		t.err = converted
	}()
	return t
}

// SpawnFrom runs a result-like fn on a new goroutine, keeping its concrete
// arms end to end. A nil error arm, including a typed nil pointer boxed into
// the error interface, settles the task as success. A panic in fn settles
// the failure side with a *PanicError on Err and Wait. Generated code calls
// this when the primary's return type already declares the error arm.
func SpawnFrom[T any, E error](fn func() (T, E)) *Task[T, E] {
	t := &Task[T, E]{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.isErr = true
				t.failure = &PanicError{Value: r}
			}
		}()
		value, err := fn()
		if isNilError(err) {
			t.value = value
			return
		}
		t.err = err
		t.isErr = true
	}()
	return t
}

// Call runs fn synchronously, recovering a panic into the error result.
// Generated sync-mode wrappers call through here.
func Call[T any](fn func() (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = &PanicError{Value: r}
		}
	}()
	return fn()
}

// Done returns a channel closed once the task has settled.
func (t *Task[T, E]) Done() <-chan struct{} {
	return t.done
}

// Get blocks until the task settles and returns both arms. Exactly one arm
// is meaningful; the other is its zero value. A failure E cannot carry
// leaves both arms zero; Err and Wait still report it.
func (t *Task[T, E]) Get() (T, E) {
	<-t.done
	return t.value, t.err
}

// Err blocks until the task settles and returns the failure, or nil when
// the task resolved to a value.
func (t *Task[T, E]) Err() error {
	<-t.done
	if !t.isErr {
		return nil
	}
	if t.failure != nil {
		return t.failure
	}
	return t.err
}

// Wait blocks until the task settles or ctx is done, whichever comes first.
// The spawned body keeps running after a context failure; only the wait is
// abandoned.
func (t *Task[T, E]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		if !t.isErr {
			return t.value, nil
		}
		if t.failure != nil {
			var zero T
			return zero, t.failure
		}
		return t.value, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// ConvertAs coerces err into the concrete error type E using errors.As
// semantics. The generated code's error type override promises this
// conversion holds for every failure the body can produce; a failure outside
// that promise panics with the original error attached. Inside SpawnAs the
// panic is contained and settles the task as a *ConversionError; in a
// generated sync wrapper it reaches the caller's goroutine.
func ConvertAs[E error](err error) E {
	var target E
	if errors.As(err, &target) {
		return target
	}
	panic(fmt.Sprintf("flexi: cannot convert %T into %T: %v", err, target, err))
}

// tryConvert runs convert, reporting a conversion panic as !ok.
func tryConvert[E error](convert func(error) E, err error) (converted E, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return convert(err), true
}

// isNilError reports whether a concrete error arm carries no failure. Error
// arm types are interfaces or pointers in practice; a non-nilable value
// always counts as a failure.
func isNilError(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	}
	return false
}
