package roam

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Template variables injected by Notify alongside the caller's own.
const (
	varFuncName  = "funcName"
	varStartTime = "startTime"
	varEndTime   = "endTime"
	varException = "funcException"
)

// Placeholder values for the timing/exception variables on the path
// where they have no real value.
const (
	didNotFail     = "DID NOT FAIL"
	didNotComplete = "DID NOT COMPLETE"
)

// notifyTimeLayout is the wall-clock format used for startTime/endTime.
const notifyTimeLayout = "2006-01-02 15:04:05"

// Vars holds the named arguments of an instrumented operation. Every
// entry is passed to the operation and is also available as a template
// variable. Names colliding with a built-in variable are a render error.
type Vars map[string]any

// Func is the shape of an operation that Notify can instrument.
type Func func(ctx context.Context, vars Vars) (any, error)

// NotifyOptions configures one Notify wrapper.
type NotifyOptions struct {
	// Failure is the template sent when the operation returns an error.
	// Required.
	Failure string

	// Success, when non-empty, is the template sent when the operation
	// completes without error.
	Success string

	// Channels receive the notifications. When nil, the client's
	// default channels are used.
	Channels []string
}

// Notify returns a wrapper that instruments an operation with
// notification messages. The returned function takes the operation's
// name (exposed to templates as {funcName}) and the operation itself,
// and produces an operation of the same shape.
//
// The wrapper records a start timestamp, runs the operation, and then
// sends the failure or success template rendered against the call's
// Vars plus the built-ins {funcName}, {startTime}, {endTime} and
// {funcException}. On failure {endTime} is "DID NOT COMPLETE" and
// {funcException} is the error text; on success {funcException} is
// "DID NOT FAIL".
//
// The operation's error is never masked: if the failure notification
// itself cannot be rendered or sent, both errors are returned joined.
// A success-path notification failure is returned as an error alongside
// the operation's value.
func (c *Client) Notify(opts NotifyOptions) func(name string, fn Func) Func {
	return func(name string, fn Func) Func {
		return func(ctx context.Context, vars Vars) (any, error) {
			start := time.Now().Format(notifyTimeLayout)

			val, err := fn(ctx, vars)
			if err != nil {
				if nerr := c.sendNotification(ctx, opts.Failure, opts.Channels, vars, name, start, didNotComplete, err.Error()); nerr != nil {
					return nil, errors.Join(err, fmt.Errorf("roam: failure notification: %w", nerr))
				}
				return nil, err
			}

			if opts.Success == "" {
				return val, nil
			}
			end := time.Now().Format(notifyTimeLayout)
			if nerr := c.sendNotification(ctx, opts.Success, opts.Channels, vars, name, start, end, didNotFail); nerr != nil {
				return val, fmt.Errorf("roam: success notification: %w", nerr)
			}
			return val, nil
		}
	}
}

// sendNotification renders tmpl against vars plus the built-ins and
// dispatches it.
func (c *Client) sendNotification(ctx context.Context, tmpl string, channels []string, vars Vars, name, start, end, exception string) error {
	merged, err := mergeVars(vars, name, start, end, exception)
	if err != nil {
		return err
	}
	msg, err := renderTemplate(tmpl, merged)
	if err != nil {
		return err
	}
	return c.SendMessage(ctx, msg, channels...)
}

// mergeVars combines caller variables with the built-ins, rejecting
// collisions rather than silently overriding either side.
func mergeVars(vars Vars, name, start, end, exception string) (map[string]any, error) {
	merged := make(map[string]any, len(vars)+4)
	for k, v := range vars {
		merged[k] = v
	}

	builtins := map[string]string{
		varFuncName:  name,
		varStartTime: start,
		varEndTime:   end,
		varException: exception,
	}
	for k, v := range builtins {
		if _, ok := merged[k]; ok {
			return nil, fmt.Errorf("template: variable %q collides with a built-in", k)
		}
		merged[k] = v
	}
	return merged, nil
}
