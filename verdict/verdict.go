/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package verdict

// defaultFailureReason is used when a failure is built without a reason.
const defaultFailureReason = "failed"

// Verdict is a binary outcome with an attached reason.
type Verdict struct {
	Succeeded bool
	Reason    string

	// Err is the underlying error when the failure came from one.
	Err error
}

// Succeed returns a successful Verdict.
func Succeed(reason string) Verdict {
	return Verdict{Succeeded: true, Reason: reason}
}

// Fail returns a failed Verdict. An empty reason is replaced so that a failed
// Verdict never carries an empty reason.
func Fail(reason string) Verdict {
	if reason == "" {
		reason = defaultFailureReason
	}
	return Verdict{Reason: reason}
}

// FailErr returns a failed Verdict whose reason is the error's message.
func FailErr(err error) Verdict {
	if err == nil {
		return Fail("")
	}
	v := Fail(err.Error())
	v.Err = err
	return v
}

// Failed reports whether the Verdict is a failure.
func (v Verdict) Failed() bool {
	return !v.Succeeded
}

// String implements fmt.Stringer.
func (v Verdict) String() string {
	if v.Succeeded {
		return "succeeded: " + v.Reason
	}
	return "failed: " + v.Reason
}

// Value is a Verdict carrying a payload. Failed values may still carry a
// payload; callers decide whether it is meaningful.
type Value[T any] struct {
	Verdict
	Value T
}

// SucceedWith returns a successful Value.
func SucceedWith[T any](value T, reason string) Value[T] {
	return Value[T]{Verdict: Succeed(reason), Value: value}
}

// FailWith returns a failed Value.
func FailWith[T any](value T, reason string) Value[T] {
	return Value[T]{Verdict: Fail(reason), Value: value}
}

// FailWithErr returns a failed Value whose reason comes from err.
func FailWithErr[T any](value T, err error) Value[T] {
	return Value[T]{Verdict: FailErr(err), Value: value}
}
