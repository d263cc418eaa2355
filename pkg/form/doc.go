// Package form keeps the editing state of a single sign-up form: the
// committed values, which fields the user has touched, and the errors that
// are currently visible.
//
// Every keystroke goes through Input, which runs the field's formatter
// against the previous value, commits the result and schedules a deferred
// Blur. The deferred task observes the committed value, so validation always
// sees what the user sees. Errors are shown for touched fields only; Submit
// touches everything.
//
//	var queue form.Queue
//	f := form.New(signup.NannySchema(), form.WithScheduler(&queue))
//	f.Input("ssn", "123456")       // "123-45-6"
//	f.Input("phoneNumber", "555-1") // "555-1"
//	queue.Flush()
//	f.Errors() // {"phoneNumber": "Invalid Phone Number"}
//
// Two schedulers are provided: TimerScheduler defers to a zero-delay timer and
// Queue holds tasks until Flush is called.
package form
