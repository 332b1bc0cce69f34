// Package transporttest provides an in-memory transport for tests.
package transporttest

import (
	"context"
	"sync"
)

type Call struct {
	Method string
	Query  string
}

// Fake answers every call through Respond and records it. A nil Respond
// answers "".
type Fake struct {
	Respond func(method, query string) string

	mu    sync.Mutex
	calls []Call
}

func (f *Fake) Get(_ context.Context, query string) string {
	return f.handle("GET", query)
}

func (f *Fake) Post(_ context.Context, query string) string {
	return f.handle("POST", query)
}

func (f *Fake) handle(method, query string) string {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Query: query})
	f.mu.Unlock()
	if f.Respond == nil {
		return ""
	}
	return f.Respond(method, query)
}

func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}
