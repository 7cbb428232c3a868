package resource

import (
	"context"
	"encoding/json"
	"sync"
)

type call struct {
	Method string
	Path   string
	Params NormalizedQuery
	Body   any
}

type reply struct {
	body string
	err  error
}

// fakeTransport replays canned JSON bodies keyed by "METHOD path" and records
// every call it receives.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []call
	replies map[string]reply
	handler func(c call) (string, error)
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{replies: map[string]reply{}}
}

func (f *fakeTransport) on(method, path, body string) *fakeTransport {
	f.replies[method+" "+path] = reply{body: body}
	return f
}

func (f *fakeTransport) fail(method, path string, err error) *fakeTransport {
	f.replies[method+" "+path] = reply{err: err}
	return f
}

func (f *fakeTransport) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeTransport) lastCall() call {
	calls := f.recorded()
	if len(calls) == 0 {
		return call{}
	}
	return calls[len(calls)-1]
}

func (f *fakeTransport) do(c call, out any) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	r, ok := f.replies[c.Method+" "+c.Path]
	handler := f.handler
	f.mu.Unlock()

	if handler != nil {
		body, err := handler(c)
		r, ok = reply{body: body, err: err}, true
	}
	if !ok {
		return &TransportError{Method: c.Method, Path: c.Path, StatusCode: 404, Message: "not found"}
	}
	if r.err != nil {
		return r.err
	}
	if out == nil || r.body == "" {
		return nil
	}
	return json.Unmarshal([]byte(r.body), out)
}

func (f *fakeTransport) Get(_ context.Context, path string, params NormalizedQuery, out any) error {
	return f.do(call{Method: "GET", Path: path, Params: params}, out)
}

func (f *fakeTransport) Post(_ context.Context, path string, body, out any) error {
	return f.do(call{Method: "POST", Path: path, Body: body}, out)
}

func (f *fakeTransport) Put(_ context.Context, path string, body, out any) error {
	return f.do(call{Method: "PUT", Path: path, Body: body}, out)
}

func (f *fakeTransport) Patch(_ context.Context, path string, body, out any) error {
	return f.do(call{Method: "PATCH", Path: path, Body: body}, out)
}

func (f *fakeTransport) Delete(_ context.Context, path string) error {
	return f.do(call{Method: "DELETE", Path: path}, nil)
}
