package aggregator

import (
	"context"
	"sync"
	"testing"

	xerrors "TodoTally/internal/errors"
	"TodoTally/internal/observability/alerting"
	"TodoTally/internal/todo"
)

type fakeSource struct {
	records []todo.Record
	err     error
}

func (f *fakeSource) Fetch(context.Context) ([]todo.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []alerting.Event
}

func (d *recordingDispatcher) Notify(_ context.Context, event alerting.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func boolPtr(v bool) *bool { return &v }
func idPtr(v int64) *int64 { return &v }

func TestHandleSuccess(t *testing.T) {
	source := &fakeSource{records: []todo.Record{
		{ID: idPtr(1), Completed: boolPtr(true)},
		{ID: idPtr(2), Completed: boolPtr(false)},
		{ID: idPtr(3), Completed: boolPtr(true)},
	}}

	handler, err := NewHandler(source)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	summary, err := handler.Handle(context.Background(), nil)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if summary.CompletedCount[todo.KeyTrue] != 2 || summary.CompletedCount[todo.KeyFalse] != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestHandleEmptyUpstream(t *testing.T) {
	handler, err := NewHandler(&fakeSource{records: []todo.Record{}})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	summary, err := handler.Handle(context.Background(), nil)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if summary.CompletedCount == nil || len(summary.CompletedCount) != 0 {
		t.Fatalf("expected an empty mapping, got %+v", summary.CompletedCount)
	}
}

func TestHandlePropagatesFailure(t *testing.T) {
	fetchErr := xerrors.New(todo.CodeSourceStatus, "数据源返回错误状态 503")
	dispatcher := &recordingDispatcher{}

	handler, err := NewHandler(&fakeSource{err: fetchErr}, WithAlertDispatcher(dispatcher))
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	_, err = handler.Handle(context.Background(), nil)
	if err == nil {
		t.Fatal("expected the invocation to fail")
	}
	if xerrors.CodeOf(err) != todo.CodeSourceStatus {
		t.Fatalf("unexpected error code: %s", xerrors.CodeOf(err))
	}

	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	if len(dispatcher.events) != 1 {
		t.Fatalf("expected one alert event, got %d", len(dispatcher.events))
	}
	event := dispatcher.events[0]
	if event.Code != todo.CodeSourceStatus {
		t.Fatalf("unexpected alert code: %s", event.Code)
	}
	if event.InvocationID == "" {
		t.Fatal("alert event must carry the invocation id")
	}
}

func TestNewHandlerRequiresSource(t *testing.T) {
	if _, err := NewHandler(nil); xerrors.CodeOf(err) != xerrors.CodeInitializationFailure {
		t.Fatalf("expected initialization failure, got %v", err)
	}
}
