package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"todoctl/internal/backend/rest"
	"todoctl/internal/service"
	"todoctl/internal/testutil"
)

func newClient(srv *testutil.FakeServer) *rest.Client {
	return rest.NewWithHTTPClient(srv.URL, srv.Client(), nil)
}

func TestList_OrderAsReceived(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.Seed("b", false)
	srv.Seed("a", true)
	client := newClient(srv)

	tasks, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []service.Task{{ID: 1, Title: "b"}, {ID: 2, Title: "a", Completed: true}}
	if len(tasks) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(tasks))
	}
	for i := range want {
		if tasks[i] != want[i] {
			t.Errorf("task %d: expected %+v, got %+v", i, want[i], tasks[i])
		}
	}

	reqs := srv.Requests()
	if len(reqs) != 1 || reqs[0].Method != http.MethodGet || reqs[0].Path != "/todos/" {
		t.Fatalf("unexpected requests: %+v", reqs)
	}
	if reqs[0].Header.Get(rest.RequestIDHeader) == "" {
		t.Error("expected request id header")
	}
}

func TestList_Empty(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	client := newClient(srv)

	tasks, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no tasks, got %d", len(tasks))
	}
}

func TestList_RemoteError(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.FailWith(http.StatusInternalServerError)
	client := newClient(srv)

	_, err := client.List(context.Background())
	var re *service.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("expected RemoteError, got %T: %v", err, err)
	}
	if re.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", re.Status)
	}
}

func TestCreate_Success(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	client := newClient(srv)

	task, err := client.Create(context.Background(), "Buy milk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task != (service.Task{ID: 1, Title: "Buy milk"}) {
		t.Errorf("unexpected task: %+v", task)
	}

	req := srv.Requests()[0]
	if req.Method != http.MethodPost || req.Path != "/todos/" {
		t.Errorf("unexpected request %s %s", req.Method, req.Path)
	}
	if ct := req.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}
	var body map[string]any
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if len(body) != 1 || body["title"] != "Buy milk" {
		t.Errorf("unexpected request body: %s", req.Body)
	}
}

func TestCreate_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"missing id", `{"title":"x","completed":false}`},
		{"wrong type", `{"id":"seven","title":"x","completed":false}`},
		{"array", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.NewFakeServer(t)
			srv.RespondRaw(http.StatusCreated, tt.body)
			client := newClient(srv)

			_, err := client.Create(context.Background(), "x")
			var me *service.MalformedResponseError
			if !errors.As(err, &me) {
				t.Fatalf("expected MalformedResponseError, got %T: %v", err, err)
			}
		})
	}
}

func TestUpdate_PartialBody(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.Seed("a", false)
	client := newClient(srv)

	task, err := client.Update(context.Background(), 1, service.CompletedUpdate(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task != (service.Task{ID: 1, Title: "a", Completed: true}) {
		t.Errorf("unexpected task: %+v", task)
	}

	req := srv.Requests()[0]
	if req.Method != http.MethodPut || req.Path != "/todos/1" {
		t.Errorf("unexpected request %s %s", req.Method, req.Path)
	}
	if string(req.Body) != `{"completed":true}` {
		t.Errorf("expected only completed in body, got %s", req.Body)
	}
}

func TestUpdate_UnknownID(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	client := newClient(srv)

	_, err := client.Update(context.Background(), 42, service.TitleUpdate("x"))
	var re *service.RemoteError
	if !errors.As(err, &re) || re.Status != http.StatusNotFound {
		t.Fatalf("expected 404 RemoteError, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.Seed("a", false)
	client := newClient(srv)

	if err := client.Delete(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := srv.Requests()[0]
	if req.Method != http.MethodDelete || req.Path != "/todos/1" {
		t.Errorf("unexpected request %s %s", req.Method, req.Path)
	}

	err := client.Delete(context.Background(), 1)
	var re *service.RemoteError
	if !errors.As(err, &re) || re.Status != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %v", err)
	}
}

func TestTransportError(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	client := newClient(srv)
	srv.Close()

	_, err := client.List(context.Background())
	var te *service.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if te.Op != "list" {
		t.Errorf("expected op list, got %q", te.Op)
	}
}

func TestTransportError_Timeout(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	client := newClient(srv)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := client.List(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
