package testutil

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"todoctl/internal/service"
)

// FakeServer is an HTTP stand-in for the remote persistence service.
// It serves the /todos/ contract from memory.
type FakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	tasks    []service.Task
	nextID   int64
	failWith int
	rawBody  string
	requests []RecordedRequest
}

// RecordedRequest is a request as seen by FakeServer.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// NewFakeServer starts a FakeServer and closes it when the test ends.
func NewFakeServer(t *testing.T) *FakeServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fs := &FakeServer{nextID: 1}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(fs.record, fs.inject)
	r.GET("/todos/", fs.list)
	r.POST("/todos/", fs.create)
	r.PUT("/todos/:id", fs.update)
	r.DELETE("/todos/:id", fs.delete)

	fs.Server = httptest.NewServer(r)
	t.Cleanup(fs.Close)
	return fs
}

// Seed adds a task directly.
func (fs *FakeServer) Seed(title string, completed bool) service.Task {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	task := service.Task{ID: fs.nextID, Title: title, Completed: completed}
	fs.nextID++
	fs.tasks = append(fs.tasks, task)
	return task
}

// FailWith makes every subsequent request answer with status. Zero disables it.
func (fs *FakeServer) FailWith(status int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.failWith = status
	fs.rawBody = `{"detail":"injected failure"}`
}

// RespondRaw makes every subsequent request answer with status and body verbatim.
func (fs *FakeServer) RespondRaw(status int, body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.failWith = status
	fs.rawBody = body
}

// Tasks returns the server-side collection.
func (fs *FakeServer) Tasks() []service.Task {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]service.Task, len(fs.tasks))
	copy(out, fs.tasks)
	return out
}

// Requests returns the requests received so far.
func (fs *FakeServer) Requests() []RecordedRequest {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]RecordedRequest, len(fs.requests))
	copy(out, fs.requests)
	return out
}

func (fs *FakeServer) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	fs.mu.Lock()
	fs.requests = append(fs.requests, RecordedRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Header: c.Request.Header.Clone(),
		Body:   body,
	})
	fs.mu.Unlock()
	c.Next()
}

func (fs *FakeServer) inject(c *gin.Context) {
	fs.mu.Lock()
	status, body := fs.failWith, fs.rawBody
	fs.mu.Unlock()
	if status != 0 {
		c.Data(status, "application/json", []byte(body))
		c.Abort()
		return
	}
	c.Next()
}

func (fs *FakeServer) list(c *gin.Context) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]service.Task, len(fs.tasks))
	copy(out, fs.tasks)
	c.JSON(http.StatusOK, out)
}

func (fs *FakeServer) create(c *gin.Context) {
	var body struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Title is required and cannot be empty"})
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	task := service.Task{ID: fs.nextID, Title: title}
	fs.nextID++
	fs.tasks = append(fs.tasks, task)
	c.JSON(http.StatusCreated, task)
}

func (fs *FakeServer) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var upd service.TaskUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Title cannot be empty"})
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.tasks {
		if fs.tasks[i].ID != id {
			continue
		}
		if upd.Title != nil {
			fs.tasks[i].Title = strings.TrimSpace(*upd.Title)
		}
		if upd.Completed != nil {
			fs.tasks[i].Completed = *upd.Completed
		}
		c.JSON(http.StatusOK, fs.tasks[i])
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Todo not found"})
}

func (fs *FakeServer) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i, t := range fs.tasks {
		if t.ID == id {
			fs.tasks = append(fs.tasks[:i], fs.tasks[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Todo not found"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid id"})
		return 0, false
	}
	return id, true
}
