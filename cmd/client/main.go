// Command client is a manual smoke test for a running API server. It walks
// the register, login, project, and task flows and prints each response.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

var (
	baseURL  = flag.String("url", "http://localhost:8080", "API base URL")
	email    = flag.String("email", "", "account email (default: generated)")
	password = flag.String("password", "Smoke5Test", "account password")
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

type client struct {
	http    *http.Client
	baseURL string
	token   string
}

func main() {
	flag.Parse()

	addr := *email
	if addr == "" {
		addr = fmt.Sprintf("smoke-%d@example.com", time.Now().Unix())
	}

	c := &client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: *baseURL,
	}

	fmt.Println("== register ==")
	var session struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
	}
	c.call(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Smoke Tester",
		"email":    addr,
		"password": *password,
	}, &session)
	c.token = session.Tokens.AccessToken
	fmt.Printf("registered %s\n", session.User.Email)

	fmt.Println("== create project ==")
	var project struct {
		ID string `json:"id"`
	}
	c.call(http.MethodPost, "/api/v1/projects", map[string]string{
		"title":    "Smoke Test Project",
		"priority": "high",
	}, &project)
	fmt.Printf("project %s\n", project.ID)

	fmt.Println("== create task ==")
	var task struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	c.call(http.MethodPost, "/api/v1/tasks", map[string]string{
		"title":     "Smoke Test Task",
		"projectId": project.ID,
	}, &task)
	fmt.Printf("task %s status=%s\n", task.ID, task.Status)

	fmt.Println("== complete task ==")
	var completed struct {
		Progress int `json:"progress"`
	}
	c.call(http.MethodPut, "/api/v1/tasks/"+task.ID, map[string]string{
		"status": "completed",
	}, &completed)
	fmt.Printf("progress=%d\n", completed.Progress)

	fmt.Println("== dashboard ==")
	var stats struct {
		TotalTasks     int `json:"totalTasks"`
		CompletedTasks int `json:"completedTasks"`
	}
	c.call(http.MethodGet, "/api/v1/dashboard/stats", nil, &stats)
	fmt.Printf("tasks=%d completed=%d\n", stats.TotalTasks, stats.CompletedTasks)

	fmt.Println("all flows passed")
}

// call issues a request and decodes the envelope's data into out.
func (c *client) call(method, path string, body interface{}, out interface{}) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			log.Fatalf("%s %s: encode: %v", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("%s %s: read body: %v", method, path, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Fatalf("%s %s: decode: %v\n%s", method, path, err, raw)
	}
	if !env.Success {
		log.Fatalf("%s %s: HTTP %d: %v", method, path, resp.StatusCode, env.Errors)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			log.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
}
