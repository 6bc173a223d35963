package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"
)

const apiBase = "http://localhost:8080"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

func postJSON(t *testing.T, path, token string, payload interface{}) (*http.Response, envelope) {
	t.Helper()
	return doJSON(t, http.MethodPost, path, token, payload)
}

func putJSON(t *testing.T, path, token string, payload interface{}) (*http.Response, envelope) {
	t.Helper()
	return doJSON(t, http.MethodPut, path, token, payload)
}

func doJSON(t *testing.T, method, path, token string, payload interface{}) (*http.Response, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("non-envelope response from %s %s: %s", method, path, raw)
		}
	}
	return resp, env
}

func getJSON(t *testing.T, path, token string) (*http.Response, envelope) {
	t.Helper()
	return doJSON(t, http.MethodGet, path, token, nil)
}

// TestAPIEndpoints runs the full user journey against a running server.
func TestAPIEndpoints(t *testing.T) {
	// Make sure the API server is running
	if _, err := http.Get(apiBase); err != nil {
		t.Skipf("API server is not running at %s: %v", apiBase, err)
	}

	suffix := time.Now().UnixNano()
	alumniEmail := fmt.Sprintf("alumni%d@example.com", suffix)
	studentEmail := fmt.Sprintf("student%d@example.com", suffix)

	var alumni, student authData

	t.Run("Register Alumni", func(t *testing.T) {
		resp, env := postJSON(t, "/auth/register", "", map[string]string{
			"name":     "Asha Rao",
			"email":    alumniEmail,
			"password": "password123",
			"role":     "alumni",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("register failed: %d %s", resp.StatusCode, env.Message)
		}
		if err := json.Unmarshal(env.Data, &alumni); err != nil || alumni.Token == "" {
			t.Fatalf("register returned no token: %s", env.Data)
		}
	})

	t.Run("Register Student", func(t *testing.T) {
		resp, env := postJSON(t, "/auth/register", "", map[string]string{
			"name":     "Ben Oduya",
			"email":    studentEmail,
			"password": "password123",
			"role":     "student",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("register failed: %d %s", resp.StatusCode, env.Message)
		}
		if err := json.Unmarshal(env.Data, &student); err != nil || student.Token == "" {
			t.Fatalf("register returned no token: %s", env.Data)
		}
	})

	t.Run("Login", func(t *testing.T) {
		resp, env := postJSON(t, "/auth/login", "", map[string]string{
			"email":    alumniEmail,
			"password": "password123",
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("login failed: %d %s", resp.StatusCode, env.Message)
		}
		if err := json.Unmarshal(env.Data, &alumni); err != nil || alumni.Token == "" {
			t.Fatalf("login returned no token: %s", env.Data)
		}
	})

	t.Run("Profile Not Found Before First Update", func(t *testing.T) {
		resp, _ := getJSON(t, "/alumni/me", alumni.Token)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404 before first update, got %d", resp.StatusCode)
		}
	})

	t.Run("Update Alumni Profile Completes It", func(t *testing.T) {
		resp, env := putJSON(t, "/alumni/me", alumni.Token, map[string]interface{}{
			"name":           "Asha Rao",
			"email":          alumniEmail,
			"graduationYear": 2020,
			"degree":         "BSc",
			"currentRole":    "Engineer",
			"skills":         []string{"Go", "MongoDB"},
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("profile update failed: %d %s", resp.StatusCode, env.Message)
		}
		var merged struct {
			ProfileComplete bool   `json:"profileComplete"`
			GraduationYear  int    `json:"graduationYear"`
			Degree          string `json:"degree"`
			CurrentRole     string `json:"currentRole"`
		}
		if err := json.Unmarshal(env.Data, &merged); err != nil {
			t.Fatalf("failed to decode merged profile: %v", err)
		}
		if !merged.ProfileComplete {
			t.Fatal("expected profileComplete=true after required fields were set")
		}
		if merged.GraduationYear != 2020 || merged.Degree != "BSc" || merged.CurrentRole != "Engineer" {
			t.Fatalf("merged profile missing submitted fields: %+v", merged)
		}
	})

	t.Run("Photo Upload Without File Is Rejected", func(t *testing.T) {
		resp, _ := putJSON(t, "/alumni/me/photo", alumni.Token, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("Directory Lists The Alumni", func(t *testing.T) {
		resp, env := getJSON(t, "/alumni", student.Token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("listing failed: %d %s", resp.StatusCode, env.Message)
		}
		var entries []struct {
			User struct {
				Email string `json:"email"`
			} `json:"user"`
		}
		if err := json.Unmarshal(env.Data, &entries); err != nil {
			t.Fatalf("failed to decode listing: %v", err)
		}
		found := false
		for _, e := range entries {
			if e.User.Email == alumniEmail {
				found = true
			}
		}
		if !found {
			t.Fatal("directory listing does not contain the registered alumni")
		}
	})

	t.Run("Messaging Round Trip", func(t *testing.T) {
		resp, env := postJSON(t, "/messages", student.Token, map[string]string{
			"receiver": alumni.User.ID,
			"content":  "hello from a student",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("send failed: %d %s", resp.StatusCode, env.Message)
		}
		var sent struct {
			ID      string `json:"id"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(env.Data, &sent); err != nil || sent.ID == "" {
			t.Fatalf("send did not echo the persisted record: %s", env.Data)
		}

		resp, env = getJSON(t, "/messages/"+alumni.User.ID, student.Token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("transcript failed: %d %s", resp.StatusCode, env.Message)
		}
		var transcript []struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(env.Data, &transcript); err != nil || len(transcript) == 0 {
			t.Fatalf("empty transcript after send: %s", env.Data)
		}
		if transcript[len(transcript)-1].ID != sent.ID {
			t.Fatal("sent message is not the newest transcript entry")
		}

		resp, env = getJSON(t, "/messages", alumni.Token)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("conversation list failed: %d %s", resp.StatusCode, env.Message)
		}
		var conversations []struct {
			UnreadCount int `json:"unreadCount"`
			LastMessage struct {
				ID string `json:"id"`
			} `json:"lastMessage"`
		}
		if err := json.Unmarshal(env.Data, &conversations); err != nil || len(conversations) == 0 {
			t.Fatalf("no conversation entry for receiver: %s", env.Data)
		}
		if conversations[0].UnreadCount < 1 {
			t.Fatal("expected at least one unread message for the receiver")
		}
		if conversations[0].LastMessage.ID != sent.ID {
			t.Fatal("conversation summary does not carry the latest message")
		}
	})

	t.Run("Logout Invalidates Token", func(t *testing.T) {
		resp, _ := postJSON(t, "/auth/logout", student.Token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("logout failed: %d", resp.StatusCode)
		}
		resp, _ = getJSON(t, "/auth/me", student.Token)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
		}
	})
}
