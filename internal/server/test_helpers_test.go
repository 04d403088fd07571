package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sdourte/Tripix/internal/config"
)

// memObjects stands in for the bucket; uploads land in a map and signed
// URLs are deterministic.
type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemObjects() *memObjects {
	return &memObjects{objects: make(map[string][]byte)}
}

func (m *memObjects) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = append([]byte(nil), data...)
	return nil
}

func (m *memObjects) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	return "https://bucket.test/" + path, nil
}

func (m *memObjects) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

type identityCompressor struct{}

func (identityCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.JWTSecret = "test-secret"
	cfg.RateLimitPerMinute = 1000
	return cfg
}

func newTestServer(t *testing.T) (*httptest.Server, *memStore, *memObjects) {
	t.Helper()
	store := newMemStore()
	objects := newMemObjects()
	srv := New(store, objects, identityCompressor{}, nil, testConfig())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, store, objects
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, resp, &body)
	return body["error"]
}

func signupUser(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/auth/signup", "", map[string]string{
		"email":    email,
		"password": "hunter2hunter2",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup %s: status %d", email, resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	if body.Token == "" {
		t.Fatalf("signup %s: empty token", email)
	}
	return body.Token
}

func urlRoom(base string, roomID uint, action string) string {
	return fmt.Sprintf("%s/api/rooms/%d/%s", base, roomID, action)
}

type joinResult struct {
	RoomID   uint   `json:"room_id"`
	RoomName string `json:"room_name"`
	PlayerID uint   `json:"player_id"`
	Pseudo   string `json:"pseudo"`
}

func joinRoom(t *testing.T, ts *httptest.Server, token, code, pseudo string) joinResult {
	t.Helper()
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/rooms/join", token, map[string]string{
		"code":   code,
		"pseudo": pseudo,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("join room %s: status %d", code, resp.StatusCode)
	}
	var result joinResult
	decodeBody(t, resp, &result)
	return result
}

func spinTheme(t *testing.T, ts *httptest.Server, token string, roomID uint) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/rooms/%d/spin", ts.URL, roomID), token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		t.Fatalf("spin room %d: status %d", roomID, resp.StatusCode)
	}
}

// uploadPhotos posts count fake JPEG files in one multipart request and
// returns the raw response.
func uploadPhotos(t *testing.T, ts *httptest.Server, token string, roomID uint, count int) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for i := 0; i < count; i++ {
		part, err := writer.CreateFormFile("photos", fmt.Sprintf("photo-%d.jpg", i))
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte("jpeg-bytes")); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/api/rooms/%d/photos", ts.URL, roomID), &buf)
	if err != nil {
		t.Fatalf("build upload request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload photos: %v", err)
	}
	return resp
}

func voteOnPhoto(t *testing.T, ts *httptest.Server, token string, photoID uint, value int) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/photos/%d/votes", ts.URL, photoID), token, map[string]int{
		"value": value,
	})
}
