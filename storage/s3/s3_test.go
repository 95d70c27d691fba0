package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/kbukum/scribe/storage"
)

// fakeS3 serves path-style object requests from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := r.URL.Path
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		f.types[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
			return
		}
		_, _ = w.Write(body)
	case http.MethodHead:
		if _, ok := f.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestStorageAgainstFakeServer(t *testing.T) {
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	fake := &fakeS3{objects: make(map[string][]byte), types: make(map[string]string)}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ctx := context.Background()
	s, err := NewStorage(ctx, storage.Config{
		Bucket:    "audio",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "test",
		SecretKey: "test",
	})
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}

	payload := []byte("fLaC-audio")
	if err := s.Upload(ctx, "recordings/r1.flac", bytes.NewReader(payload), "audio/flac"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if got := fake.objects["/audio/recordings/r1.flac"]; !bytes.Equal(got, payload) {
		t.Errorf("stored %q", got)
	}
	if ct := fake.types["/audio/recordings/r1.flac"]; ct != "audio/flac" {
		t.Errorf("content type = %q", ct)
	}

	ok, err := s.Exists(ctx, "recordings/r1.flac")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}
	ok, err = s.Exists(ctx, "recordings/none.flac")
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v", ok, err)
	}

	rc, err := s.Download(ctx, "recordings/r1.flac")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	got, _ := io.ReadAll(rc)
	rc.Close()
	if !bytes.Equal(got, payload) {
		t.Errorf("downloaded %q", got)
	}

	if _, err := s.Download(ctx, "recordings/none.flac"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Download(missing) err = %v", err)
	}

	if err := s.Delete(ctx, "recordings/r1.flac"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if len(fake.objects) != 0 {
		t.Errorf("objects left: %v", fake.objects)
	}
}
