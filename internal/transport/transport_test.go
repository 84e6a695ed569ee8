package transport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "OK\nsess\nhttps://np\nhttps://sub\n")
	}))
	defer srv.Close()

	c := New("", 5*time.Second)
	body, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !strings.HasPrefix(body, "OK\n") {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestPostFormSendsContentType(t *testing.T) {
	var gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		io.WriteString(w, "OK\n")
	}))
	defer srv.Close()

	c := New("", 5*time.Second)
	if _, err := c.PostForm(srv.URL, "s=abc&a%5B0%5D=X"); err != nil {
		t.Fatalf("PostForm: %v", err)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotBody != "s=abc&a%5B0%5D=X" {
		t.Errorf("body = %q", gotBody)
	}
}

func TestGetNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New("", 5*time.Second)
	if _, err := c.Get(srv.URL); err == nil {
		t.Fatalf("expected an error for a 500 response")
	}
}

func TestOversizedBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, MaxBodyBytes+1))
	}))
	defer srv.Close()

	c := New("", 5*time.Second)
	if _, err := c.Get(srv.URL); err == nil {
		t.Fatalf("expected an error for a body exceeding the cap")
	}
}
