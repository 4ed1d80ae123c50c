package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/oksasatya/accounts-api/internal/domain/entity"
	"github.com/oksasatya/accounts-api/pkg/helpers"
)

type recorded struct {
	Method string
	Path   string
	Body   string
}

// fakeES answers like an Elasticsearch node and records every request.
func fakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*UserIndex, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{Method: r.Method, Path: r.URL.Path, Body: string(b)})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := helpers.NewESClient(helpers.ESOptions{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatalf("es client: %v", err)
	}
	return NewUserIndex(es, "users"), &reqs
}

func TestUserIndex_Index(t *testing.T) {
	idx, reqs := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})
	u := entity.PublicUser{ID: "u-1", Name: "Ana", Email: "ana@x.com"}
	if err := idx.Index(context.Background(), u); err != nil {
		t.Fatalf("Index: %v", err)
	}
	got := (*reqs)[0]
	if got.Method != http.MethodPut || got.Path != "/users/_doc/u-1" {
		t.Fatalf("unexpected request %s %s", got.Method, got.Path)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(got.Body), &doc); err != nil {
		t.Fatalf("body: %v", err)
	}
	if doc["email"] != "ana@x.com" || doc["name"] != "Ana" {
		t.Fatalf("unexpected doc %v", doc)
	}
	if _, ok := doc["password_hash"]; ok {
		t.Fatal("document must not carry the password hash")
	}
}

func TestUserIndex_RemoveMissingIsOK(t *testing.T) {
	idx, _ := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	})
	if err := idx.Remove(context.Background(), "u-1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
}

func TestUserIndex_Search(t *testing.T) {
	idx, reqs := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"hits":{"hits":[
			{"_id":"u-1","_source":{"id":"u-1","name":"Ana","email":"ana@x.com"}},
			{"_id":"u-2","_source":{"id":"u-2","name":"Anabel","email":"anabel@x.com"}}
		]}}`)
	})
	users, err := idx.Search(context.Background(), "ana", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(users) != 2 || users[1].Name != "Anabel" {
		t.Fatalf("unexpected users %+v", users)
	}
	got := (*reqs)[0]
	if got.Path != "/users/_search" || !strings.Contains(got.Body, `"multi_match"`) || !strings.Contains(got.Body, `"size":5`) {
		t.Fatalf("unexpected search request %+v", got)
	}
}

func TestUserIndex_SearchError(t *testing.T) {
	idx, _ := fakeES(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})
	if _, err := idx.Search(context.Background(), "ana", 5); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestUserIndex_EnsureIndexCreatesWhenMissing(t *testing.T) {
	idx, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	})
	if err := idx.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if len(*reqs) != 2 || (*reqs)[1].Method != http.MethodPut || !strings.Contains((*reqs)[1].Body, `"mappings"`) {
		t.Fatalf("expected create after missing index, got %+v", *reqs)
	}
}
