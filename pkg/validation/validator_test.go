package validation

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type registerForm struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func bind(t *testing.T, body string) error {
	t.Helper()
	Init()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var f registerForm
	return c.ShouldBindJSON(&f)
}

func TestFromBinding_FirstViolation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
		wantMsg   string
	}{
		{"missing name", `{"email":"bad","password":"x"}`, "name", "is required"},
		{"bad email", `{"name":"Ana","email":"bad","password":"x"}`, "email", "must be a valid email"},
		{"short password", `{"name":"Ana","email":"ana@x.com","password":"short"}`, "password", "must be at least 6 characters long"},
		{"syntax", `{"name":`, "payload", "must be valid json"},
		{"wrong type", `{"name":1}`, "name", "must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := FromBinding(bind(t, tt.body))
			if ve == nil {
				t.Fatal("expected validation error")
			}
			if ve.Field != tt.wantField || ve.Message != tt.wantMsg {
				t.Fatalf("got %q %q, want %q %q", ve.Field, ve.Message, tt.wantField, tt.wantMsg)
			}
		})
	}
}

func TestFromBinding_Valid(t *testing.T) {
	if err := bind(t, `{"name":"Ana","email":"ana@x.com","password":"secret1"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if FromBinding(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestFromBinding_PassesThroughError(t *testing.T) {
	orig := &Error{Field: "id", Message: "must be a valid UUID"}
	if got := FromBinding(orig); got != orig {
		t.Fatalf("expected same error, got %v", got)
	}
	if got := FromBinding(errors.New("boom")); got.Field != "payload" {
		t.Fatalf("expected payload field, got %q", got.Field)
	}
}

func TestError_Message(t *testing.T) {
	e := &Error{Field: "email", Message: "must be a valid email"}
	if e.Error() != "email must be a valid email" {
		t.Fatalf("unexpected %q", e.Error())
	}
	if (&Error{Message: "bad"}).Error() != "bad" {
		t.Fatal("expected bare message without field")
	}
}

func TestURIUsesTagName(t *testing.T) {
	Init()
	type idURI struct {
		ID string `uri:"id" binding:"required,uuid"`
	}
	err := binding.Validator.ValidateStruct(&idURI{ID: "nope"})
	ve := FromBinding(err)
	if ve == nil || ve.Field != "id" || ve.Message != "must be a valid UUID" {
		t.Fatalf("unexpected %+v", ve)
	}
}

func TestFormatFieldError_EmptyOptional(t *testing.T) {
	Init()
	type patch struct {
		Name *string `json:"name" binding:"omitnil,min=1"`
	}
	empty := ""
	ve := FromBinding(binding.Validator.ValidateStruct(&patch{Name: &empty}))
	if ve == nil || ve.Error() != "name must not be empty" {
		t.Fatalf("unexpected %+v", ve)
	}
	if err := binding.Validator.ValidateStruct(&patch{}); err != nil {
		t.Fatalf("absent name should pass, got %v", err)
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		page, limit  string
		wantP, wantL int
	}{
		{"", "", 1, 10},
		{"2", "10", 2, 10},
		{"abc", "x", 1, 10},
		{"0", "-5", 1, 10},
		{" 3 ", "500", 3, 500},
	}
	for _, tt := range tests {
		p, l := Pagination(tt.page, tt.limit)
		if p != tt.wantP || l != tt.wantL {
			t.Errorf("Pagination(%q,%q) = %d,%d want %d,%d", tt.page, tt.limit, p, l, tt.wantP, tt.wantL)
		}
	}
}
