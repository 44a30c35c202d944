package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: selection is required", ErrInvalidInput), http.StatusBadRequest},
		{ErrQuestionNotFound, http.StatusNotFound},
		{fmt.Errorf("rate: %w", ErrNotAssigned), http.StatusForbidden},
		{ErrSessionNotFound, http.StatusUnauthorized},
		{ErrUsernameTaken, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.want {
			t.Fatalf("%v: got=%d want=%d", tt.err, got, tt.want)
		}
	}
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "invalid input", err: fmt.Errorf("%w: invalid selection", ErrInvalidInput), status: http.StatusBadRequest, message: "invalid selection"},
		{name: "not found", err: ErrWriteinNotFound, status: http.StatusNotFound, message: "no write-in found"},
		{name: "internal", err: errors.New("dial tcp 10.0.0.1:3306: refused"), status: http.StatusInternalServerError, message: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", func(c *gin.Context) { HandleError(c, tt.err) })

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

			if rec.Code != tt.status {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, tt.status)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Message != tt.message {
				t.Fatalf("unexpected message: got=%q want=%q", body.Message, tt.message)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("question_id", "42"); err != nil || id != 42 {
		t.Fatalf("valid id: id=%d err=%v", id, err)
	}
	for _, raw := range []string{"", "0", "-3", "abc", "1.5"} {
		if _, err := ParseID("question_id", raw); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%q: expected invalid input, got %v", raw, err)
		}
	}
	if got := ParseIntDefault("x", 7); got != 7 {
		t.Fatalf("ParseIntDefault fallback: got=%d", got)
	}
}
