package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

func registerRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.POST("/register", NewAuthController(db).Register)
	return r
}

func postRegister(t *testing.T, r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"username":"mat_rat","password":"hunter2hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry 'mat_rat' for key 'username'"})
	mock.ExpectRollback()

	w := postRegister(t, registerRouter(db), "203.0.113.7:40000")

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusConflict, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "40910") {
		t.Fatalf("body = %s, want app code 40910", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

// A storage failure during registration is not a username conflict.
func TestRegisterStorageErrorIsNotConflict(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(errors.New("invalid connection"))
	mock.ExpectRollback()

	w := postRegister(t, registerRouter(db), "203.0.113.8:40000")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusInternalServerError, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "50007") {
		t.Fatalf("body = %s, want app code 50007", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
