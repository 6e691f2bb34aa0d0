package controllers

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rollcall-app/rollcall/utils"
)

func checkinRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(authAs(1))
	c := NewCheckInController(db)
	r.POST("/checkins", c.CheckIn)
	r.GET("/checkins/active/stream", c.StreamElapsed)
	return r
}

func openCheckinRows(checkedInAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "gym_id", "session_type", "checked_in_at"}).
		AddRow(42, 1, 7, "gi", checkedInAt)
}

func TestCheckInWhileOpenConflicts(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `gym_memberships`").WillReturnRows(membershipRows())
	mock.ExpectQuery("SELECT (.+) FROM `gyms`").WillReturnRows(gymRows())
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `check_ins` (.+) FOR UPDATE").
		WillReturnRows(openCheckinRows(time.Now().Add(-30 * time.Minute)))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkins", strings.NewReader(`{"session_type":"nogi"}`))
	req.Header.Set("Content-Type", "application/json")
	checkinRouter(db).ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	if !strings.Contains(w.Body.String(), "40920") {
		t.Fatalf("body = %s, want app code 40920", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCheckInOpensWhenNoneOpen(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `gym_memberships`").WillReturnRows(membershipRows())
	mock.ExpectQuery("SELECT (.+) FROM `gyms`").WillReturnRows(gymRows())
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `check_ins` (.+) FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `check_ins`").WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkins", strings.NewReader(`{"session_type":"gi"}`))
	req.Header.Set("Content-Type", "application/json")
	checkinRouter(db).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

// The elapsed stream must keep ticking past the server's write timeout; the
// write deadline is absolute per response, so a stream that does not lift it
// goes silent after the first tick here.
func TestStreamElapsedOutlivesWriteTimeout(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `gym_memberships`").WillReturnRows(membershipRows())
	mock.ExpectQuery("SELECT (.+) FROM `gyms`").WillReturnRows(gymRows())
	mock.ExpectQuery("SELECT (.+) FROM `check_ins`").
		WillReturnRows(openCheckinRows(time.Now().Add(-10 * time.Minute)))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := utils.NewServer(ln.Addr().String(), checkinRouter(db), time.Second, 500*time.Millisecond)
	go srv.Server.Serve(ln)
	defer srv.Server.Close()

	reqCtx, cancel := context.WithTimeout(context.Background(), 2600*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet,
		"http://"+ln.Addr().String()+"/checkins/active/stream", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	ticks := 0
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "data:") {
			ticks++
		}
	}

	// Ticks land at 0s, 1s and 2s of a 2.6s read window. With a 500ms write
	// timeout anything beyond the first tick proves the deadline was lifted.
	if ticks < 3 {
		t.Fatalf("received %d ticks before the stream went dead, want at least 3", ticks)
	}
}
