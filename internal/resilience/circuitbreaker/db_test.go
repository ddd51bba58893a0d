package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sony/gobreaker"
)

func newMockBreaker(t *testing.T, cfg Config) (*DBCircuitBreaker, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewDBCircuitBreakerWithConfig(db, cfg), mock
}

func TestDBCircuitBreaker_PassesThrough(t *testing.T) {
	dcb, mock := newMockBreaker(t, DBConfig())

	mock.ExpectQuery("SELECT id, headline FROM incidents").
		WillReturnRows(sqlmock.NewRows([]string{"id", "headline"}).AddRow(1, "Asalto en Miraflores"))
	mock.ExpectExec("INSERT INTO incidents").WillReturnResult(sqlmock.NewResult(2, 1))

	rows, err := dcb.QueryContext(context.Background(), "SELECT id, headline FROM incidents")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	var n int
	for rows.Next() {
		n++
	}
	_ = rows.Close()
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}

	res, err := dcb.ExecContext(context.Background(), "INSERT INTO incidents (link) VALUES (?)", "https://a.pe/1")
	if err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	if id, _ := res.LastInsertId(); id != 2 {
		t.Errorf("LastInsertId = %d, want 2", id)
	}

	if dcb.State() != gobreaker.StateClosed {
		t.Errorf("state = %s, want closed", dcb.State())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDBCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cfg := DBConfig()
	cfg.Timeout = time.Hour
	dcb, mock := newMockBreaker(t, cfg)

	dbErr := errors.New("connection refused")
	for i := 0; i < 5; i++ {
		mock.ExpectQuery("SELECT").WillReturnError(dbErr)
	}
	for i := 0; i < 5; i++ {
		if _, err := dcb.QueryContext(context.Background(), "SELECT 1"); !errors.Is(err, dbErr) {
			t.Fatalf("call %d: err = %v, want %v", i, err, dbErr)
		}
	}

	if !dcb.IsOpen() {
		t.Fatalf("state = %s, want open", dcb.State())
	}
	// Open breaker must not reach the database; sqlmock would fail on an
	// unexpected query.
	if _, err := dcb.ExecContext(context.Background(), "DELETE FROM incidents"); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want ErrOpenState", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDBCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	cfg := DBConfig()
	cfg.ConsecutiveFailures = 1
	cfg.Timeout = 50 * time.Millisecond
	dcb, mock := newMockBreaker(t, cfg)

	mock.ExpectExec("UPDATE").WillReturnError(errors.New("boom"))
	_, _ = dcb.ExecContext(context.Background(), "UPDATE incidents SET x = 1")
	if !dcb.IsOpen() {
		t.Fatal("breaker should be open")
	}

	time.Sleep(80 * time.Millisecond)
	if dcb.State() != gobreaker.StateHalfOpen {
		t.Fatalf("state = %s, want half-open", dcb.State())
	}

	mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))
	if _, err := dcb.ExecContext(context.Background(), "UPDATE incidents SET x = 1"); err != nil {
		t.Fatalf("probe: %v", err)
	}
}

func TestDBCircuitBreaker_CanceledContextDoesNotTrip(t *testing.T) {
	cfg := DBConfig()
	cfg.ConsecutiveFailures = 1
	dcb, mock := newMockBreaker(t, cfg)

	mock.ExpectQuery("SELECT").WillReturnError(context.Canceled)
	_, err := dcb.QueryContext(context.Background(), "SELECT 1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if dcb.State() != gobreaker.StateClosed {
		t.Errorf("state = %s, want closed", dcb.State())
	}
}

func TestDBCircuitBreaker_QueryRowContext(t *testing.T) {
	dcb, mock := newMockBreaker(t, DBConfig())
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	var count int64
	if err := dcb.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM incidents").Scan(&count); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
	if dcb.DB() == nil {
		t.Error("DB() returned nil")
	}
}
