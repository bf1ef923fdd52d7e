package sessions

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"symposium-app/database"
	"symposium-app/internal/app/authz"
)

func setupDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	database.DB = db
	authz.Init(db)
	return mock
}

// An anonymous caller reaching a hash-privacy event by its hash passes
// visibility but is not registered, so the listing answers with the
// registration prompt and the hasLiveSessions hint rather than a bare
// visibility denial.
func TestListSessionsHashCallerGetsRegistrationHint(t *testing.T) {
	mock := setupDB(t)
	token := strings.Repeat("a", 32)

	mock.ExpectQuery(`SELECT \* FROM "events" WHERE hash = \$1`).
		WithArgs(token, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "privacy_level", "hash"}).
			AddRow(11, "eventHash", token))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "live_sessions"`).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/events/"+token+"/sessions", nil)
	c.Params = gin.Params{{Key: "eventCodeOrHash", Value: token}}

	ListSessions(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"hasLiveSessions":true`) {
		t.Fatalf("expected hasLiveSessions hint, got %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "register for this event") {
		t.Fatalf("expected registration prompt, got %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
