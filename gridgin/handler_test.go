package gridgin

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Alp4ka/gridpager"
)

type tUser struct {
	ID        uint
	Name      string
	Email     string
	CreatedAt time.Time
}

func (tUser) TableName() string {
	return "users"
}

const (
	_countQuery  = "^SELECT count\\(\\*\\) FROM `users`$"
	_selectQuery = "^SELECT \\* FROM `users` "
)

var _createdAt = time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC)

func newGORMMySQLMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func newDumper() *gridpager.Dumper {
	return gridpager.NewDumper(gridpager.FieldMapping{
		"tUser": {Fields: map[string][]string{
			gridpager.GroupDefault: {"name", "createdAt"},
			gridpager.GroupAdmin:   {"id", "name", "email"},
		}},
	})
}

func newRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/users", handler)
	r.POST("/users", handler)

	return r
}

func expectPage(mock sqlmock.Sqlmock, selectQuery string) {
	mock.ExpectQuery(_countQuery).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(30))
	mock.ExpectQuery(selectQuery).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "created_at"}).
			AddRow(1, "Ann", "ann@example.com", _createdAt).
			AddRow(2, "Bob", "bob@example.com", _createdAt))
}

func Test_Handler(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		opts           []Option
		expectedSelect string
		expectedBody   string
	}{
		{
			name:           "json encoded sort",
			target:         "/users?page=2&start=10&limit=10&sort=" + url.QueryEscape(`[{"property":"createdAt","direction":"DESC"}]`),
			expectedSelect: _selectQuery + "ORDER BY created_at DESC LIMIT 10 OFFSET 10$",
			expectedBody: `{
				"records": [{"name": "Ann", "createdAt": "2024-01-05"}, {"name": "Bob", "createdAt": "2024-01-05"}],
				"success": true, "total": 30, "start": 0, "limit": 10
			}`,
		},
		{
			name:           "single property sort with dir",
			target:         "/users?start=20&limit=5&sort=name&dir=DESC",
			expectedSelect: _selectQuery + "ORDER BY name DESC LIMIT 5 OFFSET 20$",
			expectedBody: `{
				"records": [{"name": "Ann", "createdAt": "2024-01-05"}, {"name": "Bob", "createdAt": "2024-01-05"}],
				"success": true, "total": 30, "start": 0, "limit": 5
			}`,
		},
		{
			name:           "explicit fields",
			target:         "/users",
			opts:           []Option{WithFields("id", "email")},
			expectedSelect: _selectQuery + "ORDER BY id ASC LIMIT 10$",
			expectedBody: `{
				"records": [{"id": 1, "email": "ann@example.com"}, {"id": 2, "email": "bob@example.com"}],
				"success": true, "total": 30, "start": 0, "limit": 10
			}`,
		},
		{
			name:   "admin group",
			target: "/users?admin=1",
			opts: []Option{WithAdminFunc(func(c *gin.Context) bool {
				return c.Query("admin") == "1"
			})},
			expectedSelect: _selectQuery + "ORDER BY id ASC LIMIT 10$",
			expectedBody: `{
				"records": [{"id": 1, "name": "Ann", "email": "ann@example.com"}, {"id": 2, "name": "Bob", "email": "bob@example.com"}],
				"success": true, "total": 30, "start": 0, "limit": 10
			}`,
		},
		{
			name:   "admin func rejecting",
			target: "/users",
			opts: []Option{WithAdminFunc(func(c *gin.Context) bool {
				return c.Query("admin") == "1"
			})},
			expectedSelect: _selectQuery + "ORDER BY id ASC LIMIT 10$",
			expectedBody: `{
				"records": [{"name": "Ann", "createdAt": "2024-01-05"}, {"name": "Bob", "createdAt": "2024-01-05"}],
				"success": true, "total": 30, "start": 0, "limit": 10
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newGORMMySQLMock(t)
			expectPage(mock, tt.expectedSelect)

			r := newRouter(Handler(gridpager.NewPager[tUser](db), newDumper(), tt.opts...))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func Test_Handler_PostForm(t *testing.T) {
	db, mock := newGORMMySQLMock(t)
	expectPage(mock, _selectQuery+"ORDER BY email ASC LIMIT 2 OFFSET 4$")

	r := newRouter(Handler(gridpager.NewPager[tUser](db), newDumper()))

	form := url.Values{"page": {"3"}, "limit": {"2"}, "sort": {"email"}, "dir": {"ASC"}}
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"limit":2`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_Handler_JSONBody(t *testing.T) {
	db, mock := newGORMMySQLMock(t)
	expectPage(mock, _selectQuery+"ORDER BY name DESC LIMIT 10$")

	r := newRouter(Handler(gridpager.NewPager[tUser](db), newDumper()))

	body := `{"limit": 10, "sort": [{"property": "name", "direction": "DESC"}]}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_Handler_Failures(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		mapping      gridpager.FieldMapping
		expectQuery  bool
		expectedCode int
		expectedMsg  string
	}{
		{
			name:         "unknown sort property",
			target:       "/users?sort=nmae",
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "closest: 'name'",
		},
		{
			name:         "malformed sort",
			target:       "/users?sort=" + url.QueryEscape(`[{"property":`),
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "json encoded sort",
		},
		{
			name:         "page out of range",
			target:       "/users?page=9223372036854775807&limit=100",
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "invalid paging params",
		},
		{
			name:         "non numeric limit",
			target:       "/users?limit=ten",
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "no mapping for entity",
			target:       "/users",
			mapping:      gridpager.FieldMapping{},
			expectQuery:  true,
			expectedCode: http.StatusInternalServerError,
			expectedMsg:  "no dumper fields for entity 'tUser'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newGORMMySQLMock(t)
			if tt.expectQuery {
				expectPage(mock, _selectQuery+"ORDER BY id ASC LIMIT 10$")
			}

			d := newDumper()
			if tt.mapping != nil {
				d = gridpager.NewDumper(tt.mapping)
			}

			r := newRouter(Handler(gridpager.NewPager[tUser](db), d))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, tt.expectedCode, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"success":false`)
			assert.Contains(t, w.Body.String(), tt.expectedMsg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
