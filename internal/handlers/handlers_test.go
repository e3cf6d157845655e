package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pillpal/pillpal/internal/catalog"
	"github.com/pillpal/pillpal/internal/hash"
	"github.com/pillpal/pillpal/internal/middleware/sessions"
	"github.com/pillpal/pillpal/internal/models"
	"github.com/pillpal/pillpal/internal/mykafka"
	"github.com/pillpal/pillpal/internal/session"
)

const testAdminEmail = "admin@pillpal.example"

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	DB      *gorm.DB
	Auth    *AuthHandler
	Catalog *CatalogHandler
	Cart    *CartHandler
	Admin   *AdminHandler
	Mgr     *session.Manager
}

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Medicine{}, &models.Category{}, &models.User{},
		&models.RefreshToken{}, &models.Order{}, &models.OrderItem{},
		&models.SessionRecord{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	if err := catalog.Seed(db); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := initTestDB(t)
	validate := validator.New()

	mgr := session.NewManager(session.NewMemoryStore(), "sess-test", testAdminEmail, nil)
	mgr.Restore(context.Background())

	return &testEnv{
		T:       t,
		E:       echo.New(),
		DB:      db,
		Auth:    &AuthHandler{DB: db, JWTSecret: []byte("test-secret"), RefreshSecret: []byte("test-refresh"), Producer: &mykafka.Producer{}, Validate: validate},
		Catalog: &CatalogHandler{DB: db, Producer: &mykafka.Producer{}, Validate: validate},
		Cart:    &CartHandler{DB: db, Producer: &mykafka.Producer{}},
		Admin:   &AdminHandler{DB: db},
		Mgr:     mgr,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(env.T, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	sessions.Inject(c, env.Mgr)
	return rec, c
}

func (env *testEnv) createUser(email, password, role string) models.User {
	passwordHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)
	user := models.User{
		Name:         "Test User",
		Email:        email,
		Phone:        "1234567890",
		PasswordHash: passwordHash,
		Address:      "123 Test St",
		Role:         role,
	}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user
}
