package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ardhiansyah/toko-api/internal/hash"
	"github.com/ardhiansyah/toko-api/internal/models"
	"github.com/ardhiansyah/toko-api/internal/mykafka"
	"github.com/ardhiansyah/toko-api/internal/repo"
	"github.com/ardhiansyah/toko-api/internal/search"
	"github.com/ardhiansyah/toko-api/internal/service"
	"github.com/ardhiansyah/toko-api/internal/transport"
)

type fakeUploader struct {
	names  []string
	bodies []string
	err    error
}

func (f *fakeUploader) Upload(_ context.Context, fileName string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(r)
	f.names = append(f.names, fileName)
	f.bodies = append(f.bodies, string(b))
	return fmt.Sprintf("http://image.url/%d", len(f.names)), nil
}

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
	A  *AuthHandler
	P  *ProductHandler
	Ad *AdminHandler
	Up *fakeUploader

	JWTSecret []byte
	JWTExpire time.Duration
}

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.Shop{}, &models.User{}, &models.Auth{}, &models.Product{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := InitTestDB(t)
	r := repo.New(db)

	producer := &mykafka.Producer{}
	index := &search.Index{}
	up := &fakeUploader{}

	secret := []byte("test_secret")
	expire := time.Hour

	authSvc := &service.AuthService{Repo: r, Producer: producer, JWTSecret: secret, JWTExpire: expire}
	productSvc := &service.ProductService{Repo: r, Uploader: up, Producer: producer, Index: index}
	adminSvc := &service.AdminService{Repo: r, Uploader: up, Producer: producer, Index: index}

	e := echo.New()
	e.Validator = NewValidator()
	e.Renderer = NewRenderer()
	e.HTTPErrorHandler = HTTPErrorHandler

	return &testEnv{
		T:         t,
		E:         e,
		DB:        db,
		A:         &AuthHandler{Svc: authSvc},
		P:         &ProductHandler{Svc: productSvc},
		Ad:        &AdminHandler{Svc: adminSvc},
		Up:        up,
		JWTSecret: secret,
		JWTExpire: expire,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

type formFile struct {
	field    string
	name     string
	contents string
}

func (env *testEnv) doMultipartRequest(method, path string, fields map[string]string, files []formFile) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(env.T, w.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.name)
		require.NoError(env.T, err)
		_, err = fw.Write([]byte(f.contents))
		require.NoError(env.T, err)
	}
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createUser(name, role string, shopID uint) *models.User {
	user := &models.User{
		Name:    name,
		Address: "123 Test Street",
		Age:     25,
		Role:    role,
		ShopID:  &shopID,
	}
	require.NoError(env.T, env.DB.Create(user).Error)
	return user
}

func (env *testEnv) createAccount(email, password, role string, shopID uint) *models.Auth {
	user := env.createUser("Test User", role, shopID)
	pwHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)

	auth := &models.Auth{Email: email, PasswordHash: pwHash, UserID: user.ID, User: *user}
	require.NoError(env.T, env.DB.Create(auth).Error)
	return auth
}

func actorFor(user *models.User, email string) transport.Actor {
	return transport.Actor{
		ID:       user.ID,
		Username: user.Name,
		Role:     user.Role,
		Email:    email,
		ShopID:   user.ShopID,
	}
}

func setActor(c echo.Context, actor transport.Actor) {
	c.Set(actorKey, actor)
}
