package testserver

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"oriventa_backend/internal/app"
	"oriventa_backend/internal/auth"
	"oriventa_backend/internal/config"
	"oriventa_backend/internal/logger"
	"oriventa_backend/internal/models"
	"oriventa_backend/internal/services"
	"oriventa_backend/internal/storage"
	"oriventa_backend/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestServer - полный роутер приложения поверх sqlite и локального хранилища
type TestServer struct {
	Server      *httptest.Server
	DB          *gorm.DB
	Services    *services.ServiceContainer
	StorageRoot string
}

func NewTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Database.Driver = "sqlite"
	cfg.JWT.Secret = "test-secret"
	cfg.Storage.Type = "local"
	cfg.Upload.MaxSize = 1 << 20
	cfg.Upload.MaxRequestSize = 8 << 20
	cfg.Upload.SuiviExtensions = []string{".pdf", ".doc", ".docx", ".txt"}
	return cfg
}

// NewTestServer создает и настраивает тестовый сервер и БД
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	st, root := testutil.NewTestStorage(t)
	return NewTestServerWithStorage(t, st, root)
}

// NewTestServerWithStorage - то же самое поверх переданного хранилища (например, с внедренными сбоями)
func NewTestServerWithStorage(t *testing.T, st storage.Storage, root string) *TestServer {
	t.Helper()
	logger.InitWithWriter("test", io.Discard)

	db := testutil.NewTestDB(t)
	cfg := NewTestConfig()
	cfg.Storage.BasePath = root

	router, container, err := app.SetupRouter(cfg, db, st)
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{Server: server, DB: db, Services: container, StorageRoot: root}
}

// Client - http.Client со своим cookie jar, то есть отдельная "вкладка браузера"
func (ts *TestServer) Client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := *ts.Server.Client()
	client.Jar = jar
	return &client
}

// LoginAs создает пользователя и логинит его; cookie остается в jar клиента
func (ts *TestServer) LoginAs(t *testing.T, role models.UserRole) (*http.Client, *models.User) {
	t.Helper()
	email := testutil.UniqueEmail(string(role))
	user := testutil.CreateUser(t, ts.DB, email, "password123", role)

	client := ts.Client(t)
	res, body := ts.Do(t, client, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Логин должен быть успешным. Ответ: "+body)
	require.NotEmpty(t, SessionCookie(res), "Cookie сессии не установлена")
	return client, user
}

// Do отправляет JSON-запрос и возвращает ответ с прочитанным телом
func (ts *TestServer) Do(t *testing.T, client *http.Client, method, path string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Ошибка кодирования JSON для запроса")
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return send(t, client, req)
}

// Upload отправляет multipart-форму: fields - текстовые поля, files - поле -> (имя, содержимое)
func (ts *TestServer) Upload(t *testing.T, client *http.Client, method, path string, fields map[string]string, files []FormFile) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		w, err := mw.CreateFormFile(f.Field, f.Name)
		require.NoError(t, err)
		_, err = w.Write(f.Content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return send(t, client, req)
}

// FormFile - один файл multipart-формы
type FormFile struct {
	Field   string
	Name    string
	Content []byte
}

func send(t *testing.T, client *http.Client, req *http.Request) (*http.Response, string) {
	t.Helper()
	res, err := client.Do(req)
	require.NoError(t, err, "Ошибка отправки HTTP-запроса")
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err, "Ошибка чтения тела ответа")
	return res, string(resBody)
}

// SessionCookie - значение cookie с токеном из ответа
func SessionCookie(res *http.Response) string {
	for _, c := range res.Cookies() {
		if c.Name == auth.CookieName {
			return c.Value
		}
	}
	return ""
}
