package server

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"alfredoptarigan/office-letters/internal/auth"
	"alfredoptarigan/office-letters/internal/config"
	"alfredoptarigan/office-letters/internal/handlers"
	"alfredoptarigan/office-letters/internal/middleware"
	"alfredoptarigan/office-letters/internal/models"
	"alfredoptarigan/office-letters/internal/repositories"
	"alfredoptarigan/office-letters/internal/services"
)

const (
	ownerName     = "owner"
	ownerPassword = "s3cret"
)

type testEnv struct {
	app     *fiber.App
	db      *gorm.DB
	storage services.StorageService
	docs    services.DocumentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := filepath.Join(t.TempDir(), "storage")

	cfg := &config.Config{
		Server:   config.ServerConfig{Env: "test"},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(root, "app.db")},
	}
	db, err := config.InitDatabase(cfg, zerolog.Nop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	storage := services.NewStorageService(root)
	require.NoError(t, storage.EnsureGeneratedDir())

	authService := services.NewAuthServiceWithCost(repositories.NewUserRepository(db), bcrypt.MinCost)
	_, err = authService.EnsureSeedUser(context.Background(), ownerName, ownerPassword)
	require.NoError(t, err)

	docService := services.NewDocumentService(
		db,
		repositories.NewDocumentRepository(db),
		storage,
		services.DefaultEmitters(services.ArabicLabels, ""),
		zerolog.Nop(),
	)

	session := &middleware.Auth{
		Signer: auth.NewSigner("test-secret", "office-letters", 8*time.Hour),
		Log:    zerolog.Nop(),
	}
	app := New(Dependencies{
		Log:              zerolog.Nop(),
		Session:          session,
		Storage:          storage,
		AuthHandler:      handlers.NewAuthHandler(authService, session, zerolog.Nop()),
		DashboardHandler: handlers.NewDashboardHandler(docService),
		DocumentHandler:  handlers.NewDocumentHandler(docService, storage, services.NewPDFParserService(), zerolog.Nop()),
	})

	return &testEnv{app: app, db: db, storage: storage, docs: docService}
}

func (e *testEnv) do(t *testing.T, method, target string, form url.Values, cookie *http.Cookie) *http.Response {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/login", url.Values{"username": {ownerName}, "password": {ownerPassword}}, nil)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))
	ck := findCookie(resp, middleware.SessionCookie)
	require.NotNil(t, ck)
	require.NotEmpty(t, ck.Value)
	return &http.Cookie{Name: ck.Name, Value: ck.Value}
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func zipEntry(t *testing.T, path, name string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(b)
		}
	}
	t.Fatalf("%s not found in %s", name, path)
	return ""
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Contains(t, readBody(t, resp), `"status":"healthy"`)
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/"},
		{http.MethodPost, "/generate"},
		{http.MethodGet, "/documents/1"},
		{http.MethodGet, "/storage/generated/doc_1.pdf"},
	} {
		resp := env.do(t, tc.method, tc.path, nil, nil)
		require.Equal(t, fiber.StatusSeeOther, resp.StatusCode, tc.path)
		require.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation), tc.path)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/login", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := readBody(t, resp)
	require.Contains(t, page, `action="/login"`)
	require.NotContains(t, page, handlers.LoginErrorMessage)

	cookie := env.login(t)
	resp = env.do(t, http.MethodGet, "/", nil, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Contains(t, readBody(t, resp), ownerName)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	form := url.Values{"username": {ownerName}, "password": {"nope"}}

	first := env.do(t, http.MethodPost, "/login", form, nil)
	require.Equal(t, fiber.StatusOK, first.StatusCode)
	require.Nil(t, findCookie(first, middleware.SessionCookie))
	firstHTML := readBody(t, first)
	require.Contains(t, firstHTML, handlers.LoginErrorMessage)

	second := env.do(t, http.MethodPost, "/login", form, nil)
	require.Equal(t, firstHTML, readBody(t, second))

	unknown := env.do(t, http.MethodPost, "/login", url.Values{"username": {"ghost"}, "password": {"x"}}, nil)
	require.Equal(t, fiber.StatusOK, unknown.StatusCode)
	require.Equal(t, firstHTML, readBody(t, unknown))
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.do(t, http.MethodGet, "/logout", nil, cookie)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
	cleared := findCookie(resp, middleware.SessionCookie)
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)
}

func TestGenerate_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)
	today := time.Now().Format(services.LetterDateLayout)

	resp := env.do(t, http.MethodPost, "/generate", url.Values{
		"customer_name": {"Ali"},
		"destination":   {"Ministry"},
		"reference_no":  {"123"},
	}, cookie)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))

	var docs []models.Document
	require.NoError(t, env.db.Preload("Files").Find(&docs).Error)
	require.Len(t, docs, 1)
	doc := docs[0]
	require.Equal(t, models.TemplateOfficialLetter, doc.TemplateType)
	require.Equal(t, ownerName, doc.CreatedBy)
	require.Len(t, doc.Files, 3)

	path := func(ft models.FileType) string {
		f, ok := doc.File(ft)
		require.True(t, ok, ft)
		require.Equal(t, fmt.Sprintf("generated/doc_%d.%s", doc.ID, ft), f.FilePath)
		abs, err := env.storage.GetFilePath(f.FilePath)
		require.NoError(t, err)
		return abs
	}

	body := zipEntry(t, path(models.FileTypeDOCX), "word/document.xml")
	for _, want := range []string{"Ali", "Ministry", "123", today} {
		require.Contains(t, body, want)
	}

	text, err := services.NewPDFParserService().ExtractText(path(models.FileTypePDF))
	require.NoError(t, err)
	for _, want := range []string{"Ali", "Ministry", "123", today} {
		require.Contains(t, text, want)
	}

	xlsx, err := excelize.OpenFile(path(models.FileTypeXLSX))
	require.NoError(t, err)
	defer xlsx.Close()
	sheet := services.ArabicLabels.SheetName
	for cell, want := range map[string]string{"B2": "Ali", "B3": "Ministry", "B4": today, "B5": "123"} {
		got, err := xlsx.GetCellValue(sheet, cell)
		require.NoError(t, err)
		require.Equal(t, want, got, cell)
	}

	// the dashboard links the new document and its files
	resp = env.do(t, http.MethodGet, "/", nil, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := readBody(t, resp)
	require.Contains(t, page, fmt.Sprintf(`href="/documents/%d"`, doc.ID))
	require.Contains(t, page, fmt.Sprintf(`href="/storage/generated/doc_%d.pdf"`, doc.ID))

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/storage/generated/doc_%d.pdf", doc.ID), nil, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, strings.HasPrefix(readBody(t, resp), "%PDF"))
}

func TestGenerate_InvalidForm(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	resp := env.do(t, http.MethodPost, "/generate", url.Values{
		"customer_name": {"Ali"},
		"destination":   {"Ministry"},
	}, cookie)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var n int64
	require.NoError(t, env.db.Model(&models.Document{}).Count(&n).Error)
	require.Zero(t, n)
}

func TestGenerate_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/generate", url.Values{
		"customer_name": {"Ali"},
		"destination":   {"Ministry"},
		"reference_no":  {"123"},
	}, nil)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	var n int64
	require.NoError(t, env.db.Model(&models.Document{}).Count(&n).Error)
	require.Zero(t, n)
}

func TestDashboard_ListsLatestTwentyNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	var lastID uint
	for i := 0; i < services.DashboardLimit+2; i++ {
		doc, err := env.docs.Generate(context.Background(), ownerName, models.GenerateForm{
			CustomerName: fmt.Sprintf("customer-%d", i), Destination: "d", ReferenceNo: "r",
		})
		require.NoError(t, err)
		lastID = doc.ID
	}

	resp := env.do(t, http.MethodGet, "/", nil, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := readBody(t, resp)

	require.Equal(t, services.DashboardLimit, strings.Count(page, `href="/documents/`))

	prev := -1
	for id := lastID; id > lastID-uint(services.DashboardLimit); id-- {
		pos := strings.Index(page, fmt.Sprintf(`href="/documents/%d"`, id))
		require.Greater(t, pos, prev, "document %d out of order", id)
		prev = pos
	}
	require.NotContains(t, page, fmt.Sprintf(`href="/documents/%d"`, lastID-uint(services.DashboardLimit)))
}

func TestDocumentPage(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	doc, err := env.docs.Generate(context.Background(), ownerName, models.GenerateForm{
		CustomerName: "Ali", Destination: "Ministry", ReferenceNo: "123",
	})
	require.NoError(t, err)

	resp := env.do(t, http.MethodGet, fmt.Sprintf("/documents/%d", doc.ID), nil, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := readBody(t, resp)
	require.Contains(t, page, "Ali")
	require.Contains(t, page, "Reference: 123")

	for _, target := range []string{"/documents/999", "/documents/abc", "/documents/0"} {
		resp = env.do(t, http.MethodGet, target, nil, cookie)
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode, target)
	}
}

func TestStorage_OnlyGeneratedFilesAreServed(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t)

	for _, target := range []string{"/storage/app.db", "/storage/generated/../app.db", "/storage/generated/doc_404.pdf"} {
		resp := env.do(t, http.MethodGet, target, nil, cookie)
		require.Equal(t, fiber.StatusNotFound, resp.StatusCode, target)
	}
}

func TestPages_ShowCreatedAtInLocalTime(t *testing.T) {
	zone := time.FixedZone("AST", 3*60*60)
	prev := time.Local
	time.Local = zone
	t.Cleanup(func() { time.Local = prev })

	env := newTestEnv(t)
	cookie := env.login(t)

	doc, err := env.docs.Generate(context.Background(), ownerName, models.GenerateForm{
		CustomerName: "Ali", Destination: "Ministry", ReferenceNo: "123",
	})
	require.NoError(t, err)
	local := doc.CreatedAt.In(zone).Format("2006-01-02 15:04")
	utc := doc.CreatedAt.UTC().Format("2006-01-02 15:04")
	require.NotEqual(t, local, utc)

	for _, target := range []string{"/", fmt.Sprintf("/documents/%d", doc.ID)} {
		resp := env.do(t, http.MethodGet, target, nil, cookie)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, target)
		page := readBody(t, resp)
		require.Contains(t, page, local, target)
		require.NotContains(t, page, utc, target)
	}
}
