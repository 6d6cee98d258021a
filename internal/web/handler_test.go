package web

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/assoc-rules/internal/dataset"
	"github.com/wichananm65/assoc-rules/internal/rule"
)

const basket = "A,B,C\n1,1,0\n1,1,1\n1,0,0\n0,1,1\n1,1,0\n"

func setupApp(opts ...dataset.ServiceOption) (*fiber.App, *dataset.InMemoryRepository) {
	repo := dataset.NewInMemoryRepository()
	datasets := dataset.NewService(repo, opts...)
	app := fiber.New(fiber.Config{Views: NewViews()})
	NewHandler(datasets, rule.NewService(datasets), NewSessionStore(time.Hour)).RegisterRoutes(app)
	return app, repo
}

func do(t *testing.T, app *fiber.App, req *http.Request, cookies []*http.Cookie) (*http.Response, string) {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	res, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func upload(t *testing.T, app *fiber.App, filename, content string) []*http.Cookie {
	t.Helper()
	res, _ := do(t, app, uploadRequest(t, filename, content), nil)
	require.Equal(t, fiber.StatusSeeOther, res.StatusCode)
	require.Equal(t, "/", res.Header.Get("Location"))
	cookies := res.Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, CookieName, cookies[0].Name)
	return cookies
}

func TestIndex_NoDataset(t *testing.T) {
	app, _ := setupApp()

	res, body := do(t, app, httptest.NewRequest("GET", "/", nil), nil)
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, body, Title)
	assert.Contains(t, body, "Apriori Parameters")
	assert.Contains(t, body, MessageInfo)
	assert.NotContains(t, body, "Generate Rules")
}

func TestGenerate_NoDatasetShowsPrompt(t *testing.T) {
	app, _ := setupApp()

	res, body := do(t, app, formRequest("/generate", url.Values{}), nil)
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, body, MessageInfo)
	assert.NotContains(t, body, "Association Rules</h3>")
}

func TestUploadAndGenerate(t *testing.T) {
	app, repo := setupApp()
	cookies := upload(t, app, "basket.csv", basket)
	assert.Equal(t, 1, repo.Len())

	res, body := do(t, app, httptest.NewRequest("GET", "/", nil), cookies)
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, body, dataset.MessageBinary)
	assert.Contains(t, body, "Preview of Uploaded Data")
	assert.Contains(t, body, "Generate Rules")
	assert.Contains(t, body, "Minimum Support")

	res, body = do(t, app, formRequest("/generate", url.Values{
		"min_support":    {"0.1"},
		"min_confidence": {"0.5"},
		"min_lift":       {"1.2"},
	}), cookies)
	assert.Equal(t, 200, res.StatusCode)
	assert.Contains(t, body, "Generated 3 rules.")
	assert.Contains(t, body, "Support vs. Confidence")
	assert.Contains(t, body, "Top 10 Association Rules by Lift")
}

func TestGenerate_NoRules(t *testing.T) {
	app, _ := setupApp()
	cookies := upload(t, app, "basket.csv", basket)

	_, body := do(t, app, formRequest("/generate", url.Values{
		"min_support": {"0.3"},
		"min_lift":    {"2.0"},
	}), cookies)
	assert.Contains(t, body, rule.MessageNoRules)
}

func TestGenerate_InvalidParams(t *testing.T) {
	app, _ := setupApp()
	cookies := upload(t, app, "basket.csv", basket)

	res, body := do(t, app, formRequest("/generate", url.Values{"min_support": {"0.9"}}), cookies)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "minSupport must be between")

	res, body = do(t, app, formRequest("/generate", url.Values{"min_lift": {"abc"}}), cookies)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, "min_lift must be a number")
}

func TestUpload_NonBinaryWarns(t *testing.T) {
	app, _ := setupApp()
	cookies := upload(t, app, "basket.csv", "A,B\n1,2\n0,1\n")

	_, body := do(t, app, httptest.NewRequest("GET", "/", nil), cookies)
	assert.Contains(t, body, "Non-binary values found")
}

func TestUpload_RejectsBadFile(t *testing.T) {
	app, repo := setupApp()

	res, body := do(t, app, uploadRequest(t, "basket.txt", basket), nil)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	assert.Contains(t, body, MessageInfo)
	assert.Equal(t, 0, repo.Len())
}

func TestUpload_ReplacesPrevious(t *testing.T) {
	app, repo := setupApp()
	cookies := upload(t, app, "first.csv", basket)

	res, _ := do(t, app, uploadRequest(t, "second.csv", "X,Y\n1,0\n"), cookies)
	require.Equal(t, fiber.StatusSeeOther, res.StatusCode)
	assert.Equal(t, 1, repo.Len())

	_, body := do(t, app, httptest.NewRequest("GET", "/", nil), cookies)
	assert.Contains(t, body, "second.csv")
}

func TestUpload_ExpiredSessionDatasetReleased(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	app, repo := setupApp(dataset.WithTTL(time.Second), dataset.WithClock(func() time.Time { return now }))

	abandoned := upload(t, app, "first.csv", basket)
	now = now.Add(1500 * time.Millisecond)
	for i := 0; i < 4; i++ {
		upload(t, app, "next.csv", basket)
	}
	assert.Equal(t, 4, repo.Len())

	_, body := do(t, app, httptest.NewRequest("GET", "/", nil), abandoned)
	assert.Contains(t, body, MessageInfo)
}

func TestReset(t *testing.T) {
	app, repo := setupApp()
	cookies := upload(t, app, "basket.csv", basket)

	res, _ := do(t, app, formRequest("/reset", url.Values{}), cookies)
	assert.Equal(t, fiber.StatusSeeOther, res.StatusCode)
	assert.Equal(t, 0, repo.Len())

	_, body := do(t, app, httptest.NewRequest("GET", "/", nil), cookies)
	assert.Contains(t, body, MessageInfo)
}
