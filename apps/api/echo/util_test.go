package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	echoapi "github.com/NathJo212/Overd-OSE-sub001/apps/api/echo"
	"github.com/NathJo212/Overd-OSE-sub001/core"
	"github.com/NathJo212/Overd-OSE-sub001/core/academic"
	"github.com/NathJo212/Overd-OSE-sub001/core/internship"
	"github.com/NathJo212/Overd-OSE-sub001/core/yearctx"
	inmemdb "github.com/NathJo212/Overd-OSE-sub001/storage/database/inmem"
	testutil "github.com/NathJo212/Overd-OSE-sub001/tests"
)

var (
	// January 15, 2025: the 2024-2025 academic year
	now = time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

	errMissingToken    = httpErr{Error: "missing or malformed jwt"}
	errSessionNotFound = httpErr{Error: "session not found"}
	errForbidden       = httpErr{Error: "permission denied"}
)

type testApp struct {
	server   *echoapi.Server
	provider *yearctx.Provider
	svc      *internship.Service
	logger   *testutil.Logger
}

func setup(t *testing.T) *testApp {
	academic.NowFunc = func() time.Time { return now }
	tick := now
	internship.NowFunc = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	t.Cleanup(func() {
		academic.NowFunc = time.Now
		internship.NowFunc = time.Now
	})

	conf := &core.Config{
		TestMode:  true,
		AppName:   "Stages",
		SecretKey: "test-secret",
		Server:    core.ServerConfig{CORSOrigins: []string{"*"}},
		Session:   core.SessionConfig{TTL: time.Hour},
	}
	validate, translator := testutil.NewValidator()

	app := &testApp{
		provider: yearctx.NewProvider(),
		svc:      internship.NewService(inmemdb.NewInternshipRepository(inmemdb.Open())),
		logger:   new(testutil.Logger),
	}
	app.server = echoapi.NewServer(echoapi.Deps{
		Conf:          conf,
		Logger:        app.logger,
		Provider:      app.provider,
		InternshipSvc: app.svc,
		Validate:      validate,
		Translator:    translator,
	})
	return app
}

type httpErr struct {
	Error string `json:"error"`
}

func (app *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

// openSession starts a session with role and returns its token.
func (app *testApp) openSession(t *testing.T, role string) string {
	rec := app.do(t, http.MethodPost, "/v1/sessions", "", jsonObj{"role": role})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp echoapi.SessionResponse
	decode(t, rec, &resp)
	return resp.Token
}

type jsonObj map[string]interface{}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}
