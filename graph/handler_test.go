package graph_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-merchant-auth"
	"github.com/goliatone/go-merchant-auth/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type gqlResponse struct {
	Data   map[string]map[string]any `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func newHandler(t *testing.T, actions auth.ActionRunner, development bool) http.Handler {
	t.Helper()
	schema, err := graph.NewSchema(actions)
	require.NoError(t, err)
	return graph.NewHandler(schema, development)
}

func postQuery(t *testing.T, h http.Handler, query string) gqlResponse {
	t.Helper()
	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, graph.DefaultPath, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out gqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func defaultActions() *auth.Actions {
	return auth.NewActions(auth.WithActionsLogger(auth.NewZapLogger(zap.NewNop())))
}

func TestLoginMutationReturnsFixedSuccess(t *testing.T) {
	h := newHandler(t, defaultActions(), false)

	out := postQuery(t, h, `mutation { login(email: "a@b.com", password: "") { success error } }`)
	require.Empty(t, out.Errors)
	assert.Equal(t, "Authenticated Sucessfully!", out.Data["login"]["success"])
	assert.Nil(t, out.Data["login"]["error"])
}

func TestRegisterAndForgotPasswordMutations(t *testing.T) {
	h := newHandler(t, defaultActions(), false)

	out := postQuery(t, h, `mutation {
		register(email: "not-an-email", password: "", name: "") { success error }
		forgotPassword(value: "anything") { success error }
	}`)
	require.Empty(t, out.Errors)
	assert.Equal(t, auth.MessageRegisterSuccess, out.Data["register"]["success"])
	assert.Equal(t, auth.MessageResetSuccess, out.Data["forgotPassword"]["success"])
}

func TestStrictModeReportsInvalidFields(t *testing.T) {
	actions := auth.NewActions(
		auth.WithActionsLogger(auth.NewZapLogger(zap.NewNop())),
		auth.WithActionsValidationMode(auth.ValidationStrict),
	)
	h := newHandler(t, actions, false)

	out := postQuery(t, h, `mutation { login(email: "a@b.com", password: "") { success error } }`)
	require.Empty(t, out.Errors)
	assert.Nil(t, out.Data["login"]["success"])
	assert.Equal(t, auth.MessageInvalidFields, out.Data["login"]["error"])
}

type failingActions struct{}

func (failingActions) Login(context.Context, auth.LoginValues) (auth.ActionResult, error) {
	return auth.ActionResult{}, errors.New("upstream unavailable")
}

func (failingActions) Register(context.Context, auth.RegisterValues) (auth.ActionResult, error) {
	return auth.ActionResult{}, errors.New("upstream unavailable")
}

func (failingActions) ForgotPassword(context.Context, string) (auth.ActionResult, error) {
	return auth.ActionResult{}, errors.New("upstream unavailable")
}

func TestActionErrorsSurfaceAsGraphQLErrors(t *testing.T) {
	h := newHandler(t, failingActions{}, false)

	out := postQuery(t, h, `mutation { forgotPassword(value: "a@b.com") { success } }`)
	require.NotEmpty(t, out.Errors)
	assert.Contains(t, out.Errors[0].Message, "upstream unavailable")
}

func TestStatusQuery(t *testing.T) {
	h := newHandler(t, defaultActions(), false)

	body, err := json.Marshal(map[string]string{"query": `{ status }`})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, graph.DefaultPath, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), `"status": "ok"`)
}

func explorerRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, graph.DefaultPath, nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	return req
}

func TestExplorerOnlyInDevelopment(t *testing.T) {
	tests := []struct {
		name        string
		development bool
		expect      bool
	}{
		{name: "development", development: true, expect: true},
		{name: "production", development: false, expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(t, defaultActions(), tt.development)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, explorerRequest())

			body := strings.ToLower(rec.Body.String())
			assert.Equal(t, tt.expect, strings.Contains(body, "graphiql"))
		})
	}
}
