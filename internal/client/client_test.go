package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prospectplus-agent/internal/usecase"
)

func TestListProspectsSendsFiltersAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/prospects", r.URL.Path)
		assert.Equal(t, "qualified", r.URL.Query().Get("status"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("skip"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"p-1","company_name":"Acme","contact_name":"Jane","email":"jane@acme.io","tags":[],"status":"qualified","priority":"medium","score":null}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok")
	list, err := c.ListProspects(context.Background(), ListOptions{Status: "qualified", Limit: 5})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme", list[0].CompanyName)
	assert.Nil(t, list[0].Score)
}

func TestCreateProspectReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in usecase.CreateProspectInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "jane@acme.io", in.Email)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"DUPLICATE_EMAIL","message":"Email already registered","fields":{"email":"already registered"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").CreateProspect(context.Background(), usecase.CreateProspectInput{
		CompanyName: "Acme", ContactName: "Jane", Email: "jane@acme.io",
	})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "DUPLICATE_EMAIL", apiErr.Code)
	assert.Equal(t, "already registered", apiErr.Fields["email"])
	assert.Contains(t, apiErr.Error(), "DUPLICATE_EMAIL")
}

func TestDeleteProspectNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/prospects/p-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	assert.NoError(t, NewClient(srv.URL, "").DeleteProspect(context.Background(), "p-1"))
}

func TestLoginPostsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "demo", r.PostForm.Get("username"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))
		w.Write([]byte(`{"access_token":"abc","token_type":"bearer","expires_in":1800}`))
	}))
	defer srv.Close()

	out, err := NewClient(srv.URL, "").Login(context.Background(), "demo", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", out.AccessToken)
	assert.Equal(t, 1800, out.ExpiresIn)
}

func TestHealthAcceptsDegraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded","version":"1.0.0","dependencies":{"database":"unhealthy: refused"}}`))
	}))
	defer srv.Close()

	h, err := NewClient(srv.URL, "").Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "degraded", h.Status)
	assert.Equal(t, "unhealthy: refused", h.Dependencies["database"])
}

func TestTrendsAndOverviewQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/analytics/trends":
			assert.Equal(t, "7", r.URL.Query().Get("days"))
			w.Write([]byte(`{"period":"last_7_days","daily_counts":{"2024-01-01":2},"total":2}`))
		case "/api/analytics/overview":
			assert.Equal(t, "2024-01-01", r.URL.Query().Get("start_date"))
			w.Write([]byte(`{"total_prospects":3,"conversion_rate":0.5,"avg_score":null,"trends":null}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	trends, err := c.Trends(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, trends.Total)

	overview, err := c.Overview(context.Background(), "2024-01-01", "")
	require.NoError(t, err)
	assert.Equal(t, 3, overview.TotalProspects)
	assert.Nil(t, overview.AvgScore)
}
