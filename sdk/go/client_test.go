package businesscasesdk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRoutesAndDecodes(t *testing.T) {
	var gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		switch r.Method + " " + r.URL.Path {
		case "GET /v0/health":
			io.WriteString(w, `{"status":"ok"}`)
		case "POST /v0/metrics":
			io.WriteString(w, `{"metrics":{"annual_savings":24000,"break_even_years":1.5},"formatted":{"annual_savings":"24000 kr"}}`)
		case "POST /v0/cases":
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, `{"id":"g1","process_name":"Løn","artifacts":[{"kind":"BC","name":"Loen_BC_20250314_0926.xlsx","size":10,"download_url":"/output/Loen_BC_20250314_0926.xlsx"}]}`)
		case "GET /v0/cases":
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			io.WriteString(w, `{"items":[{"id":"g1"}]}`)
		case "POST /v0/imports/json", "POST /v0/imports/docx":
			io.WriteString(w, `{"status":"matched","matched":1,"values":{"procesnavn":"Løn"}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":{"code":"not_found","message":"nope"}}`)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.BearerToken = "tok"
	ctx := context.Background()

	require.NoError(t, c.Health(ctx))
	assert.Equal(t, "Bearer tok", gotAuth)

	m, err := c.Metrics(ctx, map[string]string{"procesnavn": "Løn"})
	require.NoError(t, err)
	assert.Equal(t, 24000.0, m.Metrics.AnnualSavings)
	assert.Equal(t, "24000 kr", m.Formatted["annual_savings"])
	var sent map[string]map[string]string
	require.NoError(t, json.Unmarshal(gotBody, &sent))
	assert.Equal(t, "Løn", sent["values"]["procesnavn"])

	gen, err := c.Generate(ctx, map[string]string{"procesnavn": "Løn"})
	require.NoError(t, err)
	require.Len(t, gen.Artifacts, 1)
	assert.Equal(t, "BC", gen.Artifacts[0].Kind)

	list, err := c.ListCases(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)

	res, err := c.ImportJSON(ctx, []byte(`{"procesnavn":"Løn"}`))
	require.NoError(t, err)
	assert.Equal(t, "matched", res.Status)
	assert.Equal(t, "application/json", gotType)

	_, err = c.ImportDocx(ctx, []byte("PK"))
	require.NoError(t, err)
	assert.Equal(t, contentDocx, gotType)
	assert.Equal(t, "PK", string(gotBody))
}

func TestClientReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"code":"generation_failed","message":"generation failed","details":{"retryable":true}}}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Generate(context.Background(), nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "generation_failed", apiErr.Code)
}
