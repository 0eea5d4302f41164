package loader_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/crust1/internal/crust"
	"github.com/UnknownOlympus/crust1/internal/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func TestHTTPSource_Open(t *testing.T) {
	t.Parallel()
	logger := slog.Default()

	t.Run("successful download", func(t *testing.T) {
		t.Parallel()
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodGet, req.Method)
				assert.Equal(t, "https://mirror.example.org/crust/crust1.bnds", req.URL.String())
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString("0 -1 -2")),
				}, nil
			},
		}

		src := loader.NewHTTPSourceWithClient(mockClient, "https://mirror.example.org/crust/", logger)
		rc, err := src.Open(t.Context(), loader.PropertyBnds)
		require.NoError(t, err)
		defer rc.Close()

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "0 -1 -2", string(body))
	})

	t.Run("HTTP error status", func(t *testing.T) {
		t.Parallel()
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusNotFound,
					Body:       io.NopCloser(bytes.NewBufferString("no such key")),
				}, nil
			},
		}

		src := loader.NewHTTPSourceWithClient(mockClient, "https://mirror.example.org", logger)
		rc, err := src.Open(t.Context(), loader.PropertyVP)
		require.Error(t, err)
		require.Nil(t, rc)
		assert.Contains(t, err.Error(), "data mirror returned status 404 for crust1.vp")
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		src := loader.NewHTTPSourceWithClient(mockClient, "https://mirror.example.org", logger)
		_, err := src.Open(t.Context(), loader.PropertyRho)
		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to download crust1.rho")
	})
}

func TestLoadModel_HTTPSource(t *testing.T) {
	t.Parallel()

	data := fullDataSet()
	files := make(map[string]string, len(data))
	for prop, content := range data {
		files["/"+prop.FileName()] = content
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, content)
	}))
	defer srv.Close()

	src, err := loader.NewSource(loader.SourceConfig{Type: loader.SourceTypeHTTP, BaseURL: srv.URL})
	require.NoError(t, err)

	model, _, err := loader.LoadModel(t.Context(), src, slog.Default())
	require.NoError(t, err)

	p, err := model.Point(-45, 170)
	require.NoError(t, err)
	assert.True(t, p.Has(crust.Mantle))
}
