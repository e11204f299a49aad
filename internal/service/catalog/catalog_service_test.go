package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const portalPage = `<html><body>
<h1>Datos abiertos</h1>
<ul>
  <li><a href="/files/readme.txt">readme</a></li>
  <li><a href="/files/s1_dataset_maestro.csv">maestro</a></li>
  <li><a href="https://cdn.example.com/stg_s1_declaraciones.csv">staging</a></li>
</ul>
</body></html>`

func TestResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, portalPage)
	}))
	defer srv.Close()

	files, err := NewService().Resolve(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/files/s1_dataset_maestro.csv", files.MasterURL)
	assert.Equal(t, "https://cdn.example.com/stg_s1_declaraciones.csv", files.StagingURL)
}

func TestResolveMissingFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/files/readme.txt">readme</a></body></html>`)
	}))
	defer srv.Close()

	_, err := NewService().Resolve(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestResolveServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewService().Resolve(context.Background(), srv.URL)
	require.Error(t, err)
}
