package explorer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/declaradash/declaradash/internal/domain"
	"github.com/declaradash/declaradash/internal/pkg/constants"
	"github.com/declaradash/declaradash/internal/pkg/localstore"
	"github.com/declaradash/declaradash/internal/pkg/store"
	"github.com/declaradash/declaradash/internal/service/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureCSVs() (string, string) {
	var master, staging strings.Builder
	master.WriteString("id,estado,institucion,ingreso_mensual_neto,ingreso_anual_neto\n")
	staging.WriteString("id,nombre,primer_apellido,segundo_apellido,empleo_cargo\n")
	for i := 1; i <= 25; i++ {
		fmt.Fprintf(&master, "sep-%02d,JALISCO,SEP,%d,%d\n", i, i*1000, i*12000)
		fmt.Fprintf(&staging, "sep-%02d,Maria,Lopez,Num%02d,Analista\n", i, i)
	}
	master.WriteString("sat-01,JALISCO,SAT,0,240000\n")
	staging.WriteString("sat-01,Juan,Perez,Garcia,Director\n")
	return master.String(), staging.String()
}

func readySession(t *testing.T) *session.Service {
	t.Helper()

	masterCSV, stagingCSV := fixtureCSVs()
	mux := http.NewServeMux()
	mux.HandleFunc("/master.csv", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, masterCSV)
	})
	mux.HandleFunc("/staging.csv", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, stagingCSV)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	local, err := localstore.Open(filepath.Join(t.TempDir(), "local.json"))
	require.NoError(t, err)

	svc := session.NewService(store.NewStore(db), local)
	require.NoError(t, svc.Init(context.Background(), session.Config{
		MasterFileURL:  srv.URL + "/master.csv",
		StagingFileURL: srv.URL + "/staging.csv",
	}))
	return svc
}

func TestSelectRegion(t *testing.T) {
	svc := NewService(readySession(t))

	view, err := svc.SelectRegion(context.Background(), "MX-JAL")
	require.NoError(t, err)
	assert.Equal(t, "MX-JAL", view.State.RegionCode)
	assert.Equal(t, "JALISCO", view.State.RegionName)
	assert.Empty(t, view.State.Institution)
	assert.Zero(t, view.State.Page)

	require.Len(t, view.Institutions, 2)
	assert.Equal(t, "SEP", view.Institutions[0].Institution)
	assert.Equal(t, int64(25), view.Institutions[0].TotalDeclarations)
}

func TestSelectRegionUnmappedCode(t *testing.T) {
	svc := NewService(readySession(t))

	view, err := svc.SelectRegion(context.Background(), "MX-NOPE")
	require.NoError(t, err)
	assert.Empty(t, view.Institutions)
	assert.Equal(t, "MX-NOPE", view.State.RegionCode)
	assert.Empty(t, view.State.RegionName)
}

func TestSelectRegionClearsInstitution(t *testing.T) {
	svc := NewService(readySession(t))
	ctx := context.Background()

	_, err := svc.SelectRegion(ctx, "MX-JAL")
	require.NoError(t, err)
	_, err = svc.SelectInstitution(ctx, "SEP")
	require.NoError(t, err)
	_, err = svc.NextPage(ctx)
	require.NoError(t, err)

	view, err := svc.SelectRegion(ctx, "MX-SON")
	require.NoError(t, err)
	assert.Empty(t, view.State.Institution)
	assert.Zero(t, view.State.Page)
	assert.Zero(t, view.State.TotalCount)
}

func TestSelectInstitutionWithoutRegion(t *testing.T) {
	svc := NewService(readySession(t))

	_, err := svc.SelectInstitution(context.Background(), "SEP")
	assert.ErrorIs(t, err, constants.ErrNoSelection)
}

func TestSelectInstitution(t *testing.T) {
	svc := NewService(readySession(t))
	ctx := context.Background()

	_, err := svc.SelectRegion(ctx, "MX-JAL")
	require.NoError(t, err)

	view, err := svc.SelectInstitution(ctx, "SEP")
	require.NoError(t, err)
	assert.Equal(t, "SEP", view.State.Institution)
	assert.Zero(t, view.State.Page)
	assert.Equal(t, int64(25), view.State.TotalCount)
	assert.Equal(t, 3, view.State.TotalPages)

	require.Len(t, view.Declarations, domain.PageSize)
	assert.Equal(t, 25000.0, view.Declarations[0].MonthlyNetIncome)
	assert.Len(t, view.Chart, domain.PageSize)
	assert.Len(t, view.Rows, domain.PageSize)
}

func TestPaginationClamping(t *testing.T) {
	svc := NewService(readySession(t))
	ctx := context.Background()

	_, err := svc.SelectRegion(ctx, "MX-JAL")
	require.NoError(t, err)
	_, err = svc.SelectInstitution(ctx, "SEP")
	require.NoError(t, err)

	// Back from page 0 is a no-op.
	view, err := svc.PrevPage(ctx)
	require.NoError(t, err)
	assert.Zero(t, view.State.Page)

	// Forward to the last page, then clamp there.
	for i := 0; i < 5; i++ {
		view, err = svc.NextPage(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, view.State.Page)
	assert.Len(t, view.Declarations, 5)

	view, err = svc.PrevPage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, view.State.Page)
	assert.Len(t, view.Declarations, domain.PageSize)
}

func TestPageWithoutInstitution(t *testing.T) {
	svc := NewService(readySession(t))
	ctx := context.Background()

	_, err := svc.SelectRegion(ctx, "MX-JAL")
	require.NoError(t, err)

	_, err = svc.NextPage(ctx)
	assert.ErrorIs(t, err, constants.ErrNoSelection)
}

func TestNotReadySessionBlocksSelection(t *testing.T) {
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	local, err := localstore.Open(filepath.Join(t.TempDir(), "local.json"))
	require.NoError(t, err)

	svc := NewService(session.NewService(store.NewStore(db), local))

	_, err = svc.SelectRegion(context.Background(), "MX-JAL")
	assert.ErrorIs(t, err, constants.ErrSessionNotReady)
}
