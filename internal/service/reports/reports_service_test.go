package reports

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/declaradash/declaradash/internal/domain"
	"github.com/declaradash/declaradash/internal/pkg/constants"
	"github.com/declaradash/declaradash/internal/pkg/localstore"
	"github.com/declaradash/declaradash/internal/pkg/store"
	"github.com/declaradash/declaradash/internal/service/auth"
	"github.com/declaradash/declaradash/internal/service/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	masterCSV = `id,estado,institucion,ingreso_mensual_neto,ingreso_anual_neto
d-1,JALISCO,SAT,30000,360000
`
	stagingCSV = `id,nombre,primer_apellido,segundo_apellido,empleo_cargo
d-1,Luis,Mota,Diaz,Auditor
`
)

func signedIn(userID string) context.Context {
	return auth.WithUser(context.Background(), &domain.User{
		ID:    userID,
		Email: userID + "@example.com",
	})
}

func readySession(t *testing.T, localPath string) *session.Service {
	t.Helper()

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

	local, err := localstore.Open(localPath)
	require.NoError(t, err)

	svc := session.NewService(store.NewStore(db), local)
	require.NoError(t, svc.Init(context.Background(), session.Config{
		MasterFileURL:  srv.URL + "/master.csv",
		StagingFileURL: srv.URL + "/staging.csv",
	}))
	return svc
}

func newService(t *testing.T) (*Service, *session.Service, string) {
	t.Helper()
	localPath := filepath.Join(t.TempDir(), "local.json")
	sess := readySession(t, localPath)
	return NewService(sess, 0), sess, localPath
}

func TestSubmitRequiresAuth(t *testing.T) {
	svc, sess, _ := newService(t)

	_, err := svc.Submit(context.Background(), "Luis Mota Diaz", "SAT", "income mismatch")
	assert.ErrorIs(t, err, constants.ErrUnauthorized)

	// No store mutated by the rejected attempt.
	assert.Zero(t, sess.Local().CountReports())
	engineCount, err := sess.Store().CountReports(context.Background())
	require.NoError(t, err)
	assert.Zero(t, engineCount)
}

func TestSubmit(t *testing.T) {
	svc, sess, _ := newService(t)

	report, err := svc.Submit(signedIn("user-1"), "Luis Mota Diaz", "SAT", "income mismatch")
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "user-1", report.UserID)
	assert.Equal(t, "user-1@example.com", report.UserEmail)
	assert.Zero(t, report.Upvotes)

	// Present in both stores.
	assert.Equal(t, 1, sess.Local().CountReports())
	engineCount, err := sess.Store().CountReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), engineCount)

	// Listing was refreshed and stats see the pending report.
	assert.Len(t, svc.Reports(), 1)
	assert.Equal(t, domain.CommunityStats{Pending: 1}, svc.Stats())
}

func TestSubmitCancelledDuringDelay(t *testing.T) {
	localPath := filepath.Join(t.TempDir(), "local.json")
	sess := readySession(t, localPath)
	svc := NewService(sess, 5*time.Second)

	ctx, cancel := context.WithCancel(signedIn("user-1"))
	cancel()

	_, err := svc.Submit(ctx, "Luis Mota Diaz", "SAT", "income mismatch")
	require.Error(t, err)
	assert.Zero(t, sess.Local().CountReports())
}

func TestUpvoteRequiresAuth(t *testing.T) {
	svc, _, _ := newService(t)
	err := svc.Upvote(context.Background(), "some-id")
	assert.ErrorIs(t, err, constants.ErrUnauthorized)
}

func TestUpvoteOncePerInstallation(t *testing.T) {
	svc, sess, _ := newService(t)
	ctx := signedIn("user-1")

	report, err := svc.Submit(ctx, "Luis Mota Diaz", "SAT", "income mismatch")
	require.NoError(t, err)

	require.NoError(t, svc.Upvote(ctx, report.ID))
	assert.True(t, svc.HasVoted(report.ID))

	// A second vote from the same installation changes nothing.
	require.NoError(t, svc.Upvote(ctx, report.ID))

	listed, err := svc.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(1), listed[0].Upvotes)
	assert.Equal(t, int64(1), sess.Local().Reports()[0].Upvotes)

	assert.Equal(t, domain.CommunityStats{Validated: 1}, svc.Stats())
}

func TestUpvoteUnknownReport(t *testing.T) {
	svc, _, _ := newService(t)
	err := svc.Upvote(signedIn("user-1"), "missing")
	require.Error(t, err)
}

func TestListingOrder(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := signedIn("user-1")

	first, err := svc.Submit(ctx, "Luis Mota Diaz", "SAT", "first")
	require.NoError(t, err)
	second, err := svc.Submit(ctx, "Juan Perez Garcia", "SEP", "second")
	require.NoError(t, err)

	require.NoError(t, svc.Upvote(ctx, first.ID))

	listed := svc.Reports()
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)
	assert.Equal(t, second.ID, listed[1].ID)
}

func TestDurableLogSurvivesNewSession(t *testing.T) {
	svc, _, localPath := newService(t)
	ctx := signedIn("user-1")

	report, err := svc.Submit(ctx, "Luis Mota Diaz", "SAT", "income mismatch")
	require.NoError(t, err)
	require.NoError(t, svc.Upvote(ctx, report.ID))

	// A fresh engine session replays the durable log, upvotes included.
	sess2 := readySession(t, localPath)
	svc2 := NewService(sess2, 0)

	listed, err := svc2.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, report.ID, listed[0].ID)
	assert.Equal(t, int64(1), listed[0].Upvotes)

	// Voted-set also survives: the same installation cannot vote again.
	require.NoError(t, svc2.Upvote(ctx, report.ID))
	listed, err = svc2.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), listed[0].Upvotes)
}
