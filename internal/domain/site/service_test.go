package site_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/visitswap/visitswap-api/internal/domain/site"
	"github.com/visitswap/visitswap-api/internal/domain/user"
	"github.com/visitswap/visitswap-api/internal/middleware"
	"github.com/visitswap/visitswap-api/internal/pkg/database/dbtest"
)

func seedUser(t *testing.T, db *sqlx.DB) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.New(),
		Name:         "owner",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, user.NewRepository(db).Create(context.Background(), u))
	return u.ID
}

func TestBrowseExcludesCallerSites(t *testing.T) {
	db := dbtest.New(t)
	svc := site.NewService(site.NewRepository(db))
	ctx := context.Background()

	caller := seedUser(t, db)
	other := seedUser(t, db)

	own, err := svc.CreateSite(ctx, caller, &site.CreateSiteRequest{Title: "mine", URL: "https://mine.example"})
	require.NoError(t, err)
	require.Equal(t, site.StatusActive, own.Status)

	visible, err := svc.CreateSite(ctx, other, &site.CreateSiteRequest{Title: "theirs", URL: "https://theirs.example"})
	require.NoError(t, err)

	hidden, err := svc.CreateSite(ctx, other, &site.CreateSiteRequest{Title: "paused", URL: "https://paused.example"})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, other, hidden.ID, site.StatusInactive)
	require.NoError(t, err)

	sites, err := svc.BrowseSites(ctx, caller)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	require.Equal(t, visible.ID, sites[0].ID)
	for _, s := range sites {
		require.NotEqual(t, caller, s.UserID)
	}

	mine, err := svc.ListOwnSites(ctx, caller)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, own.ID, mine[0].ID)

	theirs, err := svc.ListOwnSites(ctx, other)
	require.NoError(t, err)
	require.Len(t, theirs, 2)
}

func TestUpdateStatusRequiresOwner(t *testing.T) {
	db := dbtest.New(t)
	svc := site.NewService(site.NewRepository(db))
	ctx := context.Background()

	owner := seedUser(t, db)
	stranger := seedUser(t, db)

	s, err := svc.CreateSite(ctx, owner, &site.CreateSiteRequest{Title: "t", URL: "https://t.example"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, stranger, s.ID, site.StatusInactive)
	require.ErrorIs(t, err, site.ErrNotOwner)

	_, err = svc.UpdateStatus(ctx, owner, uuid.New(), site.StatusInactive)
	require.ErrorIs(t, err, site.ErrSiteNotFound)

	updated, err := svc.UpdateStatus(ctx, owner, s.ID, site.StatusInactive)
	require.NoError(t, err)
	require.Equal(t, site.StatusInactive, updated.Status)
	require.Zero(t, updated.VisitsReceived)
}

func TestIncrementVisits(t *testing.T) {
	db := dbtest.New(t)
	svc := site.NewService(site.NewRepository(db))
	ctx := context.Background()

	s, err := svc.CreateSite(ctx, seedUser(t, db), &site.CreateSiteRequest{Title: "t", URL: "https://t.example"})
	require.NoError(t, err)

	visits, err := site.IncrementVisits(ctx, db, s.ID, time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, visits)

	_, err = site.IncrementVisits(ctx, db, uuid.New(), time.Now())
	require.ErrorIs(t, err, site.ErrSiteNotFound)

	_, err = site.Find(ctx, db, uuid.New())
	require.ErrorIs(t, err, site.ErrSiteNotFound)
}

func TestHandlerCreateValidatesURL(t *testing.T) {
	db := dbtest.New(t)
	owner := seedUser(t, db)
	h := site.NewHandler(site.NewService(site.NewRepository(db)))

	withUser := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), owner)))
		})
	}
	router := chi.NewRouter()
	router.Mount("/sites", h.Routes(withUser))

	cases := []struct {
		body string
		code int
	}{
		{`{"title":"ok","url":"https://ok.example"}`, http.StatusCreated},
		{`{"title":"bad","url":"ftp://nope"}`, http.StatusUnprocessableEntity},
		{`{"url":"https://no-title.example"}`, http.StatusUnprocessableEntity},
		{`{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/sites", bytes.NewBufferString(tc.body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, tc.code, w.Code, tc.body)
	}
}
