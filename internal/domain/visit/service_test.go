package visit_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/visitswap/visitswap-api/internal/domain/credit"
	"github.com/visitswap/visitswap-api/internal/domain/site"
	"github.com/visitswap/visitswap-api/internal/domain/user"
	"github.com/visitswap/visitswap-api/internal/domain/visit"
	"github.com/visitswap/visitswap-api/internal/pkg/database/dbtest"
)

type fixture struct {
	db     *sqlx.DB
	users  user.Repository
	sites  *site.Service
	ledger *credit.CreditRepository
}

func newFixture(t *testing.T) *fixture {
	db := dbtest.New(t)
	return &fixture{
		db:     db,
		users:  user.NewRepository(db),
		sites:  site.NewService(site.NewRepository(db)),
		ledger: credit.NewRepository(db),
	}
}

func (f *fixture) user(t *testing.T, name string) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        name + "-" + uuid.NewString()[:8] + "@example.com",
		PasswordHash: "hash",
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u.ID
}

func (f *fixture) site(t *testing.T, owner uuid.UUID) *site.Site {
	t.Helper()
	s, err := f.sites.CreateSite(context.Background(), owner, &site.CreateSiteRequest{
		Title: "site",
		URL:   "https://" + uuid.NewString()[:8] + ".example",
	})
	require.NoError(t, err)
	return s
}

func (f *fixture) credits(t *testing.T, id uuid.UUID) int {
	t.Helper()
	credits, err := f.ledger.GetBalance(context.Background(), id)
	require.NoError(t, err)
	return credits
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func (f *fixture) visitsReceived(t *testing.T, id uuid.UUID) int {
	t.Helper()
	s, err := site.Find(context.Background(), f.db, id)
	require.NoError(t, err)
	return s.VisitsReceived
}

func (f *fixture) requireLedgerMatchesBalance(t *testing.T, id uuid.UUID) {
	t.Helper()
	sum, err := f.ledger.SignedSum(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, f.credits(t, id), sum)
}

func defaultConfig() visit.Config {
	return visit.Config{Reward: 1, DurationSeconds: 40}
}

func TestCompleteVisitScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := visit.NewService(visit.NewLedger(f.db), defaultConfig())

	a := f.user(t, "a")
	b := f.user(t, "b")
	s := f.site(t, b)
	require.Zero(t, f.credits(t, a))

	result, err := svc.CompleteVisit(ctx, visit.CompleteRequest{
		VisitorID: a,
		SiteID:    s.ID,
		IP:        "203.0.113.10",
		UserAgent: "test-agent",
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Credits)
	require.Equal(t, 1, f.credits(t, a))
	require.Equal(t, 1, f.visitsReceived(t, s.ID))

	var logs []visit.VisitLog
	require.NoError(t, f.db.Select(&logs, `SELECT * FROM visit_logs`))
	require.Len(t, logs, 1)
	require.Equal(t, a, logs[0].VisitorID)
	require.Equal(t, s.ID, logs[0].SiteID)
	require.Equal(t, "203.0.113.10", logs[0].IP)
	require.Equal(t, "test-agent", logs[0].UserAgent.String)
	require.Equal(t, 40, logs[0].DurationSeconds)

	entries, err := f.ledger.ListByUser(ctx, a, credit.Pagination{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, credit.EntryEarn, entries[0].Type)
	require.Equal(t, 1, entries[0].Amount)
	require.Equal(t, "visit completed", entries[0].Reason)
	require.Equal(t, credit.RefVisitLog, entries[0].Ref.Kind())
	require.Equal(t, logs[0].ID, entries[0].Ref.ID())

	f.requireLedgerMatchesBalance(t, a)
}

func TestCompleteVisitIsNotIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := visit.NewService(visit.NewLedger(f.db), defaultConfig())

	a := f.user(t, "a")
	s := f.site(t, f.user(t, "b"))
	req := visit.CompleteRequest{VisitorID: a, SiteID: s.ID, IP: "10.0.0.1"}

	first, err := svc.CompleteVisit(ctx, req)
	require.NoError(t, err)
	second, err := svc.CompleteVisit(ctx, req)
	require.NoError(t, err)

	require.Equal(t, 1, first.Credits)
	require.Equal(t, 2, second.Credits)
	require.NotEqual(t, first.Visit.ID, second.Visit.ID)
	require.Equal(t, 2, f.count(t, "visit_logs"))
	require.Equal(t, 2, f.count(t, "credit_logs"))
	require.Equal(t, 2, f.visitsReceived(t, s.ID))
	f.requireLedgerMatchesBalance(t, a)
}

func TestCompleteVisitOwnSiteIsCredited(t *testing.T) {
	// Visiting one's own site is currently allowed and earns credit.
	f := newFixture(t)
	svc := visit.NewService(visit.NewLedger(f.db), defaultConfig())

	owner := f.user(t, "owner")
	s := f.site(t, owner)

	result, err := svc.CompleteVisit(context.Background(), visit.CompleteRequest{VisitorID: owner, SiteID: s.ID, IP: "10.0.0.1"})
	require.NoError(t, err)
	require.Equal(t, 1, result.Credits)
	require.Equal(t, 1, f.visitsReceived(t, s.ID))
}

func TestCompleteVisitNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := visit.NewService(visit.NewLedger(f.db), defaultConfig())

	a := f.user(t, "a")
	s := f.site(t, f.user(t, "b"))

	_, err := svc.CompleteVisit(ctx, visit.CompleteRequest{VisitorID: a, SiteID: uuid.New(), IP: "10.0.0.1"})
	require.ErrorIs(t, err, site.ErrSiteNotFound)

	_, err = svc.CompleteVisit(ctx, visit.CompleteRequest{VisitorID: uuid.New(), SiteID: s.ID, IP: "10.0.0.1"})
	require.ErrorIs(t, err, user.ErrUserNotFound)

	require.Zero(t, f.count(t, "visit_logs"))
	require.Zero(t, f.count(t, "credit_logs"))
	require.Zero(t, f.visitsReceived(t, s.ID))
}

func TestCompleteVisitUsesConfiguredReward(t *testing.T) {
	f := newFixture(t)
	svc := visit.NewService(visit.NewLedger(f.db), visit.Config{Reward: 3, DurationSeconds: 15})

	a := f.user(t, "a")
	s := f.site(t, f.user(t, "b"))

	result, err := svc.CompleteVisit(context.Background(), visit.CompleteRequest{VisitorID: a, SiteID: s.ID, IP: "10.0.0.1"})
	require.NoError(t, err)
	require.Equal(t, 3, result.Credits)
	require.Equal(t, 15, result.Visit.DurationSeconds)
	f.requireLedgerMatchesBalance(t, a)
}

// faultyLedger fails the named step after the earlier writes went through
type faultyLedger struct {
	visit.Ledger
	failAt string
}

func (l *faultyLedger) InTx(ctx context.Context, fn func(ctx context.Context, tx visit.LedgerTx) error) error {
	return l.Ledger.InTx(ctx, func(ctx context.Context, tx visit.LedgerTx) error {
		return fn(ctx, &faultyTx{LedgerTx: tx, failAt: l.failAt})
	})
}

type faultyTx struct {
	visit.LedgerTx
	failAt string
}

var errInjected = errors.New("injected store failure")

func (t *faultyTx) InsertVisit(ctx context.Context, v *visit.VisitLog) error {
	if t.failAt == "insert_visit" {
		return errInjected
	}
	return t.LedgerTx.InsertVisit(ctx, v)
}

func (t *faultyTx) IncrementSiteVisits(ctx context.Context, id uuid.UUID, now time.Time) (int, error) {
	if t.failAt == "increment_site" {
		return 0, errInjected
	}
	return t.LedgerTx.IncrementSiteVisits(ctx, id, now)
}

func (t *faultyTx) AppendCreditEntry(ctx context.Context, e *credit.Entry) error {
	if t.failAt == "append_credit" {
		return errInjected
	}
	return t.LedgerTx.AppendCreditEntry(ctx, e)
}

func TestCompleteVisitIsAtomic(t *testing.T) {
	for _, step := range []string{"insert_visit", "increment_site", "append_credit"} {
		t.Run(step, func(t *testing.T) {
			f := newFixture(t)
			svc := visit.NewService(&faultyLedger{Ledger: visit.NewLedger(f.db), failAt: step}, defaultConfig())

			a := f.user(t, "a")
			s := f.site(t, f.user(t, "b"))

			_, err := svc.CompleteVisit(context.Background(), visit.CompleteRequest{VisitorID: a, SiteID: s.ID, IP: "10.0.0.1"})
			require.ErrorIs(t, err, visit.ErrVisitNotRecorded)
			require.ErrorIs(t, err, errInjected)

			require.Zero(t, f.credits(t, a))
			require.Zero(t, f.visitsReceived(t, s.ID))
			require.Zero(t, f.count(t, "visit_logs"))
			require.Zero(t, f.count(t, "credit_logs"))
		})
	}
}

func TestCompleteVisitConcurrentSites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := visit.NewService(visit.NewLedger(f.db), defaultConfig())

	const n = 10
	a := f.user(t, "a")
	owner := f.user(t, "owner")
	sites := make([]*site.Site, n)
	for i := range sites {
		sites[i] = f.site(t, owner)
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.CompleteVisit(ctx, visit.CompleteRequest{
				VisitorID: a,
				SiteID:    sites[i].ID,
				IP:        fmt.Sprintf("10.0.0.%d", i+1),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, n, f.credits(t, a))
	require.Equal(t, n, f.count(t, "credit_logs"))
	for _, s := range sites {
		require.Equal(t, 1, f.visitsReceived(t, s.ID))
	}
	f.requireLedgerMatchesBalance(t, a)
}

func TestHistoryReturnsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := visit.NewService(visit.NewLedger(f.db), defaultConfig())

	a := f.user(t, "a")
	owner := f.user(t, "owner")

	var visitIDs []uuid.UUID
	for i := 0; i < 3; i++ {
		result, err := svc.CompleteVisit(ctx, visit.CompleteRequest{VisitorID: a, SiteID: f.site(t, owner).ID, IP: "10.0.0.1"})
		require.NoError(t, err)
		visitIDs = append(visitIDs, result.Visit.ID)
		time.Sleep(5 * time.Millisecond)
	}

	entries, page, err := credit.NewService(f.ledger, 50).History(ctx, a, 2, 0)
	require.NoError(t, err)
	require.Equal(t, 2, page.Limit)
	require.Len(t, entries, 2)
	require.Equal(t, visitIDs[2], entries[0].Ref.ID())
	require.Equal(t, visitIDs[1], entries[1].Ref.ID())
}
