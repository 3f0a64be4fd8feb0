package visit_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/visitswap/visitswap-api/internal/domain/visit"
	"github.com/visitswap/visitswap-api/internal/middleware"
)

func newVisitRouter(svc *visit.Service, visitor uuid.UUID) http.Handler {
	withUser := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), visitor)))
		})
	}
	router := chi.NewRouter()
	router.Mount("/visits", visit.NewHandler(svc).Routes(withUser))
	return router
}

func TestCompleteHandlerRawBody(t *testing.T) {
	f := newFixture(t)
	svc := visit.NewService(visit.NewLedger(f.db), defaultConfig())
	a := f.user(t, "a")
	s := f.site(t, f.user(t, "b"))

	req := httptest.NewRequest(http.MethodPost, "/visits/complete",
		bytes.NewBufferString(`{"siteId":"`+s.ID.String()+`"}`))
	req.RemoteAddr = "198.51.100.4:4000"
	req.Header.Set("User-Agent", "handler-test")
	w := httptest.NewRecorder()
	newVisitRouter(svc, a).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true,"credits":1}`, w.Body.String())

	var ip, agent string
	require.NoError(t, f.db.QueryRow(`SELECT ip, user_agent FROM visit_logs`).Scan(&ip, &agent))
	require.Equal(t, "198.51.100.4", ip)
	require.Equal(t, "handler-test", agent)
}

func TestCompleteHandlerErrors(t *testing.T) {
	f := newFixture(t)
	a := f.user(t, "a")
	s := f.site(t, f.user(t, "b"))

	ok := visit.NewService(visit.NewLedger(f.db), defaultConfig())
	broken := visit.NewService(&faultyLedger{Ledger: visit.NewLedger(f.db), failAt: "append_credit"}, defaultConfig())

	cases := []struct {
		name string
		svc  *visit.Service
		body string
		code int
	}{
		{"unknown site", ok, `{"siteId":"` + uuid.NewString() + `","ip":"10.0.0.1"}`, http.StatusNotFound},
		{"bad site id", ok, `{"siteId":"nope"}`, http.StatusUnprocessableEntity},
		{"bad ip", ok, `{"siteId":"` + s.ID.String() + `","ip":"not-an-ip"}`, http.StatusUnprocessableEntity},
		{"store failure", broken, `{"siteId":"` + s.ID.String() + `","ip":"10.0.0.1"}`, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/visits/complete", bytes.NewBufferString(tc.body))
			newVisitRouter(tc.svc, a).ServeHTTP(w, req)
			require.Equal(t, tc.code, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.Equal(t, false, body["success"])
		})
	}

	var errBody struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	w := httptest.NewRecorder()
	newVisitRouter(broken, a).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/visits/complete",
		bytes.NewBufferString(`{"siteId":"`+s.ID.String()+`","ip":"10.0.0.1"}`)))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
	require.Equal(t, "Could not record visit", errBody.Error.Message)
	require.Zero(t, f.count(t, "visit_logs"))
}
