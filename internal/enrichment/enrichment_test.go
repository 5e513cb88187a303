package enrichment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/signalis/connector/internal/record"
)

func TestClassifyInputs(t *testing.T) {
	cases := []struct {
		name string
		rec  *record.Record
		want Action
	}{
		{"email present", &record.Record{Email: "a@b.com"}, ActionVerify},
		{"domain and full name", &record.Record{Domain: "acme.com", FullName: "John Doe"}, ActionFindPerson},
		{"domain and split name", &record.Record{Domain: "acme.com", FirstName: "John", LastName: "Doe"}, ActionFindPerson},
		{"single name with title", &record.Record{Domain: "acme.com", FullName: "Cher", Title: "CEO"}, ActionFindPerson},
		{"domain only", &record.Record{Domain: "acme.com"}, ActionFindCompanyContact},
		{"company and name", &record.Record{Company: "Acme", FullName: "John Doe"}, ActionSearchPerson},
		{"company only", &record.Record{Company: "Acme"}, ActionSearchCompany},
		{"single bare name", &record.Record{FullName: "Cher"}, ActionCannotRoute},
		{"nothing", &record.Record{}, ActionCannotRoute},
	}

	for _, tc := range cases {
		if got := ClassifyInputs(tc.rec); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func newTestService(t *testing.T, apollo, anymail http.Handler) *Service {
	t.Helper()

	svc := New(Config{
		ApolloAPIKey:  "apollo-key",
		AnymailAPIKey: "anymail-key",
		CachePath:     filepath.Join(t.TempDir(), "cache.json"),
	}, zap.NewNop())

	if apollo != nil {
		server := httptest.NewServer(apollo)
		t.Cleanup(server.Close)
		svc.providers[providerApollo].(*apolloProvider).baseURL = server.URL
	} else {
		delete(svc.providers, providerApollo)
	}

	if anymail != nil {
		server := httptest.NewServer(anymail)
		t.Cleanup(server.Close)
		svc.providers[providerAnymail].(*anymailProvider).baseURL = server.URL
	} else {
		delete(svc.providers, providerAnymail)
	}

	return svc
}

func TestEnrichExistingEmailPassesThrough(t *testing.T) {
	svc := newTestService(t, nil, nil)

	rec := &record.Record{Email: "jane@acme.com", FirstName: "Jane"}
	result := svc.Enrich(context.Background(), rec)

	if result.Action != ActionVerify || result.Outcome != OutcomeEnriched {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Source != "existing" || !result.Verified {
		t.Fatalf("expected verified existing email, got %+v", result)
	}
}

func TestEnrichWaterfallFallsThroughToApollo(t *testing.T) {
	anymail := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"email": "", "confidence": 0}`))
	})
	apollo := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"people": [
			{"email": "", "title": "Founder"},
			{"email": "ops@acme.com", "first_name": "Pat", "last_name": "Lee", "title": "Operations Manager"},
			{"email": "ceo@acme.com", "first_name": "Sam", "last_name": "Chen", "title": "CEO"}
		]}`))
	})

	svc := newTestService(t, apollo, anymail)

	rec := &record.Record{Domain: "acme.com", FullName: "John Doe"}
	result := svc.Enrich(context.Background(), rec)

	if result.Outcome != OutcomeEnriched {
		t.Fatalf("expected enriched, got %+v", result)
	}
	if result.Source != providerApollo {
		t.Fatalf("expected apollo after anymail miss, got %s", result.Source)
	}
	// Seniority ranking must skip the founder without an email and prefer
	// the CEO over the manager.
	if result.Email != "ceo@acme.com" {
		t.Fatalf("expected most senior candidate with email, got %s", result.Email)
	}
	if rec.Email != "ceo@acme.com" || rec.FirstName != "Sam" {
		t.Fatalf("result must be applied to the record: %+v", rec)
	}
}

func TestEnrichAnymailSuccess(t *testing.T) {
	anymail := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("email_domain") != "acme.com" {
			t.Errorf("missing email_domain query param")
		}
		if r.URL.Query().Get("first_name") != "John" {
			t.Errorf("missing first_name query param")
		}
		w.Write([]byte(`{"email": "john@acme.com", "confidence": 92}`))
	})

	svc := newTestService(t, nil, anymail)

	rec := &record.Record{Domain: "acme.com", FullName: "John Doe"}
	result := svc.Enrich(context.Background(), rec)

	if result.Outcome != OutcomeEnriched || result.Source != providerAnymail {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Email != "john@acme.com" {
		t.Fatalf("unexpected email: %s", result.Email)
	}
}

func TestEnrichStopsWaterfallOnAuthError(t *testing.T) {
	anymail := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	apolloCalled := false
	apollo := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apolloCalled = true
		w.Write([]byte(`{"people": []}`))
	})

	svc := newTestService(t, apollo, anymail)

	rec := &record.Record{Domain: "acme.com", FullName: "John Doe"}
	result := svc.Enrich(context.Background(), rec)

	if result.Outcome != OutcomeAuthError {
		t.Fatalf("expected auth error to stop the waterfall, got %+v", result)
	}
	if apolloCalled {
		t.Fatalf("apollo must not be called after an auth error")
	}
}

func TestEnrichUsesCacheOnSecondCall(t *testing.T) {
	calls := 0
	anymail := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Write([]byte(`{"email": "john@acme.com", "confidence": 90}`))
	})

	svc := newTestService(t, nil, anymail)

	first := svc.Enrich(context.Background(), &record.Record{Domain: "acme.com", FullName: "John Doe"})
	if first.Outcome != OutcomeEnriched || first.Cached {
		t.Fatalf("unexpected first result: %+v", first)
	}

	second := svc.Enrich(context.Background(), &record.Record{Domain: "acme.com", FullName: "John Doe"})
	if !second.Cached {
		t.Fatalf("expected cache hit on second call: %+v", second)
	}
	if calls != 1 {
		t.Fatalf("expected a single provider call, got %d", calls)
	}
}

func TestEnrichRateLimitedFallsThrough(t *testing.T) {
	anymail := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	apollo := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"people": [{"email": "sam@acme.com", "title": "CTO"}]}`))
	})

	svc := newTestService(t, apollo, anymail)

	result := svc.Enrich(context.Background(), &record.Record{Domain: "acme.com", FullName: "John Doe"})
	if result.Outcome != OutcomeEnriched || result.Source != providerApollo {
		t.Fatalf("rate limit should cascade to the next provider: %+v", result)
	}
}

func TestBatch(t *testing.T) {
	anymail := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email": "` + r.URL.Query().Get("first_name") + `@acme.com", "confidence": 90}`))
	})

	svc := newTestService(t, nil, anymail)

	records := []*record.Record{
		{RecordKey: "r1", Domain: "acme.com", FullName: "Alice Able"},
		{RecordKey: "r2", Domain: "beta.com", FullName: "Bob Baker"},
		{RecordKey: "r3", Email: "carol@gamma.com"},
	}

	var progress []int
	results, err := svc.Batch(context.Background(), records, func(done, total int) {
		if total != 3 {
			t.Errorf("expected total 3, got %d", total)
		}
		progress = append(progress, done)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results["r3"].Source != "existing" {
		t.Fatalf("expected pass-through for record with email: %+v", results["r3"])
	}
	if results["r1"].Outcome != OutcomeEnriched || results["r2"].Outcome != OutcomeEnriched {
		t.Fatalf("expected enriched outcomes: %+v / %+v", results["r1"], results["r2"])
	}
	if len(progress) != 3 || progress[len(progress)-1] != 3 {
		t.Fatalf("unexpected progress sequence: %v", progress)
	}
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "cache.json"))
	rec := &record.Record{Domain: "acme.com", FullName: "John Doe"}

	cache.Store(rec, Result{Outcome: OutcomeEnriched, Email: "john@acme.com", Source: providerAnymail})

	if _, ok := cache.Lookup(rec); !ok {
		t.Fatalf("expected fresh entry to be found")
	}

	// Age the entry past the TTL.
	cache.entries[cacheKey(rec)] = cacheEntry{
		Email:    "john@acme.com",
		Source:   providerAnymail,
		StoredAt: time.Now().Add(-cacheTTL - time.Hour),
	}

	if _, ok := cache.Lookup(rec); ok {
		t.Fatalf("expected stale entry to be skipped")
	}

	stats := cache.Stats()
	if stats.Total != 1 || stats.Stale != 1 || stats.Fresh != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if err := cache.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats := cache.Stats(); stats.Total != 0 {
		t.Fatalf("expected empty cache after clear, got %+v", stats)
	}
}

func TestCachePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	rec := &record.Record{Domain: "acme.com", FullName: "John Doe"}

	first := NewCache(path)
	first.Store(rec, Result{Outcome: OutcomeEnriched, Email: "john@acme.com", Source: providerApollo, Verified: true})

	second := NewCache(path)
	result, ok := second.Lookup(rec)
	if !ok {
		t.Fatalf("expected entry to survive reload")
	}
	if result.Email != "john@acme.com" || result.Source != providerApollo {
		t.Fatalf("unexpected reloaded result: %+v", result)
	}
}
