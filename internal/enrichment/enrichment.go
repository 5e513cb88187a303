package enrichment

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/signalis/connector/internal/record"
)

// Action classifies what an enrichment pass should do for a record.
type Action string

const (
	ActionVerify             Action = "VERIFY"
	ActionFindPerson         Action = "FIND_PERSON"
	ActionFindCompanyContact Action = "FIND_COMPANY_CONTACT"
	ActionSearchPerson       Action = "SEARCH_PERSON"
	ActionSearchCompany      Action = "SEARCH_COMPANY"
	ActionCannotRoute        Action = "CANNOT_ROUTE"
)

// Outcome reports how an enrichment attempt ended.
type Outcome string

const (
	OutcomeEnriched         Outcome = "ENRICHED"
	OutcomeNotFound         Outcome = "NOT_FOUND"
	OutcomeNoCandidates     Outcome = "NO_CANDIDATES"
	OutcomeMissingInput     Outcome = "MISSING_INPUT"
	OutcomeAuthError        Outcome = "AUTH_ERROR"
	OutcomeCreditsExhausted Outcome = "CREDITS_EXHAUSTED"
	OutcomeRateLimited      Outcome = "RATE_LIMITED"
	OutcomeTimeout          Outcome = "TIMEOUT"
)

// Result describes the contact data found for a record.
type Result struct {
	Action    Action
	Outcome   Outcome
	Email     string
	FirstName string
	LastName  string
	Title     string
	Verified  bool
	Source    string
	Cached    bool
}

// Provider finds contact data for a record. A nil result means the provider
// could not participate and the waterfall should move on.
type Provider interface {
	Name() string
	Enrich(ctx context.Context, rec *record.Record) (*Result, error)
}

// Config carries provider credentials and tuning for the enrichment service.
type Config struct {
	ApolloAPIKey  string
	AnymailAPIKey string
	Timeout       time.Duration
	CachePath     string
}

const (
	defaultTimeout  = 30 * time.Second
	batchConcurrent = 3
)

// Service routes records through classification, the cache, and the provider
// waterfall.
type Service struct {
	providers map[string]Provider
	cache     *Cache
	logger    *zap.Logger
}

// New builds a Service from the configured provider credentials. Providers
// without an API key are left out of the waterfall.
func New(cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	providers := make(map[string]Provider)
	if strings.TrimSpace(cfg.ApolloAPIKey) != "" {
		providers[providerApollo] = newApolloProvider(cfg.ApolloAPIKey, timeout)
	}
	if strings.TrimSpace(cfg.AnymailAPIKey) != "" {
		providers[providerAnymail] = newAnymailProvider(cfg.AnymailAPIKey, timeout)
	}

	return &Service{
		providers: providers,
		cache:     NewCache(cfg.CachePath),
		logger:    log,
	}
}

// ClassifyInputs determines the enrichment action from the record's available
// fields.
func ClassifyInputs(rec *record.Record) Action {
	hasEmail := strings.TrimSpace(rec.Email) != ""
	hasDomain := strings.TrimSpace(rec.Domain) != ""
	hasCompany := strings.TrimSpace(rec.Company) != ""

	nameParts := strings.Fields(rec.FullName)
	hasFullName := len(nameParts) >= 2 || (rec.FirstName != "" && rec.LastName != "")

	// A single name is still routable when a title gives supporting context.
	hasNameWithContext := len(nameParts) == 1 && strings.TrimSpace(rec.Title) != ""
	hasPersonName := hasFullName || hasNameWithContext

	switch {
	case hasEmail:
		return ActionVerify
	case hasDomain && hasPersonName:
		return ActionFindPerson
	case hasDomain:
		return ActionFindCompanyContact
	case hasCompany && hasPersonName:
		return ActionSearchPerson
	case hasCompany:
		return ActionSearchCompany
	default:
		return ActionCannotRoute
	}
}

// waterfall returns the provider order for a find action.
func waterfall(action Action) []string {
	switch action {
	case ActionFindPerson, ActionSearchPerson:
		return []string{providerAnymail, providerApollo}
	default: // FIND_COMPANY_CONTACT, SEARCH_COMPANY
		return []string{providerApollo, providerAnymail}
	}
}

// Enrich processes a single record: records with an email pass through as
// verified, find actions consult the cache and then the provider waterfall.
// Successful results are written back onto the record and cached.
func (s *Service) Enrich(ctx context.Context, rec *record.Record) Result {
	action := ClassifyInputs(rec)

	if action == ActionVerify {
		return Result{
			Action:    action,
			Outcome:   OutcomeEnriched,
			Email:     rec.Email,
			FirstName: rec.FirstName,
			LastName:  rec.LastName,
			Title:     rec.Title,
			Verified:  true,
			Source:    "existing",
		}
	}

	if action == ActionCannotRoute {
		return Result{Action: action, Outcome: OutcomeMissingInput, Source: "none"}
	}

	if cached, ok := s.cache.Lookup(rec); ok {
		applyResult(rec, &cached)
		cached.Action = action
		cached.Cached = true
		return cached
	}

	for _, name := range waterfall(action) {
		provider, ok := s.providers[name]
		if !ok {
			continue
		}

		result, err := provider.Enrich(ctx, rec)
		if err != nil {
			s.logger.Debug("enrichment provider failed",
				zap.String("provider", name),
				zap.Error(err),
			)
			continue
		}
		if result == nil {
			continue
		}

		result.Action = action

		if result.Outcome == OutcomeEnriched {
			applyResult(rec, result)
			s.cache.Store(rec, *result)
			return *result
		}

		// Auth and credit errors will hit every remaining record the same
		// way, so stop cascading.
		if result.Outcome == OutcomeAuthError || result.Outcome == OutcomeCreditsExhausted {
			return *result
		}
	}

	return Result{Action: action, Outcome: OutcomeNotFound, Source: "none"}
}

// Batch enriches records concurrently, keyed by record key. The progress
// callback receives (done, total) after each record completes.
func (s *Service) Batch(ctx context.Context, records []*record.Record, onProgress func(done, total int)) (map[string]Result, error) {
	results := make(map[string]Result, len(records))
	total := len(records)

	var mu sync.Mutex
	done := 0

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(batchConcurrent)

	for _, rec := range records {
		group.Go(func() error {
			result := s.Enrich(groupCtx, rec)

			mu.Lock()
			results[rec.RecordKey] = result
			done++
			if onProgress != nil {
				onProgress(done, total)
			}
			mu.Unlock()

			return groupCtx.Err()
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}

	return results, nil
}

// CacheStats exposes the underlying cache statistics.
func (s *Service) CacheStats() CacheStats {
	return s.cache.Stats()
}

// ClearCache removes all cached enrichment entries.
func (s *Service) ClearCache() error {
	return s.cache.Clear()
}

func applyResult(rec *record.Record, result *Result) {
	rec.Email = result.Email
	if result.FirstName != "" {
		rec.FirstName = result.FirstName
	}
	if result.LastName != "" {
		rec.LastName = result.LastName
	}
	if result.Title != "" {
		rec.Title = result.Title
	}
}
