package cmd

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"

	"github.com/signalis/connector/internal/enrichment"
	"github.com/signalis/connector/internal/export"
	"github.com/signalis/connector/internal/intro"
	"github.com/signalis/connector/internal/intro/gemini"
	"github.com/signalis/connector/internal/logger"
	"github.com/signalis/connector/internal/matching"
	"github.com/signalis/connector/internal/record"
	"github.com/signalis/connector/internal/secrets"
	"github.com/signalis/connector/internal/sender"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes    = "Yes"
	PromptNo     = "No"
	PromptReport = "Report match statistics"
	PromptDump   = "Dump matches to file"

	IntroScopeAll  = "all"
	IntroScopeBest = "best"
	IntroScopeNone = "none"

	defaultOutputDir = "./output"

	// Sender error details are capped so a large failed run does not flood
	// the summary.
	maxErrorDetails = 3
)

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo, PromptReport, PromptDump},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full flow: match, enrich, generate intros, send, export",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("demand", "", "path to the demand CSV file")
	runCmd.Flags().String("supply", "", "path to the supply CSV file")
	runCmd.Flags().StringP("output-dir", "o", "", "output directory (default ./output)")
	runCmd.Flags().Int("min-score", 30, "minimum match score (0-100)")
	runCmd.Flags().Bool("best-match-only", false, "keep only the best match per demand record")
	runCmd.Flags().Bool("enrich", true, "enrich contacts with missing emails")
	runCmd.Flags().String("generate-intros-for", IntroScopeBest, "which matches get AI intros: all, best, or none")
	runCmd.Flags().Bool("send-emails", false, "upload leads to the campaign platform")
	runCmd.Flags().String("format", "", "output format: csv, json, or both (default csv)")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation after matching")

	runCmd.MarkFlagRequired("demand")
	runCmd.MarkFlagRequired("supply")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the connector", zap.String("version", version))

	demandPath, _ := cmd.Flags().GetString("demand")
	supplyPath, _ := cmd.Flags().GetString("supply")

	runID := uuid.NewString()[:8]
	logger.Debug("assigned run id", zap.String("run_id", runID))

	demand, err := record.LoadCSV(demandPath, record.SideDemand, runID)
	if err != nil {
		logger.Fatal("loading demand csv", zap.Error(err))
	}
	supply, err := record.LoadCSV(supplyPath, record.SideSupply, runID)
	if err != nil {
		logger.Fatal("loading supply csv", zap.Error(err))
	}

	logger.Info("loaded records",
		zap.Int("demand", len(demand)),
		zap.Int("supply", len(supply)),
	)

	minScore, _ := cmd.Flags().GetInt("min-score")
	bestMatchOnly, _ := cmd.Flags().GetBool("best-match-only")

	result := matching.Run(demand, supply, matching.Options{
		MinScore:      minScore,
		BestMatchOnly: bestMatchOnly,
		OnProgress: func(done, total int) {
			if done == total || done%50 == 0 {
				logger.Debug("scoring demand records", zap.Int("done", done), zap.Int("total", total))
			}
		},
	})

	logger.Info("matching finished",
		zap.Int("matches", len(result.DemandMatches)),
		zap.Int("unique_demands", result.Stats.UniqueDemandsMatched),
		zap.Int("avg_score", result.Stats.AvgScore),
	)

	if len(result.DemandMatches) == 0 {
		logger.Info("exiting",
			zap.String("reason", "no matches found"),
			zap.String("hint", "try lowering --min-score"),
		)
		return
	}

	if autoApprove, _ := cmd.Flags().GetBool("auto-approve"); !autoApprove {
		if !confirmRun(result, logger) {
			return
		}
	}

	if enrich, _ := cmd.Flags().GetBool("enrich"); enrich {
		runEnrichment(ctx, config, result, logger)
	}

	introScope, _ := cmd.Flags().GetString("generate-intros-for")
	if introScope != IntroScopeNone {
		runIntroGeneration(ctx, config, result, introScope, logger)
	} else {
		logger.Info("skipping intro generation", zap.String("reason", "--generate-intros-for none"))
	}

	if sendEmails, _ := cmd.Flags().GetBool("send-emails"); sendEmails {
		if introScope == IntroScopeNone {
			logger.Fatal("sending requires intro generation",
				zap.String("hint", "drop --generate-intros-for none or disable --send-emails"),
			)
		}
		runSending(ctx, config, result, logger)
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = config.Output.Dir
	}
	if outputDir == "" {
		outputDir = defaultOutputDir
	}

	formatName, _ := cmd.Flags().GetString("format")
	if formatName == "" {
		formatName = config.Output.Format
	}
	if formatName == "" {
		formatName = string(export.FormatCSV)
	}

	format, err := export.ParseFormat(formatName)
	if err != nil {
		logger.Fatal("resolving output format", zap.Error(err))
	}

	written, err := export.Write(result, outputDir, format)
	if err != nil {
		logger.Fatal("exporting results", zap.Error(err))
	}

	logger.Info("results saved", zap.Strings("files", written))
	logger.Info("run finished",
		zap.Int("total_matches", result.Stats.TotalMatches),
		zap.Int("unique_demands_matched", result.Stats.UniqueDemandsMatched),
		zap.Int("avg_score", result.Stats.AvgScore),
	)
}

// confirmRun asks whether to continue with the matched set. Report and dump
// actions stay in the loop so the list can be inspected first.
func confirmRun(result *matching.Result, logger *zap.Logger) bool {
	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		switch action {
		case PromptYes:
			return true
		case PromptNo:
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return false
		case PromptReport:
			pretty, _ := json.MarshalIndent(result.Stats, "", "  ")
			logger.Info(string(pretty), zap.Int("matches", len(result.DemandMatches)))
		case PromptDump:
			filename, err := dumpMatches(result.DemandMatches)
			if err != nil {
				logger.Warn("dumping matches to file", zap.Error(err))
				continue
			}
			logger.Info("dumped matches to file", zap.String("filename", filename))
		}
	}
}

func dumpMatches(matches []*matching.Match) (string, error) {
	pretty, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", app+"-matches-*.json")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Write(pretty); err != nil {
		return "", err
	}

	return f.Name(), nil
}

func runEnrichment(ctx context.Context, config *Config, result *matching.Result, logger *zap.Logger) {
	apolloKey := loadOptionalSecret("apollo api key", config.Enrichment.ApolloAPIKey, "APOLLO_API_KEY")
	anymailKey := loadOptionalSecret("anymail api key", config.Enrichment.AnymailAPIKey, "ANYMAIL_API_KEY")

	if apolloKey == "" && anymailKey == "" {
		logger.Warn("skipping enrichment",
			zap.String("reason", "no provider API keys configured"),
			zap.String("hint", "set APOLLO_API_KEY or ANYMAIL_API_KEY"),
		)
		return
	}

	seen := make(map[string]bool)
	var toEnrich []*record.Record
	for _, match := range result.DemandMatches {
		for _, rec := range []*record.Record{match.Demand, match.Supply} {
			if rec.Email != "" || seen[rec.RecordKey] {
				continue
			}
			seen[rec.RecordKey] = true
			toEnrich = append(toEnrich, rec)
		}
	}

	if len(toEnrich) == 0 {
		logger.Info("skipping enrichment", zap.String("reason", "all contacts already have emails"))
		return
	}

	service := enrichment.New(enrichment.Config{
		ApolloAPIKey:  apolloKey,
		AnymailAPIKey: anymailKey,
		CachePath:     config.Enrichment.CachePath,
	}, logger)

	results, err := service.Batch(ctx, toEnrich, func(done, total int) {
		logger.Debug("enriching contacts", zap.Int("done", done), zap.Int("total", total))
	})
	if err != nil {
		logger.Warn("enrichment interrupted", zap.Error(err))
	}

	var enriched, cached int
	for _, res := range results {
		if res.Outcome == enrichment.OutcomeEnriched {
			enriched++
		}
		if res.Cached {
			cached++
		}
	}

	logger.Info("enrichment finished",
		zap.Int("requested", len(toEnrich)),
		zap.Int("enriched", enriched),
		zap.Int("from_cache", cached),
		zap.Int("api_calls_saved", cached),
	)
}

func runIntroGeneration(ctx context.Context, config *Config, result *matching.Result, scope string, logger *zap.Logger) {
	provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
	if provider != "" && provider != "gemini" {
		logger.Warn("skipping intro generation",
			zap.String("reason", "unsupported ai provider"),
			zap.String("provider", config.AI.Provider),
		)
		return
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: config.AI.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		logger.Warn("skipping intro generation",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the ai.gemini.api-key config key"),
		)
		return
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model, config.AI.Gemini.MaxRetries, logger)
	if err != nil {
		logger.Warn("skipping intro generation", zap.Error(err))
		return
	}

	matches := result.DemandMatches
	if scope == IntroScopeBest {
		matches = matching.BestMatchPerDemand(matches)
	}

	logger.Info("generating intros", zap.String("scope", scope), zap.Int("matches", len(matches)))

	var generated, fallbacks, skipped int
	for _, match := range matches {
		// Both sides need a deliverable address before an intro is worth
		// the API calls.
		if match.Demand.Email == "" || match.Supply.Email == "" {
			skipped++
			continue
		}

		intros := intro.Generate(ctx, generator, intro.Request{
			Demand:     match.Demand,
			Supply:     match.Supply,
			Evidence:   match.TierReason,
			Confidence: float64(match.Score) / 100,
			Signals:    match.Reasons,
		})
		if intros.Source == intro.SourceFallback {
			fallbacks++
			logger.Debug("intro fell back to template", zap.String("reason", intros.Err))
		}

		storeIntro(match.Demand, intros.DemandIntro)
		storeIntro(match.Supply, intros.SupplyIntro)
		generated++
	}

	logger.Info("intro generation finished",
		zap.Int("generated", generated),
		zap.Int("fallback", fallbacks),
		zap.Int("skipped_missing_email", skipped),
	)
}

func storeIntro(rec *record.Record, text string) {
	if rec.Metadata == nil {
		rec.Metadata = make(map[string]string)
	}
	rec.Metadata["generated_intro"] = text
}

func runSending(ctx context.Context, config *Config, result *matching.Result, logger *zap.Logger) {
	providerID := sender.ID(strings.TrimSpace(strings.ToLower(config.Sending.Provider)))
	if providerID == "" {
		providerID = sender.Instantly
	}

	adapter, err := sender.Resolve(providerID)
	if err != nil {
		logger.Warn("skipping sending", zap.Error(err))
		return
	}

	senderCfg := buildSenderConfig(providerID, config.Sending)

	if err := adapter.ValidateConfig(senderCfg); err != nil {
		logger.Warn("skipping sending",
			zap.Error(err),
			zap.String("hint", "check your .env settings"),
		)
		return
	}

	queue, skippedNoCampaign, skippedNoIntro := buildSendQueue(result, senderCfg)

	logger.Info("send queue prepared", zap.Int("emails", len(queue)), zap.String("platform", adapter.Name()))
	if skippedNoCampaign > 0 {
		logger.Warn("skipped contacts without a campaign",
			zap.Int("count", skippedNoCampaign),
			zap.String("hint", "set DEMAND_CAMPAIGN_ID and SUPPLY_CAMPAIGN_ID"),
		)
	}
	if skippedNoIntro > 0 {
		logger.Warn("skipped contacts without a generated intro", zap.Int("count", skippedNoIntro))
	}

	if len(queue) == 0 {
		logger.Warn("no emails to send", zap.String("hint", "check campaign IDs and intro generation"))
		return
	}

	limiter := sender.LimiterFor(providerID)
	counts := make(map[sender.Status]int)
	var details []string

	for i, params := range queue {
		if err := limiter.Acquire(ctx); err != nil {
			logger.Warn("stopping sending", zap.Error(err))
			break
		}

		res := adapter.SendLead(ctx, senderCfg, params)
		limiter.Release()

		if res.RateLimited {
			limiter.Drain()
		}

		counts[res.Status]++
		if !res.Success && res.Detail != "" && len(details) < maxErrorDetails {
			details = append(details, res.Detail)
		}

		logger.Debug("lead processed",
			zap.Int("done", i+1),
			zap.Int("total", len(queue)),
			zap.String("status", string(res.Status)),
		)
	}

	logger.Info("sending finished",
		zap.Int("total", len(queue)),
		zap.Int("new", counts[sender.StatusNew]),
		zap.Int("existing", counts[sender.StatusExisting]),
		zap.Int("needs_attention", counts[sender.StatusNeedsAttention]),
		zap.Int("failed", counts[sender.StatusFailed]),
	)
	if len(details) > 0 {
		logger.Warn("some leads were not delivered", zap.Strings("details", details))
	}
}

// buildSendQueue pairs each deliverable contact with its campaign: the demand
// contact receives the intro to the supplier and vice versa.
func buildSendQueue(result *matching.Result, cfg sender.Config) ([]sender.LeadParams, int, int) {
	var queue []sender.LeadParams
	var skippedNoCampaign, skippedNoIntro int

	appendLead := func(rec *record.Record, sendType sender.SendType, campaignID string) {
		if rec.Email == "" {
			return
		}
		if campaignID == "" {
			skippedNoCampaign++
			return
		}
		introText := rec.Metadata["generated_intro"]
		if introText == "" {
			skippedNoIntro++
			return
		}

		queue = append(queue, sender.LeadParams{
			Type:          sendType,
			CampaignID:    campaignID,
			Email:         rec.Email,
			FirstName:     rec.FirstName,
			LastName:      rec.LastName,
			CompanyName:   rec.Company,
			CompanyDomain: rec.Domain,
			IntroText:     introText,
			ContactTitle:  rec.Title,
		})
	}

	for _, match := range result.DemandMatches {
		appendLead(match.Demand, sender.SendDemand, cfg.DemandCampaignID)
		appendLead(match.Supply, sender.SendSupply, cfg.SupplyCampaignID)
	}

	return queue, skippedNoCampaign, skippedNoIntro
}

func buildSenderConfig(id sender.ID, cfg *SendingConfig) sender.Config {
	out := sender.Config{
		DemandCampaignID: loadOptionalSecret("demand campaign id", cfg.DemandCampaignID, "DEMAND_CAMPAIGN_ID"),
		SupplyCampaignID: loadOptionalSecret("supply campaign id", cfg.SupplyCampaignID, "SUPPLY_CAMPAIGN_ID"),
	}

	switch id {
	case sender.Instantly:
		out.APIKey = loadOptionalSecret("instantly api key", cfg.InstantlyAPIKey, "INSTANTLY_API_KEY")
	case sender.Plusvibe:
		out.APIKey = loadOptionalSecret("plusvibe api key", cfg.PlusvibeAPIKey, "PLUSVIBE_API_KEY")
		out.WorkspaceID = loadOptionalSecret("plusvibe workspace id", cfg.PlusvibeWorkspaceID, "PLUSVIBE_WORKSPACE_ID")
	}

	return out
}

// loadOptionalSecret resolves a value that may legitimately be absent;
// adapter validation reports what is actually missing.
func loadOptionalSecret(name, value, env string) string {
	secret, err := secrets.Load(secrets.Source{Name: name, Value: value, Env: env})
	if err != nil {
		return ""
	}
	return secret
}
