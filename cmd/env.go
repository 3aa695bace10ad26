package main

import (
	"context"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/frontdesk-ai/reception-cli/internal/calllog"
	"github.com/frontdesk-ai/reception-cli/internal/dedup"
	"github.com/frontdesk-ai/reception-cli/internal/intake"
	"github.com/frontdesk-ai/reception-cli/internal/notify"
	"github.com/frontdesk-ai/reception-cli/internal/provision"
	"github.com/frontdesk-ai/reception-cli/internal/sitetext"
	"github.com/frontdesk-ai/reception-cli/internal/webhook"
	"github.com/frontdesk-ai/reception-cli/pkg/jina"
	"github.com/frontdesk-ai/reception-cli/pkg/notion"
	"github.com/frontdesk-ai/reception-cli/pkg/retell"
	sfpkg "github.com/frontdesk-ai/reception-cli/pkg/salesforce"
	"github.com/frontdesk-ai/reception-cli/pkg/sendgrid"
	"github.com/frontdesk-ai/reception-cli/pkg/twilio"
)

// appEnv holds the initialized clients and engines shared by the serve,
// provision, batch, and calls commands.
type appEnv struct {
	Workflow  *provision.Workflow
	Fetcher   *sitetext.Chain
	Store     calllog.Store
	Seen      dedup.Store
	Processor *webhook.Processor
	CRM       sfpkg.Client // may be nil
	Defaults  intake.Defaults
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Seen != nil {
		_ = e.Seen.Close()
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv sets up the store, the dedup backend, all API clients, and the
// provisioning and webhook engines. Callers should defer env.Close().
func initEnv(ctx context.Context) (*appEnv, error) {
	if cfg.Retell.APIKey == "" {
		return nil, eris.New("retell API key is required (RECEPTION_RETELL_API_KEY)")
	}

	store, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, eris.Wrap(err, "migrate call log store")
	}

	seen := initSeen()

	retellClient := retell.NewClient(cfg.Retell.APIKey, retell.WithBaseURL(cfg.Retell.BaseURL))

	jinaClient := jina.NewClient(cfg.Jina.Key, jina.WithBaseURL(cfg.Jina.BaseURL))
	fetcher := sitetext.NewChain(cfg.Sitetext.MinLength, cfg.Sitetext.MaxLength,
		sitetext.NewLocalFetcher(time.Duration(cfg.Sitetext.FetchTimeoutSecs)*time.Second),
		sitetext.NewReaderFetcher(jinaClient, time.Duration(cfg.Sitetext.ReaderTimeoutSecs)*time.Second),
	)

	crm, err := initSalesforce()
	if err != nil {
		_ = seen.Close()
		_ = store.Close()
		return nil, err
	}

	sinks := buildSinks(store, crm)
	processor := webhook.NewProcessor(webhook.Config{
		Secret:        cfg.Webhook.Secret,
		Seen:          seen,
		Dispatcher:    notify.NewDispatcher(sinks...),
		MinDurationMS: int64(cfg.Webhook.MinDurationMS),
		MinSummaryLen: cfg.Webhook.MinSummaryLen,
	})

	return &appEnv{
		Workflow:  provision.New(retellClient),
		Fetcher:   fetcher,
		Store:     store,
		Seen:      seen,
		Processor: processor,
		CRM:       crm,
		Defaults: intake.Defaults{
			VoiceID:  cfg.Retell.DefaultVoiceID,
			AreaCode: cfg.Retell.DefaultAreaCode,
			Model:    cfg.Retell.Model,
		},
	}, nil
}

func initStore(ctx context.Context) (calllog.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return calllog.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		return calllog.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func initSeen() dedup.Store {
	window := time.Duration(cfg.Webhook.DedupWindowSecs) * time.Second
	if cfg.Redis.Addr == "" {
		return dedup.NewMemory(window)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	zap.L().Info("redis dedup enabled", zap.String("addr", cfg.Redis.Addr))
	return dedup.NewRedis(client, window)
}

func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		zap.L().Debug("RECEPTION_SALESFORCE_CLIENT_ID not set, CRM lead push disabled")
		return nil, nil
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf), nil
}

// buildSinks wires every notification channel with credentials on file.
// The call-log record sink is always present.
func buildSinks(store calllog.Store, crm sfpkg.Client) []notify.Sink {
	sinks := []notify.Sink{notify.NewRecordSink(store)}

	if cfg.Notion.Token != "" && cfg.Notion.CallLogDB != "" {
		sinks = append(sinks, notify.NewNotionSink(notion.NewClient(cfg.Notion.Token), cfg.Notion.CallLogDB))
	}
	if cfg.SendGrid.Key != "" {
		client := sendgrid.NewClient(cfg.SendGrid.Key, sendgrid.WithBaseURL(cfg.SendGrid.BaseURL))
		sinks = append(sinks, notify.NewEmailSink(client, cfg.SendGrid.FromEmail))
	}
	if cfg.Twilio.AccountSID != "" {
		client := twilio.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, twilio.WithBaseURL(cfg.Twilio.BaseURL))
		sinks = append(sinks, notify.NewSMSSink(client, cfg.Twilio.FromNumber))
	}
	if crm != nil {
		sinks = append(sinks, notify.NewCRMSink(crm))
	}

	return sinks
}
