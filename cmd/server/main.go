package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"

	"github.com/kovon-io/go-insights/components/crm"
	"github.com/kovon-io/go-insights/components/dashboard"
	"github.com/kovon-io/go-insights/components/dashboard/commands"
	"github.com/kovon-io/go-insights/components/dashboard/httpapi"
	"github.com/kovon-io/go-insights/components/dashboard/queries"
	"github.com/kovon-io/go-insights/components/resume"
	"github.com/kovon-io/go-insights/pkg/authn"
	"github.com/kovon-io/go-insights/pkg/insights"
	"github.com/kovon-io/go-insights/pkg/localstore"
	"github.com/kovon-io/go-insights/pkg/messaging"
)

type cli struct {
	Listen       string        `default:":8080" help:"HTTP listen address."`
	APIBase      string        `required:"" name:"api-base" help:"Base URL of the insights metrics gateway."`
	APIKey       string        `env:"INSIGHTS_API_KEY" help:"Bearer token for the metrics gateway."`
	DBPath       string        `default:"insights.db" help:"Path to the local SQLite store."`
	ManifestPath string        `type:"path" help:"Optional card manifest to load on top of the built-in catalog."`
	PollInterval time.Duration `default:"60s" help:"Snapshot poll interval."`
	ChartHost    string        `help:"Optional assets host for rendered charts."`

	SMSEndpoint       string `help:"SMS gateway endpoint."`
	WhatsAppEndpoint  string `help:"WhatsApp gateway endpoint."`
	MessagingAuthKey  string `env:"MESSAGING_AUTH_KEY" help:"Auth key for SMS dispatches."`
	MessagingUser     string `env:"MESSAGING_USER" help:"Basic auth user for WhatsApp dispatches."`
	MessagingPassword string `env:"MESSAGING_PASSWORD" help:"Basic auth password for WhatsApp dispatches."`

	FilesBase string `name:"files-base" help:"Base URL of the file upload service (defaults to --api-base)."`
	LogLevel  string `default:"info" enum:"debug,info,warn,error" help:"Log verbosity."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Recruiting insights dashboard server."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (c *cli) Run(ctx context.Context) error {
	logger := newLogger(c.LogLevel)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := localstore.Open(c.DBPath)
	if err != nil {
		return fmt.Errorf("server: open local store: %w", err)
	}
	defer store.Close()

	client := insights.NewClient(c.APIBase,
		insights.WithAPIKey(c.APIKey),
		insights.WithLogger(logger),
	)
	repo := insights.NewRepository(client)

	telemetry := dashboard.NewSlogTelemetry(logger)

	prefs := dashboard.NewPreferenceService(repo, store,
		dashboard.WithPreferenceTelemetry(telemetry),
		dashboard.WithPreferenceLogger(logger),
	)

	repos := repo.DashboardRepositories()
	repos.Charts = dashboard.NewChartRenderer(dashboard.WithChartAssetsHost(c.ChartHost))
	dashboard.RegisterCardHook(dashboard.ChartCardHook(repos))

	registry := dashboard.NewRegistry()
	if err := dashboard.RegisterDefaultProviders(registry, repos); err != nil {
		return fmt.Errorf("server: register providers: %w", err)
	}
	if c.ManifestPath != "" {
		if _, err := registry.LoadManifestFile(c.ManifestPath); err != nil {
			return fmt.Errorf("server: load manifest: %w", err)
		}
	}

	service := dashboard.NewService(dashboard.Options{
		Registry:    registry,
		Preferences: prefs,
		Validator:   dashboard.NewJSONSchemaValidator(),
		Telemetry:   telemetry,
		Logger:      logger,
	})

	aggregator := dashboard.NewAggregator(repo)
	session := dashboard.NewSession(aggregator, logger)
	defer session.Close()

	poller := dashboard.NewPoller(c.PollInterval, session.Refresh)
	poller.Start(ctx)
	defer poller.Stop()

	resolver := authn.NewResolver(authn.NewHTTPSource(c.APIBase, c.APIKey))

	dispatcher := messaging.NewClient(messaging.Config{
		SMSEndpoint:      c.SMSEndpoint,
		WhatsAppEndpoint: c.WhatsAppEndpoint,
		AuthKey:          c.MessagingAuthKey,
		BasicUser:        c.MessagingUser,
		BasicPassword:    c.MessagingPassword,
	}, messaging.WithLogger(logger))
	composer := crm.NewComposer(dispatcher, logger)

	crmService := crm.NewService(&historyStore{store: store}, &referenceSource{client: client}, logger)

	filesBase := c.FilesBase
	if filesBase == "" {
		filesBase = c.APIBase
	}
	resumeService := resume.NewService(
		resume.NewHTTPPDFSource(c.APIBase),
		resume.NewHTTPUploader(filesBase),
		&resumeMetadata{store: store},
		logger,
	)

	handlers := &httpapi.Handlers{
		Snapshot:    queries.NewSnapshotQuery(session),
		Compose:     queries.NewComposeQuery(service),
		Preferences: queries.NewPreferencesQuery(prefs),
		History:     queries.NewHistoryQuery(crmService),
		Resume:      queries.NewResumeQuery(resumeService),

		SavePreferences: commands.NewSavePreferencesCommand(prefs, telemetry),
		ToggleCard:      commands.NewToggleCardCommand(service, telemetry),
		Refresh:         commands.NewRefreshSnapshotCommand(session, poller, telemetry),
		SendMessage:     commands.NewSendMessageCommand(composer, telemetry),
		RecordActivity:  commands.NewRecordActivityCommand(crmService, telemetry),
		GenerateResume:  commands.NewGenerateResumeCommand(resumeService, telemetry),
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httpapi.Register(app, handlers, func(fc *fiber.Ctx) dashboard.ViewerContext {
		viewer, err := resolver.Resolve(fc.Context())
		if err != nil {
			logger.Warn("viewer resolution failed", "error", err)
			return dashboard.ViewerContext{}
		}
		return viewer
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(c.Listen)
	}()
	logger.Info("server listening", "addr", c.Listen, "poll_interval", c.PollInterval.String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// historyStore adapts the local store to the crm timeline interface.
type historyStore struct {
	store *localstore.Store
}

func (h *historyStore) Append(ctx context.Context, activity crm.Activity) error {
	return h.store.AppendActivity(ctx, localstore.ActivityEntry{
		ID:           activity.ID,
		RecordID:     activity.RecordID,
		Disposition:  string(activity.Disposition),
		Notes:        activity.Notes,
		NextCallDate: activity.NextCallDate,
		CreatedAt:    activity.CreatedAt,
	})
}

func (h *historyStore) History(ctx context.Context, recordID string) ([]crm.Activity, error) {
	entries, err := h.store.ActivityHistory(ctx, recordID)
	if err != nil {
		return nil, err
	}
	out := make([]crm.Activity, 0, len(entries))
	for _, e := range entries {
		out = append(out, crm.Activity{
			ID:           e.ID,
			RecordID:     e.RecordID,
			Disposition:  crm.Disposition(e.Disposition),
			Notes:        e.Notes,
			NextCallDate: e.NextCallDate,
			CreatedAt:    e.CreatedAt,
		})
	}
	return out, nil
}

// referenceSource adapts the gateway client to the crm reference lists.
type referenceSource struct {
	client *insights.Client
}

func (r *referenceSource) Countries(ctx context.Context) ([]crm.ReferenceEntry, error) {
	return r.convert(r.client.Countries(ctx))
}

func (r *referenceSource) JobRoles(ctx context.Context) ([]crm.ReferenceEntry, error) {
	return r.convert(r.client.JobRoles(ctx))
}

func (r *referenceSource) convert(entries []insights.ReferenceEntry, err error) ([]crm.ReferenceEntry, error) {
	if err != nil {
		return nil, err
	}
	out := make([]crm.ReferenceEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, crm.ReferenceEntry{ID: e.ID, Name: e.Name})
	}
	return out, nil
}

// resumeMetadata adapts the local store to the resume metadata interface,
// translating the duplicate-key sentinel.
type resumeMetadata struct {
	store *localstore.Store
}

func (m *resumeMetadata) Insert(ctx context.Context, meta resume.Metadata) error {
	err := m.store.InsertResume(ctx, localstore.ResumeRecord{
		UserID:    meta.UserID,
		URL:       meta.URL,
		FileName:  meta.FileName,
		UpdatedAt: time.Now().UTC(),
	})
	if errors.Is(err, localstore.ErrDuplicate) {
		return fmt.Errorf("%w: user %s", resume.ErrDuplicate, meta.UserID)
	}
	return err
}

func (m *resumeMetadata) Update(ctx context.Context, meta resume.Metadata) error {
	return m.store.UpdateResume(ctx, localstore.ResumeRecord{
		UserID:    meta.UserID,
		URL:       meta.URL,
		FileName:  meta.FileName,
		UpdatedAt: time.Now().UTC(),
	})
}

func (m *resumeMetadata) Lookup(ctx context.Context, userID string) (resume.Metadata, bool, error) {
	rec, ok, err := m.store.Resume(ctx, userID)
	if err != nil || !ok {
		return resume.Metadata{}, ok, err
	}
	return resume.Metadata{UserID: rec.UserID, URL: rec.URL, FileName: rec.FileName}, true, nil
}
