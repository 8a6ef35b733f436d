package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	"github.com/kovon-io/go-insights/components/dashboard"
	"github.com/kovon-io/go-insights/pkg/localstore"
)

type cli struct {
	Scaffold scaffoldCmd `cmd:"" help:"Scaffold a card definition, provider stub, and manifest entry."`
	Validate validateCmd `cmd:"" help:"Validate a card manifest file."`
	Prefs    prefsCmd    `cmd:"" help:"Inspect or edit locally stored dashboard preferences."`
}

type scaffoldCmd struct {
	Code            string   `required:"" help:"Fully-qualified card code (e.g. insights.card.active_users)."`
	Name            string   `required:"" help:"Display name for the card."`
	Description     string   `required:"" help:"One-line description used in manifests."`
	Category        string   `default:"custom" help:"Card category (stats, breakdowns, lists, trends, ...)."`
	ManifestPath    string   `required:"" type:"path" help:"Path to the card manifest YAML file to update."`
	SchemaPath      string   `type:"path" help:"Optional path to a JSON schema file for the card configuration."`
	Tag             []string `help:"Optional tags to include in the manifest (use multiple --tag flags)."`
	Maintainer      []string `help:"Maintainers to record in the manifest."`
	Capabilities    []string `help:"Provider capability labels (count,breakdown,chart,...)."`
	DocsURL         string   `help:"Link to provider documentation."`
	Channel         string   `help:"Distribution channel label (community, partner, internal)."`
	ProviderPackage string   `default:"github.com/kovon-io/go-insights/components/dashboard" help:"Go package where the provider factory lives."`
	ProviderEntry   string   `help:"Factory identifier recorded in the manifest (defaults to New<Card>Provider)."`
	ProviderOut     string   `help:"File path for the generated provider stub (defaults to components/dashboard/providers/<code>_provider.go)."`
	Overwrite       bool     `help:"Overwrite existing provider stub / manifest entry if present."`
	SkipProvider    bool     `name:"skip-provider" help:"Skip provider stub generation."`
}

type validateCmd struct {
	ManifestPath string `arg:"" type:"path" help:"Path to the card manifest YAML file."`
}

type prefsCmd struct {
	Show   prefsShowCmd   `cmd:"" help:"Print a user's locally stored card selection."`
	Toggle prefsToggleCmd `cmd:"" help:"Toggle a card in a user's locally stored selection."`
}

type prefsShowCmd struct {
	DBPath string `required:"" name:"db" type:"path" help:"Path to the local SQLite store."`
	UserID string `required:"" name:"user" help:"User id the preferences belong to."`
}

type prefsToggleCmd struct {
	DBPath string `required:"" name:"db" type:"path" help:"Path to the local SQLite store."`
	UserID string `required:"" name:"user" help:"User id the preferences belong to."`
	Code   string `arg:"" help:"Card code to toggle."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Card scaffolding utility for go-insights manifests."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (cmd *prefsShowCmd) Run(ctx context.Context) error {
	store, err := localstore.Open(cmd.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	prefs, ok, err := store.Preferences(ctx, dashboard.FallbackKey(cmd.UserID))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(os.Stdout, "no stored preferences for %s\n", cmd.UserID)
		return nil
	}
	for _, code := range prefs.SelectedCards {
		fmt.Fprintln(os.Stdout, code)
	}
	return nil
}

func (cmd *prefsToggleCmd) Run(ctx context.Context) error {
	store, err := localstore.Open(cmd.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	key := dashboard.FallbackKey(cmd.UserID)
	prefs, _, err := store.Preferences(ctx, key)
	if err != nil {
		return err
	}
	prefs = dashboard.ToggleCard(prefs, cmd.Code)
	if err := store.SavePreferences(ctx, key, prefs); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ %s now has %d cards selected\n", cmd.UserID, len(prefs.SelectedCards))
	return nil
}

func (cmd *validateCmd) Run(_ context.Context) error {
	doc, err := dashboard.ReadManifest(cmd.ManifestPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ %s is valid (%d cards)\n", cmd.ManifestPath, len(doc.Cards))
	return nil
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("insightsctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	if !cmd.Overwrite {
		for _, card := range doc.Cards {
			if card.Definition.Code == cmd.Code {
				return fmt.Errorf("insightsctl: manifest already defines card %s (use --overwrite to replace)", cmd.Code)
			}
		}
	}

	schema, err := cmd.loadSchema()
	if err != nil {
		return err
	}

	baseName := deriveBaseName(cmd.Code)
	providerType := baseName + "Provider"
	providerEntry := cmd.ProviderEntry
	if providerEntry == "" {
		providerEntry = fmt.Sprintf("%s.New%s", cmd.ProviderPackage, providerType)
	}

	entry := dashboard.ManifestCard{
		Definition: dashboard.CardDefinition{
			Code:        cmd.Code,
			Name:        cmd.Name,
			Description: cmd.Description,
			Category:    cmd.Category,
			Schema:      schema,
		},
		Provider: dashboard.ManifestProvider{
			Name:         fmt.Sprintf("%s Provider", cmd.Name),
			Summary:      cmd.Description,
			Entry:        providerEntry,
			Package:      cmd.ProviderPackage,
			DocsURL:      cmd.DocsURL,
			Capabilities: cmd.Capabilities,
			Channel:      cmd.Channel,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}

	if cmd.Overwrite {
		replaced := false
		for idx := range doc.Cards {
			if doc.Cards[idx].Definition.Code == cmd.Code {
				doc.Cards[idx] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			doc.Cards = append(doc.Cards, entry)
		}
	} else {
		doc.Cards = append(doc.Cards, entry)
	}

	sort.Slice(doc.Cards, func(i, j int) bool {
		return doc.Cards[i].Definition.Code < doc.Cards[j].Definition.Code
	})

	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}

	if cmd.SkipProvider {
		fmt.Fprintf(os.Stdout, "✓ Added %s to %s (provider entry recorded as %s)\n", cmd.Code, manifestPath, providerEntry)
		return nil
	}

	providerPath := cmd.ProviderOut
	if providerPath == "" {
		providerPath = filepath.Join("components", "dashboard", "providers", fmt.Sprintf("%s_provider.go", sanitizeFileName(cmd.Code)))
	}
	if err := writeProviderStub(providerPath, providerType, cmd.Code, cmd.Overwrite); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s and generated %s\n", cmd.Code, manifestPath, providerPath)
	return nil
}

func (cmd *scaffoldCmd) validate() error {
	if !strings.Contains(cmd.Code, ".") {
		return fmt.Errorf("insightsctl: card code %s must contain at least one '.' segment", cmd.Code)
	}
	return nil
}

func (cmd *scaffoldCmd) loadSchema() (map[string]any, error) {
	if cmd.SchemaPath == "" {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}, nil
	}
	data, err := os.ReadFile(cmd.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("insightsctl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("insightsctl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func loadOrInitManifest(path string) (*dashboard.CardManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			doc := &dashboard.CardManifestDocument{
				Version: dashboard.ManifestVersion,
				Cards:   []dashboard.ManifestCard{},
				Source:  path,
			}
			return doc, nil
		}
		return nil, fmt.Errorf("insightsctl: stat manifest: %w", err)
	}
	doc, err := dashboard.ReadManifest(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func writeManifest(path string, doc *dashboard.CardManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("insightsctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmpDoc := *doc
	tmpDoc.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("insightsctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(tmpDoc); err != nil {
		return fmt.Errorf("insightsctl: write manifest: %w", err)
	}
	return nil
}

func writeProviderStub(path, providerType, code string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("insightsctl: provider stub %s already exists (use --overwrite or --provider-out)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("insightsctl: mkdir provider dir: %w", err)
	}
	content := fmt.Sprintf(`package dashboard

import (
	"context"
)

// %s fetches data for %s cards.
type %s struct{}

// New%s wires the provider into the card registry.
func New%s() Provider {
	return &%s{}
}

// Fetch retrieves the card payload. Replace with your implementation.
func (p *%s) Fetch(ctx context.Context, meta CardContext) (CardData, error) {
	_ = meta
	return CardData{
		"message": "replace with real data",
	}, nil
}
`, providerType, code, providerType, providerType, providerType, providerType, providerType)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("insightsctl: write provider stub: %w", err)
	}
	return nil
}

func deriveBaseName(code string) string {
	parts := strings.Split(code, ".")
	slug := parts[len(parts)-1]
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = code
	}
	return strcase.ToCamel(slug)
}

func sanitizeFileName(code string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", "/", "_", " ", "_")
	return strings.ToLower(replacer.Replace(code))
}
