package dashboard

import (
	"strings"
	"testing"
)

const sampleManifest = `
version: "1"
name: recruiting-extensions
cards:
  - definition:
      code: insights.card.custom_pipeline
      name: Custom Pipeline
      category: applications
    provider:
      name: pipeline-provider
      package: example.com/pipeline
    tags: [pipeline]
`

func TestDecodeManifestRegistersCards(t *testing.T) {
	doc, err := DecodeManifest(strings.NewReader(sampleManifest))
	if err != nil {
		t.Fatalf("DecodeManifest returned error: %v", err)
	}
	reg := NewRegistry()
	if err := reg.LoadManifestDocument(doc); err != nil {
		t.Fatalf("LoadManifestDocument returned error: %v", err)
	}
	def, ok := reg.Definition("insights.card.custom_pipeline")
	if !ok || def.Name != "Custom Pipeline" {
		t.Fatalf("expected manifest card registered, got %#v ok=%v", def, ok)
	}
	meta, ok := reg.ProviderMetadata("insights.card.custom_pipeline")
	if !ok || meta.Name != "pipeline-provider" {
		t.Fatalf("expected provider metadata recorded, got %#v ok=%v", meta, ok)
	}
}

func TestDecodeManifestRejectsDuplicates(t *testing.T) {
	manifest := `
version: "1"
cards:
  - definition: {code: insights.card.a, name: A}
  - definition: {code: insights.card.a, name: A again}
`
	if _, err := DecodeManifest(strings.NewReader(manifest)); err == nil {
		t.Fatal("expected duplicate code error")
	}
}

func TestDecodeManifestRejectsMissingName(t *testing.T) {
	manifest := `
version: "1"
cards:
  - definition: {code: insights.card.a}
`
	if _, err := DecodeManifest(strings.NewReader(manifest)); err == nil {
		t.Fatal("expected missing name error")
	}
}

func TestDecodeManifestRejectsUnknownVersion(t *testing.T) {
	manifest := `
version: "9"
cards: []
`
	if _, err := DecodeManifest(strings.NewReader(manifest)); err == nil {
		t.Fatal("expected version error")
	}
}

func TestDecodeManifestDefaultsVersion(t *testing.T) {
	manifest := `
cards:
  - definition: {code: insights.card.a, name: A}
`
	doc, err := DecodeManifest(strings.NewReader(manifest))
	if err != nil {
		t.Fatalf("DecodeManifest returned error: %v", err)
	}
	if doc.Version != ManifestVersion {
		t.Fatalf("expected default version, got %q", doc.Version)
	}
}
