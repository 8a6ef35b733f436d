package dashboard

import "testing"

func TestValidateAcceptsSchemalessCards(t *testing.T) {
	v := NewJSONSchemaValidator()
	def := CardDefinition{Code: "insights.card.free_form", Name: "Free Form"}
	if err := v.Validate(def, map[string]any{"anything": true}); err != nil {
		t.Fatalf("expected schemaless card to accept any config, got %v", err)
	}
}

func TestValidateEnforcesSchema(t *testing.T) {
	v := NewJSONSchemaValidator()
	def := CardDefinition{
		Code:   CardTopCountries,
		Name:   "Top Countries",
		Schema: limitSchema,
	}
	if err := v.Validate(def, map[string]any{"limit": 5}); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if err := v.Validate(def, map[string]any{"limit": "five"}); err == nil {
		t.Fatal("expected type violation")
	}
	if err := v.Validate(def, map[string]any{"limit": 500}); err == nil {
		t.Fatal("expected maximum violation")
	}
}

func TestValidateNilConfig(t *testing.T) {
	v := NewJSONSchemaValidator()
	def := CardDefinition{Code: CardTopJobRoles, Name: "Top Job Roles", Schema: limitSchema}
	if err := v.Validate(def, nil); err != nil {
		t.Fatalf("expected nil config to validate, got %v", err)
	}
}
