package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"assessrec/internal/domain"
)

const sampleCSV = `assessment_name,assessment_url,test_type,description,category
Java Programming,https://example.com/java,K,Core Java knowledge test,Technical
Teamwork,https://example.com/teamwork,P,Working with others,
OCEAN Profile,https://example.com/ocean,X,Personality profile,Behavioral
  Padded Name  ,https://example.com/padded,K,  padded description ,General
Java Programming,https://example.com/java,K,duplicate row,Technical
`

func TestParseNormalization(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 5 {
		t.Fatalf("expected 5 parsed rows, got %d", len(records))
	}

	if records[1].Category != "General" {
		t.Errorf("empty category should default to General, got %q", records[1].Category)
	}
	if records[2].TestType != domain.TestTypeKnowledge {
		t.Errorf("unknown test type should normalize to K, got %q", records[2].TestType)
	}
	if records[3].Name != "Padded Name" {
		t.Errorf("name not trimmed: %q", records[3].Name)
	}
	if records[3].Description != "padded description" {
		t.Errorf("description not trimmed: %q", records[3].Description)
	}
}

func TestParseMissingRequiredColumn(t *testing.T) {
	if _, err := Parse(strings.NewReader("assessment_name,description\na,b\n")); err == nil {
		t.Error("expected error for missing assessment_url column")
	}
}

func TestParseHeaderCaseInsensitive(t *testing.T) {
	csv := "Assessment_Name,Assessment_URL,Test_Type\nFoo,https://example.com/foo,P\n"
	records, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].TestType != domain.TestTypePersonality {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestStoreDeduplicatesByURL(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}

	store := NewStore(records)

	if store.Count() != 4 {
		t.Errorf("expected 4 unique assessments, got %d", store.Count())
	}

	rec, ok := store.Get("https://example.com/java")
	if !ok {
		t.Fatal("expected java assessment in store")
	}
	if rec.Description != "Core Java knowledge test" {
		t.Errorf("duplicate should not replace first occurrence, got %q", rec.Description)
	}

	list := store.List()
	if len(list) != 4 {
		t.Fatalf("expected 4 listed assessments, got %d", len(list))
	}
	if list[0].URL != "https://example.com/java" {
		t.Errorf("catalog order not preserved: first is %s", list[0].URL)
	}
}

func TestLoadFilesGlob(t *testing.T) {
	tmpDir := t.TempDir()

	shard1 := "assessment_name,assessment_url,test_type\nA,https://example.com/a,K\n"
	shard2 := "assessment_name,assessment_url,test_type\nB,https://example.com/b,P\n"

	if err := os.WriteFile(filepath.Join(tmpDir, "catalog_1.csv"), []byte(shard1), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "catalog_2.csv"), []byte(shard2), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := LoadFiles([]string{filepath.Join(tmpDir, "*.csv")})
	if err != nil {
		t.Fatal(err)
	}

	if store.Count() != 2 {
		t.Errorf("expected 2 assessments across shards, got %d", store.Count())
	}
}

func TestLoadFilesNoMatch(t *testing.T) {
	tmpDir := t.TempDir()
	if _, err := LoadFiles([]string{filepath.Join(tmpDir, "*.csv")}); err == nil {
		t.Error("expected error when no catalog files match")
	}
}

func TestCombinedText(t *testing.T) {
	rec := domain.Assessment{
		Name:        "Java Programming",
		Category:    "Technical",
		Description: "Core Java knowledge test",
	}
	want := "Java Programming Technical Core Java knowledge test"
	if got := rec.CombinedText(); got != want {
		t.Errorf("CombinedText() = %q, want %q", got, want)
	}
}
