package llmadvisor

import "testing"

func TestParseGroupClassification_Current(t *testing.T) {
	resp := "CLASSIFICATION: current\nREASON: matches the latest run\n"
	if got := ParseGroupClassification(resp); got != ClassificationCurrent {
		t.Fatalf("expected current, got %s", got)
	}
}

func TestParseGroupClassification_Historical(t *testing.T) {
	resp := "CLASSIFICATION: historical\n"
	if got := ParseGroupClassification(resp); got != ClassificationHistorical {
		t.Fatalf("expected historical, got %s", got)
	}
}

func TestParseGroupClassification_MissingDefaultsOther(t *testing.T) {
	resp := "Not sure what this is."
	if got := ParseGroupClassification(resp); got != ClassificationOther {
		t.Fatalf("expected other default, got %s", got)
	}
}

func TestParseGroupClassification_FreeformKeyword(t *testing.T) {
	resp := "This group reflects historical benchmark data from last quarter."
	if got := ParseGroupClassification(resp); got != ClassificationHistorical {
		t.Fatalf("expected historical from keyword scan, got %s", got)
	}
}
