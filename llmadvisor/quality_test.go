package llmadvisor

import "testing"

func TestParseQualityAssessment_Insufficient(t *testing.T) {
	resp := "STATUS: insufficient\nREASON: too few items\nIMPROVEMENT: extract more measurements\n"
	qa := ParseQualityAssessment(resp)
	if qa.Status != QualityInsufficient {
		t.Fatalf("expected insufficient, got %s", qa.Status)
	}
	if qa.Improvement != "extract more measurements" {
		t.Fatalf("unexpected improvement: %q", qa.Improvement)
	}
}

func TestParseQualityAssessment_RetryRecommended(t *testing.T) {
	resp := "STATUS: retry_recommended\nREASON: patterns too generic\n"
	qa := ParseQualityAssessment(resp)
	if qa.Status != QualityRetryRecommended {
		t.Fatalf("expected retry_recommended, got %s", qa.Status)
	}
}

func TestParseQualityAssessment_MissingStatusDefaultsAcceptable(t *testing.T) {
	resp := "Looks fine to me."
	qa := ParseQualityAssessment(resp)
	if qa.Status != QualityAcceptable {
		t.Fatalf("expected acceptable default, got %s", qa.Status)
	}
}

func TestParseQualityAssessment_FreeformInsufficientKeyword(t *testing.T) {
	resp := "This result is insufficient for the query."
	qa := ParseQualityAssessment(resp)
	if qa.Status != QualityInsufficient {
		t.Fatalf("expected insufficient from keyword scan, got %s", qa.Status)
	}
}
