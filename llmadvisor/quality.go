package llmadvisor

import "strings"

// QualityStatus is the verdict of a post-agent quality-assessment prompt
// (§4.1.7).
type QualityStatus string

const (
	QualityAcceptable       QualityStatus = "acceptable"
	QualityInsufficient     QualityStatus = "insufficient"
	QualityRetryRecommended QualityStatus = "retry_recommended"
)

// QualityAssessment is the parsed STATUS/REASON/IMPROVEMENT response.
type QualityAssessment struct {
	Status      QualityStatus
	Reason      string
	Improvement string
}

// ParseQualityAssessment reads the STATUS:/REASON:/IMPROVEMENT: fields
// from a quality-assessment response. Unknown STATUS values default to
// "acceptable" so a confused advisor cannot stall the loop. When STATUS
// is missing, the whole response is scanned for "insufficient", then
// "retry"; with no hit the status is "acceptable".
func ParseQualityAssessment(response string) QualityAssessment {
	fields := map[string]string{}
	for _, m := range fieldLineRE.FindAllStringSubmatch(response, -1) {
		key := strings.ToUpper(strings.TrimSpace(m[1]))
		fields[key] = strings.TrimSpace(m[2])
	}

	qa := QualityAssessment{
		Status:      QualityAcceptable,
		Reason:      fields["REASON"],
		Improvement: fields["IMPROVEMENT"],
	}

	switch strings.ToLower(strings.TrimSpace(fields["STATUS"])) {
	case "insufficient":
		qa.Status = QualityInsufficient
	case "retry_recommended", "retry recommended", "retry-recommended":
		qa.Status = QualityRetryRecommended
	case "acceptable", "":
		// fall through to keyword scan below when STATUS was absent
		if fields["STATUS"] == "" {
			lower := strings.ToLower(response)
			switch {
			case strings.Contains(lower, "insufficient"):
				qa.Status = QualityInsufficient
			case strings.Contains(lower, "retry"):
				qa.Status = QualityRetryRecommended
			}
		}
	}

	return qa
}
