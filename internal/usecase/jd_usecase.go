package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"thinqor-ats/internal/domain"
	"thinqor-ats/pkg/apperror"
)

const jdSystemPrompt = `You are an ATS assistant. Extract structured information from the job description ` +
	`and return ONLY valid JSON (no markdown, no code blocks) with these exact fields: ` +
	`title, location, skills_required, experience_required, ctc_range, ectc_range, description. ` +
	`Return the JSON object directly, for example: ` +
	`{"title": "Software Engineer", "location": "Remote", "skills_required": "Python, React", ` +
	`"experience_required": "3-5 years", "ctc_range": "10-15 LPA", "ectc_range": "12-18 LPA", ` +
	`"description": "Job description here"}`

type jdUsecase struct {
	llm domain.Completer
}

// NewJDUsecase accepts a nil completer; drafting then reports the assistant as unavailable.
func NewJDUsecase(llm domain.Completer) domain.JDUsecase {
	return &jdUsecase{llm: llm}
}

func (u *jdUsecase) DraftRequirement(ctx context.Context, jdText string) (*domain.DraftResult, error) {
	jdText = strings.TrimSpace(jdText)
	if jdText == "" {
		return nil, apperror.BadRequest("jd_text is required")
	}
	if u.llm == nil {
		return nil, apperror.Unavailable("AI assistant is not configured", nil)
	}

	output, err := u.llm.Complete(ctx, jdSystemPrompt, jdText)
	if err != nil {
		return nil, apperror.New(http.StatusBadGateway, "AI assistant request failed", err)
	}

	parsed, ok := extractJSONObject(output)
	if !ok {
		return &domain.DraftResult{
			SuggestedRequirement: map[string]any{},
			RawOutput:            output,
			Error:                "Could not parse JSON from AI response",
		}, nil
	}
	return &domain.DraftResult{SuggestedRequirement: parsed}, nil
}

// extractJSONObject pulls the outermost {...} out of a model reply, tolerating code fences
// and prose around it.
func extractJSONObject(output string) (map[string]any, bool) {
	cleaned := strings.TrimSpace(output)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.ReplaceAll(cleaned, "```", "")
		cleaned = strings.TrimSpace(cleaned)
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		cleaned = cleaned[start : end+1]
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil || parsed == nil {
		return nil, false
	}
	return parsed, true
}
