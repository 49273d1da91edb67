// services/generator.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/lexiquest-app/lexi_api/model"
)

// GeneratedDaily is one word of the day plus its companion quiz as
// produced by a ContentGenerator.
type GeneratedDaily struct {
	Term       string               `json:"term"`
	Definition string               `json:"definition"`
	Example    string               `json:"example"`
	Questions  []model.QuizQuestion `json:"questions"`
}

// ContentGenerator produces vocabulary content for a department. The
// remote implementation is untrusted: callers must be prepared for
// errors and fall back to the deterministic generator. The two are
// never mixed within one response.
type ContentGenerator interface {
	GenerateDaily(ctx context.Context, department string, exclude []string) (*GeneratedDaily, error)
	GenerateQuiz(ctx context.Context, department, difficulty string, count int, exclude []string) ([]model.QuizQuestion, error)
}

type GeminiService struct {
	appContext.DefaultService

	client  *genai.Client
	model   string
	timeout time.Duration
}

const GEMINI_SVC = "gemini_svc"

func (svc GeminiService) Id() string {
	return GEMINI_SVC
}

func (svc *GeminiService) Configure(ctx *appContext.Context) error {
	svc.model = os.Getenv("GEMINI_MODEL")
	if svc.model == "" {
		svc.model = "gemini-2.0-flash"
	}
	svc.timeout = 30 * time.Second

	return svc.DefaultService.Configure(ctx)
}

func (svc *GeminiService) Start() error {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Warn("GEMINI_API_KEY not set, content generation will use the local fallback")
		return nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	svc.client = client
	return nil
}

func (svc *GeminiService) GenerateDaily(ctx context.Context, department string, exclude []string) (*GeneratedDaily, error) {
	prompt := fmt.Sprintf(`You are a corporate vocabulary tutor for the %q department.
Pick ONE department-specific term that is NOT in this list: [%s].
Respond with ONLY a JSON object of this exact shape:
{"term":"...","definition":"...","example":"...","questions":[{"question":"...","options":["a","b","c","d"],"answer":"...","fun_fact":"..."}]}
The questions array must contain exactly 5 multiple-choice questions about the term and related %s vocabulary. The answer must be one of the options verbatim.`,
		department, strings.Join(exclude, ", "), department)

	raw, err := svc.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var daily GeneratedDaily
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &daily); err != nil {
		return nil, fmt.Errorf("unparseable generator output: %w", err)
	}
	if daily.Term == "" || daily.Definition == "" || len(daily.Questions) == 0 {
		return nil, fmt.Errorf("generator output missing required fields")
	}

	return &daily, nil
}

func (svc *GeminiService) GenerateQuiz(ctx context.Context, department, difficulty string, count int, exclude []string) ([]model.QuizQuestion, error) {
	prompt := fmt.Sprintf(`Create a %s-difficulty vocabulary quiz for the %q department.
Avoid these terms: [%s].
Respond with ONLY a JSON array of exactly %d objects of this shape:
{"question":"...","options":["a","b","c","d"],"answer":"...","fun_fact":"..."}
The answer must be one of the options verbatim.`,
		difficulty, department, strings.Join(exclude, ", "), count)

	raw, err := svc.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var questions []model.QuizQuestion
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &questions); err != nil {
		return nil, fmt.Errorf("unparseable generator output: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("generator returned no questions")
	}

	return questions, nil
}

func (svc *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	if svc.client == nil {
		return "", fmt.Errorf("gemini client not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, svc.timeout)
	defer cancel()

	result, err := svc.client.Models.GenerateContent(ctx, svc.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if result == nil {
		return "", fmt.Errorf("gemini returned no response")
	}

	text, err := result.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract response text: %w", err)
	}
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	return text, nil
}

// stripCodeFences removes a leading ```json / trailing ``` wrapper the
// model tends to add despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
