package translate

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ITranslate converts text between languages. Translation is best-effort:
// on any failure Translate returns the original text together with the
// error, so callers can render something meaningful either way.
type ITranslate interface {
	Translate(ctx context.Context, text string, targetLang string, sourceLang string) (string, error)
}

var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"bn": "Bengali",
	"ta": "Tamil",
	"te": "Telugu",
	"mr": "Marathi",
}

type translateClient struct {
	modelName string
	client    *genai.Client
}

func NewTranslateClient() (ITranslate, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &translateClient{
		modelName: modelName,
		client:    client,
	}, nil
}

func (t *translateClient) Translate(ctx context.Context, text string, targetLang string, sourceLang string) (string, error) {
	if strings.TrimSpace(text) == "" || targetLang == sourceLang {
		return text, nil
	}

	model := t.client.GenerativeModel(t.modelName)

	prompt := "Translate the following text from " + languageName(sourceLang) +
		" to " + languageName(targetLang) +
		". Preserve any **bold** markers and numbered points. Return only the translation.\n\n" + text

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return text, err
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return text, errors.New("no response from translation API")
	}

	part, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return text, errors.New("unexpected response format from translation API")
	}

	translated := strings.TrimSpace(string(part))
	if translated == "" {
		return text, errors.New("empty translation")
	}

	return translated, nil
}

func (t *translateClient) Close() {
	if t.client != nil {
		t.client.Close()
	}
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
