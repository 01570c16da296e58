package retrieval

import (
	"context"
	"fmt"
	"os"
	"strings"

	"kbase/models"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// NoContextAnswer is returned without calling the model when retrieval comes
// back empty.
const NoContextAnswer = "I couldn't find enough relevant information in the documents to answer this question. Please try rephrasing your question or adding more relevant documents."

const systemPrompt = "You are a precise research assistant that provides accurate, source-cited answers based only on the provided documents."

// historyWindow caps how many prior messages are replayed into the prompt.
const historyWindow = 6

// Generator is a type that answers questions with AI.
type Generator struct {
	llm             llms.Model
	model           string
	temperature     float64
	maxOutputTokens int
}

// NewGenerator creates a new answer generator using the
// OPENAI_CONVERSATIONAL_MODEL environment variable.
func NewGenerator() (*Generator, error) {
	model := os.Getenv("OPENAI_CONVERSATIONAL_MODEL")
	llm, err := openai.New(openai.WithModel(model))
	if err != nil {
		return nil, err
	}

	return &Generator{
		llm:             llm,
		model:           model,
		temperature:     0.1,
		maxOutputTokens: 800,
	}, nil
}

// Answer produces a cited answer to the question from the retrieved chunks and
// recent session history. When no chunks were retrieved it short-circuits with
// NoContextAnswer.
func (g *Generator) Answer(ctx context.Context, question string, history []models.Message, results []Result) (string, models.Sources, error) {
	if len(results) == 0 {
		return NoContextAnswer, nil, nil
	}

	prompt := buildPrompt(question, history, results)

	input := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	res, err := g.llm.GenerateContent(ctx, input,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxOutputTokens),
	)
	if err != nil {
		return "", nil, err
	}

	if len(res.Choices) == 0 {
		return "", nil, fmt.Errorf("no choices returned by model %v", g.model)
	}

	answer := strings.TrimSpace(res.Choices[0].Content)

	return answer, collapseSources(results), nil
}

// buildPrompt renders the retrieved chunks, the recent conversation, and the
// answering instructions into a single human message.
func buildPrompt(question string, history []models.Message, results []Result) string {
	var b strings.Builder

	b.WriteString("You are an expert research assistant. Based EXCLUSIVELY on the provided context documents, answer the user's question.\n\n")
	b.WriteString("CONTEXT DOCUMENTS:\n")
	b.WriteString(renderContext(results))

	if conversation := renderHistory(history); conversation != "" {
		b.WriteString("\n\nCONVERSATION SO FAR:\n")
		b.WriteString(conversation)
	}

	b.WriteString("\n\nUSER QUESTION: ")
	b.WriteString(question)
	b.WriteString(`

IMPORTANT INSTRUCTIONS:
1. Answer based ONLY on the provided context. Do not use external knowledge.
2. If the context doesn't contain enough information to fully answer, say so and indicate what information is missing.
3. Be specific and cite your sources using the source names provided.
4. If different sources conflict, acknowledge the conflict and present both viewpoints.
5. Keep the answer comprehensive but concise.

STRUCTURE YOUR ANSWER:
- Start with a direct answer to the question
- Provide supporting evidence from the sources
- Clearly cite which source each piece of information came from
- End with a summary of the key findings`)

	return b.String()
}

// renderContext formats each retrieved chunk with its source and relevance so
// the model can cite them.
func renderContext(results []Result) string {
	parts := make([]string, len(results))
	for i, result := range results {
		parts[i] = fmt.Sprintf("[Source: %v | Relevance: %.3f]\n%v", result.Filename, result.Similarity, result.Text)
	}

	return strings.Join(parts, "\n\n")
}

// renderHistory replays the tail of the session as "User:"/"AI:" lines.
func renderHistory(history []models.Message) string {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	lines := make([]string, 0, len(history))
	for _, message := range history {
		speaker := "User"
		if message.Author == models.AIAuthor {
			speaker = "AI"
		}

		lines = append(lines, fmt.Sprintf("%v: %v", speaker, message.Text))
	}

	return strings.Join(lines, "\n")
}

// collapseSources deduplicates citations by document, preserving retrieval
// order and keeping the best similarity per document.
func collapseSources(results []Result) models.Sources {
	sources := make(models.Sources, 0, len(results))
	index := make(map[uuid.UUID]int)

	for _, result := range results {
		if i, ok := index[result.DocumentUUID]; ok {
			if result.Similarity > sources[i].Similarity {
				sources[i].Similarity = result.Similarity
			}
			continue
		}

		index[result.DocumentUUID] = len(sources)
		sources = append(sources, models.Source{
			DocumentUUID: result.DocumentUUID,
			Filename:     result.Filename,
			Similarity:   result.Similarity,
		})
	}

	return sources
}
