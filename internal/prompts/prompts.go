package prompts

import (
	"fmt"
	"strings"

	"github.com/nextclass/nextclass-backend/internal/types"
)

// Input is the job input payload the prompt builders understand. Fields are
// optional per job type: lecture-bound jobs carry Title+Transcript, lesson
// plans carry Topic.
type Input struct {
	Title      string `json:"title,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	Topic      string `json:"topic,omitempty"`
	Context    string `json:"context,omitempty"`
}

const systemPrompt = `Você é um assistente pedagógico da plataforma NextClass. ` +
	`Responda sempre em %s, com tom %s. Quando o formato pedido for JSON, ` +
	`responda somente com JSON válido, sem comentários e sem texto fora do objeto.`

// Build returns the system and user prompts for a job type. Unknown types
// are a programming error surfaced as an explicit error, not a silent
// default prompt.
func Build(jobType types.JobType, in Input, style Style) (string, string, error) {
	system := fmt.Sprintf(systemPrompt, style.Language, style.Tone)
	switch jobType {
	case types.JobTypeGenerateQuiz:
		return system, quizPrompt(in, style), nil
	case types.JobTypeGenerateFlashcards:
		return system, flashcardsPrompt(in, style), nil
	case types.JobTypeGenerateLessonPlan:
		return system, lessonPlanPrompt(in), nil
	case types.JobTypeGenerateMultipleChoice:
		return system, multipleChoicePrompt(in, style), nil
	case types.JobTypeGenerateOpenEndedActivity:
		return system, openEndedPrompt(in), nil
	case types.JobTypeGenerateSuggestions:
		return system, suggestionsPrompt(in), nil
	default:
		return "", "", fmt.Errorf("no prompt builder for job type %q", jobType)
	}
}

func quizPrompt(in Input, style Style) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Crie um quiz com %d questões de múltipla escolha sobre a aula %q.\n", style.QuestionCount, in.Title)
	b.WriteString("Cada questão deve ter 4 alternativas, exatamente uma correta, e uma explicação curta.\n")
	b.WriteString(`Responda em JSON: {"title": string, "questions": [{"question": string, "options": [string], "correct_index": number, "explanation": string}]}`)
	writeSource(&b, in)
	return b.String()
}

func flashcardsPrompt(in Input, style Style) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Crie %d flashcards de estudo sobre a aula %q.\n", style.CardCount, in.Title)
	b.WriteString("Frente com um conceito ou pergunta, verso com a resposta objetiva.\n")
	b.WriteString(`Responda em JSON: {"title": string, "cards": [{"front": string, "back": string}]}`)
	writeSource(&b, in)
	return b.String()
}

func lessonPlanPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Crie um plano de aula completo sobre o tema %q.\n", in.Topic)
	b.WriteString("Estruture em: objetivos, pré-requisitos, desenvolvimento passo a passo, ")
	b.WriteString("exemplos resolvidos e avaliação. Use markdown didático; fórmulas em LaTeX ")
	b.WriteString("entre $...$ ou $$...$$ e, quando ajudar, um diagrama em bloco ```mermaid.\n")
	b.WriteString(`Responda em JSON: {"title": string, "content": string} onde content é o markdown.`)
	if in.Context != "" {
		fmt.Fprintf(&b, "\n\nContexto adicional do professor:\n%s", in.Context)
	}
	return b.String()
}

func multipleChoicePrompt(in Input, style Style) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Crie uma atividade de múltipla escolha com %d itens sobre a aula %q.\n", style.QuestionCount, in.Title)
	b.WriteString(`Responda em JSON: {"title": string, "items": [{"question": string, "options": [string], "correct_index": number}]}`)
	writeSource(&b, in)
	return b.String()
}

func openEndedPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Crie uma atividade discursiva com 5 questões abertas sobre a aula %q.\n", in.Title)
	b.WriteString(`Responda em JSON: {"title": string, "items": [{"question": string, "expected_answer": string}]}`)
	writeSource(&b, in)
	return b.String()
}

func suggestionsPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sugira próximos passos de ensino a partir da aula %q: ", in.Title)
	b.WriteString("tópicos de aprofundamento, dúvidas prováveis dos alunos e ideias de revisão.\n")
	b.WriteString(`Responda em JSON: {"suggestions": [{"title": string, "description": string}]}`)
	writeSource(&b, in)
	return b.String()
}

func writeSource(b *strings.Builder, in Input) {
	if strings.TrimSpace(in.Transcript) != "" {
		fmt.Fprintf(b, "\n\nTranscrição da aula:\n%s", in.Transcript)
	}
	if strings.TrimSpace(in.Context) != "" {
		fmt.Fprintf(b, "\n\nContexto adicional:\n%s", in.Context)
	}
}
