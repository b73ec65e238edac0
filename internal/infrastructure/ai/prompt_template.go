package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/doeshing/shellm/internal/domain"
)

// TemplateSet frames the session context for one backend family.
// The openai set sends the history plus the last command and its output,
// the groq set sends the history plus the prior command only.
type TemplateSet struct {
	Name     string
	Suggest  string
	Answer   string
	Sanitize string
}

const suggestOpenAI = `You are SheLLM, a shell command generator. Your task is to generate accurate shell commands for a highly skilled Linux user. The user expects precise, context-aware suggestions.
The user's history of commands and their outputs from their current terminal session is given below and should be analyzed to understand their patterns and goals:
{{.History}}
The user's most recent command and its output are given below. Prioritize them as the primary basis for inference, while still considering the broader session history.
Most recent command:
{{.LastCommand}}
Output of the most recent command:
{{.LastOutput}}
Your output must consist solely of shell commands, with no explanations, additional information, comments, or symbols not part of the command syntax.`

const suggestGroq = `You are SheLLM, a shell command generator for a highly skilled Linux user.
Shell session history:
{{.History}}
Prior command from the user, to be treated as the main signal:
{{.LastCommand}}
Reply with a single shell command only. Do not add explanations, comments or markdown.`

const answerTemplate = `You are SheLLM, a shell command specialist. Do not discuss other topics. Provide short, accurate, extremely concise and context-aware answers about shell commands and shell scripting to a highly skilled Linux user.
Use the user's current terminal session history for context:
{{.History}}`

const sanitizeTemplate = `You are a senior system administrator who must validate shell commands for errors and return the proper or fixed version. If the input contains anything other than a pure command (prose, comments, prompts), remove it. If the command is already correct, return it exactly as is. If the command is in a code block, remove the code block. Prefer simple commands over complex ones unless required. Output only the command.`

var (
	// OpenAITemplates is the default template set.
	OpenAITemplates = TemplateSet{
		Name:     domain.TemplatesOpenAI,
		Suggest:  suggestOpenAI,
		Answer:   answerTemplate,
		Sanitize: sanitizeTemplate,
	}
	// GroqTemplates is the compact template set used with Groq models.
	GroqTemplates = TemplateSet{
		Name:     domain.TemplatesGroq,
		Suggest:  suggestGroq,
		Answer:   answerTemplate,
		Sanitize: sanitizeTemplate,
	}
)

// TemplatesFor selects the template set configured for model and applies
// its prompt overrides.
func TemplatesFor(model domain.ModelDefinition) TemplateSet {
	set := OpenAITemplates
	if model.TemplateFlavor() == domain.TemplatesGroq {
		set = GroqTemplates
	}
	if model.Prompts.Suggest != "" {
		set.Suggest = model.Prompts.Suggest
	}
	if model.Prompts.Answer != "" {
		set.Answer = model.Prompts.Answer
	}
	if model.Prompts.Sanitize != "" {
		set.Sanitize = model.Prompts.Sanitize
	}
	return set
}

type templateData struct {
	History     string
	LastCommand string
	LastOutput  string
}

// SuggestMessages renders the system prompt for a command suggestion.
func (t TemplateSet) SuggestMessages(session domain.SessionSnapshot, prompt string) ([]domain.PromptMessage, error) {
	system, err := render(t.Name+"-suggest", t.Suggest, session)
	if err != nil {
		return nil, err
	}
	return []domain.PromptMessage{
		{Role: domain.RoleSystem, Content: system},
		{Role: domain.RoleUser, Content: prompt},
	}, nil
}

// AnswerMessages renders the system prompt for a question.
func (t TemplateSet) AnswerMessages(session domain.SessionSnapshot, question string) ([]domain.PromptMessage, error) {
	system, err := render(t.Name+"-answer", t.Answer, session)
	if err != nil {
		return nil, err
	}
	return []domain.PromptMessage{
		{Role: domain.RoleSystem, Content: system},
		{Role: domain.RoleUser, Content: question},
	}, nil
}

// SanitizeMessages builds the few-shot cleanup conversation.
func (t TemplateSet) SanitizeMessages(command string) []domain.PromptMessage {
	messages := []domain.PromptMessage{{Role: domain.RoleSystem, Content: t.Sanitize}}
	for _, example := range sanitizeExamples {
		messages = append(messages,
			domain.PromptMessage{Role: domain.RoleUser, Content: example[0]},
			domain.PromptMessage{Role: domain.RoleAssistant, Content: example[1]},
		)
	}
	return append(messages, domain.PromptMessage{Role: domain.RoleUser, Content: command})
}

var sanitizeExamples = [][2]string{
	{"ls -d */", "ls -d */"},
	{
		"```sh\nfind . -name '*.log' -mtime +7 # old logs\n```",
		"find . -name '*.log' -mtime +7",
	},
	{
		"Here is the command you need:\n`du -sh * | sort -rh | head -n 5`",
		"du -sh * | sort -rh | head -n 5",
	},
}

func render(name, raw string, session domain.SessionSnapshot) (string, error) {
	tmpl, err := template.New(name).Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, templateData{
		History:     session.History,
		LastCommand: session.LastCommand,
		LastOutput:  session.LastOutput,
	})
	if err != nil {
		return "", fmt.Errorf("render %s template: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
