package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/shellm/internal/domain"
	"github.com/doeshing/shellm/internal/infrastructure/cache"
	"github.com/doeshing/shellm/internal/pkg/logger"
	"github.com/doeshing/shellm/internal/ports"
)

type stubProvider struct {
	model     domain.ModelDefinition
	responses []stubResponse
	requests  []ports.ProviderRequest
}

type stubResponse struct {
	content string
	err     error
}

func (s *stubProvider) Name() string                  { return "stub" }
func (s *stubProvider) Model() domain.ModelDefinition { return s.model }

func (s *stubProvider) Generate(_ context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	s.requests = append(s.requests, req)
	if len(s.responses) == 0 {
		return ports.ProviderResponse{}, ErrNoChoices
	}
	next := s.responses[0]
	s.responses = s.responses[1:]
	if next.err != nil {
		return ports.ProviderResponse{}, next.err
	}
	return ports.ProviderResponse{Content: next.content, Model: s.model.ModelID}, nil
}

func newStub(name string, responses ...stubResponse) *stubProvider {
	return &stubProvider{
		model:     domain.ModelDefinition{Name: name, Provider: domain.ProviderKindOpenAI, ModelID: name + "-id", SanitizeModelID: name + "-small"},
		responses: responses,
	}
}

func newTestGateway(t *testing.T, providers ...ports.Provider) *Gateway {
	t.Helper()
	gw, err := NewGateway(providers, nil, logger.NewNop())
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	return gw.WithLookPath(fakeLookPath("ls", "find", "du", "sort"))
}

var testSession = domain.SessionSnapshot{
	History:     "> ls\nnotes.pdf\n",
	LastCommand: "ls",
	LastOutput:  "notes.pdf\n",
}

func TestGateway_SuggestAlwaysSanitizes(t *testing.T) {
	stub := newStub("gpt",
		stubResponse{content: "find . -name '*.pdf'"},
		stubResponse{content: "find . -name '*.pdf'"},
	)
	gw := newTestGateway(t, stub)

	got, err := gw.SuggestCommand(context.Background(), testSession, "list all pdfs")
	if err != nil {
		t.Fatalf("SuggestCommand: %v", err)
	}
	if got != "find . -name '*.pdf'" {
		t.Errorf("suggestion = %q", got)
	}
	if len(stub.requests) != 2 {
		t.Fatalf("requests = %d, want 2", len(stub.requests))
	}

	req := stub.requests[0]
	if req.Messages[0].Role != domain.RoleSystem || !strings.Contains(req.Messages[0].Content, "notes.pdf") {
		t.Errorf("system prompt lacks session context: %q", req.Messages[0].Content)
	}
	if req.Messages[1].Role != domain.RoleUser || req.Messages[1].Content != "list all pdfs" {
		t.Errorf("user message = %+v", req.Messages[1])
	}
}

func TestGateway_SuggestProseStartingWithProgram(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		clean string
	}{
		{"find sentence", "find the pdf files with find . -name '*.pdf'", "find . -name '*.pdf'"},
		{"ls sentence", "ls -la will list everything", "ls -la"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStub("gpt", stubResponse{content: tt.reply}, stubResponse{content: tt.clean})
			gw := newTestGateway(t, stub)

			got, err := gw.SuggestCommand(context.Background(), testSession, "list all pdfs")
			if err != nil {
				t.Fatalf("SuggestCommand: %v", err)
			}
			if got != tt.clean {
				t.Errorf("suggestion = %q, want %q", got, tt.clean)
			}
			if len(stub.requests) != 2 {
				t.Fatalf("requests = %d, want 2", len(stub.requests))
			}
			last := stub.requests[1].Messages[len(stub.requests[1].Messages)-1]
			if last.Content != tt.reply {
				t.Errorf("sanitize input = %q", last.Content)
			}
		})
	}
}

func TestGateway_SuggestIsNotCached(t *testing.T) {
	stub := newStub("gpt",
		stubResponse{content: "rm -rf ./build"},
		stubResponse{content: "rm -rf ./build"},
		stubResponse{content: "find . -name '*.pdf'"},
		stubResponse{content: "find . -name '*.pdf'"},
	)
	mem := cache.NewMemoryCache(time.Minute, 10)
	defer mem.Close()

	gw, err := NewGateway([]ports.Provider{stub}, mem, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	gw = gw.WithLookPath(fakeLookPath("rm", "find"))

	first, err := gw.SuggestCommand(context.Background(), testSession, "clean up")
	if err != nil || first != "rm -rf ./build" {
		t.Fatalf("first SuggestCommand = %q, %v", first, err)
	}
	// The user declined; asking again must reach the backend.
	second, err := gw.SuggestCommand(context.Background(), testSession, "clean up")
	if err != nil {
		t.Fatalf("second SuggestCommand: %v", err)
	}
	if second != "find . -name '*.pdf'" {
		t.Errorf("second suggestion = %q, want a fresh completion", second)
	}
	if len(stub.requests) != 4 {
		t.Errorf("requests = %d, want 4", len(stub.requests))
	}
}

func TestGateway_SuggestSanitizesProse(t *testing.T) {
	stub := newStub("gpt",
		stubResponse{content: "Sure! Use this:\n```sh\ndu -sh * # sizes\n```"},
		stubResponse{content: "```sh\ndu -sh *\n```"},
	)
	gw := newTestGateway(t, stub)

	got, err := gw.SuggestCommand(context.Background(), testSession, "disk usage")
	if err != nil {
		t.Fatalf("SuggestCommand: %v", err)
	}
	if got != "du -sh *" {
		t.Errorf("suggestion = %q, want du -sh *", got)
	}
	if len(stub.requests) != 2 {
		t.Fatalf("requests = %d, want 2", len(stub.requests))
	}

	sanitizeReq := stub.requests[1]
	if sanitizeReq.ModelID != "gpt-small" {
		t.Errorf("sanitize model = %q", sanitizeReq.ModelID)
	}
	if sanitizeReq.Temperature == nil || *sanitizeReq.Temperature != 0 {
		t.Errorf("sanitize temperature = %v", sanitizeReq.Temperature)
	}
	last := sanitizeReq.Messages[len(sanitizeReq.Messages)-1]
	if last.Content != "du -sh * # sizes" {
		t.Errorf("sanitize input = %q", last.Content)
	}
}

func TestGateway_SanitizeFailureFallsBackToSuggestion(t *testing.T) {
	stub := newStub("gpt",
		stubResponse{content: "ls -la # everything"},
		stubResponse{err: errors.New("connection reset")},
	)
	gw := newTestGateway(t, stub)

	got, err := gw.SuggestCommand(context.Background(), testSession, "show all")
	if err != nil {
		t.Fatalf("SuggestCommand: %v", err)
	}
	if got != "ls -la # everything" {
		t.Errorf("suggestion = %q, want unsanitized text", got)
	}
}

func TestGateway_SuggestUnavailable(t *testing.T) {
	stub := newStub("gpt", stubResponse{err: ErrNoChoices})
	gw := newTestGateway(t, stub)

	got, err := gw.SuggestCommand(context.Background(), testSession, "anything")
	if !errors.Is(err, domain.ErrCompletionUnavailable) {
		t.Fatalf("err = %v, want ErrCompletionUnavailable", err)
	}
	if got != "" {
		t.Errorf("suggestion = %q, want empty", got)
	}
}

func TestGateway_FallsBackToNextModel(t *testing.T) {
	primary := newStub("gpt", stubResponse{err: &APIError{Provider: "openai", StatusCode: 500, Status: "500"}})
	fallback := newStub("groq", stubResponse{content: "ls"}, stubResponse{content: "ls"})
	fallback.model.Provider = domain.ProviderKindGroq
	gw := newTestGateway(t, primary, fallback)

	got, err := gw.SuggestCommand(context.Background(), testSession, "list")
	if err != nil {
		t.Fatalf("SuggestCommand: %v", err)
	}
	if got != "ls" {
		t.Errorf("suggestion = %q", got)
	}
	system := fallback.requests[0].Messages[0].Content
	if strings.Contains(system, "Output of the most recent command") {
		t.Error("groq model should render the groq template")
	}
}

func TestGateway_SanitizeIsIdempotentOnBareCommand(t *testing.T) {
	cmds := []string{"ls -la", "find . -name '*.pdf'", "du -sh * | sort -rh"}
	for _, cmd := range cmds {
		t.Run(cmd, func(t *testing.T) {
			stub := newStub("gpt", stubResponse{content: cmd})
			gw := newTestGateway(t, stub)

			got, err := gw.Sanitize(context.Background(), cmd)
			if err != nil {
				t.Fatalf("Sanitize(%q): %v", cmd, err)
			}
			if got != cmd {
				t.Errorf("Sanitize(%q) = %q", cmd, got)
			}
			if len(stub.requests) != 1 {
				t.Errorf("requests = %d, want 1", len(stub.requests))
			}
		})
	}
}

func TestGateway_SanitizeKeepsBareInputOverChattyReply(t *testing.T) {
	stub := newStub("gpt", stubResponse{content: "This command lists files: ls -la"})
	gw := newTestGateway(t, stub)

	got, err := gw.Sanitize(context.Background(), "ls -la")
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	if got != "ls -la" {
		t.Errorf("Sanitize = %q, want input unchanged", got)
	}
}

func TestGateway_SanitizeSkippedReturnsInput(t *testing.T) {
	stub := newStub("gpt", stubResponse{err: errors.New("timeout")})
	gw := newTestGateway(t, stub)

	got, err := gw.Sanitize(context.Background(), "```sh\nls # hi\n```")
	if !errors.Is(err, domain.ErrSanitizationSkipped) {
		t.Fatalf("err = %v, want ErrSanitizationSkipped", err)
	}
	if got != "ls # hi" {
		t.Errorf("fallback = %q", got)
	}
}

func TestGateway_AnswerQuestion(t *testing.T) {
	stub := newStub("gpt", stubResponse{content: "Use `du -sh * | sort -rh | head -1`."})
	gw := newTestGateway(t, stub)

	got, err := gw.AnswerQuestion(context.Background(), testSession, "what is the largest file here")
	if err != nil {
		t.Fatalf("AnswerQuestion: %v", err)
	}
	if got != "Use `du -sh * | sort -rh | head -1`." {
		t.Errorf("answer = %q", got)
	}
	req := stub.requests[0]
	if !strings.Contains(req.Messages[0].Content, "shell command specialist") {
		t.Errorf("answer system prompt = %q", req.Messages[0].Content)
	}
	if req.Messages[1].Content != "what is the largest file here" {
		t.Errorf("question = %q", req.Messages[1].Content)
	}
}

func TestGateway_UsesCache(t *testing.T) {
	stub := newStub("gpt", stubResponse{content: "answer one"})
	mem := cache.NewMemoryCache(time.Minute, 10)
	defer mem.Close()

	gw, err := NewGateway([]ports.Provider{stub}, mem, logger.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		got, err := gw.AnswerQuestion(context.Background(), testSession, "q")
		if err != nil || got != "answer one" {
			t.Fatalf("AnswerQuestion = %q, %v", got, err)
		}
	}
	if len(stub.requests) != 1 {
		t.Errorf("requests = %d, want 1", len(stub.requests))
	}
}

func TestNewGateway_RequiresProvider(t *testing.T) {
	if _, err := NewGateway(nil, nil, logger.NewNop()); err == nil {
		t.Fatal("expected error")
	}
}
