package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/riskibarqy/go-commitdraft/internal/git"
	"github.com/riskibarqy/go-commitdraft/internal/llm"
	"github.com/riskibarqy/go-commitdraft/internal/logging"
	"github.com/riskibarqy/go-commitdraft/internal/prompt"
)

type testService struct {
	*Service
	repo *git.MockRepository
	llm  *llm.MockClient
}

func newTestService(t *testing.T) testService {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := git.NewMockRepository(ctrl)
	client := llm.NewMockClient(ctrl)

	builder, err := prompt.NewBuilder(prompt.StrategyGerrit)
	require.NoError(t, err)

	return testService{Service: NewService(repo, client, builder), repo: repo, llm: client}
}

// promptContaining matches llm requests whose prompt contains every snippet.
type promptContaining []string

func (m promptContaining) Matches(x any) bool {
	req, ok := x.(llm.Request)
	if !ok {
		return false
	}
	for _, s := range m {
		if !strings.Contains(req.Prompt, s) {
			return false
		}
	}
	return true
}

func (m promptContaining) String() string {
	return "prompt containing " + strings.Join(m, ", ")
}

func TestExecuteUsesStagedDiff(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	diff := "diff --git a/client.go b/client.go\n+retry()\n"

	s.repo.EXPECT().StagedDiff(ctx).Return(diff, nil)
	s.llm.EXPECT().
		Complete(ctx, promptContaining{diff, `"fix": "A bug fix"`}).
		DoAndReturn(func(_ context.Context, req llm.Request) (string, error) {
			require.Equal(t, "qwen", req.Model)
			require.InDelta(t, 0.2, req.Temperature, 0.0001)
			return "feat(http): add retry to client\n\nRequests failed on flaky networks.", nil
		})

	res, err := s.Execute(ctx, Options{
		Model:      "qwen",
		MaxBytes:   1000,
		Locale:     "en",
		MaxLength:  50,
		Convention: prompt.Conventional,
	})
	require.NoError(t, err)
	require.Equal(t, "feat(http): add retry to client", res.Message.Headline)
	require.Equal(t, "Requests failed on flaky networks.", res.Message.Body)
	require.Equal(t, diff, res.Draft)
	require.False(t, res.Fallback)
}

func TestExecutePrefersDraftNote(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	s.llm.EXPECT().
		Complete(ctx, promptContaining{"fix null pointer in parser", "<commit message>"}).
		Return("parser: fix null pointer", nil)

	res, err := s.Execute(ctx, Options{
		Model:     "qwen",
		MaxBytes:  1000,
		MaxLength: 50,
		Draft:     "fix null pointer in parser",
	})
	require.NoError(t, err)
	require.Equal(t, "parser: fix null pointer", res.Message.Headline)
	require.NotContains(t, res.Prompt, "refactor")
}

func TestExecuteWithReview(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	gomock.InOrder(
		s.llm.EXPECT().
			Complete(ctx, promptContaining{prompt.NoIssues}).
			DoAndReturn(func(_ context.Context, req llm.Request) (string, error) {
				require.Equal(t, "reviewer", req.Model)
				return " - missing test for retry budget \n", nil
			}),
		s.llm.EXPECT().Complete(ctx, promptContaining{"Gerrit-style"}).Return("http: add retry", nil),
	)

	res, err := s.Execute(ctx, Options{
		Model:       "qwen",
		ReviewModel: "reviewer",
		MaxBytes:    1000,
		MaxLength:   50,
		Review:      true,
		Draft:       "add retry",
	})
	require.NoError(t, err)
	require.Equal(t, "- missing test for retry budget", res.Review)
	require.NoError(t, res.ReviewErr)
	require.Equal(t, "http: add retry", res.Message.Headline)
}

func TestExecuteReviewFailureIsNotFatal(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	reviewErr := errors.New("model offline")

	gomock.InOrder(
		s.llm.EXPECT().Complete(ctx, promptContaining{prompt.NoIssues}).Return("", reviewErr),
		s.llm.EXPECT().Complete(ctx, gomock.Any()).Return("", nil),
	)

	res, err := s.Execute(ctx, Options{Model: "qwen", MaxBytes: 1000, MaxLength: 50, Review: true, Draft: "note", Convention: prompt.Conventional})
	require.NoError(t, err)
	require.ErrorIs(t, res.ReviewErr, reviewErr)
	require.True(t, res.Fallback)
	require.Equal(t, "chore: update project files", res.Message.Headline)
}

func TestExecuteNothingStaged(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	s.repo.EXPECT().StagedDiff(ctx).Return(" \n", nil)

	_, err := s.Execute(ctx, Options{Model: "qwen", MaxBytes: 1000, MaxLength: 50})
	require.ErrorIs(t, err, ErrNothingToDescribe)
}

func TestExecuteGenerationError(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	s.llm.EXPECT().Complete(ctx, gomock.Any()).Return("", errors.New("connection refused"))

	_, err := s.Execute(ctx, Options{Model: "qwen", MaxBytes: 1000, MaxLength: 50, Draft: "note"})
	require.ErrorContains(t, err, "connection refused")
}

func TestPromptRejectsInvalidMaxLength(t *testing.T) {
	s := newTestService(t)

	_, _, err := s.Prompt(context.Background(), Options{MaxBytes: 1000, Draft: "note"})
	require.ErrorIs(t, err, prompt.ErrInvalidMaxLength)
}

func TestDraftTrimsDiff(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	s.repo.EXPECT().StagedDiff(ctx).Return("line one\nline two\nline three\n", nil)

	draft, err := s.Draft(ctx, "", 14)
	require.NoError(t, err)
	require.Equal(t, "line one\n…[diff truncated]", draft)
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.WarnLevel)
	prev := logging.L()
	logging.Set(otelzap.New(zap.New(core)))
	t.Cleanup(func() { logging.Set(prev) })
	return logs
}

func TestExecuteKeepsLongHeadline(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	logs := observeLogs(t)

	s.llm.EXPECT().Complete(ctx, promptContaining{"at most 1 characters"}).Return("parser: handle nil schema", nil)

	res, err := s.Execute(ctx, Options{Model: "qwen", MaxBytes: 1000, MaxLength: 1, Draft: "note"})
	require.NoError(t, err)
	require.Equal(t, "parser: handle nil schema", res.Message.Headline)
	require.False(t, res.Fallback)

	warned := logs.FilterMessage("headline longer than requested").All()
	require.Len(t, warned, 1)
	require.Equal(t, int64(1), warned[0].ContextMap()["max_length"])
}

func TestExecuteNoWarningWithinLength(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	logs := observeLogs(t)

	s.llm.EXPECT().Complete(ctx, gomock.Any()).Return("parser: handle nil schema", nil)

	_, err := s.Execute(ctx, Options{Model: "qwen", MaxBytes: 1000, MaxLength: 50, Draft: "note"})
	require.NoError(t, err)
	require.Zero(t, logs.FilterMessage("headline longer than requested").Len())
}
