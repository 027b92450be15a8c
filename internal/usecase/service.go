package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/riskibarqy/go-commitdraft/internal/commit"
	"github.com/riskibarqy/go-commitdraft/internal/git"
	"github.com/riskibarqy/go-commitdraft/internal/llm"
	"github.com/riskibarqy/go-commitdraft/internal/logging"
	"github.com/riskibarqy/go-commitdraft/internal/prompt"
	"github.com/riskibarqy/go-commitdraft/internal/util"
)

// ErrNothingToDescribe is returned when there is neither a draft nor staged changes.
var ErrNothingToDescribe = errors.New("no draft given and no staged changes detected")

// Sampling parameters per call. The prompt package never sets these.
var (
	commitSampling = llm.Request{Temperature: 0.2, TopP: 0.9, MaxTokens: 200}
	reviewSampling = llm.Request{Temperature: 0.1, TopP: 0.9, MaxTokens: 200}
)

// Service orchestrates the review and commit message generation flow.
type Service struct {
	Repo    git.Repository
	LLM     llm.Client
	Prompts *prompt.Builder
}

// Result captures the outputs of the use case.
type Result struct {
	Review    string
	ReviewErr error
	Message   commit.Message
	Prompt    string
	Draft     string
	Fallback  bool
}

// Options is a light copy of the config options needed inside the use case.
type Options struct {
	Model       string
	ReviewModel string
	MaxBytes    int
	Review      bool

	Locale     string
	MaxLength  int
	Convention prompt.Convention
	Draft      string
}

// NewService constructs a Service with the provided dependencies.
func NewService(repo git.Repository, client llm.Client, prompts *prompt.Builder) *Service {
	return &Service{Repo: repo, LLM: client, Prompts: prompts}
}

// Draft returns the text the message is written from: the caller's note when
// given, otherwise the staged diff trimmed to maxBytes.
func (s *Service) Draft(ctx context.Context, note string, maxBytes int) (string, error) {
	if strings.TrimSpace(note) != "" {
		return note, nil
	}

	diff, err := s.Repo.StagedDiff(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(diff) == "" {
		return "", ErrNothingToDescribe
	}
	return util.TrimTo(diff, maxBytes), nil
}

// Prompt builds the commit instruction for opts without calling a model.
func (s *Service) Prompt(ctx context.Context, opts Options) (string, string, error) {
	if s == nil || s.Repo == nil || s.Prompts == nil {
		return "", "", errors.New("service not properly initialized")
	}

	draft, err := s.Draft(ctx, opts.Draft, opts.MaxBytes)
	if err != nil {
		return "", "", err
	}

	instruction, err := s.Prompts.Build(prompt.Request{
		Locale:     opts.Locale,
		MaxLength:  opts.MaxLength,
		Convention: opts.Convention,
		Draft:      draft,
	})
	if err != nil {
		return "", "", fmt.Errorf("build prompt: %w", err)
	}
	return instruction, draft, nil
}

// Execute performs the review+generation workflow.
func (s *Service) Execute(ctx context.Context, opts Options) (Result, error) {
	if s == nil || s.LLM == nil {
		return Result{}, errors.New("service not properly initialized")
	}
	if opts.ReviewModel == "" {
		opts.ReviewModel = opts.Model
	}
	log := logging.C(ctx)

	instruction, draft, err := s.Prompt(ctx, opts)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Prompt: instruction,
		Draft:  draft,
	}
	log.Debug("prompt built",
		zap.String("strategy", s.Prompts.Strategy().String()),
		zap.String("template_version", s.Prompts.Version().String()),
		zap.Stringer("convention", opts.Convention),
		zap.Int("draft_bytes", len(draft)),
		zap.Int("prompt_bytes", len(instruction)),
	)

	if opts.Review {
		req := reviewSampling
		req.Model = opts.ReviewModel
		req.Prompt = prompt.Review(draft)
		review, err := s.LLM.Complete(ctx, req)
		if err != nil {
			log.Warn("review failed", zap.String("model", opts.ReviewModel), zap.Error(err))
			result.ReviewErr = err
		} else {
			result.Review = strings.TrimSpace(review)
		}
	}

	req := commitSampling
	req.Model = opts.Model
	req.Prompt = instruction
	raw, err := s.LLM.Complete(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("generate commit message: %w", err)
	}

	rules := commit.Rules{Convention: opts.Convention}
	msg, err := commit.Parse(raw, rules)
	if err != nil {
		log.Warn("model answer unusable, falling back", zap.Error(err))
		msg = commit.Fallback(raw, rules)
		result.Fallback = true
	}
	if msg.Exceeds(opts.MaxLength) {
		log.Warn("headline longer than requested",
			zap.String("headline", msg.Headline),
			zap.Int("max_length", opts.MaxLength),
		)
	}

	result.Message = msg
	return result, nil
}
