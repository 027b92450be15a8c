package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/riskibarqy/go-commitdraft/internal/config"
	"github.com/riskibarqy/go-commitdraft/internal/git"
	"github.com/riskibarqy/go-commitdraft/internal/llm"
	"github.com/riskibarqy/go-commitdraft/internal/logging"
	"github.com/riskibarqy/go-commitdraft/internal/ollama"
	"github.com/riskibarqy/go-commitdraft/internal/openai"
	"github.com/riskibarqy/go-commitdraft/internal/prompt"
	"github.com/riskibarqy/go-commitdraft/internal/usecase"
)

// deps builds the collaborators behind the commands.
type deps struct {
	repo   func() git.Repository
	client func(config.Options) (llm.Client, error)
}

var defaultDeps = deps{
	repo: func() git.Repository { return git.NewCLIRepository() },
	client: func(opts config.Options) (llm.Client, error) {
		switch opts.Provider {
		case config.ProviderOpenAI:
			c, err := openai.NewClient(opts.APIKey, opts.Endpoint)
			if err != nil {
				return nil, err
			}
			return c, nil
		default:
			return ollama.NewClient(opts.Endpoint, opts.Timeout), nil
		}
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	os.Exit(execute(newRootCommand(defaultDeps), os.Stderr))
}

// execute runs root and returns the process exit code. Logs are flushed
// before returning so os.Exit cannot drop them.
func execute(root *cobra.Command, stderr io.Writer) int {
	err := root.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintln(stderr, "❌", err)
		return 1
	}
	return 0
}

func newRootCommand(d deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "go-commitdraft",
		Short: "Write a commit message for the staged changes with a language model",
		Long: `go-commitdraft turns a draft note, or the staged diff when no note is given,
into a commit message written by a local Ollama model or an OpenAI compatible API.

The instruction sent to the model comes from one of two template strategies:
  gerrit    structured, numbered Gerrit-style guidance (default)
  stepwise  freeform step-by-step guidance
Pick one with --template. Use --type conventional for Conventional Commits.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, d)
		},
	}
	config.RegisterFlags(root.PersistentFlags())
	root.AddCommand(newPromptCommand(d))
	return root
}

// setup loads the options and builds the use case for cmd.
func setup(cmd *cobra.Command, d deps, withModel bool) (config.Options, *usecase.Service, error) {
	v, err := config.New(cmd.Flags())
	if err != nil {
		return config.Options{}, nil, err
	}
	opts, err := config.Load(v)
	if err != nil {
		return config.Options{}, nil, err
	}
	if err := logging.Init(opts.Verbose); err != nil {
		return config.Options{}, nil, fmt.Errorf("init logging: %w", err)
	}

	builder, err := prompt.NewBuilder(opts.Strategy, prompt.WithVersionConstraint(opts.TemplateVersion))
	if err != nil {
		return config.Options{}, nil, err
	}

	var client llm.Client
	if withModel {
		if client, err = d.client(opts); err != nil {
			return config.Options{}, nil, err
		}
	}
	return opts, usecase.NewService(d.repo(), client, builder), nil
}

func useCaseOptions(opts config.Options) usecase.Options {
	return usecase.Options{
		Model:       opts.Model,
		ReviewModel: opts.ReviewModel,
		MaxBytes:    opts.MaxBytes,
		Review:      opts.Review,
		Locale:      opts.Locale,
		MaxLength:   opts.MaxLength,
		Convention:  opts.Convention,
		Draft:       opts.Draft,
	}
}

func runGenerate(cmd *cobra.Command, d deps) error {
	opts, service, err := setup(cmd, d, true)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
	defer cancel()
	log := logging.C(ctx)
	log.Debug("generating commit message",
		zap.String("provider", string(opts.Provider)),
		zap.String("model", opts.Model),
		zap.Stringer("template", opts.Strategy),
	)

	res, err := service.Execute(ctx, useCaseOptions(opts))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printReview(out, res)

	message := res.Message.String()
	switch {
	case opts.HookPath != "":
		if err := service.Repo.WriteHook(opts.HookPath, message); err != nil {
			return err
		}
	case opts.Commit:
		if err := service.Repo.Commit(ctx, message); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, message)
	return nil
}

func printReview(out io.Writer, res usecase.Result) {
	if res.ReviewErr != nil {
		fmt.Fprintf(out, "⚠️ review failed: %v\n\n", res.ReviewErr)
		return
	}
	if res.Review == "" {
		return
	}
	fmt.Fprintln(out, "Review findings:")
	fmt.Fprintln(out, res.Review)
	fmt.Fprintln(out)
}
