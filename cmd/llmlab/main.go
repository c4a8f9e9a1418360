// Command llmlab runs one chat turn against a configured provider profile.
//
//	llmlab -profile ark -prompt "Describe this picture" -image cat.png
//	llmlab -model deepseek-r1 -stream -prompt "Why is the sky blue?"
//	llmlab -list-models
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/capability"
	"github.com/BrenchCC/LLM-Lab/chat"
	"github.com/BrenchCC/LLM-Lab/client"
	"github.com/BrenchCC/LLM-Lab/config"
	"github.com/BrenchCC/LLM-Lab/internal/logging"
	"github.com/BrenchCC/LLM-Lab/metrics"
)

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

// optionalBool is a bool flag that remembers whether it was set.
type optionalBool struct {
	set   bool
	value bool
}

func (o *optionalBool) String() string {
	if !o.set {
		return ""
	}
	return strconv.FormatBool(o.value)
}

func (o *optionalBool) Set(v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	o.set, o.value = true, b
	return nil
}

func (o *optionalBool) IsBoolFlag() bool { return true }

type cliConfig struct {
	envPath      string
	profilesPath string
	profile      string
	model        string
	apiKey       string
	logLevel     string

	prompt      string
	system      string
	images      multiFlag
	videos      multiFlag
	stream      bool
	temperature float64
	topP        float64
	maxTokens   int

	deepThinking optionalBool
	cachePath    string
	redisURL     string
	forceRefresh bool
	listModels   bool
}

func parseFlags(args []string) (*cliConfig, error) {
	cfg := &cliConfig{}
	fs := flag.NewFlagSet("llmlab", flag.ContinueOnError)
	fs.StringVar(&cfg.envPath, "env-path", ".env", "Path to a .env file")
	fs.StringVar(&cfg.profilesPath, "profiles-path", "", "Path to the profiles YAML (default: $"+config.EnvProfilesPath+" or "+config.DefaultProfilesPath+")")
	fs.StringVar(&cfg.profile, "profile", "", "Profile id (default: $"+config.EnvProfile+" or default_profile)")
	fs.StringVar(&cfg.model, "model", "", "Display model name (default: $"+config.EnvModel+" or the profile default)")
	fs.StringVar(&cfg.apiKey, "api-key", "", "API key overriding the profile's api_key_env")
	fs.StringVar(&cfg.logLevel, "log-level", "INFO", "Log level; only DEBUG produces output")
	fs.StringVar(&cfg.prompt, "prompt", "", "User message (default: remaining arguments)")
	fs.StringVar(&cfg.system, "system", "", "System prompt override")
	fs.Var(&cfg.images, "image", "Image path (repeatable)")
	fs.Var(&cfg.videos, "video", "Video path (repeatable)")
	fs.BoolVar(&cfg.stream, "stream", false, "Stream the answer")
	fs.Float64Var(&cfg.temperature, "temperature", lab.DefaultTemperature, "Sampling temperature")
	fs.Float64Var(&cfg.topP, "top-p", lab.DefaultTopP, "Nucleus sampling top_p")
	fs.IntVar(&cfg.maxTokens, "max-tokens", 0, "Max output tokens (0: provider default)")
	fs.Var(&cfg.deepThinking, "deep-thinking", "Override the profile's deep-thinking opt-in")
	fs.StringVar(&cfg.cachePath, "cache-path", capability.DefaultCachePath, "Capability cache file")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "Keep the capability cache in Redis instead of a file")
	fs.BoolVar(&cfg.forceRefresh, "refresh-capabilities", false, "Re-detect model capabilities")
	fs.BoolVar(&cfg.listModels, "list-models", false, "List the profile's models and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.prompt == "" {
		cfg.prompt = strings.Join(fs.Args(), " ")
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cli, err := parseFlags(args)
	if err != nil {
		return err
	}

	logger, err := logging.New(cli.logLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if err := config.LoadEnvFile(cli.envPath); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	reg, err := config.LoadProfiles(config.ResolveProfilesPath(cli.profilesPath))
	if err != nil {
		return err
	}
	profile, err := config.ResolveProfile(reg, cli.profile)
	if err != nil {
		return err
	}
	model, err := config.ResolveModel(profile, cli.model, cli.profile != "")
	if err != nil {
		return err
	}

	if cli.listModels {
		for _, name := range profile.Models() {
			marker := " "
			if name == model {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, name)
		}
		return nil
	}
	if strings.TrimSpace(cli.prompt) == "" {
		return errors.New("no prompt given")
	}

	factory := client.Factory(client.WithAPIKey(cli.apiKey), client.WithLogger(logger))
	recorder := metrics.NewRecorder(prometheus.NewRegistry(), "")

	store, closeStore, err := newStore(ctx, cli, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := chat.NewService(chat.Config{},
		chat.WithLogger(logger),
		chat.WithMetrics(recorder),
		chat.WithBackendFactory(factory),
		chat.WithResolver(capability.NewResolver(store,
			capability.WithLogger(logger),
			capability.WithMetrics(recorder),
			capability.WithBackendFactory(factory),
		)),
	)

	req := lab.NewChatRequest(cli.prompt)
	req.SystemPrompt = cli.system
	req.ImagePaths = cli.images
	req.VideoPaths = cli.videos
	req.Stream = cli.stream
	req.Temperature = cli.temperature
	req.TopP = cli.topP
	if cli.maxTokens > 0 {
		req.MaxTokens = lab.Int(cli.maxTokens)
	}

	opts := []chat.CallOption{chat.WithForceRefresh(cli.forceRefresh)}
	if cli.deepThinking.set {
		opts = append(opts, chat.WithDeepThinking(cli.deepThinking.value))
	}

	fmt.Fprintf(os.Stderr, "[%s/%s]\n", profile.ID, model)
	if cli.stream {
		return runStream(ctx, svc, profile, model, req, opts)
	}
	resp := svc.Send(ctx, profile, model, req, opts...)
	printWarnings(resp.Warnings)
	if resp.ErrorMessage != "" {
		return errors.New(resp.ErrorMessage)
	}
	if resp.ReasoningText != "" {
		fmt.Printf("--- reasoning ---\n%s\n--- answer ---\n", resp.ReasoningText)
	}
	fmt.Println(resp.AssistantText)
	printUsage(resp.Usage)
	return nil
}

func runStream(ctx context.Context, svc *chat.Service, profile lab.ProviderProfile, model string, req lab.ChatRequest, opts []chat.CallOption) error {
	stream, err := svc.Stream(ctx, profile, model, req, opts...)
	if err != nil {
		return err
	}
	defer stream.Close()
	printWarnings(stream.Warnings())

	for stream.Next() {
		fmt.Print(stream.Current())
	}
	fmt.Println()
	if err := stream.Err(); err != nil {
		return err
	}

	resp := stream.Response()
	if resp.ReasoningText != "" {
		fmt.Printf("--- reasoning ---\n%s\n", resp.ReasoningText)
	}
	printUsage(resp.Usage)
	return nil
}

func newStore(ctx context.Context, cli *cliConfig, logger *zap.Logger) (capability.Store, func(), error) {
	if cli.redisURL == "" {
		return capability.NewFileStore(cli.cachePath), func() {}, nil
	}
	opt, err := redis.ParseURL(cli.redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	logger.Debug("capability cache in redis", zap.String("addr", opt.Addr))
	return capability.NewRedisStore(rdb, ""), func() { rdb.Close() }, nil
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

func printUsage(u *lab.Usage) {
	if u == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "[Tokens: %d in, %d out, %d total]\n", u.PromptTokens, u.CompletionTokens, u.TotalTokens)
}
