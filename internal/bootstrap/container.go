package bootstrap

import (
	"context"
	"errors"
	"log"
	"time"

	"speaksmart-be/internal/config"
	"speaksmart-be/internal/controller"
	"speaksmart-be/internal/observe"
	"speaksmart-be/internal/pkg/logger"
	"speaksmart-be/internal/repository/contract"
	"speaksmart-be/internal/repository/memory"
	redisrepo "speaksmart-be/internal/repository/redis"
	"speaksmart-be/internal/service"
	"speaksmart-be/pkg/llm/factory"
	"speaksmart-be/pkg/retry"
	"speaksmart-be/pkg/tts"
	"speaksmart-be/pkg/tts/ttsopenai"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Container struct {
	// Controllers
	QuestionController   controller.IQuestionController
	EvaluationController controller.IEvaluationController
	TTSController        controller.ITTSController
	ChatController       controller.IChatController
	HealthController     controller.IHealthController

	// Observability
	Logger          logger.ILogger
	Metrics         *observe.Metrics
	MetricsRegistry *prometheus.Registry

	closers []func(context.Context) error
}

type Option func(*options)

type options struct {
	logger  logger.ILogger
	sleeper retry.Sleeper
}

// WithLogger replaces the file-backed zap logger.
func WithLogger(l logger.ILogger) Option {
	return func(o *options) { o.logger = l }
}

// WithSleeper replaces the real-clock retry sleeper.
func WithSleeper(s retry.Sleeper) Option {
	return func(o *options) { o.sleeper = s }
}

func NewContainer(cfg *config.Config, opts ...Option) *Container {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	// 1. Core Facades
	sysLogger := o.logger
	if sysLogger == nil {
		sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	}

	c := &Container{Logger: sysLogger}

	// 2. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mp, err := observe.NewPrometheusProvider(reg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize metrics provider: %v", err)
	}
	c.closers = append(c.closers, mp.Shutdown)
	metrics, err := observe.NewMetrics(mp)
	if err != nil {
		log.Fatalf("[FATAL] Failed to create metric instruments: %v", err)
	}
	c.Metrics = metrics
	c.MetricsRegistry = reg

	// 3. Upstream providers. A missing key leaves the provider nil.
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.LLMBaseURL(),
		cfg.LLMKey(),
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	if llmProvider == nil {
		sysLogger.Warn("Bootstrap", "LLM key missing: questions use fallbacks, evaluation is disabled", map[string]interface{}{"provider": cfg.Ai.LLMProvider})
	} else {
		sysLogger.Info("Bootstrap", "Using LLM Provider", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel})
	}

	var ttsProvider tts.Provider
	if cfg.Keys.TTS != "" {
		p, err := ttsopenai.New(cfg.Keys.TTS, cfg.TTS.BaseURL)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize TTS Provider: %v", err)
		}
		ttsProvider = p
	}

	// 4. Repositories
	questionCache := c.newQuestionCache(cfg, sysLogger)

	// 5. Services
	retrier := retry.New(retry.Policy{
		MaxAttempts:  cfg.Retry.MaxAttempts,
		InitialDelay: cfg.Retry.BaseDelay,
		Multiplier:   2,
	}, o.sleeper)

	questionService := service.NewQuestionService(llmProvider, cfg.Ai.LLMProvider, questionCache, retrier, metrics, sysLogger)
	evaluationService := service.NewEvaluationService(llmProvider, cfg.Ai.LLMProvider, retrier, metrics, sysLogger)
	chatService := service.NewChatService(llmProvider, cfg.Ai.LLMProvider, retrier, metrics, sysLogger)
	ttsService := service.NewTTSService(ttsProvider, tts.NewAudioCache(6*time.Hour), metrics, sysLogger)

	// 6. Controllers
	c.QuestionController = controller.NewQuestionController(questionService)
	c.EvaluationController = controller.NewEvaluationController(evaluationService)
	c.TTSController = controller.NewTTSController(ttsService)
	c.ChatController = controller.NewChatController(chatService)
	c.HealthController = controller.NewHealthController()

	return c
}

func (c *Container) newQuestionCache(cfg *config.Config, sysLogger logger.ILogger) contract.IQuestionCacheRepository {
	if cfg.Cache.Backend != "redis" {
		return memory.NewQuestionCacheRepository(cfg.Cache.TTL)
	}

	rdb := redisrepo.NewClient(cfg.App.RedisURL)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		sysLogger.Warn("Bootstrap", "Redis unreachable, using in-memory question cache", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return memory.NewQuestionCacheRepository(cfg.Cache.TTL)
	}
	c.closers = append(c.closers, func(context.Context) error { return rdb.Close() })
	return redisrepo.NewQuestionCacheRepository(rdb, cfg.Cache.TTL)
}

// Close flushes metrics and releases connections.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	for _, fn := range c.closers {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	_ = c.Logger.Sync() // stdout sync fails on some terminals
	return errors.Join(errs...)
}
