package provider

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"automatosx/internal/apperr"
	"automatosx/internal/events"
)

// MockModeEnvVar switches every CLIAdapter into a deterministic canned
// response, so execution-engine tests never have to shell out to a real
// provider binary.
const MockModeEnvVar = "AUTOMATOSX_MOCK_PROVIDERS"

// CLIAdapter invokes a provider's command-line binary as a subprocess,
// feeding it the prompt on stdin and reading the completion off stdout.
// It is the only Adapter implementation this package ships; each configured
// provider gets its own instance around a different command.
type CLIAdapter struct {
	identifier string
	command    string
	timeout    time.Duration
	support    ParameterSupport

	breaker      *CircuitBreaker
	availability *AvailabilityCache
	retryPolicy  RetryPolicy

	log zerolog.Logger
}

// CLIAdapterConfig configures a single provider's CLIAdapter.
type CLIAdapterConfig struct {
	Identifier       string
	Command          string
	Timeout          time.Duration
	ParameterSupport ParameterSupport
	FailureThreshold int
	SuccessThreshold int
	BreakerTimeout   time.Duration
	RetryPolicy      RetryPolicy

	// Bus receives the provider's circuit breaker state transitions.
	// Nil drops them silently.
	Bus *events.Bus
}

// NewCLIAdapter builds a CLIAdapter with its own circuit breaker and
// availability cache.
func NewCLIAdapter(cfg CLIAdapterConfig, log zerolog.Logger) *CLIAdapter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	breaker := NewCircuitBreaker(cfg.Identifier, cfg.FailureThreshold, cfg.SuccessThreshold, cfg.BreakerTimeout)
	breaker.SetBus(cfg.Bus)
	return &CLIAdapter{
		identifier:   cfg.Identifier,
		command:      cfg.Command,
		timeout:      cfg.Timeout,
		support:      cfg.ParameterSupport,
		breaker:      breaker,
		availability: NewAvailabilityCache(),
		retryPolicy:  cfg.RetryPolicy,
		log:          log.With().Str("component", "provider_adapter").Str("provider", cfg.Identifier).Logger(),
	}
}

// Identifier returns the provider's configured name, e.g. "claude-code".
func (a *CLIAdapter) Identifier() string { return a.identifier }

// SupportsParameter reports whether this provider's CLI honors the named
// optional request field.
func (a *CLIAdapter) SupportsParameter(name string) bool {
	switch name {
	case "maxTokens":
		return a.support.MaxTokens
	case "temperature":
		return a.support.Temperature
	case "topP":
		return a.support.TopP
	default:
		return false
	}
}

// Execute runs the provider's CLI with req, retrying transient failures
// and tripping the circuit breaker on repeated failure, per spec §4.6.
func (a *CLIAdapter) Execute(ctx context.Context, req Request) (*Response, error) {
	if err := a.breaker.Allow(); err != nil {
		return nil, err
	}

	resp, err := withRetry(ctx, a.retryPolicy, a.identifier, a.log, func(ctx context.Context) (*Response, error) {
		return a.invoke(ctx, req)
	})
	if err != nil {
		a.breaker.RecordFailure()
		return nil, err
	}
	a.breaker.RecordSuccess()
	return resp, nil
}

func mockResponse(req Request) *Response {
	return &Response{
		Content:          "mock response for: " + req.Prompt,
		Model:            req.Model,
		PromptTokens:     len(req.Prompt) / 4,
		CompletionTokens: 8,
		TotalTokens:      len(req.Prompt)/4 + 8,
		LatencyMs:        0,
		FinishReason:     FinishStop,
	}
}

func (a *CLIAdapter) mockMode() bool {
	return os.Getenv(MockModeEnvVar) == "1" || os.Getenv(MockModeEnvVar) == "true"
}

func (a *CLIAdapter) invoke(ctx context.Context, req Request) (*Response, error) {
	if a.mockMode() {
		return mockResponse(req), nil
	}

	execCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	args := a.buildArgs(req)
	cmd := exec.CommandContext(execCtx, a.command, args...)
	cmd.Stdin = bytes.NewBufferString(req.Prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	latency := time.Since(start).Milliseconds()

	if err != nil {
		a.log.Warn().Err(err).Str("stderr", stderr.String()).Msg("provider CLI invocation failed")
		if execCtx.Err() == context.DeadlineExceeded {
			return nil, apperr.ProviderTimeout(a.identifier, int(a.timeout.Milliseconds()))
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return nil, apperr.ProviderExecutionError(a.identifier, exitCode, stderr.String(), err)
	}

	content := stdout.String()
	return &Response{
		Content:      content,
		Model:        req.Model,
		LatencyMs:    latency,
		FinishReason: FinishStop,
	}, nil
}

func (a *CLIAdapter) buildArgs(req Request) []string {
	var args []string
	if req.Model != "" {
		args = append(args, "--model", req.Model)
	}
	if req.SystemPrompt != "" {
		args = append(args, "--system", req.SystemPrompt)
	}
	if a.support.Temperature && req.Temperature != nil {
		args = append(args, "--temperature", strconv.FormatFloat(*req.Temperature, 'f', -1, 64))
	}
	if a.support.MaxTokens && req.MaxTokens != nil {
		args = append(args, "--max-tokens", strconv.Itoa(*req.MaxTokens))
	}
	if a.support.TopP && req.TopP != nil {
		args = append(args, "--top-p", strconv.FormatFloat(*req.TopP, 'f', -1, 64))
	}
	return args
}

// HealthCheck probes the provider CLI with a trivial invocation.
func (a *CLIAdapter) HealthCheck(ctx context.Context) (HealthStatus, error) {
	if a.mockMode() {
		return HealthStatus{Healthy: true, LatencyMs: 0}, nil
	}

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(probeCtx, a.command, "--version")
	err := cmd.Run()
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return HealthStatus{Healthy: false, LatencyMs: latency}, nil
	}
	return HealthStatus{Healthy: true, LatencyMs: latency}, nil
}

// IsAvailable reports whether the provider is currently usable, probing
// with HealthCheck only when the adaptive availability cache has expired.
func (a *CLIAdapter) IsAvailable(ctx context.Context) bool {
	if available, fresh := a.availability.Get(); fresh {
		return available
	}
	status, err := a.HealthCheck(ctx)
	available := err == nil && status.Healthy
	a.availability.Record(available)
	a.log.Debug().Bool("available", available).Str("uptime", humanize.Ftoa(a.availability.Uptime()*100)+"%").Msg("provider adapter: availability probe")
	return available
}
