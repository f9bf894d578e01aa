package executor

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"

	"neurones/internal/agent"
	"neurones/internal/errors"
)

// Stream runs one agent invocation and yields its stdout incrementally,
// line by line, in the order the bytes were produced. The returned channel
// closes when the process exits or the context is canceled. Streamed
// invocations are never retried; callers wanting the rate-limit retry loop
// use RunSingle instead.
func (e *Executor) Stream(ctx context.Context, agentName, prompt string, opts agent.Options) (<-chan string, error) {
	ad, ok := e.adapters[agentName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnknownAgent, agentName)
	}

	argv := ad.BuildCommand(prompt, opts)

	streamCtx, cancel := context.WithTimeout(ctx, ad.Timeout())
	cmd := exec.CommandContext(streamCtx, argv[0], argv[1:]...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, errors.NewAgentError(agentName, "stream start", err)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		defer cancel()

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-streamCtx.Done():
				// Receiver gone or timed out; CommandContext kills the
				// process, Wait reaps it.
				_ = cmd.Wait()
				return
			}
		}

		if err := cmd.Wait(); err != nil {
			e.log.Warn("streamed agent exited with error", "agent", agentName, "error", err)
		}
	}()

	return lines, nil
}
