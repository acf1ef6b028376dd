// Command demo runs the content pipeline against whichever provider has
// an API key in the environment, streaming progress events as it goes.
// Without any key it runs entirely on deterministic fallbacks.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/kestrelworks/loom"
	"github.com/kestrelworks/loom/event"
	"github.com/kestrelworks/loom/pipeline"
	"github.com/kestrelworks/loom/provider/anthropic"
	"github.com/kestrelworks/loom/provider/google"
	"github.com/kestrelworks/loom/provider/openai"
)

func main() {
	godotenv.Load()
	ctx := context.Background()

	topic := flag.String("topic", "error handling patterns in Go", "topic to write about")
	threshold := flag.Int("threshold", pipeline.DefaultThreshold, "approval score")
	maxIter := flag.Int("max-iterations", pipeline.DefaultMaxIterations, "review loop ceiling")
	flag.Parse()

	opts := []pipeline.Option{
		pipeline.WithThreshold(*threshold),
		pipeline.WithMaxIterations(*maxIter),
		pipeline.WithRateLimiter(rate.NewLimiter(rate.Every(time.Second), 3)),
	}

	gen, name := selectGenerator(ctx)
	if gen != nil {
		fmt.Printf("Using %s\n\n", name)
		opts = append(opts, pipeline.WithGenerator(gen))
	} else {
		fmt.Println("No provider key found; running with deterministic fallbacks")
	}

	p := pipeline.New(opts...)
	events, results := p.RunStream(ctx, *topic)

	for ev := range events {
		switch ev.Type {
		case event.StepStart:
			fmt.Printf("-> %s\n", ev.StepID)
		case event.StepProgress:
			fmt.Printf("   %v\n", ev.Payload)
		case event.RetryAttempt:
			fmt.Printf("   retry %d for %s\n", ev.Attempt, ev.StepID)
		case event.StepError:
			fmt.Printf("   %s failed: %v\n", ev.StepID, ev.Error)
		}
	}

	res := <-results
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", res.Err)
		os.Exit(1)
	}
	fmt.Printf("\nrun %s finished\n%v\n", res.RunID, res.Output)
}

func selectGenerator(ctx context.Context) (loom.Generator, string) {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return anthropic.New(anthropic.WithAPIKey(key)), "Anthropic"
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return openai.New(key), "OpenAI"
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		client, err := google.New(ctx, key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "google client error: %v\n", err)
			return nil, ""
		}
		return client, "Google"
	}
	return nil, ""
}
