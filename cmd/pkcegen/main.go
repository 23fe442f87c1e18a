// Command pkcegen prints freshly generated PKCE pairs as JSON lines.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"pkcegen/pkg/logger"
	"pkcegen/pkg/pkce"
)

type output struct {
	CodeVerifier        string `json:"code_verifier"`
	CodeChallenge       string `json:"code_challenge"`
	CodeChallengeMethod string `json:"code_challenge_method"`
}

func main() {
	count := flag.Int("n", 1, "number of pairs to generate")
	flag.Parse()

	zlog := logger.NewWithWriter(os.Getenv("APP_ENV"), os.Stderr)

	if err := run(context.Background(), pkce.New(), *count, os.Stdout); err != nil {
		zlog.Error(context.Background(), "pkce generation failed", logger.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
}

func run(ctx context.Context, generator *pkce.Generator, count int, w io.Writer) error {
	if count < 1 {
		return fmt.Errorf("-n must be at least 1, got %d", count)
	}

	enc := json.NewEncoder(w)
	for i := 0; i < count; i++ {
		codes, err := generator.GenerateCodes(ctx)
		if err != nil {
			return err
		}
		if err := enc.Encode(output{
			CodeVerifier:        codes.Verifier(),
			CodeChallenge:       codes.Challenge(),
			CodeChallengeMethod: codes.Method(),
		}); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
