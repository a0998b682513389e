// cmd/tools/score-calculator/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"purpose-workers/internal/assessment/catalog"
	"purpose-workers/internal/assessment/exchange"
	"purpose-workers/internal/assessment/scoring"
	"purpose-workers/internal/models"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		help(out)
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "score":
		return scoreCmd(args[1:], out)
	case "verify":
		return verifyCmd(args[1:], out)
	case "schema":
		return writeJSON(out, exchange.PayloadSchema())
	case "catalog":
		return catalogCmd(out)
	case "help", "-h", "--help":
		help(out)
		return nil
	default:
		help(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func scoreCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	candidateID := fs.String("candidate", "", "Candidate identifier")
	answersPath := fs.String("answers", "", "Path to an answers JSON file (keyed by question ID or a list per question)")
	at := fs.String("now", "", "Computation time in RFC3339 (default: current time)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *candidateID == "" || *answersPath == "" {
		fs.Usage()
		return fmt.Errorf("candidate and answers are required for score")
	}

	now := time.Now()
	if *at != "" {
		parsed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("invalid -now: %w", err)
		}
		now = parsed
	}

	data, err := os.ReadFile(*answersPath)
	if err != nil {
		return fmt.Errorf("read answers: %w", err)
	}
	answers, err := decodeAnswers(data)
	if err != nil {
		return err
	}

	result, err := scoring.ScoreSubmission(*candidateID, answers, now)
	if err != nil {
		return err
	}
	return writeJSON(out, exchange.ToExchangePayload(result))
}

func verifyCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	payloadPath := fs.String("payload", "", "Path to an exchange payload JSON file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *payloadPath == "" {
		fs.Usage()
		return fmt.Errorf("payload is required for verify")
	}

	data, err := os.ReadFile(*payloadPath)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}
	result, err := exchange.DecodeJSON(data)
	if err != nil {
		return err
	}

	// The stored score must match what the current catalog computes.
	if err := scoring.NewEngine(nil).Verify(result); err != nil {
		return err
	}

	fmt.Fprintf(out, "OK %s %d %s\n", result.CandidateID, result.TotalScore, result.Tier)
	return nil
}

func catalogCmd(out io.Writer) error {
	c := catalog.Default()
	fmt.Fprintf(out, "catalog %s\n", c.Version())
	for qi, q := range c.Questions() {
		fmt.Fprintf(out, "\n[%d] %s: %s\n", qi, q.ID, q.Title)
		for oi, label := range q.Options {
			weight := c.Weight(qi, label)
			if qi == catalog.QuestionStatements {
				weight = c.StatementWeight(oi)
			}
			fmt.Fprintf(out, "  %2d  %-40s %d\n", oi, label, weight)
		}
	}
	return nil
}

// decodeAnswers accepts either a list per question or an object keyed by
// question ID.
func decodeAnswers(data []byte) (models.AnswerSet, error) {
	var listed [][]int
	if err := json.Unmarshal(data, &listed); err == nil {
		return models.AnswerSet(listed), nil
	}

	var keyed map[string][]int
	if err := json.Unmarshal(data, &keyed); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}

	questions := catalog.Default().Questions()
	answers := make(models.AnswerSet, len(questions))
	for i, q := range questions {
		answers[i] = keyed[q.ID]
	}
	return answers, nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func help(out io.Writer) {
	fmt.Fprintln(out, "Usage: score-calculator <command> [options]")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  score   -candidate <id> -answers <file> [-now <RFC3339>]  Score an answers file and print the exchange payload")
	fmt.Fprintln(out, "  verify  -payload <file>                                   Validate a payload and re-check its score")
	fmt.Fprintln(out, "  schema                                                    Print the payload JSON schema")
	fmt.Fprintln(out, "  catalog                                                   Print questions and weights")
}
