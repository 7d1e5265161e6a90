package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minji/jobradar/internal/cvparse"
)

var parseCVCmd = &cobra.Command{
	Use:   "parse-cv",
	Short: "Extract a candidate profile patch from a CV text file",
	Long:  "Send CV text to the Gemini API and print the extracted profile patch as JSON. The patch can then be applied with PUT /profile.",
	RunE:  runParseCV,
}

var (
	parseCVInput  string
	parseCVAPIKey string
)

func init() {
	parseCVCmd.Flags().StringVarP(&parseCVInput, "in", "i", "", "Path to a plain-text CV file (required)")
	parseCVCmd.Flags().StringVar(&parseCVAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	_ = parseCVCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(parseCVCmd)
}

func runParseCV(_ *cobra.Command, _ []string) error {
	apiKey := parseCVAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	text, err := os.ReadFile(parseCVInput)
	if err != nil {
		return fmt.Errorf("failed to read CV file: %w", err)
	}

	ctx := context.Background()
	parser, err := cvparse.NewGeminiParser(ctx, apiKey, os.Getenv("GEMINI_MODEL"))
	if err != nil {
		return err
	}
	defer parser.Close()

	patch, err := parser.ParseResume(ctx, string(text))
	if err != nil {
		return fmt.Errorf("failed to parse CV: %w", err)
	}

	out, err := json.MarshalIndent(patch, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
