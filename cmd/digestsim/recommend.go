package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"digestsim/internal/assist"
	"digestsim/internal/session"
)

var recommendKinetics bool

// recommendCmd asks the AI assistant for parameter recommendations and merges
// whatever survives extraction into the session.
var recommendCmd = &cobra.Command{
	Use:   "recommend [feedstock description]",
	Short: "Recommend parameters from a feedstock description",
	Long: `Sends the feedstock description to the AI assistant and merges the
recommended parameter values into the session as overrides.

Each recommendation carries an explanation; view them with
'digestsim show params'. Malformed or unknown entries in the response are
dropped, never guessed at.

Example:
  digestsim recommend "dairy manure co-digested with 20% cheese whey"
  digestsim recommend --kinetics "maize silage, mesophilic"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().BoolVar(&recommendKinetics, "kinetics", false,
		"Also recommend kinetic parameters and enable them for runs")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.AIEnabled() {
		return fmt.Errorf("no Gemini API key configured (set GEMINI_API_KEY or --api-key)")
	}

	sess, err := session.Load(workspace)
	if err != nil {
		return err
	}

	description := strings.Join(args, " ")
	client := assist.NewGeminiClient(assist.GeminiConfig{
		APIKey:       cfg.AI.APIKey,
		BaseURL:      cfg.AI.BaseURL,
		Model:        cfg.AI.Model,
		Timeout:      cfg.AITimeout(),
		EnableSearch: cfg.AI.EnableSearch,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.AITimeout())
	defer cancel()

	logger.Info("requesting recommendations",
		zap.String("model", cfg.AI.Model), zap.Bool("kinetics", recommendKinetics))
	fmt.Println("Asking the assistant, this can take a minute...")

	raw, err := assist.NewRecommender(client).Recommend(ctx, description, recommendKinetics)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	ex := assist.Extract(raw, recommendKinetics)
	sess.ApplyExtraction(ex, raw)
	if recommendKinetics && len(ex.KineticValues) > 0 {
		sess.UseKinetics = true
	}
	if err := sess.Save(workspace); err != nil {
		return err
	}

	fmt.Printf("Merged %d feedstock and %d kinetic recommendations.\n",
		len(ex.FeedstockValues), len(ex.KineticValues))
	if len(ex.FeedstockValues) == 0 && len(ex.KineticValues) == 0 {
		fmt.Println("No usable values found in the response; see 'digestsim show ai' for the raw text.")
		return nil
	}

	printRecommendations("Feedstock", ex.FeedstockValues, ex.FeedstockNotes)
	printRecommendations("Kinetics", ex.KineticValues, ex.KineticNotes)
	return nil
}

func printRecommendations(heading string, values map[string]float64, notes map[string]string) {
	if len(values) == 0 {
		return
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("\n%s:\n", heading)
	for _, name := range names {
		fmt.Printf("  %-10s %12.6g  %s\n", name, values[name], notes[name])
	}
}
