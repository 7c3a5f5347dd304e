package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/etkinlik-toplayici/etkinlik/internal/datenorm"
	"github.com/etkinlik-toplayici/etkinlik/internal/logger"
)

// normalizeResult is the structured output of the normalize command.
type normalizeResult struct {
	Input      string            `json:"input" yaml:"input"`
	Policy     string            `json:"policy" yaml:"policy"`
	Result     string            `json:"result" yaml:"result"`
	Recognized bool              `json:"recognized" yaml:"recognized"`
	Candidates []candidateOutput `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

type candidateOutput struct {
	Day     int    `json:"day" yaml:"day"`
	Month   string `json:"month" yaml:"month"`
	Order   string `json:"order" yaml:"order"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
	Outcome string `json:"outcome" yaml:"outcome"`
}

func (a *app) normalizeCmd() *cobra.Command {
	var (
		policyName string
		format     string
		explain    bool
	)

	cmd := &cobra.Command{
		Use:   "normalize <text>...",
		Short: "Normalize a Turkish date text to DD.MM.YYYY",
		Long: `Normalize a free-form Turkish date text the way listing dates are
normalized during scraping. Arguments are joined with spaces.

Text without a recognizable date is printed unchanged.`,
		Example: `  etkinlik normalize "Kasım - 28 Ocak - 31"
  etkinlik normalize --policy bubilet --now 15.11.2024 Cumartesi, 28 Kasım 20:30
  etkinlik normalize --explain --format json "31 Nisan, 2 Mayıs"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := a.policy(policyName)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			norm := datenorm.New(policy)
			out, ok := norm.Normalize(text, a.now)
			if !ok {
				return fmt.Errorf("nothing to normalize")
			}

			res := normalizeResult{
				Input:  text,
				Policy: strings.ToLower(policyName),
				Result: out,
			}
			for _, r := range norm.Explain(text, a.now) {
				if r.OK() {
					res.Recognized = true
				}
				if explain {
					c := candidateOutput{Day: r.Day, Month: r.Month, Order: r.Order.String(), Outcome: r.Reason.String()}
					if r.OK() {
						c.Date = r.Date.Format(datenorm.Layout)
					}
					res.Candidates = append(res.Candidates, c)
				}
			}
			if !res.Recognized {
				logger.IncrCounter("datenorm.unparsed")
				a.log.Debug("no date recognized", logger.Fields{"input": text, "policy": res.Policy})
			}

			switch OutputFormat(strings.ToLower(format)) {
			case FormatJSON:
				return writeJSON(a.stdout, res)
			case FormatYAML:
				return writeYAML(a.stdout, res)
			case FormatText:
				writeNormalizeText(a, res)
				return nil
			default:
				return fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'yaml')", format)
			}
		},
	}

	cmd.Flags().StringVarP(&policyName, "policy", "p", "biletinial", "Date policy: "+strings.Join(datenorm.PolicyNames(), ", "))
	cmd.Flags().StringVarP(&format, "format", "f", string(FormatText), "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show every (day, month) candidate and what happened to it")

	return cmd
}

// policy resolves a preset name with the config file's overrides applied.
func (a *app) policy(name string) (datenorm.Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "biletinial":
		return a.cfg.BiletinialPolicy(), nil
	case "bubilet":
		return a.cfg.BubiletPolicy(), nil
	}
	return datenorm.PolicyByName(name)
}

func writeNormalizeText(a *app, res normalizeResult) {
	st := newStyles(isTerminal(a.stdout))

	if res.Recognized {
		fmt.Fprintln(a.stdout, st.date(res.Result))
	} else {
		fmt.Fprintln(a.stdout, res.Result)
	}

	for _, c := range res.Candidates {
		outcome := c.Outcome
		if c.Date != "" {
			outcome = c.Date
		}
		fmt.Fprintf(a.stdout, "  %-11s %2d %-8s -> %s\n", c.Order, c.Day, c.Month, st.muted(outcome))
	}
}
