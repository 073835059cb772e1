package notifier

import (
	"context"
	"fmt"
	"strings"

	"ShareEvaluator/internal/analyzer"
)

// Analyst is the part of the analyzer the bot talks to.
type Analyst interface {
	Analyze(ctx context.Context, query string) (*analyzer.Outcome, error)
	AnalyzeTicker(ctx context.Context, ticker string) (*analyzer.Outcome, error)
	Strategy() string
}

const helpText = `📘 <b>Share evaluator</b>

/analyze &lt;company or ticker&gt; - evaluate a share
/pick &lt;ticker&gt; - evaluate one of the suggested tickers
/strategy - show the scoring strategy
/help - this message

Plain text is treated as /analyze.`

// NewCommandHandler routes bot commands to a. Every message is handled on
// its own; nothing is remembered between messages.
func NewCommandHandler(a Analyst) CommandHandler {
	return func(ctx context.Context, text string) string {
		cmd, arg := splitCommand(text)
		switch cmd {
		case "/start", "/help":
			return helpText
		case "/strategy":
			return fmt.Sprintf("⚙️ Scoring strategy: <b>%s</b>", esc(a.Strategy()))
		case "/analyze", "":
			if arg == "" {
				return "Usage: /analyze &lt;company or ticker&gt;"
			}
			out, err := a.Analyze(ctx, arg)
			if err != nil {
				return FormatError(err)
			}
			return FormatOutcome(out)
		case "/pick":
			if arg == "" {
				return "Usage: /pick &lt;ticker&gt;"
			}
			out, err := a.AnalyzeTicker(ctx, arg)
			if err != nil {
				return FormatError(err)
			}
			return FormatOutcome(out)
		default:
			return fmt.Sprintf("Unknown command %s. Send /help for the list.", esc(cmd))
		}
	}
}

// splitCommand separates "/cmd@bot args" into "/cmd" and "args". Text
// without a leading slash has an empty command.
func splitCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd, arg, _ = strings.Cut(text, " ")
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}
