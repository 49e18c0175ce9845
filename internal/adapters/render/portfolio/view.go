package portfolio

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Summary is the flattened portfolio view the renderer works with. The
// command layer fills it from the wallet endpoints.
type Summary struct {
	AccountID  string
	Email      string
	TotalValue float64
	Currency   string
	Cash       []CashBalance
	Holdings   []Holding
}

type CashBalance struct {
	Settlement string
	Currency   string
	Amount     float64
}

type Holding struct {
	Ticker     string
	Name       string
	Quantity   float64
	LastPrice  float64
	Value      float64
	PnLPercent float64
}

type RenderOptions struct {
	// BarWidth is the width of the allocation bar per holding. Zero hides
	// the bars.
	BarWidth int
}

func renderView(summary Summary, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Cocos Capital Portfolio"),
		s.header.Render(headerLine(summary)),
	}

	if len(summary.Holdings) == 0 && len(summary.Cash) == 0 {
		lines = append(lines, s.empty.Render("No holdings or cash balances."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	if len(summary.Cash) > 0 {
		lines = append(lines, s.section.Render(renderCash(summary.Cash, s)))
	}
	if len(summary.Holdings) > 0 {
		lines = append(lines, s.section.Render(renderHoldings(summary, opts, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func headerLine(summary Summary) string {
	account := summary.AccountID
	if account == "" {
		account = "unknown"
	}
	if summary.TotalValue > 0 {
		return fmt.Sprintf("account %s | total %s", account, formatAmount(summary.TotalValue, summary.Currency))
	}
	return fmt.Sprintf("account %s", account)
}

func renderCash(balances []CashBalance, s styles) string {
	parts := []string{s.label.Render("Cash")}
	for _, balance := range balances {
		line := lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.detail.Render(fmt.Sprintf("  %-5s", balance.Settlement)),
			s.detail.Render(formatAmount(balance.Amount, balance.Currency)),
		)
		parts = append(parts, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderHoldings(summary Summary, opts RenderOptions, s styles) string {
	parts := []string{s.label.Render("Holdings")}
	for _, holding := range summary.Holdings {
		parts = append(parts, renderHolding(holding, summary.TotalValue, opts, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderHolding(holding Holding, totalValue float64, opts RenderOptions, s styles) string {
	segments := []string{
		"  ",
		s.ticker.Render(fmt.Sprintf("%-8s", holding.Ticker)),
		" ",
		s.detail.Render(fmt.Sprintf("%10.2f x %12.2f", holding.Quantity, holding.LastPrice)),
		" ",
		s.meta.Render(fmt.Sprintf("= %14.2f", holding.Value)),
	}

	if opts.BarWidth > 0 && totalValue > 0 {
		share := holding.Value / totalValue * 100
		segments = append(segments, " ", renderAllocationBar(share, opts.BarWidth, s))
	}

	segments = append(segments, " ", renderPnL(holding.PnLPercent, s))

	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func renderPnL(percent float64, s styles) string {
	text := fmt.Sprintf("%+.2f%%", percent)
	if percent < 0 {
		return s.loss.Render(text)
	}
	return s.gain.Render(text)
}

func renderAllocationBar(sharePercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	share := clampPercent(sharePercent)
	filled := int(math.Round(float64(width) * share / 100))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	empty := width - filled
	fillSegment := s.barFill.Render(strings.Repeat("=", filled))
	emptySegment := s.barEmpty.Render(strings.Repeat("-", empty))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fillSegment,
		emptySegment,
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatAmount(amount float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}
