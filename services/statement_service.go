package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/seguelaCedric/lighthouse-network/models"
)

// statementTemplatePath is relative to the working directory of the server
// process, matching how the template ships in the repository.
const statementTemplatePath = "templates/statement.html"

type statementLine struct {
	ReferralID string
	Milestone  string
	EarnedOn   string
	Amount     string
}

// GeneratePayoutStatement renders a PDF statement for a payout request,
// itemizing the rewards the request covers.
func GeneratePayoutStatement(payout *models.PayoutRequest, candidate *models.Candidate) ([]byte, error) {
	html, err := renderStatementHTML(payout, candidate)
	if err != nil {
		return nil, fmt.Errorf("rendering statement: %w", err)
	}
	return renderPDFFromHTML(html)
}

func renderStatementHTML(payout *models.PayoutRequest, candidate *models.Candidate) (string, error) {
	tmpl, err := template.ParseFiles(statementTemplatePath)
	if err != nil {
		return "", err
	}

	lines := make([]statementLine, 0, len(payout.Rewards))
	for _, reward := range payout.Rewards {
		lines = append(lines, statementLine{
			ReferralID: reward.ReferralID.String(),
			Milestone:  titleCase(string(reward.Milestone)),
			EarnedOn:   reward.CreatedAt.Format("2 Jan 2006"),
			Amount:     FormatCents(reward.AmountCents),
		})
	}

	processed := "pending"
	if payout.ProcessedAt != nil {
		processed = payout.ProcessedAt.Format("2 Jan 2006")
	}

	data := struct {
		Reference     string
		CandidateName string
		RequestedOn   string
		ProcessedOn   string
		Status        string
		Method        string
		Total         string
		Lines         []statementLine
		GeneratedOn   string
	}{
		Reference:     payout.ID.String(),
		CandidateName: candidate.FullName,
		RequestedOn:   payout.RequestedAt.Format("2 Jan 2006"),
		ProcessedOn:   processed,
		Status:        string(payout.Status),
		Method:        payout.Method,
		Total:         FormatCents(payout.AmountCents),
		Lines:         lines,
		GeneratedOn:   time.Now().Format("2 Jan 2006"),
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func renderPDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

// FormatCents renders an integer cent amount as a euro string, e.g. "€200.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s€%d.%02d", sign, cents/100, cents%100)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
