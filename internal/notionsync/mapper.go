package notionsync

import (
	"time"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/reward-tracker/internal/domain"
)

// TransactionToNotionProperties converts a transaction to Notion page
// properties. The Transaction ID property is used for idempotency on
// later syncs.
func TransactionToNotionProperties(tx domain.Transaction) notionapi.Properties {
	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.Name,
					},
				},
			},
		},
		"Transaction ID": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.ID,
					},
				},
			},
		},
		"Amount": notionapi.NumberProperty{
			Number: tx.Amount,
		},
	}

	if tx.Category != "" {
		props["Category"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: tx.Category,
			},
		}
	}

	if parsed, err := time.Parse("2006-01-02", tx.Date); err == nil {
		d := notionapi.Date(parsed)
		props["Date"] = notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: &d,
			},
		}
	}

	if tx.NecessityScore != nil {
		props["Necessity Score"] = notionapi.NumberProperty{
			Number: *tx.NecessityScore,
		}
	}

	return props
}

// extractTransactionID reads the Transaction ID property back from a
// Notion page, returning "" when the property is missing or empty.
func extractTransactionID(page notionapi.Page) string {
	prop, ok := page.Properties["Transaction ID"]
	if !ok {
		return ""
	}
	richText, ok := prop.(*notionapi.RichTextProperty)
	if !ok || len(richText.RichText) == 0 {
		return ""
	}
	return richText.RichText[0].PlainText
}
