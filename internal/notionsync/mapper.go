package notionsync

import (
	"time"

	"github.com/jomei/notionapi"

	"github.com/budgetwise/budgetwise/internal/domain"
)

// TransactionToNotionProperties maps a transaction to the Notion page
// properties of the export database. Amounts are signed the way the
// balance engine applies them: expenses negative, income positive.
func TransactionToNotionProperties(tx *domain.Transaction, accountName string) notionapi.Properties {
	props := notionapi.Properties{
		"Description": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: tx.Description,
					},
				},
			},
		},
		"Date": notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: func() *notionapi.Date {
					d := notionapi.Date(time.Date(
						tx.Date.Year(),
						tx.Date.Month(),
						tx.Date.Day(),
						0, 0, 0, 0, time.UTC,
					))
					return &d
				}(),
			},
		},
		"Amount": notionapi.NumberProperty{
			Number: tx.Delta().InexactFloat64(),
		},
		"Type": notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: string(tx.Type),
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
	}

	if accountName != "" {
		props["Account"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: accountName,
			},
		}
	}

	if tx.CategoryName != "" {
		props["Category"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: tx.CategoryName,
			},
		}
	}

	props["Imported At"] = notionapi.DateProperty{
		Date: &notionapi.DateObject{
			Start: (*notionapi.Date)(&tx.CreatedTS),
		},
	}

	return props
}

// extractTransactionID reads the mirrored transaction ID off a Notion page.
func extractTransactionID(page notionapi.Page) string {
	if prop, ok := page.Properties["Transaction ID"]; ok {
		if richText, ok := prop.(*notionapi.RichTextProperty); ok {
			if len(richText.RichText) > 0 {
				return richText.RichText[0].PlainText
			}
		}
	}
	return ""
}
