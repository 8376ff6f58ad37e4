package advisor

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/budgetwise/budgetwise/internal/domain"
)

// transformReceiptOutput converts the parsed model output into candidates.
func transformReceiptOutput(parsed interface{}) ([]*ReceiptCandidate, error) {
	items, ok := parsed.([]interface{})
	if !ok {
		return nil, fmt.Errorf("transformReceiptOutput: model output is %T, want []interface{}", parsed)
	}

	result := make([]*ReceiptCandidate, 0, len(items))

	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("transformReceiptOutput: element %d is %T, want map[string]interface{}", i, item)
		}

		dateStr, err := getStringField(obj, "date", true)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		desc, err := getStringField(obj, "description", true)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		typeStr, err := getStringField(obj, "type", true)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		category, err := getStringField(obj, "category", true)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		amount, err := getFloat64Field(obj, "amount", true)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}

		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: invalid date %q: %w", i, dateStr, err)
		}

		txType := domain.TransactionType(strings.ToLower(strings.TrimSpace(typeStr)))
		if txType != domain.TypeIncome && txType != domain.TypeExpense {
			return nil, fmt.Errorf("candidate %d: invalid type %q", i, typeStr)
		}

		dec := decimal.NewFromFloat(amount)
		if dec.IsNegative() {
			dec = dec.Neg()
		}

		result = append(result, &ReceiptCandidate{
			Date:         date,
			Description:  desc,
			Amount:       dec,
			Type:         txType,
			CategoryName: category,
		})
	}

	return result, nil
}

func getStringField(m map[string]interface{}, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return "", fmt.Errorf("missing required field %q", key)
		}
		return "", nil
	}
	switch val := v.(type) {
	case string:
		if required && strings.TrimSpace(val) == "" {
			return "", fmt.Errorf("required field %q is empty", key)
		}
		return val, nil
	default:
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
}

func getFloat64Field(m map[string]interface{}, key string, required bool) (float64, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return 0, fmt.Errorf("missing required field %q", key)
		}
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int: // unlikely from encoding/json, but harmless to support
		return float64(val), nil
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}
