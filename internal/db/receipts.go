package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Receipt struct {
	ID            uuid.UUID        `json:"id"`
	MerchantName  string           `json:"merchant_name"`
	TotalAmount   *decimal.Decimal `json:"total_amount,omitempty"`
	Subtotal      *decimal.Decimal `json:"subtotal,omitempty"`
	TaxAmount     *decimal.Decimal `json:"tax_amount,omitempty"`
	ReceiptDate   string           `json:"receipt_date"`
	PaymentMethod string           `json:"payment_method"`
	ReceiptNumber string           `json:"receipt_number"`
	Address       string           `json:"address"`
	Phone         string           `json:"phone"`
	Category      string           `json:"category"`
	ItemsJSON     string           `json:"items_json"`
	OCRText       string           `json:"ocr_text"`
	OCRConfidence float64          `json:"ocr_confidence"`
	ImageURL      string           `json:"image_url"`
	UserID        uuid.UUID        `json:"user_id"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     *time.Time       `json:"updated_at,omitempty"`
}

func SaveReceipt(ctx context.Context, rec *Receipt) error {
	query := `
		INSERT INTO receipts (
			merchant_name, total_amount, subtotal, tax_amount,
			receipt_date, payment_method, receipt_number, address, phone,
			category, items, ocr_text, ocr_confidence, image_url, user_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at
	`

	err := Pool.QueryRow(ctx, query,
		rec.MerchantName, rec.TotalAmount, rec.Subtotal, rec.TaxAmount,
		rec.ReceiptDate, rec.PaymentMethod, rec.ReceiptNumber, rec.Address, rec.Phone,
		rec.Category, rec.ItemsJSON, rec.OCRText, rec.OCRConfidence, rec.ImageURL, rec.UserID,
	).Scan(&rec.ID, &rec.CreatedAt)

	return err
}

func GetReceipts(ctx context.Context, limit int) ([]Receipt, error) {
	query := `
		SELECT id, COALESCE(merchant_name, ''), total_amount, subtotal, tax_amount,
		       COALESCE(receipt_date, ''), COALESCE(payment_method, ''), COALESCE(receipt_number, ''),
		       COALESCE(address, ''), COALESCE(phone, ''), COALESCE(category, ''),
		       COALESCE(image_url, ''), created_at
		FROM receipts
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []Receipt
	for rows.Next() {
		var rec Receipt
		err := rows.Scan(
			&rec.ID, &rec.MerchantName, &rec.TotalAmount, &rec.Subtotal, &rec.TaxAmount,
			&rec.ReceiptDate, &rec.PaymentMethod, &rec.ReceiptNumber,
			&rec.Address, &rec.Phone, &rec.Category,
			&rec.ImageURL, &rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, rec)
	}

	return receipts, nil
}

// GetReceiptByID retrieves a single receipt by ID
func GetReceiptByID(ctx context.Context, receiptID string) (*Receipt, error) {
	query := `
		SELECT id, COALESCE(merchant_name, ''), total_amount, subtotal, tax_amount,
		       COALESCE(receipt_date, ''), COALESCE(payment_method, ''), COALESCE(receipt_number, ''),
		       COALESCE(address, ''), COALESCE(phone, ''), COALESCE(category, ''),
		       COALESCE(items::text, '[]'), COALESCE(ocr_text, ''), COALESCE(ocr_confidence, 0),
		       COALESCE(image_url, ''), COALESCE(user_id, '00000000-0000-0000-0000-000000000000'::uuid),
		       created_at, updated_at
		FROM receipts
		WHERE id = $1
	`

	var rec Receipt
	err := Pool.QueryRow(ctx, query, receiptID).Scan(
		&rec.ID, &rec.MerchantName, &rec.TotalAmount, &rec.Subtotal, &rec.TaxAmount,
		&rec.ReceiptDate, &rec.PaymentMethod, &rec.ReceiptNumber,
		&rec.Address, &rec.Phone, &rec.Category,
		&rec.ItemsJSON, &rec.OCRText, &rec.OCRConfidence,
		&rec.ImageURL, &rec.UserID,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// allowedUpdateFields lists the columns clients may modify
var allowedUpdateFields = map[string]bool{
	"merchant_name":  true,
	"total_amount":   true,
	"subtotal":       true,
	"tax_amount":     true,
	"receipt_date":   true,
	"payment_method": true,
	"receipt_number": true,
	"address":        true,
	"phone":          true,
	"category":       true,
	"items":          true,
}

// UpdateReceipt updates receipt fields
func UpdateReceipt(ctx context.Context, receiptID string, updates map[string]interface{}) error {
	// Build dynamic UPDATE query
	sets := []string{}
	args := []interface{}{}
	i := 1
	for key, value := range updates {
		if !allowedUpdateFields[key] {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", key, i))
		args = append(args, value)
		i++
	}

	if len(sets) == 0 {
		return fmt.Errorf("no updatable fields provided")
	}

	// Add updated_at
	sets = append(sets, fmt.Sprintf("updated_at = $%d", i))
	args = append(args, time.Now())
	i++

	// Add receipt ID as last parameter
	args = append(args, receiptID)

	query := fmt.Sprintf("UPDATE receipts SET %s WHERE id = $%d",
		strings.Join(sets, ", "), i)

	_, err := Pool.Exec(ctx, query, args...)
	return err
}

// DeleteReceipt removes a receipt
func DeleteReceipt(ctx context.Context, receiptID string) error {
	_, err := Pool.Exec(ctx, "DELETE FROM receipts WHERE id = $1", receiptID)
	return err
}

// CategoryTotal is the per-category breakdown for a stats period
type CategoryTotal struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

// MonthlyStats represents monthly statistics
type MonthlyStats struct {
	Month         string          `json:"month"`
	TotalReceipts int             `json:"total_receipts"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	ByCategory    []CategoryTotal `json:"by_category"`
}

// GetMonthlyStats returns statistics for the current month
func GetMonthlyStats(ctx context.Context) (*MonthlyStats, error) {
	stats := &MonthlyStats{
		Month: time.Now().Format("2006-01"),
	}

	query := `
		SELECT
			COUNT(*) as total_receipts,
			COALESCE(SUM(total_amount), 0) as total_spent,
			COALESCE(SUM(tax_amount), 0) as total_tax
		FROM receipts
		WHERE DATE_TRUNC('month', created_at) = DATE_TRUNC('month', CURRENT_DATE)
	`

	err := Pool.QueryRow(ctx, query).Scan(
		&stats.TotalReceipts,
		&stats.TotalSpent,
		&stats.TotalTax,
	)
	if err != nil {
		return nil, err
	}

	categoryQuery := `
		SELECT COALESCE(category, 'general'), COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM receipts
		WHERE DATE_TRUNC('month', created_at) = DATE_TRUNC('month', CURRENT_DATE)
		GROUP BY category
		ORDER BY SUM(total_amount) DESC NULLS LAST
	`

	rows, err := Pool.Query(ctx, categoryQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Count, &ct.Total); err != nil {
			return nil, err
		}
		stats.ByCategory = append(stats.ByCategory, ct)
	}

	return stats, nil
}
