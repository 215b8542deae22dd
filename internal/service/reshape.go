package service

import "github.com/ivanoskov/warehouse/internal/model"

// DefaultMissingCategoryLabel - подпись для продукта без категории
const DefaultMissingCategoryLabel = "None"

// Reshape превращает строки хранилища в плоские записи.
// Продукт без категории не отбрасывается, а получает подпись missingLabel.
func Reshape(rows []model.ProductRow, missingLabel string) []model.Record {
	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		quantity := model.SafeNumeric(row.Quantity, 0)
		price := model.SafeNumeric(row.Price, 0)

		records = append(records, model.Record{
			ID:       row.ID,
			Name:     row.Name,
			Quantity: quantity,
			Price:    price,
			Category: row.Category.Name(missingLabel),
			Value:    price * quantity,
		})
	}
	return records
}
