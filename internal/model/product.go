package model

// Product - строка для вставки в таблицу продуктов
type Product struct {
	ID         int64   `json:"id,omitempty"`
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	CategoryID int64   `json:"category_id"`
}

// ProductRow - строка продукта в том виде, в каком ее читает хранилище.
// Quantity и Price не типизированы: хранилище может прислать число,
// строку или null, приведение делает SafeNumeric.
type ProductRow struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Quantity interface{} `json:"quantity"`
	Price    interface{} `json:"price"`
	Category CategoryRef `json:"category"`
}

// Record - плоская запись для таблицы, экспорта и агрегатов
type Record struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}
