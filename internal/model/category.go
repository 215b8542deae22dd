package model

import (
	"bytes"
	"encoding/json"
)

// Category - справочник категорий, заполняется заранее на стороне хранилища
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type refShape int

const (
	refNone refShape = iota
	refSingle
	refList
)

// CategoryName - то, что хранилище встраивает в строку продукта при join
type CategoryName struct {
	Name string `json:"name"`
}

// CategoryRef представляет встроенную категорию продукта.
// Хранилище отдает ее либо объектом, либо массивом из одного элемента,
// поэтому форма запоминается при разборе и разрешается только в Name.
type CategoryRef struct {
	shape  refShape
	single CategoryName
	list   []CategoryName
}

// SingleCategory создает ссылку в форме объекта
func SingleCategory(name string) CategoryRef {
	return CategoryRef{shape: refSingle, single: CategoryName{Name: name}}
}

// CategoryList создает ссылку в форме массива
func CategoryList(names ...string) CategoryRef {
	list := make([]CategoryName, len(names))
	for i, n := range names {
		list[i] = CategoryName{Name: n}
	}
	return CategoryRef{shape: refList, list: list}
}

// NoCategory - отсутствующая связь
func NoCategory() CategoryRef {
	return CategoryRef{}
}

// Name возвращает отображаемое имя категории или fallback
func (r CategoryRef) Name(fallback string) string {
	switch r.shape {
	case refSingle:
		if r.single.Name != "" {
			return r.single.Name
		}
	case refList:
		if len(r.list) > 0 && r.list[0].Name != "" {
			return r.list[0].Name
		}
	}
	return fallback
}

func (r *CategoryRef) UnmarshalJSON(data []byte) error {
	*r = CategoryRef{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '{':
		var single CategoryName
		if err := json.Unmarshal(trimmed, &single); err != nil {
			// name другого типа: связь есть, имени нет
			*r = CategoryRef{shape: refSingle}
			return nil
		}
		*r = CategoryRef{shape: refSingle, single: single}
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil
		}
		list := make([]CategoryName, 0, len(raw))
		for _, item := range raw {
			var c CategoryName
			_ = json.Unmarshal(item, &c)
			list = append(list, c)
		}
		*r = CategoryRef{shape: refList, list: list}
	}
	// null и любые скаляры остаются пустой ссылкой
	return nil
}

func (r CategoryRef) MarshalJSON() ([]byte, error) {
	switch r.shape {
	case refSingle:
		return json.Marshal(r.single)
	case refList:
		return json.Marshal(r.list)
	default:
		return []byte("null"), nil
	}
}
