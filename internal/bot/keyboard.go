package bot

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ivanoskov/warehouse/internal/model"
)

// Кнопки главного меню
const (
	buttonProducts   = "📦 Товары"
	buttonAdd        = "➕ Добавить"
	buttonChart      = "📊 График"
	buttonExport     = "📄 Экспорт"
	buttonCategories = "📋 Категории"
	buttonRefresh    = "🔄 Обновить"
)

// Префиксы callback данных
const (
	callbackCategory = "cat_"
	callbackDelete   = "del_"
)

func (b *Bot) getMainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonProducts),
			tgbotapi.NewKeyboardButton(buttonAdd),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonChart),
			tgbotapi.NewKeyboardButton(buttonExport),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonCategories),
			tgbotapi.NewKeyboardButton(buttonRefresh),
		),
	)
}

func (b *Bot) getCategoriesKeyboard(categories []model.Category) tgbotapi.InlineKeyboardMarkup {
	var buttons [][]tgbotapi.InlineKeyboardButton

	for _, category := range categories {
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(
				category.Name,
				callbackCategory+strconv.FormatInt(category.ID, 10),
			),
		})
	}

	return tgbotapi.NewInlineKeyboardMarkup(buttons...)
}

func (b *Bot) getProductKeyboard(id int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", callbackDelete+strconv.FormatInt(id, 10)),
		),
	)
}
