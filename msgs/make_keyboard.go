package msgs

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/zecpool/cloud-miner/assets"
)

/*
==================================================
		MarkUp
==================================================
*/

type MarkUp struct {
	Rows []Row
}

func NewMarkUp(rows ...Row) MarkUp {
	return MarkUp{
		Rows: rows,
	}
}

type Row struct {
	Buttons []Buttons
}

type Buttons interface {
	build() tgbotapi.KeyboardButton
}

func NewRow(buttons ...Buttons) Row {
	return Row{
		Buttons: buttons,
	}
}

func (m MarkUp) Build() tgbotapi.ReplyKeyboardMarkup {
	var replyMarkUp tgbotapi.ReplyKeyboardMarkup

	for _, row := range m.Rows {
		replyMarkUp.Keyboard = append(replyMarkUp.Keyboard,
			row.buildRow())
	}
	replyMarkUp.ResizeKeyboard = true
	return replyMarkUp
}

func (r Row) buildRow() []tgbotapi.KeyboardButton {
	var replyRow []tgbotapi.KeyboardButton

	for _, butt := range r.Buttons {
		replyRow = append(replyRow, butt.build())
	}
	return replyRow
}

type DataButton struct {
	textKey string
}

func NewDataButton(key string) DataButton {
	return DataButton{
		textKey: key,
	}
}

func (b DataButton) build() tgbotapi.KeyboardButton {
	return tgbotapi.NewKeyboardButton(assets.LangText(b.textKey))
}

/*
==================================================
		InlineMarkUp
==================================================
*/

type InlineMarkUp struct {
	Rows []InlineRow
}

func NewIlMarkUp(rows ...InlineRow) InlineMarkUp {
	return InlineMarkUp{
		Rows: rows,
	}
}

type InlineRow struct {
	Buttons []InlineButtons
}

type InlineButtons interface {
	build() tgbotapi.InlineKeyboardButton
}

func NewIlRow(buttons ...InlineButtons) InlineRow {
	return InlineRow{
		Buttons: buttons,
	}
}

func (m InlineMarkUp) Build() tgbotapi.InlineKeyboardMarkup {
	var markUp tgbotapi.InlineKeyboardMarkup

	for _, row := range m.Rows {
		markUp.InlineKeyboard = append(markUp.InlineKeyboard,
			row.buildRow())
	}
	return markUp
}

func (r InlineRow) buildRow() []tgbotapi.InlineKeyboardButton {
	var inlineRow []tgbotapi.InlineKeyboardButton

	for _, butt := range r.Buttons {
		inlineRow = append(inlineRow, butt.build())
	}
	return inlineRow
}

type InlineDataButton struct {
	text string
	data string
}

// NewIlDataButton builds a callback button; text is rendered verbatim,
// not looked up, because settle buttons carry dynamic labels.
func NewIlDataButton(text, data string) InlineDataButton {
	return InlineDataButton{
		text: text,
		data: data,
	}
}

func (b InlineDataButton) build() tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(b.text, b.data)
}

type InlineURLButton struct {
	textKey string
	url     string
}

func NewIlURLButton(key, url string) InlineURLButton {
	return InlineURLButton{
		textKey: key,
		url:     url,
	}
}

func (b InlineURLButton) build() tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonURL(assets.LangText(b.textKey), b.url)
}
