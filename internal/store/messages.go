package store

import "strings"

// Messages are the user-facing strings handed to the Notifier.
type Messages struct {
	OutOfStock   string
	AddFailed    string
	RemoveFailed string
	UpdateFailed string
	ClearFailed  string
}

var EnglishMessages = Messages{
	OutOfStock:   "Requested quantity is out of stock",
	AddFailed:    "Error adding product",
	RemoveFailed: "Error removing product",
	UpdateFailed: "Error updating product quantity",
	ClearFailed:  "Error clearing cart",
}

var PortugueseMessages = Messages{
	OutOfStock:   "Quantidade solicitada fora de estoque",
	AddFailed:    "Erro na adição do produto",
	RemoveFailed: "Erro na remoção do produto",
	UpdateFailed: "Erro na alteração de quantidade do produto",
	ClearFailed:  "Erro ao esvaziar o carrinho",
}

// MessagesFor picks the message set for a locale tag such as "pt-BR". Unknown tags get English.
func MessagesFor(locale string) Messages {
	lang, _, _ := strings.Cut(strings.ToLower(locale), "-")
	lang, _, _ = strings.Cut(lang, "_")
	switch lang {
	case "pt":
		return PortugueseMessages
	default:
		return EnglishMessages
	}
}
