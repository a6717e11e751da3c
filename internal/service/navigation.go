package service

import (
	"fmt"
	"strings"

	"orderbot/internal/domain"
)

// View texts and button labels
const (
	TextMainMenu     = "Главное меню:"
	TextCategoryList = "Выберите категорию:"
	TextItemList     = "Выберите блюдо из %s:"
	TextCartHeader   = "🧺 Ваша корзина:"
	TextCartEmpty    = "Ваша корзина пуста."

	labelBrowse   = "🍽 Что приготовить"
	labelShopping = "🛒 Список покупок"
	labelSurprise = "🎁 Сюрприз"
	labelMyCart   = "🧺 Моя корзина"
	labelToCart   = "🧺 В корзину"
	labelSubmit   = "Отправить заказ"
	labelClear    = "Очистить корзину"
	labelBack     = "⬅ Назад"
)

// NavigationService derives views from the catalog. It holds no per-user state.
type NavigationService struct {
	catalog *domain.Catalog
}

// NewNavigationService creates a new navigation service
func NewNavigationService(catalog *domain.Catalog) *NavigationService {
	return &NavigationService{catalog: catalog}
}

// MainMenu returns the four-action entry view
func (s *NavigationService) MainMenu() domain.View {
	return domain.View{
		Text: TextMainMenu,
		Rows: [][]domain.Button{
			domain.Row(control(labelBrowse, domain.ControlBackCategory)),
			domain.Row(control(labelShopping, domain.ControlShoppingRequest)),
			domain.Row(control(labelSurprise, domain.ControlSurpriseRequest)),
			domain.Row(control(labelMyCart, domain.ControlCart)),
		},
	}
}

// CategoryList returns one action per category plus a way back
func (s *NavigationService) CategoryList() domain.View {
	categories := s.catalog.Categories()
	rows := make([][]domain.Button, 0, len(categories)+1)
	for _, cat := range categories {
		rows = append(rows, domain.Row(domain.Button{
			Label:  cat.Title,
			Action: domain.ShowCategory(cat.Key),
		}))
	}
	rows = append(rows, domain.Row(control(labelBack, domain.ControlBackMain)))

	return domain.View{Text: TextCategoryList, Rows: rows}
}

// ItemList returns the items of a category
func (s *NavigationService) ItemList(categoryKey string) (domain.View, error) {
	cat, ok := s.catalog.Category(categoryKey)
	if !ok {
		return domain.View{}, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, categoryKey)
	}

	rows := make([][]domain.Button, 0, len(cat.Items)+2)
	for _, item := range cat.Items {
		rows = append(rows, domain.Row(domain.Button{
			Label:  item,
			Action: domain.SelectItem(cat.Key, item),
		}))
	}
	rows = append(rows,
		domain.Row(control(labelToCart, domain.ControlCart)),
		domain.Row(control(labelBack, domain.ControlBackCategory)),
	)

	return domain.View{Text: fmt.Sprintf(TextItemList, cat.Title), Rows: rows}, nil
}

// CartView lists the cart in insertion order
func (s *NavigationService) CartView(items []string) domain.View {
	if len(items) == 0 {
		return domain.View{
			Text: TextCartEmpty,
			Rows: [][]domain.Button{
				domain.Row(control(labelBack, domain.ControlBackCategory)),
			},
		}
	}

	return domain.View{
		Text: TextCartHeader + "\n" + strings.Join(items, "\n"),
		Rows: cartRows(),
	}
}

// CartControls returns the cart actions with a custom body
func (s *NavigationService) CartControls(text string) domain.View {
	return domain.View{Text: text, Rows: cartRows()}
}

// Notice returns a plain message with a way back to the main menu
func (s *NavigationService) Notice(text string) domain.View {
	return domain.View{
		Text: text,
		Rows: [][]domain.Button{
			domain.Row(control(labelBack, domain.ControlBackMain)),
		},
	}
}

func cartRows() [][]domain.Button {
	return [][]domain.Button{
		domain.Row(control(labelSubmit, domain.ControlSubmit)),
		domain.Row(control(labelClear, domain.ControlClear)),
		domain.Row(control(labelBack, domain.ControlBackCategory)),
	}
}

func control(label string, c domain.Control) domain.Button {
	return domain.Button{Label: label, Action: domain.ControlAction(c)}
}
