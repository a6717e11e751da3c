package service

import (
	"testing"

	"orderbot/internal/domain"
	"orderbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actions(v domain.View) []domain.Action {
	var out []domain.Action
	for _, row := range v.Rows {
		for _, b := range row {
			out = append(out, b.Action)
		}
	}
	return out
}

func TestNavigationService_MainMenu(t *testing.T) {
	nav := NewNavigationService(testutil.NewTestCatalog(t))

	view := nav.MainMenu()

	assert.Equal(t, TextMainMenu, view.Text)
	assert.Equal(t, []domain.Action{
		domain.ControlAction(domain.ControlBackCategory),
		domain.ControlAction(domain.ControlShoppingRequest),
		domain.ControlAction(domain.ControlSurpriseRequest),
		domain.ControlAction(domain.ControlCart),
	}, actions(view))
}

func TestNavigationService_CategoryList(t *testing.T) {
	nav := NewNavigationService(testutil.NewTestCatalog(t))

	view := nav.CategoryList()

	assert.Equal(t, TextCategoryList, view.Text)
	require.Len(t, view.Rows, 3)
	assert.Equal(t, "Супы", view.Rows[0][0].Label)
	assert.Equal(t, domain.ShowCategory("soups"), view.Rows[0][0].Action)
	assert.Equal(t, domain.ShowCategory("desserts"), view.Rows[1][0].Action)
	assert.Equal(t, domain.ControlAction(domain.ControlBackMain), view.Rows[2][0].Action)
}

func TestNavigationService_ItemList(t *testing.T) {
	nav := NewNavigationService(testutil.NewTestCatalog(t))

	view, err := nav.ItemList("soups")
	require.NoError(t, err)

	assert.Equal(t, "Выберите блюдо из Супы:", view.Text)
	assert.Equal(t, []domain.Action{
		domain.SelectItem("soups", "borscht"),
		domain.SelectItem("soups", "minestrone"),
		domain.ControlAction(domain.ControlCart),
		domain.ControlAction(domain.ControlBackCategory),
	}, actions(view))

	_, err = nav.ItemList("drinks")
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestNavigationService_CartView(t *testing.T) {
	nav := NewNavigationService(testutil.NewTestCatalog(t))

	empty := nav.CartView(nil)
	assert.Equal(t, TextCartEmpty, empty.Text)
	assert.Equal(t, []domain.Action{domain.ControlAction(domain.ControlBackCategory)}, actions(empty))

	full := nav.CartView([]string{"borscht", "minestrone", "borscht"})
	assert.Equal(t, "🧺 Ваша корзина:\nborscht\nminestrone\nborscht", full.Text)
	assert.Equal(t, []domain.Action{
		domain.ControlAction(domain.ControlSubmit),
		domain.ControlAction(domain.ControlClear),
		domain.ControlAction(domain.ControlBackCategory),
	}, actions(full))
}

func TestNavigationService_Notice(t *testing.T) {
	nav := NewNavigationService(testutil.NewTestCatalog(t))

	view := nav.Notice("готово")
	assert.Equal(t, "готово", view.Text)
	assert.Equal(t, []domain.Action{domain.ControlAction(domain.ControlBackMain)}, actions(view))
}
