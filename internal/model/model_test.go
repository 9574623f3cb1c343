package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RechkalovAA/weblarek/internal/domain"
	apperrors "github.com/RechkalovAA/weblarek/pkg/errors"
)

// recorder captures published events.
type recorder struct {
	events []domain.Event
}

func (r *recorder) Publish(ev domain.Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) last() domain.Event {
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

var (
	productA = domain.Product{ID: "a", Title: "HEX-leaf", Price: domain.Price(100)}
	productB = domain.Product{ID: "b", Title: "Mithril", Price: nil}
	productC = domain.Product{ID: "c", Title: "Fish", Price: domain.Price(150)}
)

// ============================================================================
// Catalog
// ============================================================================

func TestCatalog_SetItemsPublishesCopy(t *testing.T) {
	rec := &recorder{}
	c := NewCatalog(rec)
	items := []domain.Product{productA, productB}

	c.SetItems(items)

	require.Len(t, rec.events, 1)
	changed, ok := rec.last().(domain.CatalogChanged)
	require.True(t, ok)
	assert.Equal(t, items, changed.Items)

	// Mutating the caller's slice does not leak into the catalog.
	items[0].Title = "mutated"
	assert.Equal(t, "HEX-leaf", c.Items()[0].Title)
}

func TestCatalog_ItemsReturnsCopy(t *testing.T) {
	c := NewCatalog(&recorder{})
	c.SetItems([]domain.Product{productA})

	got := c.Items()
	got[0].Title = "changed"

	assert.Len(t, c.Items(), 1)
	assert.Equal(t, "HEX-leaf", c.Items()[0].Title)
}

func TestCatalog_ItemsEmpty(t *testing.T) {
	c := NewCatalog(&recorder{})
	assert.NotNil(t, c.Items())
	assert.Empty(t, c.Items())
}

func TestCatalog_ProductByID(t *testing.T) {
	c := NewCatalog(&recorder{})
	c.SetItems([]domain.Product{productA, productB})

	p, ok := c.ProductByID("b")
	assert.True(t, ok)
	assert.Equal(t, "Mithril", p.Title)

	_, ok = c.ProductByID("zzz")
	assert.False(t, ok)
}

func TestCatalog_Preview(t *testing.T) {
	rec := &recorder{}
	c := NewCatalog(rec)

	_, ok := c.Preview()
	assert.False(t, ok)

	c.SetPreview(productA)
	c.SetPreview(productC)

	p, ok := c.Preview()
	assert.True(t, ok)
	assert.Equal(t, "c", p.ID)
	require.Len(t, rec.events, 2)
	assert.Equal(t, domain.PreviewChanged{Product: productC}, rec.last())
}

// ============================================================================
// Basket
// ============================================================================

func TestBasket_TotalSkipsNullPrice(t *testing.T) {
	b := NewBasket(&recorder{})
	b.AddItem(productA)
	b.AddItem(productB)

	assert.Equal(t, int64(100), b.TotalPrice())
	assert.Equal(t, 2, b.Count())
}

func TestBasket_DuplicatesAllowed(t *testing.T) {
	b := NewBasket(&recorder{})
	b.AddItem(productA)
	b.AddItem(productA)

	assert.Equal(t, 2, b.Count())
	assert.Equal(t, int64(200), b.TotalPrice())
}

func TestBasket_RemoveItemRemovesAllLines(t *testing.T) {
	b := NewBasket(&recorder{})
	b.AddItem(productA)
	b.AddItem(productC)
	b.AddItem(productA)

	b.RemoveItem("a")

	assert.Equal(t, 1, b.Count())
	assert.False(t, b.HasProduct("a"))
	assert.Equal(t, []domain.Product{productC}, b.Items())
}

func TestBasket_RemoveItemIdempotent(t *testing.T) {
	once := NewBasket(&recorder{})
	twice := NewBasket(&recorder{})
	for _, b := range []*Basket{once, twice} {
		b.AddItem(productA)
		b.AddItem(productC)
	}

	once.RemoveItem("a")
	twice.RemoveItem("a")
	twice.RemoveItem("a")

	assert.Equal(t, once.Items(), twice.Items())
	assert.Equal(t, once.TotalPrice(), twice.TotalPrice())
}

func TestBasket_CountAndTotalInvariant(t *testing.T) {
	b := NewBasket(&recorder{})
	ops := []struct {
		add    *domain.Product
		remove string
	}{
		{add: &productA}, {add: &productB}, {add: &productC}, {remove: "b"},
		{add: &productA}, {remove: "zzz"}, {add: &productB}, {remove: "a"},
	}

	for _, op := range ops {
		if op.add != nil {
			b.AddItem(*op.add)
		} else {
			b.RemoveItem(op.remove)
		}

		var want int64
		for _, p := range b.Items() {
			if p.Price != nil {
				want += *p.Price
			}
		}
		assert.Equal(t, len(b.Items()), b.Count())
		assert.Equal(t, want, b.TotalPrice())
	}
}

func TestBasket_Clear(t *testing.T) {
	b := NewBasket(&recorder{})
	b.AddItem(productA)
	b.AddItem(productC)

	b.Clear()

	assert.Equal(t, 0, b.Count())
	assert.Equal(t, int64(0), b.TotalPrice())
	assert.Empty(t, b.Items())
	assert.False(t, b.HasProduct("a"))
}

func TestBasket_EveryMutationPublishes(t *testing.T) {
	rec := &recorder{}
	b := NewBasket(rec)

	b.AddItem(productA)
	assert.Equal(t, domain.BasketChanged{Count: 1, Total: 100}, rec.last())

	b.AddItem(productC)
	assert.Equal(t, domain.BasketChanged{Count: 2, Total: 250}, rec.last())

	b.RemoveItem("missing")
	assert.Equal(t, domain.BasketChanged{Count: 2, Total: 250}, rec.last())

	b.Clear()
	assert.Equal(t, domain.BasketChanged{Count: 0, Total: 0}, rec.last())

	assert.Len(t, rec.events, 4)
}

func TestBasket_ItemsReturnsCopy(t *testing.T) {
	b := NewBasket(&recorder{})
	b.AddItem(productA)

	got := b.Items()
	got[0] = productC

	assert.True(t, b.HasProduct("a"))
	assert.False(t, b.HasProduct("c"))
}

// ============================================================================
// Buyer
// ============================================================================

func TestBuyer_Defaults(t *testing.T) {
	b := NewBuyer()
	data := b.Data()

	assert.Equal(t, domain.PaymentUnset, data.Payment)
	assert.False(t, data.Payment.Valid())
	assert.Empty(t, data.Address)
	assert.Empty(t, data.Email)
	assert.Empty(t, data.Phone)
}

func TestBuyer_SetFieldTouchesOneField(t *testing.T) {
	b := NewBuyer()
	require.NoError(t, b.SetField(domain.FieldAddress, "Moscow"))
	require.NoError(t, b.SetField(domain.FieldPayment, "cash"))

	assert.Equal(t, domain.Buyer{Payment: domain.PaymentCash, Address: "Moscow"}, b.Data())
}

func TestBuyer_SetFieldUnknownField(t *testing.T) {
	b := NewBuyer()
	require.NoError(t, b.SetField(domain.FieldEmail, "x@y.com"))

	err := b.SetField(domain.BuyerField("name"), "Ivan")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, domain.Buyer{Email: "x@y.com"}, b.Data())
}

func TestBuyer_SetFieldInvalidPayment(t *testing.T) {
	b := NewBuyer()
	require.NoError(t, b.SetField(domain.FieldPayment, "card"))

	err := b.SetField(domain.FieldPayment, "bitcoin")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, domain.PaymentCard, b.Data().Payment)
}

func TestBuyer_ValidateAfterEmailOnly(t *testing.T) {
	b := NewBuyer()
	require.NoError(t, b.SetField(domain.FieldEmail, "x@y.com"))

	errs := b.Validate()

	assert.NotContains(t, errs, domain.FieldEmail)
	assert.Contains(t, errs, domain.FieldPayment)
	assert.Contains(t, errs, domain.FieldAddress)
	assert.Contains(t, errs, domain.FieldPhone)
}

func TestBuyer_ValidateBlankIsInvalid(t *testing.T) {
	b := NewBuyer()
	require.NoError(t, b.SetField(domain.FieldPayment, "card"))
	require.NoError(t, b.SetField(domain.FieldAddress, "   "))
	require.NoError(t, b.SetField(domain.FieldEmail, "\t"))
	require.NoError(t, b.SetField(domain.FieldPhone, "+7 900"))

	errs := b.Validate()

	assert.Equal(t, ValidationErrors{
		domain.FieldAddress: "delivery address is required",
		domain.FieldEmail:   "email is required",
	}, errs)
}

func TestBuyer_ValidateEmptyIffAllPresent(t *testing.T) {
	b := NewBuyer()
	assert.Len(t, b.Validate(), 4)

	require.NoError(t, b.SetField(domain.FieldPayment, "card"))
	require.NoError(t, b.SetField(domain.FieldAddress, "Moscow"))
	require.NoError(t, b.SetField(domain.FieldEmail, "not-an-email"))
	assert.Len(t, b.Validate(), 1)

	require.NoError(t, b.SetField(domain.FieldPhone, "1"))
	assert.Empty(t, b.Validate())
}

func TestBuyer_ValidateFieldsSubset(t *testing.T) {
	b := NewBuyer()
	require.NoError(t, b.SetField(domain.FieldPayment, "card"))

	errs := b.ValidateFields(domain.FieldPayment, domain.FieldAddress)

	assert.Equal(t, ValidationErrors{domain.FieldAddress: "delivery address is required"}, errs)
}

func TestBuyer_Clear(t *testing.T) {
	b := NewBuyer()
	require.NoError(t, b.SetField(domain.FieldPayment, "card"))
	require.NoError(t, b.SetField(domain.FieldPhone, "1"))

	b.Clear()

	assert.Equal(t, domain.Buyer{}, b.Data())
	assert.Len(t, b.Validate(), 4)
}

func TestValidationErrors_JoinOrder(t *testing.T) {
	errs := ValidationErrors{
		domain.FieldPhone:   "phone is required",
		domain.FieldPayment: "payment method is not selected",
		domain.FieldEmail:   "email is required",
	}

	assert.Equal(t, "payment method is not selected; email is required; phone is required", errs.Join())
	assert.Equal(t, "", ValidationErrors{}.Join())
}
