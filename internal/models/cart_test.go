package models

import (
	"testing"

	"github.com/google/uuid"
)

func testProduct(price float64) Product {
	p := Product{Price: price, Title: "Test product", Image: "img.jpg"}
	p.ID = uuid.New()
	return p
}

func TestAddLineMergesSameProduct(t *testing.T) {
	cart := &Cart{}
	product := testProduct(100)

	cart.AddLine(product, 2)
	cart.AddLine(product, 3)

	if len(cart.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", cart.Lines[0].Quantity)
	}
}

func TestAddLineDefaultsToOne(t *testing.T) {
	cart := &Cart{}
	cart.AddLine(testProduct(10), 0)
	cart.AddLine(testProduct(10), -4)

	for _, line := range cart.Lines {
		if line.Quantity != 1 {
			t.Errorf("expected quantity 1, got %d", line.Quantity)
		}
	}
}

func TestAddLinePreservesInsertionOrder(t *testing.T) {
	cart := &Cart{}
	first := testProduct(10)
	second := testProduct(20)
	third := testProduct(30)

	cart.AddLine(first, 1)
	cart.AddLine(second, 1)
	cart.AddLine(third, 1)
	cart.AddLine(second, 1)

	want := []uuid.UUID{first.ID, second.ID, third.ID}
	if len(cart.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(cart.Lines))
	}
	for i, id := range want {
		if cart.Lines[i].ProductID != id {
			t.Errorf("line %d: wrong product order", i)
		}
		if cart.Lines[i].Position != i {
			t.Errorf("line %d: expected position %d, got %d", i, i, cart.Lines[i].Position)
		}
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	cart := &Cart{}
	product := testProduct(50)
	cart.AddLine(product, 2)

	if !cart.SetQuantity(product.ID, 0) {
		t.Fatal("expected SetQuantity to find the line")
	}
	if len(cart.Lines) != 0 {
		t.Errorf("expected line removed, got %d lines", len(cart.Lines))
	}
}

func TestSetQuantityUnknownProduct(t *testing.T) {
	cart := &Cart{}
	cart.AddLine(testProduct(50), 1)

	if cart.SetQuantity(uuid.New(), 3) {
		t.Error("expected false for unknown product")
	}
	if len(cart.Lines) != 1 {
		t.Errorf("cart changed unexpectedly")
	}
}

func TestSubtotalAndItemCount(t *testing.T) {
	cart := &Cart{}
	a := testProduct(100)
	b := testProduct(25.5)

	cart.AddLine(a, 2)
	cart.AddLine(b, 4)

	if got := cart.Subtotal(); got != 302 {
		t.Errorf("expected subtotal 302, got %v", got)
	}
	if got := cart.ItemCount(); got != 6 {
		t.Errorf("expected item count 6, got %d", got)
	}

	cart.Clear()
	if cart.Subtotal() != 0 || cart.ItemCount() != 0 {
		t.Error("expected empty cart to total zero")
	}
}

func TestMergeFromSumsAndAppends(t *testing.T) {
	shared := testProduct(10)
	extra := testProduct(20)

	user := &Cart{}
	user.AddLine(shared, 1)

	guest := &Cart{}
	guest.AddLine(shared, 2)
	guest.AddLine(extra, 3)

	user.MergeFrom(guest)

	if len(user.Lines) != 2 {
		t.Fatalf("expected 2 lines after merge, got %d", len(user.Lines))
	}
	if user.Lines[0].ProductID != shared.ID || user.Lines[0].Quantity != 3 {
		t.Errorf("shared line not summed: qty %d", user.Lines[0].Quantity)
	}
	if user.Lines[1].ProductID != extra.ID || user.Lines[1].Quantity != 3 {
		t.Errorf("guest-only line not appended")
	}
	if user.Lines[1].Position != 1 {
		t.Errorf("appended line has wrong position %d", user.Lines[1].Position)
	}
}
