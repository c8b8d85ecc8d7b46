package services

import (
	"fmt"
)

// CartLine is one product entry in an in-progress order.
type CartLine struct {
	ProductID uint
	Name      string
	UnitPrice float64
	Quantity  int
	Notes     string

	// ayceLimit is the per-cart quantity cap while AYCE pricing is active;
	// 0 means unlimited.
	ayceLimit int
}

// AyceLimitError is returned when adding or setting a quantity would exceed a
// product's per-cart AYCE limit. The previous quantity stands.
type AyceLimitError struct {
	Product string
	Limit   int
}

func (e *AyceLimitError) Error() string {
	return fmt.Sprintf("limit reached: maximum %d pieces of %s with the All You Can Eat plan", e.Limit, e.Product)
}

// Cart models the customer's editable order before submission. It applies the
// restaurant's pricing mode: under AYCE every unit and line total is zero and
// per-product limits are enforced; otherwise totals are unit price times
// quantity. Limits count per cart, not across the session: a new order starts
// a fresh count.
type Cart struct {
	AllYouCanEat bool
	lines        []*CartLine
}

func NewCart(ayce bool) *Cart {
	return &Cart{AllYouCanEat: ayce}
}

// Add puts one more unit of the product in the cart.
func (c *Cart) Add(productID uint, name string, price float64, ayceLimit int) error {
	line := c.find(productID)
	if c.AllYouCanEat && ayceLimit > 0 {
		current := 0
		if line != nil {
			current = line.Quantity
		}
		if current >= ayceLimit {
			return &AyceLimitError{Product: name, Limit: ayceLimit}
		}
	}

	if line != nil {
		line.Quantity++
		return nil
	}
	c.lines = append(c.lines, &CartLine{
		ProductID: productID,
		Name:      name,
		UnitPrice: price,
		Quantity:  1,
		ayceLimit: ayceLimit,
	})
	return nil
}

// SetQuantity sets the line to an exact quantity. Zero or less removes the
// line entirely; a value over the AYCE limit is rejected and the previous
// quantity is kept.
func (c *Cart) SetQuantity(productID uint, quantity int) error {
	line := c.find(productID)
	if line == nil {
		return nil
	}
	if quantity <= 0 {
		c.remove(productID)
		return nil
	}
	if c.AllYouCanEat && line.ayceLimit > 0 && quantity > line.ayceLimit {
		return &AyceLimitError{Product: line.Name, Limit: line.ayceLimit}
	}
	line.Quantity = quantity
	return nil
}

func (c *Cart) SetNotes(productID uint, notes string) {
	if line := c.find(productID); line != nil {
		line.Notes = notes
	}
}

// Quantity returns the current quantity of the product, 0 when absent.
func (c *Cart) Quantity(productID uint) int {
	if line := c.find(productID); line != nil {
		return line.Quantity
	}
	return 0
}

// Lines returns the surviving lines, every one with quantity >= 1.
func (c *Cart) Lines() []*CartLine {
	return c.lines
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// UnitPrice is what a line actually charges per unit under the cart's pricing
// mode. Under AYCE the stored product price is informational only.
func (c *Cart) UnitPrice(line *CartLine) float64 {
	if c.AllYouCanEat {
		return 0
	}
	return line.UnitPrice
}

// LineTotal is always recomputed from unit price and quantity.
func (c *Cart) LineTotal(line *CartLine) float64 {
	return c.UnitPrice(line) * float64(line.Quantity)
}

// Total sums the line totals. Under AYCE it is zero regardless of quantities;
// the per-guest fixed price is billed out of band.
func (c *Cart) Total() float64 {
	if c.AllYouCanEat {
		return 0
	}
	var total float64
	for _, line := range c.lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

func (c *Cart) find(productID uint) *CartLine {
	for _, line := range c.lines {
		if line.ProductID == productID {
			return line
		}
	}
	return nil
}

func (c *Cart) remove(productID uint) {
	for i, line := range c.lines {
		if line.ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}
