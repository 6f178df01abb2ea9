package catalog

import (
	"sort"
)

// addToCart adds qty units of p, capped at p.Stock. It reports false when the cart is unchanged.
func addToCart(cart Cart, p Product, qty int) (Cart, bool) {
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return cart, false
	}
	current := cart[p.ID].Qty
	next := min(current+qty, p.Stock)
	out := cart.clone()
	if next <= 0 {
		// out of stock: an entry with no units must not exist
		if _, ok := cart[p.ID]; !ok {
			return cart, false
		}
		delete(out, p.ID)
		return out, true
	}
	out[p.ID] = CartEntry{Product: p, Qty: next}
	return out, true
}

// setCartQty clamps qty to [0, stock] for an existing entry, removing it at zero.
func setCartQty(cart Cart, id string, qty int) (Cart, bool) {
	entry, ok := cart[id]
	if !ok {
		return cart, false
	}
	capped := max(0, min(qty, entry.Product.Stock))
	out := cart.clone()
	if capped == 0 {
		delete(out, id)
		return out, true
	}
	entry.Qty = capped
	out[id] = entry
	return out, true
}

func removeFromCart(cart Cart, id string) (Cart, bool) {
	if _, ok := cart[id]; !ok {
		return cart, false
	}
	out := cart.clone()
	delete(out, id)
	return out, true
}

// reconcileCart shrinks entries whose product stock dropped below the reserved quantity.
// Quantities never grow here. Entries left with no units are removed, the others get a
// refreshed stock on their snapshot.
func reconcileCart(cart Cart, byID map[string]int) Cart {
	out := cart.clone()
	for id, entry := range cart {
		stock, ok := byID[id]
		if !ok {
			continue
		}
		qty := min(entry.Qty, stock)
		if qty <= 0 {
			delete(out, id)
			continue
		}
		out[id] = CartEntry{Product: entry.Product.withStock(stock), Qty: qty}
	}
	return out
}

// ItemCount returns the total number of units in the cart.
func ItemCount(cart Cart) int {
	n := 0
	for _, e := range cart {
		n += e.Qty
	}
	return n
}

// Total returns the cart value using the prices captured in each entry's snapshot,
// so the figure does not move when the product list is refreshed.
func Total(cart Cart) float64 {
	var total float64
	for _, e := range cart {
		total += e.Product.Price * float64(e.Qty)
	}
	return total
}

// Entries returns the cart entries ordered by product id.
func Entries(cart Cart) []CartEntry {
	entries := make([]CartEntry, 0, len(cart))
	for _, e := range cart {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Product.ID < entries[j].Product.ID
	})
	return entries
}
