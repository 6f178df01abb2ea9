package catalog

// Reduce returns the state that results from applying a to s.
// It is total: unknown actions and no-op requests return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case FetchStart:
		s.Loading = true
		s.Error = ""
		return s

	case FetchOK:
		s.Loading = false
		s.Error = ""
		s.Products = a.Products
		if s.Products == nil {
			s.Products = []Product{}
		}
		return s

	case FetchErr:
		s.Loading = false
		s.Error = a.Message
		return s

	case SetFilters:
		s.Filters = a.Patch.apply(s.Filters)
		return s

	case Add:
		cart, ok := addToCart(s.Cart, a.Product, a.Qty)
		if !ok {
			return s
		}
		s.Cart = cart
		return s

	case SetQty:
		cart, ok := setCartQty(s.Cart, a.ID, a.Qty)
		if !ok {
			return s
		}
		s.Cart = cart
		return s

	case Remove:
		cart, ok := removeFromCart(s.Cart, a.ID)
		if !ok {
			return s
		}
		s.Cart = cart
		return s

	case Clear:
		s.Cart = Cart{}
		return s

	case StockPatch:
		if len(a.ByID) == 0 {
			return s
		}
		s.Products = patchStock(s.Products, a.ByID)
		s.Cart = reconcileCart(s.Cart, a.ByID)
		return s

	default:
		return s
	}
}

// patchStock returns a copy of products with stock replaced for every id in byID.
func patchStock(products []Product, byID map[string]int) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		if stock, ok := byID[p.ID]; ok {
			out[i] = p.withStock(max(stock, 0))
			continue
		}
		out[i] = p
	}
	return out
}
