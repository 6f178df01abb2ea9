package catalog

// Kind identifies an action type.
type Kind string

const (
	KindFetchStart Kind = "FETCH_START"
	KindFetchOK    Kind = "FETCH_OK"
	KindFetchErr   Kind = "FETCH_ERR"
	KindSetFilters Kind = "SET_FILTERS"
	KindAdd        Kind = "ADD"
	KindSetQty     Kind = "SET_QTY"
	KindRemove     Kind = "REMOVE"
	KindClear      Kind = "CLEAR"
	KindStockPatch Kind = "STOCK_PATCH"
)

// Action is a state transition request handled by Reduce.
// Types outside this package may implement it; Reduce ignores kinds it does not know.
type Action interface {
	Kind() Kind
}

// FetchStart marks the beginning of the initial product load.
type FetchStart struct{}

// FetchOK carries the loaded product list, which replaces the current one.
type FetchOK struct {
	Products []Product
}

// FetchErr carries a display message for a failed product load.
type FetchErr struct {
	Message string
}

// SetFilters merges a partial filter update.
type SetFilters struct {
	Patch FilterPatch
}

// Add puts Qty units of Product in the cart. A zero Qty means one unit.
type Add struct {
	Product Product
	Qty     int
}

// SetQty sets the quantity of an existing cart entry, clamped to [0, stock].
type SetQty struct {
	ID  string
	Qty int
}

// Remove drops a cart entry.
type Remove struct {
	ID string
}

// Clear empties the cart.
type Clear struct{}

// StockPatch carries new stock counts for a subset of products, keyed by product id.
type StockPatch struct {
	ByID map[string]int
}

func (FetchStart) Kind() Kind { return KindFetchStart }
func (FetchOK) Kind() Kind { return KindFetchOK }
func (FetchErr) Kind() Kind { return KindFetchErr }
func (SetFilters) Kind() Kind { return KindSetFilters }
func (Add) Kind() Kind { return KindAdd }
func (SetQty) Kind() Kind { return KindSetQty }
func (Remove) Kind() Kind { return KindRemove }
func (Clear) Kind() Kind { return KindClear }
func (StockPatch) Kind() Kind { return KindStockPatch }
