package stats

import (
	"fmt"

	"orderstats/internal/model"
	"orderstats/internal/state"
)

const (
	datePrefix = "d/"
	userPrefix = "u/"
)

// Aggregator folds orders into a Result, keeping per-date and per-user
// tallies in st. The store is expected to be empty.
type Aggregator struct {
	st state.Store
}

func NewAggregator(st state.Store) *Aggregator {
	return &Aggregator{st: st}
}

// Aggregate runs the fold on a fresh in-memory store.
func Aggregate(orders []model.Order) (model.Result, error) {
	return NewAggregator(state.NewInMemoryStore()).Aggregate(orders)
}

// Aggregate makes one pass over orders in slice order. The running maxima for
// price and quantity are replaced only by a strictly greater value, so the
// earliest order wins a tie. Both maxima start from the first order, so a
// non-empty input always names an order, even when every price or quantity is
// zero. Date and user winners are picked after the pass, ties going to the key
// seen first. Users are printed the way their first order spelled them.
func (a *Aggregator) Aggregate(orders []model.Order) (model.Result, error) {
	if len(orders) == 0 {
		return model.EmptyResult(), nil
	}

	res := model.Result{}
	var maxPrice, maxQty float64
	users := make(map[string]string)
	for i, o := range orders {
		seq := int64(i)
		if _, err := a.st.Add(datePrefix+o.Date, 0, seq); err != nil {
			return model.Result{}, fmt.Errorf("tally date %s: %w", o.Date, err)
		}
		ust, err := a.st.Add(userPrefix+o.UserID.Key, o.Price, seq)
		if err != nil {
			return model.Result{}, fmt.Errorf("tally user %s: %w", o.UserID, err)
		}
		if ust.Count == 1 {
			users[o.UserID.Key] = o.UserID.Text
		}

		res.TotalPrice += o.Price
		res.TotalQuantity += o.Quantity
		res.OrderCount++

		if i == 0 || o.Price > maxPrice {
			maxPrice = o.Price
			res.MostExpensiveOrder = o.OrderID
		}
		if i == 0 || o.Quantity > maxQty {
			maxQty = o.Quantity
			res.OrderWithMostItems = o.OrderID
		}
	}

	var err error
	if res.BusiestDate, err = a.pick(datePrefix, byCount); err != nil {
		return model.Result{}, err
	}
	if res.MostActiveUser, err = a.pick(userPrefix, byCount); err != nil {
		return model.Result{}, err
	}
	if res.TopSpender, err = a.pick(userPrefix, bySum); err != nil {
		return model.Result{}, err
	}
	res.MostActiveUser = users[res.MostActiveUser]
	res.TopSpender = users[res.TopSpender]

	res.AverageOrderPrice = safeDiv(res.TotalPrice, float64(res.OrderCount))
	res.AverageItemPrice = safeDiv(res.TotalPrice, res.TotalQuantity)
	return res, nil
}

func byCount(st state.RecordState) float64 { return float64(st.Count) }
func bySum(st state.RecordState) float64   { return st.Sum }

// pick returns the key (without prefix) with the greatest value, or
// model.NotAvailable if there are no keys.
func (a *Aggregator) pick(prefix string, value func(state.RecordState) float64) (string, error) {
	best := model.NotAvailable
	var bestVal float64
	var bestSeen int64
	found := false
	err := a.st.Range(prefix, func(key string, st state.RecordState) error {
		v := value(st)
		if !found || v > bestVal || (v == bestVal && st.FirstSeen < bestSeen) {
			best, bestVal, bestSeen, found = key[len(prefix):], v, st.FirstSeen, true
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("select %s: %w", prefix, err)
	}
	return best, nil
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
